package recommendations

import (
	"context"
	"encoding/json"
	"time"

	"potplanner-backend/internal/llm"
	"potplanner-backend/internal/shared/telemetry"
)

const (
	defaultAITimeout = 1800 * time.Millisecond
	defaultAIReason  = "ai:generated"
)

// AIProvider recommends through an external generative model, bounded by a
// timeout. Every failure mode (timeout, transport error, malformed payload,
// rejected candidate) degrades uniformly to a miss; callers only see
// hit-vs-miss.
type AIProvider struct {
	LLM     llm.Client
	Timeout time.Duration
}

type aiPayload struct {
	VeggieIDs  []string `json:"veggie_ids"`
	MushroomID string   `json:"mushroom_id"`
	Reason     string   `json:"reason"`
}

func (p *AIProvider) Recommend(ctx context.Context, input Input) (*Result, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultAITimeout
	}

	type outcome struct {
		raw json.RawMessage
		err error
	}

	// Bounded wait, not cancellation: the call races a timer and the losing
	// branch is abandoned. The channel is buffered so a late completion is
	// discarded without blocking its goroutine.
	ch := make(chan outcome, 1)
	go func() {
		raw, err := p.LLM.SuggestCombination(ctx, llm.SuggestInput{
			PotBase:              input.PotBase,
			ProteinID:            input.ProteinID,
			Goal:                 input.Goal,
			Locale:               input.Locale,
			CandidateVeggieIDs:   input.CandidateVeggieIDs,
			CandidateMushroomIDs: input.CandidateMushroomIDs,
		})
		ch <- outcome{raw: raw, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var out outcome
	select {
	case out = <-ch:
	case <-timer.C:
		telemetry.Debug("ai invoke timeout", map[string]any{
			"pot_base":   input.PotBase,
			"protein_id": input.ProteinID,
			"timeout_ms": timeout.Milliseconds(),
		})
		return nil, nil
	case <-ctx.Done():
		return nil, nil
	}

	if out.err != nil || len(out.raw) == 0 {
		fields := map[string]any{
			"pot_base":   input.PotBase,
			"protein_id": input.ProteinID,
		}
		if out.err != nil {
			fields["error"] = out.err.Error()
		}
		telemetry.Debug("ai invoke failed", fields)
		return nil, nil
	}

	parsed, ok := parseAIPayload(out.raw)
	if !ok {
		telemetry.Debug("ai payload parse failed", map[string]any{
			"pot_base":   input.PotBase,
			"protein_id": input.ProteinID,
		})
		return nil, nil
	}

	if !isValidCandidate(Candidate{VeggieIDs: parsed.VeggieIDs, MushroomID: parsed.MushroomID}, input) {
		telemetry.Debug("ai recommendation rejected by candidate validation", map[string]any{
			"pot_base":   input.PotBase,
			"protein_id": input.ProteinID,
		})
		return nil, nil
	}

	reason := parsed.Reason
	if reason == "" {
		reason = defaultAIReason
	}
	return &Result{
		VeggieIDs:  [2]string{parsed.VeggieIDs[0], parsed.VeggieIDs[1]},
		MushroomID: parsed.MushroomID,
		Source:     SourceAI,
		Reason:     reason,
	}, nil
}

// parseAIPayload accepts payloads carrying veggie_ids as a string list and
// mushroom_id as a string; anything else is rejected.
func parseAIPayload(raw json.RawMessage) (aiPayload, bool) {
	var payload aiPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return aiPayload{}, false
	}
	if payload.VeggieIDs == nil || payload.MushroomID == "" {
		return aiPayload{}, false
	}
	return payload, true
}

var _ Provider = (*AIProvider)(nil)
