package recommendations

import (
	"context"

	"potplanner-backend/internal/shared/telemetry"
)

// CachedAIProvider wraps the AI provider: it emits ai_invoked before
// delegating and caches hits back into the synergy matrix. The cache write is
// awaited for ordering, but its outcome is discarded; a failed write never
// affects the recommendation already computed for the caller.
type CachedAIProvider struct {
	Inner    Provider
	Writer   *CacheBackWriter
	Observer Observer
}

func (p *CachedAIProvider) Recommend(ctx context.Context, input Input) (*Result, error) {
	if p.Observer != nil {
		p.Observer.Emit(Event{
			Type:      EventAIInvoked,
			PotBase:   input.PotBase,
			ProteinID: input.ProteinID,
			Provider:  SourceAI,
		})
	}

	result, err := p.Inner.Recommend(ctx, input)
	if err != nil || result == nil {
		return result, err
	}

	if p.Writer != nil {
		if cacheErr := p.Writer.CacheAIRecommendation(ctx, input, *result); cacheErr != nil {
			telemetry.Debug("ai cache save failed", map[string]any{
				"pot_base":   input.PotBase,
				"protein_id": input.ProteinID,
				"error":      cacheErr.Error(),
			})
		}
	}

	return result, nil
}

var _ Provider = (*CachedAIProvider)(nil)
