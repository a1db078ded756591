package recommendations

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"potplanner-backend/internal/llm"
)

type stubLLM struct {
	raw   json.RawMessage
	err   error
	delay time.Duration
	calls int
}

func (c *stubLLM) SuggestCombination(ctx context.Context, input llm.SuggestInput) (json.RawMessage, error) {
	c.calls++
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return c.raw, c.err
}

func TestAIProviderHit(t *testing.T) {
	client := &stubLLM{raw: json.RawMessage(`{"veggie_ids":["nira","negi"],"mushroom_id":"maitake","reason":"collagen pairing"}`)}
	provider := &AIProvider{LLM: client}

	result, err := provider.Recommend(context.Background(), baseInput)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if result == nil {
		t.Fatalf("expected a hit")
	}
	if result.Source != SourceAI || result.Reason != "collagen pairing" {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.VeggieIDs != [2]string{"nira", "negi"} || result.MushroomID != "maitake" {
		t.Fatalf("unexpected combination %+v", result)
	}
}

func TestAIProviderDefaultsReason(t *testing.T) {
	client := &stubLLM{raw: json.RawMessage(`{"veggie_ids":["nira","negi"],"mushroom_id":"maitake"}`)}
	provider := &AIProvider{LLM: client}

	result, err := provider.Recommend(context.Background(), baseInput)
	if err != nil || result == nil {
		t.Fatalf("Recommend: result=%v err=%v", result, err)
	}
	if result.Reason != "ai:generated" {
		t.Fatalf("expected default reason, got %q", result.Reason)
	}
}

func TestAIProviderFailuresAreMisses(t *testing.T) {
	tests := []struct {
		name   string
		client *stubLLM
	}{
		{"transport error", &stubLLM{err: errors.New("connection refused")}},
		{"empty payload", &stubLLM{raw: nil}},
		{"not json", &stubLLM{raw: json.RawMessage(`pick nira and negi`)}},
		{"missing veggie ids", &stubLLM{raw: json.RawMessage(`{"mushroom_id":"maitake"}`)}},
		{"missing mushroom", &stubLLM{raw: json.RawMessage(`{"veggie_ids":["nira","negi"]}`)}},
		{"three veggies", &stubLLM{raw: json.RawMessage(`{"veggie_ids":["nira","negi","komatsuna"],"mushroom_id":"maitake"}`)}},
		{"veggie outside pool", &stubLLM{raw: json.RawMessage(`{"veggie_ids":["nira","hakusai"],"mushroom_id":"maitake"}`)}},
		{"mushroom outside pool", &stubLLM{raw: json.RawMessage(`{"veggie_ids":["nira","negi"],"mushroom_id":"enoki"}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &AIProvider{LLM: tt.client}
			result, err := provider.Recommend(context.Background(), baseInput)
			if err != nil {
				t.Fatalf("expected failure converted to miss, got error %v", err)
			}
			if result != nil {
				t.Fatalf("expected miss, got %+v", result)
			}
		})
	}
}

func TestAIProviderTimeoutIsMiss(t *testing.T) {
	client := &stubLLM{
		raw:   json.RawMessage(`{"veggie_ids":["nira","negi"],"mushroom_id":"maitake"}`),
		delay: 200 * time.Millisecond,
	}
	provider := &AIProvider{LLM: client, Timeout: 10 * time.Millisecond}

	start := time.Now()
	result, err := provider.Recommend(context.Background(), baseInput)
	if err != nil {
		t.Fatalf("expected timeout converted to miss, got error %v", err)
	}
	if result != nil {
		t.Fatalf("expected miss, got %+v", result)
	}
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Fatalf("timeout did not bound the wait, took %v", elapsed)
	}
}

func TestAIProviderCancelledContextIsMiss(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &stubLLM{delay: time.Second}
	provider := &AIProvider{LLM: client, Timeout: time.Second}

	result, err := provider.Recommend(ctx, baseInput)
	if err != nil {
		t.Fatalf("expected cancellation converted to miss, got error %v", err)
	}
	if result != nil {
		t.Fatalf("expected miss, got %+v", result)
	}
}
