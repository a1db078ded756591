package recommendations

import "context"

// Provider is a strategy that attempts to produce a recommendation from one
// source. A (nil, nil) return is a miss, distinct from an error.
type Provider interface {
	Recommend(ctx context.Context, input Input) (*Result, error)
}

// Observer receives lifecycle events. Implementations must not let their own
// failures reach the caller; Emit is fire-and-forget.
type Observer interface {
	Emit(event Event)
}

// Dependencies supplies the provider chain and an optional observer to the
// resolution engine. Zero-value fields fall back to defaults, so the engine
// is usable standalone in tests with no external calls.
type Dependencies struct {
	Matrix   Provider
	AI       Provider
	Fallback Provider
	Observer Observer
}

// DefaultDependencies returns all-miss matrix/AI providers and the
// deterministic fallback.
func DefaultDependencies() Dependencies {
	return Dependencies{
		Matrix:   noopProvider{},
		AI:       noopProvider{},
		Fallback: FallbackProvider{},
	}
}

type noopProvider struct{}

func (noopProvider) Recommend(ctx context.Context, input Input) (*Result, error) {
	_ = ctx
	_ = input
	return nil, nil
}

func (d Dependencies) withDefaults() Dependencies {
	defaults := DefaultDependencies()
	if d.Matrix == nil {
		d.Matrix = defaults.Matrix
	}
	if d.AI == nil {
		d.AI = defaults.AI
	}
	if d.Fallback == nil {
		d.Fallback = defaults.Fallback
	}
	return d
}
