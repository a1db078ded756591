package recommendations

import (
	"context"
	"time"
)

// GetRecommendedVeggies resolves a veggie/mushroom combination by trying the
// matrix, AI, and fallback providers in that fixed order, short-circuiting on
// the first hit. Provider errors never propagate; they are emitted as events
// and treated as misses. Only full exhaustion returns ErrNoRecommendation.
func GetRecommendedVeggies(ctx context.Context, input Input, deps Dependencies) (Result, error) {
	deps = deps.withDefaults()
	startedAt := time.Now()

	emit := func(event Event) {
		if deps.Observer == nil {
			return
		}
		event.PotBase = input.PotBase
		event.ProteinID = input.ProteinID
		deps.Observer.Emit(event)
	}

	runProvider := func(name Source, provider Provider) *Result {
		result, err := provider.Recommend(ctx, input)
		if err != nil {
			emit(Event{
				Type:         EventProviderError,
				Provider:     name,
				ErrorMessage: err.Error(),
			})
			return nil
		}
		if result == nil {
			emit(Event{
				Type:     EventProviderMiss,
				Provider: name,
			})
		}
		return result
	}

	emit(Event{Type: EventStarted})

	chain := []struct {
		name     Source
		provider Provider
	}{
		{SourceMatrix, deps.Matrix},
		{SourceAI, deps.AI},
		{SourceFallback, deps.Fallback},
	}

	for _, link := range chain {
		result := runProvider(link.name, link.provider)
		if result == nil {
			continue
		}
		emit(Event{
			Type:     EventResolved,
			Provider: result.Source,
			Reason:   result.Reason,
			Duration: time.Since(startedAt),
		})
		return *result, nil
	}

	emit(Event{
		Type:     EventFailed,
		Duration: time.Since(startedAt),
	})
	return Result{}, ErrNoRecommendation
}
