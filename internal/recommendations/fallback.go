package recommendations

import "context"

const fallbackReason = "fallback:default-candidates"

// FallbackProvider is the deterministic, offline-safe terminal safety net:
// the first two non-mushroom candidates in input order plus the first
// mushroom candidate.
type FallbackProvider struct{}

// Recommend picks pool-leading candidates. It misses only when the pools are
// too small to satisfy the two-veggies-one-mushroom shape.
func (FallbackProvider) Recommend(ctx context.Context, input Input) (*Result, error) {
	_ = ctx

	nonMushroom := make([]string, 0, len(input.CandidateVeggieIDs))
	for _, id := range input.CandidateVeggieIDs {
		if !contains(input.CandidateMushroomIDs, id) {
			nonMushroom = append(nonMushroom, id)
		}
	}

	if len(nonMushroom) < 2 || len(input.CandidateMushroomIDs) < 1 {
		return nil, nil
	}

	return &Result{
		VeggieIDs:  [2]string{nonMushroom[0], nonMushroom[1]},
		MushroomID: input.CandidateMushroomIDs[0],
		Source:     SourceFallback,
		Reason:     fallbackReason,
	}, nil
}
