package recommendations

import (
	"context"
	"time"

	"potplanner-backend/internal/llm"
	"potplanner-backend/internal/shared/cache"
)

// Options tunes the concrete provider chain.
type Options struct {
	AITimeout      time.Duration
	MatrixCacheTTL time.Duration
	Debug          bool
	Monitoring     bool
	SnapshotEvery  int
	PersistEvents  bool
}

// Service wires the resolution engine to its concrete providers and exposes
// the recommendation operations to the transport layer.
type Service struct {
	Repo     Repo
	Deps     Dependencies
	Observer *MonitorObserver
}

// NewService assembles the matrix -> ai -> fallback chain over the given
// repo and LLM client. matrixCache may be nil to disable row caching;
// llmClient may be nil to run offline (the AI provider then always misses).
func NewService(repo Repo, llmClient llm.Client, matrixCache *cache.Cache, opts Options) *Service {
	observer := &MonitorObserver{
		Debug:         opts.Debug,
		Monitoring:    opts.Monitoring,
		SnapshotEvery: opts.SnapshotEvery,
	}
	if opts.PersistEvents {
		observer.Persist = repo.InsertEventRecord
	}

	var aiProvider Provider = noopProvider{}
	if llmClient != nil {
		aiProvider = &AIProvider{LLM: llmClient, Timeout: opts.AITimeout}
	}

	deps := Dependencies{
		Matrix: &MatrixProvider{
			Repo:     repo,
			Cache:    matrixCache,
			CacheTTL: opts.MatrixCacheTTL,
		},
		AI: &CachedAIProvider{
			Inner:    aiProvider,
			Writer:   &CacheBackWriter{Repo: repo, Observer: observer},
			Observer: observer,
		},
		Fallback: FallbackProvider{},
		Observer: observer,
	}

	return &Service{Repo: repo, Deps: deps, Observer: observer}
}

// Recommend resolves a validated veggie/mushroom combination for the input.
func (s *Service) Recommend(ctx context.Context, input Input) (Result, error) {
	return GetRecommendedVeggies(ctx, input, s.Deps)
}
