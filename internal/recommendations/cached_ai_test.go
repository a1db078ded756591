package recommendations

import (
	"context"
	"errors"
	"testing"
)

type insertFailingRepo struct {
	MemoryRepo
}

func (r *insertFailingRepo) InsertMatrixRowIgnoreDup(ctx context.Context, row MatrixRow) (bool, error) {
	return false, errors.New("insert failed")
}

func TestCachedAIEmitsInvokedBeforeDelegating(t *testing.T) {
	obs := &recordingObserver{}
	provider := &CachedAIProvider{
		Inner:    &stubProvider{},
		Observer: obs,
	}

	result, err := provider.Recommend(context.Background(), baseInput)
	if err != nil || result != nil {
		t.Fatalf("expected miss passthrough, got result=%v err=%v", result, err)
	}
	types := obs.types()
	if len(types) != 1 || types[0] != EventAIInvoked {
		t.Fatalf("expected [ai_invoked], got %v", types)
	}
}

func TestCachedAIWritesHitBackToMatrix(t *testing.T) {
	repo := NewMemoryRepo()
	obs := &recordingObserver{}
	hit := &Result{
		VeggieIDs:  [2]string{"nira", "negi"},
		MushroomID: "maitake",
		Source:     SourceAI,
		Reason:     "ai:generated",
	}
	provider := &CachedAIProvider{
		Inner:    &stubProvider{result: hit},
		Writer:   &CacheBackWriter{Repo: repo, Observer: obs},
		Observer: obs,
	}

	result, err := provider.Recommend(context.Background(), baseInput)
	if err != nil || result == nil {
		t.Fatalf("Recommend: result=%v err=%v", result, err)
	}

	if repo.MatrixRowCount() != 1 {
		t.Fatalf("expected one cached matrix row, got %d", repo.MatrixRowCount())
	}
	rows, err := repo.ListActiveMatrixRows(context.Background(), "yose", "pork_loin")
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListActiveMatrixRows: rows=%d err=%v", len(rows), err)
	}
	row := rows[0]
	if row.Priority != 500 || row.EvidenceLevel != 1 || row.NutritionCategory != "ai_generated" {
		t.Fatalf("unexpected cached row markers %+v", row)
	}
	if row.VeggieIDA != "nira" || row.VeggieIDB != "negi" || row.MushroomID != "maitake" {
		t.Fatalf("unexpected cached combination %+v", row)
	}

	types := obs.types()
	if len(types) != 2 || types[0] != EventAIInvoked || types[1] != EventCacheSaved {
		t.Fatalf("expected [ai_invoked, ai_cache_saved], got %v", types)
	}
}

func TestCachedAIWriteIsIdempotent(t *testing.T) {
	repo := NewMemoryRepo()
	hit := &Result{
		VeggieIDs:  [2]string{"nira", "negi"},
		MushroomID: "maitake",
		Source:     SourceAI,
		Reason:     "ai:generated",
	}
	provider := &CachedAIProvider{
		Inner:  &stubProvider{result: hit},
		Writer: &CacheBackWriter{Repo: repo},
	}

	for i := 0; i < 3; i++ {
		if _, err := provider.Recommend(context.Background(), baseInput); err != nil {
			t.Fatalf("Recommend %d: %v", i, err)
		}
	}
	if repo.MatrixRowCount() != 1 {
		t.Fatalf("expected duplicate writes ignored, got %d rows", repo.MatrixRowCount())
	}
}

func TestCachedAIWriteFailureDoesNotAffectResult(t *testing.T) {
	obs := &recordingObserver{}
	hit := &Result{
		VeggieIDs:  [2]string{"nira", "negi"},
		MushroomID: "maitake",
		Source:     SourceAI,
		Reason:     "ai:generated",
	}
	provider := &CachedAIProvider{
		Inner:    &stubProvider{result: hit},
		Writer:   &CacheBackWriter{Repo: &insertFailingRepo{}, Observer: obs},
		Observer: obs,
	}

	result, err := provider.Recommend(context.Background(), baseInput)
	if err != nil {
		t.Fatalf("cache failure leaked to caller: %v", err)
	}
	if result == nil || *result != *hit {
		t.Fatalf("expected the AI result untouched, got %+v", result)
	}

	types := obs.types()
	if len(types) != 2 || types[0] != EventAIInvoked || types[1] != EventCacheFailed {
		t.Fatalf("expected [ai_invoked, ai_cache_failed], got %v", types)
	}
}

func TestCacheBackSkipsNonAIResults(t *testing.T) {
	repo := NewMemoryRepo()
	writer := &CacheBackWriter{Repo: repo}

	err := writer.CacheAIRecommendation(context.Background(), baseInput, Result{
		VeggieIDs:  [2]string{"nira", "negi"},
		MushroomID: "maitake",
		Source:     SourceFallback,
		Reason:     "fallback:default-candidates",
	})
	if err != nil {
		t.Fatalf("CacheAIRecommendation: %v", err)
	}
	if repo.MatrixRowCount() != 0 {
		t.Fatalf("expected no write for non-ai source, got %d rows", repo.MatrixRowCount())
	}
}
