package recommendations

import "context"

const (
	aiCachePriority      = 500
	aiCacheEvidenceLevel = 1
	aiCacheCategory      = "ai_generated"
)

// CacheBackWriter persists freshly produced AI results into the synergy
// matrix so future requests hit the matrix provider instead. Writes are
// duplicate-ignoring on the natural key; AI-sourced rows carry a low-priority,
// low-evidence marker distinguishing them from curated rows.
type CacheBackWriter struct {
	Repo     Repo
	Observer Observer
}

// CacheAIRecommendation upserts the result as a matrix row. Only AI-sourced
// results are written. A failed write emits ai_cache_failed and returns the
// error; the caller decides that it never reaches the end user.
func (w *CacheBackWriter) CacheAIRecommendation(ctx context.Context, request Input, result Result) error {
	if result.Source != SourceAI {
		return nil
	}

	row := MatrixRow{
		PotBase:           request.PotBase,
		ProteinID:         request.ProteinID,
		VeggieIDA:         result.VeggieIDs[0],
		VeggieIDB:         result.VeggieIDs[1],
		MushroomID:        result.MushroomID,
		SynergyReason:     result.Reason,
		NutritionCategory: aiCacheCategory,
		EvidenceLevel:     aiCacheEvidenceLevel,
		Priority:          aiCachePriority,
		IsActive:          true,
	}

	if _, err := w.Repo.InsertMatrixRowIgnoreDup(ctx, row); err != nil {
		w.emit(Event{
			Type:         EventCacheFailed,
			PotBase:      request.PotBase,
			ProteinID:    request.ProteinID,
			Provider:     SourceAI,
			ErrorMessage: err.Error(),
		})
		return err
	}

	w.emit(Event{
		Type:      EventCacheSaved,
		PotBase:   request.PotBase,
		ProteinID: request.ProteinID,
		Provider:  SourceAI,
	})
	return nil
}

func (w *CacheBackWriter) emit(event Event) {
	if w.Observer == nil {
		return
	}
	w.Observer.Emit(event)
}
