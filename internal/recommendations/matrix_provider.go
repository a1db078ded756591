package recommendations

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"potplanner-backend/internal/shared/cache"
	"potplanner-backend/internal/shared/telemetry"
)

// MatrixProvider recommends from the persisted synergy matrix. Every failure
// mode, store errors included, degrades to a miss; this provider never errors.
type MatrixProvider struct {
	Repo Repo

	// Cache is an optional read-through cache over the row query.
	Cache    *cache.Cache
	CacheTTL time.Duration
}

func (p *MatrixProvider) Recommend(ctx context.Context, input Input) (*Result, error) {
	rows, err := p.loadRows(ctx, input.PotBase, input.ProteinID)
	if err != nil || len(rows) == 0 {
		fields := map[string]any{
			"pot_base":   input.PotBase,
			"protein_id": input.ProteinID,
		}
		if err != nil {
			fields["error"] = err.Error()
		}
		telemetry.Debug("matrix lookup miss or error", fields)
		return nil, nil
	}

	// The store orders rows already, but sort defensively so the first
	// valid row really is the highest ranked one.
	sortMatrixRows(rows)

	for _, row := range rows {
		candidate := Candidate{
			VeggieIDs:  []string{row.VeggieIDA, row.VeggieIDB},
			MushroomID: row.MushroomID,
		}
		if !isValidCandidate(candidate, input) {
			continue
		}
		return &Result{
			VeggieIDs:  [2]string{row.VeggieIDA, row.VeggieIDB},
			MushroomID: row.MushroomID,
			Source:     SourceMatrix,
			Reason:     row.SynergyReason,
		}, nil
	}

	telemetry.Debug("all matrix rows rejected by candidate validation", map[string]any{
		"pot_base":   input.PotBase,
		"protein_id": input.ProteinID,
		"row_count":  len(rows),
	})
	return nil, nil
}

func (p *MatrixProvider) loadRows(ctx context.Context, potBase, proteinID string) ([]MatrixRow, error) {
	key := "matrix:" + potBase + ":" + proteinID

	if p.Cache != nil {
		if data, ok := p.Cache.Get(key); ok {
			var cached []MatrixRow
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
			p.Cache.Delete(key)
		}
	}

	rows, err := p.Repo.ListActiveMatrixRows(ctx, potBase, proteinID)
	if err != nil {
		return nil, err
	}

	if p.Cache != nil && len(rows) > 0 {
		ttl := p.CacheTTL
		if ttl <= 0 {
			ttl = time.Minute
		}
		if data, err := json.Marshal(rows); err == nil {
			p.Cache.Set(key, data, ttl)
		}
	}
	return rows, nil
}

// sortMatrixRows orders by ascending priority, then most recently updated.
func sortMatrixRows(rows []MatrixRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Priority != rows[j].Priority {
			return rows[i].Priority < rows[j].Priority
		}
		return rows[i].UpdatedAt.After(rows[j].UpdatedAt)
	})
}

var _ Provider = (*MatrixProvider)(nil)
