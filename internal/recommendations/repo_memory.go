package recommendations

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo stores matrix rows, alternatives and events in memory and is
// safe for concurrent use. It backs tests and DB-less dev runs.
type MemoryRepo struct {
	mu           sync.RWMutex
	matrix       []MatrixRow
	matrixKeys   map[string]struct{}
	alternatives map[string]AlternativeRow
	events       []EventRecord
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		matrixKeys:   make(map[string]struct{}),
		alternatives: make(map[string]AlternativeRow),
	}
}

func matrixNaturalKey(row MatrixRow) string {
	return row.PotBase + "|" + row.ProteinID + "|" + row.VeggieIDA + "|" + row.VeggieIDB + "|" + row.MushroomID
}

func alternativeKey(ingredientID, category string) string {
	return ingredientID + "|" + category
}

// SeedMatrixRow inserts a row without dedup checks, for test setup.
func (r *MemoryRepo) SeedMatrixRow(row MatrixRow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = time.Now().UTC()
	}
	r.matrix = append(r.matrix, row)
	r.matrixKeys[matrixNaturalKey(row)] = struct{}{}
}

// SeedAlternative registers an alternatives record, for test setup.
func (r *MemoryRepo) SeedAlternative(row AlternativeRow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alternatives[alternativeKey(row.IngredientID, row.NutritionCategory)] = row
}

func (r *MemoryRepo) ListActiveMatrixRows(ctx context.Context, potBase, proteinID string) ([]MatrixRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []MatrixRow
	for _, row := range r.matrix {
		if row.PotBase == potBase && row.ProteinID == proteinID && row.IsActive {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) InsertMatrixRowIgnoreDup(ctx context.Context, row MatrixRow) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := matrixNaturalKey(row)
	if _, exists := r.matrixKeys[key]; exists {
		return false, nil
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = time.Now().UTC()
	}
	r.matrix = append(r.matrix, row)
	r.matrixKeys[key] = struct{}{}
	return true, nil
}

func (r *MemoryRepo) InsertEventRecord(ctx context.Context, rec EventRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	r.events = append(r.events, rec)
	return nil
}

func (r *MemoryRepo) TopMatrixCategory(ctx context.Context, potBase, proteinID string) (string, error) {
	rows, err := r.ListActiveMatrixRows(ctx, potBase, proteinID)
	if err != nil || len(rows) == 0 {
		return "", err
	}
	return rows[0].NutritionCategory, nil
}

func (r *MemoryRepo) GetAlternativeRow(ctx context.Context, ingredientID, category string) (*AlternativeRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.alternatives[alternativeKey(ingredientID, category)]
	if !ok || !row.IsActive {
		return nil, nil
	}
	out := row
	return &out, nil
}

// Events returns a copy of the persisted event records, for assertions.
func (r *MemoryRepo) Events() []EventRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]EventRecord(nil), r.events...)
}

// MatrixRowCount reports how many matrix rows are stored, for assertions.
func (r *MemoryRepo) MatrixRowCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matrix)
}

var _ Repo = (*MemoryRepo)(nil)
