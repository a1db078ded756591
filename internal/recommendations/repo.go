package recommendations

import "context"

// Repo defines persistence operations for the recommendation pipeline.
// Lookup methods report "not found" as zero values, not errors; the
// providers treat every repo failure as a miss anyway.
type Repo interface {
	// ListActiveMatrixRows returns active rows for (pot base, protein),
	// ordered by ascending priority then descending recency.
	ListActiveMatrixRows(ctx context.Context, potBase, proteinID string) ([]MatrixRow, error)

	// InsertMatrixRowIgnoreDup inserts a row unless one with the same
	// natural key (pot base, protein, veggie pair, mushroom) already
	// exists. Reports whether a row was actually written.
	InsertMatrixRowIgnoreDup(ctx context.Context, row MatrixRow) (bool, error)

	// InsertEventRecord appends one recommendation event row.
	InsertEventRecord(ctx context.Context, rec EventRecord) error

	// TopMatrixCategory returns the nutrition category of the highest
	// ranked active row for (pot base, protein), or "" when none exists.
	TopMatrixCategory(ctx context.Context, potBase, proteinID string) (string, error)

	// GetAlternativeRow returns the active alternatives record for
	// (ingredient, category), or nil when none exists.
	GetAlternativeRow(ctx context.Context, ingredientID, category string) (*AlternativeRow, error)
}
