package recommendations

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PGRepo is the Postgres-backed Repo.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) ListActiveMatrixRows(ctx context.Context, potBase, proteinID string) ([]MatrixRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT id, pot_base, protein_id, veggie_id_a, veggie_id_b, mushroom_id,
       synergy_reason, nutrition_category, evidence_level, priority, is_active, updated_at
FROM synergy_matrix
WHERE pot_base = $1 AND protein_id = $2 AND is_active = TRUE
ORDER BY priority ASC, updated_at DESC`, potBase, proteinID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MatrixRow
	for rows.Next() {
		var row MatrixRow
		if err := rows.Scan(
			&row.ID,
			&row.PotBase,
			&row.ProteinID,
			&row.VeggieIDA,
			&row.VeggieIDB,
			&row.MushroomID,
			&row.SynergyReason,
			&row.NutritionCategory,
			&row.EvidenceLevel,
			&row.Priority,
			&row.IsActive,
			&row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *PGRepo) InsertMatrixRowIgnoreDup(ctx context.Context, row MatrixRow) (bool, error) {
	id := row.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx, `
INSERT INTO synergy_matrix
    (id, pot_base, protein_id, veggie_id_a, veggie_id_b, mushroom_id,
     synergy_reason, nutrition_category, evidence_level, priority, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
ON CONFLICT (pot_base, protein_id, veggie_id_a, veggie_id_b, mushroom_id) DO NOTHING`,
		id,
		row.PotBase,
		row.ProteinID,
		row.VeggieIDA,
		row.VeggieIDB,
		row.MushroomID,
		row.SynergyReason,
		row.NutritionCategory,
		row.EvidenceLevel,
		row.Priority,
		row.IsActive,
		now,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PGRepo) InsertEventRecord(ctx context.Context, rec EventRecord) error {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx, `
INSERT INTO recommendation_events (id, event_type, pot_base, protein_id, source, reason, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id,
		string(rec.EventType),
		rec.PotBase,
		rec.ProteinID,
		nullableString(string(rec.Source)),
		nullableString(rec.Reason),
		time.Now().UTC(),
	)
	return err
}

func (r *PGRepo) TopMatrixCategory(ctx context.Context, potBase, proteinID string) (string, error) {
	var category string
	err := r.DB.QueryRowContext(ctx, `
SELECT nutrition_category
FROM synergy_matrix
WHERE pot_base = $1 AND protein_id = $2 AND is_active = TRUE
ORDER BY priority ASC, updated_at DESC
LIMIT 1`, potBase, proteinID).Scan(&category)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return category, nil
}

func (r *PGRepo) GetAlternativeRow(ctx context.Context, ingredientID, category string) (*AlternativeRow, error) {
	var (
		rawIDs string
		note   sql.NullString
		active bool
	)
	err := r.DB.QueryRowContext(ctx, `
SELECT alternative_ids, note, is_active
FROM synergy_alternatives
WHERE ingredient_id = $1 AND nutrition_category = $2 AND is_active = TRUE`,
		ingredientID, category).Scan(&rawIDs, &note, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &AlternativeRow{
		IngredientID:      ingredientID,
		NutritionCategory: category,
		AlternativeIDs:    splitIDList(rawIDs),
		Note:              note.String,
		IsActive:          active,
	}, nil
}

// alternative_ids is stored as a comma-separated list.
func splitIDList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
