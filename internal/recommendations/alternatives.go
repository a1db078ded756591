package recommendations

import (
	"context"

	"potplanner-backend/internal/shared/telemetry"
)

// AlternativeInput asks for a swap suggestion for one selected ingredient.
type AlternativeInput struct {
	PotBase            string   `json:"soupBase"`
	ProteinID          string   `json:"proteinId"`
	IngredientID       string   `json:"ingredientId"`
	CandidateVeggieIDs []string `json:"candidateVeggieIds"`
	SelectedVeggieIDs  []string `json:"selectedVeggieIds"`
}

// AlternativeIngredient suggests a replacement for input.IngredientID drawn
// from the candidate pool: curated alternatives for the pot's top nutrition
// category first, then pool-order leftovers, skipping already-selected IDs.
// Returns nil when nothing applies; store errors degrade to nil as well.
func (s *Service) AlternativeIngredient(ctx context.Context, input AlternativeInput) (*AlternativeSuggestion, error) {
	category, err := s.Repo.TopMatrixCategory(ctx, input.PotBase, input.ProteinID)
	if err != nil || category == "" {
		if err != nil {
			telemetry.Debug("alternative category lookup failed", map[string]any{
				"pot_base":   input.PotBase,
				"protein_id": input.ProteinID,
				"error":      err.Error(),
			})
		}
		return nil, nil
	}

	altRow, err := s.Repo.GetAlternativeRow(ctx, input.IngredientID, category)
	if err != nil {
		telemetry.Debug("alternative row lookup failed", map[string]any{
			"ingredient_id": input.IngredientID,
			"category":      category,
			"error":         err.Error(),
		})
		altRow = nil
	}

	selected := make(map[string]struct{}, len(input.SelectedVeggieIDs))
	for _, id := range input.SelectedVeggieIDs {
		if id != input.IngredientID {
			selected[id] = struct{}{}
		}
	}

	var candidates []string
	seen := make(map[string]struct{})
	appendCandidate := func(id string) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		candidates = append(candidates, id)
	}

	if altRow != nil {
		for _, id := range altRow.AlternativeIDs {
			if contains(input.CandidateVeggieIDs, id) {
				appendCandidate(id)
			}
		}
	}
	for _, id := range input.CandidateVeggieIDs {
		if id == input.IngredientID {
			continue
		}
		if _, isSelected := selected[id]; isSelected {
			continue
		}
		appendCandidate(id)
	}

	for _, id := range candidates {
		if _, isSelected := selected[id]; isSelected {
			continue
		}
		suggestion := &AlternativeSuggestion{
			AlternativeID:     id,
			NutritionCategory: category,
		}
		if altRow != nil {
			suggestion.Note = altRow.Note
		}
		return suggestion, nil
	}
	return nil, nil
}
