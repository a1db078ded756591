package recommendations

import (
	"context"
	"testing"
)

func seedCategoryRow(repo *MemoryRepo, category string) {
	repo.SeedMatrixRow(MatrixRow{
		PotBase: "yose", ProteinID: "pork_loin",
		VeggieIDA: "nira", VeggieIDB: "negi", MushroomID: "maitake",
		NutritionCategory: category, Priority: 1, IsActive: true,
	})
}

func altInput() AlternativeInput {
	return AlternativeInput{
		PotBase:            "yose",
		ProteinID:          "pork_loin",
		IngredientID:       "nira",
		CandidateVeggieIDs: []string{"nira", "negi", "komatsuna", "shungiku"},
		SelectedVeggieIDs:  []string{"nira", "negi"},
	}
}

func TestAlternativePrefersCuratedRow(t *testing.T) {
	repo := NewMemoryRepo()
	seedCategoryRow(repo, "iron")
	repo.SeedAlternative(AlternativeRow{
		IngredientID:      "nira",
		NutritionCategory: "iron",
		AlternativeIDs:    []string{"shungiku", "komatsuna"},
		Note:              "similar iron profile",
		IsActive:          true,
	})
	svc := &Service{Repo: repo}

	got, err := svc.AlternativeIngredient(context.Background(), altInput())
	if err != nil {
		t.Fatalf("AlternativeIngredient: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a suggestion")
	}
	if got.AlternativeID != "shungiku" || got.NutritionCategory != "iron" || got.Note != "similar iron profile" {
		t.Fatalf("unexpected suggestion %+v", got)
	}
}

func TestAlternativeCuratedIDsOutsidePoolIgnored(t *testing.T) {
	repo := NewMemoryRepo()
	seedCategoryRow(repo, "iron")
	repo.SeedAlternative(AlternativeRow{
		IngredientID:      "nira",
		NutritionCategory: "iron",
		AlternativeIDs:    []string{"hakusai"},
		IsActive:          true,
	})
	svc := &Service{Repo: repo}

	got, err := svc.AlternativeIngredient(context.Background(), altInput())
	if err != nil {
		t.Fatalf("AlternativeIngredient: %v", err)
	}
	if got == nil || got.AlternativeID != "komatsuna" {
		t.Fatalf("expected pool-order fallback komatsuna, got %+v", got)
	}
}

func TestAlternativeFallsBackToPoolOrder(t *testing.T) {
	repo := NewMemoryRepo()
	seedCategoryRow(repo, "vitamin_c")
	svc := &Service{Repo: repo}

	got, err := svc.AlternativeIngredient(context.Background(), altInput())
	if err != nil {
		t.Fatalf("AlternativeIngredient: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a suggestion")
	}
	// negi is already selected, so the first free pool entry wins.
	if got.AlternativeID != "komatsuna" || got.NutritionCategory != "vitamin_c" {
		t.Fatalf("unexpected suggestion %+v", got)
	}
}

func TestAlternativeSkipsSelected(t *testing.T) {
	repo := NewMemoryRepo()
	seedCategoryRow(repo, "iron")
	repo.SeedAlternative(AlternativeRow{
		IngredientID:      "nira",
		NutritionCategory: "iron",
		AlternativeIDs:    []string{"negi", "komatsuna"},
		IsActive:          true,
	})
	svc := &Service{Repo: repo}

	got, err := svc.AlternativeIngredient(context.Background(), altInput())
	if err != nil {
		t.Fatalf("AlternativeIngredient: %v", err)
	}
	if got == nil || got.AlternativeID != "komatsuna" {
		t.Fatalf("expected the selected negi skipped, got %+v", got)
	}
}

func TestAlternativeNoCategoryMeansNoSuggestion(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}

	got, err := svc.AlternativeIngredient(context.Background(), altInput())
	if err != nil {
		t.Fatalf("AlternativeIngredient: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil without matrix rows, got %+v", got)
	}
}

func TestAlternativeExhaustedPoolMeansNoSuggestion(t *testing.T) {
	repo := NewMemoryRepo()
	seedCategoryRow(repo, "iron")
	svc := &Service{Repo: repo}

	input := altInput()
	input.CandidateVeggieIDs = []string{"nira", "negi"}
	got, err := svc.AlternativeIngredient(context.Background(), input)
	if err != nil {
		t.Fatalf("AlternativeIngredient: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil when every candidate is taken, got %+v", got)
	}
}
