package main

// Exercise the recommendation pipeline from the command line:
//   go run ./cmd/recommend -base yose -protein pork_loin \
//     -veggies nira,negi,komatsuna,maitake -mushrooms maitake

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"potplanner-backend/internal/llm"
	openai "potplanner-backend/internal/llm/openai"
	"potplanner-backend/internal/recommendations"
	"potplanner-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()

	base := flag.String("base", "yose", "Soup base (yose, miso, kimchi)")
	protein := flag.String("protein", "", "Protein ID")
	veggies := flag.String("veggies", "", "Comma-separated candidate veggie IDs")
	mushrooms := flag.String("mushrooms", "", "Comma-separated candidate mushroom IDs")
	goal := flag.String("goal", "", "Goal hint (bulk, recomp, cut)")
	useAI := flag.Bool("ai", false, "Enable the OpenAI provider")
	flag.Parse()

	if strings.TrimSpace(*protein) == "" {
		exitErr("protein is required")
	}
	if !recommendations.IsKnownPotBase(*base) {
		exitErr(fmt.Sprintf("unknown soup base %q", *base))
	}

	var llmClient llm.Client = llm.PlaceholderClient{}
	if *useAI {
		client, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModel)
		if err != nil {
			exitErr(err.Error())
		}
		llmClient = client
	}

	svc := recommendations.NewService(recommendations.NewMemoryRepo(), llmClient, nil, recommendations.Options{
		AITimeout:     cfg.AIRecommendTimeout,
		Debug:         true,
		Monitoring:    true,
		SnapshotEvery: 1,
	})

	result, err := svc.Recommend(context.Background(), recommendations.Input{
		PotBase:              *base,
		ProteinID:            *protein,
		Goal:                 *goal,
		CandidateVeggieIDs:   splitList(*veggies),
		CandidateMushroomIDs: splitList(*mushrooms),
	})
	if err != nil {
		exitErr(err.Error())
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		exitErr(err.Error())
	}
	fmt.Println(string(out))
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
