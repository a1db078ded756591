package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"potplanner-backend/internal/llm"
)

// Message represents an OpenAI chat message.
type Message struct {
	Role    string
	Content string
}

const (
	systemPrompt = "You are a hot-pot ingredient pairing engine. Respond with JSON only. " +
		"Output exactly {\"veggie_ids\": [two ids], \"mushroom_id\": one id, \"reason\": short string}. " +
		"Every id must come from the candidate lists. veggie_ids must not contain mushroom candidates."
	systemPromptFixJSON = "You are a JSON repair tool. Return only valid JSON with keys veggie_ids, mushroom_id, reason."
)

// BuildPrompt creates the chat messages for a combination suggestion request.
func BuildPrompt(input llm.SuggestInput) []Message {
	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildUserPrompt(input)},
	}
}

func buildFixPrompt(raw []byte) []Message {
	return []Message{
		{Role: "system", Content: systemPromptFixJSON},
		{Role: "user", Content: fmt.Sprintf("Fix this JSON. Output JSON only:\n%s", string(raw))},
	}
}

func buildUserPrompt(input llm.SuggestInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pot base: %s\nProtein: %s\n", input.PotBase, input.ProteinID)
	if strings.TrimSpace(input.Goal) != "" {
		fmt.Fprintf(&b, "Goal: %s\n", input.Goal)
	}
	if strings.TrimSpace(input.Locale) != "" {
		fmt.Fprintf(&b, "Locale: %s\n", input.Locale)
	}
	fmt.Fprintf(&b, "Candidate veggie ids: %s\n", jsonList(input.CandidateVeggieIDs))
	fmt.Fprintf(&b, "Candidate mushroom ids: %s\n", jsonList(input.CandidateMushroomIDs))
	b.WriteString("Pick the two veggies and one mushroom that pair best with this pot base and protein.")
	return b.String()
}

func jsonList(ids []string) string {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(data)
}
