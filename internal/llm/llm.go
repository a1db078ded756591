package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for veggie combination suggestion.
type Client interface {
	SuggestCombination(ctx context.Context, input SuggestInput) (json.RawMessage, error)
}

// SuggestInput captures the inputs needed for a combination suggestion.
type SuggestInput struct {
	PotBase              string
	ProteinID            string
	Goal                 string
	Locale               string
	CandidateVeggieIDs   []string
	CandidateMushroomIDs []string
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// SuggestCombination returns ErrNotImplemented.
func (PlaceholderClient) SuggestCombination(ctx context.Context, input SuggestInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}
