package recommendations

import "time"

// Source identifies which provider produced a recommendation.
type Source string

const (
	SourceMatrix   Source = "matrix"
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// Pot bases form a small closed set.
const (
	PotBaseYose   = "yose"
	PotBaseMiso   = "miso"
	PotBaseKimchi = "kimchi"
)

// IsKnownPotBase reports whether base is one of the supported pot bases.
func IsKnownPotBase(base string) bool {
	switch base {
	case PotBaseYose, PotBaseMiso, PotBaseKimchi:
		return true
	default:
		return false
	}
}

// Input is the immutable recommendation request. Callers create it once per
// request; the engine never mutates it.
type Input struct {
	PotBase              string   `json:"soupBase"`
	ProteinID            string   `json:"proteinId"`
	Goal                 string   `json:"goal,omitempty"`
	Locale               string   `json:"locale,omitempty"`
	CandidateVeggieIDs   []string `json:"candidateVeggieIds"`
	CandidateMushroomIDs []string `json:"candidateMushroomIds"`
}

// Result is a validated recommendation: exactly two distinct veggies plus one
// mushroom, all drawn from the input's candidate pools.
type Result struct {
	VeggieIDs  [2]string `json:"veggieIds"`
	MushroomID string    `json:"mushroomId"`
	Source     Source    `json:"source"`
	Reason     string    `json:"reason"`
}

// EventType discriminates recommendation lifecycle events.
type EventType string

const (
	EventStarted       EventType = "recommendation_started"
	EventProviderMiss  EventType = "provider_miss"
	EventProviderError EventType = "provider_error"
	EventAIInvoked     EventType = "ai_invoked"
	EventResolved      EventType = "recommendation_resolved"
	EventFailed        EventType = "recommendation_failed"
	EventCacheSaved    EventType = "ai_cache_saved"
	EventCacheFailed   EventType = "ai_cache_failed"
)

// Event is a transient lifecycle record emitted by the engine and its
// side-effect wrappers. Consumed by observers with no return channel.
type Event struct {
	Type         EventType
	PotBase      string
	ProteinID    string
	Provider     Source
	Reason       string
	ErrorMessage string
	Duration     time.Duration
}

// MatrixRow is a persisted known-good combination for (pot base, protein).
// The veggie pair is always exactly two, so it is stored as two columns.
type MatrixRow struct {
	ID                string
	PotBase           string
	ProteinID         string
	VeggieIDA         string
	VeggieIDB         string
	MushroomID        string
	SynergyReason     string
	NutritionCategory string
	EvidenceLevel     int
	Priority          int
	IsActive          bool
	UpdatedAt         time.Time
}

// EventRecord is the narrowed, persistable projection of an Event.
type EventRecord struct {
	ID        string
	EventType EventType
	PotBase   string
	ProteinID string
	Source    Source
	Reason    string
}

// AlternativeRow is a persisted swap-suggestion record for one ingredient
// within one nutrition category.
type AlternativeRow struct {
	IngredientID      string
	NutritionCategory string
	AlternativeIDs    []string
	Note              string
	IsActive          bool
}

// AlternativeSuggestion is the outcome of an alternative-ingredient lookup.
type AlternativeSuggestion struct {
	AlternativeID     string `json:"alternativeId"`
	NutritionCategory string `json:"nutritionCategory"`
	Note              string `json:"note,omitempty"`
}
