package recommendations

// Candidate is a provider-proposed combination prior to validation.
type Candidate struct {
	VeggieIDs  []string
	MushroomID string
}

// isValidCandidate checks a proposed combination against the request's
// candidate pools. Mushrooms share the veggie ID namespace but are a
// mutually exclusive category, so neither veggie may be a mushroom candidate.
func isValidCandidate(candidate Candidate, input Input) bool {
	if len(candidate.VeggieIDs) != 2 {
		return false
	}
	if !contains(input.CandidateMushroomIDs, candidate.MushroomID) {
		return false
	}

	vegA, vegB := candidate.VeggieIDs[0], candidate.VeggieIDs[1]
	if !contains(input.CandidateVeggieIDs, vegA) || !contains(input.CandidateVeggieIDs, vegB) {
		return false
	}
	if contains(input.CandidateMushroomIDs, vegA) || contains(input.CandidateMushroomIDs, vegB) {
		return false
	}
	return true
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
