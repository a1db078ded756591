package recommendations

import "errors"

// ErrNoRecommendation is returned when every provider in the chain missed.
var ErrNoRecommendation = errors.New("failed to resolve veggie recommendation")
