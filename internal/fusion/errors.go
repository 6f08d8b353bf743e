package fusion

import "errors"

var (
	errNegativeWeight = errors.New("fusion: weights must be non-negative")
	errZeroWeights    = errors.New("fusion: at least one weight must be positive")
)
