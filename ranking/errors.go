package ranking

import "errors"

var (
	// ErrStrategiesRequired is returned when a Ranker has no strategy set.
	ErrStrategiesRequired = errors.New("strategy set required")

	// ErrRankerReleased is returned when a released Ranker is used.
	ErrRankerReleased = errors.New("ranker released")
)
