package retrain

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrRepositoryRequired is returned when a Retrainer has no corpus or checkpoint store.
	ErrRepositoryRequired = errors.New("phrase and checkpoint repositories are required")

	// ErrBuilderRequired is returned when a Retrainer has no model to train.
	ErrBuilderRequired = errors.New("model builder is required")
)
