package strategy

import "errors"

var (
	// ErrNilStrategy is returned when a nil Strategy is registered.
	ErrNilStrategy = errors.New("strategy is nil")

	// ErrDuplicateStrategy is returned when two strategies share an identifier.
	ErrDuplicateStrategy = errors.New("duplicate strategy")

	// ErrEmbedderRequired is returned when a Static strategy has no embedder.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrModelRequired is returned when an Incremental strategy has no model.
	ErrModelRequired = errors.New("incremental model required")

	// ErrEmbeddingCount is returned when an embedder answers with the wrong number of vectors.
	ErrEmbeddingCount = errors.New("unexpected number of embeddings")
)
