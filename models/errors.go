package models

import "errors"

var (
	// ErrStaticModelUnavailable is returned when the static table cannot be read.
	ErrStaticModelUnavailable = errors.New("static embedding model unavailable")

	// ErrModelNotBuilt is returned by operations that need the incremental
	// model before IncrementalModel or Rebuild has run.
	ErrModelNotBuilt = errors.New("incremental model not built")
)
