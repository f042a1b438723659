package glove

import "errors"

var (
	// ErrEmptyTable is returned when a source contains no usable entries.
	ErrEmptyTable = errors.New("embedding table is empty")

	// ErrMalformedTable is returned when most lines of a source could not be used.
	ErrMalformedTable = errors.New("embedding table is mostly malformed")

	// ErrDimensionMismatch is returned when a vector's width disagrees with the table.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
