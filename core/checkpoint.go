package core

import "time"

// Checkpoint records how far a background consumer has read the corpus.
// Cursor is the store's position after the last record consumed; zero means
// nothing has been consumed yet.
type Checkpoint struct {
	Name      string
	Cursor    uint64
	Records   int64
	UpdatedAt time.Time
}
