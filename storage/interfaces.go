package storage

import (
	"context"

	"github.com/poiesic/remedy/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases the repository's resources.
	Close() error
}

// PhraseRepository stores the corpus of phrase records.
type PhraseRepository interface {
	Repository

	// AddPhraseRecords validates and stores records in the given order.
	// Records whose content is already stored, or repeated earlier in the
	// same call, are skipped. The caller's records are not modified: the
	// returned copies are the newly stored records with Id and InsertedAt
	// set. A different record already holding the same content ID fails
	// with ErrIDCollision.
	AddPhraseRecords(ctx context.Context, records ...*core.PhraseRecord) ([]*core.PhraseRecord, error)

	// DeletePhraseRecords removes records by their IDs.
	// Returns ErrNotFound if any record doesn't exist.
	DeletePhraseRecords(ctx context.Context, ids ...core.ID) error

	// GetPhraseRecord retrieves a single record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetPhraseRecord(ctx context.Context, id core.ID) (*core.PhraseRecord, error)

	// GetPhraseRecords returns the whole corpus in insertion order.
	GetPhraseRecords(ctx context.Context) ([]*core.PhraseRecord, error)

	// ListPhraseRecords returns up to limit records stored after cursor, in
	// insertion order, and the cursor to continue from. A zero cursor starts
	// at the beginning. The returned cursor equals the input when nothing
	// newer exists.
	ListPhraseRecords(ctx context.Context, cursor uint64, limit int) ([]*core.PhraseRecord, uint64, error)

	// CountPhraseRecords returns the number of stored records.
	CountPhraseRecords(ctx context.Context) (int, error)
}

// CheckpointRepository persists progress markers for corpus consumers.
type CheckpointRepository interface {
	// SaveCheckpoint stores checkpoint under its Name, setting UpdatedAt.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint returns the checkpoint stored under name.
	// Returns nil, nil if none exists.
	LoadCheckpoint(ctx context.Context, name string) (*core.Checkpoint, error)
}
