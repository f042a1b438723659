package retrain

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/remedy/core"
	"github.com/poiesic/remedy/storage"
)

const (
	// DefaultBatchSize is the default number of records to fetch in each batch
	DefaultBatchSize = 100
)

// RecordIterator pages through the corpus in insertion order.
type RecordIterator struct {
	repo       storage.PhraseRepository
	batchSize  int
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewRecordIterator creates a new record iterator. A batchSize <= 0 falls
// back to DefaultBatchSize. Each page read is retried up to maxRetries times.
func NewRecordIterator(repo storage.PhraseRepository, batchSize, maxRetries int, retryDelay time.Duration, logger *slog.Logger) *RecordIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if maxRetries <= 0 {
		maxRetries = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordIterator{
		repo:       repo,
		batchSize:  batchSize,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// ForEach calls fn with every batch of records stored after cursor, together
// with the cursor that follows the batch. It returns the final cursor, which
// equals the input when nothing newer exists. Context cancellation is
// checked between batches.
func (it *RecordIterator) ForEach(ctx context.Context, cursor uint64, fn func(batch []*core.PhraseRecord, next uint64) error) (uint64, error) {
	for {
		if err := ctx.Err(); err != nil {
			return cursor, err
		}

		var batch []*core.PhraseRecord
		var next uint64
		err := RetryWithBackoff(ctx, it.logger, func() error {
			var err error
			batch, next, err = it.repo.ListPhraseRecords(ctx, cursor, it.batchSize)
			return err
		}, it.maxRetries, it.retryDelay)
		if err != nil {
			return cursor, err
		}
		if len(batch) == 0 {
			return cursor, nil
		}

		if err := fn(batch, next); err != nil {
			return cursor, err
		}
		cursor = next

		if len(batch) < it.batchSize {
			return cursor, nil
		}
	}
}
