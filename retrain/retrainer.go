// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package retrain

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/remedy/core"
	"github.com/poiesic/remedy/storage"
	"github.com/poiesic/remedy/word2vec"
)

// DefaultCheckpointName names the checkpoint for the incremental model.
const DefaultCheckpointName = "word2vec"

// ModelBuilder trains the incremental model. *models.Manager implements it.
type ModelBuilder interface {
	Rebuild(ctx context.Context, corpus []*core.PhraseRecord) (*word2vec.Model, error)
	Extend(ctx context.Context, records []*core.PhraseRecord) error
	Save() error
}

// Config holds configuration for retraining.
type Config struct {
	// BatchSize is the number of records to read in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for each corpus read
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// CheckpointName keys the stored cursor
	CheckpointName string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     100 * time.Millisecond,
		CheckpointName: DefaultCheckpointName,
	}
}

// Retrainer rebuilds the incremental model from the corpus and tracks how
// much of the corpus the model has seen.
type Retrainer struct {
	repo        storage.PhraseRepository
	checkpoints storage.CheckpointRepository
	builder     ModelBuilder
	config      *Config
	progress    io.Writer
	iterator    *RecordIterator
	logger      *slog.Logger
}

// NewRetrainer creates a new retrainer.
// progress: where to write progress output (typically os.Stderr); nil discards it
func NewRetrainer(repo storage.PhraseRepository, checkpoints storage.CheckpointRepository, builder ModelBuilder, config *Config, progress io.Writer, logger *slog.Logger) (*Retrainer, error) {
	if repo == nil || checkpoints == nil {
		return nil, ErrRepositoryRequired
	}
	if builder == nil {
		return nil, ErrBuilderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.CheckpointName == "" {
		config.CheckpointName = DefaultCheckpointName
	}
	if progress == nil {
		progress = io.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "retrain")

	return &Retrainer{
		repo:        repo,
		checkpoints: checkpoints,
		builder:     builder,
		config:      config,
		progress:    progress,
		iterator:    NewRecordIterator(repo, config.BatchSize, config.MaxRetries, config.RetryDelay, logger),
		logger:      logger,
	}, nil
}

// Run reads the whole corpus, trains a new model on it and saves a
// checkpoint at the end of the corpus. It returns the number of phrases read.
func (r *Retrainer) Run(ctx context.Context) (int, error) {
	total, err := r.repo.CountPhraseRecords(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}

	fmt.Fprintf(r.progress, "Retraining incremental model on %d phrases (batch size: %d)\n", total, r.config.BatchSize)
	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	corpus := make([]*core.PhraseRecord, 0, total)
	cursor, err := r.iterator.ForEach(ctx, 0, func(batch []*core.PhraseRecord, _ uint64) error {
		corpus = append(corpus, batch...)
		tracker.Increment(len(batch))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to read corpus: %w", err)
	}

	model, err := r.builder.Rebuild(ctx, corpus)
	if err != nil {
		return 0, err
	}
	if err := r.saveCheckpoint(ctx, cursor, int64(len(corpus))); err != nil {
		return 0, err
	}
	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Retraining complete. %d phrases, %d words in %v\n",
		len(corpus), model.Len(), elapsed.Round(time.Millisecond))
	return len(corpus), nil
}

// CatchUp trains the model on the phrases stored after the checkpoint and
// moves the checkpoint forward. Without a checkpoint the model is assumed to
// cover the whole corpus and only the checkpoint is written. It returns the
// number of phrases trained on.
func (r *Retrainer) CatchUp(ctx context.Context) (int, error) {
	checkpoint, err := r.checkpoints.LoadCheckpoint(ctx, r.config.CheckpointName)
	if err != nil {
		return 0, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if checkpoint == nil {
		return 0, r.Mark(ctx)
	}

	trained := 0
	cursor, err := r.iterator.ForEach(ctx, checkpoint.Cursor, func(batch []*core.PhraseRecord, _ uint64) error {
		if err := r.builder.Extend(ctx, batch); err != nil {
			return err
		}
		trained += len(batch)
		return nil
	})
	if err != nil {
		return trained, err
	}
	if trained == 0 {
		return 0, nil
	}

	if err := r.builder.Save(); err != nil {
		return trained, err
	}
	if err := r.saveCheckpoint(ctx, cursor, checkpoint.Records+int64(trained)); err != nil {
		return trained, err
	}
	r.logger.Info("incremental model caught up", "phrases", trained, "cursor", cursor)
	return trained, nil
}

// Mark moves the checkpoint to the end of the corpus without training, for
// a model that was just built from the whole corpus.
func (r *Retrainer) Mark(ctx context.Context) error {
	var records int64
	cursor, err := r.iterator.ForEach(ctx, 0, func(batch []*core.PhraseRecord, _ uint64) error {
		records += int64(len(batch))
		return nil
	})
	if err != nil {
		return err
	}
	return r.saveCheckpoint(ctx, cursor, records)
}

// Checkpoint returns the stored checkpoint, or nil if none exists.
func (r *Retrainer) Checkpoint(ctx context.Context) (*core.Checkpoint, error) {
	return r.checkpoints.LoadCheckpoint(ctx, r.config.CheckpointName)
}

func (r *Retrainer) saveCheckpoint(ctx context.Context, cursor uint64, records int64) error {
	checkpoint := &core.Checkpoint{
		Name:    r.config.CheckpointName,
		Cursor:  cursor,
		Records: records,
	}
	if err := r.checkpoints.SaveCheckpoint(ctx, checkpoint); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}
