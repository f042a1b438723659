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


// Package remedy ranks error messages against a corpus of known failures and
// their resolutions.
package remedy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/remedy/config"
	"github.com/poiesic/remedy/core"
	"github.com/poiesic/remedy/glove"
	"github.com/poiesic/remedy/models"
	"github.com/poiesic/remedy/ranking"
	"github.com/poiesic/remedy/retrain"
	"github.com/poiesic/remedy/storage"
	"github.com/poiesic/remedy/storage/badger"
	"github.com/poiesic/remedy/strategy"
	"github.com/poiesic/remedy/word2vec"
	"github.com/prometheus/client_golang/prometheus"
)

// Engine wires the corpus store, the embedding models and the ranker together.
type Engine struct {
	cfg            *config.Config
	backend        *badger.Backend
	phraseRepo     storage.PhraseRepository
	checkpointRepo storage.CheckpointRepository
	models         *models.Manager
	ranker         *ranking.Ranker
	retrainer      *retrain.Retrainer
	metrics        *ranking.Metrics
	defaultID      core.StrategyID
	logger         *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	logger   *slog.Logger
	table    *glove.Table
	registry prometheus.Registerer
	progress io.Writer
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// WithStaticTable uses table instead of reading the configured GloVe file.
func WithStaticTable(table *glove.Table) EngineOption {
	return func(o *engineOptions) {
		o.table = table
	}
}

// WithMetrics registers ranking metrics with reg.
func WithMetrics(reg prometheus.Registerer) EngineOption {
	return func(o *engineOptions) {
		o.registry = reg
	}
}

// WithProgress sets where model rebuild progress is written.
// Default discards it.
func WithProgress(w io.Writer) EngineOption {
	return func(o *engineOptions) {
		o.progress = w
	}
}

// NewEngine opens the store, loads the static table, gets or builds the
// incremental model and prepares the ranker. A nil cfg uses
// config.DefaultConfig. A static table that cannot be read is fatal.
func NewEngine(ctx context.Context, cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		logger:   slog.Default(),
		progress: io.Discard,
	}
	for _, opt := range opts {
		opt(options)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	defaultID, _ := cfg.Ranking.DefaultStrategy()
	policy, _ := cfg.Word2Vec.Policy()
	logger := options.logger

	backend, err := badger.OpenBackend(cfg.Store.Path, cfg.Store.InMemory, badger.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	phraseRepo, err := badger.NewPhraseRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	e := &Engine{
		cfg:            cfg,
		backend:        backend,
		phraseRepo:     phraseRepo,
		checkpointRepo: badger.NewCheckpointRepository(backend),
		defaultID:      defaultID,
		logger:         logger,
	}
	if err := e.init(ctx, options, policy); err != nil {
		e.closeStore()
		return nil, err
	}
	return e, nil
}

func (e *Engine) init(ctx context.Context, options *engineOptions, policy word2vec.UpdatePolicy) error {
	cfg := e.cfg
	managerOpts := []models.Option{
		models.WithParams(cfg.Word2Vec.Params()),
		models.WithIncrementalPath(cfg.Word2Vec.Path),
		models.WithRefresh(cfg.Word2Vec.Refresh),
		models.WithStaticDim(cfg.GloVe.Dim),
		models.WithLogger(e.logger),
	}
	if options.table != nil {
		managerOpts = append(managerOpts, models.WithStaticTable(options.table))
	}
	manager, err := models.NewManager(managerOpts...)
	if err != nil {
		return err
	}
	e.models = manager

	table, err := manager.LoadStatic(cfg.GloVe.Path)
	if err != nil {
		return err
	}

	corpus, err := e.phraseRepo.GetPhraseRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to read corpus: %w", err)
	}
	if _, err := manager.IncrementalModel(ctx, corpus); err != nil {
		return err
	}

	e.retrainer, err = retrain.NewRetrainer(e.phraseRepo, e.checkpointRepo, manager, &retrain.Config{
		BatchSize:      cfg.Retrain.BatchSize,
		ReportInterval: cfg.Retrain.ReportInterval,
		MaxRetries:     cfg.Retrain.MaxRetries,
		RetryDelay:     cfg.Retrain.RetryDelay,
		CheckpointName: retrain.DefaultCheckpointName,
	}, options.progress, e.logger)
	if err != nil {
		return err
	}
	if manager.Trained() {
		err = e.retrainer.Mark(ctx)
	} else {
		_, err = e.retrainer.CatchUp(ctx)
	}
	if err != nil {
		return err
	}

	static, err := strategy.NewGloVe(table, strategy.WithCache(cfg.GloVe.CacheSize))
	if err != nil {
		return err
	}
	incremental, err := strategy.NewIncremental(manager,
		strategy.WithUpdatePolicy(policy),
		strategy.WithLogger(e.logger),
	)
	if err != nil {
		return err
	}
	set, err := strategy.NewSet(strategy.BagOfWords{}, static, incremental)
	if err != nil {
		return err
	}

	rankerOpts := []ranking.Option{ranking.WithLogger(e.logger)}
	if cfg.Ranking.PoolSize > 0 {
		rankerOpts = append(rankerOpts, ranking.WithPoolSize(cfg.Ranking.PoolSize))
	}
	e.ranker, err = ranking.NewRanker(set, rankerOpts...)
	if err != nil {
		return err
	}

	if options.registry != nil {
		e.metrics = ranking.NewMetrics(options.registry)
	}
	return nil
}

// Close persists the incremental model and releases the ranker and store.
func (e *Engine) Close() error {
	var errs []error
	if err := e.models.Save(); err != nil {
		e.logger.Error("error saving incremental model", "err", err)
		errs = append(errs, err)
	}
	e.ranker.Release()
	if err := e.closeStore(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (e *Engine) closeStore() error {
	if err := e.phraseRepo.Close(); err != nil {
		e.logger.Error("error closing phrase repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// DefaultStrategy returns the configured strategy.
func (e *Engine) DefaultStrategy() core.StrategyID {
	return e.defaultID
}

// PhraseRepository exposes the corpus store.
func (e *Engine) PhraseRepository() storage.PhraseRepository {
	return e.phraseRepo
}

// Models exposes the model manager.
func (e *Engine) Models() *models.Manager {
	return e.models
}
