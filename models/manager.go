package models

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/poiesic/remedy/core"
	"github.com/poiesic/remedy/glove"
	"github.com/poiesic/remedy/strategy"
	"github.com/poiesic/remedy/textnorm"
	"github.com/poiesic/remedy/word2vec"
)

// Manager loads, builds and persists the embedding models.
type Manager struct {
	mu sync.Mutex

	static    *glove.Table
	staticDim int

	model   *word2vec.Model
	path    string
	params  word2vec.Params
	refresh bool
	// saved is the model's update count at the last load or save.
	saved uint64
	// trained is set when the model came from the corpus rather than a snapshot.
	trained bool

	logger *slog.Logger
}

var _ strategy.ModelAccess = (*Manager)(nil)

// Option configures a Manager.
type Option func(*Manager) error

// WithIncrementalPath sets the file the incremental model is loaded from and
// saved to. Without it the model lives in memory only.
func WithIncrementalPath(path string) Option {
	return func(m *Manager) error {
		m.path = path
		return nil
	}
}

// WithParams sets the hyperparameters used when the model is trained from scratch.
// Default is word2vec.DefaultParams().
func WithParams(params word2vec.Params) Option {
	return func(m *Manager) error {
		if err := params.Validate(); err != nil {
			return err
		}
		m.params = params
		return nil
	}
}

// WithRefresh makes the first IncrementalModel call retrain from the corpus
// even when a snapshot exists.
func WithRefresh(refresh bool) Option {
	return func(m *Manager) error {
		m.refresh = refresh
		return nil
	}
}

// WithStaticTable installs an already loaded static table.
func WithStaticTable(table *glove.Table) Option {
	return func(m *Manager) error {
		if table == nil {
			return ErrStaticModelUnavailable
		}
		m.static = table
		return nil
	}
}

// WithStaticDim fixes the expected width of the static table.
// By default the width is taken from the file.
func WithStaticDim(dim int) Option {
	return func(m *Manager) error {
		m.staticDim = dim
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewManager creates a Manager. No model is loaded until asked for.
func NewManager(opts ...Option) (*Manager, error) {
	m := &Manager{
		params: word2vec.DefaultParams(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	m.logger = m.logger.With("component", "models")
	return m, nil
}

// LoadStatic reads the static table at path. The table is read once; later
// calls return the table already loaded.
func (m *Manager) LoadStatic(path string) (*glove.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.static != nil {
		return m.static, nil
	}
	opts := []glove.Option{glove.WithLogger(m.logger)}
	if m.staticDim > 0 {
		opts = append(opts, glove.WithDim(m.staticDim))
	}
	table, err := glove.Load(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrStaticModelUnavailable, path, err)
	}
	m.static = table
	return table, nil
}

// Static returns the loaded static table.
func (m *Manager) Static() (*glove.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.static == nil {
		return nil, ErrStaticModelUnavailable
	}
	return m.static, nil
}

// IncrementalModel returns the incremental model, building it on first use.
// A snapshot at the configured path is loaded when present; otherwise the
// model is trained on the corpus phrases and saved. A missing or unreadable
// snapshot is not an error.
func (m *Manager) IncrementalModel(ctx context.Context, corpus []*core.PhraseRecord) (*word2vec.Model, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.model != nil {
		return m.model, nil
	}

	if !m.refresh && m.path != "" {
		model, err := word2vec.LoadFile(m.path)
		switch {
		case err == nil:
			m.logger.Info("loaded incremental model", "path", m.path, "vocabulary", model.Len())
			m.model = model
			m.saved = model.Updates()
			m.trained = false
			return model, nil
		case errors.Is(err, fs.ErrNotExist):
			m.logger.Info("no incremental model on disk, building from corpus", "path", m.path)
		default:
			m.logger.Warn("unable to load incremental model, rebuilding", "path", m.path, "err", err)
		}
	}

	if err := m.rebuild(ctx, corpus); err != nil {
		return nil, err
	}
	m.refresh = false
	return m.model, nil
}

// Rebuild discards the incremental model, trains a new one on the corpus
// phrases and saves it.
func (m *Manager) Rebuild(ctx context.Context, corpus []*core.PhraseRecord) (*word2vec.Model, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.rebuild(ctx, corpus); err != nil {
		return nil, err
	}
	return m.model, nil
}

func (m *Manager) rebuild(ctx context.Context, corpus []*core.PhraseRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sentences := Sentences(corpus)
	model, err := word2vec.Train(m.params, sentences)
	if err != nil {
		return fmt.Errorf("failed to train incremental model: %w", err)
	}
	m.model = model
	m.trained = true
	m.logger.Info("built incremental model", "phrases", len(sentences), "vocabulary", model.Len())
	return m.save()
}

// Extend adds the phrases of records to the vocabulary and trains on them,
// keeping everything the model has learned so far.
func (m *Manager) Extend(ctx context.Context, records []*core.PhraseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.model == nil {
		return ErrModelNotBuilt
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	sentences := Sentences(records)
	if len(sentences) == 0 {
		return nil
	}
	added := m.model.BuildVocab(sentences, true)
	m.model.Train(sentences)
	m.logger.Debug("extended incremental model", "phrases", len(sentences), "newWords", added, "vocabulary", m.model.Len())
	return nil
}

// WithModel runs fn with exclusive access to the incremental model. fn
// receives nil when the model has not been built.
func (m *Manager) WithModel(fn func(*word2vec.Model) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.model)
}

// Trained reports whether the current model was trained from a corpus in
// this process rather than loaded from a snapshot.
func (m *Manager) Trained() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trained
}

// Dirty reports whether the model has trained since it was last loaded or saved.
func (m *Manager) Dirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty()
}

func (m *Manager) dirty() bool {
	return m.model != nil && m.model.Updates() != m.saved
}

// Save writes the incremental model to the configured path. It does nothing
// when no path is configured or no model has been built.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save()
}

func (m *Manager) save() error {
	if m.path == "" || m.model == nil {
		return nil
	}
	if err := m.model.SaveFile(m.path); err != nil {
		return fmt.Errorf("failed to save incremental model: %w", err)
	}
	m.saved = m.model.Updates()
	m.logger.Debug("saved incremental model", "path", m.path, "updates", m.saved)
	return nil
}

// Path returns the snapshot path, or "" when the model is memory only.
func (m *Manager) Path() string {
	return m.path
}

// Sentences normalizes the phrase of every non-nil record. Phrases with no
// tokens are left out.
func Sentences(records []*core.PhraseRecord) [][]string {
	sentences := make([][]string, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		if tokens := textnorm.Normalize(record.Phrase); len(tokens) > 0 {
			sentences = append(sentences, tokens)
		}
	}
	return sentences
}
