package strategy

import (
	"context"
	"log/slog"
	"sync"

	"github.com/poiesic/remedy/core"
	"github.com/poiesic/remedy/similarity"
	"github.com/poiesic/remedy/word2vec"
)

// ModelAccess runs fn with exclusive access to the incremental model.
type ModelAccess interface {
	WithModel(fn func(*word2vec.Model) error) error
}

// Locked guards a bare model with its own mutex.
func Locked(model *word2vec.Model) ModelAccess {
	return &lockedModel{model: model}
}

type lockedModel struct {
	mu    sync.Mutex
	model *word2vec.Model
}

func (l *lockedModel) WithModel(fn func(*word2vec.Model) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.model)
}

// Incremental scores with a Word2Vec model that is updated with the query's
// tokens before vectors are read.
type Incremental struct {
	access ModelAccess
	policy word2vec.UpdatePolicy
	logger *slog.Logger
}

var _ Strategy = (*Incremental)(nil)

// IncrementalOption configures an Incremental strategy.
type IncrementalOption func(*Incremental) error

// WithUpdatePolicy sets when queries train the model.
// Default is word2vec.UpdateOnNewTokens.
func WithUpdatePolicy(policy word2vec.UpdatePolicy) IncrementalOption {
	return func(s *Incremental) error {
		if policy != word2vec.UpdateOnNewTokens && policy != word2vec.UpdateAlways {
			return word2vec.ErrUnknownUpdatePolicy
		}
		s.policy = policy
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) IncrementalOption {
	return func(s *Incremental) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewIncremental creates the strategy over a serialized model.
func NewIncremental(access ModelAccess, opts ...IncrementalOption) (*Incremental, error) {
	if access == nil {
		return nil, ErrModelRequired
	}
	s := &Incremental{
		access: access,
		policy: word2vec.UpdateOnNewTokens,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ID implements Strategy.
func (s *Incremental) ID() core.StrategyID {
	return core.StrategyWord2Vec
}

// Score implements Strategy. The model learns the query first, then both
// sequences are averaged over their in-vocabulary tokens.
func (s *Incremental) Score(ctx context.Context, query, phrase []string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var score float64
	err := s.access.WithModel(func(m *word2vec.Model) error {
		if m == nil {
			return ErrModelRequired
		}
		if m.Update(query, s.policy) {
			s.logger.Debug("incremental model trained on query", "tokens", len(query), "vocabulary", m.Len())
		}
		score = similarity.Cosine32(m.Mean(query), m.Mean(phrase))
		return nil
	})
	return score, err
}

// Sequential implements Sequential: every Score may train the model.
func (s *Incremental) Sequential() bool {
	return true
}
