package strategy

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/poiesic/remedy/core"
	"github.com/poiesic/remedy/glove"
	"github.com/poiesic/remedy/similarity"
	"github.com/poiesic/remedy/textnorm"
	"github.com/tmc/langchaingo/embeddings"
)

// Static scores with sentence vectors from a read-only embedder, normally a
// GloVe table.
type Static struct {
	embedder embeddings.Embedder
	cache    *lru.Cache[string, []float32]
}

var _ Strategy = (*Static)(nil)

// StaticOption configures a Static strategy.
type StaticOption func(*Static) error

// WithCache keeps up to size sentence vectors in memory. Phrases are embedded
// once per ranking, so a cache sized to the corpus makes repeat queries cost a
// single embedding. A size of zero disables caching.
func WithCache(size int) StaticOption {
	return func(s *Static) error {
		if size <= 0 {
			s.cache = nil
			return nil
		}
		cache, err := lru.New[string, []float32](size)
		if err != nil {
			return err
		}
		s.cache = cache
		return nil
	}
}

// NewStatic wraps any langchaingo embedder.
func NewStatic(embedder embeddings.Embedder, opts ...StaticOption) (*Static, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	s := &Static{embedder: embedder}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewGloVe scores with mean vectors from table.
func NewGloVe(table *glove.Table, opts ...StaticOption) (*Static, error) {
	if table == nil {
		return nil, ErrEmbedderRequired
	}
	embedder, err := glove.NewEmbedder(table)
	if err != nil {
		return nil, err
	}
	return NewStatic(embedder, opts...)
}

// ID implements Strategy.
func (s *Static) ID() core.StrategyID {
	return core.StrategyGloVe
}

// Score implements Strategy.
func (s *Static) Score(ctx context.Context, query, phrase []string) (float64, error) {
	vectors, err := s.embed(ctx, textnorm.Join(query), textnorm.Join(phrase))
	if err != nil {
		return 0, err
	}
	return similarity.Cosine32(vectors[0], vectors[1]), nil
}

// CacheLen returns the number of cached sentence vectors.
func (s *Static) CacheLen() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.Len()
}

// embed returns one vector per text, embedding only the cache misses.
func (s *Static) embed(ctx context.Context, texts ...string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	var missing []string
	var slots []int
	for i, text := range texts {
		if s.cache != nil {
			if v, ok := s.cache.Get(text); ok {
				vectors[i] = v
				continue
			}
		}
		missing = append(missing, text)
		slots = append(slots, i)
	}
	if len(missing) == 0 {
		return vectors, nil
	}

	embedded, err := s.embedder.EmbedDocuments(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(embedded) != len(missing) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrEmbeddingCount, len(embedded), len(missing))
	}
	for j, v := range embedded {
		vectors[slots[j]] = v
		if s.cache != nil {
			s.cache.Add(missing[j], v)
		}
	}
	return vectors, nil
}
