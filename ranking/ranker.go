package ranking

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"slices"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/remedy/core"
	"github.com/poiesic/remedy/strategy"
	"github.com/poiesic/remedy/textnorm"
)

// DefaultTopK is the number of results interactive callers usually show.
const DefaultTopK = 5

// Ranker ranks phrase records against a query.
type Ranker struct {
	strategies *strategy.Set
	pool       *ants.Pool
	logger     *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker) error

// WithPoolSize sets the worker pool size for concurrent scoring.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(r *Ranker) error {
		if size < 1 {
			size = 1
		}
		if r.pool != nil {
			r.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRanker creates a ranker over the given strategies.
// Call Release when the ranker is no longer needed.
func NewRanker(strategies *strategy.Set, opts ...Option) (*Ranker, error) {
	if strategies == nil {
		return nil, ErrStrategiesRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Ranker{
		strategies: strategies,
		pool:       pool,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.Release()
			return nil, optErr
		}
	}
	return r, nil
}

// Release stops the worker pool.
func (r *Ranker) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}

// Strategies returns the strategies the ranker was built with.
func (r *Ranker) Strategies() *strategy.Set {
	return r.strategies
}

// Rank scores every record against query with the strategy id and returns
// the results sorted by descending score. Ties keep corpus order. Nil
// records are skipped. An empty corpus yields an empty slice.
func (r *Ranker) Rank(ctx context.Context, query string, corpus []*core.PhraseRecord, id core.StrategyID) ([]core.RankedResult, error) {
	return r.RankWithMonitor(ctx, query, corpus, id, nil)
}

// RankWithMonitor is Rank with callbacks at each stage. Scored may be called
// from several goroutines at once.
func (r *Ranker) RankWithMonitor(ctx context.Context, query string, corpus []*core.PhraseRecord, id core.StrategyID, monitor RankMonitor) ([]core.RankedResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	st, err := r.strategies.Get(id)
	if err != nil {
		return nil, err
	}

	tokens := textnorm.Normalize(query)
	records := compact(corpus)
	monitor.Start(query, tokens, len(records))

	scores, err := r.score(ctx, st, tokens, records, monitor)
	if err != nil {
		r.logger.Error("error ranking corpus", "strategy", id, "err", err)
		return nil, err
	}

	results := make([]core.RankedResult, len(records))
	for i, record := range records {
		results[i] = core.RankedResult{
			Phrase:     record.Phrase,
			Resolution: record.Resolution,
			Score:      scores[i],
		}
	}
	slices.SortStableFunc(results, func(a, b core.RankedResult) int {
		return cmp.Compare(b.Score, a.Score)
	})

	monitor.Finish(results)
	r.logger.Debug("ranked corpus", "strategy", id, "records", len(results), "queryTokens", len(tokens))
	return results, nil
}

// RankAll scores every record under every configured strategy. Results are
// in corpus order.
func (r *Ranker) RankAll(ctx context.Context, query string, corpus []*core.PhraseRecord) ([]core.MultiRankedResult, error) {
	strategies := r.strategies.All()
	if len(strategies) == 0 {
		return nil, ErrStrategiesRequired
	}

	tokens := textnorm.Normalize(query)
	records := compact(corpus)
	results := make([]core.MultiRankedResult, len(records))
	for i, record := range records {
		results[i] = core.MultiRankedResult{
			Phrase:     record.Phrase,
			Resolution: record.Resolution,
			Scores:     make(core.StrategyScores, len(strategies)),
		}
	}

	for _, st := range strategies {
		scores, err := r.score(ctx, st, tokens, records, &noopMonitor{})
		if err != nil {
			r.logger.Error("error ranking corpus", "strategy", st.ID(), "err", err)
			return nil, err
		}
		for i, score := range scores {
			results[i].Scores[st.ID()] = score
		}
	}

	r.logger.Debug("ranked corpus under all strategies", "strategies", len(strategies), "records", len(results))
	return results, nil
}

// ScoreAll compares one query with one phrase under every configured strategy.
func (r *Ranker) ScoreAll(ctx context.Context, query, phrase string) (core.StrategyScores, error) {
	strategies := r.strategies.All()
	if len(strategies) == 0 {
		return nil, ErrStrategiesRequired
	}

	q := textnorm.Normalize(query)
	p := textnorm.Normalize(phrase)
	scores := make(core.StrategyScores, len(strategies))
	for _, st := range strategies {
		score, err := st.Score(ctx, q, p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", st.ID(), err)
		}
		scores[st.ID()] = sanitize(score)
	}
	return scores, nil
}

// Top returns at most the first k results.
func Top[T any](results []T, k int) []T {
	if k <= 0 {
		return results[:0]
	}
	if len(results) > k {
		return results[:k]
	}
	return results
}

// score returns one score per record, indexed like records.
func (r *Ranker) score(ctx context.Context, st strategy.Strategy, query []string, records []*core.PhraseRecord, monitor RankMonitor) ([]float64, error) {
	scores := make([]float64, len(records))
	if len(records) == 0 {
		return scores, nil
	}

	if strategy.IsSequential(st) || len(records) == 1 {
		for i, record := range records {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			score, err := st.Score(ctx, query, textnorm.Normalize(record.Phrase))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", st.ID(), err)
			}
			scores[i] = sanitize(score)
			monitor.Scored(record, st.ID(), scores[i])
		}
		return scores, nil
	}

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i, record := range records {
		wg.Add(1)
		submitErr := r.pool.Submit(func() {
			defer wg.Done()
			if workCtx.Err() != nil {
				return
			}
			score, err := st.Score(workCtx, query, textnorm.Normalize(record.Phrase))
			if err != nil {
				fail(fmt.Errorf("%s: %w", st.ID(), err))
				return
			}
			scores[i] = sanitize(score)
			monitor.Scored(record, st.ID(), scores[i])
		})
		if submitErr != nil {
			wg.Done()
			if errors.Is(submitErr, ants.ErrPoolClosed) {
				submitErr = ErrRankerReleased
			}
			fail(submitErr)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

// compact drops nil records.
func compact(corpus []*core.PhraseRecord) []*core.PhraseRecord {
	records := make([]*core.PhraseRecord, 0, len(corpus))
	for _, record := range corpus {
		if record != nil {
			records = append(records, record)
		}
	}
	return records
}

// sanitize keeps NaN out of the sort.
func sanitize(score float64) float64 {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0
	}
	return score
}
