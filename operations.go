package remedy

import (
	"context"
	"io"

	"github.com/poiesic/remedy/core"
	"github.com/poiesic/remedy/logscan"
	"github.com/poiesic/remedy/ranking"
	"github.com/poiesic/remedy/storage/csvio"
)

// LogMatch is a failure line from a log and the best resolutions for it.
type LogMatch struct {
	Line    string
	Results []core.RankedResult
}

// AddPhrase stores a phrase and its resolution. It reports false when the
// exact pair is already stored.
func (e *Engine) AddPhrase(ctx context.Context, phrase, resolution string) (bool, error) {
	added, err := e.AddPhrases(ctx, &core.PhraseRecord{Phrase: phrase, Resolution: resolution})
	if err != nil {
		return false, err
	}
	return len(added) == 1, nil
}

// AddPhrases stores records, skipping exact duplicates, and teaches the
// incremental model the new phrases. It returns the records newly stored.
func (e *Engine) AddPhrases(ctx context.Context, records ...*core.PhraseRecord) ([]*core.PhraseRecord, error) {
	added, err := e.phraseRepo.AddPhraseRecords(ctx, records...)
	if err != nil {
		return nil, err
	}
	if len(added) == 0 {
		return added, nil
	}
	if _, err := e.retrainer.CatchUp(ctx); err != nil {
		return added, err
	}
	e.logger.Debug("added phrases", "added", len(added), "skipped", len(records)-len(added))
	return added, nil
}

// DeletePhrases removes records by ID.
func (e *Engine) DeletePhrases(ctx context.Context, ids ...core.ID) error {
	return e.phraseRepo.DeletePhraseRecords(ctx, ids...)
}

// Records returns the whole corpus in insertion order.
func (e *Engine) Records(ctx context.Context) ([]*core.PhraseRecord, error) {
	return e.phraseRepo.GetPhraseRecords(ctx)
}

// Count returns the corpus size.
func (e *Engine) Count(ctx context.Context) (int, error) {
	return e.phraseRepo.CountPhraseRecords(ctx)
}

// Rank scores the whole corpus against query with strategy id, best first.
func (e *Engine) Rank(ctx context.Context, query string, id core.StrategyID) ([]core.RankedResult, error) {
	corpus, err := e.phraseRepo.GetPhraseRecords(ctx)
	if err != nil {
		return nil, err
	}
	var monitor ranking.RankMonitor
	if e.metrics != nil {
		monitor = e.metrics.Monitor(id)
	}
	return e.ranker.RankWithMonitor(ctx, query, corpus, id, monitor)
}

// RankAll scores the whole corpus under every strategy, in corpus order.
func (e *Engine) RankAll(ctx context.Context, query string) ([]core.MultiRankedResult, error) {
	corpus, err := e.phraseRepo.GetPhraseRecords(ctx)
	if err != nil {
		return nil, err
	}
	return e.ranker.RankAll(ctx, query, corpus)
}

// Search returns the k best results for query. A k <= 0 uses the configured top-K.
func (e *Engine) Search(ctx context.Context, query string, id core.StrategyID, k int) ([]core.RankedResult, error) {
	results, err := e.Rank(ctx, query, id)
	if err != nil {
		return nil, err
	}
	return ranking.Top(results, e.topK(k)), nil
}

// ScanLog searches for every failure line of the log at path.
func (e *Engine) ScanLog(ctx context.Context, path string, id core.StrategyID, k int) ([]LogMatch, error) {
	lines, err := logscan.ScanFile(path)
	if err != nil {
		return nil, err
	}
	matches := make([]LogMatch, 0, len(lines))
	for _, line := range lines {
		results, err := e.Search(ctx, line, id, k)
		if err != nil {
			return nil, err
		}
		matches = append(matches, LogMatch{Line: line, Results: results})
	}
	return matches, nil
}

// FollowLog searches for every failure line appended to the log at path
// until ctx is done or fn returns an error.
func (e *Engine) FollowLog(ctx context.Context, path string, id core.StrategyID, k int, fn func(LogMatch) error) error {
	return logscan.Follow(ctx, path, func(line string) error {
		results, err := e.Search(ctx, line, id, k)
		if err != nil {
			return err
		}
		return fn(LogMatch{Line: line, Results: results})
	})
}

// ImportCSV stores the records of a phrase,resolution CSV. It returns how
// many were read and how many were new.
func (e *Engine) ImportCSV(ctx context.Context, r io.Reader) (read, added int, err error) {
	records, err := csvio.ReadRecords(r, csvio.WithLogger(e.logger))
	if err != nil {
		return 0, 0, err
	}
	if len(records) == 0 {
		return 0, 0, nil
	}
	stored, err := e.AddPhrases(ctx, records...)
	return len(records), len(stored), err
}

// ExportCSV writes the corpus as a phrase,resolution CSV and returns the
// number of records written.
func (e *Engine) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	records, err := e.phraseRepo.GetPhraseRecords(ctx)
	if err != nil {
		return 0, err
	}
	if err := csvio.WriteRecords(w, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// RebuildModel retrains the incremental model on the whole corpus and
// returns the number of phrases used.
func (e *Engine) RebuildModel(ctx context.Context) (int, error) {
	return e.retrainer.Run(ctx)
}

// SaveModel writes the incremental model to its configured path.
func (e *Engine) SaveModel() error {
	return e.models.Save()
}

func (e *Engine) topK(k int) int {
	if k <= 0 {
		return e.cfg.Ranking.TopK
	}
	return k
}
