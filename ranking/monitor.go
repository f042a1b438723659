package ranking

import "github.com/poiesic/remedy/core"

// RankMonitor provides hooks to observe a ranking run.
type RankMonitor interface {
	Start(query string, tokens []string, corpusSize int)
	Scored(record *core.PhraseRecord, id core.StrategyID, score float64)
	Finish(results []core.RankedResult)
}

// noopMonitor is a no-op implementation of RankMonitor
type noopMonitor struct{}

var _ RankMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ []string, _ int)                         {}
func (n *noopMonitor) Scored(_ *core.PhraseRecord, _ core.StrategyID, _ float64) {}
func (n *noopMonitor) Finish(_ []core.RankedResult)                              {}
