package ranking

import (
	"time"

	"github.com/poiesic/remedy/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for ranking runs.
//
// Metrics:
//   - remedy_rank_runs_total{strategy} - completed ranking runs
//   - remedy_rank_duration_seconds{strategy} - wall time of a ranking run
//   - remedy_rank_scores{strategy} - distribution of similarity scores
//   - remedy_rank_corpus_records - records in the most recent ranked corpus
type Metrics struct {
	RunsTotal     *prometheus.CounterVec
	RunDuration   *prometheus.HistogramVec
	Scores        *prometheus.HistogramVec
	CorpusRecords prometheus.Gauge
}

// NewMetrics creates the ranking collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remedy_rank_runs_total",
				Help: "Total number of completed ranking runs",
			},
			[]string{"strategy"},
		),
		RunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "remedy_rank_duration_seconds",
				Help:    "Duration of ranking runs in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"strategy"},
		),
		Scores: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "remedy_rank_scores",
				Help:    "Similarity scores produced while ranking",
				Buckets: prometheus.LinearBuckets(-1, 0.25, 9),
			},
			[]string{"strategy"},
		),
		CorpusRecords: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "remedy_rank_corpus_records",
				Help: "Number of records in the most recently ranked corpus",
			},
		),
	}
}

// Monitor returns a RankMonitor for a single run under strategy id.
func (m *Metrics) Monitor(id core.StrategyID) RankMonitor {
	return &metricsMonitor{metrics: m, strategy: id.String()}
}

type metricsMonitor struct {
	metrics  *Metrics
	strategy string
	started  time.Time
}

var _ RankMonitor = (*metricsMonitor)(nil)

func (m *metricsMonitor) Start(_ string, _ []string, corpusSize int) {
	m.started = time.Now()
	m.metrics.CorpusRecords.Set(float64(corpusSize))
}

func (m *metricsMonitor) Scored(_ *core.PhraseRecord, _ core.StrategyID, score float64) {
	m.metrics.Scores.WithLabelValues(m.strategy).Observe(score)
}

func (m *metricsMonitor) Finish(_ []core.RankedResult) {
	m.metrics.RunsTotal.WithLabelValues(m.strategy).Inc()
	m.metrics.RunDuration.WithLabelValues(m.strategy).Observe(time.Since(m.started).Seconds())
}
