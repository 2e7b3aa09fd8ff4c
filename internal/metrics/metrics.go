// Package metrics exposes Prometheus instrumentation for analyses.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lexscore"

var DefaultDurationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}

type Metrics struct {
	AnalysesTotal      *prometheus.CounterVec
	MatchesTotal       *prometheus.CounterVec
	SentimentFallbacks *prometheus.CounterVec
	AnalysisDuration   *prometheus.HistogramVec
}

// Observation is the slice of an analysis report the metrics care about.
type Observation struct {
	Profile  string
	Tier     string
	Counts   map[string]int
	Degraded bool
	Duration time.Duration
}

// New registers every collector with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed analyses by profile and tier.",
		}, []string{"profile", "tier"}),
		MatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Resolved lexicon matches by profile and category.",
		}, []string{"profile", "category"}),
		SentimentFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentiment_fallbacks_total",
			Help:      "Analyses that used a neutral sentiment because the provider failed.",
		}, []string{"profile"}),
		AnalysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of a single analysis.",
			Buckets:   DefaultDurationBuckets,
		}, []string{"profile"}),
	}
	for _, c := range []prometheus.Collector{m.AnalysesTotal, m.MatchesTotal, m.SentimentFallbacks, m.AnalysisDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe records one analysis. A nil receiver is a no-op.
func (m *Metrics) Observe(o Observation) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(o.Profile, o.Tier).Inc()
	for category, n := range o.Counts {
		if n > 0 {
			m.MatchesTotal.WithLabelValues(o.Profile, category).Add(float64(n))
		}
	}
	if o.Degraded {
		m.SentimentFallbacks.WithLabelValues(o.Profile).Inc()
	}
	m.AnalysisDuration.WithLabelValues(o.Profile).Observe(o.Duration.Seconds())
}
