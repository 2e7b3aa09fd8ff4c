// Package engine wires the lexicon, matcher, scorer, classifier and annotator
// into a single analysis profile.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kasheena/code-for-good/internal/annotate"
	"github.com/kasheena/code-for-good/internal/classify"
	"github.com/kasheena/code-for-good/internal/lexicon"
	"github.com/kasheena/code-for-good/internal/logging"
	"github.com/kasheena/code-for-good/internal/match"
	"github.com/kasheena/code-for-good/internal/metrics"
	"github.com/kasheena/code-for-good/internal/pipeline"
	"github.com/kasheena/code-for-good/internal/score"
	"github.com/kasheena/code-for-good/internal/sentiment"
)

const DefaultName = "default"

type Options struct {
	// Name identifies the profile in reports, logs and metrics.
	Name string
	// Lexicon is compiled with lexicon.Load unless Store is set.
	Lexicon lexicon.Config
	Store   *lexicon.Store
	Scoring score.Config
	Tiers   classify.Config

	// Provider is optional. It is only consulted when Scoring.SentimentWeight
	// is positive.
	Provider sentiment.Provider
	Logger   logging.Logger
	Metrics  *metrics.Metrics
}

// Engine is immutable after New and safe for concurrent use.
type Engine struct {
	name     string
	store    *lexicon.Store
	weights  map[string]float64
	scoring  score.Config
	table    *classify.Table
	provider sentiment.Provider
	logger   logging.Logger
	metrics  *metrics.Metrics
}

type Report struct {
	Profile   string             `json:"profile"`
	Result    score.Result       `json:"result"`
	Tier      classify.Tier      `json:"tier"`
	Segments  []annotate.Segment `json:"segments"`
	Matches   []match.Match      `json:"matches"`
	Sentiment *sentiment.Scores  `json:"sentiment,omitempty"`
	Degraded  bool               `json:"degraded"`
	Warnings  []string           `json:"warnings,omitempty"`
	Duration  time.Duration      `json:"duration_ns"`
}

// New validates every part of the profile. All failures are
// *lexicon.ConfigError values.
func New(opts Options) (*Engine, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = DefaultName
	}

	store := opts.Store
	if store == nil {
		var err error
		if store, err = lexicon.Load(opts.Lexicon); err != nil {
			return nil, fmt.Errorf("profile %s: %w", name, err)
		}
	}
	if err := opts.Scoring.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", name, err)
	}
	table, err := classify.New(opts.Tiers, opts.Scoring.Min, opts.Scoring.Max)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", name, err)
	}

	return &Engine{
		name:     name,
		store:    store,
		weights:  store.Weights(),
		scoring:  opts.Scoring,
		table:    table,
		provider: opts.Provider,
		logger:   logging.OrNop(opts.Logger).Named("engine").With(logging.String("profile", name)),
		metrics:  opts.Metrics,
	}, nil
}

func (e *Engine) Name() string           { return e.name }
func (e *Engine) Store() *lexicon.Store  { return e.store }
func (e *Engine) Table() *classify.Table { return e.table }
func (e *Engine) Scoring() score.Config  { return e.scoring }

// HasSentiment reports whether Analyze will consult the provider.
func (e *Engine) HasSentiment() bool {
	return e.provider != nil && e.scoring.SentimentWeight > 0
}

// WithoutSentiment returns a copy of e that never consults the provider.
func (e *Engine) WithoutSentiment() *Engine {
	cp := *e
	cp.provider = nil
	return &cp
}

// Styles maps category ids to their display style for annotate.RenderHTML.
func (e *Engine) Styles() map[string]annotate.Style {
	cats := e.store.Categories()
	out := make(map[string]annotate.Style, len(cats))
	for _, c := range cats {
		out[c.ID] = annotate.Style{Label: c.Label, Color: c.Color}
	}
	return out
}

// HTML renders the report's segments with this engine's category styles.
func (e *Engine) HTML(r Report) string {
	return annotate.RenderHTML(r.Segments, e.Styles())
}

// Analyze never fails: a broken sentiment provider degrades the report to a
// lexical-only score and blank text yields the lowest tier.
func (e *Engine) Analyze(ctx context.Context, text string) Report {
	start := time.Now()
	r := Report{Profile: e.name}

	var spans []match.Match
	var compound *float64
	if strings.TrimSpace(text) != "" {
		spans = match.FindMatches(text, e.store)
		if e.HasSentiment() {
			s, err := sentiment.Evaluate(ctx, e.provider, text)
			if err != nil {
				r.Degraded = true
				r.Warnings = append(r.Warnings, fmt.Sprintf("sentiment unavailable, using lexical score only: %v", err))
				e.logger.Warn("sentiment provider failed", logging.Err(err))
			} else {
				r.Sentiment = &s
				compound = &s.Compound
			}
		}
	}

	r.Matches = spans
	r.Result = score.Compute(spans, e.weights, e.scoring, compound)
	r.Tier = e.table.Classify(r.Result.Score)
	r.Segments = annotate.Annotate(text, spans)
	r.Duration = time.Since(start)

	e.metrics.Observe(metrics.Observation{
		Profile:  e.name,
		Tier:     r.Tier.Name,
		Counts:   r.Result.Counts,
		Degraded: r.Degraded,
		Duration: r.Duration,
	})
	e.logger.Debug("analysis complete",
		logging.Int("matches", len(spans)),
		logging.Float64("score", r.Result.Score),
		logging.String("tier", r.Tier.Name),
		logging.Bool("degraded", r.Degraded),
		logging.Duration("took", r.Duration),
	)
	return r
}

// AnalyzeBatch analyzes texts on the worker pool. Reports keep input order.
func (e *Engine) AnalyzeBatch(ctx context.Context, texts []string, workers int) []Report {
	reports := make([]Report, len(texts))
	pipeline.Run(texts, workers, func(i int, text string) error {
		reports[i] = e.Analyze(ctx, text)
		return nil
	})
	return reports
}
