// Package score aggregates resolved matches, and optionally an external
// sentiment signal, into a bounded composite score.
package score

import (
	"math"
	"slices"

	"github.com/kasheena/code-for-good/internal/lexicon"
	"github.com/kasheena/code-for-good/internal/match"
)

const section = "scoring"

// Polarity selects which sentiment direction raises the score.
type Polarity string

const (
	// PolarityNegative: negative mood raises the score (risk profiles).
	PolarityNegative Polarity = "negative"
	// PolarityPositive: positive mood raises the score.
	PolarityPositive Polarity = "positive"
)

type Config struct {
	Min               float64  `mapstructure:"min" json:"min" yaml:"min"`
	Max               float64  `mapstructure:"max" json:"max" yaml:"max"`
	SentimentWeight   float64  `mapstructure:"sentiment_weight" json:"sentiment_weight" yaml:"sentiment_weight"`
	SentimentPolarity Polarity `mapstructure:"sentiment_polarity" json:"sentiment_polarity" yaml:"sentiment_polarity"`
}

// Validate reports the first problem with c as a *lexicon.ConfigError.
func (c Config) Validate() error {
	if !finite(c.Min) || !finite(c.Max) {
		return lexicon.NewConfigError(section, "min/max", "range bounds must be finite")
	}
	if c.Min >= c.Max {
		return lexicon.NewConfigError(section, "min/max", "min %g must be below max %g", c.Min, c.Max)
	}
	if !finite(c.SentimentWeight) || c.SentimentWeight < 0 {
		return lexicon.NewConfigError(section, "sentiment_weight", "must be finite and non-negative, got %g", c.SentimentWeight)
	}
	switch c.SentimentPolarity {
	case "", PolarityNegative, PolarityPositive:
	default:
		return lexicon.NewConfigError(section, "sentiment_polarity", "unknown polarity %q", c.SentimentPolarity)
	}
	return nil
}

type Result struct {
	Counts                map[string]int `json:"counts"`
	Raw                   float64        `json:"raw"`
	Sentiment             *float64       `json:"sentiment,omitempty"`
	SentimentContribution float64        `json:"sentiment_contribution"`
	Combined              float64        `json:"combined"`
	Score                 float64        `json:"score"`
	Min                   float64        `json:"min"`
	Max                   float64        `json:"max"`
}

// Compute scores a resolved span set. Every category in weights appears in
// Counts, spans of unknown categories are counted with weight zero, and a nil
// sentiment contributes nothing.
func Compute(spans []match.Match, weights map[string]float64, cfg Config, sentiment *float64) Result {
	counts := make(map[string]int, len(weights))
	for id := range weights {
		counts[id] = 0
	}
	for _, s := range spans {
		counts[s.Category]++
	}

	// Sorted order keeps the float sum bit-for-bit reproducible.
	var raw float64
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		raw += weights[id] * float64(counts[id])
	}

	res := Result{Counts: counts, Raw: raw, Min: cfg.Min, Max: cfg.Max}
	if sentiment != nil && finite(*sentiment) {
		compound := Clamp(*sentiment, -1, 1)
		res.Sentiment = &compound
		res.SentimentContribution = SentimentContribution(compound, cfg)
	}
	res.Combined = res.Raw + res.SentimentContribution
	res.Score = Clamp(res.Combined, cfg.Min, cfg.Max)
	return res
}

// SentimentContribution rescales a compound polarity in [-1, 1] onto the
// width of the score range and applies the configured weight.
func SentimentContribution(compound float64, cfg Config) float64 {
	if cfg.SentimentWeight == 0 {
		return 0
	}
	signal := Clamp(compound, -1, 1)
	if cfg.SentimentPolarity != PolarityPositive {
		signal = -signal
	}
	return cfg.SentimentWeight * signal * (cfg.Max - cfg.Min)
}

// Clamp bounds v to [lo, hi]. NaN maps to lo. Clamp(Clamp(v)) == Clamp(v).
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
