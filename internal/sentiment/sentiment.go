// Package sentiment defines the external sentiment capability consumed by the
// scoring engine and a VADER-backed default implementation.
package sentiment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jonreiter/govader"
)

// Scores is a polarity breakdown. Compound lies in [-1, 1].
type Scores struct {
	Compound float64 `json:"compound"`
	Positive float64 `json:"pos"`
	Neutral  float64 `json:"neu"`
	Negative float64 `json:"neg"`
}

type Provider interface {
	Analyze(ctx context.Context, text string) (Scores, error)
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(ctx context.Context, text string) (Scores, error)

func (f ProviderFunc) Analyze(ctx context.Context, text string) (Scores, error) {
	return f(ctx, text)
}

var ErrInvalidScores = errors.New("sentiment: compound score is not a finite number")

// Evaluate calls p and turns every failure mode, panics included, into an
// error so callers can fall back to a neutral contribution.
func Evaluate(ctx context.Context, p Provider, text string) (s Scores, err error) {
	if p == nil {
		return Scores{}, errors.New("sentiment: no provider configured")
	}
	defer func() {
		if r := recover(); r != nil {
			s, err = Scores{}, fmt.Errorf("sentiment: provider panicked: %v", r)
		}
	}()
	s, err = p.Analyze(ctx, text)
	if err != nil {
		return Scores{}, err
	}
	if math.IsNaN(s.Compound) || math.IsInf(s.Compound, 0) {
		return Scores{}, ErrInvalidScores
	}
	return s, nil
}

// VADER scores text with the VADER lexicon and rules. The analyzer only reads
// its tables after construction and may be shared.
type VADER struct {
	sia *govader.SentimentIntensityAnalyzer
}

func NewVADER() *VADER {
	return &VADER{sia: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VADER) Analyze(ctx context.Context, text string) (Scores, error) {
	if err := ctx.Err(); err != nil {
		return Scores{}, err
	}
	s := v.sia.PolarityScores(text)
	return Scores{
		Compound: s.Compound,
		Positive: s.Positive,
		Neutral:  s.Neutral,
		Negative: s.Negative,
	}, nil
}
