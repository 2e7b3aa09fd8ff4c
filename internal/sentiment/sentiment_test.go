package sentiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVADERPolarity(t *testing.T) {
	v := NewVADER()
	ctx := context.Background()

	pos, err := v.Analyze(ctx, "I love this team, the people are wonderful and kind!")
	require.NoError(t, err)
	assert.Greater(t, pos.Compound, 0.5)
	assert.Greater(t, pos.Positive, pos.Negative)

	neg, err := v.Analyze(ctx, "I feel hopeless and terrible, everything is awful.")
	require.NoError(t, err)
	assert.Less(t, neg.Compound, -0.5)

	for _, s := range []Scores{pos, neg} {
		assert.GreaterOrEqual(t, s.Compound, -1.0)
		assert.LessOrEqual(t, s.Compound, 1.0)
	}
}

func TestVADERHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewVADER().Analyze(ctx, "fine")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluateRecoversFailures(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		p    Provider
		want string
	}{
		{"nil provider", nil, "no provider"},
		{"error", ProviderFunc(func(context.Context, string) (Scores, error) {
			return Scores{}, errors.New("model offline")
		}), "model offline"},
		{"panic", ProviderFunc(func(context.Context, string) (Scores, error) {
			panic("boom")
		}), "panicked: boom"},
		{"nan", ProviderFunc(func(context.Context, string) (Scores, error) {
			return Scores{Compound: math.NaN()}, nil
		}), "not a finite number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Evaluate(ctx, tt.p, "text")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, Scores{}, s)
		})
	}
}

func TestEvaluatePassesThroughScores(t *testing.T) {
	want := Scores{Compound: -0.4, Positive: 0.1, Neutral: 0.5, Negative: 0.4}
	got, err := Evaluate(context.Background(), ProviderFunc(func(context.Context, string) (Scores, error) {
		return want, nil
	}), "text")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
