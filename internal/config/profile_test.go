package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasheena/code-for-good/internal/db"
	"github.com/kasheena/code-for-good/internal/engine"
	"github.com/kasheena/code-for-good/internal/lexicon"
	"github.com/kasheena/code-for-good/internal/score"
	"github.com/kasheena/code-for-good/internal/sentiment"
)

func TestBuiltinProfiles(t *testing.T) {
	assert.Equal(t, []string{"job_ad_bias", "wellness"}, BuiltinProfiles())

	for _, name := range BuiltinProfiles() {
		t.Run(name, func(t *testing.T) {
			p, err := BuiltinProfile(name)
			require.NoError(t, err)
			assert.Equal(t, name, p.Name)
			assert.NotEmpty(t, p.Description)

			_, err = engine.New(p.EngineOptions())
			require.NoError(t, err, "built-in profile must validate")
		})
	}
}

func TestBuiltinProfileUnknown(t *testing.T) {
	_, err := BuiltinProfile("horoscope")
	assert.ErrorIs(t, err, ErrUnknownProfile)
}

func TestJobAdProfileMatchesOriginalWeights(t *testing.T) {
	p, err := BuiltinProfile("job_ad_bias")
	require.NoError(t, err)

	e, err := engine.New(p.EngineOptions())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"exclusionary": 1, "male_coded": 1, "female_coded": 0.5}, e.Store().Weights())
	assert.Equal(t, 0.0, p.Scoring.SentimentWeight)

	r := e.Analyze(context.Background(), "We need a rockstar ninja who is aggressive, dominant and supportive.")
	assert.InDelta(t, 4.5, r.Result.Score, 1e-9)
	assert.Equal(t, "Moderate", r.Tier.Name)
	assert.Contains(t, r.Tier.Recommendations, "'Rockstar developer' → 'Skilled developer'")

	cat, ok := e.Store().Category("exclusionary")
	require.True(t, ok)
	assert.Equal(t, "orange", cat.Color)
	assert.Contains(t, cat.Terms, "work hard, play hard")
}

func TestWellnessProfileCrisisTiers(t *testing.T) {
	p, err := BuiltinProfile("wellness")
	require.NoError(t, err)
	assert.Equal(t, score.PolarityNegative, p.Scoring.SentimentPolarity)

	e, err := engine.New(p.EngineOptions())
	require.NoError(t, err)

	r := e.Analyze(context.Background(), "Some days I just want to end it all.")
	assert.Equal(t, 75.0, r.Result.Score)
	assert.Equal(t, "High", r.Tier.Name)
	assert.True(t, r.Tier.HasCrisisResources())
	assert.Contains(t, r.Tier.CrisisResources, "US: call or text 988 (Suicide & Crisis Lifeline).")

	calm := e.Analyze(context.Background(), "Had a nice walk and a good dinner.")
	assert.Equal(t, "Low", calm.Tier.Name)
	assert.False(t, calm.Tier.HasCrisisResources())
}

func TestWellnessCrisisSurvivesPositiveSentiment(t *testing.T) {
	p, err := BuiltinProfile("wellness")
	require.NoError(t, err)
	opts := p.EngineOptions()
	opts.Provider = sentiment.ProviderFunc(func(context.Context, string) (sentiment.Scores, error) {
		return sentiment.Scores{Compound: 1}, nil
	})
	e, err := engine.New(opts)
	require.NoError(t, err)

	for _, term := range e.Store().TermsFor("crisis") {
		text := "I " + term + ". Thank you so much, you are all wonderful, I love you!"
		r := e.Analyze(context.Background(), text)
		require.NotNil(t, r.Sentiment, term)
		assert.Less(t, r.Result.SentimentContribution, 0.0, term)
		assert.NotEmpty(t, r.Tier.CrisisResources, "%q scored %v (%s)", term, r.Result.Score, r.Tier.Name)
	}

	opts.Provider = sentiment.NewVADER()
	e, err = engine.New(opts)
	require.NoError(t, err)
	r := e.Analyze(context.Background(), "I want to die. Thank you so much, you are all wonderful, I love you and I am so grateful!")
	assert.True(t, r.Tier.HasCrisisResources(), "scored %v (%s)", r.Result.Score, r.Tier.Name)
}

func TestLoadProfileFromFile(t *testing.T) {
	p, err := LoadProfile(writeFile(t, "tiny.yaml", `
lexicon:
  categories:
    - id: buzz
      weight: 2
      terms: [synergy, "move the needle"]
scoring:
  min: 0
  max: 4
tiers:
  - name: Fine
    min: 0
  - name: Buzzy
    min: 2
`))
	require.NoError(t, err)
	assert.Equal(t, "tiny", p.Name)
	assert.Equal(t, []string{"synergy", "move the needle"}, p.Lexicon.Categories[0].Terms)

	e, err := engine.New(p.EngineOptions())
	require.NoError(t, err)
	r := e.Analyze(context.Background(), "Let's move the needle with Synergy.")
	assert.Equal(t, 4.0, r.Result.Score)
	assert.Equal(t, "Buzzy", r.Tier.Name)
}

func TestLoadProfileInvalidIsRejectedByEngine(t *testing.T) {
	p, err := LoadProfile(writeFile(t, "bad.yaml", `
lexicon:
  categories:
    - id: a
      weight: 1
      terms: []
scoring: {min: 0, max: 1}
tiers: [{name: Only, min: 0}]
`))
	require.NoError(t, err)
	_, err = engine.New(p.EngineOptions())
	assert.ErrorIs(t, err, lexicon.ErrConfig)
}

func TestResolveWithLexiconPack(t *testing.T) {
	packPath := filepath.Join(t.TempDir(), "pack.db")
	require.NoError(t, db.SaveLexicon(packPath, lexicon.Config{Categories: []lexicon.Category{
		{ID: "exclusionary", Weight: 3, Terms: []string{"unicorn"}},
	}}))

	p, err := Resolve(EngineConfig{Profile: "job_ad_bias", LexiconDB: packPath})
	require.NoError(t, err)
	require.Len(t, p.Lexicon.Categories, 1)

	e, err := engine.New(p.EngineOptions())
	require.NoError(t, err)
	r := e.Analyze(context.Background(), "A unicorn rockstar.")
	assert.Equal(t, 3.0, r.Result.Score)
}

func TestResolveUnknownProfile(t *testing.T) {
	_, err := Resolve(EngineConfig{Profile: "nope"})
	assert.ErrorIs(t, err, ErrUnknownProfile)
}
