package lexicon

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func biasConfig() Config {
	return Config{Categories: []Category{
		{ID: "exclusionary", Label: "Exclusionary", Color: "orange", Weight: 1.5, Terms: []string{"rockstar", "ninja", "work hard, play hard"}},
		{ID: "male_coded", Label: "Male-coded", Color: "red", Weight: 1, Terms: []string{"aggressive", "dominant"}},
		{ID: "female_coded", Color: "blue", Weight: 0.5, Terms: []string{"respon", "support"}},
	}}
}

func TestLoadPreservesOrderAndDefaults(t *testing.T) {
	s, err := Load(biasConfig())
	require.NoError(t, err)

	cats := s.Categories()
	require.Len(t, cats, 3)
	assert.Equal(t, "exclusionary", cats[0].ID)
	assert.Equal(t, "female_coded", cats[2].Label, "label falls back to id")
	assert.Equal(t, []string{"aggressive", "dominant"}, s.TermsFor("male_coded"))
	assert.Nil(t, s.TermsFor("missing"))
	assert.Equal(t, 0, s.Priority("exclusionary"))
	assert.Equal(t, 3, s.Priority("missing"))
	assert.Equal(t, map[string]float64{"exclusionary": 1.5, "male_coded": 1, "female_coded": 0.5}, s.Weights())
	assert.Len(t, s.Terms(), 7)
}

func TestStoreIsImmutable(t *testing.T) {
	cfg := biasConfig()
	s, err := Load(cfg)
	require.NoError(t, err)

	cfg.Categories[0].Terms[0] = "changed"
	s.Categories()[0].Terms[0] = "changed"
	s.TermsFor("exclusionary")[1] = "changed"
	c, ok := s.Category("exclusionary")
	require.True(t, ok)
	c.Terms[2] = "changed"

	assert.Equal(t, []string{"rockstar", "ninja", "work hard, play hard"}, s.TermsFor("exclusionary"))
}

func TestLoadCollapsesDuplicateTermsInCategory(t *testing.T) {
	s, err := Load(Config{Categories: []Category{
		{ID: "a", Weight: 1, Terms: []string{"Ninja", " ninja ", "NINJA", "guru"}},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ninja", "guru"}, s.TermsFor("a"))
}

func TestLoadAllowsSharedTermWithEqualWeight(t *testing.T) {
	_, err := Load(Config{Categories: []Category{
		{ID: "a", Weight: 1, Terms: []string{"lead"}},
		{ID: "b", Weight: 1, Terms: []string{"Lead"}},
	}})
	assert.NoError(t, err)
}

func TestLoadRejectsMalformedConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"no categories", Config{}, "at least one category"},
		{"empty id", Config{Categories: []Category{{ID: " ", Weight: 1, Terms: []string{"x"}}}}, "id is empty"},
		{"duplicate id", Config{Categories: []Category{
			{ID: "a", Weight: 1, Terms: []string{"x"}},
			{ID: "a", Weight: 1, Terms: []string{"y"}},
		}}, "duplicate category id"},
		{"empty category", Config{Categories: []Category{{ID: "a", Weight: 1}}}, "has no terms"},
		{"blank term", Config{Categories: []Category{{ID: "a", Weight: 1, Terms: []string{"x", "  "}}}}, "empty term"},
		{"nan weight", Config{Categories: []Category{{ID: "a", Weight: math.NaN(), Terms: []string{"x"}}}}, "non-finite"},
		{"inf weight", Config{Categories: []Category{{ID: "a", Weight: math.Inf(1), Terms: []string{"x"}}}}, "non-finite"},
		{"negative weight", Config{Categories: []Category{{ID: "a", Weight: -1, Terms: []string{"x"}}}}, "negative weight"},
		{"conflicting weights", Config{Categories: []Category{
			{ID: "a", Weight: 1, Terms: []string{"lead"}},
			{ID: "b", Weight: 2, Terms: []string{"LEAD"}},
		}}, "conflicting weights"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(tt.cfg)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.True(t, errors.Is(err, ErrConfig))
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, "lexicon", cfgErr.Section)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadAllowsNegativeWeightsWhenEnabled(t *testing.T) {
	s, err := Load(Config{
		AllowNegativeWeights: true,
		Categories:           []Category{{ID: "calm", Weight: -0.5, Terms: []string{"relaxed"}}},
	})
	require.NoError(t, err)
	assert.True(t, s.Config().AllowNegativeWeights)
}

func TestTermBoundaryFlags(t *testing.T) {
	s := MustLoad(Config{Categories: []Category{
		{ID: "a", Weight: 1, Terms: []string{"c++", "fast-paced", "#hashtag"}},
	}})
	terms := s.Terms()
	require.Len(t, terms, 3)

	assert.True(t, terms[0].WordStart())
	assert.False(t, terms[0].WordEnd())
	assert.True(t, terms[1].WordStart())
	assert.True(t, terms[1].WordEnd())
	assert.False(t, terms[2].WordStart())
	assert.True(t, terms[0].Pattern().MatchString("Senior C++ dev"))
	assert.True(t, terms[1].Pattern().MatchString("a FAST-PACED team"))
}

func TestTermPatternAcceptsApostropheVariants(t *testing.T) {
	s := MustLoad(Config{Categories: []Category{
		{ID: "distress", Weight: 10, Terms: []string{"can't cope", "can’t cope"}},
	}})
	terms := s.Terms()
	require.Len(t, terms, 1, "apostrophe variants are one term")

	re := terms[0].Pattern()
	for _, text := range []string{"I can't cope", "I can’t cope", "I canʼt cope", "I CAN’T COPE"} {
		assert.True(t, re.MatchString(text), text)
	}
	assert.False(t, re.MatchString("I cant cope"))
}

func TestTermPatternAcceptsDecomposedText(t *testing.T) {
	s := MustLoad(Config{Categories: []Category{
		{ID: "buzz", Weight: 1, Terms: []string{"na\u00efve"}},
	}})
	re := s.Terms()[0].Pattern()
	decomposed := "nai\u0308ve"
	assert.Equal(t, "na\u00efve", re.FindString("so na\u00efve"))
	assert.Equal(t, decomposed, re.FindString("so "+decomposed+" again"))
	assert.Equal(t, "NAI\u0308VE", re.FindString("so NAI\u0308VE"))
}
