// Package classify buckets a bounded score into an ordinal tier.
package classify

import (
	"fmt"
	"math"
	"strings"

	"github.com/kasheena/code-for-good/internal/lexicon"
)

const section = "tiers"

// TierConfig declares one tier. Min is the inclusive lower bound; the upper
// bound is the next tier's Min, or the score maximum for the last tier.
type TierConfig struct {
	Name            string   `mapstructure:"name" json:"name" yaml:"name"`
	Min             float64  `mapstructure:"min" json:"min" yaml:"min"`
	Recommendations []string `mapstructure:"recommendations" json:"recommendations" yaml:"recommendations"`
	CrisisResources []string `mapstructure:"crisis_resources" json:"crisis_resources,omitempty" yaml:"crisis_resources"`
}

type Config []TierConfig

type Tier struct {
	Level           int      `json:"level"`
	Name            string   `json:"name"`
	Min             float64  `json:"min"`
	Max             float64  `json:"max"`
	Recommendations []string `json:"recommendations"`
	CrisisResources []string `json:"crisis_resources,omitempty"`
}

// HasCrisisResources reports whether the tier must surface crisis resources.
func (t Tier) HasCrisisResources() bool { return len(t.CrisisResources) > 0 }

type Table struct {
	tiers []Tier
}

// New validates cfg against the score range [scoreMin, scoreMax]. Tiers must
// start at scoreMin, ascend strictly and stay within the range.
func New(cfg Config, scoreMin, scoreMax float64) (*Table, error) {
	if len(cfg) == 0 {
		return nil, lexicon.NewConfigError(section, "", "at least one tier is required")
	}
	if cfg[0].Min != scoreMin {
		return nil, lexicon.NewConfigError(section, "tiers[0].min", "first tier must start at the score minimum %g, got %g", scoreMin, cfg[0].Min)
	}

	seen := map[string]struct{}{}
	tiers := make([]Tier, len(cfg))
	for i, tc := range cfg {
		field := fmt.Sprintf("tiers[%d]", i)
		name := strings.TrimSpace(tc.Name)
		if name == "" {
			return nil, lexicon.NewConfigError(section, field, "tier name is empty")
		}
		if _, dup := seen[strings.ToLower(name)]; dup {
			return nil, lexicon.NewConfigError(section, field, "duplicate tier name %q", name)
		}
		seen[strings.ToLower(name)] = struct{}{}
		if math.IsNaN(tc.Min) || math.IsInf(tc.Min, 0) {
			return nil, lexicon.NewConfigError(section, field, "tier %q has non-finite min", name)
		}
		if i > 0 && tc.Min <= cfg[i-1].Min {
			return nil, lexicon.NewConfigError(section, field, "tier %q min %g must be above %g", name, tc.Min, cfg[i-1].Min)
		}
		if tc.Min > scoreMax {
			return nil, lexicon.NewConfigError(section, field, "tier %q min %g exceeds the score maximum %g", name, tc.Min, scoreMax)
		}
		tiers[i] = Tier{
			Level:           i,
			Name:            name,
			Min:             tc.Min,
			Recommendations: append([]string(nil), tc.Recommendations...),
			CrisisResources: append([]string(nil), tc.CrisisResources...),
		}
	}
	for i := range tiers {
		if i+1 < len(tiers) {
			tiers[i].Max = tiers[i+1].Min
		} else {
			tiers[i].Max = scoreMax
		}
	}
	return &Table{tiers: tiers}, nil
}

// Classify returns the tier whose range holds score. Lower bounds are
// inclusive, so a score on a boundary lands in the upper tier. Scores below
// the first bound fall into the lowest tier.
func (t *Table) Classify(score float64) Tier {
	idx := 0
	for i, tier := range t.tiers {
		if score >= tier.Min {
			idx = i
		}
	}
	return t.tiers[idx].clone()
}

// Tiers returns copies of every tier, lowest first.
func (t *Table) Tiers() []Tier {
	out := make([]Tier, len(t.tiers))
	for i, tier := range t.tiers {
		out[i] = tier.clone()
	}
	return out
}

func (t Tier) clone() Tier {
	t.Recommendations = append([]string(nil), t.Recommendations...)
	if t.CrisisResources != nil {
		t.CrisisResources = append([]string(nil), t.CrisisResources...)
	}
	return t
}
