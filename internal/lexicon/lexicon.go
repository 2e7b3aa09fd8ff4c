// Package lexicon holds the categorized term dictionary that every scoring
// request reads. A Store is built once by Load and never mutated afterwards,
// so a single instance can be shared by any number of goroutines.
package lexicon

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const section = "lexicon"

// Category is one named group of terms sharing a weight and a display style.
type Category struct {
	ID     string   `mapstructure:"id" json:"id" yaml:"id"`
	Label  string   `mapstructure:"label" json:"label" yaml:"label"`
	Color  string   `mapstructure:"color" json:"color" yaml:"color"`
	Weight float64  `mapstructure:"weight" json:"weight" yaml:"weight"`
	Terms  []string `mapstructure:"terms" json:"terms" yaml:"terms"`
}

// Config is the raw, unvalidated lexicon definition. Category order is
// significant: earlier categories win ties during overlap resolution.
type Config struct {
	Categories           []Category `mapstructure:"categories" json:"categories" yaml:"categories"`
	AllowNegativeWeights bool       `mapstructure:"allow_negative_weights" json:"allow_negative_weights" yaml:"allow_negative_weights"`
}

// Term is a compiled lexicon entry.
type Term struct {
	Text     string
	Category string
	Priority int

	pattern   *regexp.Regexp
	wordStart bool
	wordEnd   bool
}

// Pattern returns the case-insensitive literal pattern for the term.
// Regexp values are safe for concurrent use.
func (t Term) Pattern() *regexp.Regexp { return t.pattern }

// WordStart reports whether the term begins with a word rune, in which case
// an occurrence must not be preceded by another word rune.
func (t Term) WordStart() bool { return t.wordStart }

// WordEnd is the trailing counterpart of WordStart.
func (t Term) WordEnd() bool { return t.wordEnd }

type Store struct {
	categories []Category
	index      map[string]int
	terms      []Term
}

// Load validates cfg and compiles it into a Store.
func Load(cfg Config) (*Store, error) {
	if len(cfg.Categories) == 0 {
		return nil, NewConfigError(section, "categories", "at least one category is required")
	}

	fold := cases.Fold()
	s := &Store{
		categories: make([]Category, 0, len(cfg.Categories)),
		index:      make(map[string]int, len(cfg.Categories)),
	}
	// folded term -> category index that first declared it
	owners := map[string]int{}

	for i, c := range cfg.Categories {
		id := strings.TrimSpace(c.ID)
		field := fmt.Sprintf("categories[%d]", i)
		if id == "" {
			return nil, NewConfigError(section, field, "category id is empty")
		}
		if _, dup := s.index[id]; dup {
			return nil, NewConfigError(section, field, "duplicate category id %q", id)
		}
		if math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) {
			return nil, NewConfigError(section, field, "category %q has non-finite weight", id)
		}
		if c.Weight < 0 && !cfg.AllowNegativeWeights {
			return nil, NewConfigError(section, field, "category %q has negative weight %g", id, c.Weight)
		}
		if len(c.Terms) == 0 {
			return nil, NewConfigError(section, field, "category %q has no terms", id)
		}

		seen := map[string]struct{}{}
		terms := make([]string, 0, len(c.Terms))
		for j, raw := range c.Terms {
			term := norm.NFC.String(strings.TrimSpace(raw))
			if term == "" {
				return nil, NewConfigError(section, fmt.Sprintf("%s.terms[%d]", field, j), "category %q has an empty term", id)
			}
			key := fold.String(foldApostrophes(term))
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			if owner, ok := owners[key]; ok && cfg.Categories[owner].Weight != c.Weight {
				return nil, NewConfigError(section, fmt.Sprintf("%s.terms[%d]", field, j),
					"term %q is declared in %q and %q with conflicting weights", term, s.categories[owner].ID, id)
			} else if !ok {
				owners[key] = i
			}
			terms = append(terms, term)
			s.terms = append(s.terms, compileTerm(term, id, i))
		}

		s.index[id] = i
		s.categories = append(s.categories, Category{
			ID:     id,
			Label:  labelOrID(c.Label, id),
			Color:  strings.TrimSpace(c.Color),
			Weight: c.Weight,
			Terms:  terms,
		})
	}
	return s, nil
}

// MustLoad is Load for package-level fixtures; it panics on error.
func MustLoad(cfg Config) *Store {
	s, err := Load(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

func compileTerm(term, category string, priority int) Term {
	first, _ := utf8.DecodeRuneInString(term)
	last, _ := utf8.DecodeLastRuneInString(term)
	return Term{
		Text:      term,
		Category:  category,
		Priority:  priority,
		pattern:   regexp.MustCompile(termPattern(term)),
		wordStart: IsWordRune(first),
		wordEnd:   IsWordRune(last),
	}
}

// apostropheClass stands in for any apostrophe in a term, so "can't" also
// matches the typographic "can’t" and the modifier letter "canʼt".
const apostropheClass = `['’ʼ]`

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’' || r == 'ʼ'
}

func foldApostrophes(s string) string {
	return strings.Map(func(r rune) rune {
		if isApostrophe(r) {
			return '\''
		}
		return r
	}, s)
}

// termPattern builds a case-insensitive literal pattern for an NFC term. When
// the decomposed form differs it is accepted too, so NFD input still matches.
func termPattern(term string) string {
	forms := []string{term}
	if nfd := norm.NFD.String(term); nfd != term {
		forms = append(forms, nfd)
	}
	alts := make([]string, len(forms))
	for i, f := range forms {
		var b strings.Builder
		for _, r := range f {
			if isApostrophe(r) {
				b.WriteString(apostropheClass)
				continue
			}
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
		alts[i] = b.String()
	}
	return "(?i)(?:" + strings.Join(alts, "|") + ")"
}

func labelOrID(label, id string) string {
	if l := strings.TrimSpace(label); l != "" {
		return l
	}
	return id
}

// IsWordRune reports whether r belongs to an alphanumeric token.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Categories returns copies of the categories in declaration order.
func (s *Store) Categories() []Category {
	out := make([]Category, len(s.categories))
	for i, c := range s.categories {
		c.Terms = append([]string(nil), c.Terms...)
		out[i] = c
	}
	return out
}

func (s *Store) Category(id string) (Category, bool) {
	i, ok := s.index[id]
	if !ok {
		return Category{}, false
	}
	c := s.categories[i]
	c.Terms = append([]string(nil), c.Terms...)
	return c, true
}

// TermsFor returns the terms of category id, or nil when it is unknown.
func (s *Store) TermsFor(id string) []string {
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	return append([]string(nil), s.categories[i].Terms...)
}

// Terms returns every compiled term, ordered by category priority and then
// declaration order.
func (s *Store) Terms() []Term {
	return append([]Term(nil), s.terms...)
}

func (s *Store) Weights() map[string]float64 {
	out := make(map[string]float64, len(s.categories))
	for _, c := range s.categories {
		out[c.ID] = c.Weight
	}
	return out
}

// Priority returns the tie-break rank of a category; lower wins. Unknown ids
// rank after every known category.
func (s *Store) Priority(id string) int {
	if i, ok := s.index[id]; ok {
		return i
	}
	return len(s.categories)
}

// Config rebuilds a Config equivalent to the one the store was loaded from,
// after trimming and de-duplication.
func (s *Store) Config() Config {
	return Config{Categories: s.Categories(), AllowNegativeWeights: s.hasNegativeWeight()}
}

func (s *Store) hasNegativeWeight() bool {
	for _, c := range s.categories {
		if c.Weight < 0 {
			return true
		}
	}
	return false
}
