// Package match finds lexicon terms in free text and resolves overlapping
// occurrences into a disjoint span set.
package match

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/kasheena/code-for-good/internal/lexicon"
)

// Match is one accepted occurrence. Start and End are byte offsets into the
// scanned text, half-open. Text keeps the original casing.
type Match struct {
	Category string `json:"category"`
	Term     string `json:"term"`
	Text     string `json:"text"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// Len is the match length in runes.
func (m Match) Len() int {
	return utf8.RuneCountInString(m.Text)
}

// Overlaps reports whether two half-open spans intersect.
func Overlaps(a, b Match) bool {
	return a.Start < b.End && b.Start < a.End
}

// FindMatches returns the resolved, non-overlapping matches of every lexicon
// term in text, ordered by start offset.
func FindMatches(text string, store *lexicon.Store) []Match {
	if text == "" || store == nil {
		return nil
	}
	var candidates []Match
	for _, term := range store.Terms() {
		candidates = appendOccurrences(candidates, text, term)
	}
	return Resolve(candidates, store.Priority)
}

func appendOccurrences(dst []Match, text string, term lexicon.Term) []Match {
	re := term.Pattern()
	for from := 0; from < len(text); {
		loc := re.FindStringIndex(text[from:])
		if loc == nil || loc[0] == loc[1] {
			break
		}
		start, end := from+loc[0], from+loc[1]
		if onWordBoundary(text, start, end, term) {
			dst = append(dst, Match{
				Category: term.Category,
				Term:     term.Text,
				Text:     text[start:end],
				Start:    start,
				End:      end,
			})
		}
		// Step one rune so a rejected occurrence cannot hide an overlapping one.
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return dst
}

func onWordBoundary(text string, start, end int, term lexicon.Term) bool {
	if term.WordStart() && start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if lexicon.IsWordRune(r) {
			return false
		}
	}
	if term.WordEnd() && end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if lexicon.IsWordRune(r) {
			return false
		}
	}
	return true
}

// Resolve turns raw candidates into a disjoint span set. Longer matches win,
// then earlier starts, then the category with the lower priority rank. A nil
// priority treats every category as equal. The result is ordered by Start.
func Resolve(candidates []Match, priority func(category string) int) []Match {
	if len(candidates) == 0 {
		return nil
	}
	if priority == nil {
		priority = func(string) int { return 0 }
	}

	ordered := slices.Clone(candidates)
	slices.SortStableFunc(ordered, func(a, b Match) int {
		if c := cmp.Compare(b.Len(), a.Len()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		if c := cmp.Compare(priority(a.Category), priority(b.Category)); c != 0 {
			return c
		}
		return cmp.Compare(a.Term, b.Term)
	})

	accepted := make([]Match, 0, len(ordered))
	for _, m := range ordered {
		if m.End <= m.Start {
			continue
		}
		i, _ := slices.BinarySearchFunc(accepted, m.Start, func(a Match, start int) int {
			return cmp.Compare(a.Start, start)
		})
		if i > 0 && accepted[i-1].End > m.Start {
			continue
		}
		if i < len(accepted) && accepted[i].Start < m.End {
			continue
		}
		accepted = slices.Insert(accepted, i, m)
	}
	return accepted
}
