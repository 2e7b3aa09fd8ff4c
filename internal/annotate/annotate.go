// Package annotate splits a text into tagged and untagged segments along a
// resolved span set. Concatenating the segments always reproduces the input.
package annotate

import (
	"cmp"
	"html"
	"slices"
	"strings"

	"github.com/kasheena/code-for-good/internal/match"
)

type Segment struct {
	Text     string `json:"text"`
	Category string `json:"category,omitempty"`
	Term     string `json:"term,omitempty"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

func (s Segment) Tagged() bool { return s.Category != "" }

// Annotate walks spans in start order. Spans that are empty, fall outside
// text, or overlap an earlier accepted span are skipped.
func Annotate(text string, spans []match.Match) []Segment {
	ordered := slices.Clone(spans)
	slices.SortStableFunc(ordered, func(a, b match.Match) int {
		return cmp.Compare(a.Start, b.Start)
	})

	segments := make([]Segment, 0, 2*len(ordered)+1)
	cursor := 0
	for _, sp := range ordered {
		if sp.Start < cursor || sp.End <= sp.Start || sp.End > len(text) {
			continue
		}
		if sp.Start > cursor {
			segments = append(segments, Segment{Text: text[cursor:sp.Start], Start: cursor, End: sp.Start})
		}
		segments = append(segments, Segment{
			Text:     text[sp.Start:sp.End],
			Category: sp.Category,
			Term:     sp.Term,
			Start:    sp.Start,
			End:      sp.End,
		})
		cursor = sp.End
	}
	if cursor < len(text) || len(segments) == 0 {
		segments = append(segments, Segment{Text: text[cursor:], Start: cursor, End: len(text)})
	}
	return segments
}

// Join concatenates segment texts in order.
func Join(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Style is the display style for one category.
type Style struct {
	Label string
	Color string
}

// RenderHTML escapes every segment and wraps tagged ones in a span. Each byte
// of the source is written exactly once, so nested or duplicated markup
// cannot occur.
func RenderHTML(segments []Segment, styles map[string]Style) string {
	var b strings.Builder
	for _, s := range segments {
		if !s.Tagged() {
			b.WriteString(html.EscapeString(s.Text))
			continue
		}
		st := styles[s.Category]
		b.WriteString(`<span class="lex lex-`)
		b.WriteString(html.EscapeString(s.Category))
		b.WriteString(`"`)
		if st.Color != "" {
			b.WriteString(` style="color:`)
			b.WriteString(html.EscapeString(st.Color))
			b.WriteString(`;font-weight:bold"`)
		}
		if st.Label != "" {
			b.WriteString(` title="`)
			b.WriteString(html.EscapeString(st.Label))
			b.WriteString(`"`)
		}
		b.WriteString(">")
		b.WriteString(html.EscapeString(s.Text))
		b.WriteString("</span>")
	}
	return b.String()
}
