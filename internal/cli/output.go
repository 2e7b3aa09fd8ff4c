package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kasheena/code-for-good/internal/engine"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type reportJSON struct {
	Source string `json:"source,omitempty"`
	engine.Report
	HTML  string `json:"html,omitempty"`
	Error string `json:"error,omitempty"`
}

func writeReport(w io.Writer, format string, e *engine.Engine, source string, r engine.Report) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, reportJSON{Source: source, Report: r, HTML: e.HTML(r)})
	case OutputHTML:
		_, err := fmt.Fprintf(w, "<div class=\"lexscore\" data-profile=%q>%s</div>\n", r.Profile, e.HTML(r))
		return err
	default:
		return writeReportText(w, e, source, r)
	}
}

func writeReportText(w io.Writer, e *engine.Engine, source string, r engine.Report) error {
	var b strings.Builder
	if source != "" {
		fmt.Fprintf(&b, "Source:  %s\n", source)
	}
	fmt.Fprintf(&b, "Profile: %s\n", r.Profile)
	fmt.Fprintf(&b, "Score:   %s / %s (%s)\n", num(r.Result.Score), num(r.Result.Max), r.Tier.Name)
	if r.Result.Sentiment != nil {
		fmt.Fprintf(&b, "Sentiment: compound %.3f, contribution %s\n", *r.Result.Sentiment, num(r.Result.SentimentContribution))
	}

	b.WriteString("Counts:\n")
	for _, c := range e.Store().Categories() {
		fmt.Fprintf(&b, "  %-16s %d\n", c.ID, r.Result.Counts[c.ID])
	}

	if len(r.Matches) > 0 {
		b.WriteString("Matches:\n")
		for _, m := range r.Matches {
			fmt.Fprintf(&b, "  [%d,%d) %-16s %q\n", m.Start, m.End, m.Category, m.Text)
		}
	}
	if len(r.Tier.Recommendations) > 0 {
		b.WriteString("Recommendations:\n")
		for _, rec := range r.Tier.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
	}
	if r.Tier.HasCrisisResources() {
		b.WriteString("Crisis resources:\n")
		for _, res := range r.Tier.CrisisResources {
			fmt.Fprintf(&b, "  ! %s\n", res)
		}
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", warn)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// num prints whole numbers without a fraction and everything else with two
// decimals.
func num(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
