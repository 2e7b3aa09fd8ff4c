package cli

import (
	"context"
	"fmt"
	"html"

	"github.com/spf13/cobra"

	"github.com/kasheena/code-for-good/internal/engine"
	"github.com/kasheena/code-for-good/internal/ingest"
	"github.com/kasheena/code-for-good/internal/logging"
	"github.com/kasheena/code-for-good/internal/pipeline"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		workers     int
		noSentiment bool
	)

	cmd := &cobra.Command{
		Use:   "batch <file>...",
		Short: "Analyze many files in parallel, one summary per file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Engine.Workers
			}
			e, err := a.newEngine(engineOptions{profile: a.cfg.Engine, noSentiment: noSentiment})
			if err != nil {
				return err
			}

			texts := make([]string, len(args))
			extractErrs := make([]error, len(args))
			pipeline.Run(args, workers, func(i int, path string) error {
				texts[i], extractErrs[i] = ingest.FileSource(path).Text(cmd.Context())
				return extractErrs[i]
			})

			reports := analyzeExtracted(cmd.Context(), e, texts, extractErrs, workers)

			failed := 0
			for i, err := range extractErrs {
				if err != nil {
					failed++
					a.logger.Warn("skipping file", logging.String("path", args[i]), logging.Err(err))
				}
			}
			if err := writeBatch(cmd, a.opts.output, e, args, reports, extractErrs); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be read", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel workers (0 = one per CPU)")
	cmd.Flags().BoolVar(&noSentiment, "no-sentiment", false, "score with the lexicon only")
	return cmd
}

// analyzeExtracted analyzes only the texts whose extraction succeeded. Failed
// slots keep a zero Report.
func analyzeExtracted(ctx context.Context, e *engine.Engine, texts []string, errs []error, workers int) []engine.Report {
	idx := make([]int, 0, len(texts))
	ok := make([]string, 0, len(texts))
	for i, err := range errs {
		if err == nil {
			idx = append(idx, i)
			ok = append(ok, texts[i])
		}
	}
	reports := make([]engine.Report, len(texts))
	for j, r := range e.AnalyzeBatch(ctx, ok, workers) {
		reports[idx[j]] = r
	}
	return reports
}

func writeBatch(cmd *cobra.Command, format string, e *engine.Engine, paths []string, reports []engine.Report, errs []error) error {
	w := cmd.OutOrStdout()
	if format == OutputJSON {
		out := make([]reportJSON, len(paths))
		for i := range paths {
			if errs[i] != nil {
				out[i] = reportJSON{Source: paths[i], Error: errs[i].Error()}
				continue
			}
			out[i] = reportJSON{Source: paths[i], Report: reports[i]}
		}
		return writeJSON(w, out)
	}

	for i, path := range paths {
		if errs[i] != nil {
			fmt.Fprintf(w, "%s\terror\t%v\n", path, errs[i])
			continue
		}
		r := reports[i]
		if format == OutputHTML {
			fmt.Fprintf(w, "<section data-source=\"%s\">%s</section>\n", html.EscapeString(path), e.HTML(r))
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d matches\n", path, num(r.Result.Score), r.Tier.Name, len(r.Matches))
	}
	return nil
}
