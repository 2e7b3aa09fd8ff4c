package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/kasheena/code-for-good/internal/ingest"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		text        string
		demo        string
		noSentiment bool
		lexiconDB   string
	)

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze text from --text, a file (.txt, .md, .pdf, .docx) or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				src  ingest.Source
				name string
			)
			switch {
			case demo != "":
				t, err := demoText(demo)
				if err != nil {
					return err
				}
				src, name = ingest.StringSource(t), "demo:"+demo
			case cmd.Flags().Changed("text"):
				src, name = ingest.StringSource(text), ""
			case len(args) == 1 && args[0] != "-":
				src, name = ingest.FileSource(args[0]), args[0]
			default:
				src, name = ingest.ReaderSource{Name: "stdin", R: cmd.InOrStdin()}, "stdin"
			}

			input, err := src.Text(cmd.Context())
			if err != nil {
				return err
			}

			profile := a.cfg.Engine
			if lexiconDB != "" {
				profile.LexiconDB = lexiconDB
			}
			e, err := a.newEngine(engineOptions{profile: profile, noSentiment: noSentiment})
			if err != nil {
				return err
			}

			r := e.Analyze(cmd.Context(), input)
			return writeReport(cmd.OutOrStdout(), a.opts.output, e, name, r)
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "text to analyze")
	cmd.Flags().StringVar(&demo, "demo", "", "analyze a sample job ad ("+strings.Join(demoNames(), ", ")+")")
	cmd.Flags().BoolVar(&noSentiment, "no-sentiment", false, "score with the lexicon only")
	cmd.Flags().StringVar(&lexiconDB, "lexicon-db", "", "sqlite lexicon pack replacing the profile's lexicon")
	return cmd
}
