package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kasheena/code-for-good/internal/config"
	"github.com/kasheena/code-for-good/internal/db"
	"github.com/kasheena/code-for-good/internal/lexicon"
)

func newLexiconCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Manage sqlite lexicon packs",
	}

	var dbPath string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the selected profile's lexicon into a lexicon pack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return errors.New("--db is required")
			}
			profile := a.cfg.Engine
			profile.LexiconDB = ""
			p, err := config.Resolve(profile)
			if err != nil {
				return err
			}
			// Refuse to write a pack that would not load back.
			store, err := lexicon.Load(p.Lexicon)
			if err != nil {
				return err
			}
			if err := db.SaveLexicon(dbPath, store.Config()); err != nil {
				return err
			}
			terms, err := db.CountRows(dbPath, "terms")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %s: %d categories, %d terms -> %s\n", p.Name, len(store.Categories()), terms, dbPath)
			return nil
		},
	}
	export.Flags().StringVar(&dbPath, "db", "", "path of the sqlite lexicon pack to write")

	cmd.AddCommand(export)
	return cmd
}
