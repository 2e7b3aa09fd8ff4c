package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kasheena/code-for-good/internal/config"
)

func newProfilesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the built-in scoring profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var profiles []*config.Profile
			for _, name := range config.BuiltinProfiles() {
				p, err := config.BuiltinProfile(name)
				if err != nil {
					return err
				}
				profiles = append(profiles, p)
			}

			w := cmd.OutOrStdout()
			if a.opts.output == OutputJSON {
				return writeJSON(w, profiles)
			}
			for _, p := range profiles {
				fmt.Fprintf(w, "%s: %s\n", p.Name, p.Description)
				fmt.Fprintf(w, "  range: [%s, %s]  sentiment weight: %s\n", num(p.Scoring.Min), num(p.Scoring.Max), num(p.Scoring.SentimentWeight))
				for _, c := range p.Lexicon.Categories {
					fmt.Fprintf(w, "  category %-14s weight %-5s %d terms\n", c.ID, num(c.Weight), len(c.Terms))
				}
				tiers := make([]string, len(p.Tiers))
				for i, t := range p.Tiers {
					tiers[i] = fmt.Sprintf("%s>=%s", t.Name, num(t.Min))
				}
				fmt.Fprintf(w, "  tiers: %s\n", strings.Join(tiers, ", "))
			}
			return nil
		},
	}
}
