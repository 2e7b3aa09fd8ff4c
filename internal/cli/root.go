// Package cli implements the lexscore command tree.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kasheena/code-for-good/internal/config"
	"github.com/kasheena/code-for-good/internal/engine"
	"github.com/kasheena/code-for-good/internal/logging"
	"github.com/kasheena/code-for-good/internal/metrics"
	"github.com/kasheena/code-for-good/internal/sentiment"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

const (
	OutputText = "text"
	OutputJSON = "json"
	OutputHTML = "html"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	output     string
	profile    string
}

// app carries the state initialised by the root command's pre-run hook.
type app struct {
	opts   rootOptions
	cfg    *config.Config
	logger logging.Logger
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "lexscore",
		Short: "Score and annotate text against categorized lexicons",
		Long: "lexscore scans text for the terms of a scoring profile, turns the weighted\n" +
			"matches (optionally blended with sentiment) into a bounded score and tier,\n" +
			"and returns the text with every match annotated.",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.opts.configPath, "config", "c", "", "config file path (default: LEXSCORE_* environment only)")
	pf.StringVar(&a.opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&a.opts.logFormat, "log-format", "", "log format (json, console)")
	pf.StringVarP(&a.opts.output, "output", "o", OutputText, "output format (text, json, html)")
	pf.StringVarP(&a.opts.profile, "profile", "p", "", "built-in profile name or path to a profile YAML file")

	cmd.AddCommand(
		newAnalyzeCmd(a),
		newBatchCmd(a),
		newProfilesCmd(a),
		newLexiconCmd(a),
		newServeCmd(a),
	)
	return cmd
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) init(cmd *cobra.Command) error {
	switch a.opts.output {
	case OutputText, OutputJSON, OutputHTML:
	default:
		return fmt.Errorf("invalid --output %q; expected text|json|html", a.opts.output)
	}

	var (
		cfg *config.Config
		err error
	)
	if a.opts.configPath != "" {
		cfg, err = config.Load(a.opts.configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	if a.opts.logLevel != "" {
		cfg.Log.Level = a.opts.logLevel
	}
	if a.opts.logFormat != "" {
		cfg.Log.Format = a.opts.logFormat
	}
	if p := a.opts.profile; p != "" {
		if strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml") {
			cfg.Engine.ProfilePath = p
		} else {
			cfg.Engine.Profile, cfg.Engine.ProfilePath = p, ""
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger.Named("lexscore")
	return nil
}

type engineOptions struct {
	profile     config.EngineConfig
	noSentiment bool
	metrics     *metrics.Metrics
}

// newEngine builds the engine for the selected profile. VADER is attached
// unless sentiment is disabled by flag or config.
func (a *app) newEngine(o engineOptions) (*engine.Engine, error) {
	p, err := config.Resolve(o.profile)
	if err != nil {
		return nil, err
	}
	opts := p.EngineOptions()
	opts.Logger = a.logger
	opts.Metrics = o.metrics
	if !o.noSentiment && a.cfg.Engine.Sentiment != config.SentimentOff {
		opts.Provider = sentiment.NewVADER()
	}
	return engine.New(opts)
}
