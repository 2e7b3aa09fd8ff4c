package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/kasheena/code-for-good/internal/config"
	"github.com/kasheena/code-for-good/internal/engine"
	"github.com/kasheena/code-for-good/internal/metrics"
	"github.com/kasheena/code-for-good/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srvCfg := a.cfg.Server
			if addr != "" {
				srvCfg.Addr = addr
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			m, err := metrics.New(reg)
			if err != nil {
				return err
			}

			engines, def, err := a.serveEngines(m)
			if err != nil {
				return err
			}
			srv, err := server.New(server.Options{
				Engines:      engines,
				Default:      def,
				Logger:       a.logger,
				Gatherer:     reg,
				MaxBodyBytes: srvCfg.MaxBodyBytes,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx, srvCfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

// serveEngines loads every built-in profile plus the configured one when it
// comes from a file or lexicon pack. The configured profile is the default.
func (a *app) serveEngines(m *metrics.Metrics) ([]*engine.Engine, string, error) {
	selected, err := a.newEngine(engineOptions{profile: a.cfg.Engine, metrics: m})
	if err != nil {
		return nil, "", err
	}
	engines := []*engine.Engine{selected}
	for _, name := range config.BuiltinProfiles() {
		if name == selected.Name() {
			continue
		}
		e, err := a.newEngine(engineOptions{profile: config.EngineConfig{Profile: name}, metrics: m})
		if err != nil {
			return nil, "", fmt.Errorf("load built-in profile %s: %w", name, err)
		}
		engines = append(engines, e)
	}
	return engines, selected.Name(), nil
}
