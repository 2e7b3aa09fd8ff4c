// Package server exposes the analysis engines over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kasheena/code-for-good/internal/config"
	"github.com/kasheena/code-for-good/internal/engine"
	"github.com/kasheena/code-for-good/internal/logging"
)

type Options struct {
	Engines []*engine.Engine
	// Default is the profile used when a request names none. Empty means the
	// first engine.
	Default      string
	Logger       logging.Logger
	Gatherer     prometheus.Gatherer
	MaxBodyBytes int64
}

type Server struct {
	engines  map[string]*engine.Engine
	names    []string
	def      string
	logger   logging.Logger
	gatherer prometheus.Gatherer
	maxBody  int64
}

func New(opts Options) (*Server, error) {
	if len(opts.Engines) == 0 {
		return nil, errors.New("server: at least one engine is required")
	}
	s := &Server{
		engines:  make(map[string]*engine.Engine, len(opts.Engines)),
		def:      opts.Default,
		logger:   logging.OrNop(opts.Logger).Named("http"),
		gatherer: opts.Gatherer,
		maxBody:  opts.MaxBodyBytes,
	}
	for _, e := range opts.Engines {
		if _, dup := s.engines[e.Name()]; dup {
			return nil, fmt.Errorf("server: duplicate profile %q", e.Name())
		}
		s.engines[e.Name()] = e
		s.names = append(s.names, e.Name())
	}
	slices.Sort(s.names)
	if s.def == "" {
		s.def = opts.Engines[0].Name()
	}
	if _, ok := s.engines[s.def]; !ok {
		return nil, fmt.Errorf("server: default profile %q is not loaded", s.def)
	}
	if s.maxBody <= 0 {
		s.maxBody = config.DefaultMaxBodyBytes
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	return s, nil
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, s.loggingMiddleware, s.recoverMiddleware)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	v1.HandleFunc("/profiles", s.handleProfiles).Methods(http.MethodGet)
	v1.HandleFunc("/profiles/{name}", s.handleProfile).Methods(http.MethodGet)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Run serves on cfg.Addr until ctx is cancelled, then drains in-flight
// requests for at most cfg.ShutdownTimeout.
func (s *Server) Run(ctx context.Context, cfg config.ServerConfig) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	return s.Serve(ctx, ln, cfg)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener, cfg config.ServerConfig) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", logging.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down", logging.Duration("timeout", timeout))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) engine(name string) (*engine.Engine, bool) {
	if name == "" {
		name = s.def
	}
	e, ok := s.engines[name]
	return e, ok
}

