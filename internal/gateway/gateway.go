// Package gateway serves the operational HTTP endpoints: /health for
// liveness and /metrics for Prometheus.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/flemzord/rtmtail/internal/cron"
)

// StatusSource reports pipeline progress. *stream.Runner implements it.
type StatusSource interface {
	Stats() cron.Stats
	Streaming() bool
}

// Server is the HTTP server. Create it with New, then Start and Stop.
type Server struct {
	config   Config
	registry *prometheus.Registry
	status   StatusSource
	logger   *slog.Logger

	mu     sync.Mutex
	server *http.Server
	addr   string
}

// New creates a server. registry may be nil, in which case /metrics is not
// mounted.
func New(cfg Config, registry *prometheus.Registry, status StatusSource, logger *slog.Logger) *Server {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:   cfg,
		registry: registry,
		status:   status,
		logger:   logger,
	}
}

// Handler returns the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return errors.New("gateway: already started")
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("gateway: listen %s: %w", s.config.Listen, err)
	}

	s.addr = ln.Addr().String()
	s.server = &http.Server{
		Handler:      s.buildRouter(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	srv := s.server
	go func() {
		s.logger.Info("gateway listening", "addr", s.addr)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("gateway serve error", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Stop shuts the server down gracefully within the shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info("gateway shutting down")
	return srv.Shutdown(ctx)
}
