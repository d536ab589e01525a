// Package server provides the HTTP API for prompt analysis.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"prismatic-hq/prism/pkg/admission"
	"prismatic-hq/prism/pkg/analysis"
	"prismatic-hq/prism/pkg/config"
	"prismatic-hq/prism/pkg/history"
	"prismatic-hq/prism/pkg/history/recorder"
	"prismatic-hq/prism/pkg/server/handlers"
	"prismatic-hq/prism/pkg/server/middleware"
	"prismatic-hq/prism/pkg/telemetry/health"
	"prismatic-hq/prism/pkg/telemetry/metrics"
)

// Deps bundles the subsystems the server serves. Engine and Registry are
// required; the rest may be nil when the corresponding feature is off.
type Deps struct {
	// Engine performs prompt analysis.
	Engine *analysis.Engine

	// Registry gates the analyze route per caller identity.
	Registry *admission.Registry

	// History serves the history endpoint. Nil when history is disabled.
	History history.Store

	// Recorder records completed analyses. Nil when history is disabled.
	Recorder *recorder.Recorder

	// Collector records Prometheus metrics. Nil disables metrics.
	Collector *metrics.Collector

	// Checker runs the readiness checks behind /ready.
	Checker *health.Checker

	// Version, Commit, and BuildTime come from build flags.
	Version   string
	Commit    string
	BuildTime string
}

// Server is the HTTP API server.
type Server struct {
	config       *config.ServerConfig
	metricsCfg   *config.MetricsConfig
	deps         Deps
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new API server.
func NewServer(cfg *config.ServerConfig, metricsCfg *config.MetricsConfig, deps Deps) *Server {
	return &Server{
		config:       cfg,
		metricsCfg:   metricsCfg,
		deps:         deps,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        s.setupRoutes(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			"address", s.config.ListenAddress,
			"version", s.deps.Version,
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server. In-flight requests get
// ShutdownTimeout to drain before the listener is forced closed.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	analyzeHandler := handlers.NewAnalyzeHandler(
		s.deps.Engine,
		s.deps.Recorder,
		s.deps.Collector,
		s.config.MaxPromptChars,
	)
	dimensionsHandler := handlers.NewDimensionsHandler(s.deps.Engine)
	historyHandler := handlers.NewHistoryHandler(s.deps.History)

	// The analyze route alone passes through admission.
	admit := middleware.AdmissionMiddleware(s.deps.Registry, s.deps.Collector)
	mux.Handle("/api/analyze", admit(analyzeHandler))
	mux.Handle("/api/dimensions", dimensionsHandler)
	mux.Handle("/api/history", historyHandler)

	if s.deps.Checker != nil {
		mux.Handle("/health", s.deps.Checker.LivenessHandler())
		mux.Handle("/ready", s.deps.Checker.ReadinessHandler())
	}
	mux.Handle("/version", health.VersionHandler(s.deps.Version, s.deps.Commit, s.deps.BuildTime))

	if s.deps.Collector != nil && s.metricsCfg != nil && s.metricsCfg.Enabled {
		path := s.metricsCfg.Path
		if path == "" {
			path = "/metrics"
		}
		mux.Handle(path, s.deps.Collector.Handler())
	}

	// Apply middleware chain
	var handler http.Handler = mux

	// Timeout middleware
	handler = middleware.TimeoutMiddleware(s.config.RequestTimeout)(handler)

	// CORS middleware
	handler = middleware.CORSMiddleware(s.convertCORSConfig())(handler)

	// Request ID middleware
	handler = middleware.RequestIDMiddleware(handler)

	// Logging middleware
	handler = middleware.LoggingMiddleware(handler)

	// Metrics middleware
	handler = middleware.MetricsMiddleware(s.deps.Collector)(handler)

	// Recovery middleware (outermost)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// convertCORSConfig converts config.CORSConfig to middleware.CORSConfig.
func (s *Server) convertCORSConfig() *middleware.CORSConfig {
	return &middleware.CORSConfig{
		Enabled:          s.config.CORS.Enabled,
		AllowedOrigins:   s.config.CORS.AllowedOrigins,
		AllowedMethods:   s.config.CORS.AllowedMethods,
		AllowedHeaders:   s.config.CORS.AllowedHeaders,
		ExposedHeaders:   s.config.CORS.ExposedHeaders,
		MaxAge:           s.config.CORS.MaxAge,
		AllowCredentials: s.config.CORS.AllowCredentials,
	}
}
