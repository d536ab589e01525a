// Package server provides the HTTP API server for prompt analysis.
//
// This package ties together the analysis engine, the admission registry,
// and the history store behind a small JSON API, and manages the server
// lifecycle including start, graceful shutdown, and OS signals (SIGTERM,
// SIGINT).
//
// # Basic Usage
//
// Creating and starting a server:
//
//	import (
//	    "context"
//	    "prismatic-hq/prism/pkg/config"
//	    "prismatic-hq/prism/pkg/server"
//	)
//
//	cfg := config.GetConfig()
//
//	srv := server.NewServer(&cfg.Server, &cfg.Telemetry.Metrics, server.Deps{
//	    Engine:   engine,
//	    Registry: registry,
//	})
//	if err := srv.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Routes
//
// The server exposes the following HTTP endpoints:
//
//   - POST /api/analyze - Analyze a prompt (gated by admission)
//   - GET /api/dimensions - Scoring dimension metadata
//   - GET /api/history - Recent analysis records
//   - GET /health - Liveness probe (always returns 200)
//   - GET /ready - Readiness probe (runs registered component checks)
//   - GET /version - Build information
//   - GET /metrics - Prometheus exposition (when metrics are enabled)
//
// # Middleware Chain
//
// Requests pass through the following middleware (innermost to outermost):
//  1. Timeout: Enforces the per-request timeout
//  2. CORS: Adds Cross-Origin Resource Sharing headers
//  3. RequestID: Generates a unique request ID for tracing
//  4. Logging: Logs request/response details
//  5. Metrics: Records request counts and durations
//  6. Recovery: Recovers from panics and returns a 500 error
//
// The analyze route additionally passes through admission middleware,
// which queues or rejects requests per caller identity. A rejected
// request gets 429 with Retry-After and X-RateLimit-* headers.
//
// # Graceful Shutdown
//
// On SIGTERM/SIGINT the server stops accepting new connections and waits
// up to the configured shutdown timeout for in-flight requests to drain.
// Shutdown can also be triggered programmatically:
//
//	if err := srv.Shutdown(context.Background()); err != nil {
//	    log.Error("shutdown error", "error", err)
//	}
//
// # Thread Safety
//
// All server operations are safe for concurrent use.
package server
