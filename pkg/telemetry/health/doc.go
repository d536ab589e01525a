// Package health provides health check endpoints for Prism.
//
// # Overview
//
// The health package implements liveness and readiness probes for
// Kubernetes and other orchestration systems, along with a version
// information endpoint. Components register check functions and the
// checker runs them concurrently with a per-check timeout.
//
// # Endpoints
//
//   - /health: Liveness probe - indicates the process is running
//   - /ready: Readiness probe - indicates the service can serve analyses
//   - /version: Build information - version, commit, build time
//
// # Usage
//
//	checker := health.New(5 * time.Second)
//
//	checker.RegisterCheck("history", func(ctx context.Context) error {
//	    _, err := store.Count(ctx, &history.Query{})
//	    return err
//	})
//
//	mux.HandleFunc("/health", checker.LivenessHandler())
//	mux.HandleFunc("/ready", checker.ReadinessHandler())
//
// The readiness endpoint returns 503 when any registered check fails,
// with the per-component results in the response body.
package health
