// Package metrics provides Prometheus metrics collection for Prism.
//
// # Overview
//
// The metrics package implements Prometheus metrics for monitoring HTTP
// request handling, prompt analyses, the admission subsystem, and
// enrichment provider health. All metrics live in a private registry so
// the exposition surface is exactly what the collector registers.
//
// # Metrics Categories
//
//   - Request Metrics: HTTP request count and duration, analysis count,
//     score distribution, and analysis duration
//   - Admission Metrics: Admission decisions by outcome, queue depth,
//     and queue wait time
//   - Provider Metrics: Provider health, latency, and error rates
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	collector.RecordHTTPRequest("/api/analyze", "POST", 200, duration)
//	collector.RecordAnalysis("claude", metrics.ModeEnriched, 72.5, duration)
//
//	collector.RecordAdmission(metrics.OutcomeQueued)
//	collector.ObserveQueueWait("203.0.113.9", 1200*time.Millisecond)
//
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// # Cardinality Management
//
// Caller-controlled labels (target model, admission key, provider model)
// pass through a cardinality limiter; once 10,000 unique label sets are
// seen, new values are aggregated into "other".
package metrics
