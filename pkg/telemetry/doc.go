// Package telemetry provides observability for Prism.
//
// # Components
//
//   - logging: Structured logging via log/slog with credential masking
//     and prompt truncation
//   - metrics: Prometheus metrics for HTTP requests, analyses, the
//     admission subsystem, and enrichment providers
//   - health: Liveness, readiness, and version endpoints
//
// # Usage
//
//	logger, err := logging.Install(logging.FromConfig(cfg.Telemetry.Logging))
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordAdmission(metrics.OutcomeAdmitted)
//
//	checker := health.New(5 * time.Second)
//	mux.HandleFunc("/ready", checker.ReadinessHandler())
package telemetry
