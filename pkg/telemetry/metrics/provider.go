package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ProviderMetrics tracks enrichment provider health and performance.
//
// Metrics:
//   - prism_provider_health: Provider health status (1=healthy, 0=unhealthy)
//   - prism_provider_latency_seconds: Provider API latency
//   - prism_provider_errors_total: Provider error count by type
//   - prism_provider_requests_total: Requests to each provider by status
type ProviderMetrics struct {
	// Provider health status (gauge: 1=healthy, 0=unhealthy)
	health *prometheus.GaugeVec

	// Provider API latency histogram
	latency *prometheus.HistogramVec

	// Provider error counter
	errors *prometheus.CounterVec

	// Requests to provider by status
	requests *prometheus.CounterVec
}

// NewProviderMetrics creates and registers provider metrics with the
// provided registry.
func NewProviderMetrics(registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		health: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "provider_health",
				Help:      "Provider health status (1=healthy, 0=unhealthy)",
			},
			[]string{"provider"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_latency_seconds",
				Help:      "Provider API call latency in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"provider", "model"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_errors_total",
				Help:      "Total number of provider errors by type",
			},
			[]string{"provider", "error_type"},
		),

		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_requests_total",
				Help:      "Total number of requests to each provider",
			},
			[]string{"provider", "model", "status"},
		),
	}

	registry.MustRegister(
		pm.health,
		pm.latency,
		pm.errors,
		pm.requests,
	)

	return pm
}

// UpdateHealth updates the health status of a provider.
// The health metric is a gauge where 1=healthy, 0=unhealthy.
func (pm *ProviderMetrics) UpdateHealth(provider string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	pm.health.WithLabelValues(provider).Set(value)
}

// RecordRequest records a completed call to a provider.
//
// Parameters:
//   - provider: Provider name
//   - model: Model name
//   - status: "success" or "error"
//   - latency: API call latency
func (pm *ProviderMetrics) RecordRequest(provider, model, status string, latency time.Duration) {
	pm.requests.WithLabelValues(provider, model, status).Inc()
	pm.latency.WithLabelValues(provider, model).Observe(latency.Seconds())
}

// RecordError records an error from a provider.
//
// Common error types:
//   - "rate_limit": Provider rate limit exceeded
//   - "timeout": Request timeout
//   - "auth": Authentication/authorization error
//   - "server_error": Provider server error (5xx)
//   - "network": Network connectivity error
//   - "parse": Response parsing error
func (pm *ProviderMetrics) RecordError(provider, errorType string) {
	pm.errors.WithLabelValues(provider, errorType).Inc()
}
