package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics tracks HTTP request handling and prompt analyses.
//
// Metrics:
//   - prism_http_requests_total: Request count by route, method, status
//   - prism_http_request_duration_seconds: Request duration histogram
//   - prism_analyses_total: Analysis count by target model and mode
//   - prism_analysis_score: Overall score distribution (0-100)
//   - prism_analysis_duration_seconds: Analysis duration by mode
type RequestMetrics struct {
	// HTTP request count
	httpRequestsTotal *prometheus.CounterVec

	// HTTP request duration histogram
	httpRequestDuration *prometheus.HistogramVec

	// Analysis count by target model and mode
	analysesTotal *prometheus.CounterVec

	// Overall score distribution
	analysisScore prometheus.Histogram

	// Analysis duration by mode
	analysisDuration *prometheus.HistogramVec
}

// Analysis modes recorded in prism_analyses_total.
const (
	ModeHeuristic = "heuristic"
	ModeEnriched  = "enriched"
)

// NewRequestMetrics creates and registers request metrics with the
// provided registry.
func NewRequestMetrics(registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests handled",
			},
			[]string{"route", "method", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				// Heuristic analyses finish in milliseconds, enriched
				// ones can take tens of seconds.
				Buckets: []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"route"},
		),

		analysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Total number of prompt analyses by target model and mode",
			},
			[]string{"target_model", "mode"},
		),

		analysisScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analysis_score",
				Help:      "Distribution of overall prompt scores (0-100)",
				Buckets:   prometheus.LinearBuckets(10, 10, 9),
			},
		),

		analysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analysis_duration_seconds",
				Help:      "Duration of prompt analyses in seconds by mode",
				Buckets:   []float64{0.001, 0.005, 0.025, 0.1, 0.5, 1.0, 5.0, 15.0, 30.0, 60.0},
			},
			[]string{"mode"},
		),
	}

	registry.MustRegister(
		rm.httpRequestsTotal,
		rm.httpRequestDuration,
		rm.analysesTotal,
		rm.analysisScore,
		rm.analysisDuration,
	)

	return rm
}

// RecordHTTPRequest records metrics for a completed HTTP request.
func (rm *RequestMetrics) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	rm.httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	rm.httpRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordAnalysis records metrics for a completed prompt analysis.
func (rm *RequestMetrics) RecordAnalysis(targetModel, mode string, score float64, duration time.Duration) {
	rm.analysesTotal.WithLabelValues(targetModel, mode).Inc()
	rm.analysisScore.Observe(score)
	rm.analysisDuration.WithLabelValues(mode).Observe(duration.Seconds())
}
