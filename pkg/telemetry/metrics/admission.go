package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Admission outcomes recorded in prism_admissions_total.
const (
	// OutcomeAdmitted means the request passed straight through the window.
	OutcomeAdmitted = "admitted"
	// OutcomeQueued means the request waited in the queue before release.
	OutcomeQueued = "queued"
	// OutcomeRejected means the queue was full and the request was refused.
	OutcomeRejected = "rejected"
	// OutcomeCancelled means the caller gave up while waiting.
	OutcomeCancelled = "cancelled"
)

// AdmissionMetrics tracks the sliding-window admission subsystem.
//
// Metrics:
//   - prism_admissions_total: Admission decisions by outcome
//   - prism_admission_queue_depth: Requests currently queued across all keys
//   - prism_admission_queue_wait_seconds: Queue wait time by key
type AdmissionMetrics struct {
	// Admission decisions by outcome
	admissionsTotal *prometheus.CounterVec

	// Aggregate queue depth across all keys
	queueDepth prometheus.Gauge

	// Queue wait time by key
	queueWait *prometheus.HistogramVec
}

// NewAdmissionMetrics creates and registers admission metrics with the
// provided registry.
func NewAdmissionMetrics(registry *prometheus.Registry) *AdmissionMetrics {
	am := &AdmissionMetrics{
		admissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "admissions_total",
				Help:      "Total admission decisions by outcome",
			},
			[]string{"outcome"},
		),

		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "admission_queue_depth",
				Help:      "Requests currently waiting in admission queues",
			},
		),

		queueWait: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "admission_queue_wait_seconds",
				Help:      "Time spent waiting in the admission queue by key",
				// Waits are bounded by the window size, typically 60s.
				Buckets: []float64{0.01, 0.05, 0.25, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0},
			},
			[]string{"key"},
		),
	}

	registry.MustRegister(
		am.admissionsTotal,
		am.queueDepth,
		am.queueWait,
	)

	return am
}

// RecordAdmission records the outcome of an admission decision.
func (am *AdmissionMetrics) RecordAdmission(outcome string) {
	am.admissionsTotal.WithLabelValues(outcome).Inc()
}

// SetQueueDepth updates the aggregate queue depth gauge.
func (am *AdmissionMetrics) SetQueueDepth(depth int) {
	am.queueDepth.Set(float64(depth))
}

// ObserveQueueWait records a queue wait duration for a key.
func (am *AdmissionMetrics) ObserveQueueWait(key string, wait time.Duration) {
	am.queueWait.WithLabelValues(key).Observe(wait.Seconds())
}
