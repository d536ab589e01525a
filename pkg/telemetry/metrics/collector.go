package metrics

import (
	"fmt"
	"sync"
	"time"

	"prismatic-hq/prism/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// namespace prefixes every metric exposed by the service.
const namespace = "prism"

// Collector is the orchestrator for all Prometheus metrics in Prism.
// It manages metric registration and provides a unified interface for
// recording metrics across components.
//
// The collector keeps per-update overhead low:
//   - Pre-allocated metric instances
//   - Cardinality limits on caller-controlled labels
//   - Histogram buckets sized for LLM and queue-wait latencies
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// HTTP and analysis metrics
	requestMetrics *RequestMetrics

	// Admission subsystem metrics
	admissionMetrics *AdmissionMetrics

	// Enrichment provider metrics
	providerMetrics *ProviderMetrics

	// Cardinality tracking for caller-controlled labels
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a private
// registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{Enabled: true, Path: "/metrics"}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(10000),
	}

	c.requestMetrics = NewRequestMetrics(registry)
	c.admissionMetrics = NewAdmissionMetrics(registry)
	c.providerMetrics = NewProviderMetrics(registry)

	return c
}

// RecordHTTPRequest records metrics for a completed HTTP request.
//
// Parameters:
//   - route: Route pattern (e.g., "/api/analyze")
//   - method: HTTP method
//   - status: Response status code
//   - duration: Total request duration
func (c *Collector) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.requestMetrics.RecordHTTPRequest(route, method, status, duration)
}

// RecordAnalysis records metrics for a completed prompt analysis.
//
// Parameters:
//   - targetModel: Target model the prompt was scored for
//   - mode: "heuristic" or "enriched"
//   - score: Overall score on the 0-100 scale
//   - duration: Analysis duration
func (c *Collector) RecordAnalysis(targetModel, mode string, score float64, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	labelSet := fmt.Sprintf("analysis:%s:%s", targetModel, mode)
	if !c.cardinalityLimiter.Allow(labelSet) {
		targetModel = "other"
	}

	c.requestMetrics.RecordAnalysis(targetModel, mode, score, duration)
}

// RecordAdmission records the outcome of an admission decision.
//
// Parameters:
//   - outcome: One of OutcomeAdmitted, OutcomeQueued, OutcomeRejected,
//     OutcomeCancelled
func (c *Collector) RecordAdmission(outcome string) {
	if !c.config.Enabled {
		return
	}

	c.admissionMetrics.RecordAdmission(outcome)
}

// ObserveQueueWait records how long a request waited in the admission
// queue before being released.
//
// Parameters:
//   - key: Admission key (API key hash or client IP)
//   - wait: Time spent queued
func (c *Collector) ObserveQueueWait(key string, wait time.Duration) {
	if !c.config.Enabled {
		return
	}

	labelSet := fmt.Sprintf("queue:%s", key)
	if !c.cardinalityLimiter.Allow(labelSet) {
		key = "other"
	}

	c.admissionMetrics.ObserveQueueWait(key, wait)
}

// SetQueueDepth updates the aggregate admission queue depth gauge.
func (c *Collector) SetQueueDepth(depth int) {
	if !c.config.Enabled {
		return
	}

	c.admissionMetrics.SetQueueDepth(depth)
}

// RecordProviderRequest records a completed enrichment provider call.
//
// Parameters:
//   - provider: Provider name (e.g., "openai", "anthropic", "openrouter")
//   - model: Model name
//   - status: "success" or "error"
//   - latency: API call latency
func (c *Collector) RecordProviderRequest(provider, model, status string, latency time.Duration) {
	if !c.config.Enabled {
		return
	}

	labelSet := fmt.Sprintf("provider:%s:%s:%s", provider, model, status)
	if !c.cardinalityLimiter.Allow(labelSet) {
		model = "other"
	}

	c.providerMetrics.RecordRequest(provider, model, status, latency)
}

// UpdateProviderHealth updates the health status of a provider.
// The health metric is a gauge where 1=healthy, 0=unhealthy.
func (c *Collector) UpdateProviderHealth(provider string, healthy bool) {
	if !c.config.Enabled {
		return
	}

	c.providerMetrics.UpdateHealth(provider, healthy)
}

// RecordProviderError records an error from a provider.
//
// Parameters:
//   - provider: Provider name
//   - errorType: Type of error (e.g., "rate_limit", "timeout", "auth")
func (c *Collector) RecordProviderError(provider, errorType string) {
	if !c.config.Enabled {
		return
	}

	c.providerMetrics.RecordError(provider, errorType)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the
// specified maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if we haven't reached the cardinality limit yet.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
