package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"prismatic-hq/prism/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled: true,
		Path:    "/metrics",
	}
}

// ============================================================
// Collector construction
// ============================================================

func TestNewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("expected non-nil collector")
	}
	if collector.registry != registry {
		t.Error("collector registry not set correctly")
	}
}

func TestNewCollector_NilRegistry(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	if collector.Registry() == nil {
		t.Fatal("expected private registry to be created")
	}
}

// ============================================================
// Request and analysis metrics
// ============================================================

func TestRecordHTTPRequest(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordHTTPRequest("/api/analyze", "POST", 200, 50*time.Millisecond)
	collector.RecordHTTPRequest("/api/analyze", "POST", 200, 75*time.Millisecond)
	collector.RecordHTTPRequest("/api/analyze", "POST", 429, 1*time.Millisecond)

	ok := testutil.ToFloat64(collector.requestMetrics.httpRequestsTotal.WithLabelValues("/api/analyze", "POST", "200"))
	if ok != 2 {
		t.Errorf("200 counter = %f, want 2", ok)
	}

	rejected := testutil.ToFloat64(collector.requestMetrics.httpRequestsTotal.WithLabelValues("/api/analyze", "POST", "429"))
	if rejected != 1 {
		t.Errorf("429 counter = %f, want 1", rejected)
	}
}

func TestRecordAnalysis(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordAnalysis("claude", ModeEnriched, 72.5, 3*time.Second)
	collector.RecordAnalysis("general", ModeHeuristic, 55.0, 5*time.Millisecond)

	enriched := testutil.ToFloat64(collector.requestMetrics.analysesTotal.WithLabelValues("claude", ModeEnriched))
	if enriched != 1 {
		t.Errorf("enriched counter = %f, want 1", enriched)
	}

	heuristic := testutil.ToFloat64(collector.requestMetrics.analysesTotal.WithLabelValues("general", ModeHeuristic))
	if heuristic != 1 {
		t.Errorf("heuristic counter = %f, want 1", heuristic)
	}
}

// ============================================================
// Admission metrics
// ============================================================

func TestRecordAdmission(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	outcomes := []string{
		OutcomeAdmitted, OutcomeAdmitted,
		OutcomeQueued,
		OutcomeRejected,
		OutcomeCancelled,
	}
	for _, outcome := range outcomes {
		collector.RecordAdmission(outcome)
	}

	admitted := testutil.ToFloat64(collector.admissionMetrics.admissionsTotal.WithLabelValues(OutcomeAdmitted))
	if admitted != 2 {
		t.Errorf("admitted counter = %f, want 2", admitted)
	}

	rejected := testutil.ToFloat64(collector.admissionMetrics.admissionsTotal.WithLabelValues(OutcomeRejected))
	if rejected != 1 {
		t.Errorf("rejected counter = %f, want 1", rejected)
	}
}

func TestSetQueueDepth(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.SetQueueDepth(7)
	if depth := testutil.ToFloat64(collector.admissionMetrics.queueDepth); depth != 7 {
		t.Errorf("queue depth = %f, want 7", depth)
	}

	collector.SetQueueDepth(0)
	if depth := testutil.ToFloat64(collector.admissionMetrics.queueDepth); depth != 0 {
		t.Errorf("queue depth = %f, want 0", depth)
	}
}

func TestObserveQueueWait(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.ObserveQueueWait("203.0.113.9", 1200*time.Millisecond)

	count := testutil.CollectAndCount(collector.admissionMetrics.queueWait)
	if count != 1 {
		t.Errorf("queue wait series = %d, want 1", count)
	}
}

// ============================================================
// Provider metrics
// ============================================================

func TestProviderMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	t.Run("health", func(t *testing.T) {
		collector.UpdateProviderHealth("openrouter", true)
		health := testutil.ToFloat64(collector.providerMetrics.health.WithLabelValues("openrouter"))
		if health != 1.0 {
			t.Errorf("health = %f, want 1.0", health)
		}

		collector.UpdateProviderHealth("openrouter", false)
		health = testutil.ToFloat64(collector.providerMetrics.health.WithLabelValues("openrouter"))
		if health != 0.0 {
			t.Errorf("health = %f, want 0.0", health)
		}
	})

	t.Run("requests", func(t *testing.T) {
		collector.RecordProviderRequest("openai", "gpt-4o", "success", 800*time.Millisecond)
		count := testutil.ToFloat64(collector.providerMetrics.requests.WithLabelValues("openai", "gpt-4o", "success"))
		if count != 1 {
			t.Errorf("request counter = %f, want 1", count)
		}
	})

	t.Run("errors", func(t *testing.T) {
		collector.RecordProviderError("anthropic", "rate_limit")
		count := testutil.ToFloat64(collector.providerMetrics.errors.WithLabelValues("anthropic", "rate_limit"))
		if count != 1 {
			t.Errorf("error counter = %f, want 1", count)
		}
	})
}

// ============================================================
// Disabled collector
// ============================================================

func TestDisabledCollectorRecordsNothing(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: false, Path: "/metrics"}
	collector := NewCollector(cfg, nil)

	collector.RecordHTTPRequest("/api/analyze", "POST", 200, time.Millisecond)
	collector.RecordAdmission(OutcomeAdmitted)
	collector.SetQueueDepth(3)
	collector.UpdateProviderHealth("openai", true)

	count := testutil.ToFloat64(collector.requestMetrics.httpRequestsTotal.WithLabelValues("/api/analyze", "POST", "200"))
	if count != 0 {
		t.Errorf("disabled collector recorded requests: %f", count)
	}

	admitted := testutil.ToFloat64(collector.admissionMetrics.admissionsTotal.WithLabelValues(OutcomeAdmitted))
	if admitted != 0 {
		t.Errorf("disabled collector recorded admissions: %f", admitted)
	}
}

// ============================================================
// Exposition handler
// ============================================================

func TestHandlerExposesMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.RecordAdmission(OutcomeAdmitted)
	collector.RecordHTTPRequest("/api/analyze", "POST", 200, 10*time.Millisecond)

	server := httptest.NewServer(collector.Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}

	text := string(body)
	if !strings.Contains(text, "prism_admissions_total") {
		t.Error("exposition missing prism_admissions_total")
	}
	if !strings.Contains(text, "prism_http_requests_total") {
		t.Error("exposition missing prism_http_requests_total")
	}
}

// ============================================================
// Cardinality limiter
// ============================================================

func TestCardinalityLimiter(t *testing.T) {
	limiter := NewCardinalityLimiter(2)

	if !limiter.Allow("a") {
		t.Error("first label set should be allowed")
	}
	if !limiter.Allow("b") {
		t.Error("second label set should be allowed")
	}
	if limiter.Allow("c") {
		t.Error("third label set should exceed the limit")
	}
	if !limiter.Allow("a") {
		t.Error("existing label set should stay allowed")
	}
	if limiter.Count() != 2 {
		t.Errorf("count = %d, want 2", limiter.Count())
	}
}

func TestObserveQueueWait_CardinalityOverflow(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.cardinalityLimiter = NewCardinalityLimiter(1)

	collector.ObserveQueueWait("key-1", time.Second)
	collector.ObserveQueueWait("key-2", time.Second)
	collector.ObserveQueueWait("key-3", time.Second)

	// key-2 and key-3 collapse into "other"
	count := testutil.CollectAndCount(collector.admissionMetrics.queueWait)
	if count != 2 {
		t.Errorf("queue wait series = %d, want 2 (key-1 and other)", count)
	}
}
