package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"prismatic-hq/prism/pkg/admission"
	"prismatic-hq/prism/pkg/analysis"
	"prismatic-hq/prism/pkg/config"
	"prismatic-hq/prism/pkg/history/storage"
	"prismatic-hq/prism/pkg/scoring"
	"prismatic-hq/prism/pkg/suggest"
	"prismatic-hq/prism/pkg/telemetry/health"
	"prismatic-hq/prism/pkg/telemetry/metrics"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	registry, err := admission.NewRegistry(admission.Config{
		MaxRequests:  100,
		TimeWindow:   time.Minute,
		MaxQueueSize: 10,
	}, admission.RegistryOptions{})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	t.Cleanup(registry.Close)

	metricsCfg := &config.MetricsConfig{Enabled: true, Path: "/metrics"}

	cfg := &config.ServerConfig{
		ListenAddress:  "127.0.0.1:0",
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		RequestTimeout: 10 * time.Second,
		MaxPromptChars: 20000,
		CORS: config.CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		},
	}

	return NewServer(cfg, metricsCfg, Deps{
		Engine:    analysis.NewEngine(scoring.NewScorer(), suggest.NewSuggester(), analysis.Options{}),
		Registry:  registry,
		History:   storage.NewMemoryStore(),
		Collector: metrics.NewCollector(metricsCfg, nil),
		Checker:   health.New(time.Second),
		Version:   "test",
	})
}

func TestServerRoutes(t *testing.T) {
	handler := newTestServer(t).Handler()

	t.Run("analyze", func(t *testing.T) {
		body := `{"prompt_text": "Summarize the quarterly results for the leadership team."}`
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var result analysis.Result
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if result.OverallScore <= 0 {
			t.Errorf("overall_score = %v, want > 0", result.OverallScore)
		}

		if w.Header().Get("X-Request-ID") == "" {
			t.Error("X-Request-ID header should be set")
		}
	})

	t.Run("dimensions", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/dimensions", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("history", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/history?limit=10", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("ready", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ready", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("version", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/version", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}

		var info health.VersionInfo
		if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if info.Version != "test" {
			t.Errorf("version = %q, want %q", info.Version, "test")
		}
	})

	t.Run("metrics", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("unknown route returns 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nope", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

func TestServerAnalyzeAdmission(t *testing.T) {
	registry, err := admission.NewRegistry(admission.Config{
		MaxRequests:  1,
		TimeWindow:   time.Minute,
		MaxQueueSize: 0,
	}, admission.RegistryOptions{})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	t.Cleanup(registry.Close)

	cfg := &config.ServerConfig{
		RequestTimeout: 10 * time.Second,
		MaxPromptChars: 20000,
	}

	srv := NewServer(cfg, nil, Deps{
		Engine:   analysis.NewEngine(scoring.NewScorer(), suggest.NewSuggester(), analysis.Options{}),
		Registry: registry,
	})
	handler := srv.Handler()

	body := `{"prompt_text": "Explain the deployment process."}`

	first := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	first.RemoteAddr = "10.0.0.1:1000"
	w1 := httptest.NewRecorder()
	handler.ServeHTTP(w1, first)
	if w1.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want %d", w1.Code, http.StatusOK)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	second.RemoteAddr = "10.0.0.1:1001"
	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, second)
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want %d", w2.Code, http.StatusTooManyRequests)
	}
	if w2.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header should be set on 429")
	}

	// Other routes are not gated.
	dims := httptest.NewRequest(http.MethodGet, "/api/dimensions", nil)
	dims.RemoteAddr = "10.0.0.1:1002"
	w3 := httptest.NewRecorder()
	handler.ServeHTTP(w3, dims)
	if w3.Code != http.StatusOK {
		t.Errorf("dimensions status = %d, want %d", w3.Code, http.StatusOK)
	}
}

func TestServerIsRunning(t *testing.T) {
	srv := newTestServer(t)
	if srv.IsRunning() {
		t.Error("IsRunning() = true before Start")
	}
}
