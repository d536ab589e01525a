package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// ============================================================
// Checker
// ============================================================

func TestCheckLiveness(t *testing.T) {
	checker := New(time.Second)

	status := checker.CheckLiveness(context.Background())
	if status.Status != "ok" {
		t.Errorf("liveness status = %q, want ok", status.Status)
	}
	if status.Timestamp.IsZero() {
		t.Error("liveness timestamp not set")
	}
}

func TestCheckReadiness_NoChecks(t *testing.T) {
	checker := New(time.Second)

	status := checker.CheckReadiness(context.Background())
	if status.Status != "ready" {
		t.Errorf("readiness status = %q, want ready", status.Status)
	}
}

func TestCheckReadiness_AllHealthy(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("scoring", func(ctx context.Context) error { return nil })
	checker.RegisterCheck("history", func(ctx context.Context) error { return nil })

	status := checker.CheckReadiness(context.Background())
	if status.Status != "ready" {
		t.Errorf("readiness status = %q, want ready", status.Status)
	}
	if len(status.Checks) != 2 {
		t.Fatalf("checks = %d, want 2", len(status.Checks))
	}
	if status.Checks["scoring"].Status != "ok" {
		t.Errorf("scoring check = %q, want ok", status.Checks["scoring"].Status)
	}
}

func TestCheckReadiness_UnhealthyComponent(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("scoring", func(ctx context.Context) error { return nil })
	checker.RegisterCheck("history", func(ctx context.Context) error {
		return errors.New("database is locked")
	})

	status := checker.CheckReadiness(context.Background())
	if status.Status != "degraded" {
		t.Errorf("readiness status = %q, want degraded", status.Status)
	}
	if status.Checks["history"].Message != "database is locked" {
		t.Errorf("history message = %q", status.Checks["history"].Message)
	}
}

func TestCheckReadiness_Timeout(t *testing.T) {
	checker := New(50 * time.Millisecond)
	checker.RegisterCheck("slow", func(ctx context.Context) error {
		select {
		case <-time.After(2 * time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	start := time.Now()
	status := checker.CheckReadiness(context.Background())
	elapsed := time.Since(start)

	if status.Status != "degraded" {
		t.Errorf("readiness status = %q, want degraded", status.Status)
	}
	if elapsed > time.Second {
		t.Errorf("timeout not enforced, readiness took %v", elapsed)
	}
}

func TestUnregisterCheck(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("scoring", func(ctx context.Context) error { return nil })

	if checker.CheckCount() != 1 {
		t.Fatalf("check count = %d, want 1", checker.CheckCount())
	}

	checker.UnregisterCheck("scoring")
	if checker.CheckCount() != 0 {
		t.Errorf("check count after unregister = %d, want 0", checker.CheckCount())
	}
}

// ============================================================
// HTTP endpoints
// ============================================================

func TestLivenessHandler(t *testing.T) {
	checker := New(time.Second)
	handler := checker.LivenessHandler()

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var status Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("body status = %q, want ok", status.Status)
	}
}

func TestLivenessHandler_MethodNotAllowed(t *testing.T) {
	checker := New(time.Second)
	handler := checker.LivenessHandler()

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/health", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestReadinessHandler_Degraded(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("history", func(ctx context.Context) error {
		return errors.New("unreachable")
	})
	handler := checker.ReadinessHandler()

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	var status Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if status.Checks["history"].Status != "unhealthy" {
		t.Errorf("history check = %q, want unhealthy", status.Checks["history"].Status)
	}
}

func TestReadinessHandler_Ready(t *testing.T) {
	checker := New(time.Second)
	handler := checker.ReadinessHandler()

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestVersionHandler(t *testing.T) {
	handler := VersionHandler("1.2.3", "abc123", "2026-08-01T00:00:00Z")

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var info VersionInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if info.Version != "1.2.3" {
		t.Errorf("version = %q, want 1.2.3", info.Version)
	}
	if info.GoVersion == "" {
		t.Error("go_version not populated")
	}
}
