package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

// ============================================================
// Logger construction
// ============================================================

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "chatty"})
	if err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestNew_InvalidFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	if err == nil {
		t.Fatal("expected error for unknown log format")
	}
}

func TestNew_DefaultsToInfoJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("shown", "route", "/api/analyze")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug entry should be filtered at info level")
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("info entry missing from output: %q", out)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["route"] != "/api/analyze" {
		t.Errorf("route attr = %v, want /api/analyze", entry["route"])
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("listening", "addr", ":8000")

	out := buf.String()
	if !strings.Contains(out, "msg=listening") {
		t.Errorf("expected text format output, got %q", out)
	}
}

// ============================================================
// Redacting handler
// ============================================================

func TestNew_RedactsSensitiveAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{RedactPrompts: true, Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("provider configured", "api_key", "sk-live-secret-value")

	out := buf.String()
	if strings.Contains(out, "sk-live-secret-value") {
		t.Errorf("api_key value leaked into log output: %q", out)
	}
	if !strings.Contains(out, "sk-l***") {
		t.Errorf("expected masked key prefix in output: %q", out)
	}
}

func TestNew_TruncatesPromptAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{RedactPrompts: true, Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	long := strings.Repeat("x", MaxLoggedPromptChars*2)
	logger.Info("analysis requested", "prompt", long)

	out := buf.String()
	if strings.Contains(out, long) {
		t.Error("full prompt text leaked into log output")
	}
	if !strings.Contains(out, "...") {
		t.Errorf("expected truncated prompt marker in output: %q", out)
	}
}

func TestNew_RedactsWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{RedactPrompts: true, Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.With("token", "abcd1234secret").Info("ready")

	out := buf.String()
	if strings.Contains(out, "abcd1234secret") {
		t.Errorf("token value leaked via With: %q", out)
	}
}

func TestNew_NoRedactionWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{RedactPrompts: false, Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("raw", "api_key", "sk-visible")

	if !strings.Contains(buf.String(), "sk-visible") {
		t.Error("redaction applied despite RedactPrompts=false")
	}
}

// ============================================================
// Context helpers
// ============================================================

func TestContextAttrs(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	ctx = WithIdentity(ctx, "203.0.113.9")

	attrs := ContextAttrs(ctx)
	if len(attrs) != 4 {
		t.Fatalf("ContextAttrs returned %d elements, want 4", len(attrs))
	}
	if attrs[0] != "request_id" || attrs[1] != "req-42" {
		t.Errorf("request_id pair = %v %v", attrs[0], attrs[1])
	}
	if attrs[2] != "identity" || attrs[3] != "203.0.113.9" {
		t.Errorf("identity pair = %v %v", attrs[2], attrs[3])
	}
}

func TestContextAttrs_Empty(t *testing.T) {
	if attrs := ContextAttrs(context.Background()); len(attrs) != 0 {
		t.Errorf("expected no attrs from bare context, got %v", attrs)
	}
}
