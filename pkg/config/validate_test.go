package config

import (
	"errors"
	"strings"
	"testing"
)

// validConfig returns a fully-defaulted configuration that passes validation.
func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func fieldErrors(t *testing.T, err error) []FieldError {
	t.Helper()

	if err == nil {
		t.Fatal("expected a validation error")
	}
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error is %T, want ValidationError", err)
	}
	return verr.Errors
}

func hasField(errs []FieldError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("default configuration failed validation: %v", err)
	}
}

func TestValidate_Server(t *testing.T) {
	cfg := validConfig()
	cfg.Server.ListenAddress = "no-port"
	cfg.Server.MaxPromptChars = -1

	errs := fieldErrors(t, Validate(cfg))
	if !hasField(errs, "server.listen_address") {
		t.Error("missing error for server.listen_address")
	}
	if !hasField(errs, "server.max_prompt_chars") {
		t.Error("missing error for server.max_prompt_chars")
	}
}

func TestValidate_Admission(t *testing.T) {
	cfg := validConfig()
	cfg.Admission.MaxRequests = 0
	cfg.Admission.TimeWindow = 0
	cfg.Admission.MaxQueueSize = -1
	cfg.Admission.Snapshot.Backend = "redis"

	errs := fieldErrors(t, Validate(cfg))
	for _, field := range []string{
		"admission.max_requests",
		"admission.time_window",
		"admission.max_queue_size",
		"admission.snapshot.backend",
	} {
		if !hasField(errs, field) {
			t.Errorf("missing error for %s", field)
		}
	}
}

func TestValidate_Providers(t *testing.T) {
	cfg := validConfig()
	cfg.Providers = map[string]ProviderConfig{
		"mistral": {},
		"openai":  {BaseURL: "not a url", MaxRetries: -1},
	}

	errs := fieldErrors(t, Validate(cfg))
	if !hasField(errs, "providers.mistral") {
		t.Error("missing error for unknown provider type")
	}
	if !hasField(errs, "providers.openai.base_url") {
		t.Error("missing error for invalid base URL")
	}
	if !hasField(errs, "providers.openai.max_retries") {
		t.Error("missing error for negative max retries")
	}
}

func TestValidate_History(t *testing.T) {
	cfg := validConfig()
	cfg.History.Retention.Schedule = "every other tuesday"
	cfg.History.Retention.Days = -1

	errs := fieldErrors(t, Validate(cfg))
	if !hasField(errs, "history.retention.schedule") {
		t.Error("missing error for invalid cron schedule")
	}
	if !hasField(errs, "history.retention.days") {
		t.Error("missing error for negative retention days")
	}
}

func TestValidate_HistoryDisabledSkipsChecks(t *testing.T) {
	cfg := validConfig()
	cfg.History.Enabled = false
	cfg.History.SQLite.Path = ""
	cfg.History.Retention.Schedule = "garbage"

	if err := Validate(cfg); err != nil {
		t.Fatalf("disabled history should skip validation, got %v", err)
	}
}

func TestValidate_Telemetry(t *testing.T) {
	cfg := validConfig()
	cfg.Telemetry.Logging.Level = "chatty"
	cfg.Telemetry.Logging.Format = "xml"
	cfg.Telemetry.Metrics.Path = "metrics"

	errs := fieldErrors(t, Validate(cfg))
	for _, field := range []string{
		"telemetry.logging.level",
		"telemetry.logging.format",
		"telemetry.metrics.path",
	} {
		if !hasField(errs, field) {
			t.Errorf("missing error for %s", field)
		}
	}
}

func TestValidationError_MessageFormat(t *testing.T) {
	err := ValidationError{Errors: []FieldError{
		{Field: "a.b", Message: "bad"},
		{Field: "c.d", Message: "worse"},
	}}

	msg := err.Error()
	if !strings.Contains(msg, "2 errors") {
		t.Errorf("message %q missing error count", msg)
	}
	if !strings.Contains(msg, "a.b: bad") || !strings.Contains(msg, "c.d: worse") {
		t.Errorf("message %q missing individual errors", msg)
	}
}
