package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateAdmission(&cfg.Admission)...)
	errs = append(errs, validateProviders(cfg.Providers)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

// validateServer validates the HTTP server configuration.
func validateServer(s *ServerConfig) []FieldError {
	var errs []FieldError

	if s.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "must not be empty",
		})
	} else if _, _, err := net.SplitHostPort(s.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid host:port address %q", s.ListenAddress),
		})
	}

	if s.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "must not be negative",
		})
	}
	if s.RequestTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "server.request_timeout",
			Message: "must be positive",
		})
	}
	if s.MaxHeaderBytes <= 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "must be positive",
		})
	}
	if s.MaxPromptChars <= 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_prompt_chars",
			Message: "must be positive",
		})
	}

	return errs
}

// validateAdmission validates the admission subsystem configuration.
func validateAdmission(a *AdmissionConfig) []FieldError {
	var errs []FieldError

	if a.MaxRequests <= 0 {
		errs = append(errs, FieldError{
			Field:   "admission.max_requests",
			Message: fmt.Sprintf("must be positive, got %d", a.MaxRequests),
		})
	}
	if a.TimeWindow <= 0 {
		errs = append(errs, FieldError{
			Field:   "admission.time_window",
			Message: fmt.Sprintf("must be positive, got %s", a.TimeWindow),
		})
	}
	if a.MaxQueueSize < 0 {
		errs = append(errs, FieldError{
			Field:   "admission.max_queue_size",
			Message: fmt.Sprintf("must not be negative, got %d", a.MaxQueueSize),
		})
	}

	switch a.Snapshot.Backend {
	case "memory", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "admission.snapshot.backend",
			Message: fmt.Sprintf("unsupported backend %q (supported: memory, sqlite)", a.Snapshot.Backend),
		})
	}
	if a.Snapshot.Enabled && a.Snapshot.Backend == "sqlite" && a.Snapshot.Path == "" {
		errs = append(errs, FieldError{
			Field:   "admission.snapshot.path",
			Message: "must not be empty when the sqlite backend is enabled",
		})
	}
	if a.Snapshot.Interval <= 0 {
		errs = append(errs, FieldError{
			Field:   "admission.snapshot.interval",
			Message: "must be positive",
		})
	}

	return errs
}

// validateProviders validates the provider configurations.
func validateProviders(providers map[string]ProviderConfig) []FieldError {
	var errs []FieldError

	for name, provider := range providers {
		switch name {
		case "openai", "anthropic", "openrouter":
		default:
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("providers.%s", name),
				Message: "unknown provider type (supported: openai, anthropic, openrouter)",
			})
		}

		if provider.BaseURL != "" {
			u, err := url.Parse(provider.BaseURL)
			if err != nil || u.Scheme == "" || u.Host == "" {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("providers.%s.base_url", name),
					Message: fmt.Sprintf("invalid URL %q", provider.BaseURL),
				})
			}
		}

		if provider.Timeout < 0 {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("providers.%s.timeout", name),
				Message: "must not be negative",
			})
		}
		if provider.MaxRetries < 0 {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("providers.%s.max_retries", name),
				Message: "must not be negative",
			})
		}
	}

	return errs
}

// validateHistory validates the history configuration.
func validateHistory(h *HistoryConfig) []FieldError {
	var errs []FieldError

	if !h.Enabled {
		return errs
	}

	if h.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "history.sqlite.path",
			Message: "must not be empty when history is enabled",
		})
	}
	if h.SQLite.MaxOpenConns <= 0 {
		errs = append(errs, FieldError{
			Field:   "history.sqlite.max_open_conns",
			Message: "must be positive",
		})
	}
	if h.Recorder.AsyncBuffer <= 0 {
		errs = append(errs, FieldError{
			Field:   "history.recorder.async_buffer",
			Message: "must be positive",
		})
	}
	if h.Recorder.WriteTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "history.recorder.write_timeout",
			Message: "must be positive",
		})
	}

	if h.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "history.retention.days",
			Message: "must not be negative",
		})
	}
	if h.Retention.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "history.retention.max_records",
			Message: "must not be negative",
		})
	}
	if h.Retention.Schedule != "" {
		if _, err := cron.ParseStandard(h.Retention.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "history.retention.schedule",
				Message: fmt.Sprintf("invalid cron expression %q", h.Retention.Schedule),
			})
		}
	}
	if h.Retention.ArchiveBeforeDelete && h.Retention.ArchivePath == "" {
		errs = append(errs, FieldError{
			Field:   "history.retention.archive_path",
			Message: "must not be empty when archive_before_delete is set",
		})
	}

	return errs
}

// validateTelemetry validates the telemetry configuration.
func validateTelemetry(t *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch t.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unsupported level %q (supported: debug, info, warn, error)", t.Logging.Level),
		})
	}

	switch t.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unsupported format %q (supported: json, text)", t.Logging.Format),
		})
	}

	if t.Metrics.Enabled && !strings.HasPrefix(t.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "must start with /",
		})
	}

	return errs
}
