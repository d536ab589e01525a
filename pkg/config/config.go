package config

import "time"

// Config is the root configuration structure for Prism.
// It contains all configuration sections for the HTTP server, admission
// control, scoring, providers, history storage, and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, request limits, and CORS settings.
	Server ServerConfig `yaml:"server"`

	// Admission contains configuration for the sliding-window admission
	// subsystem that fronts the analyze endpoint.
	Admission AdmissionConfig `yaml:"admission"`

	// Scoring contains configuration for the heuristic scorer, including
	// the optional weight profile file and hot reload.
	Scoring ScoringConfig `yaml:"scoring"`

	// Providers contains configuration for LLM provider integrations used
	// for detailed analysis. Keys are provider types
	// ("openai", "anthropic", "openrouter").
	Providers map[string]ProviderConfig `yaml:"providers"`

	// Analysis contains configuration for the analysis engine.
	Analysis AnalysisConfig `yaml:"analysis"`

	// History contains configuration for analysis history recording,
	// storage, and retention.
	History HistoryConfig `yaml:"history"`

	// Telemetry contains configuration for observability including logging
	// and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. A zero or negative value means no timeout.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. A zero or negative value means no timeout.
	// Default: 120s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled. If IdleTimeout is zero, ReadTimeout is used.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// If requests are still in-flight after this timeout, the server will
	// force shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestTimeout bounds individual request handling, including time
	// spent queued for admission and any provider calls.
	// Default: 90s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header's keys and values.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxPromptChars is the maximum prompt length in characters accepted by
	// the analyze endpoint. Longer prompts are rejected with 413.
	// Default: 20000
	MaxPromptChars int `yaml:"max_prompt_chars"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS is enabled.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins for CORS requests.
	// Use ["*"] to allow all origins (not recommended for production).
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods for CORS requests.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed HTTP headers for CORS requests.
	// Default: ["Authorization", "Content-Type", "X-Request-ID", "X-API-Key"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is a list of headers that are exposed to the client.
	// Default: ["X-Request-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the maximum age (in seconds) for preflight request cache.
	// Default: 3600 (1 hour)
	MaxAge int `yaml:"max_age"`

	// AllowCredentials controls whether credentials (cookies, auth headers)
	// are allowed in CORS requests.
	// Default: false
	AllowCredentials bool `yaml:"allow_credentials"`
}

// AdmissionConfig contains configuration for the admission subsystem.
type AdmissionConfig struct {
	// MaxRequests is the number of admissions allowed per window per identity.
	// Default: 10
	MaxRequests int `yaml:"max_requests"`

	// TimeWindow is the rolling window duration.
	// Default: 60s
	TimeWindow time.Duration `yaml:"time_window"`

	// MaxQueueSize bounds the number of requests that may wait for a slot.
	// Zero means over-rate requests are rejected immediately.
	// Default: 100
	MaxQueueSize int `yaml:"max_queue_size"`

	// Snapshot contains window-state persistence settings.
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// SnapshotConfig contains window-state persistence settings for the
// admission registry. Snapshots keep limits warm across restarts.
type SnapshotConfig struct {
	// Enabled controls whether window state is persisted.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend selects the snapshot store.
	// Options: "memory", "sqlite"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path when Backend is "sqlite".
	// Default: "data/admission.db"
	Path string `yaml:"path"`

	// Interval is how often window state is persisted.
	// Default: 30s
	Interval time.Duration `yaml:"interval"`
}

// ScoringConfig contains configuration for the heuristic scorer.
type ScoringConfig struct {
	// ProfilePath is an optional YAML file overriding dimension weights.
	// Empty means built-in weights.
	ProfilePath string `yaml:"profile_path"`

	// Watch enables automatic reloading when the profile file changes.
	// Default: false
	Watch bool `yaml:"watch"`
}

// ProviderConfig contains configuration for a single LLM provider.
type ProviderConfig struct {
	// BaseURL is the base URL for the provider's API endpoint.
	// Example: "https://api.openai.com/v1"
	BaseURL string `yaml:"base_url"`

	// APIKey is the authentication key for the provider.
	// This should typically be loaded from an environment variable.
	APIKey string `yaml:"api_key"`

	// Timeout is the maximum duration for requests to this provider.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the maximum number of retry attempts for failed requests.
	// Default: 3
	MaxRetries int `yaml:"max_retries"`
}

// AnalysisConfig contains configuration for the analysis engine.
type AnalysisConfig struct {
	// ProviderTimeout bounds LLM enrichment calls.
	// Default: 60s
	ProviderTimeout time.Duration `yaml:"provider_timeout"`
}

// HistoryConfig contains configuration for analysis history.
type HistoryConfig struct {
	// Enabled enables history recording.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// SQLite contains SQLite store settings.
	SQLite HistorySQLiteConfig `yaml:"sqlite"`

	// Recorder contains async recorder settings.
	Recorder RecorderConfig `yaml:"recorder"`

	// Retention contains retention settings.
	Retention RetentionConfig `yaml:"retention"`
}

// HistorySQLiteConfig contains SQLite store settings for history.
type HistorySQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/history.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RecorderConfig contains async recorder settings.
type RecorderConfig struct {
	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// HashIdentities enables hashing of API-key identities before storage.
	// Default: true
	HashIdentities bool `yaml:"hash_identities"`

	// MaxPreviewLength is the maximum prompt preview length before truncation.
	// Default: 500
	MaxPreviewLength int `yaml:"max_preview_length"`
}

// RetentionConfig contains history retention settings.
type RetentionConfig struct {
	// Days is the number of days to retain analysis records.
	// 0 means keep records forever.
	// Default: 90
	Days int `yaml:"days"`

	// Schedule is a cron expression for scheduling pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	Schedule string `yaml:"schedule"`

	// ArchiveBeforeDelete enables archiving records before deletion.
	// Default: false
	ArchiveBeforeDelete bool `yaml:"archive_before_delete"`

	// ArchivePath is the directory to store archived records.
	// Default: "data/archives/"
	ArchivePath string `yaml:"archive_path"`

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// RedactPrompts truncates prompt text in log output.
	// Default: true
	RedactPrompts bool `yaml:"redact_prompts"`
}

// MetricsConfig contains metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether Prometheus metrics are exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the metrics endpoint path.
	// Default: "/metrics"
	Path string `yaml:"path"`
}
