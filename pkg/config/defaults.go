package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 90 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultMaxPromptChars  = 20000

	// CORS defaults
	DefaultCORSEnabled          = true
	DefaultCORSMaxAge           = 3600 // 1 hour
	DefaultCORSAllowCredentials = false

	// Admission defaults
	DefaultAdmissionMaxRequests  = 10
	DefaultAdmissionTimeWindow   = 60 * time.Second
	DefaultAdmissionMaxQueueSize = 100
	DefaultSnapshotEnabled       = false
	DefaultSnapshotBackend       = "sqlite"
	DefaultSnapshotPath          = "data/admission.db"
	DefaultSnapshotInterval      = 30 * time.Second

	// Provider defaults
	DefaultProviderTimeout    = 60 * time.Second
	DefaultProviderMaxRetries = 3

	// Analysis defaults
	DefaultAnalysisProviderTimeout = 60 * time.Second

	// History defaults
	DefaultHistoryEnabled           = true
	DefaultHistorySQLitePath        = "data/history.db"
	DefaultHistorySQLiteMaxOpen     = 10
	DefaultHistorySQLiteMaxIdle     = 5
	DefaultHistorySQLiteWALMode     = true
	DefaultHistorySQLiteBusyTimeout = 5 * time.Second
	DefaultRecorderAsyncBuffer      = 1000
	DefaultRecorderWriteTimeout     = 5 * time.Second
	DefaultRecorderHashIdentities   = true
	DefaultRecorderMaxPreviewLength = 500
	DefaultRetentionDays            = 90
	DefaultRetentionSchedule        = "0 3 * * *"
	DefaultRetentionArchive         = false
	DefaultRetentionArchivePath     = "data/archives/"
	DefaultRetentionMaxRecords      = int64(0)

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "json"
	DefaultLoggingRedactPrompts = true
	DefaultMetricsEnabled       = true
	DefaultMetricsPath          = "/metrics"
)

// Default CORS slices. Vars because Go constants cannot be slices.
var (
	DefaultCORSAllowedOrigins = []string{"*"}
	DefaultCORSAllowedMethods = []string{"GET", "POST", "OPTIONS"}
	DefaultCORSAllowedHeaders = []string{"Authorization", "Content-Type", "X-Request-ID", "X-API-Key"}
	DefaultCORSExposedHeaders = []string{"X-Request-ID"}
)

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
//
// Booleans whose documented default is true cannot distinguish "absent"
// from "explicitly false" once unmarshalled, so they are forced to true
// here. Environment overrides run after defaulting and can still turn
// them off (e.g. PRISM_HISTORY_ENABLED=false).
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.MaxPromptChars == 0 {
		cfg.Server.MaxPromptChars = DefaultMaxPromptChars
	}

	// CORS defaults
	if !cfg.Server.CORS.Enabled {
		cfg.Server.CORS.Enabled = DefaultCORSEnabled
	}
	if len(cfg.Server.CORS.AllowedOrigins) == 0 {
		cfg.Server.CORS.AllowedOrigins = DefaultCORSAllowedOrigins
	}
	if len(cfg.Server.CORS.AllowedMethods) == 0 {
		cfg.Server.CORS.AllowedMethods = DefaultCORSAllowedMethods
	}
	if len(cfg.Server.CORS.AllowedHeaders) == 0 {
		cfg.Server.CORS.AllowedHeaders = DefaultCORSAllowedHeaders
	}
	if len(cfg.Server.CORS.ExposedHeaders) == 0 {
		cfg.Server.CORS.ExposedHeaders = DefaultCORSExposedHeaders
	}
	if cfg.Server.CORS.MaxAge == 0 {
		cfg.Server.CORS.MaxAge = DefaultCORSMaxAge
	}

	// Admission defaults
	if cfg.Admission.MaxRequests == 0 {
		cfg.Admission.MaxRequests = DefaultAdmissionMaxRequests
	}
	if cfg.Admission.TimeWindow == 0 {
		cfg.Admission.TimeWindow = DefaultAdmissionTimeWindow
	}
	if cfg.Admission.MaxQueueSize == 0 {
		cfg.Admission.MaxQueueSize = DefaultAdmissionMaxQueueSize
	}
	if cfg.Admission.Snapshot.Backend == "" {
		cfg.Admission.Snapshot.Backend = DefaultSnapshotBackend
	}
	if cfg.Admission.Snapshot.Path == "" {
		cfg.Admission.Snapshot.Path = DefaultSnapshotPath
	}
	if cfg.Admission.Snapshot.Interval == 0 {
		cfg.Admission.Snapshot.Interval = DefaultSnapshotInterval
	}

	// Provider defaults - applied to each provider
	for name, provider := range cfg.Providers {
		if provider.Timeout == 0 {
			provider.Timeout = DefaultProviderTimeout
		}
		if provider.MaxRetries == 0 {
			provider.MaxRetries = DefaultProviderMaxRetries
		}
		cfg.Providers[name] = provider
	}

	// Analysis defaults
	if cfg.Analysis.ProviderTimeout == 0 {
		cfg.Analysis.ProviderTimeout = DefaultAnalysisProviderTimeout
	}

	// History defaults
	if !cfg.History.Enabled {
		cfg.History.Enabled = DefaultHistoryEnabled
	}
	if cfg.History.SQLite.Path == "" {
		cfg.History.SQLite.Path = DefaultHistorySQLitePath
	}
	if cfg.History.SQLite.MaxOpenConns == 0 {
		cfg.History.SQLite.MaxOpenConns = DefaultHistorySQLiteMaxOpen
	}
	if cfg.History.SQLite.MaxIdleConns == 0 {
		cfg.History.SQLite.MaxIdleConns = DefaultHistorySQLiteMaxIdle
	}
	if !cfg.History.SQLite.WALMode {
		cfg.History.SQLite.WALMode = DefaultHistorySQLiteWALMode
	}
	if cfg.History.SQLite.BusyTimeout == 0 {
		cfg.History.SQLite.BusyTimeout = DefaultHistorySQLiteBusyTimeout
	}

	if cfg.History.Recorder.AsyncBuffer == 0 {
		cfg.History.Recorder.AsyncBuffer = DefaultRecorderAsyncBuffer
	}
	if cfg.History.Recorder.WriteTimeout == 0 {
		cfg.History.Recorder.WriteTimeout = DefaultRecorderWriteTimeout
	}
	if !cfg.History.Recorder.HashIdentities {
		cfg.History.Recorder.HashIdentities = DefaultRecorderHashIdentities
	}
	if cfg.History.Recorder.MaxPreviewLength == 0 {
		cfg.History.Recorder.MaxPreviewLength = DefaultRecorderMaxPreviewLength
	}

	if cfg.History.Retention.Days == 0 {
		cfg.History.Retention.Days = DefaultRetentionDays
	}
	if cfg.History.Retention.Schedule == "" {
		cfg.History.Retention.Schedule = DefaultRetentionSchedule
	}
	if cfg.History.Retention.ArchivePath == "" {
		cfg.History.Retention.ArchivePath = DefaultRetentionArchivePath
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if !cfg.Telemetry.Logging.RedactPrompts {
		cfg.Telemetry.Logging.RedactPrompts = DefaultLoggingRedactPrompts
	}
	if !cfg.Telemetry.Metrics.Enabled {
		cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}
