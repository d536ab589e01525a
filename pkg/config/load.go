package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention PRISM_SECTION_FIELD (e.g., PRISM_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	// LoadConfig already applies defaults
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format PRISM_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("PRISM_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("PRISM_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("PRISM_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("PRISM_SERVER_IDLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.IdleTimeout = d
		}
	}
	if val := os.Getenv("PRISM_SERVER_REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.RequestTimeout = d
		}
	}
	if val := os.Getenv("PRISM_SERVER_MAX_HEADER_BYTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Server.MaxHeaderBytes = i
		}
	}
	if val := os.Getenv("PRISM_SERVER_MAX_PROMPT_CHARS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Server.MaxPromptChars = i
		}
	}

	// Admission overrides
	if val := os.Getenv("PRISM_ADMISSION_MAX_REQUESTS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Admission.MaxRequests = i
		}
	}
	if val := os.Getenv("PRISM_ADMISSION_TIME_WINDOW"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Admission.TimeWindow = d
		}
	}
	if val := os.Getenv("PRISM_ADMISSION_MAX_QUEUE_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Admission.MaxQueueSize = i
		}
	}
	if val := os.Getenv("PRISM_ADMISSION_SNAPSHOT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Admission.Snapshot.Enabled = b
		}
	}
	if val := os.Getenv("PRISM_ADMISSION_SNAPSHOT_BACKEND"); val != "" {
		cfg.Admission.Snapshot.Backend = val
	}
	if val := os.Getenv("PRISM_ADMISSION_SNAPSHOT_PATH"); val != "" {
		cfg.Admission.Snapshot.Path = val
	}

	// Scoring overrides
	if val := os.Getenv("PRISM_SCORING_PROFILE_PATH"); val != "" {
		cfg.Scoring.ProfilePath = val
	}
	if val := os.Getenv("PRISM_SCORING_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Scoring.Watch = b
		}
	}

	// Provider overrides
	applyProviderEnvOverrides(cfg, "openai")
	applyProviderEnvOverrides(cfg, "anthropic")
	applyProviderEnvOverrides(cfg, "openrouter")

	// Analysis overrides
	if val := os.Getenv("PRISM_ANALYSIS_PROVIDER_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Analysis.ProviderTimeout = d
		}
	}

	// History overrides
	if val := os.Getenv("PRISM_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("PRISM_HISTORY_SQLITE_PATH"); val != "" {
		cfg.History.SQLite.Path = val
	}
	if val := os.Getenv("PRISM_HISTORY_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.History.Retention.Days = i
		}
	}
	if val := os.Getenv("PRISM_HISTORY_RETENTION_SCHEDULE"); val != "" {
		cfg.History.Retention.Schedule = val
	}
	if val := os.Getenv("PRISM_HISTORY_RETENTION_MAX_RECORDS"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.History.Retention.MaxRecords = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("PRISM_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("PRISM_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("PRISM_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("PRISM_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
}

// applyProviderEnvOverrides applies environment variable overrides for a
// specific provider. Provider environment variables follow the format
// PRISM_PROVIDERS_<NAME>_<FIELD> where NAME is the uppercase provider type.
func applyProviderEnvOverrides(cfg *Config, providerName string) {
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}

	provider, exists := cfg.Providers[providerName]
	if !exists {
		provider = ProviderConfig{}
	}

	prefix := fmt.Sprintf("PRISM_PROVIDERS_%s_", strings.ToUpper(providerName))

	modified := false

	if val := os.Getenv(prefix + "BASE_URL"); val != "" {
		provider.BaseURL = val
		modified = true
	}
	if val := os.Getenv(prefix + "API_KEY"); val != "" {
		provider.APIKey = val
		modified = true
	}
	if val := os.Getenv(prefix + "TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			provider.Timeout = d
			modified = true
		}
	}
	if val := os.Getenv(prefix + "MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			provider.MaxRetries = i
			modified = true
		}
	}

	// Only update the map if we found at least one override
	if modified || exists {
		cfg.Providers[providerName] = provider
	}
}
