// Package config provides configuration management for Prism.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with comprehensive validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention PRISM_SECTION_FIELD.
// For example:
//
//   - PRISM_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - PRISM_PROVIDERS_OPENAI_API_KEY overrides providers.openai.api_key
//   - PRISM_ADMISSION_MAX_REQUESTS overrides admission.max_requests
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Singleton Pattern
//
// For application-wide configuration access, use the singleton pattern:
//
//	// At application startup
//	if err := config.Initialize("config.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Anywhere in the application
//	cfg := config.GetConfig()
//	fmt.Println(cfg.Server.ListenAddress)
//
// For testing, prefer dependency injection with explicit Config instances
// rather than the global singleton.
//
// # Validation
//
// All configuration is validated automatically during loading. Validation
// errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - admission.max_requests: must be positive, got -1
//	  - telemetry.logging.level: unsupported level "chatty" (supported: debug, info, warn, error)
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	server:
//	  listen_address: "127.0.0.1:8080"
//	  max_prompt_chars: 20000
//
//	admission:
//	  max_requests: 10
//	  time_window: 60s
//	  max_queue_size: 100
//
//	providers:
//	  openrouter:
//	    api_key: "${OPENROUTER_API_KEY}"
//
//	history:
//	  enabled: true
//	  sqlite:
//	    path: "data/history.db"
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//
// # Thread Safety
//
// All configuration access is thread-safe. The singleton pattern uses read-write
// locks to allow concurrent reads while protecting against concurrent writes during
// reload operations.
package config
