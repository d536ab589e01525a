// Package logging builds the structured loggers used across Prism.
//
// # Overview
//
// The package configures Go's standard log/slog and installs the result
// as the process default so every component logs through it:
//   - JSON or text output formats
//   - Configurable log levels (debug, info, warn, error)
//   - Optional redaction of credentials and prompt text
//   - Context helpers for request IDs and admission identities
//
// # Usage
//
//	logger, err := logging.Install(logging.Options{
//	    Level:         "info",
//	    Format:        "json",
//	    RedactPrompts: true,
//	})
//
//	logger.Info("analysis complete",
//	    "request_id", "req-123",
//	    "api_key", "sk-abc123",  // masked by the redactor
//	    "duration_ms", 1234,
//	)
//
// # Redaction
//
// When RedactPrompts is enabled the handler rewrites attributes before
// they reach the writer:
//
//   - API keys: sk-abc123xyz → sk-***
//   - Authorization values: Bearer eyJ... → Bearer ***
//   - Sensitive keys (api_key, token, secret, ...): value → xxxx***
//   - Prompt text (prompt, prompt_text, optimized_prompt): truncated
//     to MaxLoggedPromptChars
package logging
