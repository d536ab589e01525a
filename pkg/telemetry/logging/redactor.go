package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// MaxLoggedPromptChars is the length prompt text is truncated to in logs.
const MaxLoggedPromptChars = 256

// Redactor masks credentials and truncates prompt text in log fields.
type Redactor struct {
	patterns []*redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// NewRedactor creates a Redactor with the built-in credential patterns.
func NewRedactor() *Redactor {
	r := &Redactor{}
	r.addDefaultPatterns()
	return r
}

// addDefaultPatterns adds patterns for the credential shapes providers use.
func (r *Redactor) addDefaultPatterns() {
	patterns := []struct {
		name        string
		regex       string
		replacement string
	}{
		// Provider API keys (sk-, sk-ant-, sk-or- prefixes)
		{
			name:        "api_key",
			regex:       `sk-[a-zA-Z0-9\-_]+`,
			replacement: "sk-***",
		},
		// Authorization header values
		{
			name:        "bearer_token",
			regex:       `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`,
			replacement: "Bearer ***",
		},
		// key=value style credentials in free text
		{
			name:        "key_field",
			regex:       `(?i)(api[-_]?key|token|secret)[:=]\s*[^\s"]+`,
			replacement: "$1: ***",
		},
	}

	for _, p := range patterns {
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}
}

// RedactString masks credential shapes inside a string value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}

	redacted := value
	for _, pattern := range r.patterns {
		redacted = pattern.regex.ReplaceAllString(redacted, pattern.replacement)
	}

	return redacted
}

// RedactAttr returns a copy of the attribute safe for logging.
// Sensitive keys are masked entirely, prompt keys are truncated,
// and remaining string values are scrubbed for credential shapes.
func (r *Redactor) RedactAttr(attr slog.Attr) slog.Attr {
	if attr.Value.Kind() == slog.KindGroup {
		group := attr.Value.Group()
		redacted := make([]slog.Attr, len(group))
		for i, member := range group {
			redacted[i] = r.RedactAttr(member)
		}
		return slog.Attr{Key: attr.Key, Value: slog.GroupValue(redacted...)}
	}

	if isSensitiveKey(attr.Key) {
		return slog.String(attr.Key, maskValue(attr.Value.String()))
	}

	if attr.Value.Kind() != slog.KindString {
		return attr
	}

	value := attr.Value.String()
	if isPromptKey(attr.Key) {
		value = TruncatePrompt(value)
	}
	return slog.String(attr.Key, r.RedactString(value))
}

// isSensitiveKey checks if a key name indicates credential data.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	sensitiveKeys := []string{
		"api_key", "apikey",
		"secret", "token",
		"auth", "authorization",
		"password", "passwd",
	}

	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}

	return false
}

// isPromptKey checks if a key name carries prompt text.
func isPromptKey(key string) bool {
	lowerKey := strings.ToLower(key)
	return lowerKey == "prompt" ||
		lowerKey == "prompt_text" ||
		lowerKey == "optimized_prompt"
}

// maskValue redacts a sensitive value, keeping a short prefix for
// identification.
func maskValue(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "***"
	}
	return value[:4] + "***"
}

// TruncatePrompt shortens prompt text to MaxLoggedPromptChars.
func TruncatePrompt(prompt string) string {
	if len(prompt) <= MaxLoggedPromptChars {
		return prompt
	}
	return prompt[:MaxLoggedPromptChars-3] + "..."
}

// RedactAPIKey redacts an API key, keeping only a prefix.
func RedactAPIKey(apiKey string) string {
	if len(apiKey) <= 4 {
		return "***"
	}
	return apiKey[:4] + "***"
}
