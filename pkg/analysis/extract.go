package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractJSON pulls a JSON object out of free-form LLM output.
// It tries, in order: a ```json fence, a bare ``` fence, and a brace scan
// from the first '{' to the last '}'.
func extractJSON(content string) string {
	s := strings.TrimSpace(content)

	if idx := strings.Index(s, "```json"); idx != -1 {
		start := idx + len("```json")
		if end := strings.Index(s[start:], "```"); end != -1 {
			return strings.TrimSpace(s[start : start+end])
		}
	}

	if idx := strings.Index(s, "```"); idx != -1 {
		start := idx + len("```")
		if end := strings.Index(s[start:], "```"); end != -1 {
			return strings.TrimSpace(s[start : start+end])
		}
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start != -1 && end > start {
		return strings.TrimSpace(s[start : end+1])
	}

	return s
}

// parseEnrichment decodes the model's JSON review. If the first decode
// fails it retries on a brace-scanned slice, since models often wrap the
// object in commentary even when asked not to.
func parseEnrichment(content string) (*enrichment, error) {
	raw := extractJSON(content)

	var e enrichment
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start == -1 || end <= start {
			return nil, fmt.Errorf("no JSON object in response: %w", err)
		}
		if err := json.Unmarshal([]byte(raw[start:end+1]), &e); err != nil {
			return nil, fmt.Errorf("malformed JSON in response: %w", err)
		}
	}

	return &e, nil
}
