package providers

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestProviderError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &ProviderError{Provider: "openai", StatusCode: 502, Message: "bad gateway", Cause: cause}

	if !strings.Contains(err.Error(), "502") {
		t.Errorf("Error() = %q, want status code included", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Unwrap did not expose the cause")
	}

	noStatus := &ProviderError{Provider: "openai", Message: "oops"}
	if strings.Contains(noStatus.Error(), "status") {
		t.Errorf("Error() = %q, want no status segment when StatusCode is 0", noStatus.Error())
	}
}

func TestRateLimitError(t *testing.T) {
	err := &RateLimitError{Provider: "anthropic", RetryAfter: 30 * time.Second, Message: "overloaded"}
	if !strings.Contains(err.Error(), "30s") {
		t.Errorf("Error() = %q, want retry-after included", err.Error())
	}

	noRetry := &RateLimitError{Provider: "anthropic", Message: "overloaded"}
	if strings.Contains(noRetry.Error(), "retry after") {
		t.Errorf("Error() = %q, want no retry-after segment", noRetry.Error())
	}
}

func TestParseError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("unexpected token")
	err := &ParseError{Provider: "openrouter", RawResponse: "<html>", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("Unwrap did not expose the cause")
	}
}

func TestErrorsAs_Taxonomy(t *testing.T) {
	var wrapped error = fmt.Errorf("enrichment failed: %w", &AuthError{Provider: "openai", Message: "invalid key"})

	var authErr *AuthError
	if !errors.As(wrapped, &authErr) {
		t.Fatal("errors.As failed to find AuthError through wrapping")
	}
	if authErr.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", authErr.Provider)
	}
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&AuthError{Provider: "p", Message: "m"}, "authentication failed"},
		{&TimeoutError{Provider: "p", Timeout: time.Second}, "timeout"},
		{&ModelNotFoundError{Provider: "p", Model: "m"}, "does not support model"},
		{&ValidationError{Field: "model", Message: "required"}, `field "model"`},
		{&ConfigError{Provider: "p", Field: "api_key", Message: "missing"}, `field "api_key"`},
	}
	for _, tc := range cases {
		if !strings.Contains(tc.err.Error(), tc.want) {
			t.Errorf("%T.Error() = %q, want substring %q", tc.err, tc.err.Error(), tc.want)
		}
	}
}
