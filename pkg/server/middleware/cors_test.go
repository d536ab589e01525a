package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORSMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	t.Run("adds CORS headers for allowed origin", func(t *testing.T) {
		config := &CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"https://example.com"},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         3600,
		}

		wrapped := CORSMiddleware(config)(handler)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://example.com")
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Origin") != "https://example.com" {
			t.Error("Expected Access-Control-Allow-Origin header to be set")
		}
	})

	t.Run("allows all origins with wildcard", func(t *testing.T) {
		config := &CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST"},
		}

		wrapped := CORSMiddleware(config)(handler)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://any-origin.com")
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		got := w.Header().Get("Access-Control-Allow-Origin")
		if got != "*" && got != "https://any-origin.com" {
			t.Errorf("Expected Access-Control-Allow-Origin to be '*' or matching origin, got: %s", got)
		}
	})

	t.Run("handles preflight OPTIONS request", func(t *testing.T) {
		config := DefaultCORSConfig()

		wrapped := CORSMiddleware(config)(handler)

		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		req.Header.Set("Origin", "https://example.com")
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
		}
		if w.Header().Get("Access-Control-Allow-Methods") == "" {
			t.Error("Expected Access-Control-Allow-Methods header to be set")
		}
		if w.Header().Get("Access-Control-Max-Age") != "3600" {
			t.Errorf("Access-Control-Max-Age = %q, want %q", w.Header().Get("Access-Control-Max-Age"), "3600")
		}
	})

	t.Run("no CORS headers for disallowed origin", func(t *testing.T) {
		config := &CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"https://example.com"},
		}

		wrapped := CORSMiddleware(config)(handler)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://evil.com")
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("Expected no Access-Control-Allow-Origin for disallowed origin")
		}
	})

	t.Run("passes through when disabled", func(t *testing.T) {
		config := &CORSConfig{Enabled: false}

		wrapped := CORSMiddleware(config)(handler)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://example.com")
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("Expected no CORS headers when disabled")
		}
	})

	t.Run("sets credentials and exposed headers", func(t *testing.T) {
		config := &CORSConfig{
			Enabled:          true,
			AllowedOrigins:   []string{"https://example.com"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
		}

		wrapped := CORSMiddleware(config)(handler)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://example.com")
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Error("Expected Access-Control-Allow-Credentials to be true")
		}
		if w.Header().Get("Access-Control-Expose-Headers") != "X-Request-ID" {
			t.Errorf("Access-Control-Expose-Headers = %q, want %q",
				w.Header().Get("Access-Control-Expose-Headers"), "X-Request-ID")
		}
	})
}
