package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"prismatic-hq/prism/pkg/server/types"
)

func TestTimeoutMiddleware(t *testing.T) {
	t.Run("passes through fast requests", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		wrapped := TimeoutMiddleware(time.Second)(handler)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("returns 504 when the handler exceeds the timeout", func(t *testing.T) {
		slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
		})

		wrapped := TimeoutMiddleware(50 * time.Millisecond)(slow)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if w.Code != http.StatusGatewayTimeout {
			t.Errorf("status = %d, want %d", w.Code, http.StatusGatewayTimeout)
		}

		var errResp types.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
			t.Fatalf("failed to parse error response: %v", err)
		}
		if errResp.Error.Type != types.ErrorTypeGatewayTimeout {
			t.Errorf("type = %q, want %q", errResp.Error.Type, types.ErrorTypeGatewayTimeout)
		}
	})

	t.Run("handler sees the deadline on its context", func(t *testing.T) {
		var hasDeadline bool
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, hasDeadline = r.Context().Deadline()
			w.WriteHeader(http.StatusOK)
		})

		wrapped := TimeoutMiddleware(time.Second)(handler)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if !hasDeadline {
			t.Error("handler context should carry a deadline")
		}
	})
}
