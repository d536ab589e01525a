package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"prismatic-hq/prism/pkg/server/types"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and returns a
// 500 Internal Server Error in the standard error envelope. It logs the
// panic with a stack trace but does not expose internals to clients.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				requestID := GetRequestID(r.Context())
				stack := debug.Stack()

				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"request_id", requestID,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(stack),
				)

				errResp := types.NewServerError(
					"An internal error occurred. Please try again later.",
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(errResp)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
