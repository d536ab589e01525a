package middleware

import (
	"net/http"
	"time"

	"prismatic-hq/prism/pkg/telemetry/metrics"
)

// MetricsMiddleware records request counts and durations per route.
// The route label is the request path; the server mounts a fixed set of
// routes so path cardinality is bounded.
func MetricsMiddleware(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if collector == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := newResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			collector.RecordHTTPRequest(r.URL.Path, r.Method, wrapped.statusCode, time.Since(start))
		})
	}
}
