package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
//
// The handler exposes all registered metrics in the standard Prometheus
// exposition format. It should be mounted at the path specified in the
// MetricsConfig (typically "/metrics").
//
// Example:
//
//	collector := metrics.NewCollector(cfg, nil)
//	mux.Handle(cfg.Path, collector.Handler())
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}

// HandlerWithOptions returns an HTTP handler with custom options, for
// callers that need scrape timeouts or concurrency limits.
func (c *Collector) HandlerWithOptions(opts promhttp.HandlerOpts) http.Handler {
	return promhttp.HandlerFor(c.registry, opts)
}
