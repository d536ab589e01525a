// Package history provides a persistent audit trail of completed prompt
// analyses.
//
// Each analysis produces a Record capturing the prompt fingerprint, the
// scores the engine assigned, and metadata about any LLM enrichment that
// ran. Records are written asynchronously by the recorder subpackage so
// that persistence never blocks the request path, stored by the storage
// subpackage (SQLite or in-memory), and aged out by the retention
// subpackage on a cron schedule.
//
// Prompts are never stored verbatim. The recorder keeps a SHA-256 hash of
// the full text plus a truncated preview, which is enough to correlate
// repeat submissions without retaining user content wholesale.
package history
