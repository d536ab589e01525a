package history

import (
	"context"
	"time"
)

// Record represents one completed prompt analysis.
type Record struct {
	// Identity
	ID        string    `json:"id"` // UUID v4
	CreatedAt time.Time `json:"created_at"`

	// Prompt fingerprint
	PromptHash    string `json:"prompt_hash"`    // SHA-256 of the full prompt
	PromptPreview string `json:"prompt_preview"` // First 500 chars
	PromptLength  int    `json:"prompt_length"`  // Characters in the full prompt

	// Analysis outcome
	TargetModel     string             `json:"target_model"`
	OverallScore    float64            `json:"overall_score"`
	DimensionScores map[string]float64 `json:"dimension_scores"`
	SuggestionCount int                `json:"suggestion_count"`

	// Enrichment
	Detailed bool   `json:"detailed"`       // LLM enrichment requested
	Provider string `json:"provider"`       // Provider type used, empty when heuristic-only
	Model    string `json:"model"`          // Completion model used
	Note     string `json:"note,omitempty"` // Degradation note, if any

	// Caller
	Identity string `json:"identity"` // Hashed API key or client IP

	// Timing
	Duration time.Duration `json:"duration"`
}

// Query defines filter parameters for retrieving analysis records.
type Query struct {
	// Time range on CreatedAt, both inclusive.
	Since *time.Time `json:"since,omitempty"`
	Until *time.Time `json:"until,omitempty"`

	// Exact-match filters. Empty values match everything.
	TargetModel string `json:"target_model,omitempty"`
	Identity    string `json:"identity,omitempty"`
	Provider    string `json:"provider,omitempty"`

	// Detailed filters on whether enrichment was requested.
	Detailed *bool `json:"detailed,omitempty"`

	// Overall score thresholds, both inclusive.
	MinScore *float64 `json:"min_score,omitempty"`
	MaxScore *float64 `json:"max_score,omitempty"`

	// Pagination. Limit <= 0 selects the store default.
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// SortOrder is "asc" or "desc" on CreatedAt. Default "desc".
	SortOrder string `json:"sort_order,omitempty"`
}

// Store persists and retrieves analysis records.
type Store interface {
	// Store persists a record.
	Store(ctx context.Context, record *Record) error

	// Query retrieves records matching the query filters, newest first
	// unless the query says otherwise.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of records matching the query filters.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes records matching the query filters and returns the
	// number deleted.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases resources held by the store.
	Close() error
}
