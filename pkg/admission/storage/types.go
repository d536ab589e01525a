// Package storage persists admission window state so limits stay warm
// across process restarts. Backends are best-effort: a snapshot failure
// must never block admission decisions.
package storage

import (
	"context"
	"time"
)

// WindowState is one key's persisted admission window.
type WindowState struct {
	// Key identifies the limiter (API key or client IP).
	Key string

	// Timestamps are the admission times inside the window, oldest first.
	Timestamps []time.Time

	// UpdatedAt is when the snapshot was taken.
	UpdatedAt time.Time
}

// Backend is the storage interface for admission window snapshots.
//
// Implementations must be safe for concurrent use. Load returns (nil, nil)
// when no state exists for the key.
type Backend interface {
	// Save persists the window state for a key, replacing any prior state.
	Save(ctx context.Context, state *WindowState) error

	// Load retrieves the window state for a key.
	Load(ctx context.Context, key string) (*WindowState, error)

	// Delete removes the state for a key.
	Delete(ctx context.Context, key string) error

	// List returns all persisted states.
	List(ctx context.Context) ([]*WindowState, error)

	// Close releases backend resources.
	Close() error
}
