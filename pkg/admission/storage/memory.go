package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryBackend implements Backend with an in-memory map.
// State does not survive restarts; useful for tests and for deployments
// that do not want persistence.
type MemoryBackend struct {
	mu     sync.RWMutex
	states map[string]*WindowState
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		states: make(map[string]*WindowState),
	}
}

// Save stores a copy of the state.
func (m *MemoryBackend) Save(_ context.Context, state *WindowState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.Key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	cp := &WindowState{
		Key:        state.Key,
		Timestamps: append([]time.Time(nil), state.Timestamps...),
		UpdatedAt:  state.UpdatedAt,
	}
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.Key] = cp

	return nil
}

// Load returns a copy of the stored state, or (nil, nil) when absent.
func (m *MemoryBackend) Load(_ context.Context, key string) (*WindowState, error) {
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.states[key]
	if !ok {
		return nil, nil
	}

	return &WindowState{
		Key:        state.Key,
		Timestamps: append([]time.Time(nil), state.Timestamps...),
		UpdatedAt:  state.UpdatedAt,
	}, nil
}

// Delete removes the state for a key.
func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, key)

	return nil
}

// List returns copies of all stored states.
func (m *MemoryBackend) List(_ context.Context) ([]*WindowState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	states := make([]*WindowState, 0, len(m.states))
	for _, state := range m.states {
		states = append(states, &WindowState{
			Key:        state.Key,
			Timestamps: append([]time.Time(nil), state.Timestamps...),
			UpdatedAt:  state.UpdatedAt,
		})
	}

	return states, nil
}

// Close is a no-op for the memory backend.
func (m *MemoryBackend) Close() error {
	return nil
}
