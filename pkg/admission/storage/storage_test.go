package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func testBackends(t *testing.T) map[string]Backend {
	t.Helper()

	sqlite, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "admission.db"))
	if err != nil {
		t.Fatalf("NewSQLiteBackend failed: %v", err)
	}

	backends := map[string]Backend{
		"memory": NewMemoryBackend(),
		"sqlite": sqlite,
	}
	t.Cleanup(func() {
		for _, b := range backends {
			b.Close()
		}
	})
	return backends
}

func TestBackend_SaveLoad(t *testing.T) {
	for name, backend := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Now()

			state := &WindowState{
				Key:        "alice",
				Timestamps: []time.Time{now.Add(-10 * time.Second), now},
				UpdatedAt:  now,
			}
			if err := backend.Save(ctx, state); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			loaded, err := backend.Load(ctx, "alice")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if loaded == nil {
				t.Fatal("Expected state, got nil")
			}
			if len(loaded.Timestamps) != 2 {
				t.Fatalf("Expected 2 timestamps, got %d", len(loaded.Timestamps))
			}
			for i := range state.Timestamps {
				if !loaded.Timestamps[i].Equal(state.Timestamps[i]) {
					t.Errorf("Timestamp %d mismatch: want %v, got %v",
						i, state.Timestamps[i], loaded.Timestamps[i])
				}
			}
		})
	}
}

func TestBackend_LoadMissing(t *testing.T) {
	for name, backend := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			state, err := backend.Load(context.Background(), "nobody")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if state != nil {
				t.Errorf("Expected nil for missing key, got %+v", state)
			}
		})
	}
}

func TestBackend_SaveOverwrites(t *testing.T) {
	for name, backend := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Now()

			backend.Save(ctx, &WindowState{Key: "k", Timestamps: []time.Time{now, now, now}})
			backend.Save(ctx, &WindowState{Key: "k", Timestamps: []time.Time{now}})

			loaded, err := backend.Load(ctx, "k")
			if err != nil || loaded == nil {
				t.Fatalf("Load failed: state=%v err=%v", loaded, err)
			}
			if len(loaded.Timestamps) != 1 {
				t.Errorf("Expected overwrite to 1 timestamp, got %d", len(loaded.Timestamps))
			}
		})
	}
}

func TestBackend_DeleteAndList(t *testing.T) {
	for name, backend := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Now()

			backend.Save(ctx, &WindowState{Key: "a", Timestamps: []time.Time{now}})
			backend.Save(ctx, &WindowState{Key: "b", Timestamps: []time.Time{now}})

			states, err := backend.List(ctx)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(states) != 2 {
				t.Fatalf("Expected 2 states, got %d", len(states))
			}

			if err := backend.Delete(ctx, "a"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			loaded, err := backend.Load(ctx, "a")
			if err != nil {
				t.Fatalf("Load after delete failed: %v", err)
			}
			if loaded != nil {
				t.Error("Expected nil after delete")
			}
		})
	}
}

func TestBackend_Validation(t *testing.T) {
	for name, backend := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := backend.Save(context.Background(), nil); err == nil {
				t.Error("Expected error for nil state")
			}
			if err := backend.Save(context.Background(), &WindowState{}); err == nil {
				t.Error("Expected error for empty key")
			}
			if _, err := backend.Load(context.Background(), ""); err == nil {
				t.Error("Expected error for empty key")
			}
		})
	}
}
