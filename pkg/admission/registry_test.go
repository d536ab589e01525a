package admission

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"prismatic-hq/prism/pkg/admission/storage"
)

func testRegistry(t *testing.T, cfg Config, opts RegistryOptions) *Registry {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = testLogger()
	}
	r, err := NewRegistry(cfg, opts)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

// ============================================================================
// Registry Tests
// ============================================================================

func TestRegistry_SameLimiterPerKey(t *testing.T) {
	r := testRegistry(t, Config{MaxRequests: 5, TimeWindow: time.Minute, MaxQueueSize: 10}, RegistryOptions{})

	a := r.ForKey("alice")
	b := r.ForKey("bob")
	again := r.ForKey("alice")

	if a == b {
		t.Error("Expected distinct limiters for distinct keys")
	}
	if a != again {
		t.Error("Expected the same limiter on repeated ForKey")
	}
}

func TestRegistry_ConcurrentForKey(t *testing.T) {
	r := testRegistry(t, Config{MaxRequests: 5, TimeWindow: time.Minute, MaxQueueSize: 10}, RegistryOptions{})

	limiters := make([]*Limiter, 50)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			limiters[i] = r.ForKey("shared")
		}(i)
	}
	wg.Wait()

	for i := 1; i < 50; i++ {
		if limiters[i] != limiters[0] {
			t.Fatal("Concurrent ForKey produced more than one limiter for a key")
		}
	}
}

func TestRegistry_PerKeyIsolation(t *testing.T) {
	r := testRegistry(t, Config{MaxRequests: 1, TimeWindow: time.Minute, MaxQueueSize: 0}, RegistryOptions{})

	// Saturate key A
	if err := r.Admit(context.Background(), "a"); err != nil {
		t.Fatalf("Expected first admission for key a, got %v", err)
	}
	if err := r.Admit(context.Background(), "a"); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Expected ErrQueueFull for saturated key a, got %v", err)
	}

	// Key B is unaffected
	start := time.Now()
	if err := r.Admit(context.Background(), "b"); err != nil {
		t.Errorf("Expected key b unaffected by key a, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Key b admission should not block, took %v", elapsed)
	}
}

func TestRegistry_Stats(t *testing.T) {
	r := testRegistry(t, Config{MaxRequests: 2, TimeWindow: time.Minute, MaxQueueSize: 10}, RegistryOptions{})

	r.Admit(context.Background(), "a")
	r.Admit(context.Background(), "a")
	r.Admit(context.Background(), "b")

	stats := r.Stats()
	if stats.Keys != 2 {
		t.Errorf("Expected 2 keys, got %d", stats.Keys)
	}
	if stats.InWindowTotal != 3 {
		t.Errorf("Expected 3 in window total, got %d", stats.InWindowTotal)
	}
	if stats.FaultedLimiters != 0 {
		t.Errorf("Expected no faulted limiters, got %d", stats.FaultedLimiters)
	}
}

func TestRegistry_InvalidConfig(t *testing.T) {
	if _, err := NewRegistry(Config{MaxRequests: 0, TimeWindow: time.Minute}, RegistryOptions{Logger: testLogger()}); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestRegistry_CloseStopsLimiters(t *testing.T) {
	r, err := NewRegistry(Config{MaxRequests: 1, TimeWindow: time.Minute, MaxQueueSize: 10}, RegistryOptions{Logger: testLogger()})
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	l := r.ForKey("a")
	r.Close()

	if err := l.Admit(context.Background()); !errors.Is(err, ErrLimiterClosed) {
		t.Errorf("Expected ErrLimiterClosed after registry close, got %v", err)
	}

	// Close is idempotent
	r.Close()
}

// ============================================================================
// Snapshot Persistence Tests
// ============================================================================

func TestRegistry_SnapshotRestore(t *testing.T) {
	backend := storage.NewMemoryBackend()

	first, err := NewRegistry(
		Config{MaxRequests: 2, TimeWindow: time.Minute, MaxQueueSize: 0},
		RegistryOptions{Backend: backend, Logger: testLogger()},
	)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	// Fill the window for a key, then shut down (final snapshot runs)
	first.Admit(context.Background(), "alice")
	first.Admit(context.Background(), "alice")
	first.Close()

	state, err := backend.Load(context.Background(), "alice")
	if err != nil || state == nil {
		t.Fatalf("Expected persisted state for alice, got state=%v err=%v", state, err)
	}
	if len(state.Timestamps) != 2 {
		t.Fatalf("Expected 2 persisted timestamps, got %d", len(state.Timestamps))
	}

	// A new registry over the same backend restores the warm window
	second, err := NewRegistry(
		Config{MaxRequests: 2, TimeWindow: time.Minute, MaxQueueSize: 0},
		RegistryOptions{Backend: backend, Logger: testLogger()},
	)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	defer second.Close()

	if err := second.Admit(context.Background(), "alice"); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Expected restored window to reject, got %v", err)
	}
	if err := second.Admit(context.Background(), "bob"); err != nil {
		t.Errorf("Expected fresh key unaffected by restore, got %v", err)
	}
}
