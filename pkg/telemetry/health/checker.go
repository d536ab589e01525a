package health

import (
	"context"
	"sync"
	"time"
)

// CheckFunc performs a health check for a component. It returns nil if
// the component is healthy, or an error describing the problem.
type CheckFunc func(ctx context.Context) error

// CheckResult represents the result of a single health check.
type CheckResult struct {
	// Status is the health status: "ok", "unhealthy"
	Status string `json:"status"`

	// Message provides additional context for unhealthy status
	Message string `json:"message,omitempty"`

	// Duration is how long the check took
	Duration time.Duration `json:"duration_ms,omitempty"`
}

// Status represents the overall health status of the service.
type Status struct {
	// Status is the overall status: "ok", "ready", "degraded"
	Status string `json:"status"`

	// Checks contains the status of individual components (for readiness)
	Checks map[string]CheckResult `json:"checks,omitempty"`

	// Timestamp is when the health check was performed
	Timestamp time.Time `json:"timestamp"`
}

// Checker manages health checks for service components.
type Checker struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc

	// Timeout for individual checks
	checkTimeout time.Duration
}

// New creates a new health checker with the specified check timeout.
// If timeout is 0, defaults to 5 seconds per check.
func New(checkTimeout time.Duration) *Checker {
	if checkTimeout == 0 {
		checkTimeout = 5 * time.Second
	}

	return &Checker{
		checks:       make(map[string]CheckFunc),
		checkTimeout: checkTimeout,
	}
}

// RegisterCheck registers a health check function for a named component.
// If a check with the same name already exists, it is replaced.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checks[name] = check
}

// UnregisterCheck removes a health check for a named component.
func (c *Checker) UnregisterCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.checks, name)
}

// CheckLiveness performs a simple liveness check. It returns a healthy
// status as long as the process is running, fast enough for probe use.
func (c *Checker) CheckLiveness(ctx context.Context) Status {
	return Status{
		Status:    "ok",
		Timestamp: time.Now(),
	}
}

// CheckReadiness performs readiness checks on all registered components
// and returns the aggregated status.
func (c *Checker) CheckReadiness(ctx context.Context) Status {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	// If no checks registered, the service is ready by default
	if len(checks) == 0 {
		return Status{
			Status:    "ready",
			Checks:    make(map[string]CheckResult),
			Timestamp: time.Now(),
		}
	}

	// Run all checks concurrently
	results := make(map[string]CheckResult)
	var resultMu sync.Mutex
	var wg sync.WaitGroup

	for name, check := range checks {
		wg.Add(1)
		go func(name string, check CheckFunc) {
			defer wg.Done()

			result := c.runCheck(ctx, check)

			resultMu.Lock()
			results[name] = result
			resultMu.Unlock()
		}(name, check)
	}

	wg.Wait()

	status := "ready"
	for _, result := range results {
		if result.Status == "unhealthy" {
			status = "degraded"
		}
	}

	return Status{
		Status:    status,
		Checks:    results,
		Timestamp: time.Now(),
	}
}

// runCheck executes a single health check with timeout.
func (c *Checker) runCheck(ctx context.Context, check CheckFunc) CheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	start := time.Now()

	errChan := make(chan error, 1)
	go func() {
		errChan <- check(checkCtx)
	}()

	select {
	case err := <-errChan:
		duration := time.Since(start)
		if err != nil {
			return CheckResult{
				Status:   "unhealthy",
				Message:  err.Error(),
				Duration: duration,
			}
		}
		return CheckResult{
			Status:   "ok",
			Duration: duration,
		}

	case <-checkCtx.Done():
		return CheckResult{
			Status:   "unhealthy",
			Message:  "health check timeout",
			Duration: time.Since(start),
		}
	}
}

// CheckCount returns the number of registered health checks.
func (c *Checker) CheckCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.checks)
}
