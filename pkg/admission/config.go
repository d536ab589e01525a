package admission

import (
	"fmt"
	"time"
)

// DefaultMaxQueueSize is used when Config.MaxQueueSize is unset.
const DefaultMaxQueueSize = 100

// Config defines the admission policy shared by every limiter a registry
// creates.
type Config struct {
	// MaxRequests is the number of admissions allowed per window.
	MaxRequests int

	// TimeWindow is the rolling window duration.
	TimeWindow time.Duration

	// MaxQueueSize bounds the number of requests that may wait for a slot.
	// Zero disables queueing entirely: every over-rate request is rejected
	// immediately with ErrQueueFull.
	MaxQueueSize int
}

// Validate checks the config for usable values.
func (c Config) Validate() error {
	if c.MaxRequests <= 0 {
		return fmt.Errorf("admission: max_requests must be positive, got %d", c.MaxRequests)
	}
	if c.TimeWindow <= 0 {
		return fmt.Errorf("admission: time_window must be positive, got %s", c.TimeWindow)
	}
	if c.MaxQueueSize < 0 {
		return fmt.Errorf("admission: max_queue_size must not be negative, got %d", c.MaxQueueSize)
	}
	return nil
}
