package usecase

import (
	"sync"
	"time"
)

// MonotonicClock wraps a time source and never hands out the same or an
// earlier instant twice, so transaction history has a strict order.
type MonotonicClock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

// NewMonotonicClock creates a clock over now. A nil now uses time.Now in UTC.
func NewMonotonicClock(now func() time.Time) *MonotonicClock {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &MonotonicClock{now: now}
}

// Now returns the next strictly increasing timestamp.
func (c *MonotonicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now()
	if !t.After(c.last) {
		t = c.last.Add(time.Nanosecond)
	}
	c.last = t
	return t
}
