package testutil

import (
	"sync"
	"time"
)

// FakeClock is a deterministic wall clock for tests.
//
// Each call to Now returns the current instant and then advances it by the
// configured step, so successive history appends get strictly increasing,
// predictable timestamps.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FakeClock struct {
	mu    sync.Mutex
	start time.Time
	now   time.Time
	step  time.Duration
}

// DefaultEpoch is the instant NewFakeClock starts at: 2025-01-01 12:00:00 local time.
var DefaultEpoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.Local)

// NewFakeClock creates a clock starting at DefaultEpoch that advances one
// second per call.
func NewFakeClock() *FakeClock {
	return NewFakeClockAt(DefaultEpoch, time.Second)
}

// NewFakeClockAt creates a clock starting at start that advances by step per call.
func NewFakeClockAt(start time.Time, step time.Duration) *FakeClock {
	return &FakeClock{start: start, now: start, step: step}
}

// Now returns the current instant and advances the clock.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Peek returns the instant the next Now call will return.
func (c *FakeClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d without consuming a tick.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Reset returns the clock to its start instant.
func (c *FakeClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.start
}
