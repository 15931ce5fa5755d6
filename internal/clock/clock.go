// Package clock supplies the time source a storyboard samples once per tick.
package clock

import (
	"sync"
	"time"
)

// Func returns the current time. Successive calls must not go backwards.
type Func func() time.Time

// System reads the wall clock.
func System() time.Time {
	return time.Now()
}

// Manual is a clock that only moves when told to. It is safe for concurrent
// use so a test can advance it while a ticking task samples it.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a clock stopped at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current reading.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d. Negative values are ignored.
func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d > 0 {
		m.now = m.now.Add(d)
	}
	return m.now
}

// Set moves the clock to t if t is not earlier than the current reading.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	if t.After(m.now) {
		m.now = t
	}
	m.mu.Unlock()
}

// Func exposes the clock as a Func.
func (m *Manual) Func() Func {
	return m.Now
}
