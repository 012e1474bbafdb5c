// Package clock abstracts time so that runs are deterministic under test.
//
// The engine stamps IFC owner history with the run's start time and reports
// elapsed wall time in its summaries; both go through Clock.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current system time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// FakeClock implements Clock with a controllable time for testing.
type FakeClock struct {
	current time.Time
}

// NewFakeClock creates a FakeClock pinned to the given time.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

// Now returns the pinned time.
func (c *FakeClock) Now() time.Time {
	return c.current
}

// Advance moves the pinned time forward by the given duration.
func (c *FakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
