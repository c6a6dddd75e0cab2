package clock

import "time"

// FakeClock is a manually driven Clock for tests. Time only moves when
// Advance is called, so calculation timestamps are fully deterministic.
type FakeClock struct {
	now time.Time
}

// NewFakeClock pins the clock to t, normalized to UTC like the system clock.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by d. Useful for expiring cached price
// configs and settings snapshots.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
