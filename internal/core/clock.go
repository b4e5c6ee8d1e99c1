package core

import "time"

// Clock supplies the per-frame time source: elapsed time since the first
// tick and the delta since the previous one.
type Clock struct {
	now     func() time.Time
	fixed   time.Duration
	last    time.Time
	elapsed time.Duration
}

// NewClock returns a Clock driven by wall time.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// NewFixedClock returns a Clock that advances exactly one 1/tps step per
// Tick, independent of wall time.
func NewFixedClock(tps int) *Clock {
	c := &Clock{}
	c.SetTPS(tps)
	return c
}

// SetTPS switches the clock to fixed steps of 1/tps.
func (c *Clock) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	c.fixed = time.Second / time.Duration(tps)
}

// Tick advances the clock by one frame and reports elapsed time and delta in
// seconds. The first tick of a wall clock has a zero delta.
func (c *Clock) Tick() (t, dt float32) {
	var delta time.Duration
	if c.fixed > 0 {
		delta = c.fixed
		c.elapsed += delta
	} else {
		now := c.now()
		if c.last.IsZero() {
			c.last = now
		}
		delta = max(now.Sub(c.last), 0)
		c.last = now
		c.elapsed += delta
	}
	return float32(c.elapsed.Seconds()), float32(delta.Seconds())
}

// Elapsed returns the time accumulated so far. It never decreases.
func (c *Clock) Elapsed() time.Duration { return c.elapsed }
