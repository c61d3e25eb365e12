package clock

// Structs

// Clock is a Lamport logical clock.
type Clock struct {
	now int64
}

// Functions

// New returns a clock starting at start. The first
// timestamp handed out by Tick is start + 1.
func New(start int64) *Clock {

	return &Clock{
		now: start,
	}
}

// Tick advances the clock for a local event
// and returns the new timestamp.
func (c *Clock) Tick() int64 {

	c.now++

	return c.now
}

// Observe lifts the clock to at least t, so that
// the next Tick is strictly later than any timestamp
// seen from another replica. It returns the current
// value afterwards.
func (c *Clock) Observe(t int64) int64 {

	if t > c.now {
		c.now = t
	}

	return c.now
}

// Now returns the current value without advancing.
func (c *Clock) Now() int64 {
	return c.now
}
