package tick

// DefaultPeriod is the number of drained ticks between two menu steps.
const DefaultPeriod = 1000

// Countdown paces menu steps. It is owned by the task and never shared.
type Countdown struct {
	period    uint32
	remaining uint32
}

// NewCountdown returns a countdown armed with a full period. A zero period
// falls back to DefaultPeriod.
func NewCountdown(period uint32) *Countdown {
	if period == 0 {
		period = DefaultPeriod
	}
	return &Countdown{period: period, remaining: period}
}

// Advance consumes one drained tick and reports whether a step is due. When
// it returns true the countdown has already been rearmed.
func (c *Countdown) Advance() bool {
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 {
		c.remaining = c.period
		return true
	}
	return false
}

func (c *Countdown) Remaining() uint32 {
	return c.remaining
}

func (c *Countdown) Period() uint32 {
	return c.period
}

// Clear drops the countdown to zero so the next drained tick fires a step.
func (c *Countdown) Clear() {
	c.remaining = 0
}

// Rearm restores a full period.
func (c *Countdown) Rearm() {
	c.remaining = c.period
}
