// Package tick decouples a fast periodic tick source from the rate at which
// the menu task advances.
//
// The source calls Counter.Add from its own context (an interrupt handler on
// target, a timerfd reader goroutine on Linux). The task drains the counter
// one tick at a time with DrainOne and feeds every drained tick to a
// Countdown, which reports when the next menu step is due.
package tick

import "sync/atomic"

// Counter is the tick count shared with the periodic source. The zero value
// is ready to use.
type Counter struct {
	n atomic.Uint32
}

// Add records n elapsed ticks. Safe to call from the tick source while the
// task is draining.
func (c *Counter) Add(n uint32) {
	add(&c.n, n)
}

// DrainOne takes a single tick if one is pending. The test and the decrement
// happen as one indivisible step with respect to Add.
func (c *Counter) DrainOne() bool {
	return drainOne(&c.n)
}

// Pending reports the number of ticks not yet drained.
func (c *Counter) Pending() uint32 {
	return c.n.Load()
}

// Reset discards pending ticks.
func (c *Counter) Reset() {
	c.n.Store(0)
}
