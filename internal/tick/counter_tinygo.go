//go:build tinygo

package tick

import (
	"runtime/interrupt"
	"sync/atomic"
)

// add runs in the timer interrupt handler, which the task cannot preempt.
func add(n *atomic.Uint32, delta uint32) {
	n.Store(n.Load() + delta)
}

// drainOne masks interrupts for the test-and-decrement and restores the
// previous mask afterwards, so it nests inside other critical sections.
func drainOne(n *atomic.Uint32) bool {
	state := interrupt.Disable()
	defer interrupt.Restore(state)

	cur := n.Load()
	if cur == 0 {
		return false
	}
	n.Store(cur - 1)
	return true
}
