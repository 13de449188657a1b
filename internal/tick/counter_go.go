//go:build !tinygo

package tick

import "sync/atomic"

// On a hosted OS the source runs on another goroutine, so the
// test-and-decrement is a compare-and-swap loop instead of an interrupt mask.

func add(n *atomic.Uint32, delta uint32) {
	n.Add(delta)
}

func drainOne(n *atomic.Uint32) bool {
	for {
		cur := n.Load()
		if cur == 0 {
			return false
		}
		if n.CompareAndSwap(cur, cur-1) {
			return true
		}
	}
}
