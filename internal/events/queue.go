package events

import "motor-menu/internal/fsm"

// DefaultQueueSize bounds the number of events buffered between two steps.
const DefaultQueueSize = 16

// Queue is a bounded FIFO. Push and Take never block.
type Queue struct {
	ch chan fsm.Event
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan fsm.Event, size)}
}

// Push appends ev, or returns ErrQueueFull and drops it.
func (q *Queue) Push(ev fsm.Event) error {
	select {
	case q.ch <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *Queue) HasPending() bool {
	return len(q.ch) > 0
}

// Take returns the oldest event, or EvIdle when the queue is empty.
func (q *Queue) Take() fsm.Event {
	select {
	case ev := <-q.ch:
		return ev
	default:
		return fsm.EvIdle
	}
}

func (q *Queue) Len() int {
	return len(q.ch)
}

// Drain discards all buffered events.
func (q *Queue) Drain() {
	for {
		select {
		case <-q.ch:
		default:
			return
		}
	}
}
