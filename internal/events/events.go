// Package events is the intake side of the navigation event queue.
//
// Producers (buttons, redis, the development shell) push from their own
// goroutines; the menu task polls with HasPending/Take once per cadence
// period and never blocks.
package events

import (
	"errors"
	"fmt"
	"strings"

	"motor-menu/internal/fsm"
)

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrQueueFull    = errors.New("event queue full")
)

// Source is what the menu task reads events from.
type Source interface {
	HasPending() bool
	Take() fsm.Event
}

// Sink is what producers push events into.
type Sink interface {
	Push(ev fsm.Event) error
}

var aliases = map[string]fsm.Event{
	"idle":     fsm.EvIdle,
	"menu":     fsm.EvMenuActivate,
	"activate": fsm.EvMenuActivate,
	"escape":   fsm.EvEscape,
	"esc":      fsm.EvEscape,
	"back":     fsm.EvEscape,
	"next":     fsm.EvNext,
	"enter":    fsm.EvEnter,
	"ok":       fsm.EvEnter,
}

// Parse maps a command word to an event. Matching is case-insensitive.
func Parse(s string) (fsm.Event, error) {
	ev, ok := aliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return fsm.EvIdle, fmt.Errorf("%w: %q", ErrUnknownEvent, s)
	}
	return ev, nil
}
