package fsm

import "github.com/librescoot/librefsm"

// State and Event are the librefsm identifiers the menu runs on.
type (
	State = librefsm.StateID
	Event = librefsm.EventID
)

// Menu states
const (
	StateMain          librefsm.StateID = "main"
	StateTopMenu       librefsm.StateID = "top-menu"
	StateAttributeMenu librefsm.StateID = "attribute-menu"

	// StateAttributePick is a condition state: entering it dispatches to one
	// of the pickers below in the same step.
	StateAttributePick librefsm.StateID = "attribute-pick"

	StatePowerPick librefsm.StateID = "power-pick"
	StateSpeedPick librefsm.StateID = "speed-pick"
	StateSpinPick  librefsm.StateID = "spin-pick"
)

// Navigation events
const (
	EvIdle         librefsm.EventID = "idle"
	EvMenuActivate librefsm.EventID = "menu"
	EvEscape       librefsm.EventID = "escape"
	EvNext         librefsm.EventID = "next"
	EvEnter        librefsm.EventID = "enter"
)

// evRefresh is sent ahead of the pending event on every step. Only Main
// reacts to it, by repainting the motor summary.
const evRefresh librefsm.EventID = "refresh"

// Events lists every event the machine understands, EvIdle included.
var Events = []Event{EvIdle, EvMenuActivate, EvEscape, EvNext, EvEnter}

// States lists every modeled state.
var States = []State{
	StateMain,
	StateTopMenu,
	StateAttributeMenu,
	StateAttributePick,
	StatePowerPick,
	StateSpeedPick,
	StateSpinPick,
}

// Attribute is the second-level menu choice.
type Attribute int

const (
	AttrPower Attribute = iota
	AttrSpeed
	AttrSpin
)

func (a Attribute) String() string {
	switch a {
	case AttrPower:
		return "power"
	case AttrSpeed:
		return "speed"
	case AttrSpin:
		return "spin"
	default:
		return "unknown"
	}
}

// Menu widths, i.e. the cursor modulus at each level.
const (
	topMenuWidth       = 2
	attributeMenuWidth = 3
	powerPickWidth     = 2
	speedPickWidth     = 10
	spinPickWidth      = 2
)

// Session is the navigation state carried from one step to the next.
type Session struct {
	State State

	// Event is meaningful only while HasEvent is set. A step clears
	// HasEvent whether or not a transition consumed the event.
	Event    Event
	HasEvent bool

	Cursor int

	// TopSelection is the motor being edited, SubSelection the attribute.
	TopSelection int
	SubSelection Attribute
}

// NewSession returns the initial session: Main, idle, nothing pending.
func NewSession() Session {
	return Session{
		State: StateMain,
		Event: EvIdle,
	}
}

// Deliver places ev in the session's event slot for the next step.
func (s *Session) Deliver(ev Event) {
	s.Event = ev
	s.HasEvent = true
}
