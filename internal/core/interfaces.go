package core

import (
	"motor-menu/internal/fsm"
	"motor-menu/internal/types"
)

// Heartbeat defines the status output toggled by MenuTask once per step
type Heartbeat interface {
	Set(on bool) error
	Toggle() error
}

// EventSource defines the event intake read by MenuTask
type EventSource interface {
	HasPending() bool
	Take() fsm.Event
}

// Telemetry receives configuration and navigation changes. Implementations
// must not block; MenuTask calls them from inside Update.
type Telemetry interface {
	NotifyMotor(m types.MotorConfig)
	NotifyMenuState(state fsm.State)
}

// drainer is implemented by event sources that can be emptied on Init.
type drainer interface {
	Drain()
}
