// File: internal/core/task.go
package core

import (
	"context"
	"fmt"

	"motor-menu/internal/display"
	"motor-menu/internal/fsm"
	"motor-menu/internal/logger"
	"motor-menu/internal/motor"
	"motor-menu/internal/tick"
)

const DefaultTaskName = "task_menu"

type TaskConfig struct {
	Name   string
	Mode   display.ConnectionMode
	Period uint32
}

// MenuTask is the cooperative menu task. Init runs once and starts the menu
// machine; Update is called by the scheduler as often as it likes.
type MenuTask struct {
	name      string
	mode      display.ConnectionMode
	counter   *tick.Counter
	countdown *tick.Countdown
	display   display.Display
	heartbeat Heartbeat
	events    EventSource
	motors    *motor.Store
	machine   *fsm.Machine
	telemetry Telemetry
	calls     uint64
	logger    *logger.Logger
}

func NewMenuTask(cfg TaskConfig, counter *tick.Counter, d display.Display, hb Heartbeat, src EventSource, motors *motor.Store, l *logger.Logger) *MenuTask {
	if cfg.Name == "" {
		cfg.Name = DefaultTaskName
	}
	l = l.WithTag("menu")
	return &MenuTask{
		name:      cfg.Name,
		mode:      cfg.Mode,
		counter:   counter,
		countdown: tick.NewCountdown(cfg.Period),
		display:   d,
		heartbeat: hb,
		events:    src,
		motors:    motors,
		logger:    l,
	}
}

// SetTelemetry registers a sink for motor and menu changes. Nil disables
// publishing.
func (t *MenuTask) SetTelemetry(tel Telemetry) {
	t.telemetry = tel
}

func (t *MenuTask) Init() error {
	t.logger.Infof("%s is running - non-blocking, updated by tick countdown", t.name)

	t.calls = 0
	t.logger.Infof("%s calls = %d", t.name, t.calls)

	if d, ok := t.events.(drainer); ok {
		d.Drain()
	}

	if t.machine == nil {
		m, err := fsm.NewMachine(context.Background(), t.display, t.motors, t.logger)
		if err != nil {
			return err
		}
		t.machine = m
	}
	t.machine.Restore(fsm.NewSession())
	s := t.machine.Session()
	t.logger.Infof("state = %s, event = %s, pending = %v", s.State, s.Event, s.HasEvent)

	if err := t.display.Init(t.mode); err != nil {
		return fmt.Errorf("failed to initialize display (%s): %w", t.mode, err)
	}
	if err := t.heartbeat.Set(true); err != nil {
		return fmt.Errorf("failed to set heartbeat: %w", err)
	}

	t.countdown.Rearm()
	t.counter.Reset()
	return nil
}

// Update drains every pending tick. Each time the countdown expires it
// toggles the heartbeat, pulls at most one event and runs one menu step.
func (t *MenuTask) Update() {
	t.calls++
	if t.machine == nil {
		return
	}

	for t.counter.DrainOne() {
		if !t.countdown.Advance() {
			continue
		}
		t.step()
	}
}

func (t *MenuTask) step() {
	if err := t.heartbeat.Toggle(); err != nil {
		t.logger.Warnf("Failed to toggle heartbeat: %v", err)
	}

	if t.events.HasPending() {
		t.machine.Deliver(t.events.Take())
	}

	before := t.machine.Session().State
	res := t.machine.Step()
	if res.Consumed != fsm.EvIdle {
		t.logger.Debugf("%s -> %s on %s (cursor %d)", before, res.Session.State, res.Consumed, res.Session.Cursor)
	}

	if res.Reset {
		t.logger.Warnf("Unmodeled state %q, session reset", before)
		t.countdown.Clear()
	}

	t.publish(before, res)
}

// Calls is the number of Update invocations since Init.
func (t *MenuTask) Calls() uint64 {
	return t.calls
}

func (t *MenuTask) Session() fsm.Session {
	if t.machine == nil {
		return fsm.NewSession()
	}
	return t.machine.Session()
}

// Close stops the menu machine started by Init.
func (t *MenuTask) Close() error {
	if t.machine == nil {
		return nil
	}
	return t.machine.Close()
}

// Pending is the countdown remaining before the next step.
func (t *MenuTask) Pending() uint32 {
	return t.countdown.Remaining()
}

func (t *MenuTask) Name() string {
	return t.name
}
