package fsm

import (
	"context"
	"fmt"

	"motor-menu/internal/display"
	"motor-menu/internal/logger"
	"motor-menu/internal/motor"
)

// Machine runs the menu definition against a display and a motor store.
type Machine struct {
	engine  *engine
	display display.Display
	motors  *motor.Store
	logger  *logger.Logger
}

// NewMachine builds the menu definition and starts its event loop. The loop
// stops when ctx is done or Close is called.
func NewMachine(ctx context.Context, d display.Display, motors *motor.Store, l *logger.Logger) (*Machine, error) {
	e, err := newEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to build menu definition: %w", err)
	}
	if err := e.start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start menu machine: %w", err)
	}
	return &Machine{
		engine:  e,
		display: d,
		motors:  motors,
		logger:  l.WithTag("fsm"),
	}, nil
}

func (m *Machine) Close() error {
	m.engine.stop()
	return nil
}

// Session returns a copy of the current navigation state.
func (m *Machine) Session() Session {
	return m.engine.data.Session
}

// Restore replaces the navigation state, e.g. after a reset.
func (m *Machine) Restore(s Session) {
	m.engine.restore(s)
}

// Deliver places an event in the slot the next step reads.
func (m *Machine) Deliver(ev Event) {
	m.engine.data.Session.Deliver(ev)
}

// Step runs one transition and applies its side effects: display ops first,
// then store writes. Side effect failures are logged and do not stop the
// step.
func (m *Machine) Step() Result {
	all := m.motors.All()
	res, err := m.engine.step(all[:])
	if err != nil {
		m.logger.Errorf("Step in %s failed: %v", res.Session.State, err)
	}

	for _, op := range res.Display {
		if err := m.apply(op); err != nil {
			m.logger.Warnf("Display %s failed: %v", op, err)
		}
	}
	for _, w := range res.Writes {
		if err := m.commit(w); err != nil {
			m.logger.Errorf("Failed to commit %s: %v", w, err)
			continue
		}
		m.logger.Debugf("Committed %s", w)
	}
	if f, ok := m.display.(display.Flusher); ok {
		if err := f.Flush(); err != nil {
			m.logger.Warnf("Display flush failed: %v", err)
		}
	}
	return res
}

func (m *Machine) apply(op DisplayOp) error {
	switch op.Kind {
	case OpClearRow:
		return m.display.ClearRow(op.Row)
	case OpWriteAt:
		if err := m.display.SetCursor(op.Col, op.Row); err != nil {
			return err
		}
		return m.display.Write(op.Text)
	default:
		return fmt.Errorf("unknown display op %d", op.Kind)
	}
}

func (m *Machine) commit(w MotorWrite) error {
	switch w.Attr {
	case AttrPower:
		return m.motors.SetPower(w.Motor, w.Power)
	case AttrSpeed:
		return m.motors.SetSpeed(w.Motor, w.Speed)
	case AttrSpin:
		return m.motors.SetSpin(w.Motor, w.Spin)
	default:
		return fmt.Errorf("unknown attribute %d", w.Attr)
	}
}
