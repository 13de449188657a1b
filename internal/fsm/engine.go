package fsm

import (
	"context"
	"fmt"

	"github.com/librescoot/librefsm"

	"motor-menu/internal/types"
)

// engine runs the menu definition on a librefsm machine. A step sends the
// refresh event followed by the pending event, if any, each with SendSync,
// then hands back what the actions collected.
type engine struct {
	fsm  *librefsm.Machine
	data *FSMData
}

func newEngine() (*engine, error) {
	data := &FSMData{Session: NewSession(), Consumed: EvIdle}
	machine, err := NewDefinition(menuActions{}).Build(
		librefsm.WithData(data),
		librefsm.WithEventQueueSize(2),
	)
	if err != nil {
		return nil, err
	}
	return &engine{fsm: machine, data: data}, nil
}

func (e *engine) start(ctx context.Context) error {
	return e.fsm.Start(ctx)
}

func (e *engine) stop() {
	e.fsm.Stop()
}

// restore forces the machine into s.State. An unknown state stays in the
// session so the next step reports a reset.
func (e *engine) restore(s Session) {
	e.data.Session = s
	if err := e.fsm.SetState(s.State); err != nil {
		return
	}
	e.data.Session.State = e.fsm.CurrentState()
}

// step consumes the pending event, if any. HasEvent is clear afterwards
// whether or not a transition matched.
func (e *engine) step(motors []types.MotorConfig) (Result, error) {
	d := e.data

	if d.Session.State != e.fsm.CurrentState() {
		*d = FSMData{Session: NewSession(), Consumed: EvIdle}
		if err := e.fsm.SetState(StateMain); err != nil {
			return Result{}, fmt.Errorf("reset to %s: %w", StateMain, err)
		}
		return Result{Session: d.Session, Consumed: EvIdle, Reset: true}, nil
	}

	d.Motors = motors
	d.Consumed = EvIdle

	err := e.fsm.SendSync(librefsm.Event{ID: evRefresh})
	if err == nil && d.Session.HasEvent {
		d.Session.HasEvent = false
		err = e.fsm.SendSync(librefsm.Event{ID: d.Session.Event})
	}
	d.Session.HasEvent = false
	d.Session.State = e.fsm.CurrentState()

	res := Result{
		Session:  d.Session,
		Display:  d.Display,
		Writes:   d.Writes,
		Consumed: d.Consumed,
	}
	d.Display, d.Writes, d.Motors = nil, nil, nil
	return res, err
}
