package core

import (
	"motor-menu/internal/fsm"
)

// publish forwards the effects of one step to the telemetry sink: every
// motor written, and the menu state when it changed.
func (t *MenuTask) publish(before fsm.State, res fsm.Result) {
	if t.telemetry == nil {
		return
	}

	for _, w := range res.Writes {
		m, err := t.motors.Get(w.Motor)
		if err != nil {
			t.logger.Warnf("Not publishing %s: %v", w, err)
			continue
		}
		t.telemetry.NotifyMotor(m)
	}

	if res.Session.State != before {
		t.telemetry.NotifyMenuState(res.Session.State)
	}
}

// PublishAll sends the full motor table and the current menu state, used
// once after connecting.
func (t *MenuTask) PublishAll() {
	if t.telemetry == nil {
		return
	}
	for _, m := range t.motors.All() {
		t.telemetry.NotifyMotor(m)
	}
	t.telemetry.NotifyMenuState(t.Session().State)
}
