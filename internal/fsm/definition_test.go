package fsm

import (
	"context"
	"reflect"
	"testing"

	"github.com/librescoot/librefsm"

	"motor-menu/internal/types"
)

func testMotors() []types.MotorConfig {
	return []types.MotorConfig{{ID: 0}, {ID: 1}}
}

func startEngine(t *testing.T) *engine {
	t.Helper()
	e, err := newEngine()
	if err != nil {
		t.Fatalf("Failed to build engine: %v", err)
	}
	if err := e.start(context.Background()); err != nil {
		t.Fatalf("Failed to start engine: %v", err)
	}
	t.Cleanup(e.stop)
	return e
}

// step restores s on a fresh engine and runs one step.
func step(t *testing.T, s Session, motors []types.MotorConfig) Result {
	t.Helper()
	e := startEngine(t)
	e.restore(s)
	res, err := e.step(motors)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	return res
}

// deliver runs one step with ev pending.
func deliver(t *testing.T, s Session, motors []types.MotorConfig, ev Event) Result {
	t.Helper()
	s.Deliver(ev)
	return step(t, s, motors)
}

// walk runs one step per event and applies writes to motors.
func walk(t *testing.T, s Session, motors []types.MotorConfig, evs ...Event) Session {
	t.Helper()
	for _, ev := range evs {
		res := deliver(t, s, motors, ev)
		for _, w := range res.Writes {
			applyWrite(motors, w)
		}
		s = res.Session
	}
	return s
}

func applyWrite(motors []types.MotorConfig, w MotorWrite) {
	switch w.Attr {
	case AttrPower:
		motors[w.Motor].Power = w.Power
	case AttrSpeed:
		motors[w.Motor].Speed = w.Speed
	case AttrSpin:
		motors[w.Motor].Spin = w.Spin
	}
}

func sessionIn(state State) Session {
	s := NewSession()
	s.State = state
	s.TopSelection = 1
	switch state {
	case StatePowerPick:
		s.SubSelection = AttrPower
	case StateSpeedPick:
		s.SubSelection = AttrSpeed
	case StateSpinPick:
		s.SubSelection = AttrSpin
	}
	return s
}

func TestNonMatchingEventsChangeNothing(t *testing.T) {
	matching := map[State][]Event{
		StateMain:          {EvMenuActivate},
		StateTopMenu:       {EvEscape, EvNext, EvEnter},
		StateAttributeMenu: {EvEscape, EvNext, EvEnter},
		StatePowerPick:     {EvEscape, EvNext, EvEnter},
		StateSpeedPick:     {EvEscape, EvNext, EvEnter},
		StateSpinPick:      {EvEscape, EvNext, EvEnter},
	}

	for state, match := range matching {
		for _, ev := range Events {
			if containsEvent(match, ev) {
				continue
			}
			before := sessionIn(state)
			res := deliver(t, before, testMotors(), ev)
			after := res.Session

			if after.State != before.State {
				t.Errorf("%s/%s: state changed to %s", state, ev, after.State)
			}
			if after.Cursor != before.Cursor || after.TopSelection != before.TopSelection || after.SubSelection != before.SubSelection {
				t.Errorf("%s/%s: selections changed: %+v -> %+v", state, ev, before, after)
			}
			if len(res.Writes) != 0 {
				t.Errorf("%s/%s: unexpected writes %v", state, ev, res.Writes)
			}
			if res.Consumed != EvIdle {
				t.Errorf("%s/%s: event reported as consumed", state, ev)
			}
		}
	}
}

func TestEventConsumedAtMostOnce(t *testing.T) {
	for _, state := range States {
		for _, ev := range Events {
			res := deliver(t, sessionIn(state), testMotors(), ev)
			if res.Session.HasEvent {
				t.Errorf("%s/%s: HasEvent still set after step", state, ev)
			}
		}
	}
}

func TestEscapeFromPickerLeavesMotorUnchanged(t *testing.T) {
	for attr := AttrPower; attr <= AttrSpin; attr++ {
		motors := []types.MotorConfig{{ID: 0}, {ID: 1, Power: true, Speed: 6, Spin: types.SpinRight}}
		before := motors[1]

		s := NewSession()
		s.State = StateAttributeMenu
		s.TopSelection = 1
		s.Cursor = int(attr)

		s = walk(t, s, motors, EvEnter, EvNext, EvEscape)

		if s.State != StateAttributeMenu {
			t.Errorf("%s: expected attribute menu, got %s", attr, s.State)
		}
		if !reflect.DeepEqual(motors[1], before) {
			t.Errorf("%s: motor changed: %+v -> %+v", attr, before, motors[1])
		}
	}
}

func TestTopMenuCursorWraps(t *testing.T) {
	s := sessionIn(StateTopMenu)
	s = walk(t, s, testMotors(), EvNext)
	if s.Cursor != 1 {
		t.Fatalf("Expected cursor 1, got %d", s.Cursor)
	}
	s = walk(t, s, testMotors(), EvNext)
	if s.Cursor != 0 {
		t.Errorf("Expected cursor back at 0, got %d", s.Cursor)
	}
}

func TestSpeedPickCursorWraps(t *testing.T) {
	s := sessionIn(StateSpeedPick)
	s.Cursor = 3
	for i := 0; i < 10; i++ {
		s = walk(t, s, testMotors(), EvNext)
	}
	if s.Cursor != 3 {
		t.Errorf("Expected cursor 3 after ten Next, got %d", s.Cursor)
	}
}

func TestSpeedPickCursorMovesToSecondRow(t *testing.T) {
	s := sessionIn(StateSpeedPick)
	s.Cursor = 4
	res := deliver(t, s, testMotors(), EvNext)

	want := []DisplayOp{writeAt(12, 2, " "), writeAt(0, 3, ">")}
	if !reflect.DeepEqual(res.Display, want) {
		t.Errorf("Expected %v, got %v", want, res.Display)
	}
	if res.Session.Cursor != 5 {
		t.Errorf("Expected cursor 5, got %d", res.Session.Cursor)
	}
}

func TestPowerPolarity(t *testing.T) {
	motors := testMotors()
	s := sessionIn(StatePowerPick)
	s.TopSelection = 0

	s = walk(t, s, motors, EvEnter)
	if !motors[0].Power {
		t.Error("Cursor 0 must switch power on")
	}

	s = walk(t, s, motors, EvEnter, EvNext, EvEnter)
	if s.State != StateAttributeMenu {
		t.Fatalf("Expected attribute menu, got %s", s.State)
	}
	if motors[0].Power {
		t.Error("Cursor 1 must switch power off")
	}
}

func TestEnterCommitsCursorBeforeReset(t *testing.T) {
	s := sessionIn(StateSpeedPick)
	s.Cursor = 7
	res := deliver(t, s, testMotors(), EvEnter)

	if len(res.Writes) != 1 {
		t.Fatalf("Expected one write, got %v", res.Writes)
	}
	w := res.Writes[0]
	if w.Motor != 1 || w.Attr != AttrSpeed || w.Speed != 7 {
		t.Errorf("Unexpected write %s", w)
	}
	if res.Session.Cursor != 0 || res.Session.SubSelection != AttrPower {
		t.Errorf("Cursor and attribute not reset: %+v", res.Session)
	}
}

func TestLeavingSpeedPickClearsBothRows(t *testing.T) {
	for _, ev := range []Event{EvEnter, EvEscape} {
		res := deliver(t, sessionIn(StateSpeedPick), testMotors(), ev)
		if !containsOp(res.Display, clearRow(2)) || !containsOp(res.Display, clearRow(3)) {
			t.Errorf("%s: expected rows 2 and 3 cleared, got %v", ev, res.Display)
		}
	}
}

func TestAttributeMenuEnterDispatchesInSameStep(t *testing.T) {
	cases := []struct {
		attr  Attribute
		state State
		label string
	}{
		{AttrPower, StatePowerPick, "ON"},
		{AttrSpeed, StateSpeedPick, "9"},
		{AttrSpin, StateSpinPick, "RIGHT"},
	}
	for _, tc := range cases {
		s := sessionIn(StateAttributeMenu)
		s.Cursor = int(tc.attr)
		res := deliver(t, s, testMotors(), EvEnter)

		if res.Session.State != tc.state {
			t.Errorf("%s: expected %s, got %s", tc.attr, tc.state, res.Session.State)
		}
		if res.Session.SubSelection != tc.attr {
			t.Errorf("%s: expected sub selection recorded", tc.attr)
		}
		if !containsText(res.Display, tc.label) {
			t.Errorf("%s: picker labels not drawn: %v", tc.attr, res.Display)
		}
	}
}

func TestAttributePickWithUnknownAttributeStays(t *testing.T) {
	s := NewSession()
	s.State = StateAttributePick
	s.SubSelection = Attribute(7)

	res := step(t, s, testMotors())
	if res.Session.State != StateAttributePick {
		t.Errorf("Expected to stay in attribute pick, got %s", res.Session.State)
	}
	if len(res.Display) != 0 {
		t.Errorf("Expected no drawing, got %v", res.Display)
	}
}

func TestAttributePickEntryStateHandsEventToPicker(t *testing.T) {
	s := NewSession()
	s.State = StateAttributePick
	s.SubSelection = AttrSpin

	res := deliver(t, s, testMotors(), EvNext)
	if res.Session.State != StateSpinPick || res.Session.Cursor != 1 {
		t.Errorf("Expected spin pick with cursor 1, got %+v", res.Session)
	}
}

func TestUnmodeledStateResets(t *testing.T) {
	s := NewSession()
	s.State = State("bogus")
	s.Cursor = 1
	s.TopSelection = 1
	s.Deliver(EvEnter)

	res := step(t, s, testMotors())
	if !res.Reset {
		t.Fatal("Expected reset")
	}
	if res.Session != NewSession() {
		t.Errorf("Expected initial session, got %+v", res.Session)
	}
}

func TestSummaryLine(t *testing.T) {
	cases := []struct {
		m    types.MotorConfig
		want string
	}{
		{types.MotorConfig{ID: 0, Speed: 3}, "Motor:1, OFF, 3, L"},
		{types.MotorConfig{ID: 1, Power: true, Speed: 9, Spin: types.SpinRight}, "Motor:2,  ON, 9, R"},
	}
	for _, tc := range cases {
		if got := SummaryLine(tc.m); got != tc.want {
			t.Errorf("SummaryLine(%+v) = %q, want %q", tc.m, got, tc.want)
		}
	}
}

func TestDefinitionIsValid(t *testing.T) {
	if err := NewDefinition(menuActions{}).Validate(); err != nil {
		t.Fatalf("Invalid definition: %v", err)
	}
}

func TestAttributeMenuEnterIsOneSynchronousSend(t *testing.T) {
	e := startEngine(t)
	s := sessionIn(StateAttributeMenu)
	s.Cursor = int(AttrSpin)
	e.restore(s)

	if err := e.fsm.SendSync(librefsm.Event{ID: EvEnter}); err != nil {
		t.Fatalf("SendSync failed: %v", err)
	}
	if got := e.fsm.CurrentState(); got != StateSpinPick {
		t.Fatalf("Expected %s after one send, got %s", StateSpinPick, got)
	}
	if e.data.Consumed != EvEnter {
		t.Errorf("Expected enter consumed, got %s", e.data.Consumed)
	}
	if !containsText(e.data.Display, "LEFT") || !containsText(e.data.Display, "RIGHT") {
		t.Errorf("Spin labels not drawn: %v", e.data.Display)
	}
}

func TestTopMenuEnterNeedsAMotor(t *testing.T) {
	s := sessionIn(StateTopMenu)
	s.TopSelection = 0
	s.Cursor = 1

	res := deliver(t, s, testMotors()[:1], EvEnter)
	if res.Session.State != StateTopMenu {
		t.Errorf("Expected to stay in top menu, got %s", res.Session.State)
	}
	if res.Consumed != EvIdle {
		t.Errorf("Expected enter rejected, got %s consumed", res.Consumed)
	}
}

func TestRefreshRepaintsOnlyMain(t *testing.T) {
	res := step(t, NewSession(), testMotors())
	want := drawSummary(testMotors())
	if !reflect.DeepEqual(res.Display, want) {
		t.Errorf("Expected summary %v, got %v", want, res.Display)
	}
	if res.Consumed != EvIdle {
		t.Errorf("Refresh must not count as consumed, got %s", res.Consumed)
	}

	for _, state := range []State{StateTopMenu, StateAttributeMenu, StatePowerPick, StateSpeedPick, StateSpinPick} {
		if res := step(t, sessionIn(state), testMotors()); len(res.Display) != 0 {
			t.Errorf("%s: expected no drawing without an event, got %v", state, res.Display)
		}
	}
}

func TestEngineRecoversAfterReset(t *testing.T) {
	e := startEngine(t)
	s := sessionIn(StateSpeedPick)
	e.restore(s)
	e.restore(Session{State: State("bogus")})

	res, err := e.step(testMotors())
	if err != nil || !res.Reset {
		t.Fatalf("Expected reset, got %+v (%v)", res, err)
	}
	if got := e.fsm.CurrentState(); got != StateMain {
		t.Fatalf("Expected machine back in %s, got %s", StateMain, got)
	}

	e.data.Session.Deliver(EvMenuActivate)
	res, err = e.step(testMotors())
	if err != nil {
		t.Fatal(err)
	}
	if res.Session.State != StateTopMenu || res.Consumed != EvMenuActivate {
		t.Errorf("Expected menu to open after reset, got %+v", res.Session)
	}
}

func containsEvent(evs []Event, ev Event) bool {
	for _, e := range evs {
		if e == ev {
			return true
		}
	}
	return false
}

func containsOp(ops []DisplayOp, op DisplayOp) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}

func containsText(ops []DisplayOp, text string) bool {
	for _, o := range ops {
		if o.Kind == OpWriteAt && o.Text == text {
			return true
		}
	}
	return false
}
