package fsm

import (
	"github.com/librescoot/librefsm"

	"motor-menu/internal/types"
)

// menuActions implements Actions on the FSMData carried in the context.
type menuActions struct{}

var _ Actions = menuActions{}

func stepData(c *librefsm.Context) *FSMData {
	return c.Data.(*FSMData)
}

// consume records the event the running transition acted on.
func consume(c *librefsm.Context) *FSMData {
	d := stepData(c)
	if c.Event != nil {
		d.Consumed = c.Event.ID
	}
	return d
}

// === Transition actions ===

func (menuActions) RepaintSummary(c *librefsm.Context) error {
	d := stepData(c)
	d.draw(drawSummary(d.Motors)...)
	return nil
}

func (menuActions) OpenTopMenu(c *librefsm.Context) error {
	d := consume(c)
	d.Session.Cursor = 0
	d.draw(clearRow(headerRow), clearRow(menuRow))
	d.draw(drawTopMenu()...)
	return nil
}

func (menuActions) CloseTopMenu(c *librefsm.Context) error {
	d := consume(c)
	d.Session.Cursor = 0
	d.draw(clearRow(headerRow), clearRow(menuRow))
	return nil
}

func (menuActions) SelectMotor(c *librefsm.Context) error {
	d := consume(c)
	d.Session.TopSelection = d.Session.Cursor
	d.Session.Cursor = 0
	d.draw(clearRow(menuRow))
	d.draw(drawAttributeMenu()...)
	return nil
}

func (menuActions) BackToTopMenu(c *librefsm.Context) error {
	d := consume(c)
	d.Session.TopSelection = 0
	d.Session.Cursor = 0
	d.draw(clearRow(menuRow))
	d.draw(drawTopMenu()...)
	return nil
}

func (menuActions) SelectAttribute(c *librefsm.Context) error {
	d := consume(c)
	d.Session.SubSelection = Attribute(d.Session.Cursor)
	d.Session.Cursor = 0
	d.draw(clearRow(menuRow), writeAt(0, menuRow, cursorGlyph))
	return nil
}

// MoveCursor erases the glyph at the current index, advances modulo the
// width of the level and draws it at the new index.
func (menuActions) MoveCursor(c *librefsm.Context) error {
	d := consume(c)
	state := c.FromState

	col, row := cursorCell(state, d.Session.Cursor)
	d.draw(writeAt(col, row, blankGlyph))
	d.Session.Cursor = (d.Session.Cursor + 1) % menuWidth(state)
	col, row = cursorCell(state, d.Session.Cursor)
	d.draw(writeAt(col, row, cursorGlyph))
	return nil
}

func (menuActions) LeavePicker(c *librefsm.Context) error {
	d := consume(c)
	d.Session.Cursor = 0
	d.Session.SubSelection = AttrPower

	d.draw(clearRow(menuRow))
	if c.FromState == StateSpeedPick {
		d.draw(clearRow(digitRow2))
	}
	d.draw(drawAttributeMenu()...)
	return nil
}

func (a menuActions) CommitPick(c *librefsm.Context) error {
	d := consume(c)
	// The cursor is read before LeavePicker resets it.
	d.Writes = append(d.Writes, commit(c.FromState, d.Session.TopSelection, d.Session.Cursor))
	return a.LeavePicker(c)
}

// === State entry actions ===

func (menuActions) EnterPicker(c *librefsm.Context) error {
	if c.FromState != StateAttributePick {
		return nil
	}
	d := stepData(c)
	switch c.ToState {
	case StatePowerPick:
		d.draw(drawPowerPicker()...)
	case StateSpeedPick:
		d.draw(drawSpeedPicker()...)
	case StateSpinPick:
		d.draw(drawSpinPicker()...)
	}
	return nil
}

// === Guards ===

func (menuActions) IsMotorPresent(c *librefsm.Context) bool {
	d := stepData(c)
	return d.Session.Cursor < len(d.Motors)
}

// === Conditions ===

func (menuActions) PickAttribute(c *librefsm.Context) librefsm.StateID {
	switch stepData(c).Session.SubSelection {
	case AttrPower:
		return StatePowerPick
	case AttrSpeed:
		return StateSpeedPick
	case AttrSpin:
		return StateSpinPick
	default:
		return ""
	}
}

func commit(state State, motor, cursor int) MotorWrite {
	w := MotorWrite{Motor: motor}
	switch state {
	case StatePowerPick:
		w.Attr = AttrPower
		w.Power = cursor == 0
	case StateSpeedPick:
		w.Attr = AttrSpeed
		w.Speed = cursor
	case StateSpinPick:
		w.Attr = AttrSpin
		w.Spin = types.Spin(cursor != 0)
	}
	return w
}

func menuWidth(state State) int {
	switch state {
	case StateTopMenu:
		return topMenuWidth
	case StateAttributeMenu:
		return attributeMenuWidth
	case StateSpeedPick:
		return speedPickWidth
	case StatePowerPick:
		return powerPickWidth
	default:
		return spinPickWidth
	}
}
