package fsm

import (
	"fmt"

	"github.com/librescoot/librefsm"

	"motor-menu/internal/types"
)

// Actions defines the callbacks the menu definition is built from. Every
// transition action appends what it draws and commits to the FSMData of the
// running step.
type Actions interface {
	// Transition actions
	RepaintSummary(c *librefsm.Context) error
	OpenTopMenu(c *librefsm.Context) error
	CloseTopMenu(c *librefsm.Context) error
	SelectMotor(c *librefsm.Context) error
	BackToTopMenu(c *librefsm.Context) error
	SelectAttribute(c *librefsm.Context) error
	MoveCursor(c *librefsm.Context) error
	LeavePicker(c *librefsm.Context) error
	CommitPick(c *librefsm.Context) error

	// State entry actions
	EnterPicker(c *librefsm.Context) error

	// Guards
	IsMotorPresent(c *librefsm.Context) bool // Cursor names a motor in the step's snapshot

	// Conditions
	PickAttribute(c *librefsm.Context) librefsm.StateID
}

// FSMData holds data passed through the FSM context.
// Stored in librefsm.Context.Data for access in callbacks.
type FSMData struct {
	Session Session

	// Motors is the store snapshot the current step draws from.
	Motors []types.MotorConfig

	// Side effects collected since the last step returned
	Display  []DisplayOp
	Writes   []MotorWrite
	Consumed Event
}

func (d *FSMData) draw(ops ...DisplayOp) {
	d.Display = append(d.Display, ops...)
}

type OpKind int

const (
	// OpClearRow blanks a whole display row.
	OpClearRow OpKind = iota
	// OpWriteAt moves the display cursor to (Col, Row) and writes Text.
	OpWriteAt
)

// DisplayOp is one display side effect of a step.
type DisplayOp struct {
	Kind OpKind
	Col  int
	Row  int
	Text string
}

func clearRow(row int) DisplayOp {
	return DisplayOp{Kind: OpClearRow, Row: row}
}

func writeAt(col, row int, text string) DisplayOp {
	return DisplayOp{Kind: OpWriteAt, Col: col, Row: row, Text: text}
}

func (op DisplayOp) String() string {
	if op.Kind == OpClearRow {
		return fmt.Sprintf("clear(%d)", op.Row)
	}
	return fmt.Sprintf("write(%d,%d,%q)", op.Col, op.Row, op.Text)
}

// MotorWrite is a store mutation committed by a picker.
type MotorWrite struct {
	Motor int
	Attr  Attribute

	Power bool
	Speed int
	Spin  types.Spin
}

func (w MotorWrite) String() string {
	switch w.Attr {
	case AttrPower:
		return fmt.Sprintf("motor[%d].power=%v", w.Motor, w.Power)
	case AttrSpeed:
		return fmt.Sprintf("motor[%d].speed=%d", w.Motor, w.Speed)
	default:
		return fmt.Sprintf("motor[%d].spin=%s", w.Motor, w.Spin)
	}
}

// Result is everything one step produced.
type Result struct {
	Session Session
	Display []DisplayOp
	Writes  []MotorWrite

	// Consumed is the event a transition acted on, EvIdle if none.
	Consumed Event

	// Reset reports that an unmodeled state forced the session back to its
	// initial value; the caller must also clear its countdown.
	Reset bool
}
