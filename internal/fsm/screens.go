package fsm

import (
	"fmt"
	"strconv"

	"motor-menu/internal/types"
)

// Screen geometry of the 20x4 character display.
const (
	headerRow = 0
	menuRow   = 2
	digitRow2 = 3

	cursorGlyph = ">"
	blankGlyph  = " "

	header = "--Enter/Next/Escape-"
)

// SummaryLine renders one motor for the main screen, e.g. "Motor:1, OFF, 3, L".
func SummaryLine(m types.MotorConfig) string {
	return fmt.Sprintf("Motor:%d, %s, %d, %s", m.ID+1, m.PowerLabel(), m.Speed, m.Spin.Letter())
}

// summaryRow places motor i on rows 0 and 2.
func summaryRow(i int) int {
	return 2 * i
}

func drawSummary(motors []types.MotorConfig) []DisplayOp {
	ops := make([]DisplayOp, 0, len(motors))
	for i, m := range motors {
		ops = append(ops, writeAt(0, summaryRow(i), SummaryLine(m)))
	}
	return ops
}

func drawTopMenu() []DisplayOp {
	return []DisplayOp{
		writeAt(0, menuRow, cursorGlyph),
		writeAt(0, headerRow, header),
		writeAt(1, menuRow, "Motor 1"),
		writeAt(11, menuRow, "Motor 2"),
	}
}

func drawAttributeMenu() []DisplayOp {
	return []DisplayOp{
		writeAt(0, menuRow, cursorGlyph),
		writeAt(1, menuRow, "Power"),
		writeAt(8, menuRow, "Speed"),
		writeAt(15, menuRow, "Spin"),
	}
}

func drawPowerPicker() []DisplayOp {
	return []DisplayOp{
		writeAt(1, menuRow, "ON"),
		writeAt(11, menuRow, "OFF"),
	}
}

func drawSpinPicker() []DisplayOp {
	return []DisplayOp{
		writeAt(1, menuRow, "LEFT"),
		writeAt(11, menuRow, "RIGHT"),
	}
}

// drawSpeedPicker lays digits 0-4 on the menu row and 5-9 on the row below.
func drawSpeedPicker() []DisplayOp {
	ops := make([]DisplayOp, 0, speedPickWidth)
	for i := 0; i < speedPickWidth; i++ {
		col, row := speedCell(i)
		ops = append(ops, writeAt(col+1, row, strconv.Itoa(i)))
	}
	return ops
}

// speedCell is the cursor glyph position for digit i; the digit itself
// sits one column to the right.
func speedCell(i int) (col, row int) {
	return (i % 5) * 3, menuRow + i/5
}

// cursorCell maps a cursor index to its glyph position for the given state.
func cursorCell(state State, cursor int) (col, row int) {
	switch state {
	case StateAttributeMenu:
		return cursor * 7, menuRow
	case StateSpeedPick:
		return speedCell(cursor)
	default:
		return cursor * 10, menuRow
	}
}
