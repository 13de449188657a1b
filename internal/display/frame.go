package display

import (
	"fmt"
	"strings"
)

// Frame is an in-memory character grid that behaves like the panel: text
// is written from the cursor and clipped at the end of the row.
type Frame struct {
	cols  int
	rows  int
	cells [][]rune
	col   int
	row   int
}

func NewFrame(cols, rows int) *Frame {
	f := &Frame{cols: cols, rows: rows, cells: make([][]rune, rows)}
	for r := range f.cells {
		f.cells[r] = []rune(strings.Repeat(" ", cols))
	}
	return f
}

func (f *Frame) Init(ConnectionMode) error {
	for r := range f.cells {
		f.blank(r)
	}
	f.col, f.row = 0, 0
	return nil
}

func (f *Frame) ClearRow(row int) error {
	if row < 0 || row >= f.rows {
		return fmt.Errorf("row %d out of range", row)
	}
	f.blank(row)
	return nil
}

func (f *Frame) SetCursor(col, row int) error {
	if col < 0 || col >= f.cols || row < 0 || row >= f.rows {
		return fmt.Errorf("cursor (%d,%d) out of range", col, row)
	}
	f.col, f.row = col, row
	return nil
}

func (f *Frame) Write(text string) error {
	for _, r := range text {
		if f.col >= f.cols {
			break
		}
		f.cells[f.row][f.col] = r
		f.col++
	}
	return nil
}

// Row returns the content of one row, trailing blanks included.
func (f *Frame) Row(row int) string {
	if row < 0 || row >= f.rows {
		return ""
	}
	return string(f.cells[row])
}

func (f *Frame) Size() (cols, rows int) {
	return f.cols, f.rows
}

func (f *Frame) String() string {
	lines := make([]string, f.rows)
	for r := range f.cells {
		lines[r] = string(f.cells[r])
	}
	return strings.Join(lines, "\n")
}

func (f *Frame) blank(row int) {
	for c := range f.cells[row] {
		f.cells[row][c] = ' '
	}
}
