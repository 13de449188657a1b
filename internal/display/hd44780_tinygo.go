//go:build tinygo

package display

import (
	"fmt"
	"machine"
	"strings"

	"tinygo.org/x/drivers/hd44780"
)

// HD44780 drives the panel directly from GPIO pins on the target board.
type HD44780 struct {
	dev  hd44780.Device
	data []machine.Pin
	en   machine.Pin
	rs   machine.Pin
	cols int
	rows int
}

// NewHD44780 takes D4-D7 (4-bit) or D0-D7 (8-bit) data pins. RW is tied low.
func NewHD44780(data []machine.Pin, en, rs machine.Pin) *HD44780 {
	return &HD44780{data: data, en: en, rs: rs, cols: Columns, rows: Rows}
}

func (h *HD44780) Init(mode ConnectionMode) error {
	var err error
	switch mode {
	case ConnectionGPIO4Bit:
		h.dev, err = hd44780.NewGPIO4Bit(h.data, h.en, h.rs, machine.NoPin)
	case ConnectionGPIO8Bit:
		h.dev, err = hd44780.NewGPIO8Bit(h.data, h.en, h.rs, machine.NoPin)
	default:
		return fmt.Errorf("hd44780 cannot use %s connection", mode)
	}
	if err != nil {
		return err
	}
	return h.dev.Configure(hd44780.Config{
		Width:  int16(h.cols),
		Height: int16(h.rows),
	})
}

func (h *HD44780) ClearRow(row int) error {
	if err := h.SetCursor(0, row); err != nil {
		return err
	}
	return h.Write(strings.Repeat(" ", h.cols))
}

func (h *HD44780) SetCursor(col, row int) error {
	if col < 0 || col >= h.cols || row < 0 || row >= h.rows {
		return fmt.Errorf("cursor (%d,%d) out of range", col, row)
	}
	h.dev.SetCursor(uint8(col), uint8(row))
	return nil
}

func (h *HD44780) Write(text string) error {
	if _, err := h.dev.Write([]byte(text)); err != nil {
		return err
	}
	return h.dev.Display()
}
