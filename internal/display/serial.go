//go:build !tinygo

package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tarm/serial"
)

// Command bytes of the Matrix Orbital compatible serial LCD backpack.
const (
	lcdCommand     = 0xFE
	lcdClearScreen = 0x58
	lcdSetCursor   = 0x47 // followed by 1-based column, row
	lcdCursorOff   = 0x4B
	lcdBlinkOff    = 0x54
)

type SerialConfig struct {
	Device  string
	Baud    int
	Columns int
	Rows    int
}

// SerialLCD drives a character LCD behind a serial backpack.
type SerialLCD struct {
	port io.WriteCloser
	cols int
	rows int
}

// OpenSerialLCD opens the serial port described by cfg.
func OpenSerialLCD(cfg SerialConfig) (*SerialLCD, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}
	return NewSerialLCD(port, cfg.Columns, cfg.Rows), nil
}

// NewSerialLCD wraps an already open port.
func NewSerialLCD(port io.WriteCloser, cols, rows int) *SerialLCD {
	if cols <= 0 {
		cols = Columns
	}
	if rows <= 0 {
		rows = Rows
	}
	return &SerialLCD{port: port, cols: cols, rows: rows}
}

func (s *SerialLCD) Init(mode ConnectionMode) error {
	if mode != ConnectionSerial {
		return fmt.Errorf("serial LCD cannot use %s connection", mode)
	}
	return s.send(
		lcdCommand, lcdCursorOff,
		lcdCommand, lcdBlinkOff,
		lcdCommand, lcdClearScreen,
	)
}

func (s *SerialLCD) ClearRow(row int) error {
	if row < 0 || row >= s.rows {
		return fmt.Errorf("row %d out of range", row)
	}
	if err := s.SetCursor(0, row); err != nil {
		return err
	}
	return s.Write(strings.Repeat(" ", s.cols))
}

func (s *SerialLCD) SetCursor(col, row int) error {
	if col < 0 || col >= s.cols || row < 0 || row >= s.rows {
		return fmt.Errorf("cursor (%d,%d) out of range", col, row)
	}
	return s.send(lcdCommand, lcdSetCursor, byte(col+1), byte(row+1))
}

func (s *SerialLCD) Write(text string) error {
	if _, err := io.WriteString(s.port, text); err != nil {
		return fmt.Errorf("failed writing to LCD: %w", err)
	}
	return nil
}

func (s *SerialLCD) Close() error {
	return s.port.Close()
}

func (s *SerialLCD) send(b ...byte) error {
	if _, err := s.port.Write(b); err != nil {
		return fmt.Errorf("failed sending LCD command: %w", err)
	}
	return nil
}
