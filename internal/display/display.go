// Package display drives the character display the menu is drawn on.
package display

import "fmt"

// Default geometry of the menu display.
const (
	Columns = 20
	Rows    = 4
)

// ConnectionMode selects how a backend talks to the panel.
type ConnectionMode int

const (
	ConnectionGPIO4Bit ConnectionMode = iota
	ConnectionGPIO8Bit
	ConnectionSerial
	ConnectionConsole
)

func (m ConnectionMode) String() string {
	switch m {
	case ConnectionGPIO4Bit:
		return "gpio-4bit"
	case ConnectionGPIO8Bit:
		return "gpio-8bit"
	case ConnectionSerial:
		return "serial"
	case ConnectionConsole:
		return "console"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Display is a synchronous character display. Writes are visible as soon
// as the call returns.
type Display interface {
	Init(mode ConnectionMode) error
	ClearRow(row int) error
	SetCursor(col, row int) error
	Write(text string) error
}

// Flusher is implemented by displays that batch output. The task flushes
// once after every menu step.
type Flusher interface {
	Flush() error
}

// Nop discards everything. Used when no display is configured.
type Nop struct{}

func (Nop) Init(ConnectionMode) error { return nil }
func (Nop) ClearRow(int) error        { return nil }
func (Nop) SetCursor(int, int) error  { return nil }
func (Nop) Write(string) error        { return nil }
