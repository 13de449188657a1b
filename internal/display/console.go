package display

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Console renders the frame to a terminal. Output is produced on Flush and
// only when something changed since the last flush.
type Console struct {
	mu    sync.Mutex
	frame *Frame
	out   io.Writer
	dirty bool
	ansi  bool
}

// NewConsole returns a console display. With ansi set every flush redraws
// in place instead of appending a new block.
func NewConsole(out io.Writer, cols, rows int, ansi bool) *Console {
	return &Console{frame: NewFrame(cols, rows), out: out, ansi: ansi}
}

func (c *Console) Init(mode ConnectionMode) error {
	if mode != ConnectionConsole {
		return fmt.Errorf("console display cannot use %s connection", mode)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty = true
	return c.frame.Init(mode)
}

func (c *Console) ClearRow(row int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty = true
	return c.frame.ClearRow(row)
}

func (c *Console) SetCursor(col, row int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame.SetCursor(col, row)
}

func (c *Console) Write(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty = true
	return c.frame.Write(text)
}

func (c *Console) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty || c.out == nil {
		return nil
	}
	c.dirty = false
	_, err := io.WriteString(c.out, c.render())
	return err
}

// Snapshot returns the boxed frame as text. Safe to call from any goroutine.
func (c *Console) Snapshot() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.render()
}

func (c *Console) render() string {
	cols, rows := c.frame.Size()
	var b strings.Builder
	if c.ansi {
		b.WriteString("\x1b[H\x1b[2J")
	}
	edge := "+" + strings.Repeat("-", cols) + "+\n"
	b.WriteString(edge)
	for r := 0; r < rows; r++ {
		b.WriteString("|" + c.frame.Row(r) + "|\n")
	}
	b.WriteString(edge)
	return b.String()
}
