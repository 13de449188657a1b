package hardware

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"motor-menu/internal/events"
	"motor-menu/internal/fsm"
	"motor-menu/internal/logger"
)

// struct input_event starts with a struct timeval of two native longs.
const (
	timevalSize    = 2 * strconv.IntSize / 8
	inputEventSize = timevalSize + 8
)

type InputEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

func decodeInputEvent(buf []byte) InputEvent {
	b := buf[timevalSize:]
	return InputEvent{
		Type:  binary.NativeEndian.Uint16(b[0:2]),
		Code:  binary.NativeEndian.Uint16(b[2:4]),
		Value: int32(binary.NativeEndian.Uint32(b[4:8])),
	}
}

// mapKeycode returns the navigation event for a key, EvIdle if unmapped.
func mapKeycode(code uint16) fsm.Event {
	switch code {
	case KEY_M, KEY_MENU:
		return fsm.EvMenuActivate
	case KEY_ESC, KEY_BACK:
		return fsm.EvEscape
	case KEY_N, KEY_DOWN, KEY_RIGHT:
		return fsm.EvNext
	case KEY_ENTER:
		return fsm.EvEnter
	default:
		return fsm.EvIdle
	}
}

// Keypad turns key presses from a gpio-keys input device into navigation
// events. Releases and autorepeat are ignored.
type Keypad struct {
	r      io.ReadCloser
	sink   events.Sink
	logger *logger.Logger
}

func OpenKeypad(path string, sink events.Sink, l *logger.Logger) (*Keypad, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open input device %s: %w", path, err)
	}
	return NewKeypad(f, sink, l), nil
}

func NewKeypad(r io.ReadCloser, sink events.Sink, l *logger.Logger) *Keypad {
	return &Keypad{r: r, sink: sink, logger: l.WithTag("keypad")}
}

// Run reads until ctx is cancelled or the device fails.
func (k *Keypad) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		k.r.Close()
	})
	defer stop()

	buf := make([]byte, inputEventSize)
	for {
		if _, err := io.ReadFull(k.r, buf); err != nil {
			if ctx.Err() != nil || errors.Is(err, os.ErrClosed) {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed reading input: %w", err)
		}
		k.handle(decodeInputEvent(buf))
	}
}

func (k *Keypad) handle(ev InputEvent) {
	if ev.Type != EV_KEY || ev.Value != 1 {
		return
	}
	nav := mapKeycode(ev.Code)
	if nav == fsm.EvIdle {
		k.logger.Debugf("Unknown key code: %d", ev.Code)
		return
	}
	if err := k.sink.Push(nav); err != nil {
		k.logger.Warnf("Dropped %s: %v", nav, err)
		return
	}
	k.logger.Debugf("Key %d => %s", ev.Code, nav)
}
