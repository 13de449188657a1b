package hardware

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"motor-menu/internal/events"
	"motor-menu/internal/fsm"
	"motor-menu/internal/logger"
)

// ButtonLines maps each navigation button to its line offset on one chip.
type ButtonLines struct {
	Menu   int
	Escape int
	Next   int
	Enter  int
}

func (b ButtonLines) events() map[int]fsm.Event {
	return map[int]fsm.Event{
		b.Menu:   fsm.EvMenuActivate,
		b.Escape: fsm.EvEscape,
		b.Next:   fsm.EvNext,
		b.Enter:  fsm.EvEnter,
	}
}

// Buttons watches active-low push buttons. Debouncing is done by the kernel.
type Buttons struct {
	lines  *gpiocdev.Lines
	byLine map[int]fsm.Event
	sink   events.Sink
	logger *logger.Logger
}

func NewButtons(chip string, lines ButtonLines, debounce time.Duration, sink events.Sink, l *logger.Logger) (*Buttons, error) {
	b := &Buttons{
		byLine: lines.events(),
		sink:   sink,
		logger: l.WithTag("buttons"),
	}
	if len(b.byLine) != 4 {
		return nil, fmt.Errorf("button lines must be distinct: %+v", lines)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	offsets := []int{lines.Menu, lines.Escape, lines.Next, lines.Enter}
	req, err := gpiocdev.RequestLines(chip, offsets,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.AsActiveLow,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithDebounce(debounce),
		gpiocdev.WithConsumer(Consumer),
		gpiocdev.WithEventHandler(b.handle))
	if err != nil {
		return nil, fmt.Errorf("failed to request button lines %v on %s: %w", offsets, chip, err)
	}
	b.lines = req
	b.logger.Infof("Watching buttons on %s lines %v", chip, offsets)
	return b, nil
}

// handle runs on the gpiocdev event goroutine.
func (b *Buttons) handle(evt gpiocdev.LineEvent) {
	if evt.Type != gpiocdev.LineEventRisingEdge {
		return
	}
	b.press(evt.Offset)
}

func (b *Buttons) press(offset int) {
	nav, ok := b.byLine[offset]
	if !ok {
		b.logger.Debugf("Event on unmapped line %d", offset)
		return
	}
	if err := b.sink.Push(nav); err != nil {
		b.logger.Warnf("Dropped %s: %v", nav, err)
	}
}

func (b *Buttons) Close() error {
	if b.lines == nil {
		return nil
	}
	return b.lines.Close()
}
