package hardware

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"motor-menu/internal/logger"
)

// Heartbeat is the status output toggled once per menu step.
type Heartbeat interface {
	Set(on bool) error
	Toggle() error
	Close() error
}

// GPIOHeartbeat drives the status LED from a GPIO character device line.
type GPIOHeartbeat struct {
	line   *gpiocdev.Line
	on     bool
	logger *logger.Logger
}

func NewGPIOHeartbeat(chip string, offset int, l *logger.Logger) (*GPIOHeartbeat, error) {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer(Consumer))
	if err != nil {
		return nil, fmt.Errorf("failed to request GPIO line %s:%d: %w", chip, offset, err)
	}
	l = l.WithTag("heartbeat")
	l.Infof("Configured heartbeat on %s line %d", chip, offset)
	return &GPIOHeartbeat{line: line, logger: l}, nil
}

func (h *GPIOHeartbeat) Set(on bool) error {
	val := 0
	if on {
		val = 1
	}
	if err := h.line.SetValue(val); err != nil {
		return fmt.Errorf("failed to set heartbeat=%v: %w", on, err)
	}
	h.on = on
	return nil
}

func (h *GPIOHeartbeat) Toggle() error {
	return h.Set(!h.on)
}

func (h *GPIOHeartbeat) Close() error {
	return h.line.Close()
}

// NopHeartbeat only remembers its level.
type NopHeartbeat struct {
	On      bool
	Toggles int
}

func (h *NopHeartbeat) Set(on bool) error {
	h.On = on
	return nil
}

func (h *NopHeartbeat) Toggle() error {
	h.Toggles++
	h.On = !h.On
	return nil
}

func (h *NopHeartbeat) Close() error {
	return nil
}
