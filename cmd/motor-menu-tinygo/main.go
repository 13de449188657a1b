//go:build tinygo && (rp2040 || rp2350)

// Command motor-menu-tinygo runs the menu on a Pico with the panel wired to
// GPIO in 4-bit mode. SysTick feeds the tick counter at 1 kHz and the main
// loop calls Update as fast as it can.
package main

import (
	"device/arm"
	"log"
	"machine"
	"time"

	"motor-menu/internal/core"
	"motor-menu/internal/display"
	"motor-menu/internal/events"
	"motor-menu/internal/fsm"
	"motor-menu/internal/logger"
	"motor-menu/internal/motor"
	"motor-menu/internal/tick"
)

// Panel wiring, RW tied to ground
var (
	lcdData = []machine.Pin{machine.GPIO6, machine.GPIO7, machine.GPIO8, machine.GPIO9}
	lcdEN   = machine.GPIO5
	lcdRS   = machine.GPIO4
)

// Buttons pull to ground when pressed
var buttons = []struct {
	pin machine.Pin
	ev  fsm.Event
}{
	{machine.GPIO10, fsm.EvMenuActivate},
	{machine.GPIO11, fsm.EvEscape},
	{machine.GPIO12, fsm.EvNext},
	{machine.GPIO13, fsm.EvEnter},
}

const (
	tickRate       = 1000 // Hz
	buttonInterval = 20 * time.Millisecond
)

var counter tick.Counter

//go:export SysTick_Handler
func handleSysTick() {
	counter.Add(1)
}

// pinHeartbeat blinks the on-board LED once per menu step.
type pinHeartbeat struct {
	pin machine.Pin
	on  bool
}

func (h *pinHeartbeat) Set(on bool) error {
	h.on = on
	h.pin.Set(on)
	return nil
}

func (h *pinHeartbeat) Toggle() error {
	return h.Set(!h.on)
}

func main() {
	// Give the USB console a moment to enumerate
	time.Sleep(time.Second)

	l := logger.NewLogger(log.New(machine.Serial, "", 0), logger.LogLevelInfo)
	l.Infof("Starting motor menu...")

	machine.LED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for _, p := range lcdData {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}
	lcdEN.Configure(machine.PinConfig{Mode: machine.PinOutput})
	lcdRS.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for _, b := range buttons {
		b.pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}

	queue := events.NewQueue(events.DefaultQueueSize)
	task := core.NewMenuTask(core.TaskConfig{
		Mode:   display.ConnectionGPIO4Bit,
		Period: tick.DefaultPeriod,
	}, &counter, display.NewHD44780(lcdData, lcdEN, lcdRS), &pinHeartbeat{pin: machine.LED}, queue, motor.NewStore(), l)

	if err := task.Init(); err != nil {
		l.Errorf("Failed to initialize menu task: %v", err)
		for {
			time.Sleep(time.Second)
		}
	}

	if err := arm.SetupSystemTimer(machine.CPUFrequency() / tickRate); err != nil {
		l.Errorf("Failed to start SysTick: %v", err)
	}

	l.Infof("Motor menu started successfully")

	pressed := make([]bool, len(buttons))
	var sampled time.Time
	for {
		// Sampling slower than the contacts bounce is the debounce
		if now := time.Now(); now.Sub(sampled) >= buttonInterval {
			sampled = now
			for i, b := range buttons {
				down := !b.pin.Get()
				if down && !pressed[i] {
					if err := queue.Push(b.ev); err != nil {
						l.Warnf("Dropped %s: %v", b.ev, err)
					}
				}
				pressed[i] = down
			}
		}
		task.Update()
		time.Sleep(time.Millisecond)
	}
}
