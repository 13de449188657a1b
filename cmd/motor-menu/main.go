package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/abiosoft/ishell"

	"motor-menu/internal/config"
	"motor-menu/internal/core"
	"motor-menu/internal/display"
	"motor-menu/internal/events"
	"motor-menu/internal/fsm"
	"motor-menu/internal/hardware"
	"motor-menu/internal/logger"
	"motor-menu/internal/messaging"
	"motor-menu/internal/motor"
	"motor-menu/internal/tick"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to YAML config file (defaults only when empty)")

	// Service log level; overrides log_level from the config when set
	var serviceLogLevel string
	flag.StringVar(&serviceLogLevel, "log", "", "Service log level (0=NONE, 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG)")

	var withShell bool
	flag.BoolVar(&withShell, "shell", false, "Start the interactive development shell")

	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if serviceLogLevel != "" {
		cfg.LogLevel = serviceLogLevel
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}

	// Create standard logger with appropriate format
	var stdLogger *log.Logger
	if os.Getenv("INVOCATION_ID") != "" {
		// Running under systemd, use minimal format
		stdLogger = log.New(os.Stdout, "", 0)
	} else {
		// Running interactively, use timestamps
		stdLogger = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds|log.Lmsgprefix)
	}

	// Create leveled logger
	l := logger.NewLogger(stdLogger, level)

	l.Infof("Starting motor menu (config version %s)...", cfg.Version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				l.Warnf("Close failed: %v", err)
			}
		}
	}()

	disp, mode, err := openDisplay(cfg.Display, withShell)
	if err != nil {
		l.Fatalf("Failed to open display: %v", err)
	}
	if c, ok := disp.(io.Closer); ok {
		closers = append(closers, c)
	}

	hb, err := openHeartbeat(cfg.Heartbeat, l)
	if err != nil {
		l.Fatalf("Failed to open heartbeat: %v", err)
	}
	closers = append(closers, hb)

	queue := events.NewQueue(cfg.QueueSize)
	motors := motor.NewStore()
	counter := &tick.Counter{}

	task := core.NewMenuTask(core.TaskConfig{
		Mode:   mode,
		Period: uint32(cfg.CadencePeriod),
	}, counter, disp, hb, queue, motors, l)

	if err := task.Init(); err != nil {
		l.Fatalf("Failed to initialize menu task: %v", err)
	}
	closers = append(closers, task)

	var wg sync.WaitGroup

	source, err := tick.NewTimerSource(counter, cfg.TickInterval, l)
	if err != nil {
		l.Fatalf("Failed to create tick source: %v", err)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := source.Run(ctx); err != nil && ctx.Err() == nil {
			l.Errorf("Tick source stopped: %v", err)
			cancel()
		}
	}()

	if cfg.Buttons.Enabled {
		buttons, err := hardware.NewButtons(cfg.Buttons.Chip, hardware.ButtonLines{
			Menu:   cfg.Buttons.Menu,
			Escape: cfg.Buttons.Escape,
			Next:   cfg.Buttons.Next,
			Enter:  cfg.Buttons.Enter,
		}, cfg.Buttons.Debounce, queue, l)
		if err != nil {
			l.Fatalf("Failed to request buttons: %v", err)
		}
		closers = append(closers, buttons)
	}

	if cfg.Keypad.Enabled {
		keypad, err := hardware.OpenKeypad(cfg.Keypad.Device, queue, l)
		if err != nil {
			l.Fatalf("Failed to open keypad: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := keypad.Run(ctx); err != nil && ctx.Err() == nil {
				l.Errorf("Keypad stopped: %v", err)
			}
		}()
	}

	if cfg.Redis.Enabled {
		redis := messaging.NewRedisClient(cfg.Redis.Addr, cfg.Redis.EventsKey, l, messaging.Callbacks{
			EventCallback: queue.Push,
		})
		if err := redis.Connect(); err != nil {
			l.Fatalf("Failed to connect to Redis: %v", err)
		}
		if err := redis.StartListening(); err != nil {
			l.Fatalf("Failed to start Redis listeners: %v", err)
		}
		closers = append(closers, redis)
		if cfg.Redis.Publish {
			task.SetTelemetry(redis)
			task.PublishAll()
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := core.Run(ctx, task, cfg.UpdateInterval); err != nil {
			l.Errorf("Scheduler stopped: %v", err)
			cancel()
		}
	}()

	l.Infof("Motor menu started successfully")

	if withShell {
		shell := newShell(queue, disp, counter, cfg.CadencePeriod)
		shell.Start()
		go func() {
			shell.Wait()
			cancel()
		}()
		defer shell.Close()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		l.Infof("Received signal %v, shutting down...", sig)
	case <-ctx.Done():
		l.Infof("Shutting down...")
	}
	cancel()
	wg.Wait()
	l.Infof("Shutdown complete after %d updates", task.Calls())
}

func openDisplay(cfg config.Display, quiet bool) (display.Display, display.ConnectionMode, error) {
	switch cfg.Backend {
	case "serial":
		lcd, err := display.OpenSerialLCD(display.SerialConfig{
			Device:  cfg.Device,
			Baud:    cfg.Baud,
			Columns: cfg.Columns,
			Rows:    cfg.Rows,
		})
		if err != nil {
			return nil, 0, err
		}
		return lcd, display.ConnectionSerial, nil
	case "console":
		// With the shell running the frame is printed on request only.
		var out io.Writer = os.Stdout
		if quiet {
			out = nil
		}
		return display.NewConsole(out, cfg.Columns, cfg.Rows, !quiet), display.ConnectionConsole, nil
	case "none":
		return display.Nop{}, display.ConnectionConsole, nil
	default:
		return nil, 0, fmt.Errorf("unknown display backend %q", cfg.Backend)
	}
}

type heartbeatCloser interface {
	core.Heartbeat
	io.Closer
}

func openHeartbeat(cfg config.Heartbeat, l *logger.Logger) (heartbeatCloser, error) {
	switch cfg.Backend {
	case "gpio":
		return hardware.NewGPIOHeartbeat(cfg.Chip, cfg.Line, l)
	case "sysfs":
		return hardware.NewSysfsHeartbeat(hardware.LedsDir, cfg.LED)
	case "none":
		return &hardware.NopHeartbeat{}, nil
	default:
		return nil, fmt.Errorf("unknown heartbeat backend %q", cfg.Backend)
	}
}

func newShell(queue *events.Queue, disp display.Display, counter *tick.Counter, period int) *ishell.Shell {
	shell := ishell.New()
	shell.Println("Motor menu development shell")

	push := func(ev fsm.Event) func(c *ishell.Context) {
		return func(c *ishell.Context) {
			if err := queue.Push(ev); err != nil {
				c.Printf("Dropped %s: %v\n", ev, err)
				return
			}
			c.Printf("Queued %s (%d pending)\n", ev, queue.Len())
		}
	}

	shell.AddCmd(&ishell.Cmd{Name: "menu", Help: "open the menu", Func: push(fsm.EvMenuActivate)})
	shell.AddCmd(&ishell.Cmd{Name: "next", Help: "move the cursor", Func: push(fsm.EvNext)})
	shell.AddCmd(&ishell.Cmd{Name: "enter", Help: "select", Func: push(fsm.EvEnter)})
	shell.AddCmd(&ishell.Cmd{Name: "esc", Help: "go back", Func: push(fsm.EvEscape)})
	shell.AddCmd(&ishell.Cmd{
		Name: "send",
		Help: "send <event> [event...]",
		Func: func(c *ishell.Context) {
			for _, arg := range c.Args {
				ev, err := events.Parse(arg)
				if err != nil {
					c.Err(err)
					return
				}
				push(ev)(c)
			}
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "tick",
		Help: "tick [periods] - inject ticks without waiting for the timer",
		Func: func(c *ishell.Context) {
			n := 1
			if len(c.Args) > 0 {
				if _, err := fmt.Sscanf(c.Args[0], "%d", &n); err != nil || n < 1 {
					c.Err(fmt.Errorf("invalid period count %q", c.Args[0]))
					return
				}
			}
			counter.Add(uint32(n * period))
			c.Printf("Injected %d ticks\n", n*period)
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "show",
		Help: "print the display",
		Func: func(c *ishell.Context) {
			con, ok := disp.(*display.Console)
			if !ok {
				c.Println("Display is not a console")
				return
			}
			c.Println(strings.TrimRight(con.Snapshot(), "\n"))
		},
	})
	return shell
}
