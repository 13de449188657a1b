// Package config loads the motor menu configuration from a YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/semver"
	"github.com/caarlos0/env"
	"gopkg.in/yaml.v2"

	"motor-menu/internal/events"
	"motor-menu/internal/hardware"
	"motor-menu/internal/tick"
)

// SchemaConstraint is the range of config file versions this build reads.
const SchemaConstraint = ">= 1.0, < 2.0"

var ErrUnsupportedVersion = errors.New("unsupported config version")

type Display struct {
	Backend string `yaml:"backend" env:"MOTOR_MENU_DISPLAY_BACKEND"`
	Device  string `yaml:"device" env:"MOTOR_MENU_DISPLAY_DEVICE"`
	Baud    int    `yaml:"baud" env:"MOTOR_MENU_DISPLAY_BAUD"`
	Columns int    `yaml:"columns"`
	Rows    int    `yaml:"rows"`
}

type Heartbeat struct {
	Backend string `yaml:"backend" env:"MOTOR_MENU_HEARTBEAT_BACKEND"`
	Chip    string `yaml:"chip"`
	Line    int    `yaml:"line"`
	LED     string `yaml:"led"`
}

type Buttons struct {
	Enabled  bool          `yaml:"enabled" env:"MOTOR_MENU_BUTTONS"`
	Chip     string        `yaml:"chip"`
	Menu     int           `yaml:"menu"`
	Escape   int           `yaml:"escape"`
	Next     int           `yaml:"next"`
	Enter    int           `yaml:"enter"`
	Debounce time.Duration `yaml:"debounce"`
}

type Keypad struct {
	Enabled bool   `yaml:"enabled" env:"MOTOR_MENU_KEYPAD"`
	Device  string `yaml:"device" env:"MOTOR_MENU_KEYPAD_DEVICE"`
}

type Redis struct {
	Enabled   bool   `yaml:"enabled" env:"MOTOR_MENU_REDIS"`
	Addr      string `yaml:"addr" env:"MOTOR_MENU_REDIS_ADDR"`
	EventsKey string `yaml:"events_key" env:"MOTOR_MENU_REDIS_EVENTS_KEY"`
	Publish   bool   `yaml:"publish"`
}

type Config struct {
	Version        string        `yaml:"version"`
	LogLevel       string        `yaml:"log_level" env:"MOTOR_MENU_LOG_LEVEL"`
	CadencePeriod  int           `yaml:"cadence_period" env:"MOTOR_MENU_CADENCE_PERIOD"`
	TickInterval   time.Duration `yaml:"tick_interval" env:"MOTOR_MENU_TICK_INTERVAL"`
	UpdateInterval time.Duration `yaml:"update_interval" env:"MOTOR_MENU_UPDATE_INTERVAL"`
	QueueSize      int           `yaml:"queue_size"`

	Display   Display   `yaml:"display"`
	Heartbeat Heartbeat `yaml:"heartbeat"`
	Buttons   Buttons   `yaml:"buttons"`
	Keypad    Keypad    `yaml:"keypad"`
	Redis     Redis     `yaml:"redis"`
}

// Default runs on any Linux host: console display, no heartbeat hardware,
// no redis.
func Default() Config {
	return Config{
		Version:        "1.0",
		LogLevel:       "info",
		CadencePeriod:  tick.DefaultPeriod,
		TickInterval:   time.Millisecond,
		UpdateInterval: 200 * time.Microsecond,
		QueueSize:      events.DefaultQueueSize,
		Display: Display{
			Backend: "console",
			Device:  "/dev/ttyUSB0",
			Baud:    19200,
			Columns: 20,
			Rows:    4,
		},
		Heartbeat: Heartbeat{
			Backend: "none",
			Chip:    hardware.DefaultHeartbeatChip,
			Line:    hardware.DefaultHeartbeatLine,
			LED:     "heartbeat",
		},
		Buttons: Buttons{
			Chip:     hardware.DefaultHeartbeatChip,
			Menu:     17,
			Escape:   27,
			Next:     22,
			Enter:    23,
			Debounce: hardware.DefaultDebounce,
		},
		Keypad: Keypad{
			Device: hardware.GpioKeysInput,
		},
		Redis: Redis{
			Addr:      "localhost:6379",
			EventsKey: "motor-menu:events",
			Publish:   true,
		},
	}
}

// Load reads path on top of Default, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from MOTOR_MENU_* variables.
func ApplyEnv(cfg *Config) error {
	for _, section := range []interface{}{
		cfg, &cfg.Display, &cfg.Heartbeat, &cfg.Buttons, &cfg.Keypad, &cfg.Redis,
	} {
		if err := env.Parse(section); err != nil {
			return fmt.Errorf("failed to apply environment: %w", err)
		}
	}
	return nil
}

func (c Config) Validate() error {
	if err := checkVersion(c.Version); err != nil {
		return err
	}

	switch c.Display.Backend {
	case "console", "serial", "none":
	default:
		return fmt.Errorf("unknown display backend %q", c.Display.Backend)
	}
	if c.Display.Backend == "serial" && c.Display.Device == "" {
		return errors.New("serial display requires a device")
	}
	if c.Display.Columns <= 0 || c.Display.Rows <= 0 {
		return fmt.Errorf("invalid display size %dx%d", c.Display.Columns, c.Display.Rows)
	}

	switch c.Heartbeat.Backend {
	case "gpio", "sysfs", "none":
	default:
		return fmt.Errorf("unknown heartbeat backend %q", c.Heartbeat.Backend)
	}

	if c.CadencePeriod < 0 {
		return fmt.Errorf("cadence_period must not be negative, got %d", c.CadencePeriod)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.UpdateInterval <= 0 {
		return fmt.Errorf("update_interval must be positive, got %s", c.UpdateInterval)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("queue_size must be positive, got %d", c.QueueSize)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return errors.New("redis enabled without an address")
	}
	return nil
}

func checkVersion(v string) error {
	version, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrUnsupportedVersion, v, err)
	}
	constraint, err := semver.NewConstraint(SchemaConstraint)
	if err != nil {
		return err
	}
	if !constraint.Check(version) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedVersion, version, SchemaConstraint)
	}
	return nil
}
