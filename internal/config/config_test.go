package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v2"
)

const testYaml = `
version: "1.2"
log_level: debug
cadence_period: 500
tick_interval: 2ms
display:
  backend: serial
  device: /dev/ttyACM0
  baud: 9600
heartbeat:
  backend: gpio
  chip: gpiochip1
  line: 12
buttons:
  enabled: true
  next: 5
redis:
  enabled: true
  addr: 10.0.0.2:6379
`

func TestConfigParsing(t *testing.T) {
	Convey("parsing on top of the defaults", t, func() {
		cfg := Default()
		err := yaml.Unmarshal([]byte(testYaml), &cfg)
		So(err, ShouldBeNil)

		Convey("file values are set", func() {
			So(cfg.CadencePeriod, ShouldEqual, 500)
			So(cfg.TickInterval, ShouldEqual, 2*time.Millisecond)
			So(cfg.Display.Backend, ShouldEqual, "serial")
			So(cfg.Display.Baud, ShouldEqual, 9600)
			So(cfg.Heartbeat.Line, ShouldEqual, 12)
			So(cfg.Buttons.Next, ShouldEqual, 5)
			So(cfg.Redis.Addr, ShouldEqual, "10.0.0.2:6379")
		})

		Convey("untouched values keep their defaults", func() {
			So(cfg.Display.Columns, ShouldEqual, 20)
			So(cfg.Display.Rows, ShouldEqual, 4)
			So(cfg.Buttons.Menu, ShouldEqual, 17)
			So(cfg.UpdateInterval, ShouldEqual, 200*time.Microsecond)
			So(cfg.Redis.Publish, ShouldBeTrue)
		})

		Convey("the result validates", func() {
			So(cfg.Validate(), ShouldBeNil)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("loading from disk", t, func() {
		path := filepath.Join(t.TempDir(), "motor-menu.yaml")
		So(os.WriteFile(path, []byte(testYaml), 0o644), ShouldBeNil)

		Convey("file values are loaded", func() {
			cfg, err := Load(path)
			So(err, ShouldBeNil)
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.Display.Device, ShouldEqual, "/dev/ttyACM0")
			So(cfg.Redis.Enabled, ShouldBeTrue)
		})

		Convey("a missing file is an error", func() {
			_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			So(err, ShouldNotBeNil)
		})

		Convey("no path gives the defaults", func() {
			cfg, err := Load("")
			So(err, ShouldBeNil)
			So(cfg.Display.Backend, ShouldEqual, "console")
			So(cfg.Redis.Enabled, ShouldBeFalse)
		})
	})
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motor-menu.yaml")
	if err := os.WriteFile(path, []byte(testYaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MOTOR_MENU_REDIS_ADDR", "redis:6380")
	t.Setenv("MOTOR_MENU_DISPLAY_BACKEND", "none")
	t.Setenv("MOTOR_MENU_CADENCE_PERIOD", "250")
	t.Setenv("MOTOR_MENU_TICK_INTERVAL", "5ms")

	Convey("environment overrides the file", t, func() {
		cfg, err := Load(path)
		So(err, ShouldBeNil)
		So(cfg.Redis.Addr, ShouldEqual, "redis:6380")
		So(cfg.Display.Backend, ShouldEqual, "none")
		So(cfg.CadencePeriod, ShouldEqual, 250)
		So(cfg.TickInterval, ShouldEqual, 5*time.Millisecond)
		So(cfg.LogLevel, ShouldEqual, "debug")
	})
}

func TestValidate(t *testing.T) {
	Convey("validation", t, func() {
		cfg := Default()

		Convey("the defaults are valid", func() {
			So(cfg.Validate(), ShouldBeNil)
		})

		Convey("a 2.x config is rejected", func() {
			cfg.Version = "2.0"
			So(errors.Is(cfg.Validate(), ErrUnsupportedVersion), ShouldBeTrue)
		})

		Convey("a garbage version is rejected", func() {
			cfg.Version = "latest"
			So(errors.Is(cfg.Validate(), ErrUnsupportedVersion), ShouldBeTrue)
		})

		Convey("unknown backends are rejected", func() {
			cfg.Display.Backend = "hdmi"
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("serial without a device is rejected", func() {
			cfg.Display.Backend = "serial"
			cfg.Display.Device = ""
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("a zero tick interval is rejected", func() {
			cfg.TickInterval = 0
			So(cfg.Validate(), ShouldNotBeNil)
		})
	})
}
