package hardware

import "time"

const (
	Consumer = "motor-menu"

	DefaultHeartbeatChip = "gpiochip0"
	DefaultHeartbeatLine = 5

	LedsDir = "/sys/class/leds"

	GpioKeysInput = "/dev/input/by-path/platform-gpio-keys-event"

	DefaultDebounce = 20 * time.Millisecond
)

// Linux input key codes of the navigation keypad.
const (
	EV_SYN = 0x00
	EV_KEY = 0x01

	KEY_ESC   = 1
	KEY_ENTER = 28
	KEY_M     = 50
	KEY_N     = 49
	KEY_MENU  = 139
	KEY_DOWN  = 108
	KEY_RIGHT = 106
	KEY_BACK  = 158
)
