package hardware

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sys/unix"
)

var (
	ledOn  = []byte("1\n")
	ledOff = []byte("0\n")
)

// SysfsHeartbeat drives an LED class device. The brightness attribute stays
// open for the lifetime of the heartbeat.
type SysfsHeartbeat struct {
	fd   int
	path string
	on   bool
}

// NewSysfsHeartbeat opens <dir>/<name>/brightness; dir is normally LedsDir.
func NewSysfsHeartbeat(dir, name string) (*SysfsHeartbeat, error) {
	path := filepath.Join(dir, name, "brightness")
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &SysfsHeartbeat{fd: fd, path: path}, nil
}

func (h *SysfsHeartbeat) Set(on bool) error {
	val := ledOff
	if on {
		val = ledOn
	}
	if _, err := unix.Pwrite(h.fd, val, 0); err != nil {
		return fmt.Errorf("failed writing %s: %w", h.path, err)
	}
	h.on = on
	return nil
}

func (h *SysfsHeartbeat) Toggle() error {
	return h.Set(!h.on)
}

func (h *SysfsHeartbeat) Close() error {
	return unix.Close(h.fd)
}
