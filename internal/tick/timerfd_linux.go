//go:build linux && !tinygo

package tick

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"motor-menu/internal/logger"
)

// TimerSource feeds a Counter from a CLOCK_MONOTONIC timerfd. Expirations
// that pile up while the reader is descheduled are added in one go, so no
// tick is lost.
type TimerSource struct {
	file     *os.File
	counter  *Counter
	interval time.Duration
	logger   *logger.Logger
}

func NewTimerSource(counter *Counter, interval time.Duration, l *logger.Logger) (*TimerSource, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid tick interval %v", interval)
	}
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("failed to create timerfd: %w", err)
	}

	period := unix.NsecToTimespec(interval.Nanoseconds())
	spec := unix.ItimerSpec{Interval: period, Value: period}
	if err := unix.TimerfdSettime(fd, 0, &spec, nil); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to arm timerfd: %w", err)
	}

	return &TimerSource{
		// A non-blocking fd handed to os.NewFile is served by the runtime
		// poller, which lets Close interrupt a pending Read.
		file:     os.NewFile(uintptr(fd), "timerfd"),
		counter:  counter,
		interval: interval,
		logger:   l.WithTag("tick"),
	}, nil
}

// Run blocks until ctx is cancelled or the timer fails.
func (t *TimerSource) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		t.file.Close()
	})
	defer stop()

	t.logger.Debugf("Tick source running every %v", t.interval)

	buf := make([]byte, 8)
	for {
		n, err := t.file.Read(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, os.ErrClosed) {
				return ctx.Err()
			}
			return fmt.Errorf("failed reading timerfd: %w", err)
		}
		if n != len(buf) {
			t.logger.Warnf("Short timerfd read: %d bytes", n)
			continue
		}
		addExpirations(t.counter, binary.NativeEndian.Uint64(buf))
	}
}

// addExpirations saturates the 64-bit timerfd count at the counter's width
// instead of truncating it.
func addExpirations(c *Counter, n uint64) {
	if n > math.MaxUint32 {
		n = math.MaxUint32
	}
	c.Add(uint32(n))
}

func (t *TimerSource) Close() error {
	return t.file.Close()
}
