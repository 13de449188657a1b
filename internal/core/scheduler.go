package core

import (
	"context"
	"errors"
	"time"
)

// Updater is a task the scheduler drives.
type Updater interface {
	Update()
}

// Run calls task.Update every interval until ctx is done. The task's own
// tick countdown decides when work happens, so the interval only bounds
// latency.
func Run(ctx context.Context, task Updater, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("scheduler interval must be positive")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			task.Update()
		}
	}
}
