package app

import (
	"context"
	"time"

	"github.com/five82/shelf/internal/logging"
)

const maxBackoff = 30 * time.Second

// Refresher is the part of the store the poller drives.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// StartPoller launches a background goroutine that refreshes the store every
// interval, backing off after consecutive failures. A non-positive interval
// disables it. It returns immediately.
func StartPoller(ctx context.Context, store Refresher, interval time.Duration, logger logging.Logger) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.With("component", "poller")

	go func() {
		failures := 0
		for {
			timer := time.NewTimer(calculateBackoff(failures, interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			if err := store.Refresh(ctx); err != nil {
				failures++
				logger.Warn(ctx, "background refresh failed", "failures", failures, "error", err)
				continue
			}
			if failures > 0 {
				logger.Info(ctx, "background refresh recovered", "after_failures", failures)
			}
			failures = 0
		}
	}()
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	delay := base
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
