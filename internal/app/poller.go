package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/nib/internal/inkwell"
	"github.com/five82/nib/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// StartPoller launches a background goroutine that refreshes the store's
// current page at a fixed cadence, backing off while the API keeps failing.
// It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, lister state.Lister, actor *inkwell.Actor, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		failures := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			if err := state.Refresh(ctx, store, lister, actor); err != nil {
				if ctx.Err() != nil {
					return
				}
				failures++
				logger.Warn("list poll failed", "error", err, "failures", failures)
			} else {
				if failures > 0 {
					logger.Info("list poll recovered", "after_failures", failures)
				}
				failures = 0
			}
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}

// calculateBackoff doubles base for every consecutive failure, up to
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for range failures {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}
