// Package retry implements bounded exponential backoff, grounded on
// Chris-Alexander-Pop-go-hyperforge/pkg/resilience/retry.go. It backs both the
// producer's delivery-timeout retry budget (spec.md §4.7) and the consumer's
// process-retry-with-DLT wrapper (spec.md §4.8).
package retry

import (
	"context"
	"time"
)

// Config controls the backoff schedule. Attempt 0 always runs immediately;
// a delay of InitialDelay, then InitialDelay*Multiplier, ... (capped at
// MaxDelay) separates each subsequent attempt, for up to MaxAttempts total
// attempts.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
}

// Do runs fn up to cfg.MaxAttempts times, sleeping with exponential backoff
// between attempts, honoring ctx cancellation both before an attempt and
// during a sleep. It returns the last error if every attempt failed.
func Do(ctx context.Context, cfg Config, fn func(context.Context) error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 2.0
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 100 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == cfg.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return lastErr
}
