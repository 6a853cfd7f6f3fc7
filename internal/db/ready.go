package db

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	readyFirstDelay = 50 * time.Millisecond
	readyMaxDelay   = time.Second
)

// PingFunc probes a backend once.
type PingFunc func(ctx context.Context) error

// WaitForReady calls ping with doubling delays until it succeeds or timeout
// expires. The timeout error carries the last ping failure.
func WaitForReady(ctx context.Context, backend string, timeout time.Duration, ping PingFunc) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var last error
	delay := readyFirstDelay
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			if last != nil {
				return fmt.Errorf("%s not ready after %s: %w", backend, timeout, errors.Join(ctx.Err(), last))
			}
			return fmt.Errorf("%s not ready after %s: %w", backend, timeout, ctx.Err())
		case <-timer.C:
		}

		if last = ping(ctx); last == nil {
			return nil
		}
		timer.Reset(delay)
		delay = min(delay*2, readyMaxDelay)
	}
}
