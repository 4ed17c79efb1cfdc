package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable reports a network backend that did not answer its ping.
var ErrUnavailable = errors.New("cache backend unavailable")

// Attempts and first pause used by waitReady. Tests shorten the pause.
var (
	readyAttempts = 3
	readyPause    = 250 * time.Millisecond
)

// waitReady pings a freshly opened backend until it answers, doubling the
// pause after each failure.
func waitReady(ctx context.Context, backend string, ping func(context.Context) error) error {
	pause := readyPause
	var err error
	for i := 0; i < readyAttempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pause):
			}
			pause *= 2
		}
		if err = ping(ctx); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, backend, err)
}
