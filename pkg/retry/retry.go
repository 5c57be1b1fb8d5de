package retry

import (
	"context"
	"time"
)

// Policy describes a bounded retry with exponential backoff.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// Default covers the operations whose failure is user-visible: the
// purchase-status update and the confirmation email.
var Default = Policy{Attempts: 3, Delay: 200 * time.Millisecond}

// Do runs fn up to p.Attempts times, doubling the delay between attempts.
// The last error is returned when all attempts fail. Context cancellation
// aborts the wait.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	delay := p.Delay
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
