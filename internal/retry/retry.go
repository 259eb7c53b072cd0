// Package retry applies bounded exponential backoff to calls that can fail
// transiently (rate limits, network). Non-transient errors stop immediately.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds how a call is retried.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts uint64
	// Initial is the first backoff interval.
	Initial time.Duration
	// MaxInterval caps the backoff interval growth.
	MaxInterval time.Duration
}

// Default is the policy used for collaborator calls.
var Default = Policy{
	MaxAttempts: 4,
	Initial:     250 * time.Millisecond,
	MaxInterval: 5 * time.Second,
}

// Do runs op, retrying with exponential backoff while isTransient reports the
// returned error as retryable. It stops on success, on a non-transient error,
// when attempts are exhausted, or when ctx is done. The last error is
// returned unwrapped so callers can classify it.
func (p Policy) Do(ctx context.Context, isTransient func(error) bool, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	if p.Initial > 0 {
		bo.InitialInterval = p.Initial
	}
	if p.MaxInterval > 0 {
		bo.MaxInterval = p.MaxInterval
	}
	bo.MaxElapsedTime = 0

	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, attempts-1), ctx))
}
