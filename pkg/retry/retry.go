// Package retry wraps cenkalti/backoff with the bounded exponential policy used
// for every outbound call (LLM completions, bot invitations).
package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
)

// Policy bounds the number of attempts and the wait between them
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultPolicy returns 3 attempts starting at 2s, capped at 30s
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 2 * time.Second,
		MaxInterval:     30 * time.Second,
	}
}

// Notify is called after each failed attempt that will be retried
type Notify func(err error, wait time.Duration)

// StatusError is returned by HTTP clients for non-2xx responses
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
}

// Retryable reports whether the status code may succeed on a later attempt
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Permanent marks err so Do stops retrying immediately
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Classify marks client errors (4xx other than 429) as permanent
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) && !statusErr.Retryable() {
		return backoff.Permanent(err)
	}
	return err
}

// Do runs fn until it succeeds, returns a permanent error, the attempts are
// exhausted or ctx is done. The last error is returned unwrapped.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error, notify Notify) error {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	bo := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		bo.InitialInterval = policy.InitialInterval
	}
	if policy.MaxInterval > 0 {
		bo.MaxInterval = policy.MaxInterval
	}
	// attempts, not elapsed time, bound the loop
	bo.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(policy.MaxAttempts-1)), ctx)

	operation := func() error {
		return Classify(fn(ctx))
	}

	var n backoff.Notify
	if notify != nil {
		n = backoff.Notify(notify)
	}
	return backoff.RetryNotify(operation, b, n)
}
