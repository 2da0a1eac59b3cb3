// Package retry pairs bounded retry loops with the circuit breaker.
//
// The breaker decides whether a call may run; retry decides how often to
// ask again. A rejection from the breaker stops the loop immediately —
// retrying a call the breaker refuses to admit only hammers the lock.
package retry

import (
	"context"
	"errors"
	"time"

	cbo "github.com/cenkalti/backoff/v5"

	"github.com/vortex-fintech/resilience/circuitbreaker"
)

// Exponential retries fn with exponential backoff (500ms doubling up to
// 5s between attempts, jittered) for at most 20s overall.
func Exponential(ctx context.Context, fn func() error) error {
	exp := cbo.NewExponentialBackOff()
	exp.InitialInterval = 500 * time.Millisecond
	exp.Multiplier = 2.0
	exp.MaxInterval = 5 * time.Second
	exp.RandomizationFactor = 0.5
	exp.Reset()

	type unit struct{}
	op := func() (unit, error) {
		return unit{}, fn()
	}

	_, err := cbo.Retry(
		ctx,
		op,
		cbo.WithBackOff(exp),
		cbo.WithMaxElapsedTime(20*time.Second),
	)
	return err
}

// Attempts retries fn up to attempts times with a fixed delay between
// tries, honoring context cancellation. The last error is returned.
func Attempts(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil {
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
	}
	return err
}

// WithBreaker retries fn through cb with exponential backoff. Failures of
// fn are retried; a breaker rejection is permanent for this loop — the
// breaker has already decided the dependency needs to cool down, and the
// retry budget should not be spent queuing behind it.
func WithBreaker(ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func() error) error {
	exp := cbo.NewExponentialBackOff()
	exp.InitialInterval = 500 * time.Millisecond
	exp.Multiplier = 2.0
	exp.MaxInterval = 5 * time.Second
	exp.RandomizationFactor = 0.5
	exp.Reset()

	type unit struct{}
	op := func() (unit, error) {
		_, err := circuitbreaker.Call(cb, func() (unit, error) {
			return unit{}, fn()
		})
		if errors.Is(err, circuitbreaker.ErrRejected) {
			return unit{}, cbo.Permanent(err)
		}
		return unit{}, err
	}

	_, err := cbo.Retry(
		ctx,
		op,
		cbo.WithBackOff(exp),
		cbo.WithMaxElapsedTime(20*time.Second),
	)
	return err
}
