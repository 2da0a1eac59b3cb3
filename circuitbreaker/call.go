package circuitbreaker

import (
	"context"
	"errors"
)

// Call executes fn within the breaker. When admission is denied fn is not
// invoked and ErrRejected is returned. Otherwise the outcome is recorded —
// every error counts as a failure — and fn's result is returned unchanged.
func Call[R any](cb *CircuitBreaker, fn func() (R, error)) (R, error) {
	return CallWith(cb, Any, fn)
}

// CallWith is Call with an explicit failure predicate: errors the
// predicate rejects are recorded as successes (a business error does not
// mean the dependency is down) but still returned to the caller.
func CallWith[R any](cb *CircuitBreaker, pred FailurePredicate, fn func() (R, error)) (R, error) {
	var zero R
	if !cb.IsCallPermitted() {
		return zero, ErrRejected
	}

	r, err := fn()
	if err == nil {
		cb.OnSuccess()
		return r, nil
	}
	if pred(err) {
		cb.OnError()
	} else {
		cb.OnSuccess()
	}
	return r, err
}

// Do executes fn within the breaker, carrying a context. Admission is
// checked once, before fn runs.
//
// A call abandoned by its own context records no outcome: the caller's
// cancellation says nothing about the dependency's health.
func Do[R any](ctx context.Context, cb *CircuitBreaker, fn func(context.Context) (R, error)) (R, error) {
	return DoWith(ctx, cb, Any, fn)
}

// DoWith is Do with an explicit failure predicate.
func DoWith[R any](ctx context.Context, cb *CircuitBreaker, pred FailurePredicate, fn func(context.Context) (R, error)) (R, error) {
	var zero R
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if !cb.IsCallPermitted() {
		return zero, ErrRejected
	}

	r, err := fn(ctx)
	if err == nil {
		cb.OnSuccess()
		return r, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		// Abandoned mid-flight: neither success nor failure.
		return r, err
	}
	if pred(err) {
		cb.OnError()
	} else {
		cb.OnSuccess()
	}
	return r, err
}
