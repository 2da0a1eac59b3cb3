// Package circuitbreaker adapts the core breaker to gRPC: a unary server
// interceptor that rejects calls with codes.Unavailable while the breaker
// is open, and classifies handler outcomes by status code.
package circuitbreaker

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	breaker "github.com/vortex-fintech/resilience/circuitbreaker"
)

/* ---------- options ---------- */

type cbOptions struct {
	breaker  *breaker.CircuitBreaker
	tripFunc func(c codes.Code) bool
	log      Logger
}

type Option func(*cbOptions)

// WithBreaker installs a preconfigured breaker. Without it the
// interceptor builds one with the library defaults.
func WithBreaker(cb *breaker.CircuitBreaker) Option {
	return func(o *cbOptions) { o.breaker = cb }
}

// WithTripCodes lists the status codes that count as dependency failures.
func WithTripCodes(codesToTrip ...codes.Code) Option {
	set := make(map[codes.Code]struct{}, len(codesToTrip))
	for _, c := range codesToTrip {
		set[c] = struct{}{}
	}
	return func(o *cbOptions) {
		o.tripFunc = func(c codes.Code) bool {
			_, ok := set[c]
			return ok
		}
	}
}

// WithTripFunc supplies an arbitrary status-code classifier.
func WithTripFunc(f func(codes.Code) bool) Option {
	return func(o *cbOptions) { o.tripFunc = f }
}

// WithLogger attaches a logger for state transition messages. The logger
// is wired only into the breaker that New builds itself; a breaker passed
// with WithBreaker keeps its own instrument and logs nothing through it.
func WithLogger(l Logger) Option {
	return func(o *cbOptions) { o.log = l }
}

/* ---------- constructor ---------- */

// New builds a circuit breaker interceptor.
//
// Defaults: trip on Internal, Unavailable and DeadlineExceeded; the
// breaker from breaker.New() (success-rate or consecutive-failures with
// equal-jittered backoff); no logging.
func New(opts ...Option) *Interceptor {
	o := cbOptions{}
	for _, f := range opts {
		f(&o)
	}

	if o.tripFunc == nil {
		o.tripFunc = func(c codes.Code) bool {
			return c == codes.Internal ||
				c == codes.Unavailable ||
				c == codes.DeadlineExceeded
		}
	}
	if o.log == nil {
		o.log = nopLogger{}
	}
	if o.breaker == nil {
		o.breaker = breaker.New(
			breaker.WithInstrument(logInstrument{o.log}),
		)
	}

	return &Interceptor{
		cb:   o.breaker,
		trip: o.tripFunc,
		log:  o.log,
	}
}

/* ---------- implementation ---------- */

type Interceptor struct {
	cb   *breaker.CircuitBreaker
	trip func(codes.Code) bool
	log  Logger
}

/* ---------- public API ---------- */

// Unary returns the server interceptor. The handler runs only when the
// breaker admits the call; its error is classified by status code, so
// business errors (NotFound, InvalidArgument, ...) never trip anything.
func (i *Interceptor) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		resp, err := breaker.DoWith(ctx, i.cb, i.isFailure, func(ctx context.Context) (any, error) {
			return handler(ctx, req)
		})
		if errors.Is(err, breaker.ErrRejected) {
			return nil, status.Error(codes.Unavailable, "circuit breaker open")
		}
		return resp, err
	}
}

// State reports the underlying breaker's state (handy for metrics/tests).
func (i *Interceptor) State() string {
	return i.cb.State()
}

// Reset force-closes the underlying breaker (e.g. from an admin hook).
func (i *Interceptor) Reset() {
	i.cb.Reset()
}

// isFailure classifies a handler error. Non-status errors are treated as
// codes.Unknown, which does not trip by default.
func (i *Interceptor) isFailure(err error) bool {
	st, _ := status.FromError(err)
	return i.trip(st.Code())
}

/* ---------- logging ---------- */

type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

type nopLogger struct{}

func (nopLogger) Info(string)  {}
func (nopLogger) Warn(string)  {}
func (nopLogger) Error(string) {}

// logInstrument forwards breaker transitions to the interceptor logger.
type logInstrument struct{ log Logger }

func (l logInstrument) OnCallRejected() {}
func (l logInstrument) OnOpen()         { l.log.Error("circuit breaker OPENED") }
func (l logInstrument) OnHalfOpen()     { l.log.Info("circuit breaker → HALF-OPEN") }
func (l logInstrument) OnClosed()       { l.log.Info("circuit breaker CLOSED — service recovered") }
