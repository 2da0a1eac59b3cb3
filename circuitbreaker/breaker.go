package circuitbreaker

import (
	"time"

	"github.com/vortex-fintech/resilience/backoff"
	"github.com/vortex-fintech/resilience/clock"
	"github.com/vortex-fintech/resilience/policy"
)

// Default failure policy parameters, used when no policy is configured.
const (
	DefaultMinRate             = 0.5
	DefaultMinSamples          = 100
	DefaultWindow              = 30 * time.Second
	DefaultRequiredConsecutive = 5
	DefaultBackoffStart        = 5 * time.Second
	DefaultBackoffMax          = 300 * time.Second
)

// CircuitBreaker is the caller-facing handle. It is a thin pointer to the
// shared state machine: passing it around by value gives every holder the
// same breaker, and it may be used from any number of goroutines.
type CircuitBreaker struct {
	sm *StateMachine
}

// Option configures a breaker under construction.
type Option func(*options)

type options struct {
	policy     policy.FailurePolicy
	instrument Instrument
	clock      clock.Clock
}

// WithFailurePolicy replaces the default failure policy.
func WithFailurePolicy(p policy.FailurePolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithInstrument sets the observer notified on transitions and rejections.
// Use Instruments to attach more than one.
func WithInstrument(ins Instrument) Option {
	return func(o *options) { o.instrument = ins }
}

// WithClock injects the time source. Meant for tests.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// New builds a circuit breaker.
//
// Without options it trips when the success rate over a 30s window drops
// below 0.5 (after 100 samples) or on 5 consecutive failures, and stays
// open for an equal-jittered exponential interval between 5s and 300s.
func New(opts ...Option) *CircuitBreaker {
	o := options{clock: clock.Default}
	for _, opt := range opts {
		opt(&o)
	}
	if o.policy == nil {
		o.policy = DefaultFailurePolicy(o.clock)
	}
	if o.instrument == nil {
		o.instrument = NopInstrument{}
	}
	return &CircuitBreaker{sm: NewStateMachine(o.policy, o.instrument, o.clock)}
}

// DefaultFailurePolicy returns the policy New installs when none is
// configured: success-rate-over-window or-else consecutive-failures, each
// with its own equal-jittered backoff sequence.
func DefaultFailurePolicy(clk clock.Clock) policy.FailurePolicy {
	return policy.OrElse(
		policy.NewSuccessRateOverTimeWindow(
			DefaultMinRate,
			DefaultMinSamples,
			DefaultWindow,
			backoff.EqualJittered(DefaultBackoffStart, DefaultBackoffMax),
			policy.WithClock(clk),
		),
		policy.NewConsecutiveFailures(
			DefaultRequiredConsecutive,
			backoff.EqualJittered(DefaultBackoffStart, DefaultBackoffMax),
		),
	)
}

// IsCallPermitted requests permission to proceed with a protected call.
func (cb *CircuitBreaker) IsCallPermitted() bool { return cb.sm.IsCallPermitted() }

// OnSuccess records a successful call outcome.
func (cb *CircuitBreaker) OnSuccess() { cb.sm.OnSuccess() }

// OnError records a failed call outcome.
func (cb *CircuitBreaker) OnError() { cb.sm.OnError() }

// State reports the current state string.
func (cb *CircuitBreaker) State() string { return cb.sm.State() }

// Reset force-closes the breaker, losing statistics.
func (cb *CircuitBreaker) Reset() { cb.sm.Reset() }
