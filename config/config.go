// Package config builds circuit breakers from declarative settings, the
// kind that arrive from a service's configuration file. Programmatic
// callers can use the circuitbreaker options directly; this package adds
// defaulting and validation on top.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vortex-fintech/resilience/backoff"
	"github.com/vortex-fintech/resilience/circuitbreaker"
	"github.com/vortex-fintech/resilience/policy"
)

// Backoff schedule names accepted in Settings.Backoff.
const (
	BackoffConstant             = "constant"
	BackoffExponential          = "exponential"
	BackoffEqualJittered        = "equal_jittered"
	BackoffFullJittered         = "full_jittered"
	BackoffDecorrelatedJittered = "decorrelated_jittered"
)

// Settings describes a breaker declaratively. Zero values fall back to
// the library defaults before validation, so an empty Settings builds the
// default breaker.
type Settings struct {
	// Name identifies the breaker in logs and metrics.
	Name string `validate:"required"`

	// Success-rate policy arm.
	MinRate    float64       `validate:"gt=0,lt=1"`
	MinSamples uint32        `validate:"gte=1"`
	Window     time.Duration `validate:"gte=10000000"` // >= 10ms, adder granularity

	// Consecutive-failures policy arm.
	RequiredConsecutive uint32 `validate:"gte=1"`

	// Open-interval schedule.
	Backoff      string        `validate:"oneof=constant exponential equal_jittered full_jittered decorrelated_jittered"`
	BackoffStart time.Duration `validate:"gt=0"`
	BackoffMax   time.Duration `validate:"gtefield=BackoffStart"`
}

var validate = validator.New()

func (s Settings) withDefaults() Settings {
	if s.Name == "" {
		s.Name = "breaker"
	}
	if s.MinRate == 0 {
		s.MinRate = circuitbreaker.DefaultMinRate
	}
	if s.MinSamples == 0 {
		s.MinSamples = circuitbreaker.DefaultMinSamples
	}
	if s.Window == 0 {
		s.Window = circuitbreaker.DefaultWindow
	}
	if s.RequiredConsecutive == 0 {
		s.RequiredConsecutive = circuitbreaker.DefaultRequiredConsecutive
	}
	if s.Backoff == "" {
		s.Backoff = BackoffEqualJittered
	}
	if s.BackoffStart == 0 {
		s.BackoffStart = circuitbreaker.DefaultBackoffStart
	}
	if s.BackoffMax == 0 {
		s.BackoffMax = circuitbreaker.DefaultBackoffMax
	}
	return s
}

func (s Settings) newBackoff() backoff.Backoff {
	switch s.Backoff {
	case BackoffConstant:
		return backoff.Constant(s.BackoffStart)
	case BackoffExponential:
		return backoff.Exponential(s.BackoffStart, s.BackoffMax)
	case BackoffFullJittered:
		return backoff.FullJittered(s.BackoffStart, s.BackoffMax)
	case BackoffDecorrelatedJittered:
		return backoff.DecorrelatedJittered(s.BackoffStart, s.BackoffMax)
	default:
		return backoff.EqualJittered(s.BackoffStart, s.BackoffMax)
	}
}

// Build validates the settings and constructs the breaker. Extra options
// (instrument, clock) are passed through to circuitbreaker.New.
func (s Settings) Build(opts ...circuitbreaker.Option) (*circuitbreaker.CircuitBreaker, error) {
	s = s.withDefaults()
	if err := validate.Struct(s); err != nil {
		return nil, fmt.Errorf("validate settings for breaker %q: %w", s.Name, err)
	}

	pol := policy.OrElse(
		policy.NewSuccessRateOverTimeWindow(s.MinRate, s.MinSamples, s.Window, s.newBackoff()),
		policy.NewConsecutiveFailures(s.RequiredConsecutive, s.newBackoff()),
	)

	all := append([]circuitbreaker.Option{circuitbreaker.WithFailurePolicy(pol)}, opts...)
	return circuitbreaker.New(all...), nil
}
