package policy

import (
	"time"

	"github.com/vortex-fintech/resilience/backoff"
	"github.com/vortex-fintech/resilience/clock"
	"github.com/vortex-fintech/resilience/stats"
)

// adder granularity for the sample counter.
const successRateSlices = 10

// SuccessRateOverTimeWindow trips when the time-weighted success rate over
// the window drops below minRate, once at least minSamples outcomes have
// been observed inside the window.
//
// After the policy trips it stops advancing its backoff sequence: failed
// recovery probes reuse the breaker's previous delay until Revived.
type SuccessRateOverTimeWindow struct {
	minRate    float64
	minSamples uint32
	rate       *stats.EMA
	samples    *stats.WindowedAdder
	backoff    backoff.Backoff
	tripped    bool
}

// SuccessRateOption configures a SuccessRateOverTimeWindow.
type SuccessRateOption func(*successRateOptions)

type successRateOptions struct {
	clock clock.Clock
}

// WithClock injects the time source. Meant for tests.
func WithClock(c clock.Clock) SuccessRateOption {
	return func(o *successRateOptions) { o.clock = c }
}

// NewSuccessRateOverTimeWindow creates the policy.
//
// minRate must be in (0, 1); minSamples must be positive. Violations are
// programming errors and panic.
func NewSuccessRateOverTimeWindow(minRate float64, minSamples uint32, window time.Duration, bo backoff.Backoff, opts ...SuccessRateOption) *SuccessRateOverTimeWindow {
	if minRate <= 0 || minRate >= 1 {
		panic("policy: min success rate must be in (0, 1)")
	}
	if minSamples == 0 {
		panic("policy: min samples must be positive")
	}

	o := successRateOptions{clock: clock.Default}
	for _, opt := range opts {
		opt(&o)
	}

	return &SuccessRateOverTimeWindow{
		minRate:    minRate,
		minSamples: minSamples,
		rate:       stats.NewEMA(window, o.clock),
		samples:    stats.NewWindowedAdder(window, successRateSlices, o.clock),
		backoff:    bo,
	}
}

func (p *SuccessRateOverTimeWindow) RecordSuccess() {
	p.rate.Update(1.0)
	p.samples.Add(1)
}

func (p *SuccessRateOverTimeWindow) MarkDeadOnFailure() (time.Duration, bool) {
	// The sample threshold is checked against the outcomes seen before
	// this failure: the estimate needs minSamples of history behind it.
	seen := p.samples.Sum()
	rate := p.rate.Update(0.0)
	p.samples.Add(1)

	if p.tripped {
		return 0, false
	}
	if seen >= int64(p.minSamples) && rate < p.minRate {
		p.tripped = true
		return p.backoff.Next(), true
	}
	return 0, false
}

func (p *SuccessRateOverTimeWindow) Revived() {
	p.tripped = false
	p.rate.Reset()
	p.samples.Reset()
	p.backoff.Reset()
}
