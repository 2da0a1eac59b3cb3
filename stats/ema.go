// Package stats holds the time-decayed aggregates behind the success-rate
// failure policy: an exponentially weighted moving average and a sliding
// window counter.
package stats

import (
	"math"
	"time"

	"github.com/vortex-fintech/resilience/clock"
)

// EMA is an exponential moving average with a time-based decay window.
//
// The weight of each update depends on how much time passed since the
// previous one: alpha = 1 - exp(-dt/window). With a frozen clock dt is
// zero and updates carry no weight.
//
// EMA is not safe for concurrent use; callers serialize access.
type EMA struct {
	window time.Duration
	clk    clock.Clock
	value  float64
	at     time.Time
}

// NewEMA creates an average decaying over the given window. A nil clk
// falls back to clock.Default.
func NewEMA(window time.Duration, clk clock.Clock) *EMA {
	if window <= 0 {
		panic("stats: ema window must be positive")
	}
	if clk == nil {
		clk = clock.Default
	}
	return &EMA{window: window, clk: clk, at: clk.Now()}
}

// Update folds sample into the average and returns the new value.
func (e *EMA) Update(sample float64) float64 {
	now := e.clk.Now()
	dt := now.Sub(e.at)
	alpha := 1 - math.Exp(-dt.Seconds()/e.window.Seconds())
	e.value += alpha * (sample - e.value)
	e.at = now
	return e.value
}

// Value returns the current average.
func (e *EMA) Value() float64 { return e.value }

// Reset zeroes the average and restarts decay from the current time.
func (e *EMA) Reset() {
	e.value = 0
	e.at = e.clk.Now()
}
