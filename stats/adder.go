package stats

import (
	"fmt"
	"time"

	"github.com/vortex-fintech/resilience/clock"
)

const (
	minSlices = 2
	maxSlices = 10
)

// WindowedAdder is an integer counter over a sliding time window.
//
// The window is split into a ring of equally sized slices; writes land in
// the slice covering the current moment and expire as the window slides
// past them. More slices mean finer expiry granularity at the cost of a
// slightly larger ring.
//
// WindowedAdder is not safe for concurrent use; callers serialize access.
type WindowedAdder struct {
	clk     clock.Clock
	width   time.Duration
	buckets []int64
	index   int
	last    time.Time
}

// NewWindowedAdder creates a counter covering window with the given number
// of slices. A nil clk falls back to clock.Default.
//
// Panics unless 2 <= slices <= 10 and window is at least slices
// milliseconds: out-of-range parameters are a programming error.
func NewWindowedAdder(window time.Duration, slices int, clk clock.Clock) *WindowedAdder {
	if slices < minSlices || slices > maxSlices {
		panic(fmt.Sprintf("stats: slices must be in [%d, %d], got %d", minSlices, maxSlices, slices))
	}
	if window < time.Duration(slices)*time.Millisecond {
		panic(fmt.Sprintf("stats: window %v too small for %d slices", window, slices))
	}
	if clk == nil {
		clk = clock.Default
	}
	return &WindowedAdder{
		clk:     clk,
		width:   window / time.Duration(slices),
		buckets: make([]int64, slices),
		last:    clk.Now(),
	}
}

// Add increments the counter by v.
func (w *WindowedAdder) Add(v int64) {
	w.expire()
	w.buckets[w.index] += v
}

// Sum returns the total over all live slices.
func (w *WindowedAdder) Sum() int64 {
	w.expire()
	var sum int64
	for _, b := range w.buckets {
		sum += b
	}
	return sum
}

// Reset zeroes the counter.
func (w *WindowedAdder) Reset() {
	for i := range w.buckets {
		w.buckets[i] = 0
	}
	w.index = 0
	w.last = w.clk.Now()
}

// expire advances the ring past slices the window has slid over, zeroing
// each one on the way. An idle stretch longer than the whole window zeroes
// every bucket exactly once.
func (w *WindowedAdder) expire() {
	now := w.clk.Now()
	elapsed := now.Sub(w.last)
	if elapsed < w.width {
		return
	}
	n := int(elapsed / w.width)
	if n > len(w.buckets) {
		n = len(w.buckets)
	}
	for i := 0; i < n; i++ {
		w.index = (w.index + 1) % len(w.buckets)
		w.buckets[w.index] = 0
	}
	w.last = now
}
