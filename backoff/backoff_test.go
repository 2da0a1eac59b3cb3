package backoff_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vortex-fintech/resilience/backoff"
)

func TestConstant(t *testing.T) {
	b := backoff.Constant(5 * time.Second)
	for i := 0; i < 4; i++ {
		assert.Equal(t, 5*time.Second, b.Next())
	}
	b.Reset()
	assert.Equal(t, 5*time.Second, b.Next())
}

func TestExponentialDoublesAndSaturates(t *testing.T) {
	b := backoff.Exponential(5*time.Second, 300*time.Second)

	want := []time.Duration{
		5 * time.Second, 10 * time.Second, 20 * time.Second, 40 * time.Second,
		80 * time.Second, 160 * time.Second, 300 * time.Second, 300 * time.Second,
	}
	for i, w := range want {
		assert.Equal(t, w, b.Next(), "step %d", i)
	}
}

func TestExponentialRestart(t *testing.T) {
	b := backoff.Exponential(time.Second, time.Minute)
	b.Next()
	b.Next()
	b.Reset()
	assert.Equal(t, time.Second, b.Next())
	assert.Equal(t, 2*time.Second, b.Next())
}

func TestEqualJitteredBounds(t *testing.T) {
	max := 300 * time.Second
	b := backoff.EqualJittered(5*time.Second, max)

	expected := 5 * time.Second
	for i := 0; i < 12; i++ {
		v := b.Next()
		lo := expected / 2
		hi := expected
		if hi > max {
			hi = max
		}
		if lo > max {
			lo = max
		}
		assert.GreaterOrEqual(t, v, lo, "step %d", i)
		assert.LessOrEqual(t, v, hi, "step %d", i)
		if expected < max {
			expected *= 2
			if expected > max {
				expected = max
			}
		}
	}
}

func TestFullJitteredBounds(t *testing.T) {
	max := 300 * time.Second
	b := backoff.FullJittered(5*time.Second, max)

	expected := 5 * time.Second
	for i := 0; i < 12; i++ {
		v := b.Next()
		assert.GreaterOrEqual(t, v, time.Duration(0), "step %d", i)
		assert.LessOrEqual(t, v, expected, "step %d", i)
		if expected < max {
			expected *= 2
			if expected > max {
				expected = max
			}
		}
	}
}

func TestDecorrelatedJitteredBounds(t *testing.T) {
	start := 5 * time.Second
	max := 300 * time.Second
	b := backoff.DecorrelatedJittered(start, max)

	prev := start
	for i := 0; i < 20; i++ {
		v := b.Next()
		assert.GreaterOrEqual(t, v, start, "step %d", i)
		hi := prev * 3
		if hi > max {
			hi = max
		}
		assert.LessOrEqual(t, v, hi, "step %d", i)
		prev = v
	}
}

func TestDecorrelatedJitteredRestart(t *testing.T) {
	start := 5 * time.Second
	b := backoff.DecorrelatedJittered(start, 300*time.Second)
	for i := 0; i < 5; i++ {
		b.Next()
	}
	b.Reset()
	v := b.Next()
	assert.GreaterOrEqual(t, v, start)
	assert.LessOrEqual(t, v, 3*start)
}

func TestJitteredNeverExceedMax(t *testing.T) {
	max := 30 * time.Second
	seqs := []backoff.Backoff{
		backoff.EqualJittered(time.Second, max),
		backoff.FullJittered(time.Second, max),
		backoff.DecorrelatedJittered(time.Second, max),
	}
	for _, b := range seqs {
		for i := 0; i < 100; i++ {
			assert.LessOrEqual(t, b.Next(), max)
		}
	}
}
