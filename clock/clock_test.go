package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vortex-fintech/resilience/clock"
)

func TestWallClockNow(t *testing.T) {
	var c clock.WallClock
	before := time.Now()
	got := c.Now()
	assert.False(t, got.Before(before))
}

func TestMockAdvance(t *testing.T) {
	start := time.Date(2025, 10, 11, 12, 0, 0, 0, time.UTC)
	m := clock.NewMock(start)
	assert.Equal(t, start, m.Now())

	m.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), m.Now())
}

func TestMockAdvanceNegativePanics(t *testing.T) {
	m := clock.NewMock(time.Now())
	assert.Panics(t, func() { m.Advance(-time.Second) })
}

func TestFreezeOverridesDefault(t *testing.T) {
	clock.Freeze(func(m *clock.Mock) {
		t0 := clock.Now()
		assert.Equal(t, t0, clock.Now(), "frozen clock must not move on its own")

		m.Advance(5 * time.Second)
		assert.Equal(t, t0.Add(5*time.Second), clock.Now())
		assert.Equal(t, t0.Add(5*time.Second), clock.Default.Now())
	})
}

func TestFreezeNestedPanics(t *testing.T) {
	clock.Freeze(func(*clock.Mock) {
		assert.Panics(t, func() {
			clock.Freeze(func(*clock.Mock) {})
		})
	})
}

func TestFreezeRemovedOnPanic(t *testing.T) {
	require.Panics(t, func() {
		clock.Freeze(func(*clock.Mock) { panic("boom") })
	})

	// The override must be gone: a new freeze succeeds.
	assert.NotPanics(t, func() {
		clock.Freeze(func(*clock.Mock) {})
	})
}

func TestFreezeRestoresWallClock(t *testing.T) {
	clock.Freeze(func(m *clock.Mock) {
		m.Advance(time.Hour)
	})
	got := clock.Now()
	assert.WithinDuration(t, time.Now(), got, time.Minute)
}
