package circuitbreaker_test

import (
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vortex-fintech/resilience/circuitbreaker"
	"github.com/vortex-fintech/resilience/clock"
)

func seqOf(items ...any) iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		for _, it := range items {
			switch v := it.(type) {
			case int:
				if !yield(v, nil) {
					return
				}
			case error:
				if !yield(0, v) {
					return
				}
			}
		}
	}
}

func TestWrapSeqPassesThrough(t *testing.T) {
	cb := newBreaker(3)

	var got []int
	for v, err := range circuitbreaker.WrapSeq(cb, seqOf(1, 2, 3)) {
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, circuitbreaker.StateClosed, cb.State())
}

func TestWrapSeqEndsWithUpstream(t *testing.T) {
	cb := newBreaker(3)

	n := 0
	for range circuitbreaker.WrapSeq(cb, seqOf()) {
		n++
	}
	assert.Zero(t, n)
}

func TestWrapSeqTripsAndYieldsRejected(t *testing.T) {
	cb := newBreaker(1)

	var errs []error
	var pulled int
	src := func(yield func(int, error) bool) {
		pulled++
		if !yield(0, errBoom) {
			return
		}
		// Anything past the first element would mean the wrapper kept
		// pulling from a source the breaker already gave up on.
		pulled++
		yield(1, nil)
	}

	count := 0
	for _, err := range circuitbreaker.WrapSeqWith(cb, circuitbreaker.Any, src) {
		errs = append(errs, err)
		count++
		if count == 3 {
			break
		}
	}

	require.Len(t, errs, 3)
	assert.ErrorIs(t, errs[0], errBoom)
	assert.ErrorIs(t, errs[1], circuitbreaker.ErrRejected)
	assert.ErrorIs(t, errs[2], circuitbreaker.ErrRejected)
	assert.Equal(t, 1, pulled, "upstream must stay untouched while open")
}

func TestWrapSeqRecovers(t *testing.T) {
	mock := clock.NewMock(time.Date(2025, 10, 11, 12, 0, 0, 0, time.UTC))
	cb := newBreaker(1, circuitbreaker.WithClock(mock))

	results := make([]error, 0, 3)
	for _, err := range circuitbreaker.WrapSeq(cb, seqOf(errBoom, 7, 8)) {
		results = append(results, err)
		if len(results) == 1 {
			// Tripped; let the open interval pass before the next pull.
			mock.Advance(6 * time.Second)
		}
		if len(results) == 3 {
			break
		}
	}

	require.Len(t, results, 3)
	assert.ErrorIs(t, results[0], errBoom)
	assert.NoError(t, results[1])
	assert.NoError(t, results[2])
	assert.Equal(t, circuitbreaker.StateClosed, cb.State())
}

func TestWrapSeqPredicate(t *testing.T) {
	cb := newBreaker(1)
	benign := func(error) bool { return false }

	var errs int
	for _, err := range circuitbreaker.WrapSeqWith(cb, benign, seqOf(errBoom, 1, errBoom, 2)) {
		if err != nil {
			errs++
		}
	}
	assert.Equal(t, 2, errs)
	assert.Equal(t, circuitbreaker.StateClosed, cb.State())
}
