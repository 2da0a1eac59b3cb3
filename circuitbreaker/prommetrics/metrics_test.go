package prommetrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vortex-fintech/resilience/backoff"
	"github.com/vortex-fintech/resilience/circuitbreaker"
	"github.com/vortex-fintech/resilience/policy"
)

func TestPromInstrumentNilRegistry(t *testing.T) {
	_, err := New(nil, "vortex", "payments")
	require.Error(t, err)
}

func TestPromInstrumentCallbacks(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm, err := New(reg, "vortex", "payments")
	require.NoError(t, err)

	assert.Equal(t, 0.0, testutil.ToFloat64(pm.state.WithLabelValues("payments")))

	pm.OnOpen()
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.state.WithLabelValues("payments")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.transitions.WithLabelValues("payments", "open")))

	pm.OnCallRejected()
	pm.OnCallRejected()
	assert.Equal(t, 2.0, testutil.ToFloat64(pm.rejected.WithLabelValues("payments")))

	pm.OnHalfOpen()
	assert.Equal(t, 2.0, testutil.ToFloat64(pm.state.WithLabelValues("payments")))

	pm.OnClosed()
	assert.Equal(t, 0.0, testutil.ToFloat64(pm.state.WithLabelValues("payments")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.transitions.WithLabelValues("payments", "closed")))
}

func TestPromInstrumentSharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	a, err := New(reg, "vortex", "payments")
	require.NoError(t, err)
	b, err := New(reg, "vortex", "ledger")
	require.NoError(t, err)

	a.OnOpen()
	b.OnCallRejected()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.state.WithLabelValues("payments")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.state.WithLabelValues("ledger")))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.rejected.WithLabelValues("ledger")))
}

func TestPromInstrumentWiredIntoBreaker(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm, err := New(reg, "vortex", "fx")
	require.NoError(t, err)

	pol := policy.NewConsecutiveFailures(1, backoff.Constant(time.Minute))
	cb := circuitbreaker.New(
		circuitbreaker.WithFailurePolicy(pol),
		circuitbreaker.WithInstrument(pm),
	)

	cb.OnError()
	require.Equal(t, circuitbreaker.StateOpen, cb.State())
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.state.WithLabelValues("fx")))

	cb.IsCallPermitted()
	cb.IsCallPermitted()
	assert.Equal(t, 2.0, testutil.ToFloat64(pm.rejected.WithLabelValues("fx")))
}
