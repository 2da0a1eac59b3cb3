// Package prommetrics implements the circuit breaker Instrument interface
// using Prometheus. Register it with your metrics handler to expose
// breaker state and rejection statistics.
package prommetrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Gauge values for circuit_breaker_state.
const (
	stateClosedValue   = 0
	stateOpenValue     = 1
	stateHalfOpenValue = 2
)

// PromInstrument exports breaker events as Prometheus metrics.
//
// Metrics registered (all labeled with the breaker name):
//   - {namespace}_circuit_breaker_state{breaker} - gauge: 0 closed, 1 open, 2 half-open
//   - {namespace}_circuit_breaker_transitions_total{breaker, state} - transitions by target state
//   - {namespace}_circuit_breaker_calls_rejected_total{breaker} - rejected admission checks
//
// Several breakers may share one registry: the collectors are reused and
// the breaker label keeps the series apart.
type PromInstrument struct {
	name        string
	state       *prometheus.GaugeVec
	transitions *prometheus.CounterVec
	rejected    *prometheus.CounterVec
}

// registerGaugeVec registers gv, reusing a previously registered twin.
func registerGaugeVec(reg prometheus.Registerer, gv *prometheus.GaugeVec) (*prometheus.GaugeVec, error) {
	if err := reg.Register(gv); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(*prometheus.GaugeVec), nil
		}
		return nil, fmt.Errorf("register collector: %w", err)
	}
	return gv, nil
}

// registerCounterVec registers cv, reusing a previously registered twin.
func registerCounterVec(reg prometheus.Registerer, cv *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(cv); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(*prometheus.CounterVec), nil
		}
		return nil, fmt.Errorf("register collector: %w", err)
	}
	return cv, nil
}

// New creates a PromInstrument for the named breaker and registers its
// collectors with reg. Returns an error if reg is nil or registration
// fails.
func New(reg prometheus.Registerer, namespace, name string) (*PromInstrument, error) {
	if reg == nil {
		return nil, errors.New("prometheus registerer is nil")
	}

	state := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_state",
		Help:      "Current breaker state: 0 closed, 1 open, 2 half-open",
	}, []string{"breaker"})

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_transitions_total",
		Help:      "Breaker transitions by target state",
	}, []string{"breaker", "state"})

	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_calls_rejected_total",
		Help:      "Admission checks denied while the breaker was open",
	}, []string{"breaker"})

	var err error
	if state, err = registerGaugeVec(reg, state); err != nil {
		return nil, err
	}
	if transitions, err = registerCounterVec(reg, transitions); err != nil {
		return nil, err
	}
	if rejected, err = registerCounterVec(reg, rejected); err != nil {
		return nil, err
	}

	p := &PromInstrument{name: name, state: state, transitions: transitions, rejected: rejected}
	p.state.WithLabelValues(name).Set(stateClosedValue)
	return p, nil
}

func (p *PromInstrument) OnCallRejected() {
	p.rejected.WithLabelValues(p.name).Inc()
}

func (p *PromInstrument) OnOpen() {
	p.state.WithLabelValues(p.name).Set(stateOpenValue)
	p.transitions.WithLabelValues(p.name, "open").Inc()
}

func (p *PromInstrument) OnHalfOpen() {
	p.state.WithLabelValues(p.name).Set(stateHalfOpenValue)
	p.transitions.WithLabelValues(p.name, "half_open").Inc()
}

func (p *PromInstrument) OnClosed() {
	p.state.WithLabelValues(p.name).Set(stateClosedValue)
	p.transitions.WithLabelValues(p.name, "closed").Inc()
}
