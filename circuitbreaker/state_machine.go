// Package circuitbreaker implements a client-side circuit breaker: a
// three-state machine (closed, open, half-open) that watches call outcomes
// and short-circuits callers while a failing dependency cools down.
//
// The state machine itself knows nothing about the protected backend. It
// learns from OnSuccess and OnError events reported by the caller, asks
// its failure policy when to trip and for how long, and gates admission
// through IsCallPermitted. The open interval is evaluated lazily on
// admission checks; there are no background timers.
package circuitbreaker

import (
	"sync"
	"time"

	"github.com/vortex-fintech/resilience/clock"
	"github.com/vortex-fintech/resilience/policy"
)

// Breaker state identifiers, as reported by State().
const (
	StateClosed   = "closed"
	StateOpen     = "open"
	StateHalfOpen = "half_open"
)

type stateKind uint8

const (
	stateClosed stateKind = iota
	stateOpen
	stateHalfOpen
)

// StateMachine is the core of the breaker. All three event methods may be
// called concurrently; a single mutex linearizes them, and instrument
// callbacks fire after the critical section so observers never run under
// the lock.
type StateMachine struct {
	clk        clock.Clock
	policy     policy.FailurePolicy
	instrument Instrument

	mu    sync.Mutex
	kind  stateKind
	until time.Time     // earliest admission while open
	delay time.Duration // current open interval, kept for reopens
}

// NewStateMachine creates a closed state machine. A nil instrument is
// replaced with NopInstrument, a nil clk with clock.Default.
func NewStateMachine(p policy.FailurePolicy, ins Instrument, clk clock.Clock) *StateMachine {
	if p == nil {
		panic("circuitbreaker: failure policy is nil")
	}
	if ins == nil {
		ins = NopInstrument{}
	}
	if clk == nil {
		clk = clock.Default
	}
	return &StateMachine{clk: clk, policy: p, instrument: ins}
}

// IsCallPermitted requests permission to call the protected backend.
//
// Closed and half-open admit every caller. Open admits nobody until the
// cooling interval elapses; the first check past the deadline flips the
// breaker to half-open and is admitted as the recovery probe. Every
// concurrent caller that asks while half-open is admitted: serializing
// recovery would itself become a queue.
func (m *StateMachine) IsCallPermitted() bool {
	var ev func()

	m.mu.Lock()
	permitted := true
	switch m.kind {
	case stateOpen:
		if m.clk.Now().After(m.until) {
			m.kind = stateHalfOpen
			m.until = time.Time{}
			ev = m.instrument.OnHalfOpen
		} else {
			permitted = false
			ev = m.instrument.OnCallRejected
		}
	case stateClosed, stateHalfOpen:
	}
	m.mu.Unlock()

	if ev != nil {
		ev()
	}
	return permitted
}

// OnSuccess records a successful call. A half-open breaker closes and
// revives its policy before the success is forwarded to it.
func (m *StateMachine) OnSuccess() {
	var ev func()

	m.mu.Lock()
	if m.kind == stateHalfOpen {
		m.kind = stateClosed
		m.delay = 0
		m.policy.Revived()
		ev = m.instrument.OnClosed
	}
	m.policy.RecordSuccess()
	m.mu.Unlock()

	if ev != nil {
		ev()
	}
}

// OnError records a failed call.
//
// While closed, the failure goes to the policy; a proposed delay trips the
// breaker. While half-open, the breaker reopens — with the policy's new
// delay when it proposes one, otherwise with the previous delay unchanged
// (the backoff sequence holds its position). Failures while open are
// stale outcomes of calls admitted earlier and are ignored.
func (m *StateMachine) OnError() {
	var ev func()

	m.mu.Lock()
	switch m.kind {
	case stateClosed:
		if d, ok := m.policy.MarkDeadOnFailure(); ok {
			m.trip(d)
			ev = m.instrument.OnOpen
		}
	case stateHalfOpen:
		d, ok := m.policy.MarkDeadOnFailure()
		if !ok {
			d = m.delay
		}
		m.trip(d)
		ev = m.instrument.OnOpen
	case stateOpen:
	}
	m.mu.Unlock()

	if ev != nil {
		ev()
	}
}

// Reset returns the breaker to closed, losing all accumulated statistics.
func (m *StateMachine) Reset() {
	m.mu.Lock()
	m.kind = stateClosed
	m.until = time.Time{}
	m.delay = 0
	m.policy.Revived()
	m.mu.Unlock()

	m.instrument.OnClosed()
}

// State reports the current state: StateClosed, StateOpen or StateHalfOpen.
func (m *StateMachine) State() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.kind {
	case stateOpen:
		return StateOpen
	case stateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}

// trip moves to open for d. Caller holds the lock.
func (m *StateMachine) trip(d time.Duration) {
	m.kind = stateOpen
	m.delay = d
	m.until = m.clk.Now().Add(d)
}
