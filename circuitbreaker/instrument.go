package circuitbreaker

import "github.com/vortex-fintech/resilience/logger"

// Instrument observes state machine events. It gets no feedback channel
// into the core: implementations must be non-blocking, and a panicking
// instrument is a programming error the breaker does not recover from.
//
// Callbacks are invoked after the state transition is committed and the
// breaker's lock is released, in event order.
type Instrument interface {
	// OnCallRejected is called when an admission check is denied.
	OnCallRejected()
	// OnOpen is called when the breaker trips to open.
	OnOpen()
	// OnHalfOpen is called when the breaker starts probing recovery.
	OnHalfOpen()
	// OnClosed is called when the breaker returns to closed.
	OnClosed()
}

// NopInstrument ignores every event.
type NopInstrument struct{}

func (NopInstrument) OnCallRejected() {}
func (NopInstrument) OnOpen()         {}
func (NopInstrument) OnHalfOpen()     {}
func (NopInstrument) OnClosed()       {}

// Instruments fans events out to each element in order.
type Instruments []Instrument

func (in Instruments) OnCallRejected() {
	for _, i := range in {
		i.OnCallRejected()
	}
}

func (in Instruments) OnOpen() {
	for _, i := range in {
		i.OnOpen()
	}
}

func (in Instruments) OnHalfOpen() {
	for _, i := range in {
		i.OnHalfOpen()
	}
}

func (in Instruments) OnClosed() {
	for _, i := range in {
		i.OnClosed()
	}
}

// LogInstrument writes state transitions to a logger. Rejections are
// logged at debug level: while the breaker is open they arrive once per
// denied call.
type LogInstrument struct {
	Log  logger.LoggerInterface
	Name string
}

// NewLogInstrument creates a LogInstrument for the named breaker.
func NewLogInstrument(name string, log logger.LoggerInterface) *LogInstrument {
	if log == nil {
		log = logger.Nop()
	}
	return &LogInstrument{Log: log, Name: name}
}

func (l *LogInstrument) OnCallRejected() {
	l.Log.Debugw("circuit breaker rejected call", "breaker", l.Name)
}

func (l *LogInstrument) OnOpen() {
	l.Log.Errorw("circuit breaker opened", "breaker", l.Name)
}

func (l *LogInstrument) OnHalfOpen() {
	l.Log.Warnw("circuit breaker half-open, probing", "breaker", l.Name)
}

func (l *LogInstrument) OnClosed() {
	l.Log.Infow("circuit breaker closed", "breaker", l.Name)
}
