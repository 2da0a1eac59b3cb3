package policy

import (
	"time"

	"github.com/vortex-fintech/resilience/backoff"
)

// ConsecutiveFailures trips after a run of failures with no success in
// between. Every success resets the run; every failure at or past the
// threshold emits the next backoff delay. The run length is only zeroed
// by a success or by Revived.
type ConsecutiveFailures struct {
	required    uint32
	consecutive uint32
	backoff     backoff.Backoff
}

// NewConsecutiveFailures creates a policy tripping on the required-th
// consecutive failure.
func NewConsecutiveFailures(required uint32, bo backoff.Backoff) *ConsecutiveFailures {
	if required == 0 {
		panic("policy: required consecutive failures must be positive")
	}
	return &ConsecutiveFailures{required: required, backoff: bo}
}

func (p *ConsecutiveFailures) RecordSuccess() {
	p.consecutive = 0
}

func (p *ConsecutiveFailures) MarkDeadOnFailure() (time.Duration, bool) {
	p.consecutive++
	if p.consecutive >= p.required {
		return p.backoff.Next(), true
	}
	return 0, false
}

func (p *ConsecutiveFailures) Revived() {
	p.consecutive = 0
	p.backoff.Reset()
}
