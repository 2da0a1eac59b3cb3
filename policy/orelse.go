package policy

import "time"

// OrElse composes two policies into one that trips when either child does.
//
// On failure the first policy is consulted first; when it emits a delay
// the second still records the failure for bookkeeping but its answer is
// discarded. Successes and revivals fan out to both children.
func OrElse(a, b FailurePolicy) FailurePolicy {
	return &orElse{a: a, b: b}
}

type orElse struct {
	a, b FailurePolicy
}

func (p *orElse) RecordSuccess() {
	p.a.RecordSuccess()
	p.b.RecordSuccess()
}

func (p *orElse) MarkDeadOnFailure() (time.Duration, bool) {
	if d, ok := p.a.MarkDeadOnFailure(); ok {
		p.b.MarkDeadOnFailure()
		return d, true
	}
	return p.b.MarkDeadOnFailure()
}

func (p *orElse) Revived() {
	p.a.Revived()
	p.b.Revived()
}
