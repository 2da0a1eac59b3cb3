package circuitbreaker

import "iter"

// WrapSeq guards a stream of results with the breaker.
//
// Before each element the wrapper asks for admission. While denied it
// yields (zero, ErrRejected) without pulling from upstream, so no work is
// demanded from the failing source; once admission resumes, elements flow
// again and their outcomes are recorded the same way Call records them.
// The wrapped stream ends when upstream ends.
func WrapSeq[T any](cb *CircuitBreaker, src iter.Seq2[T, error]) iter.Seq2[T, error] {
	return WrapSeqWith(cb, Any, src)
}

// WrapSeqWith is WrapSeq with an explicit failure predicate.
func WrapSeqWith[T any](cb *CircuitBreaker, pred FailurePredicate, src iter.Seq2[T, error]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		next, stop := iter.Pull2(src)
		defer stop()

		for {
			if !cb.IsCallPermitted() {
				var zero T
				if !yield(zero, ErrRejected) {
					return
				}
				continue
			}

			v, err, ok := next()
			if !ok {
				return
			}
			if err == nil {
				cb.OnSuccess()
			} else if pred(err) {
				cb.OnError()
			} else {
				cb.OnSuccess()
			}
			if !yield(v, err) {
				return
			}
		}
	}
}
