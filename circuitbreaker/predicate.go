package circuitbreaker

// FailurePredicate decides whether an error from the protected work counts
// as a failure toward tripping the breaker. Returning false records the
// call as a success — the error is still returned to the caller either way.
type FailurePredicate func(error) bool

// Any classifies every error as a failure. It is the default predicate.
func Any(error) bool { return true }
