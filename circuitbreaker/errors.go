package circuitbreaker

import "errors"

// ErrRejected is returned when the breaker denies admission: the breaker
// is open and the cooling interval has not elapsed. It carries no payload.
//
// Errors from the protected work itself are returned unchanged, so the
// caller's errors.Is/errors.As checks keep working.
var ErrRejected = errors.New("circuitbreaker: call rejected")
