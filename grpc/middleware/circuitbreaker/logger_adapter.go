package circuitbreaker

import "github.com/vortex-fintech/resilience/logger"

// LibLoggerAdapter bridges the library logger facade to the interceptor's
// minimal Logger interface.
type LibLoggerAdapter struct{ L logger.LoggerInterface }

func (a LibLoggerAdapter) Info(msg string)  { a.L.Info(msg) }
func (a LibLoggerAdapter) Warn(msg string)  { a.L.Warn(msg) }
func (a LibLoggerAdapter) Error(msg string) { a.L.Error(msg) }

// WithLibLogger attaches a logger.LoggerInterface to the interceptor.
func WithLibLogger(l logger.LoggerInterface) Option {
	return WithLogger(LibLoggerAdapter{L: l})
}
