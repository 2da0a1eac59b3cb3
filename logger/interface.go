package logger

// LoggerInterface is the logging facade the resilience packages accept.
// The zap-backed Logger implements it; Nop discards everything.
type LoggerInterface interface {
	Info(...any)
	Warn(...any)
	Error(...any)
	Debug(...any)

	Infof(string, ...any)
	Warnf(string, ...any)
	Errorf(string, ...any)
	Debugf(string, ...any)

	Infow(string, ...any)
	Warnw(string, ...any)
	Errorw(string, ...any)
	Debugw(string, ...any)

	With(...any) LoggerInterface
	SafeSync()
}
