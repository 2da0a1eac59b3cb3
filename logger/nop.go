package logger

// Nop returns a logger that discards everything. Used as the default
// wherever a LoggerInterface is optional.
func Nop() LoggerInterface { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Info(...any)  {}
func (nopLogger) Warn(...any)  {}
func (nopLogger) Error(...any) {}
func (nopLogger) Debug(...any) {}

func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
func (nopLogger) Debugf(string, ...any) {}

func (nopLogger) Infow(string, ...any)  {}
func (nopLogger) Warnw(string, ...any)  {}
func (nopLogger) Errorw(string, ...any) {}
func (nopLogger) Debugw(string, ...any) {}

func (n nopLogger) With(...any) LoggerInterface { return n }
func (nopLogger) SafeSync()                     {}
