package log

import "go.uber.org/zap"

// Logger is a minimal interface compatible with stdlib loggers.
type Logger interface {
	Printf(format string, v ...interface{})
}

// NoopLogger discards all log messages.
type NoopLogger struct{}

func (NoopLogger) Printf(string, ...interface{}) {}

// NewZapPrintf adapts a zap logger to the Printf interface so wire-level
// debug output can share the client's structured logger.
func NewZapPrintf(l *zap.Logger) Logger {
	if l == nil {
		return NoopLogger{}
	}
	return zapPrintf{sugar: l.Sugar()}
}

type zapPrintf struct {
	sugar *zap.SugaredLogger
}

func (z zapPrintf) Printf(format string, v ...interface{}) {
	z.sugar.Debugf(format, v...)
}
