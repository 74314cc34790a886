package logger

// Logger is the operator-facing output used by every component. Lines are
// human readable status messages, not a parseable log format.
type Logger interface {
	Log(format string)
	Logf(format string, v ...any)

	Warn(format string)
	Warnf(format string, v ...any)

	Debug(format string)
	Debugf(format string, v ...any)

	Error(format string)
	Errorf(format string, v ...any)

	Fatal(format string)
	Fatalf(format string, v ...any)
}
