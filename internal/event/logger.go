package event

// Logger receives recoverable problems found while reading event data.
// *zap.SugaredLogger satisfies it.
type Logger interface {
	Warnw(msg string, keysAndValues ...any)
}

type nopLogger struct{}

func (nopLogger) Warnw(string, ...any) {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger {
	return nopLogger{}
}
