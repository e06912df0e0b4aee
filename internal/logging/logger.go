// Package logging wraps zap for the application's structured logs.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/javiermolinar/eventide/internal/config"
)

// Logger wraps zap.SugaredLogger with application helpers.
type Logger struct {
	*zap.SugaredLogger
}

// New creates a logger from the [log] config section.
// An empty File logs to stderr so stdout stays free for command output.
func New(cfg config.LogConfig) (*Logger, error) {
	var zapConfig zap.Config
	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.DisableStacktrace = true
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	if cfg.File != "" {
		zapConfig.OutputPaths = []string{cfg.File}
		zapConfig.ErrorOutputPaths = []string{cfg.File}
	} else {
		zapConfig.OutputPaths = []string{"stderr"}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	}

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// WithFields adds structured fields to the logger.
func (l *Logger) WithFields(fields ...any) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(fields...)}
}

// WithComponent tags every entry with the component name.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithFields("component", component)
}

// WithError adds an error field to the logger.
func (l *Logger) WithError(err error) *Logger {
	return l.WithFields("error", err.Error())
}

// LogHTTPRequest records one served request.
func (l *Logger) LogHTTPRequest(method, uri, requestID string, status int, latencyMS float64) {
	l.Infow("HTTP request",
		"method", method,
		"uri", uri,
		"status", status,
		"latency_ms", latencyMS,
		"request_id", requestID,
	)
}

// Close flushes any buffered log entries.
func (l *Logger) Close() error {
	return l.Sync()
}
