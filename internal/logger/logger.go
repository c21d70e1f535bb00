package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// File backed debug logging. The terminal belongs to the screen while
// the loop runs, so nothing is ever written to stdout/stderr.
type Logger struct {
	base    *zap.Logger
	sugar   *zap.SugaredLogger
	enabled bool
}

// Creates a new logger writing to path at the given level
func New(path, level string) (*Logger, error) {
	if path == "" {
		return Noop(), nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(lvl),
		Encoding:          "console",
		EncoderConfig:     encCfg,
		OutputPaths:       []string{path},
		ErrorOutputPaths:  []string{path},
		DisableStacktrace: true,
	}

	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		base:    base,
		sugar:   base.Sugar(),
		enabled: true,
	}, nil
}

// returns a no-op logger
func Noop() *Logger {
	base := zap.NewNop()
	return &Logger{base: base, sugar: base.Sugar()}
}

// Writes an info message
func (l *Logger) Log(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.sugar.Errorf(format, args...)
}

// Returns a child logger tagged with a component name
func (l *Logger) Named(component string) *Logger {
	base := l.base.Named(component)
	return &Logger{base: base, sugar: base.Sugar(), enabled: l.enabled}
}

// Flushes the log file
func (l *Logger) Close() {
	_ = l.base.Sync()
}

// Returns whether logging is enabled
func (l *Logger) IsEnabled() bool {
	return l.enabled
}
