package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger creates a zap backed logger. Production encoding (json) is used
// unless dev is true.
func NewLogger(level int, dev bool) *defaultLogger {
	if level >= SILENCE {
		return &defaultLogger{sugar: zap.NewNop().Sugar()}
	}

	cfg := zap.NewProductionConfig()
	if dev {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	cfg.DisableStacktrace = true

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return &defaultLogger{sugar: zap.NewNop().Sugar()}
	}

	return &defaultLogger{sugar: l.Sugar()}
}

// ParseLevel converts a level name from the configuration to a level. Unknown
// names fall back to INFO.
func ParseLevel(name string) int {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARNING
	case "error":
		return ERROR
	case "silence", "off":
		return SILENCE
	default:
		return INFO
	}
}

func zapLevel(level int) zapcore.Level {
	switch level {
	case DEBUG:
		return zapcore.DebugLevel
	case WARNING:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	l.sugar.Debugf(msg, a...)
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	l.sugar.Infof(msg, a...)
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	l.sugar.Warnf(msg, a...)
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	l.sugar.Errorf(msg, a...)
}

func (l *defaultLogger) Sync() error {
	return l.sugar.Sync()
}
