package logger

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds configuration for the engine logger.
type Config struct {
	// Environment is "development" (console encoder, debug stack traces) or anything else (JSON).
	Environment string
	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string
	// SessionID tags every entry. A random UUID is generated when empty.
	SessionID string
}

// New builds a zap logger from cfg. The returned logger carries a "session" field so that every
// line from one page session can be correlated.
//
// Parameters:
//   - cfg: logger configuration
//
// Returns:
//   - *zap.Logger: the configured logger
//   - error: error if zap fails to build its sinks
func New(cfg Config) (*zap.Logger, error) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.SessionID == "" {
		cfg.SessionID = NewSessionID()
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	encoding := "json"
	if cfg.Environment == "development" {
		encoding = "console"
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config := zap.Config{
		Level:            Level(cfg.LogLevel),
		Development:      cfg.Environment == "development",
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	l, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l.With(zap.String("session", cfg.SessionID)), nil
}

// NewSessionID returns a fresh random identifier for one page session.
func NewSessionID() string {
	return uuid.NewString()
}

// Level converts a string log level to a zap.AtomicLevel. Unknown values map to info.
func Level(level string) zap.AtomicLevel {
	switch level {
	case "debug":
		return zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
