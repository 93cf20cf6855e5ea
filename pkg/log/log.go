// Package log is the logger shared by runners, environments and the CLI.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var zapLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "lvl",
	NameKey:        "name",
	CallerKey:      "caller",
	MessageKey:     "message",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.RFC3339TimeEncoder,
	EncodeDuration: zapcore.SecondsDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// Logger is the subset of zap.SugaredLogger used in this module
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
}

// Default writes console-encoded logs to stderr.
var Default Logger = New("console")

// New builds a sugared zap logger sharing the package level. format is "json" or
// "console".
func New(format string) *zap.SugaredLogger {
	var encoder zapcore.Encoder
	if format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zap.New(
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), zapLevel),
		zap.AddCaller(),
	).Sugar()
}

// Nop discards everything; handy in tests.
func Nop() Logger {
	return zap.NewNop().Sugar()
}

// SetLevel sets the level of every logger built by this package.
// Unknown levels fall back to info.
func SetLevel(level string) {
	switch level {
	case LevelDebug:
		zapLevel.SetLevel(zapcore.DebugLevel)
	case LevelWarn:
		zapLevel.SetLevel(zapcore.WarnLevel)
	case LevelError:
		zapLevel.SetLevel(zapcore.ErrorLevel)
	default:
		zapLevel.SetLevel(zapcore.InfoLevel)
	}
}

// Configure sets the level and replaces Default with a logger in the given format.
func Configure(level, format string) {
	SetLevel(level)
	Default = New(format)
}

func Debugf(format string, args ...any) { Default.Debugf(format, args...) }

func Infof(format string, args ...any) { Default.Infof(format, args...) }

func Warnf(format string, args ...any) { Default.Warnf(format, args...) }

func Errorf(format string, args ...any) { Default.Errorf(format, args...) }
