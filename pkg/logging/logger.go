package logging

import (
	"bytes"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel defines the severity of the message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// Logger interface defines logging operations
//
//go:generate mockery --name=Logger --output=./mocks
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	SetOutput(w io.Writer)
	SetLevel(level LogLevel)
}

// DefaultLogger is a Logger backed by a zap console logger
type DefaultLogger struct {
	level zap.AtomicLevel
	sugar *zap.SugaredLogger
}

// NewDefaultLogger creates a new logger writing to stderr at INFO level.
// stdout is left free for synthesized templates and reports.
func NewDefaultLogger() *DefaultLogger {
	l := &DefaultLogger{level: zap.NewAtomicLevelAt(INFO.zapLevel())}
	l.SetOutput(os.Stderr)
	return l
}

// NewMockLogger returns a convenient mock logger for testing
func NewMockLogger() *DefaultLogger {
	l := NewDefaultLogger()
	l.SetOutput(bytes.NewBufferString(""))
	return l
}

// Debug logs debug messages
func (l *DefaultLogger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info logs informational messages
func (l *DefaultLogger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn logs warning messages
func (l *DefaultLogger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error logs error messages
func (l *DefaultLogger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// SetOutput sets the output destination for the logger
func (l *DefaultLogger) SetOutput(w io.Writer) {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("[2006/01/02 15:04:05]")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), l.level)
	l.sugar = zap.New(core).Sugar()
}

// SetLevel sets the logging level
func (l *DefaultLogger) SetLevel(level LogLevel) {
	l.level.SetLevel(level.zapLevel())
}

// Sync flushes any buffered log entries
func (l *DefaultLogger) Sync() error {
	return l.sugar.Sync()
}

func (level LogLevel) zapLevel() zapcore.Level {
	switch level {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// StringToLogLevel converts a string representation to a LogLevel
func StringToLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}
