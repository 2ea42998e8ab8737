package internal

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents different logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// Logger provides leveled, printf-style logging on top of zap.
// Output goes to stderr so stdout stays reserved for the report summary.
type Logger struct {
	level LogLevel
	sugar *zap.SugaredLogger
}

// NewLogger creates a new logger with the specified level
func NewLogger(level LogLevel) *Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		zapLevel(level),
	)
	return &Logger{level: level, sugar: zap.New(core).Sugar()}
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() *Logger {
	return &Logger{level: LogLevelError, sugar: zap.NewNop().Sugar()}
}

// NewDefaultLogger creates a logger based on LOG_LEVEL environment variable
func NewDefaultLogger() *Logger {
	return NewLogger(ParseLogLevel(os.Getenv("LOG_LEVEL")))
}

// ParseLogLevel maps ERROR|WARN|INFO|DEBUG|TRACE to a LogLevel, defaulting to INFO
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LogLevelError
	case "WARN":
		return LogLevelWarn
	case "DEBUG":
		return LogLevelDebug
	case "TRACE":
		return LogLevelTrace
	default:
		return LogLevelInfo
	}
}

func zapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LogLevelError {
		l.sugar.Errorf(format, args...)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LogLevelWarn {
		l.sugar.Warnf(format, args...)
	}
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LogLevelInfo {
		l.sugar.Infof(format, args...)
	}
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LogLevelDebug {
		l.sugar.Debugf(format, args...)
	}
}

// Trace logs trace messages
func (l *Logger) Trace(format string, args ...interface{}) {
	if l.level >= LogLevelTrace {
		l.sugar.Debugf("[TRACE] "+format, args...)
	}
}

// Sync flushes buffered log entries
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

// Global logger instance
var DefaultLogger = NewDefaultLogger()
