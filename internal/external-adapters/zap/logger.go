// Package zap adapts go.uber.org/zap to the domain Logger interface.
package zap

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/khronokernel/dcbuild/internal/domain/interfaces"
)

// Logger implements interfaces.Logger on top of a zap.Logger
type Logger struct {
	zap *zap.Logger
}

// NewLogger creates a console logger writing to os.Stderr at info level.
func NewLogger() *Logger {
	return NewLoggerWithWriter(os.Stderr, zapcore.InfoLevel)
}

// NewLoggerWithWriter creates a console logger writing to w at level.
func NewLoggerWithWriter(w io.Writer, level zapcore.Level) *Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "message",
		EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05"),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		level,
	)
	return &Logger{zap: zap.New(core)}
}

// FromZap wraps an existing zap logger.
func FromZap(l *zap.Logger) *Logger {
	return &Logger{zap: l}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...interfaces.Field) {
	l.zap.Debug(msg, toZap(fields)...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...interfaces.Field) {
	l.zap.Info(msg, toZap(fields)...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...interfaces.Field) {
	l.zap.Warn(msg, toZap(fields)...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...interfaces.Field) {
	l.zap.Error(msg, toZap(fields)...)
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

func toZap(fields []interfaces.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			out = append(out, zap.NamedError(f.Key, err))
			continue
		}
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}
