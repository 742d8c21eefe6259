package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a config string to a zap level; unknown values mean debug.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.DebugLevel
	}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.NameKey = "logger"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = ", "
	return cfg
}

// New builds a logger writing to a log file truncated on every start (at the
// given level) and to stderr (at info and above).
// An empty path disables the file sink.
func New(level, path string) (*zap.Logger, error) {
	var file io.Writer = io.Discard
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, err
		}
		file = f
	}
	return NewWithWriters(ParseLevel(level), file, os.Stderr), nil
}

// NewWithWriters tees a file core and a console core.
func NewWithWriters(fileLevel zapcore.Level, file, console io.Writer) *zap.Logger {
	enc := zapcore.NewConsoleEncoder(encoderConfig())
	core := zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.AddSync(file), fileLevel),
		zapcore.NewCore(enc.Clone(), zapcore.Lock(zapcore.AddSync(console)), zap.InfoLevel),
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.DPanicLevel)).Named("homework-bot")
}
