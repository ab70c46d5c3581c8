// Package logging provides the process-wide zap logger and the field
// helpers every pricing component logs with.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger instance
var Logger *zap.Logger

// Config contains logging configuration
type Config struct {
	// Level is the minimum log level; unknown levels mean info
	Level string `json:"level"`

	// Format is console or json
	Format string `json:"format"`

	// Output is stdout, stderr, discard, or a file path
	Output string `json:"output"`

	// Development adds stack traces to error logs
	Development bool `json:"development"`
}

// DefaultConfig logs info and above to stderr in console format.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: "stderr",
	}
}

// Initialize replaces the global logger according to cfg. The previous
// logger stays in place when the output cannot be opened.
func Initialize(cfg Config) error {
	sink, err := openSink(cfg.Output)
	if err != nil {
		return err
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.ErrorLevel))
	}
	Use(zap.New(zapcore.NewCore(newEncoder(cfg.Format), sink, level), opts...))
	return nil
}

func newEncoder(format string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "timestamp"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder

	if strings.EqualFold(format, "json") {
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(ec)
}

func openSink(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr", "":
		return zapcore.Lock(os.Stderr), nil
	case "discard":
		return zapcore.AddSync(io.Discard), nil
	}
	f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(f), nil
}

// Use replaces the global logger, mainly for tests.
func Use(l *zap.Logger) {
	Logger = l
}

// Sync flushes the logger
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Component returns a named child of the global logger, e.g. "api".
func Component(name string) *zap.Logger {
	return Logger.Named(name).With(zap.String("component", name))
}

// Usage is the field used for a usage value in data points.
func Usage(v int64) zap.Field {
	return zap.Int64("usage", v)
}

// Tier is the field used for a tier ID.
func Tier(id string) zap.Field {
	return zap.String("tier", id)
}

// Model is the field used for the pricing model kind.
func Model(kind string) zap.Field {
	return zap.String("model", kind)
}

// RequestID is the field used for an API request ID.
func RequestID(id string) zap.Field {
	return zap.String("request_id", id)
}

// Debug logs at debug level
func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

// Info logs at info level
func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

// Warn logs at warn level
func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

// Error logs at error level
func Error(msg string, fields ...zap.Field) {
	Logger.Error(msg, fields...)
}

func init() {
	_ = Initialize(DefaultConfig())
}
