// Package logging provides structured logging utilities.
//
// The CLI and server initialise the process-wide logger from config; library
// packages take an injected *zap.Logger and fall back to zap.NewNop.
package logging

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config contains logging configuration
type Config struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `json:"level" mapstructure:"level"`

	// Format is console or json
	Format string `json:"format" mapstructure:"format"`

	// Output is stdout, stderr or a file path
	Output string `json:"output" mapstructure:"output"`

	// Development adds stack traces to error logs
	Development bool `json:"development" mapstructure:"development"`
}

// DefaultConfig keeps the CLI quiet: warnings and errors on stderr
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: FormatConsole,
		Output: "stderr",
	}
}

var (
	global atomic.Pointer[zap.Logger]

	// file is the log file opened by the last Initialize, if any
	fileMu sync.Mutex
	file   *os.File
)

// New builds a logger from cfg without touching the global instance.
// An unknown level falls back to info.
func New(cfg Config) (*zap.Logger, error) {
	logger, _, err := build(cfg)
	return logger, err
}

func build(cfg Config) (*zap.Logger, *os.File, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var (
		sink     zapcore.WriteSyncer
		logFile  *os.File
		terminal = true
	)
	switch cfg.Output {
	case "stdout":
		sink = os.Stdout
	case "stderr", "":
		sink = os.Stderr
	default:
		logFile, err = os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		sink = logFile
		terminal = false
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch cfg.Format {
	case FormatConsole, "":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		if terminal {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		encoder = zapcore.NewConsoleEncoder(encCfg)
	case FormatJSON:
		encoder = zapcore.NewJSONEncoder(encCfg)
	default:
		if logFile != nil {
			logFile.Close()
		}
		return nil, nil, fmt.Errorf("unknown log format %q (want console or json)", cfg.Format)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(sink), level)
	opts := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.ErrorLevel))
	}
	return zap.New(core, opts...), logFile, nil
}

// Initialize replaces the global logger. A log file opened by a previous
// Initialize is closed once the new logger is in place.
func Initialize(cfg Config) error {
	logger, logFile, err := build(cfg)
	if err != nil {
		return err
	}
	old := global.Swap(logger)
	if old != nil {
		_ = old.Sync()
	}

	fileMu.Lock()
	prev := file
	file = logFile
	fileMu.Unlock()
	if prev != nil {
		prev.Close()
	}
	return nil
}

// L returns the global logger
func L() *zap.Logger {
	return global.Load()
}

// Sync flushes the global logger
func Sync() {
	_ = L().Sync()
}

// With returns a logger with additional fields
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Named returns a child of the global logger scoped to a component
func Named(component string) *zap.Logger {
	return L().Named(component)
}

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { L().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { L().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }

func init() {
	if err := Initialize(DefaultConfig()); err != nil {
		global.Store(zap.NewNop())
	}
}
