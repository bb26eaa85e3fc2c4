// Package logger provides a convenience function to constructing a logger
// for use. This is required not just for applications but for testing.
package logger

import (
	"path/filepath"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config represents the optional settings for the logger.
type Config struct {
	Path  string // File to also write logs to. Empty disables the file.
	Level string
}

// New constructs a Sugared Logger that writes to stdout and
// provides human readable timestamps.
func New(service string) (*zap.SugaredLogger, error) {
	return NewWithConfig(service, Config{})
}

// NewWithConfig constructs a Sugared Logger that writes to stdout and, when
// a path is configured, to a rolling log file.
func NewWithConfig(service string, cfg Config) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	config.InitialFields = map[string]any{
		"service": service,
	}
	config.Level = zap.NewAtomicLevelAt(level(cfg.Level))

	log, err := config.Build()
	if err != nil {
		return nil, err
	}

	if cfg.Path != "" {
		file := zapcore.NewCore(
			zapcore.NewJSONEncoder(config.EncoderConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   filepath.Clean(cfg.Path),
				MaxSize:    200,
				MaxBackups: 10,
				MaxAge:     30,
			}),
			config.Level,
		)

		log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, file.With([]zapcore.Field{zap.String("service", service)}))
		}))
	}

	return log.Sugar(), nil
}

// level converts the configured level name into a zap level.
func level(name string) zapcore.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
