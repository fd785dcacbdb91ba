package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Service is stamped on every entry.
const Service = "blogsocial"

var log *zap.Logger

// newConfig picks the encoder and level for env. A non-empty level
// ("debug", "info", "warn", "error") overrides the env default.
func newConfig(env, level string) (zap.Config, error) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if level != "" {
		parsed, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return zap.Config{}, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		config.Level = parsed
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.InitialFields = map[string]any{
		"service": Service,
		"env":     env,
	}
	return config, nil
}

// Init builds the process logger.
func Init(env, level string) error {
	config, err := newConfig(env, level)
	if err != nil {
		return err
	}
	built, err := config.Build()
	if err != nil {
		return err
	}
	log = built
	return nil
}

// Sync flushes any buffered log entries
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}

// Get returns the process logger, or a no-op logger before Init.
func Get() *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// Named returns the process logger scoped to one component.
func Named(component string) *zap.Logger {
	return Get().Named(component)
}
