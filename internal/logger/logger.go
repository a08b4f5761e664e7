// Package logger wires a process-wide zap logger.  Handlers and background
// workers log through L() so output format follows the APP_ENV switch.
package logger

import (
	"go.uber.org/zap"
)

var log *zap.Logger

// Init builds the global logger.  Production config (JSON, info level) when
// env is "prod", human-readable development config otherwise.
func Init(env string) {
	var cfg zap.Config
	if env == "prod" {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	log = l
}

// L returns the global logger, initializing a development fallback when
// Init was not called (keeps tests quiet about ordering).
func L() *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return log
}

// Sync flushes buffered log entries.  Intended for deferred use in main.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
