// Package logger wraps go.uber.org/zap behind the InterfaceLogger shape the
// teacher's own call sites expect (internal/service/cache.Cache takes a
// logger.InterfaceLogger; cmd/main.go calls log.Info/log.Errorf/log.Fatalf and
// defers log.Sync()). The teacher's own internal/logger package wasn't part of
// the retrieved tree, so this fills it in from those call sites.
package logger

import (
	"go.uber.org/zap"
)

// InterfaceLogger is the logging surface every component depends on, never the
// concrete *zap.SugaredLogger, so tests can substitute internal/mocks.MockInterfaceLogger.
type InterfaceLogger interface {
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(template string, args ...interface{})
	Sync() error
}

// Logger is the zap-backed implementation.
type Logger struct {
	*zap.SugaredLogger
}

// Config selects the logging level and encoding. Level is one of
// "debug", "info", "warn", "error"; Encoding is "json" or "console".
type Config struct {
	Level    string
	Encoding string
}

// NewLogger builds a Logger from cfg, defaulting to info level / console
// encoding when cfg is empty (matching the teacher's dev-friendly default).
func NewLogger(cfg *Config) (*Logger, error) {
	level := zap.InfoLevel
	encoding := "console"
	if cfg != nil {
		if cfg.Encoding != "" {
			encoding = cfg.Encoding
		}
		if cfg.Level != "" {
			if err := level.Set(cfg.Level); err != nil {
				return nil, err
			}
		}
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.Encoding = encoding
	zapCfg.EncoderConfig.TimeKey = "ts"

	zl, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{SugaredLogger: zl.Sugar()}, nil
}

var _ InterfaceLogger = (*Logger)(nil)

// NewNop returns a Logger that discards everything, for tests that don't
// assert on log output.
func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}
