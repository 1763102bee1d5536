// Package logging builds the structured logger shared by the CLI and the
// long-running components. Libraries accept a logr.Logger; only the
// command wires it to zap.
package logging

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels for logger.V.
const (
	INFO  = 0
	DEBUG = 1
	TRACE = 2
)

// Levels accepted by New.
var Levels = []string{"error", "info", "debug", "trace"}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return zapcore.ErrorLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.Level(-DEBUG), nil
	case "trace":
		return zapcore.Level(-TRACE), nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q (want one of %s)", level, strings.Join(Levels, ", "))
}

// New returns a console logger writing to stderr at the given level.
func New(level string) (logr.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return logr.Discard(), err
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	z, err := cfg.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("build logger: %w", err)
	}
	return zapr.NewLogger(z).WithName("buckingham"), nil
}

// Discard returns a logger that drops everything.
func Discard() logr.Logger {
	return logr.Discard()
}
