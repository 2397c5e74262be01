// Package logger builds zap loggers and reports pipeline runs through them.
//
// Two modes are available:
//   - production: JSON output for machine parsing
//   - development: coloured console output for humans
//
// No logger is global: the observer returned by NewObserver is handed to the
// pipeline explicitly.
package logger

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names used by the pipeline logs.
const (
	FieldRunID      = "run_id"
	FieldStage      = "stage"
	FieldParent     = "parent"
	FieldSeq        = "seq"
	FieldFrom       = "from"
	FieldState      = "state"
	FieldDurationMS = "duration_ms"
	FieldWaitMS     = "wait_ms"
	FieldCapacity   = "capacity"
)

// New builds a logger writing at level and above.
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse log level %q", level)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "unable to build logger")
	}

	return logger, nil
}
