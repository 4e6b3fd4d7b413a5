// Package logging builds the zap loggers used by the CLI.
package logging

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON production logger writing to stderr. verbose lowers the
// level to debug, which surfaces per-record degradations.
func New(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Sampling = nil
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// WithRun tags every entry of a batch run with a fresh run_id.
func WithRun(logger *zap.Logger, command string) (*zap.Logger, string) {
	id := uuid.NewString()
	return logger.With(zap.String("run_id", id), zap.String("command", command)), id
}
