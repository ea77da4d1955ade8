// ABOUTME: Structured logger construction shared by every command
// ABOUTME: JSON to stderr; --verbose forces debug and --quiet forces error
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger level
type Options struct {
	Level   string
	Verbose bool
	Quiet   bool
}

// ResolveLevel turns options into a zap level; flags win over the configured level
func ResolveLevel(opts Options) (zapcore.Level, error) {
	switch {
	case opts.Verbose:
		return zapcore.DebugLevel, nil
	case opts.Quiet:
		return zapcore.ErrorLevel, nil
	case opts.Level == "":
		return zapcore.WarnLevel, nil
	}
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return zapcore.WarnLevel, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	return level, nil
}

// New builds a production logger writing to stderr
func New(opts Options) (*zap.Logger, error) {
	level, err := ResolveLevel(opts)
	if err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Sampling = nil

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
