// Package logging builds the zap logger shared by the CLI commands.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvDebug enables debug logging when set to a non-empty value other than "0" or "false".
const EnvDebug = "COPILOT_USAGE_DEBUG"

// New returns a JSON logger writing to stderr. Debug level is enabled when
// verbose is set or EnvDebug is truthy; otherwise only warnings and errors
// are written so report output on stdout stays clean.
func New(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(Level(verbose, os.Getenv(EnvDebug)))
	config.DisableStacktrace = true
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Level resolves the log level from the verbose flag and the debug env value.
func Level(verbose bool, debugEnv string) zapcore.Level {
	if verbose || truthy(debugEnv) {
		return zapcore.DebugLevel
	}
	return zapcore.WarnLevel
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}
