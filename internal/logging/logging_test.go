package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		verbose bool
		env     string
		want    zapcore.Level
	}{
		{false, "", zapcore.WarnLevel},
		{false, "0", zapcore.WarnLevel},
		{false, "false", zapcore.WarnLevel},
		{false, "1", zapcore.DebugLevel},
		{false, "TRUE", zapcore.DebugLevel},
		{true, "", zapcore.DebugLevel},
	}
	for _, tt := range tests {
		if got := Level(tt.verbose, tt.env); got != tt.want {
			t.Errorf("Level(%v, %q) = %v, want %v", tt.verbose, tt.env, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	logger, err := New(true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("verbose logger should enable debug")
	}
}
