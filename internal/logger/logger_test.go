package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		json  bool
		debug bool
	}{
		{name: "console info", json: false, debug: false},
		{name: "json debug", json: true, debug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			log, err := New(tt.json, tt.debug)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := log.Core().Enabled(zapcore.DebugLevel); got != tt.debug {
				t.Fatalf("expected debug enabled=%v, got %v", tt.debug, got)
			}
			if !log.Core().Enabled(zapcore.InfoLevel) {
				t.Fatalf("expected info to be enabled")
			}
		})
	}
}
