package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		json   bool
		debug  bool
		stderr bool
	}{
		{name: "console on stdout"},
		{name: "json debug on stderr", json: true, debug: true, stderr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.json, tt.debug, tt.stderr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if log.Core().Enabled(zapcore.DebugLevel) != tt.debug {
				t.Fatalf("expected debug enabled = %v", tt.debug)
			}
		})
	}
}
