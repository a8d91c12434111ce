package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLoggerLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{"info by default", false, false},
		{"debug mode", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			prod, err := NewProductionLogger(tt.debug)
			if err != nil {
				t.Fatalf("NewProductionLogger: %v", err)
			}
			dev, err := NewDevelopmentLogger(tt.debug)
			if err != nil {
				t.Fatalf("NewDevelopmentLogger: %v", err)
			}
			for _, l := range []interface{ Core() zapcore.Core }{prod, dev} {
				if got := l.Core().Enabled(zapcore.DebugLevel); got != tt.wantDebug {
					t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
				}
				if !l.Core().Enabled(zapcore.InfoLevel) {
					t.Error("Expected info to be enabled")
				}
			}
		})
	}
}

func TestSyncNil(t *testing.T) {
	t.Parallel()
	if err := Sync(nil); err != nil {
		t.Errorf("Sync(nil) = %v", err)
	}
}
