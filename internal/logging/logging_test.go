package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			l := New("prod", tc.level, "storefront")
			if !l.Core().Enabled(tc.want) {
				t.Errorf("expected %s to be enabled", tc.want)
			}
			if tc.want > zapcore.DebugLevel && l.Core().Enabled(tc.want-1) {
				t.Errorf("expected %s to be disabled", tc.want-1)
			}
		})
	}
}
