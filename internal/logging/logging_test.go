package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewHonoursLevel(t *testing.T) {
	for _, format := range []string{"", FormatConsole, FormatJSON} {
		logger, err := New("warn", format)
		if err != nil {
			t.Fatalf("new(%q): %v", format, err)
		}
		if logger.Core().Enabled(zapcore.InfoLevel) {
			t.Fatalf("format %q: info should be disabled at warn level", format)
		}
		if !logger.Core().Enabled(zapcore.ErrorLevel) {
			t.Fatalf("format %q: error should be enabled at warn level", format)
		}
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New("loud", FormatJSON); err == nil {
		t.Fatalf("expected level error")
	}
	if _, err := New("info", "xml"); err == nil {
		t.Fatalf("expected format error")
	}
}

func TestNewNop(t *testing.T) {
	if NewNop().Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("nop logger should discard everything")
	}
}
