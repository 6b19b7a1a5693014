package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{" warn ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWritesConsoleLines(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", &buf)
	logger.Infow("sampler: started", "session", "abc")
	logger.Debug("hidden at info level")
	_ = logger.Sync()

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), out)
	}
	parts := strings.Split(lines[0], "\t")
	if len(parts) < 3 {
		t.Fatalf("expected tab-separated fields, got %q", lines[0])
	}
	if len(parts[0]) != len(TimeLayout) {
		t.Errorf("expected time prefix like %s, got %q", TimeLayout, parts[0])
	}
	if parts[1] != "INFO" {
		t.Errorf("expected INFO level, got %q", parts[1])
	}
	if parts[2] != "sampler: started" {
		t.Errorf("expected message, got %q", parts[2])
	}
	if !strings.Contains(lines[0], `"session": "abc"`) {
		t.Errorf("expected session field in %q", lines[0])
	}
}
