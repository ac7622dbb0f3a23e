package logging

import (
	"log/slog"
	"testing"

	"github.com/authlens/authlens-core/internal/infrastructure/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNew_ReturnsUsableLogger(t *testing.T) {
	logger := New(config.LoggingConfig{Level: "debug", Format: "text"}, "test")
	if logger == nil || logger.Logger == nil {
		t.Fatal("New() returned nil logger")
	}
	// Must not panic.
	logger.Debug("debug message", "key", "value")
	logger.With("component", "test").Info("info message")
}

func TestDefault_DoesNotPanic(t *testing.T) {
	Default().Info("startup message")
}
