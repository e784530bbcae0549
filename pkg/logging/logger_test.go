package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("Expected default level to be Info, got %s", cfg.Level)
	}
	if cfg.Pretty != false {
		t.Error("Expected default pretty to be false")
	}
}

func TestSetup_WritesToOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := Setup(Config{
		Level:  LevelInfo,
		Output: buf,
	})

	logger.Info().Str("page", "1").Msg("page loaded")

	out := buf.String()
	if !strings.Contains(out, "page loaded") {
		t.Errorf("Expected message in output, got: %s", out)
	}
	if !strings.Contains(out, `"page":"1"`) {
		t.Errorf("Expected structured field in output, got: %s", out)
	}
}

func TestSetup_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := Setup(Config{
		Level:  LevelWarn,
		Output: buf,
	})

	logger.Debug().Msg("suppressed debug")
	logger.Info().Msg("suppressed info")
	logger.Warn().Msg("visible warn")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Errorf("Expected debug/info suppressed at warn level, got: %s", out)
	}
	if !strings.Contains(out, "visible warn") {
		t.Errorf("Expected warn message in output, got: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input LogLevel
		want  zerolog.Level
	}{
		{LevelDebug, zerolog.DebugLevel},
		{LevelInfo, zerolog.InfoLevel},
		{LevelWarn, zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{LevelError, zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%s) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLogger_AttachesComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelInfo, Output: buf})

	logger := NewLogger("reconciler")
	logger.Info().Msg("hello")

	if !strings.Contains(buf.String(), `"component":"reconciler"`) {
		t.Errorf("Expected component field in output, got: %s", buf.String())
	}
}
