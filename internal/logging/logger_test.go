// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if cfg.Caller {
		t.Error("expected default caller to be false")
	}
	if !cfg.Timestamp {
		t.Error("expected default timestamp to be true")
	}
}

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	defer Init(DefaultConfig())

	Init(Config{
		Level:     "debug",
		Format:    "json",
		Timestamp: true,
		Output:    &buf,
	})

	Info().Msg("test message")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("expected output to contain 'test message', got: %s", output)
	}
	if !strings.Contains(output, `"level":"info"`) {
		t.Errorf("expected output to contain level, got: %s", output)
	}
}

func TestInitConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	defer Init(DefaultConfig())

	Init(Config{Level: "info", Format: "console", Output: &buf})
	Warn().Msg("console line")

	output := buf.String()
	if strings.HasPrefix(output, "{") {
		t.Errorf("expected console output, got JSON: %s", output)
	}
	if !strings.Contains(output, "console line") {
		t.Errorf("expected message in output: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"disabled", zerolog.Disabled},
		{"DEBUG", zerolog.DebugLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	original := Logger()
	defer SetLogger(original)
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	SetLogger(zerolog.New(&buf))
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	tests := []struct {
		name    string
		logFunc func()
		level   string
	}{
		{"Debug", func() { Debug().Msg("debug msg") }, `"level":"debug"`},
		{"Info", func() { Info().Msg("info msg") }, `"level":"info"`},
		{"Warn", func() { Warn().Msg("warn msg") }, `"level":"warn"`},
		{"Error", func() { Error().Msg("error msg") }, `"level":"error"`},
		{"Err", func() { Err(errors.New("boom")).Msg("err msg") }, `"error":"boom"`},
	}

	for _, tt := range tests {
		buf.Reset()
		tt.logFunc()
		if output := buf.String(); !strings.Contains(output, tt.level) {
			t.Errorf("%s: expected %s in output: %s", tt.name, tt.level, output)
		}
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	original := Logger()
	defer SetLogger(original)

	SetLogger(zerolog.New(&buf))

	logger := WithComponent("reportdata")
	logger.Info().Msg("component message")

	if output := buf.String(); !strings.Contains(output, `"component":"reportdata"`) {
		t.Errorf("expected component field in output: %s", output)
	}
}

func TestNewTestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewTestLogger(&buf)
	logger.Info().Str("key", "value").Msg("test message")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("expected 'test message' in output: %s", output)
	}
	if !strings.Contains(output, `"key":"value"`) {
		t.Errorf("expected key/value in output: %s", output)
	}
}
