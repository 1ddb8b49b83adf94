package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func newJSONLogger(t *testing.T, level string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: level, Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l, &buf
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log %q: %v", buf.String(), err)
	}
	return entry
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"default config", DefaultConfig()},
		{"json format", Config{Level: "debug", Format: "json"}},
		{"text format", Config{Level: "info", Format: "text"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if l == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	l, buf := newJSONLogger(t, "debug")

	tests := []struct {
		level   string
		logFunc func(string, ...any)
	}{
		{"DEBUG", l.Debug},
		{"INFO", l.Info},
		{"WARN", l.Warn},
		{"ERROR", l.Error},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.logFunc("test message", "method", "system.connect")

			entry := decodeEntry(t, buf)
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
			if entry["msg"] != "test message" {
				t.Errorf("msg = %v, want 'test message'", entry["msg"])
			}
			if entry["method"] != "system.connect" {
				t.Errorf("method = %v, want system.connect", entry["method"])
			}
		})
	}
}

func TestLogger_With(t *testing.T) {
	l, buf := newJSONLogger(t, "info")

	l.With("host", "http://example.test/xmlrpc").Info("test message")

	entry := decodeEntry(t, buf)
	if entry["host"] != "http://example.test/xmlrpc" {
		t.Errorf("host = %v", entry["host"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	l, buf := newJSONLogger(t, "warn")

	l.Debug("debug")
	l.Info("info")
	if buf.Len() != 0 {
		t.Errorf("entries below warn should be filtered, got %q", buf.String())
	}

	l.Warn("warn")
	if buf.Len() == 0 {
		t.Error("warn entry should be written")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"debug", "DEBUG", false},
		{"INFO", "INFO", false},
		{"warning", "WARN", false},
		{" error ", "ERROR", false},
		{"verbose", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got.String() != tt.want {
			t.Errorf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown level", Config{Level: "verbose"}},
		{"unknown format", Config{Format: "logfmt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNew_EmptyConfigUsesDefaults(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("hidden")
	l.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "msg=shown") {
		t.Errorf("want text output at warn, got %q", out)
	}
}

func TestDefaultLogger(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() returned nil")
	}

	l, buf := newJSONLogger(t, "info")
	prev := Default()
	SetDefault(l)
	defer SetDefault(prev)

	Default().Info("through default")
	if !strings.Contains(buf.String(), "through default") {
		t.Error("SetDefault should replace the default logger")
	}

	SetDefault(nil)
	if Default() != l {
		t.Error("SetDefault(nil) should keep the current logger")
	}
	SetDefault(Discard())
	if Default() == l {
		t.Error("SetDefault should accept any Logger")
	}
}

func TestLogger_WithContext(t *testing.T) {
	l, buf := newJSONLogger(t, "info")

	l.WithContext(context.Background()).Info("with context")
	if buf.Len() == 0 {
		t.Error("WithContext logger should produce output")
	}
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "text", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("plain", "method", "user.login")
	out := buf.String()
	if !strings.Contains(out, "msg=plain") || !strings.Contains(out, "method=user.login") {
		t.Errorf("unexpected text output: %q", out)
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("dropped", "api_key", "k")
	l.With("a", "b").WithContext(context.Background()).Info("dropped")
}
