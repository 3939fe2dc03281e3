package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	var quiet bytes.Buffer
	l := New(&quiet, false)
	l.Debug("debug line", nil)
	l.Info("info line", nil)
	l.Warn("warn line", nil)
	if strings.Contains(quiet.String(), "debug line") || strings.Contains(quiet.String(), "info line") {
		t.Errorf("non-verbose logger wrote debug/info: %s", quiet.String())
	}
	if !strings.Contains(quiet.String(), "warn line") {
		t.Errorf("warn missing: %s", quiet.String())
	}

	var verbose bytes.Buffer
	New(&verbose, true).Debug("debug line", map[string]interface{}{"url": "https://example.com"})
	if !strings.Contains(verbose.String(), "debug line") || !strings.Contains(verbose.String(), "url=https://example.com") {
		t.Errorf("verbose output = %s", verbose.String())
	}
}

func TestErrorIncludesCause(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Error("model call failed", errors.New("HTTP 500"), map[string]interface{}{"model": "gemini-flash"})
	out := buf.String()
	if !strings.Contains(out, "HTTP 500") || !strings.Contains(out, "model=gemini-flash") {
		t.Errorf("output = %s", out)
	}
}

func TestRedaction(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"authorization header", "Authorization", "Bearer abc"},
		{"cookie", "cookie", "bizlens_session=123"},
		{"keyword in key", "refresh_token", "anything"},
		{"openai style key", "value", "sk-abcdefghijklmnop1234"},
		{"bearer value", "header", "Bearer xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(&buf, true).Info("request", map[string]interface{}{tt.key: tt.value})
			if strings.Contains(buf.String(), tt.value) {
				t.Errorf("value leaked: %s", buf.String())
			}
			if !strings.Contains(buf.String(), RedactedValue) {
				t.Errorf("redaction marker missing: %s", buf.String())
			}
		})
	}
}

func TestPlainValuesKept(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Info("admitted", map[string]interface{}{"remaining": 4, "action": "sentiment"})
	if !strings.Contains(buf.String(), "remaining=4") || !strings.Contains(buf.String(), "action=sentiment") {
		t.Errorf("output = %s", buf.String())
	}
}
