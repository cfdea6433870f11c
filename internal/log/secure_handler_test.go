package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestSecureHandlerMasksKeys tests key-based sanitization.
func TestSecureHandlerMasksKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "cookie header", key: "cookie", value: "wikidot_token7=abc123"},
		{name: "cookie header mixed case", key: "Cookie", value: "wikidot_token7=abc123"},
		{name: "token attribute", key: "token", value: "abc123"},
		{name: "wikidot token", key: "wikidot_token7", value: "abc123"},
		{name: "authorization header", key: "authorization", value: "Bearer xyz"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, false)

			logger.Info("request sent", tt.key, tt.value)

			out := buf.String()
			if strings.Contains(out, "abc123") || strings.Contains(out, "Bearer xyz") {
				t.Errorf("sensitive value leaked: %s", out)
			}
			if !strings.Contains(out, MaskValue) {
				t.Errorf("mask missing: %s", out)
			}
		})
	}
}

// TestSecureHandlerMasksPatterns tests value-based sanitization.
func TestSecureHandlerMasksPatterns(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, false)

	logger.Info("headers prepared", "header", "wikidot_token7=s3cr3t; path=/")

	if strings.Contains(buf.String(), "s3cr3t") {
		t.Errorf("token cookie leaked: %s", buf.String())
	}
}

// TestSecureHandlerKeepsOrdinaryAttrs tests that normal values pass through.
func TestSecureHandlerKeepsOrdinaryAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, false)

	logger.Info("item classified", "item", "SCP-173", "method", "structured")

	out := buf.String()
	if !strings.Contains(out, "SCP-173") || !strings.Contains(out, "structured") {
		t.Errorf("ordinary attributes missing: %s", out)
	}
}

// TestSecureHandlerGroups tests sanitization inside groups.
func TestSecureHandlerGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, false)

	logger.Info("request sent", slog.Group("request",
		slog.String("url", "https://example.com"),
		slog.String("cookie", "wikidot_token7=abc123"),
	))

	out := buf.String()
	if strings.Contains(out, "abc123") {
		t.Errorf("grouped sensitive value leaked: %s", out)
	}
	if !strings.Contains(out, "https://example.com") {
		t.Errorf("grouped ordinary value missing: %s", out)
	}
}

// TestSecureHandlerWithAttrs tests that pre-bound attributes are sanitized.
func TestSecureHandlerWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, false).With("token", "abc123")

	logger.Info("bound")

	if strings.Contains(buf.String(), "abc123") {
		t.Errorf("bound sensitive value leaked: %s", buf.String())
	}
}

// TestVerboseLevel tests the verbose flag's level mapping.
func TestVerboseLevel(t *testing.T) {
	t.Parallel()

	var quiet bytes.Buffer
	NewSecureLogger(&quiet, false).Debug("hidden")
	if quiet.Len() != 0 {
		t.Error("debug output should be suppressed without verbose")
	}

	var loud bytes.Buffer
	NewSecureLogger(&loud, true).Debug("visible")
	if loud.Len() == 0 {
		t.Error("debug output should appear with verbose")
	}
}

// TestSecureJSONLogger tests the JSON variant masks values too.
func TestSecureJSONLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureJSONLogger(&buf, false)

	logger.Info("request sent", "cookie", "wikidot_token7=abc123")

	if strings.Contains(buf.String(), "abc123") {
		t.Errorf("sensitive value leaked in JSON output: %s", buf.String())
	}
}
