package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestRedactHandler tests credential masking in log output.
func TestRedactHandler(t *testing.T) {
	t.Parallel()

	t.Run("masks sensitive keys", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			key  string
		}{
			{name: "authorization", key: "authorization"},
			{name: "mixed case Authorization", key: "Authorization"},
			{name: "cookie", key: "cookie"},
			{name: "x-api-key", key: "x-api-key"},
			{name: "api_key", key: "api_key"},
			{name: "token", key: "token"},
			{name: "password", key: "password"},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				var buf bytes.Buffer
				logger := NewLogger(&buf, slog.LevelInfo)

				logger.Info("request sent", tt.key, "super-secret-value")

				out := buf.String()
				if strings.Contains(out, "super-secret-value") {
					t.Errorf("secret leaked into log output: %s", out)
				}
				if !strings.Contains(out, MaskValue) {
					t.Errorf("mask missing from log output: %s", out)
				}
			})
		}
	})

	t.Run("masks credential-shaped values under any key", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name  string
			value string
		}{
			{name: "bearer token", value: "Bearer abc123def456"},
			{name: "basic auth", value: "Basic dXNlcjpwYXNz"},
			{name: "jwt", value: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.abc-_123"},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				var buf bytes.Buffer
				logger := NewLogger(&buf, slog.LevelInfo)

				logger.Info("header", "value", tt.value)

				if !strings.Contains(buf.String(), MaskValue) {
					t.Errorf("credential-shaped value not masked: %s", buf.String())
				}
			})
		}
	})

	t.Run("ordinary attributes pass through", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, slog.LevelInfo)

		logger.Info("download failed",
			"url", "https://example.com/reference/get_orders",
			"attempts", 4,
		)

		out := buf.String()
		if !strings.Contains(out, "https://example.com/reference/get_orders") {
			t.Errorf("url attribute missing: %s", out)
		}
		if !strings.Contains(out, "attempts=4") {
			t.Errorf("attempts attribute missing: %s", out)
		}
		if strings.Contains(out, MaskValue) {
			t.Errorf("ordinary attributes were masked: %s", out)
		}
	})

	t.Run("masks inside groups", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, slog.LevelInfo)

		logger.Info("request",
			slog.Group("headers",
				slog.String("authorization", "Bearer secret"),
				slog.String("accept", "text/markdown"),
			),
		)

		out := buf.String()
		if strings.Contains(out, "Bearer secret") {
			t.Errorf("grouped secret leaked: %s", out)
		}
		if !strings.Contains(out, "text/markdown") {
			t.Errorf("grouped ordinary attribute missing: %s", out)
		}
	})

	t.Run("masks attributes added with With", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, slog.LevelInfo).With("token", "secret-token-value")

		logger.Info("starting")

		out := buf.String()
		if strings.Contains(out, "secret-token-value") {
			t.Errorf("With attribute leaked: %s", out)
		}
		if !strings.Contains(out, MaskValue) {
			t.Errorf("With attribute not masked: %s", out)
		}
	})

	t.Run("respects the log level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, slog.LevelWarn)

		logger.Info("hidden")
		logger.Warn("visible")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("info record emitted at warn level: %s", out)
		}
		if !strings.Contains(out, "visible") {
			t.Errorf("warn record missing: %s", out)
		}
	})
}
