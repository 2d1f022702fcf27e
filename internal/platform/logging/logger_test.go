package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Format(t *testing.T) {
	t.Run("json by default", func(t *testing.T) {
		var buf bytes.Buffer
		New("", "", &buf).Info("signup successful", "account_id", "acc-1")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "signup successful", line["msg"])
		assert.Equal(t, "acc-1", line["account_id"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		New("info", "TEXT", &buf).Info("signup successful", "account_id", "acc-1")

		assert.Contains(t, buf.String(), "msg=\"signup successful\"")
		assert.Contains(t, buf.String(), "account_id=acc-1")
	})
}

func TestNew_Level(t *testing.T) {
	tests := []struct {
		level   string
		debug   bool
		info    bool
		warning bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"WARN", false, false, true},
		{"error", false, false, false},
		{"verbose", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(tt.level, "json", &buf)

			assert.Equal(t, tt.debug, l.Enabled(context.Background(), slog.LevelDebug))
			assert.Equal(t, tt.info, l.Enabled(context.Background(), slog.LevelInfo))
			assert.Equal(t, tt.warning, l.Enabled(context.Background(), slog.LevelWarn))
		})
	}
}

func TestSetup(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	t.Setenv(EnvKeyLogLevel, "debug")
	t.Setenv(EnvKeyLogFormat, "text")

	l := Setup()

	assert.Same(t, l, slog.Default())
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
}
