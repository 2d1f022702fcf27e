// Package logging はプロセス全体のslogロガーを構築します。
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	EnvKeyLogFormat = "LOG_FORMAT"
	EnvKeyLogLevel  = "LOG_LEVEL"
)

// New creates a logger writing to w. format is "json" or "text"; anything else is json.
// Unknown levels fall back to info.
func New(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h)
}

// Setup は環境変数からロガーを構築し、slogのデフォルトに設定します。
func Setup() *slog.Logger {
	l := New(os.Getenv(EnvKeyLogLevel), os.Getenv(EnvKeyLogFormat), os.Stdout)
	slog.SetDefault(l)
	return l
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
