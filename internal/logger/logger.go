// Package logger configures structured, rotated file logging for the CLI,
// which logs one line per finished build, following `_examples/gooze-dev-gooze/cmd/config.go`'s
// slog+lumberjack wiring.
package logger

import (
	"log/slog"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/zyth-lang/zythc/internal/config"
)

// ParseLevel accepts slog's textual level names ("debug"/"info"/"warn"/
// "error") or a raw numeric slog.Level, defaulting to def on anything else.
func ParseLevel(value string, def slog.Level) slog.Level {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return def
	}
	switch v {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if n, err := strconv.Atoi(v); err == nil {
		return slog.Level(n)
	}
	return def
}

// New builds a slog.Logger that writes to a lumberjack-rotated file per the
// resolved config. verbose forces debug level regardless of cfg.LogLevel,
// matching the `-v` flag's precedence over the config file.
func New(cfg config.Config, verbose bool) *slog.Logger {
	level := ParseLevel(cfg.LogLevel, slog.LevelInfo)
	if verbose {
		level = slog.LevelDebug
	}

	filename := cfg.LogFilename
	if filename == "" {
		filename = config.DefaultLogFilename
	}

	writer := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	})
	return slog.New(handler)
}
