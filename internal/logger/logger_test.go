package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zyth-lang/zythc/internal/config"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("debug", slog.LevelInfo))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning", slog.LevelInfo))
	require.Equal(t, slog.LevelError, ParseLevel("ERROR", slog.LevelInfo))
	require.Equal(t, slog.Level(-4), ParseLevel("-4", slog.LevelInfo))
	require.Equal(t, slog.LevelInfo, ParseLevel("", slog.LevelInfo))
	require.Equal(t, slog.LevelInfo, ParseLevel("bogus", slog.LevelInfo))
}

func TestNewHonorsVerboseOverride(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{LogFilename: dir + "/zyth.log", LogLevel: "error"}

	log := New(cfg, true)
	require.True(t, log.Enabled(nil, slog.LevelDebug))
}

func TestNewDefaultsFilenameWhenEmpty(t *testing.T) {
	log := New(config.Config{}, false)
	require.NotNil(t, log)
}
