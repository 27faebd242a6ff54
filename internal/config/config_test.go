package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestInitAppliesDefaultsWithoutConfigFile(t *testing.T) {
	v := viper.New()
	v.SetConfigFile("/nonexistent/zyth.yaml")
	require.NoError(t, Init(v))

	cfg := Load(v)
	require.Equal(t, DefaultOptLevel, cfg.OptLevel)
	require.Equal(t, DefaultTarget, cfg.Target)
	require.Equal(t, DefaultCacheDir, cfg.CacheDir)
	require.False(t, cfg.NoCache)
	require.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestEnvOverridesDefault(t *testing.T) {
	v := viper.New()
	v.SetConfigFile("/nonexistent/zyth.yaml")
	require.NoError(t, Init(v))

	t.Setenv("ZYTH_OPT_LEVEL", "3")
	cfg := Load(v)
	require.Equal(t, 3, cfg.OptLevel)
}
