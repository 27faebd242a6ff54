package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zyth-lang/zythc/internal/build"
	"github.com/zyth-lang/zythc/internal/config"
)

func TestRunBuildSurfacesMissingSourceFile(t *testing.T) {
	dir := t.TempDir()
	v.Set(config.CacheDirKey, filepath.Join(dir, "cache"))

	err := runBuild(context.Background(), filepath.Join(dir, "missing.zy"), build.ModeBuild)
	require.Error(t, err)

	var buildErr *build.Error
	require.ErrorAs(t, err, &buildErr)
	require.Equal(t, build.SourceReadFailed, buildErr.Kind)
}
