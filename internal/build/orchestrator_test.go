package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeCompiler stands in for zig build-exe, mirroring the
// adapter-interface testability pattern `_examples/gooze-dev-gooze` uses
// for its own subprocess collaborators: the orchestrator is exercised
// without needing a real TL compiler on PATH.
type fakeCompiler struct {
	calls int
}

func (f *fakeCompiler) Compile(_ context.Context, _, outputPath string, _ int, _ string) (string, error) {
	f.calls++
	return "", os.WriteFile(outputPath, []byte("fake-binary"), 0o755)
}

func TestBuildColdCacheInvokesCompilerAndWritesSidecar(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.zy")
	require.NoError(t, os.WriteFile(src, []byte("def f(n):\n    return n\n"), 0o644))

	compiler := &fakeCompiler{}
	result, err := Build(context.Background(), Options{
		SourcePath: src,
		CacheDir:   filepath.Join(dir, "cache"),
		Mode:       ModeBuild,
		Compiler:   compiler,
	})
	require.NoError(t, err)
	require.False(t, result.CacheHit)
	require.Equal(t, 1, compiler.calls)
	require.FileExists(t, result.OutputPath)
	require.FileExists(t, sidecarPath(result.OutputPath))
}

func TestBuildWarmCacheSkipsCompiler(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.zy")
	require.NoError(t, os.WriteFile(src, []byte("def f(n):\n    return n\n"), 0o644))

	compiler := &fakeCompiler{}
	opts := Options{
		SourcePath: src,
		CacheDir:   filepath.Join(dir, "cache"),
		Mode:       ModeBuild,
		Compiler:   compiler,
	}

	_, err := Build(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, 1, compiler.calls)

	_, err = Build(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, 1, compiler.calls, "warm cache must not re-invoke the compiler")
}

func TestBuildRecompilesAfterOneByteSourceEdit(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.zy")
	require.NoError(t, os.WriteFile(src, []byte("def f(n):\n    return n\n"), 0o644))

	compiler := &fakeCompiler{}
	opts := Options{
		SourcePath: src,
		CacheDir:   filepath.Join(dir, "cache"),
		Mode:       ModeBuild,
		Compiler:   compiler,
	}

	_, err := Build(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, 1, compiler.calls)

	require.NoError(t, os.WriteFile(src, []byte("def f(n):\n    return 7\n"), 0o644))

	_, err = Build(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, 2, compiler.calls)
}

func TestBuildRejectsUnparseableSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.zy")
	require.NoError(t, os.WriteFile(src, []byte("def f(:\n"), 0o644))

	_, err := Build(context.Background(), Options{
		SourcePath: src,
		CacheDir:   filepath.Join(dir, "cache"),
		Mode:       ModeBuild,
		Compiler:   &fakeCompiler{},
	})
	require.Error(t, err)
}

func TestBuildRecordsHistoryWhenConfigured(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.zy")
	require.NoError(t, os.WriteFile(src, []byte("def f(n):\n    return n\n"), 0o644))

	hist, err := OpenHistory(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	defer hist.Close()

	_, err = Build(context.Background(), Options{
		SourcePath: src,
		CacheDir:   filepath.Join(dir, "cache"),
		Mode:       ModeBuild,
		Compiler:   &fakeCompiler{},
		History:    hist,
	})
	require.NoError(t, err)

	records, err := hist.ForSource(src)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.True(t, records[0].Success)
}
