package testrunner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptCompiler fakes zig build-exe by writing a POSIX shell script that
// prints a fixed line, so RunAll can be exercised without a real TL
// compiler or a real compiled Zig binary.
type scriptCompiler struct {
	stdout map[string]string // scenario base name -> script stdout
	calls  int
}

func (s *scriptCompiler) Compile(_ context.Context, _, outputPath string, _ int, _ string) (string, error) {
	s.calls++
	name := filepath.Base(outputPath)
	script := fmt.Sprintf("#!/bin/sh\nprintf '%%s' '%s'\n", s.stdout[name])
	return "", os.WriteFile(outputPath, []byte(script), 0o755)
}

func TestRunAllReportsPassAndFail(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler emits a POSIX shell script")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "matching.zy"), []byte("print(1)\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mismatching.zy"), []byte("print(2)\n"), 0o644))

	scenarios, err := Discover([]string{dir})
	require.NoError(t, err)
	require.Len(t, scenarios, 2)

	compiler := &scriptCompiler{stdout: map[string]string{
		"matching":    "1\n",
		"mismatching": "not-2\n",
	}}

	outcomes, err := RunAll(context.Background(), scenarios, Options{
		CacheDir: filepath.Join(dir, "cache"),
		Compiler: compiler,
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	require.Equal(t, 2, compiler.calls)

	byName := map[string]Outcome{}
	for _, o := range outcomes {
		byName[o.Scenario.Name] = o
	}
	require.True(t, byName["matching"].Passed)
	require.False(t, byName["mismatching"].Passed)
}

func TestRunAllPersistsHistory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler emits a POSIX shell script")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.zy"), []byte("print(1)\n"), 0o644))

	scenarios, err := Discover([]string{dir})
	require.NoError(t, err)

	hist, err := OpenHistory(filepath.Join(dir, "scenario_history.db"))
	require.NoError(t, err)
	defer hist.Close()

	compiler := &scriptCompiler{stdout: map[string]string{"ok": "1\n"}}
	_, err = RunAll(context.Background(), scenarios, Options{
		CacheDir: filepath.Join(dir, "cache"),
		Compiler: compiler,
		History:  hist,
	})
	require.NoError(t, err)

	records, err := hist.ForName("ok")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.True(t, records[0].Passed)
}
