package testrunner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscoverPrefersGoldenFileOverOracle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "greet.zy"), []byte("print(\"hi\")\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "greet.out"), []byte("overridden\n"), 0o644))

	scenarios, err := Discover([]string{dir})
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	require.Equal(t, "greet", scenarios[0].Name)
	require.Equal(t, "overridden\n", scenarios[0].Expected)
	require.False(t, scenarios[0].Oracled)
}

func TestDiscoverFallsBackToOracle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "number.zy"), []byte("print(42)\n"), 0o644))

	scenarios, err := Discover([]string{dir})
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	require.Equal(t, "42\n", scenarios[0].Expected)
	require.True(t, scenarios[0].Oracled)
}

func TestDiscoverSkipsScenariosWithNoExpectedOutput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prog.zy"), []byte("def f(n):\n    return n\nprint(f(7))\n"), 0o644))

	scenarios, err := Discover([]string{dir})
	require.NoError(t, err)
	require.Empty(t, scenarios)
}
