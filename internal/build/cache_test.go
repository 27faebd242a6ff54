package build

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashSourceIsDeterministicAndSensitiveToEveryByte(t *testing.T) {
	a := hashSource([]byte("print(1)"))
	b := hashSource([]byte("print(1)"))
	c := hashSource([]byte("print(2)"))

	require.Len(t, a, 64)
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}

func TestCacheHitRequiresMatchingSidecar(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "prog")
	require.NoError(t, os.WriteFile(bin, []byte("binary"), 0o755))

	require.False(t, cacheHit(bin, "deadbeef"))

	hash := hashSource([]byte("source"))
	require.NoError(t, writeSidecar(bin, hash))
	require.True(t, cacheHit(bin, hash))
	require.False(t, cacheHit(bin, hashSource([]byte("other"))))
}

func TestCacheMissWhenBinaryAbsent(t *testing.T) {
	dir := t.TempDir()
	require.False(t, cacheHit(filepath.Join(dir, "missing"), "anything"))
}
