package sizing_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/picking/sizing"
)

// writeFile creates path with n bytes.
func writeFile(t *testing.T, path string, n int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, n), 0o644))
}

// lstatSize returns the entry length of path itself.
func lstatSize(t *testing.T, path string) uint64 {
	t.Helper()
	fi, err := os.Lstat(path)
	require.NoError(t, err)

	return uint64(fi.Size())
}

func TestScan_SizesAndOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.bin"), 300)
	writeFile(t, filepath.Join(root, "a.bin"), 100)
	writeFile(t, filepath.Join(root, "album", "01.mp3"), 1000)
	writeFile(t, filepath.Join(root, "album", "cd2", "02.mp3"), 2000)
	writeFile(t, filepath.Join(root, ".hidden"), 50)

	entries, err := sizing.Scan(context.Background(), root, sizing.WithWorkers(2))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	names := []string{entries[0].Name, entries[1].Name, entries[2].Name}
	assert.Equal(t, []string{"album", "a.bin", "b.bin"}, names)

	album := filepath.Join(root, "album")
	wantAlbum := lstatSize(t, album) + lstatSize(t, filepath.Join(album, "cd2")) + 3000
	assert.True(t, entries[0].Dir)
	assert.Equal(t, wantAlbum, entries[0].Size)
	assert.Equal(t, album, entries[0].Path)
	assert.Equal(t, uint64(100), entries[1].Size)
	assert.Equal(t, uint64(300), entries[2].Size)
	assert.Equal(t, "a.bin", entries[1].String())
}

func TestScan_Hidden(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".hidden"), 50)
	writeFile(t, filepath.Join(root, "x"), 1)

	entries, err := sizing.Scan(context.Background(), root, sizing.WithHidden(true))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ".hidden", entries[0].Name)
	assert.Equal(t, uint64(50), entries[0].Size)
}

func TestScan_SymlinksAreNotFollowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	target := filepath.Join(t.TempDir(), "big")
	writeFile(t, target, 10000)
	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink(target, link))

	entries, err := sizing.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, lstatSize(t, link), entries[0].Size)
	assert.Less(t, entries[0].Size, uint64(10000))
}

func TestScan_EmptyDir(t *testing.T) {
	entries, err := sizing.Scan(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestScan_MissingDir(t *testing.T) {
	_, err := sizing.Scan(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestScan_CanceledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a"), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sizing.Scan(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSize(t *testing.T) {
	root := t.TempDir()
	f := filepath.Join(root, "f")
	writeFile(t, f, 42)
	n, err := sizing.Size(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), n)
}

func TestWithWorkers_Panics(t *testing.T) {
	assert.PanicsWithValue(t, sizing.ErrBadWorkers.Error(), func() {
		_, _ = sizing.Scan(context.Background(), t.TempDir(), sizing.WithWorkers(0))
	})
}
