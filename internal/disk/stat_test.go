package disk_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/blkprobe/internal/disk"
)

func TestOpenRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.bin")
	data := make([]byte, 12345)
	for i := range data {
		data[i] = byte(i)
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))

	info, err := disk.Open(path)
	require.NoError(t, err)
	defer info.Close()

	require.Equal(t, path, info.Path)
	require.False(t, info.IsDevice)
	require.Equal(t, int64(len(data)), info.Size)
	require.Equal(t, int64(disk.DefaultSectorSize), info.SectorSize)

	buf := make([]byte, 16)
	n, err := info.ReadAt(buf, 100)
	require.NoError(t, err)
	require.Equal(t, 16, n)
	require.Equal(t, data[100:116], buf)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := disk.Open(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
