package cmd_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/blkprobe/cmd/cmd"
)

func TestListFormatsCommand(t *testing.T) {
	c := cmd.DefineListFormatsCommand()
	var out bytes.Buffer
	c.SetOut(&out)

	require.NoError(t, c.Execute())

	for _, name := range []string{"linux_raid_member", "crypto_LUKS", "ext4", "vfat", "iso9660"} {
		require.Contains(t, out.String(), name)
	}
}

func writeExt4Image(t *testing.T) string {
	t.Helper()
	img := make([]byte, 8*1024)
	sb := img[1024:]
	binary.LittleEndian.PutUint16(sb[56:], 0xEF53)
	binary.LittleEndian.PutUint32(sb[0x60:], 0x40)
	copy(sb[0x68:0x78], []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16})
	copy(sb[0x78:], "root")

	path := filepath.Join(t.TempDir(), "ext4.img")
	require.NoError(t, os.WriteFile(path, img, 0o644))
	return path
}

func TestProbeCommand(t *testing.T) {
	c := cmd.DefineProbeCommand()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetArgs([]string{writeExt4Image(t)})

	require.NoError(t, c.Execute())
	require.Contains(t, out.String(), "ext4")
	require.Contains(t, out.String(), "root")
}

func TestProbeCommandRequestMask(t *testing.T) {
	c := cmd.DefineProbeCommand()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetArgs([]string{"--request", "type", writeExt4Image(t)})

	require.NoError(t, c.Execute())
	require.Contains(t, out.String(), "ext4")
	require.NotContains(t, out.String(), "root")
}

func TestProbeCommandFilteredOut(t *testing.T) {
	c := cmd.DefineProbeCommand()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetArgs([]string{"--filter-type", "vfat", writeExt4Image(t)})

	require.NoError(t, c.Execute())
	require.Contains(t, out.String(), "no match")
}
