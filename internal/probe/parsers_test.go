package probe_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/blkprobe/internal/probe"
)

// stepOnce binds img and asserts the first Step matches, returning the
// session for value inspection.
func stepOnce(t *testing.T, img []byte) *probe.Session {
	t.Helper()
	s := newBoundSession(t, img)
	res, err := s.Step()
	require.NoError(t, err)
	require.Equal(t, probe.Match, res)
	checkValueInvariants(t, s)
	return s
}

func TestParseLUKS(t *testing.T) {
	img := make([]byte, 4096)
	copy(img[0:], []byte{'L', 'U', 'K', 'S', 0xBA, 0xBE})
	binary.BigEndian.PutUint16(img[6:], 1)
	copy(img[168:], "c0ffee00-dead-beef-0123-456789abcdef")

	s := stepOnce(t, img)
	require.Equal(t, "crypto_LUKS", s.LookupValue("TYPE").String())
	require.Equal(t, "crypto", s.LookupValue("USAGE").String())
	require.Equal(t, "1", s.LookupValue("VERSION").String())
	require.Equal(t, "c0ffee00-dead-beef-0123-456789abcdef", s.LookupValue("UUID").String())
}

func TestParseLUKSBadVersion(t *testing.T) {
	img := make([]byte, 4096)
	copy(img[0:], []byte{'L', 'U', 'K', 'S', 0xBA, 0xBE})
	binary.BigEndian.PutUint16(img[6:], 9)

	s := newBoundSession(t, img)
	res, err := s.Step()
	require.NoError(t, err)
	require.Equal(t, probe.Exhausted, res)
}

func TestParseMDRaidMember(t *testing.T) {
	img := make([]byte, 8192)
	binary.LittleEndian.PutUint32(img[4096:], 0xA92B4EFC)
	binary.LittleEndian.PutUint32(img[4100:], 1)
	copy(img[4112:4128], []byte{0xAA, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15})
	copy(img[4128:], "array0")

	s := stepOnce(t, img)
	require.Equal(t, "linux_raid_member", s.LookupValue("TYPE").String())
	require.Equal(t, "raid", s.LookupValue("USAGE").String())
	require.Equal(t, "1.2", s.LookupValue("VERSION").String())
	require.Equal(t, "aa010203-0405-0607-0809-0a0b0c0d0e0f", s.LookupValue("UUID").String())
	require.Equal(t, "array0", s.LookupValue("LABEL").String())
}

func TestParseLVM2Member(t *testing.T) {
	img := make([]byte, 4096)
	copy(img[512:], "LABELONE")
	copy(img[536:], "LVM2 001")
	copy(img[544:], "KoVMWrCKCtb62lGcZdweJNs0eOOo24dZ")

	s := stepOnce(t, img)
	require.Equal(t, "LVM2_member", s.LookupValue("TYPE").String())
	require.Equal(t, "other", s.LookupValue("USAGE").String())
	require.Equal(t, "KoVMWr-CKCt-b62l-GcZd-weJN-s0eO-Oo24dZ", s.LookupValue("UUID").String())
}

func TestParseNTFS(t *testing.T) {
	img := make([]byte, 4096)
	copy(img[3:], "NTFS    ")
	binary.LittleEndian.PutUint64(img[0x48:], 0x0123456789ABCDEF)

	s := stepOnce(t, img)
	require.Equal(t, "ntfs", s.LookupValue("TYPE").String())
	require.Equal(t, "0123456789abcdef", s.LookupValue("UUID").String())
}

func TestParseExfat(t *testing.T) {
	img := make([]byte, 4096)
	copy(img[3:], "EXFAT   ")
	binary.LittleEndian.PutUint32(img[100:], 0xCAFE0042)
	binary.LittleEndian.PutUint16(img[104:], 0x0100) // revision 1.0

	s := stepOnce(t, img)
	require.Equal(t, "exfat", s.LookupValue("TYPE").String())
	require.Equal(t, "1.0", s.LookupValue("VERSION").String())
	require.Equal(t, "cafe-0042", s.LookupValue("UUID").String())
}

func TestParseXFS(t *testing.T) {
	img := make([]byte, 4096)
	copy(img[0:], "XFSB")
	copy(img[32:48], []byte{0xFE, 0xED, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14})

	s := stepOnce(t, img)
	require.Equal(t, "xfs", s.LookupValue("TYPE").String())
	require.Equal(t, "feed0102-0304-0506-0708-090a0b0c0d0e", s.LookupValue("UUID").String())
}

func TestParseBtrfs(t *testing.T) {
	img := make([]byte, 68*1024)
	sb := img[64*1024:]
	copy(sb[32:48], []byte{0xBB, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15})
	copy(sb[0x40:], "_BHRfS_M")

	s := stepOnce(t, img)
	require.Equal(t, "btrfs", s.LookupValue("TYPE").String())
	require.Equal(t, "bb010203-0405-0607-0809-0a0b0c0d0e0f", s.LookupValue("UUID").String())
}

func TestParseSquashfs(t *testing.T) {
	img := make([]byte, 4096)
	binary.LittleEndian.PutUint32(img[0:], 0x73717368)
	binary.LittleEndian.PutUint16(img[28:], 4)
	binary.LittleEndian.PutUint16(img[30:], 0)

	s := stepOnce(t, img)
	require.Equal(t, "squashfs", s.LookupValue("TYPE").String())
	require.Equal(t, "4.0", s.LookupValue("VERSION").String())
}

func TestParseQcow2(t *testing.T) {
	img := make([]byte, 4096)
	copy(img[0:], []byte{0x51, 0x46, 0x49, 0xFB})
	binary.BigEndian.PutUint32(img[4:], 3)

	s := stepOnce(t, img)
	require.Equal(t, "qcow2", s.LookupValue("TYPE").String())
	require.Equal(t, "other", s.LookupValue("USAGE").String())
	require.Equal(t, "3", s.LookupValue("VERSION").String())
}

func TestParseAPFS(t *testing.T) {
	img := make([]byte, 4096)
	copy(img[32:], "NXSB")
	copy(img[72:88], []byte{0xAB, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15})

	s := stepOnce(t, img)
	require.Equal(t, "apfs", s.LookupValue("TYPE").String())
	require.Equal(t, "ab010203-0405-0607-0809-0a0b0c0d0e0f", s.LookupValue("UUID").String())
}

func TestParseFAT32(t *testing.T) {
	img := make([]byte, 64*1024)
	copy(img[3:], "MSDOS5.0")
	binary.LittleEndian.PutUint16(img[0x0B:], 512)
	img[0x0D] = 1
	binary.LittleEndian.PutUint16(img[0x0E:], 32)
	img[0x10] = 2
	binary.LittleEndian.PutUint32(img[0x20:], 200000) // total sectors, 32-bit field
	binary.LittleEndian.PutUint32(img[0x24:], 512)    // fat32 fat length
	img[0x42] = 0x29
	binary.LittleEndian.PutUint32(img[0x43:], 0xFEEDF00D)
	copy(img[0x47:], "BIGDISK    ")
	copy(img[0x52:], "FAT32   ")
	img[0x1FE] = 0x55
	img[0x1FF] = 0xAA

	s := stepOnce(t, img)
	require.Equal(t, "vfat", s.LookupValue("TYPE").String())
	require.Equal(t, "FAT32", s.LookupValue("VERSION").String())
	require.Equal(t, "BIGDISK", s.LookupValue("LABEL").String())
	require.Equal(t, "feed-f00d", s.LookupValue("UUID").String())
}

// An ext3 superblock shares ext4's magic; the feature words tell them apart.
func TestParseExt3(t *testing.T) {
	img := make([]byte, 8*1024)
	sb := img[1024:]
	binary.LittleEndian.PutUint16(sb[56:], 0xEF53)
	binary.LittleEndian.PutUint32(sb[0x60:], 0x0004) // incompat recovery flag only
	sb[0x68] = 1

	s := stepOnce(t, img)
	require.Equal(t, "ext3", s.LookupValue("TYPE").String())
}
