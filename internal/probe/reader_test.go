package probe_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/blkprobe/internal/probe"
)

// countingReaderAt wraps a byte slice with io.ReaderAt semantics while
// counting how many reads actually reach the device, so the tests can tell
// a cached hit from a fresh syscall-equivalent.
type countingReaderAt struct {
	data  []byte
	calls int
}

func (c *countingReaderAt) ReadAt(p []byte, off int64) (int, error) {
	c.calls++
	if off >= int64(len(c.data)) {
		return 0, io.EOF
	}
	n := copy(p, c.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func patternData(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func TestGetBufferWindowCached(t *testing.T) {
	dev := &countingReaderAt{data: patternData(1024 * 1024)}
	s := probe.NewSession()
	s.SetDevice(dev, 0, int64(len(dev.data)))

	buf, err := s.GetBuffer(0, 512)
	require.NoError(t, err)
	require.Equal(t, dev.data[:512], buf)

	// Everything inside the superblock window is served from one read.
	for _, off := range []int64{0, 1024, 4096, 63 * 1024} {
		buf, err = s.GetBuffer(off, 1024)
		require.NoError(t, err)
		require.Equal(t, dev.data[off:off+1024], buf)
	}
	require.Equal(t, 1, dev.calls)
}

func TestGetBufferWindowShortRead(t *testing.T) {
	dev := &countingReaderAt{data: patternData(300)}
	s := probe.NewSession()
	s.SetDevice(dev, 0, 0)

	buf, err := s.GetBuffer(0, 256)
	require.NoError(t, err)
	require.Equal(t, dev.data[:256], buf)

	// The window holds only 300 bytes: anything past that fails cleanly.
	_, err = s.GetBuffer(0, 512)
	require.Error(t, err)
	_, err = s.GetBuffer(290, 20)
	require.Error(t, err)
}

func TestGetBufferExtentRegime(t *testing.T) {
	dev := &countingReaderAt{data: patternData(1024 * 1024)}
	s := probe.NewSession()
	s.SetDevice(dev, 0, int64(len(dev.data)))

	off := int64(100 * 1024)
	buf, err := s.GetBuffer(off, 4096)
	require.NoError(t, err)
	require.Equal(t, dev.data[off:off+4096], buf)
	require.Equal(t, 1, dev.calls)

	// A request fully contained in the current extent is a cache hit.
	buf, err = s.GetBuffer(off+512, 1024)
	require.NoError(t, err)
	require.Equal(t, dev.data[off+512:off+512+1024], buf)
	require.Equal(t, 1, dev.calls)

	// A disjoint request replaces the extent.
	off2 := int64(500 * 1024)
	buf, err = s.GetBuffer(off2, 2048)
	require.NoError(t, err)
	require.Equal(t, dev.data[off2:off2+2048], buf)
	require.Equal(t, 2, dev.calls)
}

func TestGetBufferExtentShortRead(t *testing.T) {
	dev := &countingReaderAt{data: patternData(80 * 1024)}
	s := probe.NewSession()
	s.SetDevice(dev, 0, 0)

	_, err := s.GetBuffer(78*1024, 4096)
	require.Error(t, err)

	buf, err := s.GetBuffer(76*1024, 4096)
	require.NoError(t, err)
	require.Equal(t, dev.data[76*1024:], buf)
}

func TestGetBufferSizeBound(t *testing.T) {
	dev := &countingReaderAt{data: patternData(1024 * 1024)}
	s := probe.NewSession()
	s.SetDevice(dev, 0, 512)

	_, err := s.GetBuffer(0, 513)
	require.Error(t, err)

	buf, err := s.GetBuffer(0, 512)
	require.NoError(t, err)
	require.Len(t, buf, 512)
}

func TestGetBufferBaseOffset(t *testing.T) {
	dev := &countingReaderAt{data: patternData(1024 * 1024)}
	s := probe.NewSession()
	s.SetDevice(dev, 4096, 128*1024)

	buf, err := s.GetBuffer(0, 16)
	require.NoError(t, err)
	require.Equal(t, dev.data[4096:4112], buf)

	// Extent reads honor the base offset too.
	buf, err = s.GetBuffer(100*1024, 64)
	require.NoError(t, err)
	require.Equal(t, dev.data[4096+100*1024:4096+100*1024+64], buf)
}

func TestGetBufferBadArgs(t *testing.T) {
	dev := &countingReaderAt{data: patternData(1024)}
	s := probe.NewSession()
	s.SetDevice(dev, 0, 1024)

	_, err := s.GetBuffer(-1, 16)
	require.Error(t, err)
	_, err = s.GetBuffer(0, -1)
	require.Error(t, err)
}
