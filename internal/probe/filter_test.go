package probe_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/blkprobe/internal/probe"
)

// matchedTypes drains a configured session and returns every TYPE it
// produced, in order.
func matchedTypes(t *testing.T, img []byte, f *probe.Filter) []string {
	t.Helper()

	s := probe.NewSession()
	s.SetDevice(bytes.NewReader(img), 0, int64(len(img)))
	if f != nil {
		s.SetFilter(f)
	}

	var types []string
	for {
		res, err := s.Step()
		require.NoError(t, err)
		if res == probe.Exhausted {
			return types
		}
		types = append(types, s.LookupValue("TYPE").String())
	}
}

func TestFilterTypesOnlyIn(t *testing.T) {
	img := buildDualSignatureImage()

	require.Equal(t, []string{"squashfs", "iso9660"}, matchedTypes(t, img, nil))
	require.Equal(t, []string{"squashfs"}, matchedTypes(t, img, probe.FilterTypes(probe.ONLYIN, []string{"squashfs"})))
	require.Equal(t, []string{"iso9660"}, matchedTypes(t, img, probe.FilterTypes(probe.ONLYIN, []string{"iso9660"})))
	require.Empty(t, matchedTypes(t, img, probe.FilterTypes(probe.ONLYIN, []string{"ext4"})))
}

func TestFilterTypesNotIn(t *testing.T) {
	img := buildDualSignatureImage()

	require.Equal(t, []string{"iso9660"}, matchedTypes(t, img, probe.FilterTypes(probe.NOTIN, []string{"squashfs"})))
	require.Equal(t, []string{"squashfs", "iso9660"}, matchedTypes(t, img, probe.FilterTypes(probe.NOTIN, []string{"ext4"})))
	require.Empty(t, matchedTypes(t, img, probe.FilterTypes(probe.NOTIN, []string{"squashfs", "iso9660"})))
}

func TestFilterUsageMask(t *testing.T) {
	img := buildDualSignatureImage()

	require.Equal(t, []string{"squashfs", "iso9660"},
		matchedTypes(t, img, probe.FilterUsage(probe.ONLYIN, probe.UsageFilesystem)))
	require.Empty(t, matchedTypes(t, img, probe.FilterUsage(probe.NOTIN, probe.UsageFilesystem)))
	require.Empty(t, matchedTypes(t, img, probe.FilterUsage(probe.ONLYIN, probe.UsageRAID|probe.UsageCrypto)))
}

func TestFilterInvertIsInvolution(t *testing.T) {
	img := buildDualSignatureImage()

	f := probe.FilterTypes(probe.ONLYIN, []string{"squashfs"})
	f.Invert()
	f.Invert()
	require.Equal(t, []string{"squashfs"}, matchedTypes(t, img, f))
}

func TestFilterReset(t *testing.T) {
	img := buildDualSignatureImage()

	f := probe.FilterTypes(probe.NOTIN, []string{"squashfs", "iso9660"})
	f.Reset()
	require.Equal(t, []string{"squashfs", "iso9660"}, matchedTypes(t, img, f))
}

func TestEmptyFilterSkipsNothing(t *testing.T) {
	img := buildDualSignatureImage()
	require.Equal(t, []string{"squashfs", "iso9660"}, matchedTypes(t, img, probe.NewFilter()))
}
