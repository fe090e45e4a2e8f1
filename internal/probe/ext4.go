// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package probe

import "encoding/binary"

// ext4Magic is hellin/go-ext4's Ext4Magic, s_magic at byte 56 of the
// superblock, which starts 1024 bytes into the device on every ext2/3/4
// filesystem regardless of block size.
const ext4Magic = 0xef53

const (
	incompatRecover = 0x0004 // EXT3_FEATURE_INCOMPAT_RECOVER
	incompatExtents = 0x0040 // EXT4_FEATURE_INCOMPAT_EXTENTS
	incompat64Bit   = 0x0080 // EXT4_FEATURE_INCOMPAT_64BIT
)

var ext4Descriptor = FormatDescriptor{
	Name:  "ext4",
	Usage: UsageFilesystem,
	Magics: []MagicRule{
		{Bytes: le16(ext4Magic), KBOffset: 1, SectorOffset: 56},
	},
	Parser: parseExt4,
}

// parseExt4 reads the feature-incompat word to tell ext2/ext3/ext4 apart
// (they share one magic) the way hellin/go-ext4's superblock decoder reads
// the same field for feature reporting, then emits the volume UUID and
// label, which sit at fixed offsets regardless of generation.
func parseExt4(s *Session, rule *MagicRule) error {
	// The superblock starts 56 bytes before the magic rule's own offset.
	sbOff := rule.offset() - 56
	buf, err := s.GetBuffer(sbOff, 0x100)
	if err != nil {
		return err
	}

	featureIncompat := binary.LittleEndian.Uint32(buf[0x60:0x64])

	name := "ext2"
	switch {
	case featureIncompat&(incompatExtents|incompat64Bit) != 0:
		name = "ext4"
	case featureIncompat&incompatRecover != 0:
		name = "ext3"
	}
	s.SetValue("TYPE", []byte(name))

	if err := s.SetUUID(buf[0x68:0x78]); err != nil {
		return err
	}
	s.SetLabel(buf[0x78 : 0x78+16])
	return nil
}

func le16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}
