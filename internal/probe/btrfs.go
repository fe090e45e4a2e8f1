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

// btrfs anchors its primary superblock 64KiB into the device, with an
// 8-byte magic at byte offset 0x40 within that block, the layout
// newbthenewbd/btrfs-rec's dbg types decode with a bin:"off=40,siz=8" tag.
const btrfsSuperblockOffset = 64 * 1024

var btrfsDescriptor = FormatDescriptor{
	Name:  "btrfs",
	Usage: UsageFilesystem,
	Magics: []MagicRule{
		{Bytes: []byte("_BHRfS_M"), KBOffset: btrfsSuperblockOffset / 1024, SectorOffset: 0x40},
	},
	Parser: parseBtrfs,
}

// parseBtrfs reports the filesystem UUID (fsid) stored right after the
// 32-byte checksum field that opens the btrfs_super_block layout.
func parseBtrfs(s *Session, rule *MagicRule) error {
	// fsid sits at byte 32 of the superblock, i.e. 32 bytes before the
	// magic's own base offset of 0x40.
	buf, err := s.GetBuffer(rule.offset()-0x40+32, 16)
	if err != nil {
		return err
	}
	return s.SetUUID(buf)
}
