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

// squashfsMagic is "hsqs" read as a little-endian uint32, matching the
// Magic field distr1/distri's squashfs writer emits at the start of every
// superblock it produces.
const squashfsMagic = 0x73717368

var squashfsDescriptor = FormatDescriptor{
	Name:  "squashfs",
	Usage: UsageFilesystem,
	Magics: []MagicRule{
		{Bytes: le32(squashfsMagic), KBOffset: 0, SectorOffset: 0},
	},
	Parser: parseSquashfs,
}

// squashfs superblock layout (little-endian): magic(4) inode_count(4)
// mod_time(4) block_size(4) frag_count(4) compressor(2) block_log(2)
// flags(2) id_count(2) version_major(2) version_minor(2) ...
func parseSquashfs(s *Session, rule *MagicRule) error {
	buf, err := s.GetBuffer(rule.offset(), 32)
	if err != nil {
		return err
	}

	major := binary.LittleEndian.Uint16(buf[28:30])
	minor := binary.LittleEndian.Uint16(buf[30:32])
	return s.SprintfVersion("%d.%d", major, minor)
}
