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

import (
	"encoding/binary"
	"fmt"
)

// mdRaidMagic is the little-endian magic word every Linux software-RAID
// (mdraid) 1.x metadata superblock begins with.
const mdRaidMagic = 0xa92b4efc

var linuxRAIDMemberDescriptor = FormatDescriptor{
	Name:  "linux_raid_member",
	Usage: UsageRAID,
	Magics: []MagicRule{
		// Metadata version 1.2: superblock lives 4KiB into the member device.
		{Bytes: le32(mdRaidMagic), KBOffset: 4, SectorOffset: 0},
	},
	Parser: parseMDRaidMember,
}

// parseMDRaidMember reads just enough of the mdraid 1.x superblock to report
// the array's UUID and name. It does not attempt to locate the 1.0/1.1
// superblock variants (which live at offsets relative to the member's end),
// so a match here is always metadata version 1.2.
func parseMDRaidMember(s *Session, rule *MagicRule) error {
	buf, err := s.GetBuffer(rule.offset(), 256)
	if err != nil {
		return err
	}

	// mdp_superblock_1: magic(4) major_version(4) feature_map(4) pad(4)
	// set_uuid(16) set_name(32) ...
	if binary.LittleEndian.Uint32(buf[4:8]) != 1 {
		return fmt.Errorf("probe: unexpected mdraid major version")
	}
	if err := s.SprintfVersion("1.2"); err != nil {
		return err
	}
	if err := s.SetUUID(buf[16:32]); err != nil {
		return err
	}
	s.SetLabel(buf[32:64])
	return nil
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}
