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

// iso9660SectorSize is the fixed logical sector size every ISO 9660 image
// uses regardless of the underlying device's own sector size.
const iso9660SectorSize = 2048

// iso9660PrimaryVolumeDescriptorSector is sector 16, the first of the
// volume descriptor set, per ECMA-119.
const iso9660PrimaryVolumeDescriptorSector = 16

var iso9660Descriptor = FormatDescriptor{
	Name:  "iso9660",
	Usage: UsageFilesystem,
	Magics: []MagicRule{
		{Bytes: []byte("CD001"), KBOffset: (iso9660PrimaryVolumeDescriptorSector*iso9660SectorSize + 1) / 1024,
			SectorOffset: (iso9660PrimaryVolumeDescriptorSector*iso9660SectorSize + 1) % 1024},
	},
	Parser: parseISO9660,
}

// parseISO9660 walks the volume descriptor set starting at sector 16 for a
// Supplementary Volume Descriptor carrying a Joliet escape sequence, the
// same three-sequence check rstms/iso-kit's SupplementaryVolumeDescriptor
// performs, and reports the volume label from whichever descriptor (Joliet
// or primary) is authoritative.
func parseISO9660(s *Session, rule *MagicRule) error {
	pvdOffset := int64(iso9660PrimaryVolumeDescriptorSector * iso9660SectorSize)
	pvd, err := s.GetBuffer(pvdOffset, iso9660SectorSize)
	if err != nil {
		return err
	}
	label := pvd[40:72]

	for sector := iso9660PrimaryVolumeDescriptorSector + 1; sector < iso9660PrimaryVolumeDescriptorSector+16; sector++ {
		desc, err := s.GetBuffer(int64(sector*iso9660SectorSize), iso9660SectorSize)
		if err != nil {
			break
		}
		if desc[0] == 255 { // volume descriptor set terminator
			break
		}
		if desc[0] != 2 { // not a supplementary volume descriptor
			continue
		}
		if isJolietEscape(desc[88:120]) {
			s.SetUTF8Label(desc[40:72], false)
			return s.SprintfVersion("%d", desc[6])
		}
	}

	s.SetLabel(label)
	return s.SprintfVersion("%d", pvd[6])
}

func isJolietEscape(seq []byte) bool {
	if len(seq) < 3 {
		return false
	}
	switch {
	case seq[0] == 0x25 && seq[1] == 0x2F && (seq[2] == 0x40 || seq[2] == 0x43 || seq[2] == 0x45):
		return true
	default:
		return false
	}
}
