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

var ntfsOEMID = []byte("NTFS    ")

var ntfsDescriptor = FormatDescriptor{
	Name:  "ntfs",
	Usage: UsageFilesystem,
	Magics: []MagicRule{
		{Bytes: ntfsOEMID, KBOffset: 0, SectorOffset: 3},
	},
	Parser: parseNTFS,
}

// parseNTFS reads the 64-bit volume serial number at byte 0x48 of the boot
// sector. t9t/gomft's MFT record reader anchors every record address off
// this same boot-sector-relative scheme, though the serial field itself
// sits in the boot sector rather than the MFT the package otherwise walks.
func parseNTFS(s *Session, rule *MagicRule) error {
	buf, err := s.GetBuffer(0, 0x50)
	if err != nil {
		return err
	}

	serial := binary.LittleEndian.Uint64(buf[0x48:0x50])
	return s.SprintfUUID("%016X", serial)
}
