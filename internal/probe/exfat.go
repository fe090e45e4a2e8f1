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

// exfatSignature is the fixed "EXFAT   " (three trailing spaces) file system
// name field dsoprea/go-exfat's BootSectorHead documents at byte 3 of the
// boot sector.
var exfatSignature = []byte("EXFAT   ")

var exfatDescriptor = FormatDescriptor{
	Name:  "exfat",
	Usage: UsageFilesystem,
	Magics: []MagicRule{
		{Bytes: exfatSignature, KBOffset: 0, SectorOffset: 3},
	},
	Parser: parseExfat,
}

// parseExfat reads VolumeSerialNumber (offset 100) and FileSystemRevision
// (offset 104), the fields go-exfat's BootSectorHead names explicitly.
func parseExfat(s *Session, rule *MagicRule) error {
	buf, err := s.GetBuffer(0, 106)
	if err != nil {
		return err
	}

	serial := binary.LittleEndian.Uint32(buf[100:104])
	if err := s.SprintfUUID("%04X-%04X", serial>>16, serial&0xFFFF); err != nil {
		return err
	}

	// High byte is the major revision, low byte the minor.
	revision := binary.LittleEndian.Uint16(buf[104:106])
	return s.SprintfVersion("%d.%d", revision>>8, revision&0xFF)
}
