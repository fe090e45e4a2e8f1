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

// qcow2Magic is the big-endian "QFI\xfb" value sswastik02/go-qcow2lib's
// QCowHeader.Magic field is read from.
const qcow2Magic = 0x514649FB

var qcow2Descriptor = FormatDescriptor{
	Name:  "qcow2",
	Usage: UsageOther,
	Magics: []MagicRule{
		{Bytes: be32(qcow2Magic), KBOffset: 0, SectorOffset: 0},
	},
	Parser: parseQcow2,
}

// parseQcow2 follows go-qcow2lib's QCowHeader field order to report the
// container format version. The virtual disk size field is not reported.
func parseQcow2(s *Session, rule *MagicRule) error {
	buf, err := s.GetBuffer(rule.offset(), 32)
	if err != nil {
		return err
	}

	version := binary.BigEndian.Uint32(buf[4:8])
	return s.SprintfVersion("%d", version)
}
