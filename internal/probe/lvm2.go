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

var lvm2MemberDescriptor = FormatDescriptor{
	Name:  "LVM2_member",
	Usage: UsageOther,
	// The label sector may be any of the first four sectors; the type
	// magic sits 24 bytes into whichever one holds it.
	Magics: []MagicRule{
		{Bytes: []byte("LVM2 001"), KBOffset: 0, SectorOffset: 0x018},
		{Bytes: []byte("LVM2 001"), KBOffset: 0, SectorOffset: 0x218},
		{Bytes: []byte("LVM2 001"), KBOffset: 1, SectorOffset: 0x018},
		{Bytes: []byte("LVM2 001"), KBOffset: 1, SectorOffset: 0x218},
	},
	Parser: parseLVM2Member,
}

// parseLVM2Member reads the physical volume UUID, which on an LVM2 label
// sector is a 32-character base62 string immediately following the
// "LVM2 001" magic rather than 16 raw bytes. It is rendered in the dashed
// 6-4-4-4-4-4-6 grouping lvm's own tools print, and deliberately not routed
// through SprintfUUID, whose hex lowercasing would corrupt the mixed-case
// alphabet.
func parseLVM2Member(s *Session, rule *MagicRule) error {
	buf, err := s.GetBuffer(rule.offset(), 8+32)
	if err != nil {
		return err
	}
	pv := buf[8:40]

	dashed := make([]byte, 0, 38)
	for i, group := range [7]int{6, 4, 4, 4, 4, 4, 6} {
		if i > 0 {
			dashed = append(dashed, '-')
		}
		dashed = append(dashed, pv[:group]...)
		pv = pv[group:]
	}
	s.SetValue("UUID", dashed)
	return nil
}
