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

// xfsSBMagic is "XFSB", the value direktiv/vorteil's xfs.SuperBlock package
// names SBMagicNumber.
const xfsSBMagic = 0x58465342

var xfsDescriptor = FormatDescriptor{
	Name:  "xfs",
	Usage: UsageFilesystem,
	Magics: []MagicRule{
		{Bytes: be32(xfsSBMagic), KBOffset: 0, SectorOffset: 0},
	},
	Parser: parseXFS,
}

// parseXFS follows the field layout vorteil's xfs.SuperBlock documents:
// MagicNumber(4) BlockSize(4) DataBlocks(8) RealtimeBlocks(8)
// RealtimeExtents(8) UUID(16) ...
func parseXFS(s *Session, rule *MagicRule) error {
	buf, err := s.GetBuffer(rule.offset(), 48)
	if err != nil {
		return err
	}
	return s.SetUUID(buf[32:48])
}

func be32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}
