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

// apfsNxMagic is "NXSB" read little-endian, the value
// deploymenttheory/go-apfs's ContainerSuperblockReader checks its decoded
// NxMagic field against at byte offset 32 of the container superblock.
const apfsNxMagic = 0x4253584E

var apfsDescriptor = FormatDescriptor{
	Name:  "apfs",
	Usage: UsageFilesystem,
	Magics: []MagicRule{
		{Bytes: le32(apfsNxMagic), KBOffset: 0, SectorOffset: 32},
	},
	Parser: parseAPFS,
}

// parseAPFS reports the container's UUID, which go-apfs's
// ContainerSuperblockReader decodes from the NxUUID field: 16 bytes at
// offset 72, after the 32-byte object header, magic, block geometry and the
// three feature words.
func parseAPFS(s *Session, rule *MagicRule) error {
	buf, err := s.GetBuffer(rule.offset()-32, 88)
	if err != nil {
		return err
	}
	return s.SetUUID(buf[72:88])
}
