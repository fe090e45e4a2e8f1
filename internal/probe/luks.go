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
	"bytes"
	"encoding/binary"
	"fmt"
)

var luksDescriptor = FormatDescriptor{
	Name:  "crypto_LUKS",
	Usage: UsageCrypto,
	Magics: []MagicRule{
		{Bytes: []byte{'L', 'U', 'K', 'S', 0xba, 0xbe}, KBOffset: 0, SectorOffset: 0},
	},
	Parser: parseLUKS,
}

// parseLUKS distinguishes LUKS1 from LUKS2 by the version field that
// immediately follows the magic, as github.com/jeremyhahn/go-luks2's
// device-mapper unlocking path also does before choosing a header layout,
// then reports the volume UUID, which sits at a fixed offset in both
// versions.
func parseLUKS(s *Session, rule *MagicRule) error {
	buf, err := s.GetBuffer(rule.offset(), 208)
	if err != nil {
		return err
	}

	version := binary.BigEndian.Uint16(buf[6:8])
	if version != 1 && version != 2 {
		return fmt.Errorf("probe: unsupported LUKS header version %d", version)
	}
	if err := s.SprintfVersion("%d", version); err != nil {
		return err
	}

	// Both header versions keep the UUID as a 40-byte NUL-padded ASCII
	// string at offset 168.
	uuid := buf[168:208]
	if i := bytes.IndexByte(uuid, 0); i >= 0 {
		uuid = uuid[:i]
	}
	s.SetValue("UUID", uuid)
	return nil
}
