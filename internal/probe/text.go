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
	"fmt"
)

// asciiSpace reports whether b is one of the six classic isspace characters.
// The set is fixed; trimming must not depend on the process locale.
func asciiSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	default:
		return false
	}
}

// rtrimASCII returns the length of b with trailing ASCII whitespace dropped.
func rtrimASCII(b []byte) int {
	n := len(b)
	for n > 0 && asciiSpace(b[n-1]) {
		n--
	}
	return n
}

// requestedFor maps the well-known attribute names onto their request flag.
// Parser-specific names (e.g. "UUID_SUB") carry no flag and are always
// emitted.
func requestedFor(name string) (RequestFlags, bool) {
	switch name {
	case "TYPE":
		return ReqType, true
	case "USAGE":
		return ReqUsage, true
	case "VERSION":
		return ReqVersion, true
	case "LABEL":
		return ReqLabel, true
	case "LABEL_RAW":
		return ReqLabelRaw, true
	case "UUID":
		return ReqUUID, true
	case "UUID_RAW":
		return ReqUUIDRaw, true
	default:
		return 0, false
	}
}

// wants reports whether a value under name should be emitted at all, given
// the session's request mask.
func (s *Session) wants(name string) bool {
	flag, known := requestedFor(name)
	return !known || s.requested&flag != 0
}

// SetValue stores raw bytes as a named value on s, truncating to VALBUF.
// Setters are no-ops when the corresponding request flag is off, so parsers
// can emit unconditionally and let the session decide. Returns the stored
// Value, or nil if the value was suppressed or the store is full.
func (s *Session) SetValue(name string, data []byte) *Value {
	if !s.wants(name) {
		return nil
	}
	return s.values.setValue(name, data)
}

// SetVersion stores a pre-formatted version string under "VERSION".
func (s *Session) SetVersion(version string) error {
	return s.SprintfVersion("%s", version)
}

// SprintfVersion assigns a "VERSION" slot and fills it with
// fmt.Sprintf(format, args...), rolling the slot back if the text does not
// fit. No-op when VERSION was not requested.
func (s *Session) SprintfVersion(format string, args ...interface{}) error {
	if s.requested&ReqVersion == 0 {
		return nil
	}
	v := s.values.assign("VERSION")
	if v == nil {
		return fmt.Errorf("probe: value store full, cannot set VERSION")
	}
	text := fmt.Sprintf(format, args...)
	n := copy(v.Bytes[:], text)
	v.Len = n
	if n < len(text) {
		s.values.rollback()
		return fmt.Errorf("probe: VERSION value %q exceeds %d bytes", text, VALBUF)
	}
	return nil
}

// SetLabel stores an on-disk byte-oriented label. When LABEL_RAW was
// requested the untouched on-disk bytes are emitted first; when LABEL was
// requested a cooked copy follows: up to VALBUF-1 bytes, right-trimmed of
// ASCII whitespace and NUL-terminated. The cooked value's Len counts the
// terminating NUL, mirroring the strlen+1 convention its byte-oriented
// callers rely on (SetUTF8Label counts the opposite way).
func (s *Session) SetLabel(raw []byte) *Value {
	if s.requested&ReqLabelRaw != 0 {
		s.values.setValue("LABEL_RAW", raw)
	}
	if s.requested&ReqLabel == 0 {
		return nil
	}

	v := s.values.assign("LABEL")
	if v == nil {
		return nil
	}
	limit := len(raw)
	if limit > VALBUF-1 {
		limit = VALBUF - 1
	}
	n := copy(v.Bytes[:], raw[:limit])
	// NUL-padded on disk: the label ends at the first NUL, then sheds any
	// trailing whitespace before it.
	if i := bytes.IndexByte(v.Bytes[:n], 0); i >= 0 {
		n = i
	}
	n = rtrimASCII(v.Bytes[:n])
	v.Bytes[n] = 0
	v.Len = n + 1
	return v
}

// SetUTF8Label transcodes a UTF-16 label (little- or big-endian, selected
// by littleEndian) into UTF-8 and stores it under "LABEL", with the
// untranscoded on-disk bytes emitted first under "LABEL_RAW" when requested.
//
// Transcoding walks 16-bit code units until a NUL unit or until the cooked
// buffer is full, emitting each unit as a 1-, 2- or 3-byte UTF-8 sequence.
// Surrogate pairs are not combined: a surrogate code unit comes out as its
// own three-byte sequence. The cooked value is right-trimmed of ASCII
// whitespace and NUL-terminated; its Len excludes the terminator.
func (s *Session) SetUTF8Label(raw []byte, littleEndian bool) *Value {
	if s.requested&ReqLabelRaw != 0 {
		s.values.setValue("LABEL_RAW", raw)
	}
	if s.requested&ReqLabel == 0 {
		return nil
	}

	v := s.values.assign("LABEL")
	if v == nil {
		return nil
	}

	n := 0
transcode:
	for i := 0; i+1 < len(raw); i += 2 {
		var u uint16
		if littleEndian {
			u = uint16(raw[i]) | uint16(raw[i+1])<<8
		} else {
			u = uint16(raw[i])<<8 | uint16(raw[i+1])
		}
		if u == 0 {
			break
		}
		switch {
		case u < 0x80:
			if n+1 >= VALBUF {
				break transcode
			}
			v.Bytes[n] = byte(u)
			n++
		case u < 0x800:
			if n+2 >= VALBUF {
				break transcode
			}
			v.Bytes[n] = byte(0xC0 | u>>6)
			v.Bytes[n+1] = byte(0x80 | u&0x3F)
			n += 2
		default:
			if n+3 >= VALBUF {
				break transcode
			}
			v.Bytes[n] = byte(0xE0 | u>>12)
			v.Bytes[n+1] = byte(0x80 | (u>>6)&0x3F)
			v.Bytes[n+2] = byte(0x80 | u&0x3F)
			n += 3
		}
	}

	n = rtrimASCII(v.Bytes[:n])
	v.Bytes[n] = 0
	v.Len = n
	return v
}

const hexDigits = "0123456789abcdef"

// SetUUID stores a 16-byte binary UUID under "UUID" in the canonical
// hyphenated lower-case hex form, preceded by "UUID_RAW" carrying the 16
// on-disk bytes when that was requested. An all-zero UUID means "unset" on
// every format that stores one and produces no value at all.
func (s *Session) SetUUID(raw []byte) error {
	if len(raw) != 16 {
		return fmt.Errorf("probe: UUID must be 16 bytes, got %d", len(raw))
	}
	if uuidIsEmpty(raw) {
		return nil
	}
	if s.requested&ReqUUIDRaw != 0 {
		s.values.setValue("UUID_RAW", raw)
	}
	if s.requested&ReqUUID == 0 {
		return nil
	}
	return s.storeUUID("UUID", raw)
}

// SetUUIDAs stores a 16-byte binary UUID under an arbitrary name (e.g.
// "UUID_SUB" for the secondary identifier some formats carry). No raw
// variant is emitted for named UUIDs.
func (s *Session) SetUUIDAs(name string, raw []byte) error {
	if len(raw) != 16 {
		return fmt.Errorf("probe: UUID must be 16 bytes, got %d", len(raw))
	}
	if uuidIsEmpty(raw) {
		return nil
	}
	if s.requested&ReqUUID == 0 {
		return nil
	}
	return s.storeUUID(name, raw)
}

func (s *Session) storeUUID(name string, raw []byte) error {
	v := s.values.assign(name)
	if v == nil {
		return fmt.Errorf("probe: value store full, cannot set %s", name)
	}
	n := copy(v.Bytes[:], formatUUID(raw))
	v.Len = n
	return nil
}

func uuidIsEmpty(raw []byte) bool {
	for _, b := range raw {
		if b != 0 {
			return false
		}
	}
	return true
}

func formatUUID(raw []byte) string {
	buf := make([]byte, 36)
	pos := 0
	groups := [5]int{4, 2, 2, 2, 6}
	idx := 0
	for g, size := range groups {
		for i := 0; i < size; i++ {
			b := raw[idx]
			idx++
			buf[pos] = hexDigits[b>>4]
			buf[pos+1] = hexDigits[b&0xF]
			pos += 2
		}
		if g < len(groups)-1 {
			buf[pos] = '-'
			pos++
		}
	}
	return string(buf)
}

// SprintfUUID renders a variable-length identifier (a FAT serial, an NTFS
// 64-bit serial) into the "UUID" value with fmt, then lowercases any A-F the
// format verb produced so parsers are free to use %X. The lowercase pass
// runs over the value just written, at nvals-1. No-op when UUID was not
// requested.
func (s *Session) SprintfUUID(format string, args ...interface{}) error {
	if s.requested&ReqUUID == 0 {
		return nil
	}

	v := s.values.assign("UUID")
	if v == nil {
		return fmt.Errorf("probe: value store full, cannot set UUID")
	}
	text := fmt.Sprintf(format, args...)
	n := copy(v.Bytes[:], text)
	v.Len = n
	if n < len(text) {
		s.values.rollback()
		return fmt.Errorf("probe: UUID value %q exceeds %d bytes", text, VALBUF)
	}

	last := s.values.last()
	for i := 0; i < last.Len; i++ {
		if last.Bytes[i] >= 'A' && last.Bytes[i] <= 'F' {
			last.Bytes[i] += 'a' - 'A'
		}
	}
	return nil
}
