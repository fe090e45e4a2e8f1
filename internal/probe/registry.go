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

// Usage is the coarse taxonomy a FormatDescriptor is filed under.
type Usage int

const (
	UsageFilesystem Usage = 1 << iota
	UsageRAID
	UsageCrypto
	UsageOther
)

// String renders the usage class the way it is reported in a USAGE value.
func (u Usage) String() string {
	switch u {
	case UsageFilesystem:
		return "filesystem"
	case UsageRAID:
		return "raid"
	case UsageCrypto:
		return "crypto"
	case UsageOther:
		return "other"
	default:
		return "unknown"
	}
}

// MagicRule is a literal byte pattern expected at a fixed device offset.
// The match address is kb_offset kibibytes from the device origin, plus
// sector_offset bytes within that kibibyte.
type MagicRule struct {
	Bytes        []byte
	KBOffset     int64
	SectorOffset int
}

// offset returns the absolute byte offset this rule is anchored at.
func (m MagicRule) offset() int64 {
	return m.KBOffset*1024 + int64(m.SectorOffset)
}

// ParseFunc is the per-format parser callback. It receives the bound
// Session and the MagicRule that matched (nil if the descriptor carries no
// magics), may read further through Session.GetBuffer, and populates the
// Session's value store through the Set* methods. Returning a non-nil error
// rejects the descriptor: the session moves on as if nothing had matched.
type ParseFunc func(s *Session, rule *MagicRule) error

// FormatDescriptor is one read-only registry entry. The registry's order is
// part of the matching contract: ambiguous content resolves to
// whichever descriptor appears first.
type FormatDescriptor struct {
	Name   string
	Usage  Usage
	Magics []MagicRule
	Parser ParseFunc
}

// registry is the process-wide, compile-time ordered descriptor list. RAID
// members and crypto containers are probed before filesystems, since a RAID
// member block may also carry a stale filesystem signature;
// within a usage class, descriptors are ordered roughly by how cheap and
// unambiguous their magic check is.
var registry = []FormatDescriptor{
	linuxRAIDMemberDescriptor,
	lvm2MemberDescriptor,
	luksDescriptor,
	squashfsDescriptor,
	btrfsDescriptor,
	xfsDescriptor,
	ext4Descriptor,
	vfatDescriptor,
	exfatDescriptor,
	ntfsDescriptor,
	iso9660Descriptor,
	apfsDescriptor,
	qcow2Descriptor,
}

// Registry returns the process-wide, read-only descriptor list in probing
// order. Callers must not mutate the returned slice's descriptors.
func Registry() []FormatDescriptor {
	return registry
}

// KnownFSType reports whether name matches a registered descriptor.
func KnownFSType(name string) bool {
	for _, d := range registry {
		if d.Name == name {
			return true
		}
	}
	return false
}
