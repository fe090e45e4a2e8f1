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
	"fmt"
	"io"
	"log/slog"
)

// RequestFlags selects which attributes a Session's matches should emit.
type RequestFlags uint8

const (
	ReqType RequestFlags = 1 << iota
	ReqUsage
	ReqVersion
	ReqLabel
	ReqLabelRaw
	ReqUUID
	ReqUUIDRaw

	ReqAll = ReqType | ReqUsage | ReqVersion | ReqLabel | ReqLabelRaw | ReqUUID | ReqUUIDRaw
)

// StepResult is the outcome of one Session.Step call.
type StepResult int

const (
	Match StepResult = iota
	Exhausted
)

// Session is one probe operation's mutable state: the bound device, its
// buffers, an optional Filter, the requested attribute mask, the walk
// cursor, and the accumulated Value store.
type Session struct {
	reader *deviceReader
	filter *Filter

	requested RequestFlags
	cursor    int

	values valueStore

	log *slog.Logger
}

// NewSession returns an empty, unbound Session.
func NewSession() *Session {
	return &Session{requested: ReqAll, log: slog.Default()}
}

// SetLogger installs a logger for I/O and rejection diagnostics; a nil
// logger restores slog.Default.
func (s *Session) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	s.log = l
}

// SetDevice binds the session to a device window: an io.ReaderAt, a base
// offset, and a size in bytes (0 meaning "unknown, trust the caller's reads
// not to run past the end"). Binding clears buffers, cursor, and values,
// so the next Step starts a fresh walk.
func (s *Session) SetDevice(r io.ReaderAt, offset, size int64) {
	s.reader = newDeviceReader(r, offset, size)
	s.cursor = 0
	s.values.reset()
}

// SetRequest replaces the requested-value mask.
func (s *Session) SetRequest(flags RequestFlags) {
	s.requested = flags
}

// SetFilter installs f (nil to clear), replacing any previous filter
// wholesale, and restarts iteration.
func (s *Session) SetFilter(f *Filter) {
	s.filter = f
	s.cursor = 0
	s.values.reset()
}

// FilterTypes restricts iteration by descriptor name: ONLYIN keeps only the
// named descriptors, NOTIN skips them. The new filter replaces any previous
// one and restarts iteration.
func (s *Session) FilterTypes(mode FilterMode, names []string) {
	s.SetFilter(FilterTypes(mode, names))
}

// FilterUsage restricts iteration by usage class with the same ONLYIN/NOTIN
// polarity as FilterTypes. The new filter replaces any previous one and
// restarts iteration.
func (s *Session) FilterUsage(mode FilterMode, mask Usage) {
	s.SetFilter(FilterUsage(mode, mask))
}

// InvertFilter flips every bit of the installed filter and restarts
// iteration. Without a filter installed it only restarts iteration.
func (s *Session) InvertFilter() {
	if s.filter != nil {
		s.filter.Invert()
	}
	s.cursor = 0
	s.values.reset()
}

// ResetFilter clears every bit of the installed filter, so every descriptor
// is tried again, and restarts iteration.
func (s *Session) ResetFilter() {
	if s.filter != nil {
		s.filter.Reset()
	}
	s.cursor = 0
	s.values.reset()
}

// Reset clears the cursor and value store without touching the device
// binding, filter, or request mask, so the next Step starts the registry
// walk over from the beginning.
func (s *Session) Reset() {
	s.cursor = 0
	s.values.reset()
	if s.reader != nil {
		s.reader.reset()
	}
}

// NumValues returns how many values the last Step produced.
func (s *Session) NumValues() int {
	return s.values.count()
}

// GetValue returns the i'th value produced by the last Step.
func (s *Session) GetValue(i int) (*Value, error) {
	return s.values.get(i)
}

// LookupValue returns the first value with the given name, or nil.
func (s *Session) LookupValue(name string) *Value {
	return s.values.lookup(name)
}

// HasValue reports whether a value with the given name was produced.
func (s *Session) HasValue(name string) bool {
	return s.LookupValue(name) != nil
}

// GetBuffer reads length bytes at byte offset off from the bound device,
// relative to the device's bound origin. Parsers call this directly; the
// magic-check loop uses it internally to fetch each rule's kibibyte.
func (s *Session) GetBuffer(off int64, length int) ([]byte, error) {
	if s.reader == nil {
		return nil, fmt.Errorf("probe: no device bound")
	}
	return s.reader.GetBuffer(off, length)
}

// Step drives the registry walk. It clears the value store,
// then scans descriptors starting at the cursor: skipping filtered-out
// entries, matching magics, and invoking parsers. On MATCH the cursor
// advances past the matching index so a subsequent Step resumes the walk;
// on EXHAUSTED the cursor is pinned at len(registry) and stays there until
// the session is rebound, refiltered, or Reset.
func (s *Session) Step() (StepResult, error) {
	if s.reader == nil {
		return Exhausted, fmt.Errorf("probe: no device bound")
	}

	s.values.reset()

	reg := registry
	for i := s.cursor; i < len(reg); i++ {
		if s.filter.skips(i) {
			continue
		}

		d := reg[i]

		var matched *MagicRule
		if len(d.Magics) > 0 {
			rule, err := s.matchMagics(d.Magics)
			if err != nil {
				s.log.Debug("probe: magic scan failed", "descriptor", d.Name, "err", err)
				continue
			}
			if rule == nil {
				continue
			}
			matched = rule
		}

		if d.Parser != nil {
			if err := d.Parser(s, matched); err != nil {
				s.log.Debug("probe: parser rejected descriptor", "descriptor", d.Name, "err", err)
				s.values.reset()
				continue
			}
		}

		if s.requested&ReqType != 0 && s.values.lookup("TYPE") == nil {
			s.values.setValue("TYPE", []byte(d.Name))
		}
		if s.requested&ReqUsage != 0 && s.values.lookup("USAGE") == nil {
			s.values.setValue("USAGE", []byte(d.Usage.String()))
		}

		s.cursor = i + 1
		return Match, nil
	}

	s.cursor = len(reg)
	return Exhausted, nil
}

// matchMagics scans a descriptor's magic rules in order, returning the
// first one whose byte pattern matches, or nil if none match. Each rule is
// checked by fetching the full kibibyte it is anchored in and comparing the
// pattern at the rule's byte offset within it, so neighboring rules of the
// same descriptor hit the cached superblock window instead of issuing their
// own reads. A read failure for one rule is treated as "doesn't match" and
// scanning continues with the next rule (an unreadable device exhausts
// instead of erroring).
func (s *Session) matchMagics(rules []MagicRule) (*MagicRule, error) {
	for i := range rules {
		rule := rules[i]
		if rule.SectorOffset+len(rule.Bytes) > 1024 {
			continue
		}
		buf, err := s.GetBuffer(rule.KBOffset*1024, 1024)
		if err != nil {
			continue
		}
		if bytesEqual(buf[rule.SectorOffset:rule.SectorOffset+len(rule.Bytes)], rule.Bytes) {
			return &rule, nil
		}
	}
	return nil, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
