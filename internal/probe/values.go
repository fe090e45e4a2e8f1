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

import "fmt"

// VALBUF is the maximum number of payload bytes a single Value may carry.
const VALBUF = 128

// MAXVALUES is the number of value slots a Session reserves.
const MAXVALUES = 16

// Value is one tagged attribute produced by a matching descriptor: a name
// such as "TYPE" or "UUID" paired with up to VALBUF bytes of payload.
type Value struct {
	Name  string
	Bytes [VALBUF]byte
	Len   int
}

// Data returns the meaningful portion of the value's payload.
func (v *Value) Data() []byte {
	return v.Bytes[:v.Len]
}

// String renders the value's payload as a Go string, trimming any
// terminating NUL written by the text setters.
func (v *Value) String() string {
	data := v.Data()
	if n := len(data); n > 0 && data[n-1] == 0 {
		data = data[:n-1]
	}
	return string(data)
}

// valueStore is the bounded, append-only attribute list attached to a
// Session. It is cleared at the start of every Step and populated by the
// parser setters during that step.
type valueStore struct {
	vals [MAXVALUES]Value
	n    int
}

func (s *valueStore) reset() {
	s.n = 0
}

func (s *valueStore) count() int {
	return s.n
}

// assign reserves the next free slot for name, or returns nil if the store
// is already at MAXVALUES capacity.
func (s *valueStore) assign(name string) *Value {
	if s.n >= MAXVALUES {
		return nil
	}
	v := &s.vals[s.n]
	*v = Value{Name: name}
	s.n++
	return v
}

// rollback discards the most recently assigned slot, used when a setter
// fails after assign (e.g. a failed sprintf) so a partially-built Value
// never becomes visible.
func (s *valueStore) rollback() {
	if s.n > 0 {
		s.n--
	}
}

// last returns the most recently assigned value, or nil if the store is empty.
func (s *valueStore) last() *Value {
	if s.n == 0 {
		return nil
	}
	return &s.vals[s.n-1]
}

func (s *valueStore) get(i int) (*Value, error) {
	if i < 0 || i >= s.n {
		return nil, fmt.Errorf("probe: value index %d out of range [0,%d)", i, s.n)
	}
	return &s.vals[i], nil
}

func (s *valueStore) lookup(name string) *Value {
	for i := 0; i < s.n; i++ {
		if s.vals[i].Name == name {
			return &s.vals[i]
		}
	}
	return nil
}

// setValue stores raw bytes under name, truncating silently to VALBUF.
func (s *valueStore) setValue(name string, data []byte) *Value {
	v := s.assign(name)
	if v == nil {
		return nil
	}
	n := copy(v.Bytes[:], data)
	v.Len = n
	return v
}
