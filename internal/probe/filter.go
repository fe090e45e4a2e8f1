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

// FilterMode selects the polarity of a Filter constructor.
type FilterMode int

const (
	// ONLYIN skips every descriptor not named in the list (or not matching
	// the usage mask).
	ONLYIN FilterMode = iota
	// NOTIN skips every descriptor named in the list (or matching the usage mask).
	NOTIN
)

// Filter is a bitmap over registry indices: a set bit means "skip this
// descriptor". The zero value has no bits at all, so it skips nothing and
// Invert leaves it skipping nothing; NewFilter returns an all-clear filter
// sized to the current registry.
type Filter struct {
	skip []bool
}

// NewFilter returns an empty filter, sized to the current registry, with
// every descriptor included.
func NewFilter() *Filter {
	return &Filter{skip: make([]bool, len(registry))}
}

// FilterTypes builds a filter over descriptor names. In ONLYIN mode every
// descriptor whose name is absent from names is skipped; in NOTIN mode every
// descriptor whose name is present is skipped.
func FilterTypes(mode FilterMode, names []string) *Filter {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}

	f := NewFilter()
	for i, d := range registry {
		in := set[d.Name]
		f.skip[i] = (mode == ONLYIN && !in) || (mode == NOTIN && in)
	}
	return f
}

// FilterUsage builds a filter over descriptor usage classes, matching the
// same ONLYIN/NOTIN polarity as FilterTypes against descriptor.Usage & mask.
func FilterUsage(mode FilterMode, mask Usage) *Filter {
	f := NewFilter()
	for i, d := range registry {
		in := d.Usage&mask != 0
		f.skip[i] = (mode == ONLYIN && !in) || (mode == NOTIN && in)
	}
	return f
}

// Invert flips every bit in place.
func (f *Filter) Invert() {
	for i := range f.skip {
		f.skip[i] = !f.skip[i]
	}
}

// Reset clears every bit, leaving the bitmap allocated.
func (f *Filter) Reset() {
	for i := range f.skip {
		f.skip[i] = false
	}
}

// skips reports whether registry index i should be skipped. A nil Filter
// never skips anything.
func (f *Filter) skips(i int) bool {
	return f != nil && i < len(f.skip) && f.skip[i]
}
