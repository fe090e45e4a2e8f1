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
)

// SBSIZE is the size of the cached superblock window.
const SBSIZE = 64 * 1024

// deviceReader implements a two-regime GetBuffer over a bound
// io.ReaderAt: a lazily-filled, read-once SBSIZE window for the hot path of
// repeated small reads near the device origin, and a grow-to-fit extent
// buffer for the rare large or distant read a parser needs. Both buffers are
// owned by the reader, not the caller; slices it returns are valid only
// until the next GetBuffer call.
type deviceReader struct {
	r          io.ReaderAt
	baseOffset int64
	size       int64 // 0 means unknown

	sbWindow []byte
	sbFilled bool
	sbRead   int // bytes actually read into sbWindow

	extentBuf []byte
	extentOff int64
	extentLen int
}

func newDeviceReader(r io.ReaderAt, baseOffset, size int64) *deviceReader {
	return &deviceReader{r: r, baseOffset: baseOffset, size: size}
}

// GetBuffer returns len bytes starting at off, both relative to the bound
// device's origin (baseOffset), or an error if the read is short or out of
// bounds. The returned slice aliases reader-owned storage.
func (d *deviceReader) GetBuffer(off int64, length int) ([]byte, error) {
	if off < 0 || length < 0 {
		return nil, fmt.Errorf("probe: negative offset or length")
	}
	if d.size > 0 && off+int64(length) > d.size {
		return nil, fmt.Errorf("probe: read [%d,%d) exceeds device size %d", off, off+int64(length), d.size)
	}

	if off+int64(length) <= SBSIZE {
		return d.getFromWindow(off, length)
	}
	return d.getFromExtent(off, length)
}

func (d *deviceReader) getFromWindow(off int64, length int) ([]byte, error) {
	if !d.sbFilled {
		d.sbWindow = make([]byte, SBSIZE)
		n, err := d.r.ReadAt(d.sbWindow, d.baseOffset)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("probe: superblock window read failed: %w", err)
		}
		d.sbRead = n
		d.sbFilled = true
	}

	end := off + int64(length)
	if end > int64(d.sbRead) {
		return nil, fmt.Errorf("probe: short read: only %d of %d bytes available in superblock window", d.sbRead, end)
	}
	return d.sbWindow[off:end], nil
}

func (d *deviceReader) getFromExtent(off int64, length int) ([]byte, error) {
	if length > cap(d.extentBuf) {
		d.extentBuf = make([]byte, length)
		d.extentLen = 0
	}

	// Serve from the current extent when the request is fully contained.
	if d.extentLen > 0 && off >= d.extentOff && off+int64(length) <= d.extentOff+int64(d.extentLen) {
		start := off - d.extentOff
		return d.extentBuf[start : start+int64(length)], nil
	}

	buf := d.extentBuf[:length]
	n, err := d.r.ReadAt(buf, d.baseOffset+off)
	if err != nil && !(err == io.EOF && n == length) {
		return nil, fmt.Errorf("probe: extent read at %d (len %d) failed: %w", off, length, err)
	}
	if n < length {
		return nil, fmt.Errorf("probe: short extent read at %d: got %d of %d bytes", off, n, length)
	}
	d.extentOff, d.extentLen = off, length
	return buf, nil
}

// reset drops both buffers, forcing the next GetBuffer to re-read from the
// underlying device. Called by Session.Reset; rebinding a Session replaces
// its reader instead.
func (d *deviceReader) reset() {
	d.sbWindow = nil
	d.sbFilled = false
	d.sbRead = 0
	d.extentBuf = nil
	d.extentOff = 0
	d.extentLen = 0
}
