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

//go:build linux

package disk

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/ostafen/blkprobe/internal/fs"
)

// Linux ioctl request codes for block devices. Not exported by x/sys/unix
// under these names, so they are mirrored here from <linux/fs.h>.
const (
	blkSSZget    = 0x1268
	blkGetSize64 = 0x80081272
)

type fder interface {
	Fd() uintptr
}

// sectorSizeLinux queries the logical sector size of a block device via BLKSSZGET.
func sectorSizeLinux(f fs.File) (int64, error) {
	fdr, ok := f.(fder)
	if !ok {
		return 0, fmt.Errorf("disk: %T has no file descriptor", f)
	}

	sectorSize, err := unix.IoctlGetInt(int(fdr.Fd()), blkSSZget)
	if err != nil {
		return 0, fmt.Errorf("ioctl BLKSSZGET failed: %w", err)
	}
	return int64(sectorSize), nil
}

// deviceSizeLinux queries the total size in bytes of a block device via BLKGETSIZE64.
func deviceSizeLinux(f fs.File) (int64, error) {
	fdr, ok := f.(fder)
	if !ok {
		return 0, fmt.Errorf("disk: %T has no file descriptor", f)
	}

	size, err := unix.IoctlGetInt(int(fdr.Fd()), blkGetSize64)
	if err != nil {
		return 0, fmt.Errorf("ioctl BLKGETSIZE64 failed: %w", err)
	}
	return int64(size), nil
}
