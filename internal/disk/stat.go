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
package disk

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/ostafen/blkprobe/internal/fs"
)

// DefaultSectorSize is used for regular files and for devices whose sector
// size could not be determined through an ioctl.
const DefaultSectorSize = 512

// Info describes an opened block device or disk image: what it is, how big
// it is, and the handle to read it through. It carries no knowledge of
// partitions or superblocks; that belongs entirely to internal/probe.
type Info struct {
	Path       string
	SectorSize int64
	Size       int64
	IsDevice   bool

	file fs.File
}

// ReadAt satisfies io.ReaderAt so an Info can be bound directly to a probe.Session.
func (d *Info) ReadAt(p []byte, off int64) (int, error) {
	return d.file.ReadAt(p, off)
}

func (d *Info) Close() error {
	return d.file.Close()
}

// Open opens a device or regular disk-image file and determines its size.
// On Linux block devices it queries BLKSSZGET/BLKGETSIZE64 (see size_linux.go);
// everywhere else, and for regular files, it falls back to seeking to the end.
func Open(path string) (*Info, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("disk: failed to open %q: %w", path, err)
	}

	info := &Info{
		Path:       path,
		SectorSize: DefaultSectorSize,
		file:       f,
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("disk: failed to stat %q: %w", path, err)
	}
	info.IsDevice = stat.Mode()&os.ModeDevice != 0

	if info.IsDevice && runtime.GOOS == "linux" {
		if sectorSize, ioctlErr := sectorSizeLinux(f); ioctlErr == nil {
			info.SectorSize = sectorSize
		}
		if size, ioctlErr := deviceSizeLinux(f); ioctlErr == nil {
			info.Size = size
		}
	}

	if info.Size == 0 {
		size, err := seekSize(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("disk: could not determine size of %q: %w", path, err)
		}
		info.Size = size
	}
	return info, nil
}

func seekSize(f fs.File) (int64, error) {
	type seeker interface {
		Seek(offset int64, whence int) (int64, error)
	}
	if s, ok := f.(seeker); ok {
		return s.Seek(0, io.SeekEnd)
	}
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
