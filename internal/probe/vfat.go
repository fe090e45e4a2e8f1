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

const fatBootSectorSize = 0x200

// fatBootSector is the common FAT BIOS Parameter Block, ported from the
// disk package's original partition-table-oriented FatBootSector: same
// field layout through the BPB, now read directly off a probed device
// rather than a partition's first sector. The extended BPB that follows is
// generation-dependent and is decoded by offset instead.
type fatBootSector struct {
	Ignored           [3]byte
	SystemID          [8]byte
	SectorSize        uint16
	SectorsPerCluster uint8
	Reserved          uint16
	Fats              uint8
	DirEntries        uint16
	Sectors           uint16
	Media             uint8
	FatLength         uint16
	SecsTrack         uint16
	Heads             uint16
	Hidden            uint32
	TotalSect         uint32
	Fat32Length       uint32
}

// Extended BPB offsets, FAT12/16 versus FAT32.
const (
	fat1xBootSigOff = 0x26
	fat1xSerialOff  = 0x27
	fat1xLabelOff   = 0x2B

	fat32BootSigOff = 0x42
	fat32SerialOff  = 0x43
	fat32LabelOff   = 0x47

	fatExtBootSig = 0x29
)

var vfatDescriptor = FormatDescriptor{
	Name:  "vfat",
	Usage: UsageFilesystem,
	Magics: []MagicRule{
		{Bytes: []byte("MSWIN"), KBOffset: 0, SectorOffset: 3},
		{Bytes: []byte("MSDOS"), KBOffset: 0, SectorOffset: 3},
		{Bytes: []byte("FAT12   "), KBOffset: 0, SectorOffset: 0x36},
		{Bytes: []byte("FAT16   "), KBOffset: 0, SectorOffset: 0x36},
		{Bytes: []byte("FAT32   "), KBOffset: 0, SectorOffset: 0x52},
		// Fallback: any boot sector carries the 0xAA55 marker; the parser
		// does the real structural discrimination.
		{Bytes: []byte{0x55, 0xAA}, KBOffset: 0, SectorOffset: 0x1FE},
	},
	Parser: parseVFAT,
}

// parseVFAT decodes the boot sector and classifies the FAT generation by
// cluster count, the same heuristic every FAT prober uses since the on-disk
// "FATnn" string is informational, not authoritative. The generation is
// reported as the VERSION; the TYPE stays "vfat" for all three.
func parseVFAT(s *Session, rule *MagicRule) error {
	buf, err := s.GetBuffer(0, fatBootSectorSize)
	if err != nil {
		return err
	}

	bs, err := readFatBootSector(buf)
	if err != nil {
		return err
	}

	clusterCount, err := fatClusterCount(bs)
	if err != nil {
		return err
	}

	var version string
	serialOff, labelOff := fat1xSerialOff, fat1xLabelOff
	bootSigOff := fat1xBootSigOff
	switch {
	case clusterCount < 4085:
		version = "FAT12"
	case clusterCount < 65525:
		version = "FAT16"
	default:
		version = "FAT32"
		serialOff, labelOff = fat32SerialOff, fat32LabelOff
		bootSigOff = fat32BootSigOff
	}

	if err := s.SetVersion(version); err != nil {
		return err
	}

	// Serial and label are only present when the extended boot signature
	// says so.
	if buf[bootSigOff] == fatExtBootSig {
		serial := binary.LittleEndian.Uint32(buf[serialOff : serialOff+4])
		if err := s.SprintfUUID("%04X-%04X", serial>>16, serial&0xFFFF); err != nil {
			return err
		}
		label := buf[labelOff : labelOff+11]
		if !bytes.Equal(label, []byte("NO NAME    ")) {
			s.SetLabel(label)
		}
	}
	return nil
}

func readFatBootSector(data []byte) (*fatBootSector, error) {
	if len(data) < fatBootSectorSize {
		return nil, fmt.Errorf("probe: fat boot sector too short: %d bytes", len(data))
	}
	if data[0x1FE] != 0x55 || data[0x1FF] != 0xAA {
		return nil, fmt.Errorf("probe: invalid boot sector marker")
	}

	var bs fatBootSector
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &bs); err != nil {
		return nil, fmt.Errorf("probe: decoding fat boot sector: %w", err)
	}
	if bs.SectorSize == 0 || bs.SectorSize&(bs.SectorSize-1) != 0 {
		return nil, fmt.Errorf("probe: invalid fat sector size %d", bs.SectorSize)
	}
	if bs.Fats == 0 {
		return nil, fmt.Errorf("probe: fat count is zero")
	}
	return &bs, nil
}

func fatClusterCount(bs *fatBootSector) (uint32, error) {
	if bs.SectorsPerCluster == 0 {
		return 0, fmt.Errorf("probe: zero sectors per cluster")
	}

	sectors := uint32(bs.Sectors)
	if sectors == 0 {
		sectors = bs.TotalSect
	}
	fatLength := uint32(bs.FatLength)
	if fatLength == 0 {
		fatLength = bs.Fat32Length
	}
	if fatLength == 0 {
		return 0, fmt.Errorf("probe: zero fat length")
	}

	rootDirSectors := (uint32(bs.DirEntries)*32 + uint32(bs.SectorSize) - 1) / uint32(bs.SectorSize)
	metaSectors := uint32(bs.Reserved) + uint32(bs.Fats)*fatLength + rootDirSectors
	if sectors < metaSectors {
		return 0, fmt.Errorf("probe: fat metadata exceeds sector count")
	}
	return (sectors - metaSectors) / uint32(bs.SectorsPerCluster), nil
}
