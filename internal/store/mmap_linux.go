//go:build linux

package store

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// mmapDataAccess is the memory-mapped backing strategy named in
// spec.md §4.1. Growth truncates the backing file and remaps it; page
// faults on access are transparent to the caller (spec.md §5).
type mmapDataAccess struct {
	path string
	file *os.File

	segmentBytes int
	segSizeSet   bool

	region []byte // mmap'd region, preamble+header+payload

	capacityBytes int // total mapped bytes available for payload
	initialized   bool
	version       int32
}

// NewMMap creates a memory-mapped DataAccess backed by path.
func NewMMap(path string) (DataAccess, error) {
	return &mmapDataAccess{path: path}, nil
}

func (d *mmapDataAccess) SegmentSize(bytes int) error {
	if d.initialized {
		return fatal(ErrProgrammer, "SegmentSize", "cannot reconfigure segment size after initialization")
	}
	if bytes <= 0 || bytes%4 != 0 {
		return fatal(ErrProgrammer, "SegmentSize", "segment size %d must be a positive multiple of 4", bytes)
	}
	d.segmentBytes = bytes
	d.segSizeSet = true
	return nil
}

func (d *mmapDataAccess) ensureSegmentSize() {
	if !d.segSizeSet {
		d.segmentBytes = DefaultSegmentBytes
		d.segSizeSet = true
	}
}

// headerByteOffset is where the HeaderSlots*4 caller header begins, after
// the preambleWords*4-byte store preamble.
func (d *mmapDataAccess) headerByteOffset() int { return preambleWords * 4 }

// payloadByteOffset is where int32 payload words begin on disk/in the map.
func (d *mmapDataAccess) payloadByteOffset() int {
	return d.headerByteOffset() + HeaderSlots*4
}

func (d *mmapDataAccess) CreateNew(byteCapacity int) error {
	if d.initialized {
		return fatal(ErrProgrammer, "CreateNew", "store already initialized")
	}
	d.ensureSegmentSize()
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fatal(ErrCorruption, "CreateNew", "mkdir: %w", err)
	}
	f, err := os.OpenFile(d.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fatal(ErrCorruption, "CreateNew", "open: %w", err)
	}
	d.file = f
	d.initialized = true
	d.capacityBytes = 0
	d.EnsureCapacity(byteCapacity)
	return nil
}

func (d *mmapDataAccess) remap(totalBytes int) error {
	if d.region != nil {
		if err := unix.Munmap(d.region); err != nil {
			return fatal(ErrCorruption, "remap", "munmap: %w", err)
		}
		d.region = nil
	}
	if err := d.file.Truncate(int64(totalBytes)); err != nil {
		return fatal(ErrCorruption, "remap", "truncate: %w", err)
	}
	region, err := unix.Mmap(int(d.file.Fd()), 0, totalBytes, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fatal(ErrCorruption, "remap", "mmap: %w", err)
	}
	d.region = region
	return nil
}

func (d *mmapDataAccess) EnsureCapacity(bytes int) {
	d.ensureSegmentSize()
	if bytes <= d.capacityBytes {
		return
	}
	neededTotal := d.payloadByteOffset() + bytes
	segBytes := d.segmentBytes
	roundedTotal := ((neededTotal + segBytes - 1) / segBytes) * segBytes
	if err := d.remap(roundedTotal); err != nil {
		panic(err)
	}
	d.capacityBytes = roundedTotal - d.payloadByteOffset()
}

func (d *mmapDataAccess) TrimTo(bytes int) {
	neededTotal := d.payloadByteOffset() + bytes
	segBytes := d.segmentBytes
	roundedTotal := ((neededTotal + segBytes - 1) / segBytes) * segBytes
	if roundedTotal >= d.payloadByteOffset()+d.capacityBytes {
		return
	}
	if err := d.remap(roundedTotal); err != nil {
		panic(err)
	}
	d.capacityBytes = roundedTotal - d.payloadByteOffset()
}

func (d *mmapDataAccess) GetInt(i int) int32 {
	off := d.payloadByteOffset() + i*4
	return int32(binary.BigEndian.Uint32(d.region[off : off+4]))
}

func (d *mmapDataAccess) SetInt(i int, v int32) {
	off := d.payloadByteOffset() + i*4
	binary.BigEndian.PutUint32(d.region[off:off+4], uint32(v))
}

func (d *mmapDataAccess) GetHeader(slot int) int32 {
	off := d.headerByteOffset() + slot*4
	return int32(binary.BigEndian.Uint32(d.region[off : off+4]))
}

func (d *mmapDataAccess) SetHeader(slot int, v int32) {
	off := d.headerByteOffset() + slot*4
	binary.BigEndian.PutUint32(d.region[off:off+4], uint32(v))
}

func (d *mmapDataAccess) Capacity() int { return d.capacityBytes }

func (d *mmapDataAccess) Version() int32 { return d.version }

func (d *mmapDataAccess) Flush() error {
	d.version++
	binary.BigEndian.PutUint32(d.region[0:4], uint32(d.segmentBytes))
	binary.BigEndian.PutUint32(d.region[4:8], uint32(d.capacityBytes/4))
	binary.BigEndian.PutUint32(d.region[8:12], uint32(d.version))
	if err := unix.Msync(d.region, unix.MS_SYNC); err != nil {
		return fatal(ErrCorruption, "Flush", "msync: %w", err)
	}
	return nil
}

func (d *mmapDataAccess) LoadExisting() (bool, error) {
	f, err := os.OpenFile(d.path, os.O_RDWR, 0o644)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fatal(ErrCorruption, "LoadExisting", "open: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return false, fatal(ErrCorruption, "LoadExisting", "stat: %w", err)
	}
	if info.Size() < int64(preambleWords*4+HeaderSlots*4) {
		f.Close()
		return false, fatal(ErrCorruption, "LoadExisting", "truncated file %s", d.path)
	}
	d.file = f
	region, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return false, fatal(ErrCorruption, "LoadExisting", "mmap: %w", err)
	}
	d.region = region

	fileSegmentBytes := int(binary.BigEndian.Uint32(region[0:4]))
	payloadWords := int(binary.BigEndian.Uint32(region[4:8]))
	version := int32(binary.BigEndian.Uint32(region[8:12]))

	if d.segSizeSet && d.segmentBytes != fileSegmentBytes {
		return false, fatal(ErrCorruption, "LoadExisting",
			"segment size mismatch: configured %d, file has %d", d.segmentBytes, fileSegmentBytes)
	}
	d.segmentBytes = fileSegmentBytes
	d.segSizeSet = true
	d.version = version
	d.initialized = true
	d.capacityBytes = payloadWords * 4

	wantTotal := d.payloadByteOffset() + d.capacityBytes
	if int64(wantTotal) > info.Size() {
		return false, fatal(ErrCorruption, "LoadExisting", "truncated payload in %s", d.path)
	}
	return true, nil
}

func (d *mmapDataAccess) Close() error {
	if d.region != nil {
		if err := unix.Munmap(d.region); err != nil {
			return fatal(ErrCorruption, "Close", "munmap: %w", err)
		}
		d.region = nil
	}
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}
