package store

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
)

// preambleWords is the store-internal preamble written before the
// HeaderSlots caller-visible header integers: segment size in bytes,
// logical payload word count, and version.
const preambleWords = 3

// ramDataAccess is a segmented in-memory array of int32 that flushes to a
// single file within a directory. It is the default backing strategy.
type ramDataAccess struct {
	path string

	segmentBytes int
	segmentWords int
	segSizeSet   bool

	segments [][]int32
	header   [HeaderSlots]int32

	capacityWords int // logical capacity across all segments
	initialized   bool
	version       int32
}

// NewRAM creates a RAM-backed DataAccess whose file lives at path.
func NewRAM(path string) DataAccess {
	return &ramDataAccess{path: path}
}

func (d *ramDataAccess) SegmentSize(bytes int) error {
	if d.initialized {
		return fatal(ErrProgrammer, "SegmentSize", "cannot reconfigure segment size after initialization")
	}
	if bytes <= 0 || bytes%4 != 0 {
		return fatal(ErrProgrammer, "SegmentSize", "segment size %d must be a positive multiple of 4", bytes)
	}
	d.segmentBytes = bytes
	d.segmentWords = bytes / 4
	d.segSizeSet = true
	return nil
}

func (d *ramDataAccess) ensureSegmentSize() {
	if !d.segSizeSet {
		d.segmentBytes = DefaultSegmentBytes
		d.segmentWords = DefaultSegmentBytes / 4
		d.segSizeSet = true
	}
}

func (d *ramDataAccess) CreateNew(byteCapacity int) error {
	if d.initialized {
		return fatal(ErrProgrammer, "CreateNew", "store already initialized")
	}
	d.ensureSegmentSize()
	d.initialized = true
	d.EnsureCapacity(byteCapacity)
	return nil
}

func (d *ramDataAccess) EnsureCapacity(bytes int) {
	d.ensureSegmentSize()
	if bytes <= d.capacityWords*4 {
		return
	}
	neededWords := (bytes + 3) / 4
	for d.capacityWords < neededWords {
		d.segments = append(d.segments, make([]int32, d.segmentWords))
		d.capacityWords += d.segmentWords
	}
}

func (d *ramDataAccess) TrimTo(bytes int) {
	neededWords := (bytes + 3) / 4
	neededSegments := 0
	if d.segmentWords > 0 {
		neededSegments = (neededWords + d.segmentWords - 1) / d.segmentWords
	}
	if neededSegments < 0 {
		neededSegments = 0
	}
	if neededSegments >= len(d.segments) {
		return
	}
	d.segments = d.segments[:neededSegments]
	d.capacityWords = neededSegments * d.segmentWords
}

func (d *ramDataAccess) index(i int) (seg, within int) {
	return i / d.segmentWords, i % d.segmentWords
}

func (d *ramDataAccess) GetInt(i int) int32 {
	seg, within := d.index(i)
	return d.segments[seg][within]
}

func (d *ramDataAccess) SetInt(i int, v int32) {
	seg, within := d.index(i)
	d.segments[seg][within] = v
}

func (d *ramDataAccess) GetHeader(slot int) int32 {
	return d.header[slot]
}

func (d *ramDataAccess) SetHeader(slot int, v int32) {
	d.header[slot] = v
}

func (d *ramDataAccess) Capacity() int { return d.capacityWords * 4 }

func (d *ramDataAccess) Version() int32 { return d.version }

// Flush writes the preamble, header, and logical payload to d.path,
// replacing it wholesale: the storage engine has no incremental
// persistence (spec.md §1 Non-goals).
func (d *ramDataAccess) Flush() error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fatal(ErrCorruption, "Flush", "mkdir: %w", err)
	}
	f, err := os.Create(d.path)
	if err != nil {
		return fatal(ErrCorruption, "Flush", "create: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	d.version++
	preamble := [preambleWords]int32{int32(d.segmentBytes), int32(d.logicalWords()), d.version}
	for _, v := range preamble {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return fatal(ErrCorruption, "Flush", "write preamble: %w", err)
		}
	}
	for _, v := range d.header {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return fatal(ErrCorruption, "Flush", "write header: %w", err)
		}
	}
	words := d.logicalWords()
	written := 0
	for _, seg := range d.segments {
		n := len(seg)
		if written+n > words {
			n = words - written
		}
		if n <= 0 {
			break
		}
		if err := binary.Write(w, binary.BigEndian, seg[:n]); err != nil {
			return fatal(ErrCorruption, "Flush", "write payload: %w", err)
		}
		written += n
	}
	if err := w.Flush(); err != nil {
		return fatal(ErrCorruption, "Flush", "flush buffer: %w", err)
	}
	return f.Sync()
}

// logicalWords is the payload size written by Flush. ramDataAccess treats
// the whole allocated capacity as logical, including any never-written
// tail: unused words are zero and harmless to persist.
func (d *ramDataAccess) logicalWords() int {
	return d.capacityWords
}

func (d *ramDataAccess) LoadExisting() (bool, error) {
	f, err := os.Open(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fatal(ErrCorruption, "LoadExisting", "open: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var preamble [preambleWords]int32
	for i := range preamble {
		if err := binary.Read(r, binary.BigEndian, &preamble[i]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return false, fatal(ErrCorruption, "LoadExisting", "truncated preamble in %s", d.path)
			}
			return false, fatal(ErrCorruption, "LoadExisting", "read preamble: %w", err)
		}
	}
	fileSegmentBytes := int(preamble[0])
	payloadWords := int(preamble[1])
	version := preamble[2]

	if d.segSizeSet && d.segmentBytes != fileSegmentBytes {
		return false, fatal(ErrCorruption, "LoadExisting",
			"segment size mismatch: configured %d, file has %d", d.segmentBytes, fileSegmentBytes)
	}
	d.segmentBytes = fileSegmentBytes
	d.segmentWords = fileSegmentBytes / 4
	d.segSizeSet = true

	var header [HeaderSlots]int32
	for i := range header {
		if err := binary.Read(r, binary.BigEndian, &header[i]); err != nil {
			return false, fatal(ErrCorruption, "LoadExisting", "read header: %w", err)
		}
	}
	d.header = header
	d.version = version

	d.segments = nil
	d.capacityWords = 0
	d.initialized = true
	d.EnsureCapacity(payloadWords * 4)

	remaining := payloadWords
	for _, seg := range d.segments {
		n := len(seg)
		if n > remaining {
			n = remaining
		}
		if n <= 0 {
			break
		}
		if err := binary.Read(r, binary.BigEndian, seg[:n]); err != nil {
			return false, fatal(ErrCorruption, "LoadExisting", "truncated payload in %s: %w", d.path, err)
		}
		remaining -= n
	}
	if remaining > 0 {
		return false, fatal(ErrCorruption, "LoadExisting", "truncated payload in %s", d.path)
	}
	return true, nil
}

func (d *ramDataAccess) Close() error { return nil }
