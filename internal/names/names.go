// Package names implements the street-name table: an append-with-dedup
// store of UTF-32-encoded names over a single DataAccess, returning the
// integer offset at which a name lives (spec.md §4.4).
//
// Design note carried from spec.md: this linear dedup is O(n) per insert,
// acceptable only for the offline/bulk-build use case the storage engine
// targets. A production rewrite would hash on insert instead.
package names

import (
	"unicode/utf8"

	"github.com/streetgraph/graph/internal/store"
)

const (
	headerCount      = 0
	headerNextOffset = 1

	initialBytes = 4096
)

// Table is the street-name table.
type Table struct {
	da         store.DataAccess
	nextOffset int
	count      int32
}

// New wraps da as a names.Table. da must already have been initialized via
// CreateNew or LoadExisting by the caller before Insert/GetName are used;
// call Load after LoadExisting to restore in-memory bookkeeping.
func New(da store.DataAccess) *Table {
	return &Table{da: da}
}

// DataAccess returns the backing store, for callers that need to drive its
// LoadExisting/Flush/Close lifecycle directly.
func (t *Table) DataAccess() store.DataAccess { return t.da }

// CreateNew initializes the backing store for a fresh, empty table. Offset
// 0 is reserved for the empty name, so a zero nameRef in an edge record
// always decodes to "" without a special case at the call site.
func (t *Table) CreateNew() error {
	if err := t.da.CreateNew(initialBytes); err != nil {
		return err
	}
	t.nextOffset = 0
	t.count = 0
	t.da.SetHeader(headerCount, 0)
	t.da.SetHeader(headerNextOffset, 0)
	t.Insert("")
	return nil
}

// Load restores in-memory bookkeeping after the caller has called
// da.LoadExisting().
func (t *Table) Load() {
	t.count = t.da.GetHeader(headerCount)
	t.nextOffset = int(t.da.GetHeader(headerNextOffset))
}

// Count returns the number of distinct names stored.
func (t *Table) Count() int32 { return t.count }

// Insert encodes s as UTF-32 and appends it with dedup, returning the
// integer offset at which the name lives. Equal strings always return
// equal offsets.
func (t *Table) Insert(s string) int {
	runes := encodeUTF32(s)

	if off, ok := t.find(runes); ok {
		return off
	}

	off := t.nextOffset
	needed := (off + 1 + len(runes)) * 4
	t.da.EnsureCapacity(needed)

	t.da.SetInt(off, int32(len(runes)))
	for i, r := range runes {
		t.da.SetInt(off+1+i, r)
	}

	t.nextOffset = off + 1 + len(runes)
	t.count++
	t.da.SetHeader(headerCount, t.count)
	t.da.SetHeader(headerNextOffset, int32(t.nextOffset))

	return off
}

// find performs the linear scan for dedup, returning the offset of an
// identical existing record, if any.
func (t *Table) find(runes []int32) (int, bool) {
	off := 0
	for off < t.nextOffset {
		length := int(t.da.GetInt(off))
		if length == len(runes) {
			match := true
			for i, r := range runes {
				if t.da.GetInt(off+1+i) != r {
					match = false
					break
				}
			}
			if match {
				return off, true
			}
		}
		off += 1 + length
	}
	return 0, false
}

// GetName decodes the name stored at offset.
func (t *Table) GetName(offset int) string {
	length := int(t.da.GetInt(offset))
	runes := make([]int32, length)
	for i := range runes {
		runes[i] = t.da.GetInt(offset + 1 + i)
	}
	return decodeUTF32(runes)
}

func encodeUTF32(s string) []int32 {
	runes := make([]int32, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		runes = append(runes, int32(r))
	}
	return runes
}

func decodeUTF32(runes []int32) string {
	out := make([]rune, len(runes))
	for i, r := range runes {
		out[i] = rune(r)
	}
	return string(out)
}
