package store

import (
	"path/filepath"
	"testing"
)

func TestRAMCreateNewTwiceFails(t *testing.T) {
	t.Parallel()
	d := NewRAM(filepath.Join(t.TempDir(), "nodes"))
	if err := d.CreateNew(64); err != nil {
		t.Fatalf("CreateNew: %v", err)
	}
	if err := d.CreateNew(64); err == nil {
		t.Fatal("expected error on double CreateNew")
	}
}

func TestRAMGetSetRoundTrip(t *testing.T) {
	t.Parallel()
	d := NewRAM(filepath.Join(t.TempDir(), "nodes"))
	if err := d.CreateNew(64); err != nil {
		t.Fatalf("CreateNew: %v", err)
	}
	for i := 0; i < 10; i++ {
		d.SetInt(i, int32(i*7))
	}
	for i := 0; i < 10; i++ {
		if got := d.GetInt(i); got != int32(i*7) {
			t.Fatalf("GetInt(%d) = %d, want %d", i, got, i*7)
		}
	}
}

func TestRAMHeaderRoundTrip(t *testing.T) {
	t.Parallel()
	d := NewRAM(filepath.Join(t.TempDir(), "nodes"))
	if err := d.CreateNew(64); err != nil {
		t.Fatalf("CreateNew: %v", err)
	}
	for slot := 0; slot < HeaderSlots; slot++ {
		d.SetHeader(slot, int32(slot*100))
	}
	for slot := 0; slot < HeaderSlots; slot++ {
		if got := d.GetHeader(slot); got != int32(slot*100) {
			t.Fatalf("GetHeader(%d) = %d, want %d", slot, got, slot*100)
		}
	}
}

func TestRAMEnsureCapacityNeverShrinks(t *testing.T) {
	t.Parallel()
	d := NewRAM(filepath.Join(t.TempDir(), "nodes"))
	if err := d.SegmentSize(64); err != nil {
		t.Fatalf("SegmentSize: %v", err)
	}
	if err := d.CreateNew(256); err != nil {
		t.Fatalf("CreateNew: %v", err)
	}
	cap1 := d.Capacity()
	d.EnsureCapacity(16)
	if d.Capacity() != cap1 {
		t.Fatalf("EnsureCapacity shrank capacity: %d -> %d", cap1, d.Capacity())
	}
}

func TestRAMFlushLoadRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nodes")

	d := NewRAM(path)
	if err := d.SegmentSize(64); err != nil {
		t.Fatalf("SegmentSize: %v", err)
	}
	if err := d.CreateNew(128); err != nil {
		t.Fatalf("CreateNew: %v", err)
	}
	for i := 0; i < 20; i++ {
		d.SetInt(i, int32(i*3+1))
	}
	d.SetHeader(2, 42)
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reopened := NewRAM(path)
	loaded, err := reopened.LoadExisting()
	if err != nil {
		t.Fatalf("LoadExisting: %v", err)
	}
	if !loaded {
		t.Fatal("LoadExisting reported nothing loaded")
	}
	if reopened.Version() != 1 {
		t.Fatalf("Version() = %d, want 1", reopened.Version())
	}
	if reopened.GetHeader(2) != 42 {
		t.Fatalf("GetHeader(2) = %d, want 42", reopened.GetHeader(2))
	}
	for i := 0; i < 20; i++ {
		if got := reopened.GetInt(i); got != int32(i*3+1) {
			t.Fatalf("GetInt(%d) = %d, want %d", i, got, i*3+1)
		}
	}
}

func TestRAMLoadExistingMissingFile(t *testing.T) {
	t.Parallel()
	d := NewRAM(filepath.Join(t.TempDir(), "missing"))
	loaded, err := d.LoadExisting()
	if err != nil {
		t.Fatalf("LoadExisting: %v", err)
	}
	if loaded {
		t.Fatal("LoadExisting reported true for a nonexistent file")
	}
}

func TestRAMSegmentSizeMismatchOnLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nodes")

	d := NewRAM(path)
	if err := d.SegmentSize(64); err != nil {
		t.Fatalf("SegmentSize: %v", err)
	}
	if err := d.CreateNew(64); err != nil {
		t.Fatalf("CreateNew: %v", err)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reopened := NewRAM(path)
	if err := reopened.SegmentSize(128); err != nil {
		t.Fatalf("SegmentSize: %v", err)
	}
	if _, err := reopened.LoadExisting(); err == nil {
		t.Fatal("expected fatal error on segment size mismatch")
	}
}
