package store

import "testing"

func TestDirectoryFindCreateIdempotent(t *testing.T) {
	t.Parallel()
	d := New(t.TempDir(), BackendRAM)
	a, err := d.FindCreate("nodes")
	if err != nil {
		t.Fatalf("FindCreate: %v", err)
	}
	b, err := d.FindCreate("nodes")
	if err != nil {
		t.Fatalf("FindCreate: %v", err)
	}
	if a != b {
		t.Fatal("FindCreate returned different handles for the same name")
	}
}

func TestDirectoryFlushAndClose(t *testing.T) {
	t.Parallel()
	d := New(t.TempDir(), BackendRAM)

	names := []string{"nodes", "egdes", "geometry", "names"}
	for _, name := range names {
		h, err := d.FindCreate(name)
		if err != nil {
			t.Fatalf("FindCreate(%s): %v", name, err)
		}
		if err := h.CreateNew(64); err != nil {
			t.Fatalf("CreateNew(%s): %v", name, err)
		}
	}

	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
