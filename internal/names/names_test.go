package names

import (
	"testing"

	"github.com/streetgraph/graph/internal/store"
)

func newTable(t *testing.T) *Table {
	t.Helper()
	da := store.NewRAM(t.TempDir() + "/names")
	tbl := New(da)
	if err := tbl.CreateNew(); err != nil {
		t.Fatalf("CreateNew: %v", err)
	}
	return tbl
}

func TestInsertDedup(t *testing.T) {
	t.Parallel()
	tbl := newTable(t)

	a := tbl.Insert("Main Street")
	b := tbl.Insert("Oak Avenue")
	a2 := tbl.Insert("Main Street")

	if a != a2 {
		t.Errorf("dedup failed: first offset %d, second offset %d", a, a2)
	}
	if a == b {
		t.Errorf("distinct strings got the same offset %d", a)
	}
	// CreateNew stores the reserved empty name, so two inserted names make 3.
	if tbl.Count() != 3 {
		t.Errorf("Count() = %d, want 3", tbl.Count())
	}
}

func TestGetNameRoundTrip(t *testing.T) {
	t.Parallel()
	tbl := newTable(t)

	cases := []string{"", "Main Street", "Rue de l'Église", "日本橋"}
	offsets := make([]int, len(cases))
	for i, s := range cases {
		offsets[i] = tbl.Insert(s)
	}
	for i, s := range cases {
		if got := tbl.GetName(offsets[i]); got != s {
			t.Errorf("GetName(%d) = %q, want %q", offsets[i], got, s)
		}
	}
}

func TestLoadRestoresBookkeeping(t *testing.T) {
	t.Parallel()
	path := t.TempDir() + "/names"

	da := store.NewRAM(path)
	tbl := New(da)
	if err := tbl.CreateNew(); err != nil {
		t.Fatalf("CreateNew: %v", err)
	}
	off := tbl.Insert("Main Street")
	if err := da.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	da2 := store.NewRAM(path)
	loaded, err := da2.LoadExisting()
	if err != nil || !loaded {
		t.Fatalf("LoadExisting: loaded=%v err=%v", loaded, err)
	}
	tbl2 := New(da2)
	tbl2.Load()

	if got := tbl2.GetName(off); got != "Main Street" {
		t.Errorf("GetName after reload = %q, want %q", got, "Main Street")
	}
	if next := tbl2.Insert("Oak Avenue"); next == off {
		t.Errorf("insert after reload collided with existing offset %d", off)
	}
}
