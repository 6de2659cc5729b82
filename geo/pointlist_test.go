package geo

import "testing"

func TestPointListAddAndGrow(t *testing.T) {
	t.Parallel()
	p := NewPointList(0)
	for i := 0; i < 12; i++ {
		p.Add(float64(i), float64(-i))
	}
	if p.Size() != 12 {
		t.Fatalf("size = %d, want 12", p.Size())
	}
	for i := 0; i < 12; i++ {
		if p.Latitude(i) != float64(i) || p.Longitude(i) != float64(-i) {
			t.Fatalf("point %d = (%v,%v), want (%v,%v)", i, p.Latitude(i), p.Longitude(i), i, -i)
		}
	}
}

func TestPointListReverseInvolution(t *testing.T) {
	t.Parallel()
	p := NewPointList(4)
	p.Add(1, 2)
	p.Add(3, 4)
	p.Add(5, 6)

	orig := snapshot(p)
	p.Reverse()
	p.Reverse()
	if got := snapshot(p); !equalSnapshots(got, orig) {
		t.Fatalf("reverse;reverse changed contents: got %v, want %v", got, orig)
	}
}

func TestPointListTrimToSize(t *testing.T) {
	t.Parallel()
	p := NewPointList(4)
	p.Add(1, 1)
	p.Add(2, 2)
	p.Add(3, 3)
	p.TrimToSize(1)
	if p.Size() != 1 || p.Latitude(0) != 1 {
		t.Fatalf("TrimToSize did not shrink correctly: size=%d", p.Size())
	}
}

func TestPointListBoundsPanics(t *testing.T) {
	t.Parallel()
	p := NewPointList(1)
	p.Add(1, 1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on out-of-range access")
		}
	}()
	p.Latitude(5)
}

type ptPair struct{ lat, lon float64 }

func snapshot(p *PointList) []ptPair {
	out := make([]ptPair, p.Size())
	for i := range out {
		out[i] = ptPair{p.Latitude(i), p.Longitude(i)}
	}
	return out
}

func equalSnapshots(a, b []ptPair) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
