package graph

import (
	"math"
	"testing"

	"github.com/streetgraph/graph/geo"
	"github.com/streetgraph/graph/internal/store"
)

func newTestGraph(t *testing.T) *Graph {
	t.Helper()
	dir := store.New(t.TempDir(), store.BackendRAM)
	g, err := New(dir, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := g.CreateNew(4); err != nil {
		t.Fatalf("CreateNew: %v", err)
	}
	return g
}

// S1: empty storage round trip.
func TestEmptyStorageRoundTrip(t *testing.T) {
	t.Parallel()
	dirPath := t.TempDir()

	dir := store.New(dirPath, store.BackendRAM)
	g, err := New(dir, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := g.CreateNew(0); err != nil {
		t.Fatalf("CreateNew: %v", err)
	}
	if err := g.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	dir2 := store.New(dirPath, store.BackendRAM)
	g2, err := New(dir2, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	loaded, err := g2.LoadExisting()
	if err != nil {
		t.Fatalf("LoadExisting: %v", err)
	}
	if !loaded {
		t.Fatal("LoadExisting reported nothing loaded")
	}
	if g2.Nodes() != 0 || g2.EdgeCount() != 0 {
		t.Fatalf("nodeCount=%d edgeCount=%d, want 0,0", g2.Nodes(), g2.EdgeCount())
	}
	bb := g2.Bounds()
	if !math.IsInf(bb.MinLat, 1) || !math.IsInf(bb.MaxLat, -1) {
		t.Fatalf("bounds not inverted-empty: %+v", bb)
	}
}

// S2: three-node line.
func TestThreeNodeLine(t *testing.T) {
	t.Parallel()
	g := newTestGraph(t)

	g.SetNode(0, 0, 0)
	g.SetNode(1, 0, 1)
	g.SetNode(2, 0, 2)
	g.Edge(0, 1, 111000, false, 0)
	g.Edge(1, 2, 111000, false, 0)

	var neighbors []int32
	it := g.GetEdges(1)
	for it.Next() {
		neighbors = append(neighbors, it.AdjNode())
	}
	if len(neighbors) != 2 || neighbors[0] != 0 || neighbors[1] != 2 {
		t.Fatalf("getEdges(1) = %v, want [0 2] in insertion order", neighbors)
	}

	bb := g.Bounds()
	if bb.MinLat != 0 || bb.MaxLat != 0 || bb.MinLon != 0 || bb.MaxLon != 2 {
		t.Fatalf("bounds = %+v, want (0,0,0,2)", bb)
	}
}

// S3: reverse insertion with flags.
func TestReverseInsertionCanonicalizesAndSwapsFlags(t *testing.T) {
	t.Parallel()
	g := newTestGraph(t)
	g.SetNode(3, 1, 1)
	g.SetNode(5, 2, 2)

	f := g.encoder.FlagsDefault(false)
	g.EdgeWithFlags(5, 3, 10.0, f, 0)

	all := g.GetAllEdges()
	if !all.Next() {
		t.Fatal("expected one edge")
	}
	if all.BaseNode() != 3 || all.AdjNode() != 5 {
		t.Fatalf("stored edge = (%d,%d), want nodeA=3 nodeB=5", all.BaseNode(), all.AdjNode())
	}
	if all.Flags() != g.encoder.SwapDirection(f) {
		t.Fatalf("stored flags = %d, want swapDirection(F) = %d", all.Flags(), g.encoder.SwapDirection(f))
	}

	fromFive := g.GetEdges(5)
	if !fromFive.Next() {
		t.Fatal("expected getEdges(5) to yield the edge")
	}
	if fromFive.Flags() != f {
		t.Fatalf("getEdges(5).Flags() = %d, want original F = %d", fromFive.Flags(), f)
	}
}

// S4: node removal + optimize.
func TestNodeRemovalAndOptimize(t *testing.T) {
	t.Parallel()
	g := newTestGraph(t)
	g.SetNode(0, 0, 0)
	g.SetNode(1, 0, 1)
	g.SetNode(2, 0, 2)
	g.Edge(0, 1, 100, false, 0)
	g.Edge(1, 2, 100, false, 0)

	g.MarkNodeRemoved(1)
	g.Optimize()

	if g.Nodes() != 2 {
		t.Fatalf("Nodes() = %d, want 2", g.Nodes())
	}
	if g.GetLatitude(0) != 0 || g.GetLongitude(0) != 0 {
		t.Fatalf("node 0 coordinates changed: (%v,%v)", g.GetLatitude(0), g.GetLongitude(0))
	}
	if g.GetLatitude(1) != 0 || g.GetLongitude(1) != 2 {
		t.Fatalf("node 2's data did not move into slot 1: (%v,%v)", g.GetLatitude(1), g.GetLongitude(1))
	}

	it := g.GetEdges(0)
	for it.Next() {
		t.Fatalf("node 0 still has a live edge to the removed node after optimize: adjNode=%d", it.AdjNode())
	}
}

// Property 1: canonical order.
func TestCanonicalOrderAlwaysHolds(t *testing.T) {
	t.Parallel()
	g := newTestGraph(t)
	for i := 0; i < 6; i++ {
		g.SetNode(i, float64(i), float64(i))
	}
	pairs := [][2]int{{5, 1}, {2, 4}, {0, 3}, {3, 0}, {4, 4}}
	for _, p := range pairs {
		g.Edge(p[0], p[1], 1, false, 0)
	}

	it := g.GetAllEdges()
	for it.Next() {
		if it.BaseNode() > it.AdjNode() {
			t.Fatalf("edge %d stored as (%d,%d), violates nodeA<=nodeB", it.EdgeID(), it.BaseNode(), it.AdjNode())
		}
	}
}

// Property 2/3: adjacency completeness and termination.
func TestAdjacencyCompletenessAndTermination(t *testing.T) {
	t.Parallel()
	g := newTestGraph(t)
	for i := 0; i < 4; i++ {
		g.SetNode(i, 0, 0)
	}
	g.Edge(0, 1, 1, false, 0)
	g.Edge(0, 2, 1, false, 0)
	g.Edge(0, 3, 1, false, 0)

	seen := map[int32]bool{}
	it := g.GetEdges(0)
	hops := 0
	for it.Next() {
		hops++
		seen[it.AdjNode()] = true
		if hops > 3 {
			t.Fatal("adjacency iteration did not terminate within node degree")
		}
	}
	for _, want := range []int32{1, 2, 3} {
		if !seen[want] {
			t.Fatalf("adjacency of node 0 missing neighbor %d", want)
		}
	}
}

// Property 5: geometry orientation.
func TestGeometryOrientation(t *testing.T) {
	t.Parallel()
	g := newTestGraph(t)
	g.SetNode(0, 0, 0)
	g.SetNode(1, 1, 1)

	it := g.Edge(0, 1, 100, false, 0)
	poly := geo.NewPointList(2)
	poly.Add(0.1, 0.1)
	poly.Add(0.2, 0.2)
	it.SetWayGeometry(poly)

	fwd := g.GetEdges(0)
	if !fwd.Next() {
		t.Fatal("expected edge from 0")
	}
	fp := fwd.WayGeometry()
	if fp.Size() != 2 || fp.Latitude(0) != 0.1 || fp.Latitude(1) != 0.2 {
		t.Fatalf("forward polyline wrong order: size=%d", fp.Size())
	}

	bwd := g.GetEdges(1)
	if !bwd.Next() {
		t.Fatal("expected edge from 1")
	}
	bp := bwd.WayGeometry()
	if bp.Size() != 2 || bp.Latitude(0) != 0.2 || bp.Latitude(1) != 0.1 {
		t.Fatalf("backward polyline not reversed: size=%d", bp.Size())
	}
}

// Property 6: name dedup.
func TestNameDedup(t *testing.T) {
	t.Parallel()
	g := newTestGraph(t)
	a := g.AddName("Main Street")
	b := g.AddName("Main Street")
	if a != b {
		t.Fatalf("AddName not deduped: %d != %d", a, b)
	}
	if g.GetName(a) != "Main Street" {
		t.Fatalf("GetName(%d) = %q, want Main Street", a, g.GetName(a))
	}
}

// Property 7: persistence round trip.
func TestPersistenceRoundTrip(t *testing.T) {
	t.Parallel()
	dirPath := t.TempDir()

	dir := store.New(dirPath, store.BackendRAM)
	g, err := New(dir, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := g.CreateNew(4); err != nil {
		t.Fatalf("CreateNew: %v", err)
	}
	g.SetNode(0, 10, 20)
	g.SetNode(1, 11, 21)
	g.Edge(0, 1, 500, true, g.AddName("Elm Road"))
	if err := g.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	dir2 := store.New(dirPath, store.BackendRAM)
	g2, err := New(dir2, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	loaded, err := g2.LoadExisting()
	if err != nil {
		t.Fatalf("LoadExisting: %v", err)
	}
	if !loaded {
		t.Fatal("nothing loaded")
	}
	if g2.Nodes() != 2 || g2.EdgeCount() != 1 {
		t.Fatalf("nodeCount=%d edgeCount=%d, want 2,1", g2.Nodes(), g2.EdgeCount())
	}
	if g2.GetLatitude(0) != 10 || g2.GetLongitude(1) != 21 {
		t.Fatalf("coordinates did not round-trip")
	}
	it := g2.GetEdges(0)
	if !it.Next() || it.Name() != "Elm Road" {
		t.Fatal("edge name did not round-trip")
	}
}
