// Package graph implements the core graph storage engine: the nodes,
// edges, geometry and names areas described in spec.md §3/§4.3, plus the
// intrusive adjacency chains, insertion, iteration, flag rewriting,
// in-place compaction, and flush/load lifecycle.
package graph

import (
	"hash/fnv"
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/streetgraph/graph/internal/fixedpoint"
	"github.com/streetgraph/graph/internal/names"
	"github.com/streetgraph/graph/internal/record"
	"github.com/streetgraph/graph/internal/store"
)

// classIdentityHash is the sentinel stored in the nodes file header,
// letting LoadExisting detect a file written by an incompatible layout.
var classIdentityHash = computeClassIdentityHash()

func computeClassIdentityHash() int32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte("github.com/streetgraph/graph.Graph.v1"))
	return int32(h.Sum32())
}

// Header slot layout, per spec.md §6.
const (
	nodesHdrClassHash    = 0
	nodesHdrEntrySize    = 1
	nodesHdrNodeCount    = 2
	nodesHdrMinLon       = 3
	nodesHdrMaxLon       = 4
	nodesHdrMinLat       = 5
	nodesHdrMaxLat       = 6

	edgesHdrEntrySize = 0
	edgesHdrEdgeCount = 1

	geometryHdrMaxGeoRef = 0
)

const (
	initialNodeAreaOverhead = 64
	initialEdgeAreaBytes    = 4096
	initialGeometryBytes    = 4096
)

// BBox is the bounding box covering every stored node's coordinates, in
// degrees.
type BBox struct {
	MinLat, MaxLat, MinLon, MaxLon float64
}

// emptyBBox is the inverted-empty box used before any node is set,
// per spec.md §8 scenario S1.
func emptyBBox() BBox {
	return BBox{
		MinLat: math.Inf(1), MaxLat: math.Inf(-1),
		MinLon: math.Inf(1), MaxLon: math.Inf(-1),
	}
}

// Graph is the core graph storage engine.
type Graph struct {
	dir *store.Directory

	nodesDA    store.DataAccess
	edgesDA    store.DataAccess
	geometryDA store.DataAccess
	namesTable *names.Table

	encoder CombinedEncoder

	nodeCount int
	edgeCount int
	maxGeoRef int

	minLat, maxLat, minLon, maxLon float64

	removedNodes *bitset.BitSet
}

// New constructs a Graph over dir. Call CreateNew for a fresh graph or
// LoadExisting to reopen a persisted one. encoder may be nil, in which
// case SimpleEncoder() is used.
func New(dir *store.Directory, encoder CombinedEncoder) (*Graph, error) {
	if encoder == nil {
		encoder = SimpleEncoder()
	}

	nodesDA, err := dir.FindCreate("nodes")
	if err != nil {
		return nil, err
	}
	edgesDA, err := dir.FindCreate("egdes")
	if err != nil {
		return nil, err
	}
	geometryDA, err := dir.FindCreate("geometry")
	if err != nil {
		return nil, err
	}
	namesDA, err := dir.FindCreate("names")
	if err != nil {
		return nil, err
	}

	g := &Graph{
		dir:        dir,
		nodesDA:    nodesDA,
		edgesDA:    edgesDA,
		geometryDA: geometryDA,
		namesTable: names.New(namesDA),
		encoder:    encoder,
	}
	g.resetBBox()
	return g, nil
}

// resetBBox resets the in-memory bounding box to the inverted-empty box.
// Tracked in float64 (not the int32 fixed-point encoding used on disk):
// ±Inf has no finite int32 representation, so encoding it would produce
// implementation-defined garbage that could never decode back to ±Inf.
func (g *Graph) resetBBox() {
	bb := emptyBBox()
	g.minLat, g.maxLat = bb.MinLat, bb.MaxLat
	g.minLon, g.maxLon = bb.MinLon, bb.MaxLon
}

// CreateNew allocates the four backing stores for a fresh, empty graph
// sized to hold at least initialNodeCount nodes.
func (g *Graph) CreateNew(initialNodeCount int) error {
	nodeBytes := initialNodeCount*record.NodeEntrySize*4 + initialNodeAreaOverhead
	if err := g.nodesDA.CreateNew(nodeBytes); err != nil {
		return err
	}
	if err := g.edgesDA.CreateNew(initialEdgeAreaBytes); err != nil {
		return err
	}
	if err := g.geometryDA.CreateNew(initialGeometryBytes); err != nil {
		return err
	}
	if err := g.namesTable.CreateNew(); err != nil {
		return err
	}

	g.nodeCount = 0
	g.edgeCount = 0
	// Word 0 of the geometry area is left unused: geoRef == 0 is the
	// "no pillar nodes" sentinel (mirroring internal/names.Table's own
	// offset-0 reservation), so the first real polyline must not land there.
	g.maxGeoRef = 1
	g.removedNodes = nil
	g.resetBBox()

	g.nodesDA.SetHeader(nodesHdrClassHash, classIdentityHash)
	g.nodesDA.SetHeader(nodesHdrEntrySize, record.NodeEntrySize)
	g.edgesDA.SetHeader(edgesHdrEntrySize, record.EdgeEntrySize)

	return nil
}

// LoadExisting reopens a previously flushed graph. Returns false if no
// nodes file was found (nothing to load); all four files must be present
// together or the load fails fatally.
func (g *Graph) LoadExisting() (bool, error) {
	nodesLoaded, err := g.nodesDA.LoadExisting()
	if err != nil {
		return false, err
	}
	if !nodesLoaded {
		return false, nil
	}

	edgesLoaded, err := g.edgesDA.LoadExisting()
	if err != nil {
		return false, err
	}
	if !edgesLoaded {
		return false, fatalf(ErrCorruption, "LoadExisting", "missing sibling file: egdes")
	}
	geometryLoaded, err := g.geometryDA.LoadExisting()
	if err != nil {
		return false, err
	}
	if !geometryLoaded {
		return false, fatalf(ErrCorruption, "LoadExisting", "missing sibling file: geometry")
	}
	namesLoaded, err := g.namesTable.DataAccess().LoadExisting()
	if err != nil {
		return false, err
	}
	if !namesLoaded {
		return false, fatalf(ErrCorruption, "LoadExisting", "missing sibling file: names")
	}

	if g.nodesDA.GetHeader(nodesHdrClassHash) != classIdentityHash {
		return false, fatalf(ErrCorruption, "LoadExisting", "unknown class identity hash in nodes file")
	}
	if g.nodesDA.GetHeader(nodesHdrEntrySize) != record.NodeEntrySize {
		return false, fatalf(ErrCorruption, "LoadExisting", "node entry size mismatch")
	}
	if g.edgesDA.GetHeader(edgesHdrEntrySize) != record.EdgeEntrySize {
		return false, fatalf(ErrCorruption, "LoadExisting", "edge entry size mismatch")
	}
	if g.nodesDA.Version() != g.edgesDA.Version() {
		return false, fatalf(ErrCorruption, "LoadExisting", "version skew between nodes (%d) and edges (%d)",
			g.nodesDA.Version(), g.edgesDA.Version())
	}

	g.nodeCount = int(g.nodesDA.GetHeader(nodesHdrNodeCount))
	g.edgeCount = int(g.edgesDA.GetHeader(edgesHdrEdgeCount))
	g.maxGeoRef = int(g.geometryDA.GetHeader(geometryHdrMaxGeoRef))
	g.removedNodes = nil

	// An empty graph's bounding box is the inverted-empty box, which has no
	// finite int32 encoding (see resetBBox); its header slots are meaningless
	// and must not be decoded.
	if g.nodeCount == 0 {
		g.resetBBox()
	} else {
		g.minLon = fixedpoint.DecodeDegree(g.nodesDA.GetHeader(nodesHdrMinLon))
		g.maxLon = fixedpoint.DecodeDegree(g.nodesDA.GetHeader(nodesHdrMaxLon))
		g.minLat = fixedpoint.DecodeDegree(g.nodesDA.GetHeader(nodesHdrMinLat))
		g.maxLat = fixedpoint.DecodeDegree(g.nodesDA.GetHeader(nodesHdrMaxLat))
	}

	g.namesTable.Load()

	return true, nil
}

// Flush writes headers to every store, then flushes them all (§5: the
// build-phase-only exclusivity means this never races a concurrent
// mutation).
func (g *Graph) Flush() error {
	g.nodesDA.SetHeader(nodesHdrClassHash, classIdentityHash)
	g.nodesDA.SetHeader(nodesHdrEntrySize, record.NodeEntrySize)
	g.nodesDA.SetHeader(nodesHdrNodeCount, int32(g.nodeCount))
	// An empty graph's bbox is ±Inf and has no finite int32 encoding; its
	// header slots are written as 0 and ignored on load (nodeCount == 0
	// short-circuits LoadExisting before they're read).
	if g.nodeCount == 0 {
		g.nodesDA.SetHeader(nodesHdrMinLon, 0)
		g.nodesDA.SetHeader(nodesHdrMaxLon, 0)
		g.nodesDA.SetHeader(nodesHdrMinLat, 0)
		g.nodesDA.SetHeader(nodesHdrMaxLat, 0)
	} else {
		g.nodesDA.SetHeader(nodesHdrMinLon, fixedpoint.EncodeDegree(g.minLon))
		g.nodesDA.SetHeader(nodesHdrMaxLon, fixedpoint.EncodeDegree(g.maxLon))
		g.nodesDA.SetHeader(nodesHdrMinLat, fixedpoint.EncodeDegree(g.minLat))
		g.nodesDA.SetHeader(nodesHdrMaxLat, fixedpoint.EncodeDegree(g.maxLat))
	}

	g.edgesDA.SetHeader(edgesHdrEntrySize, record.EdgeEntrySize)
	g.edgesDA.SetHeader(edgesHdrEdgeCount, int32(g.edgeCount))

	g.geometryDA.SetHeader(geometryHdrMaxGeoRef, int32(g.maxGeoRef))

	return g.dir.Flush()
}

// Close closes the four backing DataAccess handles. It does not close the
// Directory itself, which is injected and owned by the caller (spec.md §5
// "Shared resources").
func (g *Graph) Close() error {
	var first error
	for _, da := range []store.DataAccess{g.nodesDA, g.edgesDA, g.geometryDA, g.namesTable.DataAccess()} {
		if err := da.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Nodes returns the number of live nodes.
func (g *Graph) Nodes() int { return g.nodeCount }

// EdgeCount returns the total number of edge records, including orphaned
// ones left behind by Optimize (spec.md §4.3 "Node removal and compaction").
func (g *Graph) EdgeCount() int { return g.edgeCount }

// Bounds returns the bounding box covering every stored node's coordinates.
func (g *Graph) Bounds() BBox {
	return BBox{
		MinLat: g.minLat,
		MaxLat: g.maxLat,
		MinLon: g.minLon,
		MaxLon: g.maxLon,
	}
}

func (g *Graph) extendBBox(lat, lon float64) {
	if lat < g.minLat {
		g.minLat = lat
	}
	if lat > g.maxLat {
		g.maxLat = lat
	}
	if lon < g.minLon {
		g.minLon = lon
	}
	if lon > g.maxLon {
		g.maxLon = lon
	}
}

// AddName inserts (with dedup) a street name, returning its offset.
func (g *Graph) AddName(s string) int32 {
	return int32(g.namesTable.Insert(s))
}

// GetName looks up a street name by its offset. A zero nameRef (the
// default for edges inserted without one) decodes to "".
func (g *Graph) GetName(nameRef int32) string {
	return g.namesTable.GetName(int(nameRef))
}
