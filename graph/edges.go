package graph

import (
	"math"

	"github.com/streetgraph/graph/internal/fixedpoint"
	"github.com/streetgraph/graph/internal/record"
)

const (
	edgeAreaGrowthOverhead = 64 // extra edges' worth of headroom per growth step
	maxAdjacencyHops       = 10000
)

// Edge inserts a new edge between a and b with the given distance in
// meters, direction (bothDirections expands via the CombinedEncoder's
// FlagsDefault), and a street-name reference (from AddName, or 0 for
// none). Returns an EdgeIterator positioned on the new edge.
func (g *Graph) Edge(a, b int, distMeters float64, bothDirections bool, nameRef int32) *EdgeIterator {
	flags := g.encoder.FlagsDefault(bothDirections)
	return g.insertEdge(a, b, distMeters, flags, nameRef)
}

// EdgeWithFlags is like Edge but takes an already-encoded flags value
// instead of a both-directions bool, for callers whose CombinedEncoder
// needs more than a single bit of direction information.
func (g *Graph) EdgeWithFlags(a, b int, distMeters float64, flags int32, nameRef int32) *EdgeIterator {
	return g.insertEdge(a, b, distMeters, flags, nameRef)
}

func (g *Graph) insertEdge(a, b int, distMeters float64, flags int32, nameRef int32) *EdgeIterator {
	maxNode := a
	if b > maxNode {
		maxNode = b
	}
	g.ensureNodeIndex(maxNode)

	edgeID := g.edgeCount
	if edgeID+1 > math.MaxInt32 {
		panicFatal(ErrCorruption, "Edge", "edgeCount overflowed into negative")
	}
	g.edgeCount++
	g.ensureEdgeIndex(g.edgeCount)

	g.connectNewEdge(int32(a), int32(edgeID))
	if a != b {
		g.connectNewEdge(int32(b), int32(edgeID))
	}

	distI := fixedpoint.EncodeDist(math.Max(distMeters, 0))
	g.writeEdge(int32(edgeID), int32(a), int32(b), record.NoEdge, record.NoEdge, distI, flags, nameRef, 0)

	return g.newEdgeProps(int32(edgeID), int32(a))
}

// ensureEdgeIndex grows the edges area so that edgeCount edges are
// addressable.
func (g *Graph) ensureEdgeIndex(edgeCount int) {
	needed := (edgeCount + edgeAreaGrowthOverhead) * record.EdgeEntrySize * 4
	g.edgesDA.EnsureCapacity(needed)
}

// connectNewEdge walks the adjacency chain of node from its edgeRef to the
// tail, then links edgeID onto the end. If node had no edges, its edgeRef
// is set directly.
func (g *Graph) connectNewEdge(node, edgeID int32) {
	n := record.AtNode(g.nodesDA, int(node))
	head := n.EdgeRef()
	if head == record.NoEdge {
		n.SetEdgeRef(edgeID)
		return
	}

	cur := head
	for hops := 0; ; hops++ {
		if hops > maxAdjacencyHops {
			panicFatal(ErrCycle, "connectNewEdge", "adjacency chain from node %d exceeded %d hops", node, maxAdjacencyHops)
		}
		e := record.AtEdge(g.edgesDA, int(cur))
		next := e.Link(node)
		if next == record.NoEdge {
			e.SetLink(node, edgeID)
			return
		}
		cur = next
	}
}

// writeEdge canonicalizes (a, b) so that nodeA <= nodeB, swapping the
// link pair and transforming flags through the CombinedEncoder if the
// caller's pair was descending, then writes the full record.
func (g *Graph) writeEdge(edgeID, a, b, linkA, linkB, distI, flags, nameRef, geoRef int32) {
	if a > b {
		a, b = b, a
		linkA, linkB = linkB, linkA
		flags = g.encoder.SwapDirection(flags)
	}
	e := record.AtEdge(g.edgesDA, int(edgeID))
	e.SetNodeA(a)
	e.SetNodeB(b)
	e.SetLinkA(linkA)
	e.SetLinkB(linkB)
	e.SetDistI(distI)
	e.SetFlags(flags)
	e.SetNameRef(nameRef)
	e.SetGeoRef(geoRef)
}
