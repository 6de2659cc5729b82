package graph

import (
	"github.com/streetgraph/graph/internal/fixedpoint"
	"github.com/streetgraph/graph/internal/record"
)

// NoEdge is the sentinel adjacency-chain terminator and the "invalid edge
// id" value; an edge id is valid iff it is greater than NoEdge.
const NoEdge int32 = record.NoEdge

// maxIterationSkips bounds an adjacency walk to catch a corrupted,
// non-terminating chain (spec.md §4.3 "Iteration").
const maxIterationSkips = 1000

type iterKind int

const (
	kindAdjacency iterKind = iota
	kindAllEdges
	kindProps
	kindEmpty
)

// EdgeIterator is a positioned view over one edge, reporting fields from
// the perspective of a base node. It is returned by GetEdges, GetAllEdges
// and GetEdgeProps, and is also the value an EdgeFilter inspects.
type EdgeIterator struct {
	g      *Graph
	kind   iterKind
	filter EdgeFilter

	node      int32 // base node of this traversal
	edgeID    int32
	otherNode int32
	swapped   bool // true if traversal direction is otherNode->node on disk

	next int32 // next candidate edge id for adjacency/all-edges walks
}

func newAdjacencyIterator(g *Graph, node int32, filter EdgeFilter) *EdgeIterator {
	head := record.AtNode(g.nodesDA, int(node)).EdgeRef()
	return &EdgeIterator{g: g, kind: kindAdjacency, node: node, filter: filter, next: head}
}

func newAllEdgesIterator(g *Graph) *EdgeIterator {
	return &EdgeIterator{g: g, kind: kindAllEdges}
}

func newEmptyIterator(g *Graph) *EdgeIterator {
	return &EdgeIterator{g: g, kind: kindEmpty}
}

// newEdgeProps builds the single-edge "props" view described in spec.md
// §4.3: a positioned pseudo-iterator reporting edgeID from endNode's
// perspective. If endNode is neither endpoint, the empty sentinel is
// returned.
func (g *Graph) newEdgeProps(edgeID, endNode int32) *EdgeIterator {
	rec := record.AtEdge(g.edgesDA, int(edgeID))
	a, b := rec.NodeA(), rec.NodeB()
	if endNode != a && endNode != b {
		return newEmptyIterator(g)
	}
	other := a
	if endNode == a {
		other = b
	}
	return &EdgeIterator{
		g: g, kind: kindProps,
		node: endNode, edgeID: edgeID, otherNode: other,
		swapped: endNode > other,
	}
}

// GetEdges returns an adjacency iterator over every edge incident to node.
func (g *Graph) GetEdges(node int) *EdgeIterator {
	return g.GetEdgesFiltered(node, AcceptAll)
}

// GetEdgesFiltered is GetEdges with an explicit EdgeFilter.
func (g *Graph) GetEdgesFiltered(node int, filter EdgeFilter) *EdgeIterator {
	if node < 0 || node >= g.nodeCount {
		panicFatal(ErrProgrammer, "GetEdges", "node %d out of range [0,%d)", node, g.nodeCount)
	}
	if filter == nil {
		filter = AcceptAll
	}
	return newAdjacencyIterator(g, int32(node), filter)
}

// GetAllEdges returns an iterator over every edge, in edgeId order.
func (g *Graph) GetAllEdges() *EdgeIterator {
	return newAllEdgesIterator(g)
}

// GetEdgeProps returns a single-edge view of edgeID from endNode's
// perspective. Out-of-range edgeID or endNode is a programmer error and
// panics fatally; an endNode that is a valid node id but not an endpoint
// of edgeID yields the empty sentinel iterator (Next() returns false,
// accessors are meaningless).
func (g *Graph) GetEdgeProps(edgeID, endNode int) *EdgeIterator {
	if edgeID < 0 || edgeID >= g.edgeCount {
		panicFatal(ErrProgrammer, "GetEdgeProps", "edgeId %d out of range [0,%d)", edgeID, g.edgeCount)
	}
	if endNode < 0 || endNode >= g.nodeCount {
		panicFatal(ErrProgrammer, "GetEdgeProps", "endNode %d out of range [0,%d)", endNode, g.nodeCount)
	}
	return g.newEdgeProps(int32(edgeID), int32(endNode))
}

// Next advances an adjacency or all-edges iterator to its next accepted
// edge. For the single-edge props view it always returns false: the
// iterator is already positioned by GetEdgeProps.
func (it *EdgeIterator) Next() bool {
	switch it.kind {
	case kindEmpty, kindProps:
		return false
	case kindAllEdges:
		for it.next < int32(it.g.edgeCount) {
			e := it.next
			it.next++
			rec := record.AtEdge(it.g.edgesDA, int(e))
			it.edgeID = e
			it.node = rec.NodeA()
			it.otherNode = rec.NodeB()
			it.swapped = false
			return true
		}
		return false
	case kindAdjacency:
		cur := it.next
		skips := 0
		for cur != NoEdge {
			skips++
			if skips > maxIterationSkips {
				panicFatal(ErrCycle, "EdgeIterator.Next", "adjacency walk from node %d exceeded %d skips", it.node, maxIterationSkips)
			}
			rec := record.AtEdge(it.g.edgesDA, int(cur))
			other := rec.OtherNode(it.node)
			nextCandidate := rec.Link(it.node)

			it.edgeID = cur
			it.otherNode = other
			it.swapped = it.node > other

			accept := it.filter == nil || it.filter.Accept(it)
			cur = nextCandidate
			if accept {
				it.next = cur
				return true
			}
		}
		it.next = NoEdge
		return false
	default:
		return false
	}
}

// EdgeID returns the current edge's id.
func (it *EdgeIterator) EdgeID() int32 { return it.edgeID }

// BaseNode returns the node this iterator traverses from.
func (it *EdgeIterator) BaseNode() int32 { return it.node }

// AdjNode returns the node at the far end of the current edge.
func (it *EdgeIterator) AdjNode() int32 { return it.otherNode }

func (it *EdgeIterator) rec() record.Edge {
	return record.AtEdge(it.g.edgesDA, int(it.edgeID))
}

// Flags returns the edge's flags from the current traversal direction,
// applying the CombinedEncoder's direction swap if traversal runs
// opposite to the canonical nodeA->nodeB storage order.
func (it *EdgeIterator) Flags() int32 {
	f := it.rec().Flags()
	if it.swapped {
		f = it.g.encoder.SwapDirection(f)
	}
	return f
}

// SetFlags rewrites the edge's flags, interpreted in the current
// traversal direction (the inverse contract of Flags).
func (it *EdgeIterator) SetFlags(newFlags int32) {
	if it.kind == kindEmpty {
		return
	}
	rec := it.rec()
	linkBase := rec.Link(it.node)
	linkOther := rec.Link(it.otherNode)
	it.g.writeEdge(it.edgeID, it.node, it.otherNode, linkBase, linkOther, rec.DistI(), newFlags, rec.NameRef(), rec.GeoRef())
}

// Distance returns the edge's length in meters.
func (it *EdgeIterator) Distance() float64 {
	return fixedpoint.DecodeDist(it.rec().DistI())
}

// NameRef returns the edge's street-name offset (0 for none/empty).
func (it *EdgeIterator) NameRef() int32 { return it.rec().NameRef() }

// Name resolves the edge's street name.
func (it *EdgeIterator) Name() string { return it.g.GetName(it.rec().NameRef()) }
