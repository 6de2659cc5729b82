package graph

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/streetgraph/graph/internal/record"
)

// maxSpliceHops bounds an adjacency walk performed during compaction,
// matching the ceiling used by ordinary iteration.
const maxSpliceHops = 1000

// MarkNodeRemoved flags id as removed. It takes effect only once Optimize
// is called; until then the node and its edges remain fully readable.
func (g *Graph) MarkNodeRemoved(id int) {
	if g.removedNodes == nil {
		g.removedNodes = bitset.New(uint(g.nodeCount))
	}
	g.removedNodes.Set(uint(id))
}

// IsNodeRemoved reports whether id has been marked removed and not yet
// compacted away.
func (g *Graph) IsNodeRemoved(id int) bool {
	if g.removedNodes == nil {
		return false
	}
	return g.removedNodes.Test(uint(id))
}

// Optimize compacts the graph in place: nodes marked removed are dropped,
// the highest-indexed surviving nodes are moved down into their slots, and
// every edge referencing a moved or removed node is updated. Edge records
// belonging to removed nodes become orphans — edgeCount is unchanged, and
// reclaiming the dead records would need a second pass this storage engine
// does not perform.
func (g *Graph) Optimize() {
	if g.removedNodes == nil || g.removedNodes.None() {
		return
	}

	oldToNew := g.buildMoverMap()
	toUpdate := g.collectNodesToUpdate(oldToNew)

	for u := range toUpdate {
		g.spliceRemovedNeighbors(u)
	}

	for oldID, newID := range oldToNew {
		g.copyNodeRecord(oldID, newID)
	}

	remap := func(n int32) int32 {
		if v, ok := oldToNew[n]; ok {
			return v
		}
		return n
	}
	for edgeID := 0; edgeID < g.edgeCount; edgeID++ {
		rec := record.AtEdge(g.edgesDA, edgeID)
		a, b := rec.NodeA(), rec.NodeB()
		if !toUpdate[a] && !toUpdate[b] {
			continue
		}
		g.writeEdge(int32(edgeID), remap(a), remap(b), rec.LinkA(), rec.LinkB(), rec.DistI(), rec.Flags(), rec.NameRef(), rec.GeoRef())
	}

	g.nodeCount -= int(g.removedNodes.Count())
	g.removedNodes = nil
	g.nodesDA.TrimTo(g.nodeCount * record.NodeEntrySize * 4)
}

// buildMoverMap pairs each of the highest-indexed surviving nodes with a
// removed slot, stopping as soon as the next mover would land at or below
// the next removed slot.
func (g *Graph) buildMoverMap() map[int32]int32 {
	oldToNew := make(map[int32]int32)

	mover := int32(g.nodeCount) - 1
	for slot, ok := g.removedNodes.NextSet(0); ok; slot, ok = g.removedNodes.NextSet(slot + 1) {
		slotID := int32(slot)
		for mover > slotID && g.removedNodes.Test(uint(mover)) {
			mover--
		}
		if mover <= slotID {
			break
		}
		oldToNew[mover] = slotID
		mover--
	}
	return oldToNew
}

// collectNodesToUpdate returns every live neighbor of a removed node, plus
// every neighbor of every mover: the set of nodes whose adjacency chains
// need splicing and whose edges need rewriting.
func (g *Graph) collectNodesToUpdate(oldToNew map[int32]int32) map[int32]bool {
	toUpdate := make(map[int32]bool)

	addLiveNeighbors := func(node int32) {
		g.walkAdjacency(node, func(other int32) {
			if !g.IsNodeRemoved(int(other)) {
				toUpdate[other] = true
			}
		})
	}

	for r, ok := g.removedNodes.NextSet(0); ok; r, ok = g.removedNodes.NextSet(r + 1) {
		addLiveNeighbors(int32(r))
	}
	for mover := range oldToNew {
		g.walkAdjacency(mover, func(other int32) {
			toUpdate[other] = true
		})
	}
	return toUpdate
}

// walkAdjacency calls fn with the other endpoint of every edge incident to
// node, following node's own chain (not via an EdgeIterator, since this
// runs mid-compaction before nodes are renumbered).
func (g *Graph) walkAdjacency(node int32, fn func(other int32)) {
	cur := record.AtNode(g.nodesDA, int(node)).EdgeRef()
	hops := 0
	for cur != record.NoEdge {
		hops++
		if hops > maxSpliceHops {
			panicFatal(ErrCycle, "Optimize", "adjacency walk from node %d exceeded %d hops", node, maxSpliceHops)
		}
		e := record.AtEdge(g.edgesDA, int(cur))
		fn(e.OtherNode(node))
		cur = e.Link(node)
	}
}

// spliceRemovedNeighbors walks u's adjacency chain and unlinks every edge
// to a removed node, via internalEdgeDisconnect semantics: the spliced
// edge's own link slot is left untouched (it becomes an orphan record),
// and the previous edge's link slot (or u's edgeRef, if u had none yet) is
// advanced past it.
func (g *Graph) spliceRemovedNeighbors(u int32) {
	n := record.AtNode(g.nodesDA, int(u))
	prev := record.NoEdge
	cur := n.EdgeRef()
	hops := 0
	for cur != record.NoEdge {
		hops++
		if hops > maxSpliceHops {
			panicFatal(ErrCycle, "Optimize", "splice walk from node %d exceeded %d hops", u, maxSpliceHops)
		}
		e := record.AtEdge(g.edgesDA, int(cur))
		other := e.OtherNode(u)
		next := e.Link(u)

		if g.IsNodeRemoved(int(other)) {
			if prev == record.NoEdge {
				n.SetEdgeRef(next)
			} else {
				record.AtEdge(g.edgesDA, int(prev)).SetLink(u, next)
			}
			cur = next
			continue
		}
		prev = cur
		cur = next
	}
}

func (g *Graph) copyNodeRecord(oldID, newID int32) {
	src := record.AtNode(g.nodesDA, int(oldID))
	dst := record.AtNode(g.nodesDA, int(newID))
	dst.SetEdgeRef(src.EdgeRef())
	dst.SetLatI(src.LatI())
	dst.SetLonI(src.LonI())
}
