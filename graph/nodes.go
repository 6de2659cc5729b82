package graph

import (
	"github.com/streetgraph/graph/internal/fixedpoint"
	"github.com/streetgraph/graph/internal/record"
)

const nodeAreaGrowthOverhead = 16 // extra nodes' worth of headroom per growth step

// SetNode stores the coordinates of node id, growing the nodes area (and
// the removed-node bitset, if present) as needed.
func (g *Graph) SetNode(id int, lat, lon float64) {
	g.ensureNodeIndex(id)

	latI := fixedpoint.EncodeDegree(lat)
	lonI := fixedpoint.EncodeDegree(lon)

	n := record.AtNode(g.nodesDA, id)
	n.SetLatI(latI)
	n.SetLonI(lonI)

	g.extendBBox(lat, lon)
}

// GetLatitude returns node id's latitude in degrees.
func (g *Graph) GetLatitude(id int) float64 {
	return fixedpoint.DecodeDegree(record.AtNode(g.nodesDA, id).LatI())
}

// GetLongitude returns node id's longitude in degrees.
func (g *Graph) GetLongitude(id int) float64 {
	return fixedpoint.DecodeDegree(record.AtNode(g.nodesDA, id).LonI())
}

// ensureNodeIndex grows the nodes area so that id is addressable, seeding
// any newly-allocated edgeRef slots to NoEdge.
func (g *Graph) ensureNodeIndex(id int) {
	if id < g.nodeCount {
		return
	}
	newCount := id + 1
	needed := (newCount + nodeAreaGrowthOverhead) * record.NodeEntrySize * 4
	g.nodesDA.EnsureCapacity(needed)

	for i := g.nodeCount; i < newCount; i++ {
		record.AtNode(g.nodesDA, i).SetEdgeRef(record.NoEdge)
	}
	g.nodeCount = newCount

	if g.removedNodes != nil {
		g.removedNodes.Set(uint(newCount - 1))
		g.removedNodes.Clear(uint(newCount - 1))
	}
}
