package graph

import (
	"github.com/streetgraph/graph/geo"
	"github.com/streetgraph/graph/internal/fixedpoint"
)

// geometryAreaGrowthOverhead is headroom, in ints, added to each growth step.
const geometryAreaGrowthOverhead = 64

// SetWayGeometry stores the pillar-node polyline for the current edge,
// oriented along the traversal direction of the iterator it was obtained
// from. On disk the polyline is always kept in canonical nodeA->nodeB
// order, so a traversal running nodeB->nodeA has its points reversed
// before writing.
func (it *EdgeIterator) SetWayGeometry(points *geo.PointList) {
	if it.kind == kindEmpty {
		return
	}
	g := it.g

	n := points.Size()
	lats := make([]float64, n)
	lons := make([]float64, n)
	for i := 0; i < n; i++ {
		lats[i] = points.Latitude(i)
		lons[i] = points.Longitude(i)
	}
	if it.swapped {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			lats[i], lats[j] = lats[j], lats[i]
			lons[i], lons[j] = lons[j], lons[i]
		}
	}

	offset := g.maxGeoRef
	needed := (offset + 1 + 2*n + geometryAreaGrowthOverhead) * 4
	g.geometryDA.EnsureCapacity(needed)

	g.geometryDA.SetInt(offset, int32(n))
	for i := 0; i < n; i++ {
		g.geometryDA.SetInt(offset+1+2*i, fixedpoint.EncodeDegree(lats[i]))
		g.geometryDA.SetInt(offset+2+2*i, fixedpoint.EncodeDegree(lons[i]))
	}
	g.maxGeoRef = offset + 1 + 2*n

	rec := it.rec()
	linkBase := rec.Link(it.node)
	linkOther := rec.Link(it.otherNode)
	g.writeEdge(it.edgeID, it.node, it.otherNode, linkBase, linkOther, rec.DistI(), rec.Flags(), rec.NameRef(), int32(offset))
}

// WayGeometry returns the current edge's pillar-node polyline, oriented
// along the traversal direction of the iterator it was obtained from. An
// edge with geoRef == 0 has no pillar nodes and returns an empty list.
func (it *EdgeIterator) WayGeometry() *geo.PointList {
	g := it.g
	out := geo.NewPointList(0)
	if it.kind == kindEmpty {
		return out
	}

	offset := int(it.rec().GeoRef())
	if offset == 0 {
		return out
	}

	n := int(g.geometryDA.GetInt(offset))
	lats := make([]float64, n)
	lons := make([]float64, n)
	for i := 0; i < n; i++ {
		lats[i] = fixedpoint.DecodeDegree(g.geometryDA.GetInt(offset + 1 + 2*i))
		lons[i] = fixedpoint.DecodeDegree(g.geometryDA.GetInt(offset + 2 + 2*i))
	}
	if it.swapped {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			lats[i], lats[j] = lats[j], lats[i]
			lons[i], lons[j] = lons[j], lons[i]
		}
	}
	for i := 0; i < n; i++ {
		out.Add(lats[i], lons[i])
	}
	return out
}
