package graph

// CopyTo rebuilds dst as an equivalent graph: every node's coordinates,
// every edge's distance/flags/name/pillar geometry, re-inserted through
// the ordinary insertion path. dst must already have been initialized via
// CreateNew or LoadExisting. Node ids are preserved; name offsets and edge
// ids are not (dst gets its own name table and edge numbering).
func (g *Graph) CopyTo(dst *Graph) {
	for i := 0; i < g.nodeCount; i++ {
		dst.SetNode(i, g.GetLatitude(i), g.GetLongitude(i))
	}

	it := g.GetAllEdges()
	for it.Next() {
		var nameRef int32
		if name := it.Name(); name != "" {
			nameRef = dst.AddName(name)
		}

		newIt := dst.EdgeWithFlags(int(it.BaseNode()), int(it.AdjNode()), it.Distance(), it.Flags(), nameRef)

		poly := it.WayGeometry()
		if !poly.IsEmpty() {
			newIt.SetWayGeometry(poly)
		}
	}
}
