// Package record hides the index arithmetic of the fixed-width node and
// edge records behind typed field accessors, per the "EdgeRecordView"
// design note in spec.md §9.
package record

import "github.com/streetgraph/graph/internal/store"

// NodeEntrySize is the number of int32 words per node record:
// [edgeRef, latI, lonI].
const NodeEntrySize = 3

// EdgeEntrySize is the number of int32 words per edge record:
// [nodeA, nodeB, linkA, linkB, distI, flags, nameRef, geoRef].
const EdgeEntrySize = 8

// NoEdge is the sentinel for "no adjacent edge" / "end of adjacency chain".
const NoEdge int32 = -1

// Node is a typed view over one node record.
type Node struct {
	da   store.DataAccess
	base int
}

// AtNode returns a view over node id's record.
func AtNode(da store.DataAccess, id int) Node {
	return Node{da: da, base: id * NodeEntrySize}
}

func (n Node) EdgeRef() int32      { return n.da.GetInt(n.base + 0) }
func (n Node) SetEdgeRef(e int32)  { n.da.SetInt(n.base+0, e) }
func (n Node) LatI() int32         { return n.da.GetInt(n.base + 1) }
func (n Node) SetLatI(v int32)     { n.da.SetInt(n.base+1, v) }
func (n Node) LonI() int32         { return n.da.GetInt(n.base + 2) }
func (n Node) SetLonI(v int32)     { n.da.SetInt(n.base+2, v) }

// Edge is a typed view over one edge record, always stored canonically
// (nodeA <= nodeB) on disk.
type Edge struct {
	da   store.DataAccess
	base int
}

// AtEdge returns a view over edge id's record.
func AtEdge(da store.DataAccess, id int) Edge {
	return Edge{da: da, base: id * EdgeEntrySize}
}

func (e Edge) NodeA() int32        { return e.da.GetInt(e.base + 0) }
func (e Edge) SetNodeA(v int32)    { e.da.SetInt(e.base+0, v) }
func (e Edge) NodeB() int32        { return e.da.GetInt(e.base + 1) }
func (e Edge) SetNodeB(v int32)    { e.da.SetInt(e.base+1, v) }
func (e Edge) LinkA() int32        { return e.da.GetInt(e.base + 2) }
func (e Edge) SetLinkA(v int32)    { e.da.SetInt(e.base+2, v) }
func (e Edge) LinkB() int32        { return e.da.GetInt(e.base + 3) }
func (e Edge) SetLinkB(v int32)    { e.da.SetInt(e.base+3, v) }
func (e Edge) DistI() int32        { return e.da.GetInt(e.base + 4) }
func (e Edge) SetDistI(v int32)    { e.da.SetInt(e.base+4, v) }
func (e Edge) Flags() int32        { return e.da.GetInt(e.base + 5) }
func (e Edge) SetFlags(v int32)    { e.da.SetInt(e.base+5, v) }
func (e Edge) NameRef() int32      { return e.da.GetInt(e.base + 6) }
func (e Edge) SetNameRef(v int32)  { e.da.SetInt(e.base+6, v) }
func (e Edge) GeoRef() int32       { return e.da.GetInt(e.base + 7) }
func (e Edge) SetGeoRef(v int32)   { e.da.SetInt(e.base+7, v) }

// Link returns the next-edge pointer for the chain owned by node (must be
// one of e's two endpoints).
func (e Edge) Link(node int32) int32 {
	if e.NodeA() == node {
		return e.LinkA()
	}
	return e.LinkB()
}

// SetLink sets the next-edge pointer for the chain owned by node.
func (e Edge) SetLink(node, next int32) {
	if e.NodeA() == node {
		e.SetLinkA(next)
		return
	}
	e.SetLinkB(next)
}

// OtherNode returns the endpoint of e that is not node.
func (e Edge) OtherNode(node int32) int32 {
	if e.NodeA() == node {
		return e.NodeB()
	}
	return e.NodeA()
}
