// Package path reconstructs a fully detailed route from the predecessor
// chain an external routing algorithm produces over a graph.Graph: the
// edge sequence, node sequence, point polyline, per-segment distances,
// and turn-by-turn instructions.
package path

import (
	"math"

	"github.com/streetgraph/graph/geo"
	"github.com/streetgraph/graph/graph"
)

// VehicleEncoder exposes the speed, in km/h, a given edge's flags imply.
// It is opaque to this package beyond that single method.
type VehicleEncoder interface {
	Speed(flags int32) float64
}

// Goal is one link in a predecessor chain produced by an external shortest
// path search: edge is the edge taken to reach endNode from Parent's
// endNode. A chain terminator is a Goal whose Edge is not a valid edge id
// (Edge <= graph.NoEdge); its EndNode is the path's start node.
type Goal struct {
	Edge    int32
	EndNode int32
	Parent  *Goal
}

// Extractor walks a single predecessor chain and derives a route from it.
// Found, and every Calc* method, are only meaningful after Extract has
// been called; an extractor whose chain was empty or not found returns
// empty results rather than erroring (spec.md's "benign condition" class).
type Extractor struct {
	g       *graph.Graph
	encoder VehicleEncoder

	found       bool
	fromNode    int32
	edgeIDs     []int32
	distance    float64
	timeSeconds float64

	pointsCache    *geo.PointList
	nodesCache     []int32
	waysCache      *geo.WayList
	distancesCache []float64
}

// NewExtractor builds an Extractor over g, using encoder to convert each
// edge's flags to a speed for the time calculation.
func NewExtractor(g *graph.Graph, encoder VehicleEncoder) *Extractor {
	return &Extractor{g: g, encoder: encoder}
}

// Extract walks goal upward via Parent, accumulating distance and time and
// collecting the edge-id sequence in source-to-goal order. A nil goal or
// one whose Edge is already invalid yields an unfound, empty result.
func (x *Extractor) Extract(goal *Goal) {
	x.found = false
	x.fromNode = 0
	x.edgeIDs = nil
	x.distance = 0
	x.timeSeconds = 0
	x.pointsCache = nil
	x.nodesCache = nil
	x.waysCache = nil
	x.distancesCache = nil

	var edgeIDs []int32
	cur := goal
	for cur != nil && cur.Edge > graph.NoEdge {
		x.processDistance(cur.Edge, cur.EndNode)
		edgeIDs = append(edgeIDs, cur.Edge)
		cur = cur.Parent
	}
	if cur == nil || len(edgeIDs) == 0 {
		return
	}

	x.fromNode = cur.EndNode
	for i, j := 0, len(edgeIDs)-1; i < j; i, j = i+1, j-1 {
		edgeIDs[i], edgeIDs[j] = edgeIDs[j], edgeIDs[i]
	}
	x.edgeIDs = edgeIDs
	x.found = true
}

func (x *Extractor) processDistance(edge, endNode int32) {
	it := x.g.GetEdgeProps(int(edge), int(endNode))
	d := it.Distance()
	x.distance += d
	speed := x.encoder.Speed(it.Flags())
	x.timeSeconds += d * 3.6 / speed
}

// Found reports whether Extract produced a non-empty route.
func (x *Extractor) Found() bool { return x.found }

// FromNode returns the route's start node.
func (x *Extractor) FromNode() int32 { return x.fromNode }

// Distance returns the route's total length in meters.
func (x *Extractor) Distance() float64 { return x.distance }

// TimeSeconds returns the route's total travel time, rounded to whole
// seconds.
func (x *Extractor) TimeSeconds() int {
	return int(math.Round(x.timeSeconds))
}

// EdgeIDs returns the route's edges in source-to-goal order.
func (x *Extractor) EdgeIDs() []int32 { return x.edgeIDs }

// CalcNodes returns [fromNode, e0.adjNode, e1.adjNode, ...]. Cached after
// the first call.
func (x *Extractor) CalcNodes() []int32 {
	if x.nodesCache != nil {
		return x.nodesCache
	}
	nodes := make([]int32, 0, len(x.edgeIDs)+1)
	if !x.found {
		x.nodesCache = nodes
		return nodes
	}

	nodes = append(nodes, x.fromNode)
	prevBase := x.fromNode
	for _, e := range x.edgeIDs {
		it := x.g.GetEdgeProps(int(e), int(prevBase))
		base := it.AdjNode()
		nodes = append(nodes, base)
		prevBase = base
	}
	x.nodesCache = nodes
	return nodes
}

// CalcDistances returns the per-edge distances in traversal order.
func (x *Extractor) CalcDistances() []float64 {
	if x.distancesCache != nil {
		return x.distancesCache
	}
	out := make([]float64, 0, len(x.edgeIDs))
	if !x.found {
		x.distancesCache = out
		return out
	}

	prevBase := x.fromNode
	for _, e := range x.edgeIDs {
		it := x.g.GetEdgeProps(int(e), int(prevBase))
		out = append(out, it.Distance())
		prevBase = it.AdjNode()
	}
	x.distancesCache = out
	return out
}

// CalcPoints reconstructs the full point polyline: the start node's
// coordinates, then for each edge its pillar geometry followed by its
// base-node coordinates. The pillar polyline fetched from each edge is
// unconditionally reversed before being appended — a behavior carried
// over unchanged from the system this was distilled from. Cached after
// the first call.
func (x *Extractor) CalcPoints() *geo.PointList {
	if x.pointsCache != nil {
		return x.pointsCache
	}
	pts := geo.NewPointList(len(x.edgeIDs) + 1)
	if !x.found {
		x.pointsCache = pts
		return pts
	}

	prevBase := x.fromNode
	pts.Add(x.g.GetLatitude(int(prevBase)), x.g.GetLongitude(int(prevBase)))

	for _, e := range x.edgeIDs {
		it := x.g.GetEdgeProps(int(e), int(prevBase))

		poly := it.WayGeometry()
		poly.Reverse()
		for i := 0; i < poly.Size(); i++ {
			pts.Add(poly.Latitude(i), poly.Longitude(i))
		}

		base := it.AdjNode()
		pts.Add(x.g.GetLatitude(int(base)), x.g.GetLongitude(int(base)))
		prevBase = base
	}

	x.pointsCache = pts
	return pts
}

// CalcWays derives turn-by-turn instructions from the signed angular
// difference between successive edges. A new instruction is only emitted
// when the street name changes; unchanged-name edges are merged into the
// current instruction and reset the tracked previous orientation to zero,
// matching the source's behavior. Cached after the first call.
func (x *Extractor) CalcWays() *geo.WayList {
	if x.waysCache != nil {
		return x.waysCache
	}
	ways := geo.NewWayList(len(x.edgeIDs))
	if !x.found || len(x.edgeIDs) == 0 {
		x.waysCache = ways
		return ways
	}

	prevBase := x.fromNode
	prevLat := x.g.GetLatitude(int(prevBase))
	prevLon := x.g.GetLongitude(int(prevBase))
	var prevTheta float64
	var lastNameRef int32 = -1
	var lastName string

	for i, e := range x.edgeIDs {
		it := x.g.GetEdgeProps(int(e), int(prevBase))
		base := it.AdjNode()
		lat := x.g.GetLatitude(int(base))
		lon := x.g.GetLongitude(int(base))
		nameRef := it.NameRef()
		name := it.Name()

		switch {
		case i == 0:
			ways.Add(geo.ContinueOnStreet, name)
			lastNameRef, lastName = nameRef, name

		case nameRef != lastNameRef:
			theta := math.Atan2(lat-prevLat, lon-prevLon)
			if theta < 0 {
				theta += 2 * math.Pi
			}
			shifted := theta
			switch {
			case prevTheta >= 0 && theta < prevTheta-math.Pi:
				shifted = theta + 2*math.Pi
			case prevTheta < 0 && theta > prevTheta+math.Pi:
				shifted = theta - 2*math.Pi
			}

			switch {
			case shifted > prevTheta:
				ways.Add(geo.TurnLeft, name)
			case shifted < prevTheta:
				ways.Add(geo.TurnRight, name)
			default:
				ways.Add(geo.ContinueOnStreet, lastName)
			}

			prevTheta = shifted
			lastNameRef, lastName = nameRef, name

		default:
			prevTheta = 0
		}

		prevLat, prevLon = lat, lon
		prevBase = base
	}

	x.waysCache = ways
	return ways
}

// CalculateIdenticalNodes returns the set intersection of this route's
// CalcNodes and other's.
func (x *Extractor) CalculateIdenticalNodes(other *Extractor) map[int32]bool {
	mine := x.CalcNodes()
	theirs := other.CalcNodes()

	set := make(map[int32]bool, len(mine))
	for _, n := range mine {
		set[n] = true
	}
	out := make(map[int32]bool)
	for _, n := range theirs {
		if set[n] {
			out[n] = true
		}
	}
	return out
}
