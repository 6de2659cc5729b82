// Package geo holds the dense, parallel-array point and way lists that a
// path extraction produces: a polyline of coordinates and the matching
// turn-by-turn instruction sequence.
package geo

import "fmt"

// PointList is a dense polyline: parallel latitude/longitude slices with a
// logical size that may be smaller than their capacity.
type PointList struct {
	lat, lon []float64
	size     int
}

// NewPointList returns an empty list with room for at least capacity points.
func NewPointList(capacity int) *PointList {
	if capacity < 0 {
		capacity = 0
	}
	return &PointList{
		lat: make([]float64, 0, capacity),
		lon: make([]float64, 0, capacity),
	}
}

// Size returns the number of points currently stored.
func (p *PointList) Size() int { return p.size }

// IsEmpty reports whether Size is 0.
func (p *PointList) IsEmpty() bool { return p.size == 0 }

// Add appends a point, growing capacity to max(5, oldSize*3/2) on overflow.
func (p *PointList) Add(lat, lon float64) {
	p.ensureCapacity(p.size + 1)
	p.lat = p.lat[:p.size+1]
	p.lon = p.lon[:p.size+1]
	p.lat[p.size] = lat
	p.lon[p.size] = lon
	p.size++
}

// Set overwrites the point at i, which must already be within [0, Size).
func (p *PointList) Set(i int, lat, lon float64) {
	p.checkBounds(i)
	p.lat[i] = lat
	p.lon[i] = lon
}

// Latitude returns the latitude at i.
func (p *PointList) Latitude(i int) float64 {
	p.checkBounds(i)
	return p.lat[i]
}

// Longitude returns the longitude at i.
func (p *PointList) Longitude(i int) float64 {
	p.checkBounds(i)
	return p.lon[i]
}

// Reverse reverses the list in place. reverse();reverse() is an involution.
func (p *PointList) Reverse() {
	for i, j := 0, p.size-1; i < j; i, j = i+1, j-1 {
		p.lat[i], p.lat[j] = p.lat[j], p.lat[i]
		p.lon[i], p.lon[j] = p.lon[j], p.lon[i]
	}
}

// TrimToSize shrinks the logical size to newSize, which must be <= Size.
func (p *PointList) TrimToSize(newSize int) {
	if newSize < 0 || newSize > p.size {
		panic(fmt.Sprintf("geo: TrimToSize(%d) out of range [0,%d]", newSize, p.size))
	}
	p.size = newSize
	p.lat = p.lat[:newSize]
	p.lon = p.lon[:newSize]
}

// TrimToCapacity reallocates the backing arrays so capacity equals Size.
func (p *PointList) TrimToCapacity() {
	if cap(p.lat) == p.size {
		return
	}
	lat := make([]float64, p.size)
	lon := make([]float64, p.size)
	copy(lat, p.lat)
	copy(lon, p.lon)
	p.lat, p.lon = lat, lon
}

func (p *PointList) checkBounds(i int) {
	if i < 0 || i >= p.size {
		panic(fmt.Sprintf("geo: index %d out of range [0,%d)", i, p.size))
	}
}

func (p *PointList) ensureCapacity(needed int) {
	if needed <= cap(p.lat) {
		return
	}
	newCap := p.size * 3 / 2
	if newCap < 5 {
		newCap = 5
	}
	if newCap < needed {
		newCap = needed
	}
	lat := make([]float64, p.size, newCap)
	lon := make([]float64, p.size, newCap)
	copy(lat, p.lat)
	copy(lon, p.lon)
	p.lat, p.lon = lat, lon
}
