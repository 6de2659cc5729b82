package geo

import "fmt"

// Turn instruction codes. The source this was distilled from declared
// TurnLeft and TurnRight as the same numeric value; that was a bug — the
// extractor needs all three codes distinct, so they're fixed here.
const (
	ContinueOnStreet = 0
	TurnLeft         = 1
	TurnRight        = 2
)

// WayList is a dense, parallel sequence of turn instructions and the
// street name each one is issued on, with the same growth/size discipline
// as PointList.
type WayList struct {
	indication []int
	name       []string
	size       int
}

// NewWayList returns an empty list with room for at least capacity entries.
func NewWayList(capacity int) *WayList {
	if capacity < 0 {
		capacity = 0
	}
	return &WayList{
		indication: make([]int, 0, capacity),
		name:       make([]string, 0, capacity),
	}
}

// Size returns the number of entries currently stored.
func (w *WayList) Size() int { return w.size }

// IsEmpty reports whether Size is 0.
func (w *WayList) IsEmpty() bool { return w.size == 0 }

// Add appends an instruction/name pair.
func (w *WayList) Add(indication int, name string) {
	w.ensureCapacity(w.size + 1)
	w.indication = w.indication[:w.size+1]
	w.name = w.name[:w.size+1]
	w.indication[w.size] = indication
	w.name[w.size] = name
	w.size++
}

// Set overwrites the entry at i, which must already be within [0, Size).
func (w *WayList) Set(i int, indication int, name string) {
	w.checkBounds(i)
	w.indication[i] = indication
	w.name[i] = name
}

// Indication returns the instruction code at i.
func (w *WayList) Indication(i int) int {
	w.checkBounds(i)
	return w.indication[i]
}

// Name returns the street name at i.
func (w *WayList) Name(i int) string {
	w.checkBounds(i)
	return w.name[i]
}

// Reverse reverses both parallel arrays in lockstep.
func (w *WayList) Reverse() {
	for i, j := 0, w.size-1; i < j; i, j = i+1, j-1 {
		w.indication[i], w.indication[j] = w.indication[j], w.indication[i]
		w.name[i], w.name[j] = w.name[j], w.name[i]
	}
}

// Clear empties the list without releasing capacity.
func (w *WayList) Clear() {
	w.indication = w.indication[:0]
	w.name = w.name[:0]
	w.size = 0
}

// TrimToSize shrinks the logical size to newSize, which must be <= Size.
func (w *WayList) TrimToSize(newSize int) {
	if newSize < 0 || newSize > w.size {
		panic(fmt.Sprintf("geo: TrimToSize(%d) out of range [0,%d]", newSize, w.size))
	}
	w.size = newSize
	w.indication = w.indication[:newSize]
	w.name = w.name[:newSize]
}

// TrimToCapacity reallocates the backing arrays so capacity equals Size.
func (w *WayList) TrimToCapacity() {
	if cap(w.indication) == w.size {
		return
	}
	ind := make([]int, w.size)
	name := make([]string, w.size)
	copy(ind, w.indication)
	copy(name, w.name)
	w.indication, w.name = ind, name
}

func (w *WayList) checkBounds(i int) {
	if i < 0 || i >= w.size {
		panic(fmt.Sprintf("geo: index %d out of range [0,%d)", i, w.size))
	}
}

func (w *WayList) ensureCapacity(needed int) {
	if needed <= cap(w.indication) {
		return
	}
	newCap := w.size * 3 / 2
	if newCap < 5 {
		newCap = 5
	}
	if newCap < needed {
		newCap = needed
	}
	ind := make([]int, w.size, newCap)
	name := make([]string, w.size, newCap)
	copy(ind, w.indication)
	copy(name, w.name)
	w.indication, w.name = ind, name
}
