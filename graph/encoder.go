package graph

// CombinedEncoder is the opaque vehicle/traffic flag codec, an external
// collaborator per spec.md §1/§6. The graph storage only needs to compute
// a default flags value and to transform flags when an edge's (from, to)
// pair is swapped to canonical (nodeA <= nodeB) order.
type CombinedEncoder interface {
	// FlagsDefault expands a caller-supplied "both directions" bool into
	// the canonical flags value for a new edge. Callers with an
	// already-encoded flags value use Graph.EdgeWithFlags instead.
	FlagsDefault(bothDirections bool) int32
	// SwapDirection transforms flags stored in the nodeA->nodeB direction
	// into their nodeB->nodeA equivalent, and vice versa.
	SwapDirection(flags int32) int32
}

// EdgeFilter decides whether an edge should be yielded by an adjacency
// iteration (spec.md §4.3 "Iteration").
type EdgeFilter interface {
	Accept(it *EdgeIterator) bool
}

// acceptAll is the standard EdgeFilter implementation that yields every
// edge.
type acceptAll struct{}

func (acceptAll) Accept(*EdgeIterator) bool { return true }

// AcceptAll is the standard "no filtering" EdgeFilter.
var AcceptAll EdgeFilter = acceptAll{}

// simpleEncoder is a minimal CombinedEncoder usable when the caller
// already stores raw flags ints and only needs direction bit 0 reserved
// as the "forward" bit and bit 1 as "backward" — a common real-world
// convention, and a reasonable zero-value default for tests and the demo
// CLI. Production callers inject their own CombinedEncoder.
type simpleEncoder struct{}

const (
	flagForward  = int32(1) << 0
	flagBackward = int32(1) << 1
)

func (simpleEncoder) FlagsDefault(bothDirections bool) int32 {
	if bothDirections {
		return flagForward | flagBackward
	}
	return flagForward
}

func (simpleEncoder) SwapDirection(flags int32) int32 {
	fwd := flags&flagForward != 0
	bwd := flags&flagBackward != 0
	rest := flags &^ (flagForward | flagBackward)
	var out int32
	if bwd {
		out |= flagForward
	}
	if fwd {
		out |= flagBackward
	}
	return out | rest
}

// SimpleEncoder returns the minimal CombinedEncoder described above.
func SimpleEncoder() CombinedEncoder { return simpleEncoder{} }
