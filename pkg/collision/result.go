package collision

import "sort"

// Result maps object index to its collision verdict. Only colliding objects
// are stored; a missing index means no overlap was found.
type Result map[int]bool

// Colliding reports whether object i overlaps another object or leaves the
// envelope.
func (r Result) Colliding(i int) bool {
	return r[i]
}

// Any reports whether at least one object collides.
func (r Result) Any() bool {
	for _, v := range r {
		if v {
			return true
		}
	}
	return false
}

// Flags expands the result into a dense slice for n objects.
func (r Result) Flags(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = r[i]
	}
	return out
}

// Indices returns the colliding object indices in ascending order.
func (r Result) Indices() []int {
	out := make([]int, 0, len(r))
	for i, v := range r {
		if v {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// Stats counts the work done by one detection run.
type Stats struct {
	Objects       int // objects handed to the detector
	EmptyObjects  int // objects without vertices, never compared
	PairsVisited  int // object pairs the scan looked at
	PairsPruned   int // pairs rejected by whole-object boxes
	PairsTested   int // pairs that reached the triangle stage
	TrianglePairs int // triangle pairs handed to the exact test
	Outside       int // objects not contained by the envelope
}
