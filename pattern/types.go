// Package pattern implements the 0/1-principle knowledge-state machine at
// the core of the sorting-network search: lookup tables over all binary
// input patterns for a given network width, and the intrusive-list state
// that tracks which patterns remain unsorted as comparators are applied.
package pattern

import "fmt"

// Comparator is a compare-exchange operation (i, j) with i < j: applying
// it to a vector places the smaller of wires i, j onto wire i and the
// larger onto wire j.
type Comparator struct {
	I, J uint8
}

// Pattern is an n-bit input vector, n <= 32. A single width is used for
// every net size rather than the narrowest type that fits n bits: the
// dominant memory cost is the O(2^n) node count, not the few bytes saved
// per node by a narrower scalar.
type Pattern uint32

// MaxNetSize is the largest supported network width.
const MaxNetSize = 32

// CapacityError reports that a partial operation sequence grew beyond its
// configured capacity bound. This is always a programmer/configuration
// error: LengthUpperBound is derived from the published bounds table and
// the search is expected to terminate well before it is reached.
type CapacityError struct {
	Level int
	Bound int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("pattern: level %d exceeds length upper bound %d", e.Level, e.Bound)
}
