// Package bounds holds the best-known (length, depth) pairs for optimal
// or near-optimal sorting networks on n wires, n in [2,32].
//
// Source: https://bertdobbelaere.github.io/sorting_networks.html
package bounds

// Bounds is a published (length, depth) pair for some network size.
type Bounds struct {
	Length int
	Depth  int
}

var table = map[int]Bounds{
	2:  {1, 1},
	3:  {3, 3},
	4:  {5, 3},
	5:  {9, 5},
	6:  {12, 5},
	7:  {16, 6},
	8:  {19, 6},
	9:  {25, 7},
	10: {29, 7},
	11: {35, 8},
	12: {39, 8},
	13: {45, 9},
	14: {51, 9},
	15: {56, 9},
	16: {60, 9},
	17: {71, 10},
	18: {77, 11},
	19: {85, 11},
	20: {91, 11},
	21: {99, 12},
	22: {106, 12},
	23: {114, 12},
	24: {120, 12},
	25: {130, 13},
	26: {138, 13},
	27: {147, 13},
	28: {155, 13},
	29: {164, 14},
	30: {172, 14},
	31: {180, 14},
	32: {185, 14},
}

// Get returns the published bounds for net size n, and whether n is in
// the table (n outside [2,32] or otherwise unlisted returns ok=false).
func Get(n int) (b Bounds, ok bool) {
	b, ok = table[n]
	return
}
