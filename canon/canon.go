// Package canon computes a canonical fingerprint for a partial or
// complete sorting-network operation sequence, invariant under wire
// relabeling and intra-layer reordering, for isomorphism-based
// deduplication during beam search.
//
// The labeling heuristic (degree, then neighbor-degree-sum, then
// original index) is the greedy canonical form from Choi & Moon,
// "Isomorphism, Normalization, and a Genetic Algorithm for Sorting
// Network Optimization". It is not a complete isomorphism
// canonicalization; false collisions across non-isomorphic networks are
// accepted as rare, and cost only a missed exploration rather than an
// incorrect result. Where the labeling falls back on the original wire
// index to break a tie, two equivalent sequences can also receive
// different fingerprints.
package canon

import (
	"hash/fnv"

	"github.com/irifrance/sortnet/pattern"
)

const invalidLabel = 255

// degrees returns, for each wire, how many comparators in ops touch it.
func degrees(ops []pattern.Comparator, n int) []int {
	d := make([]int, n)
	for _, op := range ops {
		d[op.I]++
		d[op.J]++
	}
	return d
}

// neighborSums returns, for each wire w, the sum over comparators
// touching w of the degree of the other wire in that comparator.
func neighborSums(ops []pattern.Comparator, n int, deg []int) []int {
	s := make([]int, n)
	for _, op := range ops {
		s[op.I] += deg[op.J]
		s[op.J] += deg[op.I]
	}
	return s
}

// mapping computes the greedy canonical relabeling of ops' n wires.
func mapping(ops []pattern.Comparator, n int) []uint8 {
	deg := degrees(ops, n)
	nsum := neighborSums(ops, n, deg)

	m := make([]uint8, n)
	for i := range m {
		m[i] = invalidLabel
	}
	assigned := make([]bool, n)

	for label := 0; label < n; label++ {
		best, bestDeg, bestNSum := -1, -1, -1
		for w := 0; w < n; w++ {
			if assigned[w] {
				continue
			}
			if deg[w] > bestDeg ||
				(deg[w] == bestDeg && nsum[w] > bestNSum) ||
				(deg[w] == bestDeg && nsum[w] == bestNSum && (best == -1 || w < best)) {
				best, bestDeg, bestNSum = w, deg[w], nsum[w]
			}
		}
		if best < 0 {
			break
		}
		m[best] = uint8(label)
		assigned[best] = true

		for _, op := range ops {
			if int(op.I) == best && !assigned[op.J] {
				nsum[op.J] -= bestDeg
			} else if int(op.J) == best && !assigned[op.I] {
				nsum[op.I] -= bestDeg
			}
		}
	}
	return m
}

func applyMapping(ops []pattern.Comparator, m []uint8) {
	for k, op := range ops {
		a, b := m[op.I], m[op.J]
		if a > b {
			a, b = b, a
		}
		ops[k] = pattern.Comparator{I: a, J: b}
	}
}

// reorderLayers partitions ops into greedy parallel layers, sorts each
// layer lexicographically by (I, J), and flattens back in layer order.
func reorderLayers(ops []pattern.Comparator, n int) {
	used := make([]bool, n)
	out := make([]pattern.Comparator, 0, len(ops))
	placed := make([]bool, len(ops))

	remaining := len(ops)
	for remaining > 0 {
		for i := range used {
			used[i] = false
		}
		var layer []pattern.Comparator
		for k, op := range ops {
			if placed[k] {
				continue
			}
			if !used[op.I] && !used[op.J] {
				layer = append(layer, op)
				used[op.I] = true
				used[op.J] = true
				placed[k] = true
			}
		}
		sortComparators(layer)
		out = append(out, layer...)
		remaining -= len(layer)
	}
	copy(ops, out)
}

func sortComparators(ops []pattern.Comparator) {
	for i := 1; i < len(ops); i++ {
		for j := i; j > 0; j-- {
			a, b := ops[j-1], ops[j]
			if a.I < b.I || (a.I == b.I && a.J <= b.J) {
				break
			}
			ops[j-1], ops[j] = ops[j], ops[j-1]
		}
	}
}

// Normalize returns a canonically relabeled and layer-reordered copy of
// ops: the representative form used both for printing and for hashing.
func Normalize(ops []pattern.Comparator, n int) []pattern.Comparator {
	out := make([]pattern.Comparator, len(ops))
	copy(out, ops)
	if len(out) == 0 {
		return out
	}
	m := mapping(out, n)
	applyMapping(out, m)
	reorderLayers(out, n)
	return out
}

// Hash returns the 64-bit canonical fingerprint of ops: equal for two
// operation sequences related by a wire permutation plus reordering
// within a parallel layer whenever the greedy labeling resolves on
// degree and neighbor-sum alone, or the permutation keeps index-tied
// wires in their original relative order. Otherwise equivalent
// sequences can hash differently.
func Hash(ops []pattern.Comparator, n int) uint64 {
	if len(ops) == 0 {
		return 0
	}
	normalized := Normalize(ops, n)
	h := fnv.New64a()
	for _, op := range normalized {
		h.Write([]byte{op.I, op.J})
	}
	return h.Sum64()
}
