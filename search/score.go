// Package search implements the level-synchronous beam search driver:
// per-level parallel candidate expansion, canonical-hash deduplication,
// and successive-halving Monte-Carlo scoring of surviving candidates.
package search

import (
	"math/rand"
	"sort"

	"github.com/irifrance/sortnet/pattern"
)

// Sample is one Monte-Carlo rollout's outcome: the length and depth of
// the completed network it reached.
type Sample struct {
	Length int
	Depth  int
}

// rollout completes state with random transitions until every pattern
// is sorted, minimizes the resulting sequence's depth, and returns its
// (length, depth). scratch is reused across calls to avoid allocating a
// fresh State per sample.
func rollout(state, scratch *pattern.State, n int, rng *rand.Rand) Sample {
	state.CopyInto(scratch)
	for scratch.NumUnsorted() > 0 {
		scratch.RandomRolloutStep(rng)
	}
	ops := append([]pattern.Comparator(nil), scratch.Ops()...)
	pattern.MinimizeDepth(ops, n)
	return Sample{Length: len(ops), Depth: pattern.Depth(ops, n)}
}

// lessBy orders samples so length dominates below a depth_weight of 0.5
// and depth dominates at or above it, with the other field breaking
// ties — keeping the combined scalar score and the tiebreak order in
// agreement.
func lessBy(depthWeight float64) func(a, b Sample) bool {
	if depthWeight < 0.5 {
		return func(a, b Sample) bool {
			if a.Length != b.Length {
				return a.Length < b.Length
			}
			return a.Depth < b.Depth
		}
	}
	return func(a, b Sample) bool {
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}
		return a.Length < b.Length
	}
}

func combine(meanLength, meanDepth, depthWeight float64) float64 {
	return (1-depthWeight)*meanLength + depthWeight*meanDepth
}

func meanOf(samples []Sample) (meanLength, meanDepth float64) {
	var l, d float64
	for _, s := range samples {
		l += float64(s.Length)
		d += float64(s.Depth)
	}
	n := float64(len(samples))
	return l / n, d / n
}

// Accumulator holds a candidate's samples across successive-halving
// rounds so scores can be recomputed from the full accumulated sample
// set on each round: later rounds don't discard earlier evidence about
// a candidate's quality, they refine it.
type Accumulator struct {
	samples []Sample
}

// Add appends k freshly rolled-out samples from state.
func (a *Accumulator) Add(state, scratch *pattern.State, n, k int, rng *rand.Rand) {
	for i := 0; i < k; i++ {
		a.samples = append(a.samples, rollout(state, scratch, n, rng))
	}
}

// Score returns the combined scalar score (lower is better) over the top
// elites accumulated samples so far.
func (a *Accumulator) Score(elites int, depthWeight float64) float64 {
	sorted := append([]Sample(nil), a.samples...)
	sort.Slice(sorted, func(i, j int) bool { return lessBy(depthWeight)(sorted[i], sorted[j]) })
	if elites > len(sorted) {
		elites = len(sorted)
	}
	meanLength, meanDepth := meanOf(sorted[:elites])
	return combine(meanLength, meanDepth, depthWeight)
}

// Len returns the number of samples accumulated so far.
func (a *Accumulator) Len() int { return len(a.samples) }
