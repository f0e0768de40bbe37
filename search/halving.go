package search

import (
	"math"
	"sort"
)

// selectNext ranks candidates and returns at most cfg.MaxBeamSize of
// them for the next level. If there are already at most MaxBeamSize
// candidates, all advance unscored — there's nothing to rank away yet.
// Otherwise it runs successive halving, accumulating samples across
// rounds: score every active candidate with an increasing, accumulated
// sample budget, dropping the bottom half each round, until halving
// would drop below MaxBeamSize.
func (b *Beam) selectNext(candidates []candidate, level int) []candidate {
	maxBeam := b.cfg.MaxBeamSize
	if len(candidates) <= maxBeam {
		return candidates
	}

	n := b.cfg.NetSize
	depthWeight := b.cfg.DepthWeight
	elites := b.cfg.Elites

	initial := len(candidates)
	rounds := int(math.Ceil(math.Log2(float64(initial) / float64(maxBeam))))
	if rounds < 1 {
		rounds = 1
	}
	testsPerRound := int(math.Ceil(float64(b.cfg.ScoringTests) / float64(rounds)))

	active := make([]int, len(candidates))
	for i := range active {
		active[i] = i
	}
	accs := make([]Accumulator, len(candidates))

	for len(active) > maxBeam {
		b.reporter.OnRound(testsPerRound)

		b.parallelFor(len(active), func(w *worker, idx int) {
			candIdx := active[idx]
			c := candidates[candIdx]
			w.state.Replay(appendOp(b.beam[c.beamIndex], int(c.op.I), int(c.op.J)))
			accs[candIdx].Add(w.state, w.scratch, n, testsPerRound, w.rng)
		})

		scores := make([]float64, len(candidates))
		for _, idx := range active {
			scores[idx] = accs[idx].Score(elites, depthWeight)
		}
		sort.Slice(active, func(i, j int) bool { return scores[active[i]] < scores[active[j]] })

		newSize := len(active) / 2
		if newSize < maxBeam {
			break
		}
		active = active[:newSize]
		testsPerRound *= 2
	}

	if len(active) > maxBeam {
		scores := make([]float64, len(candidates))
		for _, idx := range active {
			scores[idx] = accs[idx].Score(elites, depthWeight)
		}
		sort.Slice(active, func(i, j int) bool { return scores[active[i]] < scores[active[j]] })
		active = active[:maxBeam]
	}

	out := make([]candidate, len(active))
	for i, idx := range active {
		out[i] = candidates[idx]
	}
	return out
}
