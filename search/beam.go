package search

import (
	"math/rand"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/irifrance/sortnet/canon"
	"github.com/irifrance/sortnet/config"
	"github.com/irifrance/sortnet/pattern"
)

// Network is a complete operation sequence with its length and parallel
// depth, as returned by Beam.Run once a terminal beam entry is found.
type Network struct {
	Ops    []pattern.Comparator
	Length int
	Depth  int
}

// Reporter receives progress events from Beam.Run, one call per event,
// so the caller (engine.TextReporter) can assemble its own progress output
// without the driver itself writing to stdout — Beam stays usable as a
// library, with all presentation left to its caller.
type Reporter interface {
	// OnLevel is called once per level, before dedup, with the level
	// index.
	OnLevel(level int)
	// OnDedup reports the candidate count before and after canonical
	// deduplication.
	OnDedup(before, after int)
	// OnRound reports one successive-halving round's per-candidate
	// test count.
	OnRound(testsPerCandidate int)
}

// NopReporter discards every event.
type NopReporter struct{}

func (NopReporter) OnLevel(int)      {}
func (NopReporter) OnDedup(int, int) {}
func (NopReporter) OnRound(int)      {}

// candidate is one proposed extension of a beam entry by one comparator,
// tagged with the canonical hash of the extended sequence.
type candidate struct {
	beamIndex int
	op        pattern.Comparator
	hash      uint64
}

// worker holds one goroutine's persistent, thread-local resources: a
// reusable state, successor mask, and RNG, so concurrent workers never
// contend over the same scratch memory or RNG stream.
type worker struct {
	state   *pattern.State
	scratch *pattern.State
	mask    *pattern.Mask
	rng     *rand.Rand
	local   []candidate
}

// Beam is a level-synchronous beam search driver over a fixed net size
// and config. It owns the two double-buffered beam slices and a pool of
// per-goroutine workers reused across levels; the candidate and score
// slices are allocated afresh for each level.
type Beam struct {
	tables   *pattern.Tables
	cfg      *config.Config
	reporter Reporter

	beam []([]pattern.Comparator)
	temp []([]pattern.Comparator)

	workers []*worker
}

// NewBeam constructs a driver for tables/cfg. seed, when
// cfg.DeterministicSeed is set, seeds every worker's RNG from
// (seed, workerIndex) for reproducibility; otherwise each worker seeds
// from its own entropy source. reporter may be nil (equivalent to
// NopReporter{}).
func NewBeam(tables *pattern.Tables, cfg *config.Config, seed uint64, reporter Reporter) *Beam {
	if reporter == nil {
		reporter = NopReporter{}
	}
	n := runtime.GOMAXPROCS(0)
	workers := make([]*worker, n)
	goldenRatio64 := uint64(0x9E3779B97F4A7C15)
	goldenRatioStride := int64(goldenRatio64)
	for i := range workers {
		var rng *rand.Rand
		if cfg.DeterministicSeed {
			rng = rand.New(rand.NewSource(int64(seed) + int64(i)*goldenRatioStride))
		} else {
			rng = rand.New(rand.NewSource(rand.Int63()))
		}
		workers[i] = &worker{
			state:   pattern.NewState(tables, cfg.LengthUpperBound),
			scratch: pattern.NewState(tables, cfg.LengthUpperBound),
			mask:    pattern.NewMask(cfg.NetSize),
			rng:     rng,
		}
	}
	return &Beam{
		tables:   tables,
		cfg:      cfg,
		reporter: reporter,
		beam:     [][]pattern.Comparator{{}},
		workers:  workers,
	}
}

// parallelFor dynamically dispatches fn(worker, i) for i in [0, n) across
// the driver's worker pool; each worker claims the next unclaimed index
// from a shared atomic cursor (the Go analogue of OpenMP's
// schedule(dynamic)), and this call is a barrier: it returns only once
// every index has been processed.
func (b *Beam) parallelFor(n int, fn func(w *worker, i int)) {
	var cursor atomic.Int64
	var eg errgroup.Group
	for _, w := range b.workers {
		w := w
		eg.Go(func() error {
			for {
				i := int(cursor.Add(1) - 1)
				if i >= n {
					return nil
				}
				fn(w, i)
			}
		})
	}
	_ = eg.Wait() // fn never returns an error; parallelFor cannot fail
}

// Run performs beam search from an empty network to completion: repeated
// expand/dedup/score/truncate levels until some beam entry has no valid
// successor, at which point that entry (depth-minimized) is returned.
func (b *Beam) Run() Network {
	n := b.cfg.NetSize

	for level := 0; ; level++ {
		b.reporter.OnLevel(level)

		var completed atomic.Int64
		completed.Store(-1)
		for _, w := range b.workers {
			w.local = w.local[:0]
		}

		b.parallelFor(len(b.beam), func(w *worker, i int) {
			if completed.Load() != -1 {
				return
			}
			w.state.Replay(b.beam[i])
			succ := w.state.SuccessorMask(w.mask)
			if succ == 0 {
				completed.CompareAndSwap(-1, int64(i))
				return
			}

			skip := false
			if b.cfg.UseSymmetry && level >= 1 {
				last := b.beam[i][level-1]
				p, q := int(last.I), int(last.J)
				pp, qq := n-1-q, n-1-p
				if p != pp && p != qq && q != pp && q != qq && w.mask.Get(pp, qq) {
					seq := appendOp(b.beam[i], pp, qq)
					w.local = append(w.local, candidate{
						beamIndex: i,
						op:        pattern.Comparator{I: uint8(pp), J: uint8(qq)},
						hash:      canon.Hash(seq, n),
					})
					skip = true
				}
			}
			if !skip {
				w.mask.Each(func(i1, j1 int) {
					seq := appendOp(b.beam[i], i1, j1)
					w.local = append(w.local, candidate{
						beamIndex: i,
						op:        pattern.Comparator{I: uint8(i1), J: uint8(j1)},
						hash:      canon.Hash(seq, n),
					})
				})
			}
		})

		if idx := completed.Load(); idx != -1 {
			ops := append([]pattern.Comparator(nil), b.beam[idx]...)
			pattern.MinimizeDepth(ops, n)
			return Network{Ops: ops, Length: len(ops), Depth: pattern.Depth(ops, n)}
		}

		// Merge each worker's thread-local chunk once, after the
		// parallel barrier — no lock needed since workers no longer
		// run concurrently with this loop.
		var candidates []candidate
		for _, w := range b.workers {
			candidates = append(candidates, w.local...)
		}

		before := len(candidates)
		candidates = dedup(candidates)
		after := len(candidates)
		b.reporter.OnDedup(before, after)

		selected := b.selectNext(candidates, level)

		b.temp = b.temp[:0]
		for _, c := range selected {
			b.temp = append(b.temp, appendOp(b.beam[c.beamIndex], int(c.op.I), int(c.op.J)))
		}
		b.beam, b.temp = b.temp, b.beam
	}
}

func appendOp(prefix []pattern.Comparator, i, j int) []pattern.Comparator {
	out := make([]pattern.Comparator, len(prefix)+1)
	copy(out, prefix)
	out[len(prefix)] = pattern.Comparator{I: uint8(i), J: uint8(j)}
	return out
}

// dedup keeps the first candidate seen per canonical hash, preserving
// merge order: isomorphic extensions of different beam entries collapse
// to whichever was produced first.
func dedup(cs []candidate) []candidate {
	seen := make(map[uint64]struct{}, len(cs)*2)
	out := cs[:0]
	for _, c := range cs {
		if _, ok := seen[c.hash]; ok {
			continue
		}
		seen[c.hash] = struct{}{}
		out = append(out, c)
	}
	return out
}
