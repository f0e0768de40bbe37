// Package engine implements the orchestrator: it iterates the beam
// search driver across independent restarts under an iteration bound,
// reports each result, and honors an external cancellation signal.
// Grounded on SortingNetworks.cpp's run_search / print_results.
package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/irifrance/sortnet/bounds"
	"github.com/irifrance/sortnet/config"
	"github.com/irifrance/sortnet/pattern"
	"github.com/irifrance/sortnet/search"
)

// Result summarizes one completed orchestrator run.
type Result struct {
	Iterations int
	Elapsed    time.Duration
	Best       search.Network
}

// Run builds lookup tables once, then iterates the beam search driver up
// to cfg.MaxIterations times, writing each iteration's progress and
// result to w. It exits early once a result strictly improves on the
// published bounds for cfg.NetSize, or once ctx is canceled — checked
// only between iterations, never mid-level, so a search already underway
// always finishes or is cleanly discarded rather than left half-applied.
func Run(ctx context.Context, cfg *config.Config, w io.Writer, log *logrus.Logger) (Result, error) {
	log.WithFields(logrus.Fields{
		"net_size":   cfg.NetSize,
		"beam_size":  cfg.MaxBeamSize,
		"symmetry":   cfg.UseSymmetry,
		"zobrist":    cfg.Zobrist,
		"workers_gm": "GOMAXPROCS",
	}).Debug("building lookup tables")

	tables := pattern.Build(cfg.NetSize, cfg.Zobrist)
	b, ok := bounds.Get(cfg.NetSize)
	if !ok {
		return Result{}, fmt.Errorf("engine: no published bounds for net-size %d", cfg.NetSize)
	}

	PrintConfig(w, cfg)

	start := time.Now()
	var best search.Network
	iter := 0

	for ; iter < cfg.MaxIterations; iter++ {
		if ctx.Err() != nil {
			break
		}

		fmt.Fprintf(w, "Iteration %d:\n", iter+1)

		net, err := runIteration(tables, cfg, iter, w, log)
		if err != nil {
			return Result{Iterations: iter, Elapsed: time.Since(start)}, err
		}

		PrintNetwork(w, net, cfg.NetSize)
		if best.Ops == nil || betterThan(net, best, cfg.DepthWeight) {
			best = net
		}

		if net.Length < b.Length || net.Depth < b.Depth {
			iter++
			break
		}
	}

	elapsed := time.Since(start)
	fmt.Fprintf(w, "Total Iterations  : %d\n", iter)
	fmt.Fprintf(w, "Total Time        : %g seconds\n", elapsed.Seconds())

	return Result{Iterations: iter, Elapsed: elapsed, Best: best}, nil
}

// runIteration runs one independent beam search restart, recovering a
// *pattern.CapacityError into a returned error: a capacity breach always
// indicates a misconfigured length bound, not a condition this iteration
// can recover from, so it is reported as fatal rather than left as an
// uncaught panic.
func runIteration(tables *pattern.Tables, cfg *config.Config, iter int, w io.Writer, log *logrus.Logger) (net search.Network, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*pattern.CapacityError); ok {
				err = fmt.Errorf("engine: %w", ce)
				return
			}
			panic(r)
		}
	}()

	seed := seedFor(cfg, iter)
	log.WithField("seed", seed).Debug("starting iteration")

	reporter := NewTextReporter(w)
	beam := search.NewBeam(tables, cfg, seed, reporter)
	net = beam.Run()
	fmt.Fprintln(w)
	return net, nil
}

// betterThan ranks two completed networks under the configured depth
// weight: length-first below 0.5, depth-first at or above it.
func betterThan(a, b search.Network, depthWeight float64) bool {
	if depthWeight < 0.5 {
		if a.Length != b.Length {
			return a.Length < b.Length
		}
		return a.Depth < b.Depth
	}
	if a.Depth != b.Depth {
		return a.Depth < b.Depth
	}
	return a.Length < b.Length
}

// seedFor derives this iteration's RNG seed: a fixed, reproducible
// stream when cfg.DeterministicSeed is set, otherwise one drawn from
// wall-clock time, which is not reproducible across runs.
func seedFor(cfg *config.Config, iter int) uint64 {
	if cfg.DeterministicSeed {
		return cfg.Seed + uint64(iter)
	}
	return uint64(time.Now().UnixNano()) ^ uint64(iter)*0x9E3779B97F4A7C15
}
