package engine

import (
	"fmt"
	"io"

	"github.com/irifrance/sortnet/canon"
	"github.com/irifrance/sortnet/config"
	"github.com/irifrance/sortnet/search"
)

// TextReporter renders search.Beam's progress events to w as one running
// line per iteration: for each level, the level index, a bracketed
// pre-to-post-dedup candidate count, and a parenthesized test count per
// successive-halving round, comma-separated between levels.
type TextReporter struct {
	w io.Writer
}

// NewTextReporter returns a Reporter that writes a running progress line
// to w.
func NewTextReporter(w io.Writer) *TextReporter { return &TextReporter{w: w} }

func (r *TextReporter) OnLevel(level int) {
	if level > 0 {
		fmt.Fprint(r.w, ", ")
	}
	fmt.Fprintf(r.w, "%d", level)
}

func (r *TextReporter) OnDedup(before, after int) {
	fmt.Fprintf(r.w, " [%d→%d]", before, after)
}

func (r *TextReporter) OnRound(testsPerCandidate int) {
	fmt.Fprintf(r.w, " (%d)", testsPerCandidate)
}

// PrintConfig dumps the effective configuration, mirroring
// Config::print() in config.cpp.
func PrintConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "MAX_ITERATIONS          = %d\n", cfg.MaxIterations)
	fmt.Fprintf(w, "NET_SIZE                = %d\n", cfg.NetSize)
	fmt.Fprintf(w, "MAX_BEAM_SIZE           = %d\n", cfg.MaxBeamSize)
	fmt.Fprintf(w, "NUM_SCORING_TESTS       = %d\n", cfg.ScoringTests)
	fmt.Fprintf(w, "NUM_ELITE_TESTS         = %d\n", cfg.Elites)
	fmt.Fprintf(w, "USE_SYMMETRY_HEURISTIC  = %s\n", yesNo(cfg.UseSymmetry))
	fmt.Fprintf(w, "DEPTH_WEIGHT            = %g\n", cfg.DepthWeight)
	fmt.Fprintf(w, "ZOBRIST                 = %s\n", yesNo(cfg.Zobrist))
	fmt.Fprintf(w, "NUM_INPUT_PATTERNS      = %d\n", cfg.NumInputPatterns)
	fmt.Fprintf(w, "LENGTH_LOWER_BOUND      = %d\n", cfg.LengthLowerBound)
	fmt.Fprintf(w, "LENGTH_UPPER_BOUND      = %d\n", cfg.LengthUpperBound)
	fmt.Fprintf(w, "DEPTH_LOWER_BOUND       = %d\n", cfg.DepthLowerBound)
	fmt.Fprintln(w)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// PrintNetwork prints net in canonically-normalized form: one
// "+k:(i,j)" line per comparator, then its length and depth.
func PrintNetwork(w io.Writer, net search.Network, n int) {
	normalized := canon.Normalize(net.Ops, n)
	for i, op := range normalized {
		fmt.Fprintf(w, "+%d:(%d,%d)\n", i+1, op.I, op.J)
	}
	fmt.Fprintf(w, "+Length: %d\n", net.Length)
	fmt.Fprintf(w, "+Depth : %d\n", net.Depth)
	fmt.Fprintln(w)
}
