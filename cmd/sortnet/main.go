// Command sortnet searches for small sorting networks by level-synchronous
// beam search under the 0/1 principle.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/irifrance/sortnet/config"
	"github.com/irifrance/sortnet/engine"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.New()
	var symmetryOn, symmetryOff, verbose bool
	var seed int64

	cmd := &cobra.Command{
		Use:          "sortnet",
		Short:        "Search for small sorting networks by beam search",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if symmetryOn && symmetryOff {
				return fmt.Errorf("sortnet: --symmetry and --no-symmetry are mutually exclusive")
			}
			if symmetryOn {
				cfg.SetSymmetry(true)
			} else if symmetryOff {
				cfg.SetSymmetry(false)
			}
			if seed != 0 {
				cfg.DeterministicSeed = true
				cfg.Seed = uint64(seed)
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			log := logrus.New()
			log.SetOutput(os.Stderr)
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			} else {
				log.SetLevel(logrus.WarnLevel)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go forceExitOnSecondSignal(stop)

			_, err := engine.Run(ctx, cfg, os.Stdout, log)
			return err
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&cfg.NetSize, "net-size", "n", cfg.NetSize, "number of input wires")
	flags.IntVarP(&cfg.MaxBeamSize, "beam-size", "b", cfg.MaxBeamSize, "maximum beam width")
	flags.IntVarP(&cfg.ScoringTests, "scoring-tests", "t", cfg.ScoringTests, "Monte-Carlo rollouts per scoring round")
	flags.IntVarP(&cfg.Elites, "elites", "e", cfg.Elites, "top rollouts averaged into a candidate's score")
	flags.Float64VarP(&cfg.DepthWeight, "depth-weight", "w", cfg.DepthWeight, "tradeoff between length (0.0) and depth (1.0)")
	flags.BoolVarP(&symmetryOn, "symmetry", "s", false, "force the mirror-symmetry expansion heuristic on")
	flags.BoolVarP(&symmetryOff, "no-symmetry", "S", false, "force the mirror-symmetry expansion heuristic off")
	flags.BoolVarP(&cfg.Zobrist, "zobrist", "z", cfg.Zobrist, "maintain incremental Zobrist fingerprints")
	flags.IntVarP(&cfg.MaxIterations, "max-iterations", "i", cfg.MaxIterations, "independent search restarts to run")
	flags.Int64Var(&seed, "seed", 0, "deterministic RNG seed (0 selects entropy-based seeding)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging to stderr")

	return cmd
}

// forceExitOnSecondSignal lets the first SIGINT/SIGTERM cancel ctx so the
// current level can finish or discard cleanly; a second delivery means the
// operator wants out immediately.
func forceExitOnSecondSignal(stop context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	stop()
	<-sigs
	fmt.Fprintln(os.Stderr, "sortnet: forced exit")
	os.Exit(1)
}
