package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sortviz/internal/config"
	"sortviz/internal/coordinator"
	"sortviz/internal/pacing"
	"sortviz/internal/random"
	"sortviz/internal/sorting"
)

var (
	runCount    int
	runSeed     uint64
	runRealtime bool
)

// runCmd performs one sort without the interactive view
var runCmd = &cobra.Command{
	Use:   "run <kind>",
	Short: "Run one sort headless and print the result",
	Long: `Randomizes a sequence, sorts it with the given algorithm and prints the
values before and after, the number of suspensions and the run duration.

Pacing is instant unless --realtime is set.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: kindNames(),
	RunE:      runHeadless,
}

// kindsCmd lists the available algorithms
var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List sort algorithms",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for i, k := range sorting.Kinds() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d  %-10s %s\n", i+1, k, k.Title())
		}
		return nil
	},
}

func init() {
	runCmd.Flags().IntVarP(&runCount, "count", "n", 0, "Number of bars (default: sequence.count from config)")
	runCmd.Flags().Uint64Var(&runSeed, "seed", 0, "Seed for the value generator (0 = clock)")
	runCmd.Flags().BoolVar(&runRealtime, "realtime", false, "Pace steps in real time")
}

func kindNames() []string {
	kinds := sorting.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

// newCoordinator builds a coordinator from config. A nil pacer means a
// real-time Sleeper at the configured speed; seed 0 seeds from the clock.
func newCoordinator(cfg *config.Config, pacer pacing.Pacer, seed uint64) (*coordinator.Coordinator, error) {
	var (
		gen *random.Generator
		err error
	)
	if seed != 0 {
		gen, err = random.NewSeeded(cfg.Sequence.MinValue, cfg.Sequence.MaxValue, seed)
	} else {
		gen, err = random.New(cfg.Sequence.MinValue, cfg.Sequence.MaxValue)
	}
	if err != nil {
		return nil, err
	}

	return coordinator.New(coordinator.Options{
		Timing:       timingFrom(cfg),
		Pacer:        pacer,
		Generator:    gen,
		InitialCount: cfg.Sequence.Count,
	})
}

func runHeadless(cmd *cobra.Command, args []string) error {
	kind, err := sorting.ParseKind(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runCount != 0 {
		cfg.Sequence.Count = runCount
	}

	var pacer pacing.Pacer = &pacing.Instant{}
	if runRealtime {
		pacer = nil
	}

	coord, err := newCoordinator(cfg, pacer, runSeed)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s, %d bars\n", kind.Title(), len(coord.Values()))
	fmt.Fprintf(out, "before: %v\n", coord.Values())

	logger.Debug("starting headless run",
		zap.String("kind", string(kind)),
		zap.Int("count", cfg.Sequence.Count),
		zap.Bool("realtime", runRealtime))

	runErr := coord.StartSort(ctx, kind)

	stats, _ := coord.LastRun()
	fmt.Fprintf(out, "after:  %v\n", coord.Values())
	fmt.Fprintf(out, "suspensions: %d  metadata publishes: %d  duration: %v\n",
		stats.Suspensions, stats.Publishes, stats.Duration)

	if runErr != nil {
		logger.Warn("run failed", zap.String("run", stats.RunID), zap.Error(runErr))
		return fmt.Errorf("%s failed: %w", kind, runErr)
	}
	logger.Debug("run finished", zap.String("run", stats.RunID), zap.Duration("duration", stats.Duration))
	return nil
}
