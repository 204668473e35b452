package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	sim "github.com/inference-sim/bankqueue/sim"
	"github.com/inference-sim/bankqueue/sim/report"
)

// SweepFile is the per-seed table written by the sweep command.
const SweepFile = "sweep.csv"

var (
	sweepSeeds     int   // number of seeds to run
	sweepStartSeed int64 // first seed; the rest follow consecutively
	sweepWorkers   int   // concurrent runs
)

// sweepCmd runs the same configuration over consecutive seeds in parallel
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the simulation over a range of seeds and aggregate the results",
	Run: func(cmd *cobra.Command, args []string) {
		opts := mustResolve(cmd)
		if sweepSeeds <= 0 {
			logrus.Fatalf("--seeds must be positive, got %d", sweepSeeds)
		}
		if err := runSweep(cmd.Context(), opts, sweepStartSeed, sweepSeeds, sweepWorkers, time.Now()); err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
	},
}

// sweepResult is one seed's outcome.
type sweepResult struct {
	Info    report.RunInfo
	Metrics *sim.Metrics
}

// runSweepSeeds runs n seeds starting at startSeed with at most workers runs in flight.
// Results are returned in seed order regardless of completion order.
func runSweepSeeds(ctx context.Context, opts RunOptions, startSeed int64, n, workers int, now time.Time) ([]sweepResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]sweepResult, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cfg := opts.simConfig(startSeed + int64(i))
			s, err := sim.NewSimulator(cfg, nil)
			if err != nil {
				return err
			}
			results[i] = sweepResult{Info: report.NewRunInfo(cfg, now), Metrics: s.Run()}
			logrus.Debugf("Sweep seed %d done", cfg.Seed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// runSweep runs the sweep and writes sweep.csv (and the store, if configured).
func runSweep(ctx context.Context, opts RunOptions, startSeed int64, n, workers int, now time.Time) error {
	results, err := runSweepSeeds(ctx, opts, startSeed, n, workers, now)
	if err != nil {
		return err
	}
	dir, err := report.NewRunDir(opts.OutputDir, now)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, SweepFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", SweepFile, err)
	}
	if err := writeSweepCSV(f, results); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", SweepFile, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	if opts.Database != "" {
		store, err := report.OpenStore(opts.Database)
		if err != nil {
			return err
		}
		defer store.Close()
		for _, r := range results {
			if err := store.SaveRun(r.Info, r.Metrics); err != nil {
				return err
			}
		}
	}

	printSweepSummary(os.Stdout, aggregateSweep(results), path)
	return nil
}

// sweepAggregate is the mean and standard deviation of each key metric across seeds.
type sweepAggregate struct {
	Runs                                   int
	WaitMean, WaitStd                      float64
	SystemMean, SystemStd                  float64
	UtilMean, UtilStd                      float64
	MaxQueueMean, MaxQueueStd, MaxQueueTop float64
}

func aggregateSweep(results []sweepResult) sweepAggregate {
	n := len(results)
	waits := make([]float64, n)
	systems := make([]float64, n)
	utils := make([]float64, n)
	queues := make([]float64, n)
	for i, r := range results {
		waits[i] = r.Metrics.AverageWaitingTime
		systems[i] = r.Metrics.AverageSystemTime
		utils[i] = r.Metrics.ServerUtilization
		queues[i] = float64(r.Metrics.MaxQueueLength)
	}
	agg := sweepAggregate{Runs: n}
	agg.WaitMean, agg.WaitStd = meanStd(waits)
	agg.SystemMean, agg.SystemStd = meanStd(systems)
	agg.UtilMean, agg.UtilStd = meanStd(utils)
	agg.MaxQueueMean, agg.MaxQueueStd = meanStd(queues)
	for _, q := range queues {
		agg.MaxQueueTop = max(agg.MaxQueueTop, q)
	}
	return agg
}

// meanStd returns the mean and sample standard deviation; a single value has zero spread.
func meanStd(xs []float64) (float64, float64) {
	if len(xs) < 2 {
		return stat.Mean(xs, nil), 0
	}
	return stat.MeanStdDev(xs, nil)
}

var sweepHeader = []string{"seed", "run_id", "customers_served", "average_waiting_time",
	"average_system_time", "server_utilization", "max_queue_length", "sim_ended_time"}

func writeSweepCSV(w io.Writer, results []sweepResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sweepHeader); err != nil {
		return err
	}
	for _, r := range results {
		m := r.Metrics
		row := []string{
			strconv.FormatInt(r.Info.Seed, 10),
			r.Info.RunID,
			strconv.Itoa(m.CustomersServed),
			strconv.FormatFloat(m.AverageWaitingTime, 'g', -1, 64),
			strconv.FormatFloat(m.AverageSystemTime, 'g', -1, 64),
			strconv.FormatFloat(m.ServerUtilization, 'g', -1, 64),
			strconv.Itoa(m.MaxQueueLength),
			strconv.FormatFloat(m.SimEndedTime, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func printSweepSummary(w io.Writer, agg sweepAggregate, path string) {
	headerColor.Fprintf(w, "=== Sweep over %d seeds ===\n", agg.Runs)
	printKV(w, "Average waiting time", fmt.Sprintf("%.2f ± %.2f minutes", agg.WaitMean, agg.WaitStd))
	printKV(w, "Average system time", fmt.Sprintf("%.2f ± %.2f minutes", agg.SystemMean, agg.SystemStd))
	printKV(w, "Server utilization", fmt.Sprintf("%.2f%% ± %.2f%%", agg.UtilMean*100, agg.UtilStd*100))
	printKV(w, "Maximum queue length", fmt.Sprintf("%.2f ± %.2f (worst %.0f)", agg.MaxQueueMean, agg.MaxQueueStd, agg.MaxQueueTop))
	fmt.Fprintf(w, "\nPer-seed results saved to: %s\n", path)
}

func init() {
	registerRunFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&sweepSeeds, "seeds", 10, "Number of consecutive seeds to run")
	sweepCmd.Flags().Int64Var(&sweepStartSeed, "start-seed", 1, "First seed of the sweep")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 0, "Concurrent runs (default: GOMAXPROCS)")

	rootCmd.AddCommand(sweepCmd)
}
