package cmd

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/bankqueue/sim"
	"github.com/inference-sim/bankqueue/sim/report"
	"github.com/inference-sim/bankqueue/sim/viz"
)

var (
	// CLI flags shared by run and sweep
	configPath string // YAML run file
	envFile    string // dotenv file with BANKQUEUE_* overrides
	flagOpts   RunOptions
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "bankqueue",
	Short: "Discrete-event simulator for a single-teller bank queue",
}

// runCmd executes one simulation and writes its results
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bank queue simulation",
	Run: func(cmd *cobra.Command, args []string) {
		opts := mustResolve(cmd)
		if !opts.SeedSet {
			opts.Seed = time.Now().UnixNano()
			logrus.Infof("No seed given; using %d", opts.Seed)
		}
		if err := runSimulation(cmd.Context(), opts, time.Now()); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
	},
}

// mustResolve layers flags, env and the config file, then sets the log level.
func mustResolve(cmd *cobra.Command) RunOptions {
	file, err := loadFileConfig(configPath)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	env, err := loadEnv(envFile)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	opts, err := resolveRunOptions(cmd.Flags(), flagOpts, file, env)
	if err != nil {
		logrus.Fatalf("%v", err)
	}

	// Set up logging
	level, err := logrus.ParseLevel(opts.LogLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", opts.LogLevel)
	}
	logrus.SetLevel(level)
	return opts
}

// runSimulation performs one run and writes every requested artifact under
// a fresh timestamped directory in opts.OutputDir.
func runSimulation(ctx context.Context, opts RunOptions, now time.Time) error {
	formats, err := report.ParseFormats(opts.Formats)
	if err != nil {
		return err
	}
	cfg := opts.simConfig(opts.Seed)
	s, err := sim.NewSimulator(cfg, nil)
	if err != nil {
		return err
	}

	logrus.Infof("Starting bank simulation with %d customers (seed %d)", cfg.CustomerCount, cfg.Seed)
	wallStart := time.Now()
	m := s.Run()
	info := report.NewRunInfo(cfg, now)

	dir, err := report.NewRunDir(opts.OutputDir, now)
	if err != nil {
		return err
	}
	artifacts := report.Artifacts{Trace: s.Trace}
	if opts.Charts {
		charts, err := viz.Render(dir, m)
		if err != nil {
			return err
		}
		for _, c := range charts {
			artifacts.Charts = append(artifacts.Charts, report.Chart{Name: c.Name, Path: c.Path})
		}
	}
	if _, err := report.WriteAll(dir, formats, info, m, artifacts); err != nil {
		return err
	}
	if opts.Database != "" {
		store, err := report.OpenStore(opts.Database)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SaveRun(info, m); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	printRunSummary(os.Stdout, info, m, dir, time.Since(wallStart))
	logrus.Info("Simulation complete.")
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerRunFlags binds the flags shared by run and sweep to flagOpts.
func registerRunFlags(c *cobra.Command) {
	d := defaultRunOptions()
	c.Flags().IntVarP(&flagOpts.NumCustomers, "num-customers", "n", d.NumCustomers, "Number of customers to simulate")
	c.Flags().StringVarP(&flagOpts.OutputDir, "output-dir", "o", d.OutputDir, "Directory for simulation results")
	c.Flags().StringVar(&flagOpts.LogLevel, "log", d.LogLevel, "Log level (trace, debug, info, warn, error, fatal, panic)")
	c.Flags().StringSliceVar(&flagOpts.Formats, "formats", d.Formats, "Comma-separated output formats (json, csv, txt)")
	c.Flags().StringVar(&flagOpts.TraceLevel, "trace-level", d.TraceLevel, "Event trace level (none, events)")
	c.Flags().StringVar(&flagOpts.Database, "db", d.Database, "SQLite file to append results to")
	c.Flags().StringVar(&configPath, "config", "", "YAML run configuration file")
	c.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file with BANKQUEUE_* overrides")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd)
	runCmd.Flags().Int64Var(&flagOpts.Seed, "seed", 0, "Random seed for reproducibility (default: from clock)")
	runCmd.Flags().BoolVar(&flagOpts.Charts, "charts", true, "Render PNG charts")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
