package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	sim "github.com/inference-sim/bankqueue/sim"
	"github.com/inference-sim/bankqueue/sim/trace"
)

// Environment variables consulted after flags and before the YAML file.
const (
	envSeed      = "BANKQUEUE_SEED"
	envOutputDir = "BANKQUEUE_OUTPUT_DIR"
	envLog       = "BANKQUEUE_LOG"
)

// FileConfig is the YAML run file. Every field is optional; unset fields fall
// through to built-in defaults. Unknown keys are rejected.
type FileConfig struct {
	NumCustomers *int              `yaml:"num_customers"`
	Seed         *int64            `yaml:"seed"`
	OutputDir    *string           `yaml:"output_dir"`
	Log          *string           `yaml:"log"`
	InterArrival *sim.UniformRange `yaml:"interarrival"`
	Service      *sim.UniformRange `yaml:"service"`
	Formats      []string          `yaml:"formats"`
	Charts       *bool             `yaml:"charts"`
	TraceLevel   *string           `yaml:"trace_level"`
	Database     *string           `yaml:"database"`
}

// loadFileConfig parses a run file with strict field checking.
// An empty path yields an empty FileConfig.
func loadFileConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// loadEnv returns the BANKQUEUE_* settings from the process environment,
// falling back to envFile. A missing envFile is not an error.
func loadEnv(envFile string) (map[string]string, error) {
	fromFile := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fromFile = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("reading env file %s: %w", envFile, err)
		}
	}
	out := make(map[string]string)
	for _, key := range []string{envSeed, envOutputDir, envLog} {
		if v, ok := os.LookupEnv(key); ok {
			out[key] = v
		} else if v, ok := fromFile[key]; ok {
			out[key] = v
		}
	}
	return out, nil
}

// RunOptions is the fully resolved configuration of one CLI invocation.
type RunOptions struct {
	NumCustomers int
	Seed         int64
	SeedSet      bool // false means draw a seed from the wall clock
	OutputDir    string
	LogLevel     string
	InterArrival sim.UniformRange
	Service      sim.UniformRange
	Formats      []string
	Charts       bool
	TraceLevel   string
	Database     string
}

func defaultRunOptions() RunOptions {
	return RunOptions{
		NumCustomers: 500,
		OutputDir:    "results",
		LogLevel:     "warn",
		InterArrival: sim.DefaultInterArrival,
		Service:      sim.DefaultService,
		Formats:      []string{"json", "csv", "txt"},
		Charts:       true,
		TraceLevel:   string(trace.TraceLevelNone),
	}
}

// resolveRunOptions layers explicit flags over env over file over defaults.
// flagOpts carries the flag values; only flags marked Changed in fs win.
func resolveRunOptions(flags *pflag.FlagSet, flagOpts RunOptions, file FileConfig, env map[string]string) (RunOptions, error) {
	o := defaultRunOptions()

	// File
	if file.NumCustomers != nil {
		o.NumCustomers = *file.NumCustomers
	}
	if file.Seed != nil {
		o.Seed, o.SeedSet = *file.Seed, true
	}
	if file.OutputDir != nil {
		o.OutputDir = *file.OutputDir
	}
	if file.Log != nil {
		o.LogLevel = *file.Log
	}
	if file.InterArrival != nil {
		o.InterArrival = *file.InterArrival
	}
	if file.Service != nil {
		o.Service = *file.Service
	}
	if file.Formats != nil {
		o.Formats = file.Formats
	}
	if file.Charts != nil {
		o.Charts = *file.Charts
	}
	if file.TraceLevel != nil {
		o.TraceLevel = *file.TraceLevel
	}
	if file.Database != nil {
		o.Database = *file.Database
	}

	// Environment
	if v, ok := env[envSeed]; ok {
		seed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return o, fmt.Errorf("%w: %s=%q is not an integer", sim.ErrInvalidConfiguration, envSeed, v)
		}
		o.Seed, o.SeedSet = seed, true
	}
	if v, ok := env[envOutputDir]; ok {
		o.OutputDir = v
	}
	if v, ok := env[envLog]; ok {
		o.LogLevel = v
	}

	// Flags
	if flags.Changed("num-customers") {
		o.NumCustomers = flagOpts.NumCustomers
	}
	if flags.Changed("seed") {
		o.Seed, o.SeedSet = flagOpts.Seed, true
	}
	if flags.Changed("output-dir") {
		o.OutputDir = flagOpts.OutputDir
	}
	if flags.Changed("log") {
		o.LogLevel = flagOpts.LogLevel
	}
	if flags.Changed("formats") {
		o.Formats = flagOpts.Formats
	}
	if flags.Changed("charts") {
		o.Charts = flagOpts.Charts
	}
	if flags.Changed("trace-level") {
		o.TraceLevel = flagOpts.TraceLevel
	}
	if flags.Changed("db") {
		o.Database = flagOpts.Database
	}

	if !trace.IsValidTraceLevel(o.TraceLevel) {
		return o, fmt.Errorf("%w: unknown trace level %q; valid: none, events", sim.ErrInvalidConfiguration, o.TraceLevel)
	}
	return o, nil
}

// simConfig builds the engine configuration for seed.
func (o RunOptions) simConfig(seed int64) sim.SimConfig {
	cfg := sim.NewSimConfig(o.NumCustomers, seed)
	cfg.InterArrival = o.InterArrival
	cfg.Service = o.Service
	cfg.TraceLevel = trace.TraceLevel(o.TraceLevel)
	return cfg
}
