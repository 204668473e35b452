// Package report persists the results of a run: metrics, per-customer records,
// a plain-text summary, the optional event trace and a SQLite result store.
// It reads sim.Metrics and never touches simulation state.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/bankqueue/sim"
	"github.com/inference-sim/bankqueue/sim/trace"
)

// Format names one output file kind.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatText Format = "txt"
)

// File names inside a run directory.
const (
	MetricsFile = "metrics.json"
	RecordsFile = "customer_data.csv"
	SummaryFile = "summary.txt"
	TraceFile   = "trace.json"
)

var validFormats = map[Format]bool{
	FormatJSON: true,
	FormatCSV:  true,
	FormatText: true,
}

// ParseFormats validates format names, dropping duplicates and keeping order.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool, len(names))
	out := make([]Format, 0, len(names))
	for _, n := range names {
		f := Format(strings.ToLower(strings.TrimSpace(n)))
		if !validFormats[f] {
			return nil, fmt.Errorf("unknown output format %q; valid: json, csv, txt", n)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// RunInfo identifies a run in every artifact it produces.
type RunInfo struct {
	RunID         string
	CustomerCount int
	Seed          int64
	InterArrival  sim.UniformRange
	Service       sim.UniformRange
	StartedAt     time.Time
}

// NewRunInfo stamps cfg with a fresh run ID and the given start time.
func NewRunInfo(cfg sim.SimConfig, startedAt time.Time) RunInfo {
	return RunInfo{
		RunID:         xid.New().String(),
		CustomerCount: cfg.CustomerCount,
		Seed:          cfg.Seed,
		InterArrival:  cfg.InterArrival,
		Service:       cfg.Service,
		StartedAt:     startedAt,
	}
}

// NewRunDir creates <base>/simulation_YYYYmmdd_HHMMSS and returns its path.
// A numeric suffix is added when two runs start within the same second.
func NewRunDir(base string, now time.Time) (string, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	name := "simulation_" + now.Format("20060102_150405")
	dir := filepath.Join(base, name)
	for i := 1; ; i++ {
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return dir, nil
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("creating run directory: %w", err)
		}
		dir = filepath.Join(base, fmt.Sprintf("%s_%d", name, i))
	}
}

// Artifacts lists the optional inputs to WriteAll beyond the metrics.
type Artifacts struct {
	Trace  *trace.SimulationTrace
	Charts []Chart // already rendered, listed in summary.txt
}

// Chart names a rendered chart file.
type Chart struct {
	Name string
	Path string
}

// WriteAll writes every requested format into dir and, if a trace is present, trace.json.
// It returns the paths written.
func WriteAll(dir string, formats []Format, info RunInfo, m *sim.Metrics, a Artifacts) ([]string, error) {
	var written []string
	for _, f := range formats {
		var (
			path string
			err  error
		)
		switch f {
		case FormatJSON:
			path = filepath.Join(dir, MetricsFile)
			err = writeFile(path, func(w *os.File) error { return WriteMetricsJSON(w, info, m) })
		case FormatCSV:
			path = filepath.Join(dir, RecordsFile)
			err = writeFile(path, func(w *os.File) error { return WriteRecordsCSV(w, m.Records) })
		case FormatText:
			path = filepath.Join(dir, SummaryFile)
			err = writeFile(path, func(w *os.File) error { return WriteSummary(w, info, m, a.Charts) })
		}
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if a.Trace != nil {
		path := filepath.Join(dir, TraceFile)
		if err := writeFile(path, func(w *os.File) error { return WriteTraceJSON(w, a.Trace) }); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	logrus.Debugf("Wrote %d result files to %s", len(written), dir)
	return written, nil
}

func writeFile(path string, fill func(*os.File) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", filepath.Base(path), closeErr)
		}
	}()
	if err := fill(f); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
