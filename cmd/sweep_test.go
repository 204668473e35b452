package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/inference-sim/bankqueue/sim"
)

func sweepOptions(t *testing.T) RunOptions {
	o := defaultRunOptions()
	o.NumCustomers = 30
	o.OutputDir = t.TempDir()
	return o
}

func TestRunSweepSeeds_SeedOrderAndMatchesSingleRuns(t *testing.T) {
	// GIVEN a sweep of 6 seeds on 3 workers
	results, err := runSweepSeeds(context.Background(), sweepOptions(t), 10, 6, 3, testNow)
	require.NoError(t, err)
	require.Len(t, results, 6)

	// THEN results are in seed order and identical to standalone runs
	for i, r := range results {
		seed := int64(10 + i)
		assert.Equal(t, seed, r.Info.Seed)
		want, err := sim.Run(30, seed)
		require.NoError(t, err)
		assert.Equal(t, want.Records, r.Metrics.Records)
		assert.Equal(t, want.ServerUtilization, r.Metrics.ServerUtilization)
	}
}

func TestRunSweepSeeds_InvalidConfigFails(t *testing.T) {
	o := sweepOptions(t)
	o.NumCustomers = -1
	_, err := runSweepSeeds(context.Background(), o, 1, 4, 2, testNow)
	assert.ErrorIs(t, err, sim.ErrInvalidConfiguration)
}

func TestRunSweepSeeds_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runSweepSeeds(ctx, sweepOptions(t), 1, 4, 1, testNow)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSweep_WritesCSVAndStore(t *testing.T) {
	o := sweepOptions(t)
	o.Database = filepath.Join(t.TempDir(), "sweep.sqlite3")

	captureStdout(t, func() {
		require.NoError(t, runSweep(context.Background(), o, 1, 4, 0, testNow))
	})

	f, err := os.Open(filepath.Join(o.OutputDir, "simulation_20240601_093000", SweepFile))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, sweepHeader, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "4", rows[4][0])
}

func TestAggregateSweep(t *testing.T) {
	results := []sweepResult{
		{Metrics: &sim.Metrics{AverageWaitingTime: 1, AverageSystemTime: 4, ServerUtilization: 0.5, MaxQueueLength: 2}},
		{Metrics: &sim.Metrics{AverageWaitingTime: 3, AverageSystemTime: 6, ServerUtilization: 0.7, MaxQueueLength: 4}},
	}
	agg := aggregateSweep(results)

	assert.Equal(t, 2, agg.Runs)
	assert.InDelta(t, 2.0, agg.WaitMean, 1e-12)
	assert.InDelta(t, 1.4142135623730951, agg.WaitStd, 1e-12)
	assert.InDelta(t, 0.6, agg.UtilMean, 1e-12)
	assert.InDelta(t, 3.0, agg.MaxQueueMean, 1e-12)
	assert.Equal(t, 4.0, agg.MaxQueueTop)
}

func TestAggregateSweep_SingleRunHasNoSpread(t *testing.T) {
	agg := aggregateSweep([]sweepResult{{Metrics: &sim.Metrics{AverageWaitingTime: 2.5}}})
	assert.Equal(t, 2.5, agg.WaitMean)
	assert.Equal(t, 0.0, agg.WaitStd)
}

func TestWriteSweepCSV_Header(t *testing.T) {
	var buf bytes.Buffer
	m, err := sim.Run(3, 1)
	require.NoError(t, err)
	require.NoError(t, writeSweepCSV(&buf, []sweepResult{{Metrics: m}}))
	assert.Contains(t, buf.String(), "seed,run_id")
}
