package report

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/bankqueue/sim"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "runs.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SaveRunPersistsRunAndCustomers(t *testing.T) {
	s := openTestStore(t)
	info := testInfo()

	require.NoError(t, s.SaveRun(info, threeCustomerMetrics()))

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, info.RunID, runs[0].RunID)
	assert.Equal(t, int64(42), runs[0].Seed)
	assert.Equal(t, 3, runs[0].CustomersServed)
	assert.True(t, runs[0].ServerUtilization.Valid)
	assert.InDelta(t, 11.0/12, runs[0].ServerUtilization.Float64, 1e-12)

	n, err := s.CustomerCount(info.RunID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestStore_SaveRunSplitsCustomersIntoBatches(t *testing.T) {
	// GIVEN a batch size smaller than the number of customers
	s := openTestStore(t)
	s.batchSize = 7
	m, err := sim.Run(30, 3)
	require.NoError(t, err)
	info := NewRunInfo(sim.NewSimConfig(30, 3), fixedStart)

	// WHEN saved
	require.NoError(t, s.SaveRun(info, m))

	// THEN every customer lands
	n, err := s.CustomerCount(info.RunID)
	require.NoError(t, err)
	assert.Equal(t, 30, n)
}

func TestStore_NaNStoredAsNull(t *testing.T) {
	s := openTestStore(t)
	m := &sim.Metrics{
		AverageWaitingTime: math.NaN(),
		AverageSystemTime:  math.NaN(),
		ServerUtilization:  math.NaN(),
	}
	require.NoError(t, s.SaveRun(testInfo(), m))

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.False(t, runs[0].ServerUtilization.Valid)
	assert.False(t, runs[0].AverageWaitTime.Valid)
}

func TestStore_DuplicateRunIDFails(t *testing.T) {
	s := openTestStore(t)
	info := testInfo()
	require.NoError(t, s.SaveRun(info, threeCustomerMetrics()))
	assert.Error(t, s.SaveRun(info, threeCustomerMetrics()))
}
