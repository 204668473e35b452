package sim

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/inference-sim/bankqueue/sim/internal/testutil"
	"github.com/inference-sim/bankqueue/sim/trace"
)

// stubbedSimulator wires a simulator to a mock source that replays the given draws in order.
// The mock fails the test if the run draws more or fewer values than provided.
func stubbedSimulator(t *testing.T, cfg SimConfig, interArrivals, services []float64) *Simulator {
	t.Helper()
	ctrl := gomock.NewController(t)
	src := NewMockVariateSource(ctrl)

	ia := append([]float64(nil), interArrivals...)
	src.EXPECT().NextInterArrivalTime().DoAndReturn(func() float64 {
		v := ia[0]
		ia = ia[1:]
		return v
	}).Times(len(interArrivals))

	sv := append([]float64(nil), services...)
	src.EXPECT().NextServiceTime().DoAndReturn(func() float64 {
		v := sv[0]
		sv = sv[1:]
		return v
	}).Times(len(services))

	s, err := NewSimulator(cfg, src)
	require.NoError(t, err)
	return s
}

func TestSimulator_ThreeCustomerWalkthrough(t *testing.T) {
	// GIVEN inter-arrival draws [2, 1, 10] and service draws [5, 5, 1]
	s := stubbedSimulator(t, NewSimConfig(3, 0), []float64{2, 1, 10}, []float64{5, 5, 1})

	// WHEN the run completes
	m := s.Run()

	// THEN customer 1 is served 2–7, customer 2 waits 3–7 and is served 7–12,
	// and customer 3 finds the server idle at 13 and is served 13–14
	want := []Record{
		{ID: 1, ArrivalTime: 2, ServiceStart: 2, DepartureTime: 7, WaitingTime: 0, ServiceDuration: 5, SystemTime: 5},
		{ID: 2, ArrivalTime: 3, ServiceStart: 7, DepartureTime: 12, WaitingTime: 4, ServiceDuration: 5, SystemTime: 9},
		{ID: 3, ArrivalTime: 13, ServiceStart: 13, DepartureTime: 14, WaitingTime: 0, ServiceDuration: 1, SystemTime: 1},
	}
	assert.Equal(t, want, m.Records)
	assert.Equal(t, 3, m.CustomersServed)
	assert.Equal(t, 1, m.MaxQueueLength)
	assert.InDelta(t, 4.0/3, m.AverageWaitingTime, 1e-12)
	assert.InDelta(t, 5.0, m.AverageSystemTime, 1e-12)
	// busy 11 minutes over the 2 → 14 span
	assert.InDelta(t, 11.0/12, m.ServerUtilization, 1e-12)
	assert.Equal(t, 12.0, m.TotalElapsedTime)
	assert.Equal(t, 14.0, m.SimEndedTime)
	assert.Equal(t, ServerIdle, s.State.Server)
	assert.Equal(t, 0, s.EventQueue.Len())
}

func TestSimulator_ArrivalAtDepartureInstant_JoinsQueue(t *testing.T) {
	// GIVEN customer 2 arrives (t=5) exactly when customer 1 departs (1 + 4)
	s := stubbedSimulator(t, NewSimConfig(2, 0), []float64{1, 4}, []float64{4, 2})

	// WHEN the run completes
	m := s.Run()

	// THEN the arrival is processed first, sees a busy server and queues with zero wait
	assert.Equal(t, 1, m.MaxQueueLength)
	assert.Equal(t, 0.0, m.Records[1].WaitingTime)
	assert.Equal(t, 5.0, m.Records[1].ServiceStart)
	assert.Equal(t, 7.0, m.Records[1].DepartureTime)
	assert.Equal(t, 1.0, m.ServerUtilization)
}

func TestRun_SingleCustomer_AnySeed(t *testing.T) {
	for _, seed := range testutil.FixedSeeds {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			m, err := Run(1, seed)
			require.NoError(t, err)

			require.Len(t, m.Records, 1)
			assert.Equal(t, 0.0, m.Records[0].WaitingTime)
			assert.Equal(t, 1.0, m.ServerUtilization)
			assert.Equal(t, 0, m.MaxQueueLength)
			assert.Equal(t, 1, m.CustomersServed)
		})
	}
}

func TestRun_InvalidCustomerCount_ReturnsInvalidConfiguration(t *testing.T) {
	for _, n := range []int{0, -1, -500} {
		m, err := Run(n, 42)
		assert.Nil(t, m)
		assert.True(t, errors.Is(err, ErrInvalidConfiguration), "count %d: got %v", n, err)
	}
}

func TestRun_RecordInvariants(t *testing.T) {
	for _, seed := range testutil.FixedSeeds {
		for _, n := range []int{2, 17, 500} {
			t.Run(fmt.Sprintf("seed=%d/n=%d", seed, n), func(t *testing.T) {
				m, err := Run(n, seed)
				require.NoError(t, err)

				// exactly n records, increasing IDs and arrival times
				require.Len(t, m.Records, n)
				assert.Equal(t, n, m.CustomersServed)
				assert.Equal(t, 0.0, m.Records[0].WaitingTime, "first customer meets an idle server")
				for i, r := range m.Records {
					assert.Equal(t, i+1, r.ID)
					if i > 0 {
						assert.Greater(t, r.ArrivalTime, m.Records[i-1].ArrivalTime)
						// FIFO single server: service starts no earlier than the previous departure
						assert.GreaterOrEqual(t, r.ServiceStart, m.Records[i-1].DepartureTime)
					}
					assert.GreaterOrEqual(t, r.ServiceStart, r.ArrivalTime)
					assert.Equal(t, r.ServiceStart+r.ServiceDuration, r.DepartureTime)
					assert.Equal(t, r.ServiceStart-r.ArrivalTime, r.WaitingTime)
					assert.GreaterOrEqual(t, r.WaitingTime, 0.0)
					assert.Equal(t, r.DepartureTime-r.ArrivalTime, r.SystemTime)
				}

				assert.GreaterOrEqual(t, m.ServerUtilization, 0.0)
				assert.LessOrEqual(t, m.ServerUtilization, 1.0)
			})
		}
	}
}

func TestRun_MaxQueueLength_MatchesIndependentReplay(t *testing.T) {
	for _, seed := range testutil.FixedSeeds {
		m, err := Run(1000, seed)
		require.NoError(t, err)
		replayed := MaxQueueLength(QueueLengthTimeline(m.Records))
		assert.Equal(t, replayed, m.MaxQueueLength, "seed %d", seed)
	}
}

func TestRun_AveragesMatchRecords(t *testing.T) {
	m, err := Run(250, 11)
	require.NoError(t, err)

	var wait, system, busy float64
	for _, r := range m.Records {
		wait += r.WaitingTime
		system += r.SystemTime
		busy += r.ServiceDuration
	}
	testutil.AssertFloat64Equal(t, "average waiting", wait/250, m.AverageWaitingTime, 1e-9)
	testutil.AssertFloat64Equal(t, "average system", system/250, m.AverageSystemTime, 1e-9)
	span := m.Records[249].DepartureTime - m.Records[0].ArrivalTime
	testutil.AssertFloat64Equal(t, "utilization", busy/span, m.ServerUtilization, 1e-9)
}

func TestRun_Determinism_SameSeedIdenticalResults(t *testing.T) {
	// GIVEN two runs with identical (customerCount, seed)
	m1, err := Run(500, 42)
	require.NoError(t, err)
	m2, err := Run(500, 42)
	require.NoError(t, err)

	// THEN metrics and records are bit-identical
	assert.Equal(t, m1, m2)
}

func TestRun_DifferentSeeds_DifferentTraces(t *testing.T) {
	m1, err := Run(50, 1)
	require.NoError(t, err)
	m2, err := Run(50, 2)
	require.NoError(t, err)
	assert.NotEqual(t, m1.Records, m2.Records)
}

func TestSimulator_RunTwice_Panics(t *testing.T) {
	s, err := NewSimulator(NewSimConfig(3, 1), nil)
	require.NoError(t, err)
	s.Run()
	assert.Panics(t, func() { s.Run() })
}

func TestSimulator_EventTrace_RecordsEveryEvent(t *testing.T) {
	// GIVEN the three-customer walkthrough with event tracing on
	cfg := NewSimConfig(3, 0)
	cfg.TraceLevel = trace.TraceLevelEvents
	s := stubbedSimulator(t, cfg, []float64{2, 1, 10}, []float64{5, 5, 1})

	// WHEN the run completes
	s.Run()

	// THEN six events are traced in processing order
	require.NotNil(t, s.Trace)
	kinds := make([]string, 0, len(s.Trace.Events))
	times := make([]float64, 0, len(s.Trace.Events))
	for _, ev := range s.Trace.Events {
		kinds = append(kinds, ev.Kind)
		times = append(times, ev.Time)
	}
	assert.Equal(t, []string{"arrival", "arrival", "departure", "departure", "arrival", "departure"}, kinds)
	assert.Equal(t, []float64{2, 3, 7, 12, 13, 14}, times)

	summary := trace.Summarize(s.Trace)
	assert.Equal(t, 1, summary.MaxQueueLength)
	assert.Equal(t, 1, summary.QueuedArrivals)
	assert.Equal(t, 2, summary.IdlePeriods)
}

func TestSimulator_TraceOff_NoTrace(t *testing.T) {
	s, err := NewSimulator(NewSimConfig(5, 1), nil)
	require.NoError(t, err)
	s.Run()
	assert.Nil(t, s.Trace)
}

func TestRun_ParallelIndependentRuns(t *testing.T) {
	// Independent simulators share no state, so concurrent runs match sequential ones.
	want := make([]*Metrics, len(testutil.FixedSeeds))
	for i, seed := range testutil.FixedSeeds {
		m, err := Run(200, seed)
		require.NoError(t, err)
		want[i] = m
	}

	got := make([]*Metrics, len(testutil.FixedSeeds))
	done := make(chan struct{})
	for i, seed := range testutil.FixedSeeds {
		go func(i int, seed int64) {
			defer func() { done <- struct{}{} }()
			got[i], _ = Run(200, seed)
		}(i, seed)
	}
	for range testutil.FixedSeeds {
		<-done
	}
	assert.Equal(t, want, got)
}
