// Tracks run-wide and per-customer performance metrics such as
// waiting time, system time, server utilization and peak queue length.

package sim

import "math"

// Metrics is the final, read-only artifact of a run.
type Metrics struct {
	CustomersServed    int     `json:"customers_served"`
	AverageWaitingTime float64 `json:"average_waiting_time"`
	AverageSystemTime  float64 `json:"average_system_time"`
	ServerUtilization  float64 `json:"server_utilization"` // busy time / elapsed time, in [0, 1]
	MaxQueueLength     int     `json:"max_queue_length"`

	TotalWaitingTime float64 `json:"total_waiting_time"`
	TotalSystemTime  float64 `json:"total_system_time"`
	BusyTime         float64 `json:"busy_time"`
	TotalElapsedTime float64 `json:"total_elapsed_time"` // busy + idle time, first arrival → last departure
	SimEndedTime     float64 `json:"sim_ended_time"`     // clock at the last processed event
	Seed             int64   `json:"seed"`

	Records []Record `json:"-"` // ordered by customer ID
}

// StatisticsCollector accumulates running sums as customers depart.
// Every method is O(1).
type StatisticsCollector struct {
	served         int
	totalWaiting   float64
	totalSystem    float64
	busyTime       float64
	maxQueueLength int
}

// NewStatisticsCollector returns an empty collector.
func NewStatisticsCollector() *StatisticsCollector {
	return &StatisticsCollector{}
}

// RecordDeparture folds one completed customer into the running sums.
func (sc *StatisticsCollector) RecordDeparture(waitingTime, systemTime, serviceDuration float64) {
	sc.served++
	sc.totalWaiting += waitingTime
	sc.totalSystem += systemTime
	sc.busyTime += serviceDuration
}

// RecordQueueLength raises the running maximum if currentLength exceeds it.
func (sc *StatisticsCollector) RecordQueueLength(currentLength int) {
	if currentLength > sc.maxQueueLength {
		sc.maxQueueLength = currentLength
	}
}

// BusyTime returns the summed service durations recorded so far.
func (sc *StatisticsCollector) BusyTime() float64 {
	return sc.busyTime
}

// Served returns the number of departures recorded so far.
func (sc *StatisticsCollector) Served() int {
	return sc.served
}

// Finalize derives averages and utilization.
// Zero customers yields NaN averages; zero elapsed time yields NaN utilization.
func (sc *StatisticsCollector) Finalize(totalElapsedTime float64, customersServed int) *Metrics {
	m := &Metrics{
		CustomersServed:    customersServed,
		AverageWaitingTime: math.NaN(),
		AverageSystemTime:  math.NaN(),
		ServerUtilization:  math.NaN(),
		MaxQueueLength:     sc.maxQueueLength,
		TotalWaitingTime:   sc.totalWaiting,
		TotalSystemTime:    sc.totalSystem,
		BusyTime:           sc.busyTime,
		TotalElapsedTime:   totalElapsedTime,
	}
	if customersServed > 0 {
		m.AverageWaitingTime = sc.totalWaiting / float64(customersServed)
		m.AverageSystemTime = sc.totalSystem / float64(customersServed)
	}
	if totalElapsedTime > 0 {
		m.ServerUtilization = sc.busyTime / totalElapsedTime
	}
	return m
}
