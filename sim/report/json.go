package report

import (
	"encoding/json"
	"io"
	"math"
	"time"

	"github.com/inference-sim/bankqueue/sim"
	"github.com/inference-sim/bankqueue/sim/trace"
)

// jsonFloat encodes NaN and ±Inf as null, which encoding/json refuses to emit.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

type distributionDoc struct {
	Mean   jsonFloat `json:"mean"`
	StdDev jsonFloat `json:"std_dev"`
	Min    jsonFloat `json:"min"`
	Max    jsonFloat `json:"max"`
	P50    jsonFloat `json:"p50"`
	P90    jsonFloat `json:"p90"`
	P99    jsonFloat `json:"p99"`
}

func newDistributionDoc(d sim.Distribution) distributionDoc {
	return distributionDoc{
		Mean: jsonFloat(d.Mean), StdDev: jsonFloat(d.StdDev),
		Min: jsonFloat(d.Min), Max: jsonFloat(d.Max),
		P50: jsonFloat(d.P50), P90: jsonFloat(d.P90), P99: jsonFloat(d.P99),
	}
}

// metricsDoc is the on-disk layout of metrics.json.
type metricsDoc struct {
	RunID         string           `json:"run_id"`
	StartedAt     string           `json:"started_at"`
	CustomerCount int              `json:"num_customers"`
	Seed          int64            `json:"seed"`
	InterArrival  sim.UniformRange `json:"interarrival_range"`
	Service       sim.UniformRange `json:"service_range"`

	CustomersServed    int       `json:"customers_served"`
	AverageWaitingTime jsonFloat `json:"average_waiting_time"`
	AverageSystemTime  jsonFloat `json:"average_system_time"`
	ServerUtilization  jsonFloat `json:"server_utilization"`
	MaxQueueLength     int       `json:"max_queue_length"`
	TotalWaitingTime   jsonFloat `json:"total_waiting_time"`
	TotalSystemTime    jsonFloat `json:"total_system_time"`
	BusyTime           jsonFloat `json:"busy_time"`
	TotalElapsedTime   jsonFloat `json:"total_elapsed_time"`
	SimEndedTime       jsonFloat `json:"sim_ended_time"`

	WaitingTime     distributionDoc `json:"waiting_time"`
	SystemTime      distributionDoc `json:"system_time"`
	ServiceDuration distributionDoc `json:"service_time"`
	InterArrivalGap distributionDoc `json:"inter_arrival_time"`
	DelayedFraction jsonFloat       `json:"delayed_fraction"`
}

// WriteMetricsJSON writes the metrics and their distributions as indented JSON.
func WriteMetricsJSON(w io.Writer, info RunInfo, m *sim.Metrics) error {
	s := m.Summarize()
	doc := metricsDoc{
		RunID:         info.RunID,
		StartedAt:     info.StartedAt.Format(time.RFC3339),
		CustomerCount: info.CustomerCount,
		Seed:          info.Seed,
		InterArrival:  info.InterArrival,
		Service:       info.Service,

		CustomersServed:    m.CustomersServed,
		AverageWaitingTime: jsonFloat(m.AverageWaitingTime),
		AverageSystemTime:  jsonFloat(m.AverageSystemTime),
		ServerUtilization:  jsonFloat(m.ServerUtilization),
		MaxQueueLength:     m.MaxQueueLength,
		TotalWaitingTime:   jsonFloat(m.TotalWaitingTime),
		TotalSystemTime:    jsonFloat(m.TotalSystemTime),
		BusyTime:           jsonFloat(m.BusyTime),
		TotalElapsedTime:   jsonFloat(m.TotalElapsedTime),
		SimEndedTime:       jsonFloat(m.SimEndedTime),

		WaitingTime:     newDistributionDoc(s.WaitingTime),
		SystemTime:      newDistributionDoc(s.SystemTime),
		ServiceDuration: newDistributionDoc(s.ServiceDuration),
		InterArrivalGap: newDistributionDoc(s.InterArrival),
		DelayedFraction: jsonFloat(s.DelayedFraction),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteTraceJSON writes the event trace and its summary.
func WriteTraceJSON(w io.Writer, st *trace.SimulationTrace) error {
	doc := struct {
		Summary *trace.TraceSummary     `json:"summary"`
		Trace   *trace.SimulationTrace `json:"trace"`
	}{trace.Summarize(st), st}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
