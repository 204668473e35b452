// Package trace provides event-trace recording for post-hoc analysis of a run.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// Event kinds as recorded in the trace.
const (
	KindArrival   = "arrival"
	KindDeparture = "departure"
)

// EventRecord captures the state right after one event was processed.
type EventRecord struct {
	Seq         int     `json:"seq"`
	Time        float64 `json:"time"`
	Kind        string  `json:"kind"`
	CustomerID  int     `json:"customer_id"`
	QueueLength int     `json:"queue_length"` // customers waiting, excluding the one in service
	ServerBusy  bool    `json:"server_busy"`
}
