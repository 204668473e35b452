package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalEvents    int     `json:"total_events"`
	Arrivals       int     `json:"arrivals"`
	Departures     int     `json:"departures"`
	QueuedArrivals int     `json:"queued_arrivals"` // arrivals that found the server busy
	IdlePeriods    int     `json:"idle_periods"`    // departures that left the server idle
	MaxQueueLength int     `json:"max_queue_length"`
	FirstEventTime float64 `json:"first_event_time"`
	LastEventTime  float64 `json:"last_event_time"`
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil || len(st.Events) == 0 {
		return summary
	}

	prevQueue := 0
	for _, ev := range st.Events {
		switch ev.Kind {
		case KindArrival:
			summary.Arrivals++
			if ev.QueueLength > prevQueue {
				summary.QueuedArrivals++
			}
		case KindDeparture:
			summary.Departures++
			if !ev.ServerBusy {
				summary.IdlePeriods++
			}
		}
		if ev.QueueLength > summary.MaxQueueLength {
			summary.MaxQueueLength = ev.QueueLength
		}
		prevQueue = ev.QueueLength
	}

	summary.TotalEvents = len(st.Events)
	summary.FirstEventTime = st.Events[0].Time
	summary.LastEventTime = st.Events[len(st.Events)-1].Time
	return summary
}
