package trace

// TraceLevel controls the verbosity of event tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEvents captures every processed arrival and departure.
	TraceLevelEvents TraceLevel = "events"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelEvents: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// Enabled reports whether level records anything.
func (l TraceLevel) Enabled() bool {
	return l == TraceLevelEvents
}

// SimulationTrace collects event records during a run, in processing order.
type SimulationTrace struct {
	Level  TraceLevel    `json:"level"`
	Events []EventRecord `json:"events"`
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(level TraceLevel) *SimulationTrace {
	return &SimulationTrace{
		Level:  level,
		Events: make([]EventRecord, 0),
	}
}

// RecordEvent appends an event record, stamping its sequence number.
// A nil trace or a disabled level records nothing.
func (st *SimulationTrace) RecordEvent(record EventRecord) {
	if st == nil || !st.Level.Enabled() {
		return
	}
	record.Seq = len(st.Events) + 1
	st.Events = append(st.Events, record)
}
