// Package sim provides the discrete-event simulation engine for a single-teller,
// first-in-first-out bank queue.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - customer.go: Customer lifecycle (unscheduled → waiting → in service → departed)
//   - event.go, event_queue.go: Arrival/Departure events and their deterministic ordering
//   - simulator.go: The event loop and the arrival/departure transitions
//   - metrics.go: StatisticsCollector and the final Metrics artifact
//
// # Determinism
//
// Every run owns its VariateSource, EventQueue and SimulationState. A run is a pure
// function of (SimConfig, seed): identical inputs produce bit-identical Metrics.
// Events at the same instant are ordered Arrival before Departure, then by insertion.
//
// # Sub-packages
//   - sim/trace/: optional per-event trace records and their summary
//   - sim/report/: metrics.json, customer_data.csv, summary.txt, trace.json and the SQLite store
//   - sim/viz/: PNG charts rendered with gonum/plot
//   - sim/internal/testutil/: shared test helpers
package sim
