// sim/simulator.go
package sim

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/bankqueue/sim/trace"
)

// Simulator is the core object that holds simulation time, system state, and the event loop.
// One Simulator serves one run; build a fresh one per seed.
type Simulator struct {
	Config SimConfig
	// EventQueue has all pending arrivals and departures
	EventQueue *EventQueue
	State      *SimulationState
	Stats      *StatisticsCollector
	// Trace is nil unless Config.TraceLevel enables it
	Trace *trace.SimulationTrace

	source    VariateSource
	scheduled int         // arrivals scheduled so far
	customers []*Customer // every customer, indexed by ID-1
	ran       bool
}

// NewSimulator validates cfg and wires a simulator around src.
// A nil src means a UniformVariateSource seeded from cfg.
func NewSimulator(cfg SimConfig, src VariateSource) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = NewUniformVariateSource(cfg.Seed, cfg.InterArrival, cfg.Service)
	}
	s := &Simulator{
		Config:     cfg,
		EventQueue: NewEventQueue(),
		State:      NewSimulationState(),
		Stats:      NewStatisticsCollector(),
		source:     src,
		customers:  make([]*Customer, 0, cfg.CustomerCount),
	}
	if cfg.TraceLevel.Enabled() {
		s.Trace = trace.NewSimulationTrace(cfg.TraceLevel)
	}
	return s, nil
}

// Run simulates customerCount customers with the default intervals.
func Run(customerCount int, seed int64) (*Metrics, error) {
	s, err := NewSimulator(NewSimConfig(customerCount, seed), nil)
	if err != nil {
		return nil, err
	}
	return s.Run(), nil
}

// Run drives the event loop until every customer has departed and returns the metrics.
// Calling Run twice on the same Simulator panics.
func (sim *Simulator) Run() *Metrics {
	if sim.ran {
		panic("Run: simulator already ran; build a new one per run")
	}
	sim.ran = true

	logrus.Infof("Starting simulation: customers=%d seed=%d", sim.Config.CustomerCount, sim.Config.Seed)
	sim.scheduleArrival(0)

	for sim.EventQueue.Len() > 0 {
		ev := sim.EventQueue.ExtractNext()
		if ev.Time < sim.State.Clock {
			panic("Run: event scheduled in the past")
		}
		sim.State.Clock = ev.Time
		logrus.Debugf("[t=%010.4f] Executing %s customer=%d queue=%d", ev.Time, ev.Type, ev.Customer.ID, sim.State.WaitQ.Len())

		switch ev.Type {
		case EventArrival:
			sim.handleArrival(ev)
		case EventDeparture:
			sim.handleDeparture(ev)
		default:
			panic("Run: unknown event type")
		}
		sim.traceEvent(ev)
	}

	m := sim.Stats.Finalize(sim.elapsed(), sim.Stats.Served())
	m.SimEndedTime = sim.State.Clock
	m.Seed = sim.Config.Seed
	m.Records = sim.records()
	if math.IsNaN(m.ServerUtilization) {
		logrus.Warnf("Server utilization undefined: zero elapsed time")
	}
	logrus.Infof("[t=%010.4f] Simulation ended, served=%d", sim.State.Clock, m.CustomersServed)
	return m
}

// scheduleArrival creates the next customer and schedules its arrival
// one inter-arrival draw after now, unless the target count is reached.
func (sim *Simulator) scheduleArrival(now float64) {
	if sim.scheduled >= sim.Config.CustomerCount {
		return
	}
	sim.scheduled++
	c := &Customer{
		ID:    sim.scheduled,
		State: StateUnscheduled,
	}
	arrival := now + sim.source.NextInterArrivalTime()
	sim.customers = append(sim.customers, c)
	sim.EventQueue.Insert(NewArrivalEvent(arrival, c))
}

func (sim *Simulator) handleArrival(ev Event) {
	c := ev.Customer
	c.ArrivalTime = ev.Time
	c.ServiceDuration = sim.source.NextServiceTime()

	if sim.State.Server == ServerIdle {
		sim.beginService(c, ev.Time)
	} else {
		sim.State.WaitQ.Enqueue(c)
		sim.Stats.RecordQueueLength(sim.State.WaitQ.Len())
	}

	sim.scheduleArrival(ev.Time)
}

func (sim *Simulator) handleDeparture(ev Event) {
	if sim.State.InService != ev.Customer {
		panic("handleDeparture: departing customer is not in service")
	}
	c := sim.State.finishService(ev.Time)
	sim.Stats.RecordDeparture(c.WaitingTime(), c.SystemTime(), c.ServiceDuration)

	if next := sim.State.WaitQ.Dequeue(); next != nil {
		sim.beginService(next, ev.Time)
	}
}

// beginService moves c into service at now and schedules its departure.
func (sim *Simulator) beginService(c *Customer, now float64) {
	sim.State.startService(c, now)
	sim.EventQueue.Insert(NewDepartureEvent(now+c.ServiceDuration, c))
}

func (sim *Simulator) traceEvent(ev Event) {
	if sim.Trace == nil {
		return
	}
	kind := trace.KindArrival
	if ev.Type == EventDeparture {
		kind = trace.KindDeparture
	}
	sim.Trace.RecordEvent(trace.EventRecord{
		Time:        ev.Time,
		Kind:        kind,
		CustomerID:  ev.Customer.ID,
		QueueLength: sim.State.WaitQ.Len(),
		ServerBusy:  sim.State.Server == ServerBusy,
	})
}

// elapsed is the span from the first arrival to the last departure, taken as
// busy plus idle time so a run that never idles reports utilization of exactly 1.
func (sim *Simulator) elapsed() float64 {
	return sim.Stats.BusyTime() + sim.State.IdleTime
}

func (sim *Simulator) records() []Record {
	out := make([]Record, 0, len(sim.customers))
	for _, c := range sim.customers {
		if c.State != StateDeparted {
			panic("records: customer still in the system after the loop ended")
		}
		out = append(out, c.toRecord())
	}
	return out
}
