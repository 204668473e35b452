package sim

// ServerStatus is the teller's state.
type ServerStatus int

const (
	ServerIdle ServerStatus = iota
	ServerBusy
)

func (s ServerStatus) String() string {
	if s == ServerBusy {
		return "busy"
	}
	return "idle"
}

// SimulationState is the mutable snapshot of one run.
//
// Invariants:
//   - Clock never decreases across processed events.
//   - Server is Busy iff InService != nil iff a Departure is pending.
//   - A customer is in at most one of {WaitQ, InService}.
type SimulationState struct {
	Clock     float64
	Server    ServerStatus
	InService *Customer
	WaitQ     *WaitQueue

	// IdleTime sums the gaps between a departure that emptied the bank and the
	// next arrival. The idle stretch before the first arrival is not counted.
	IdleTime  float64
	idleSince float64
	started   bool
}

// NewSimulationState returns the initial state: clock 0, idle server, empty line.
func NewSimulationState() *SimulationState {
	return &SimulationState{
		Clock:  0,
		Server: ServerIdle,
		WaitQ:  &WaitQueue{},
	}
}

// startService puts c in front of the teller at time now.
func (s *SimulationState) startService(c *Customer, now float64) {
	if s.Server == ServerBusy {
		panic("startService: server already busy")
	}
	if s.started {
		s.IdleTime += now - s.idleSince
	}
	s.started = true
	c.ServiceStart = now
	c.State = StateInService
	s.InService = c
	s.Server = ServerBusy
}

// finishService releases the customer in service at time now and returns it.
func (s *SimulationState) finishService(now float64) *Customer {
	c := s.InService
	if c == nil {
		panic("finishService: no customer in service")
	}
	c.DepartureTime = now
	c.State = StateDeparted
	s.InService = nil
	s.Server = ServerIdle
	s.idleSince = now
	return c
}
