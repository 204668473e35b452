package sim

// EventType tags an Event. The simulator switches on it rather than
// dispatching through methods on the event.
type EventType int

const (
	// EventArrival brings its Customer into the bank.
	EventArrival EventType = iota
	// EventDeparture completes service for its Customer.
	EventDeparture
)

// EventTypePriority orders events that share a timestamp (lower first).
// Arrivals run before departures, so a customer arriving at the exact moment
// the server frees up still sees it busy and joins the queue.
var EventTypePriority = map[EventType]int{
	EventArrival:   0,
	EventDeparture: 1,
}

func (t EventType) String() string {
	switch t {
	case EventArrival:
		return "Arrival"
	case EventDeparture:
		return "Departure"
	default:
		return "Unknown"
	}
}

// Event is a scheduled state change.
type Event struct {
	Time     float64   // scheduled simulation time (minutes)
	Type     EventType // Arrival or Departure
	Customer *Customer // the arriving or departing customer

	seq uint64 // insertion order within its EventQueue, last-resort tie-break
}

// NewArrivalEvent schedules c to arrive at t.
func NewArrivalEvent(t float64, c *Customer) Event {
	return Event{Time: t, Type: EventArrival, Customer: c}
}

// NewDepartureEvent schedules c to leave at t.
func NewDepartureEvent(t float64, c *Customer) Event {
	return Event{Time: t, Type: EventDeparture, Customer: c}
}
