// Defines the Customer struct that models one bank customer in the simulation.
// Tracks arrival, service start and departure times as they fill in.

package sim

import "fmt"

// CustomerState represents the lifecycle state of a customer.
type CustomerState string

const (
	StateUnscheduled CustomerState = "unscheduled"
	StateWaiting     CustomerState = "waiting"
	StateInService   CustomerState = "in_service"
	StateDeparted    CustomerState = "departed"
)

// Customer is a flat record owned by a single run.
// Fields fill in progressively and are frozen once DepartureTime is set.
type Customer struct {
	ID int // 1-based arrival sequence number

	ArrivalTime     float64 // minutes
	ServiceStart    float64 // set when the customer enters service
	DepartureTime   float64 // ServiceStart + ServiceDuration
	ServiceDuration float64 // drawn once, when the customer arrives

	State CustomerState
}

// WaitingTime is the time spent queued before service began.
func (c *Customer) WaitingTime() float64 {
	return c.ServiceStart - c.ArrivalTime
}

// SystemTime is the total time spent in the bank.
func (c *Customer) SystemTime() float64 {
	return c.DepartureTime - c.ArrivalTime
}

func (c *Customer) String() string {
	return fmt.Sprintf("Customer(%d, %s)", c.ID, c.State)
}

// Record is the read-only view of a departed customer handed to output and chart layers.
type Record struct {
	ID              int     `json:"id"`
	ArrivalTime     float64 `json:"arrival_time"`
	ServiceStart    float64 `json:"service_start"`
	DepartureTime   float64 `json:"departure_time"`
	WaitingTime     float64 `json:"waiting_time"`
	ServiceDuration float64 `json:"service_time"`
	SystemTime      float64 `json:"time_in_system"`
}

// toRecord snapshots a departed customer.
func (c *Customer) toRecord() Record {
	return Record{
		ID:              c.ID,
		ArrivalTime:     c.ArrivalTime,
		ServiceStart:    c.ServiceStart,
		DepartureTime:   c.DepartureTime,
		WaitingTime:     c.WaitingTime(),
		ServiceDuration: c.ServiceDuration,
		SystemTime:      c.SystemTime(),
	}
}
