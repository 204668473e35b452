package sim

import "errors"

var (
	// ErrInvalidConfiguration is returned before any simulation work when the
	// run parameters cannot produce a meaningful simulation.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrEmptyEventQueue is the panic value raised when the event loop extracts
	// from an empty queue. It indicates a broken termination condition.
	ErrEmptyEventQueue = errors.New("extract from empty event queue")
)
