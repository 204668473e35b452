package sim

import "container/heap"

// EventQueue is a min-heap of pending events with deterministic ordering:
// time → type priority → insertion sequence.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue struct {
	events  eventHeap
	nextSeq uint64
}

// NewEventQueue creates an empty EventQueue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{events: make(eventHeap, 0)}
	heap.Init(&q.events)
	return q
}

// Insert adds an event in O(log n).
func (q *EventQueue) Insert(ev Event) {
	q.nextSeq++
	ev.seq = q.nextSeq
	heap.Push(&q.events, ev)
}

// ExtractNext removes and returns the earliest event in O(log n).
// Panics on an empty queue: the simulator stops before that can happen,
// so reaching it means the termination logic is broken.
func (q *EventQueue) ExtractNext() Event {
	if q.Len() == 0 {
		panic(ErrEmptyEventQueue)
	}
	return heap.Pop(&q.events).(Event)
}

// Peek returns the earliest event without removing it.
func (q *EventQueue) Peek() (Event, bool) {
	if q.Len() == 0 {
		return Event{}, false
	}
	return q.events[0], true
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	return len(q.events)
}

type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	ei, ej := h[i], h[j]
	if ei.Time != ej.Time {
		return ei.Time < ej.Time
	}
	if pi, pj := EventTypePriority[ei.Type], EventTypePriority[ej.Type]; pi != pj {
		return pi < pj
	}
	return ei.seq < ej.seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = Event{}
	*h = old[0 : n-1]
	return item
}
