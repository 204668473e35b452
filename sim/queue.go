// Implements the WaitQueue, which holds customers waiting for the teller.
// Customers are enqueued on arrival when the server is busy.

package sim

import (
	"fmt"
	"strings"
)

// WaitQueue is the FIFO line of customers that have arrived but not yet
// entered service. The customer in service is never in the WaitQueue.
type WaitQueue struct {
	queue []*Customer
}

// Enqueue adds a customer to the back of the line and marks it Waiting.
func (wq *WaitQueue) Enqueue(c *Customer) {
	if c == nil {
		panic("Enqueue: customer must not be nil")
	}
	c.State = StateWaiting
	wq.queue = append(wq.queue, c)
}

// Dequeue removes the customer at the head of the line.
// Returns nil if the line is empty.
func (wq *WaitQueue) Dequeue() *Customer {
	if len(wq.queue) == 0 {
		return nil
	}
	head := wq.queue[0]
	wq.queue[0] = nil
	wq.queue = wq.queue[1:]
	return head
}

// Peek returns the customer at the head of the line without removing it.
// Returns nil if the line is empty.
func (wq *WaitQueue) Peek() *Customer {
	if len(wq.queue) == 0 {
		return nil
	}
	return wq.queue[0]
}

// Len returns the number of waiting customers.
func (wq *WaitQueue) Len() int {
	return len(wq.queue)
}

// Items returns the line contents, head first.
// The returned slice is the queue's internal storage; callers MUST NOT modify it.
func (wq *WaitQueue) Items() []*Customer {
	return wq.queue
}

func (wq *WaitQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, c := range wq.queue {
		sb.WriteString(fmt.Sprint(c.ID))
		if i < len(wq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
