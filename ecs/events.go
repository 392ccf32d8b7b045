package ecs

// EventKind identifies an event payload type.
type EventKind string

const (
	EventPointerEnter EventKind = "pointer_enter"
	EventPointerMove  EventKind = "pointer_move"
	EventPointerLeave EventKind = "pointer_leave"
)

// Event is a generic ECS event payload.
type Event struct {
	Kind EventKind
	X, Y float64
}

// EventQueue is a simple FIFO queue drained by systems within a frame.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len reports how many events are pending.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
