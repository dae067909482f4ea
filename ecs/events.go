package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventLightCreated  = "light_created"
	EventLightReleased = "light_released"
	EventToolClosed    = "tool_closed"
)

// LightEvent is the payload for light tool events.
type LightEvent struct {
	Entity    Entity
	Intensity float64
	Range     float64
}

// EventQueue is a simple FIFO queue. It is drained by the host between frames.
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

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
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
