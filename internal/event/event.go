package event

import (
	"context"
	"time"
)

// Event is a published occurrence with a topic and a payload.
type Event struct {
	Topic     Topic
	Payload   any
	Timestamp time.Time
}

// New creates an event stamped with the current time.
func New(topic Topic, payload any) Event {
	return Event{Topic: topic, Payload: payload, Timestamp: time.Now()}
}

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical is for application handlers that must run first.
	PriorityCritical Priority = 0

	// PriorityHigh runs before extensions.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority for extensions.
	PriorityNormal Priority = 200

	// PriorityLow is for logging handlers that run last.
	PriorityLow Priority = 300
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// Handler processes events.
type Handler interface {
	Handle(ctx context.Context, ev Event) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, ev Event) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}
