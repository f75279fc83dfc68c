// Package events publishes booking lifecycle notifications for downstream
// consumers (dashboards, chat hooks). The engine only ever emits; it never
// consumes its own events, and a publish failure is logged by the caller
// rather than failing the mutation that produced it.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType classifies a booking lifecycle transition.
type EventType string

const (
	BookingCreated   EventType = "booking.created"
	BookingCompleted EventType = "booking.completed"
	BookingCancelled EventType = "booking.cancelled"
)

// Event is one lifecycle notification.
type Event struct {
	// ID is a unique identifier for this event
	ID string `json:"id"`

	Type      EventType `json:"type"`
	BookingID int64     `json:"booking_id"`
	GPUIDs    []string  `json:"gpu_ids"`
	Initials  string    `json:"initials"`

	// OccurredAt is when the transition was applied, not when the event
	// was delivered
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent creates an event with a fresh id and the current timestamp.
func NewEvent(eventType EventType, bookingID int64, gpuIDs []string, initials string) *Event {
	return &Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		BookingID:  bookingID,
		GPUIDs:     gpuIDs,
		Initials:   initials,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers lifecycle events to a transport.
// This abstraction allows swapping implementations (nop, in-memory, Redis).
type Publisher interface {
	// Publish delivers a single event. Implementations must be safe for
	// concurrent use.
	Publish(ctx context.Context, event *Event) error

	// Close releases transport resources.
	Close() error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *Event) error { return nil }
func (NopPublisher) Close() error                          { return nil }
