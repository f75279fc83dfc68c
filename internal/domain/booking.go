package domain

import (
	"fmt"
	"time"
)

// Priority is an ordered enumeration used for display and selection
// tie-breaking only. A higher priority never preempts an existing
// Active booking.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority validates a priority string. An empty value defaults to
// PriorityMedium, matching the booking API contract.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	}
	return "", fmt.Errorf("priority must be one of low, medium, high, got %q", s)
}

// Rank returns the ordering of the priority, low first.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	}
	return -1
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusActive    BookingStatus = "active"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// TimeSlot is a half-open interval [Start, End) where both bounds sit on
// whole-hour boundaries in UTC.
type TimeSlot struct {
	Start time.Time `json:"start" bson:"start"`
	End   time.Time `json:"end" bson:"end"`
}

// Overlaps reports whether two half-open slots intersect.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}

// Contains reports whether t falls inside the slot.
func (s TimeSlot) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// GPURef is a denormalized copy of a GPU's identity captured at booking
// creation time. Storing the copy rather than a live reference means a
// topology reload that removes the GPU cannot retroactively invalidate
// booking history.
type GPURef struct {
	ID     string `json:"id" bson:"id"`
	Kind   string `json:"kind" bson:"kind"`
	NodeID string `json:"node_id" bson:"node_id"`
}

// RefFromGPU captures a GPURef from a registry GPU record.
func RefFromGPU(g GPU) GPURef {
	return GPURef{ID: g.ID, Kind: g.Kind, NodeID: g.NodeID}
}

// Booking is a reservation of one or more GPUs for a slot.
type Booking struct {
	// ID is unique and monotonically assigned by the store.
	ID int64 `json:"id" bson:"_id"`

	// Initials identify the requester, e.g. "AB".
	Initials string `json:"initials" bson:"initials"`

	Slot     TimeSlot      `json:"slot" bson:"slot"`
	Priority Priority      `json:"priority" bson:"priority"`
	Status   BookingStatus `json:"status" bson:"status"`

	// GPUs assigned to the booking, non-empty. Denormalized copies, see GPURef.
	GPUs []GPURef `json:"gpus" bson:"gpus"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`

	// CompletedAt is set when the booking transitions to Completed. It is
	// clamped to the slot start and kept for audit; conflict checks only
	// ever consider Active bookings.
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// GPUIDs returns the assigned GPU identifiers in assignment order.
func (b *Booking) GPUIDs() []string {
	ids := make([]string, len(b.GPUs))
	for i, ref := range b.GPUs {
		ids[i] = ref.ID
	}
	return ids
}

// References reports whether the booking holds the given GPU.
func (b *Booking) References(gpuID string) bool {
	for _, ref := range b.GPUs {
		if ref.ID == gpuID {
			return true
		}
	}
	return false
}
