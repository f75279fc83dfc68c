package dto

import (
	"fmt"
	"time"

	"github.com/ulvgard/procplan/internal/domain"
)

// CreateBookingRequest is the booking creation payload. Slot bounds are
// ISO 8601 and must be hour-aligned; exactly one of gpu_ids or gpu_count
// must be supplied.
type CreateBookingRequest struct {
	Initials string   `json:"initials" example:"AB"`
	Priority string   `json:"priority" example:"high"`
	Start    string   `json:"start" example:"2024-06-01T00:00:00Z"`
	End      string   `json:"end" example:"2024-06-01T08:00:00Z"`
	GPUIDs   []string `json:"gpu_ids,omitempty"`
	GPUCount int      `json:"gpu_count,omitempty"`
	NodeID   string   `json:"node_id,omitempty"`
}

// Slot parses the request's time bounds.
func (r *CreateBookingRequest) Slot() (domain.TimeSlot, error) {
	start, err := time.Parse(time.RFC3339, r.Start)
	if err != nil {
		return domain.TimeSlot{}, fmt.Errorf("invalid start timestamp %q: %w", r.Start, err)
	}
	end, err := time.Parse(time.RFC3339, r.End)
	if err != nil {
		return domain.TimeSlot{}, fmt.Errorf("invalid end timestamp %q: %w", r.End, err)
	}
	return domain.TimeSlot{Start: start.UTC(), End: end.UTC()}, nil
}

// GPUAssignment is the denormalized GPU identity on a booking response.
type GPUAssignment struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	NodeID string `json:"node_id"`
}

// BookingResponse is the API representation of a booking.
type BookingResponse struct {
	ID          int64           `json:"id"`
	Initials    string          `json:"initials"`
	Priority    string          `json:"priority"`
	Status      string          `json:"status"`
	Start       time.Time       `json:"start"`
	End         time.Time       `json:"end"`
	GPUs        []GPUAssignment `json:"gpus"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// ToBookingResponse converts a domain booking to its DTO.
func ToBookingResponse(b *domain.Booking) BookingResponse {
	gpus := make([]GPUAssignment, len(b.GPUs))
	for i, ref := range b.GPUs {
		gpus[i] = GPUAssignment{ID: ref.ID, Kind: ref.Kind, NodeID: ref.NodeID}
	}
	return BookingResponse{
		ID:          b.ID,
		Initials:    b.Initials,
		Priority:    string(b.Priority),
		Status:      string(b.Status),
		Start:       b.Slot.Start,
		End:         b.Slot.End,
		GPUs:        gpus,
		CreatedAt:   b.CreatedAt,
		CompletedAt: b.CompletedAt,
	}
}

// CompleteBookingRequest is the early-completion payload. A missing
// completed_at defaults to now.
type CompleteBookingRequest struct {
	CompletedAt string `json:"completed_at,omitempty" example:"2024-06-01T05:00:00Z"`
}

// Time parses the optional completion timestamp.
func (r *CompleteBookingRequest) Time() (*time.Time, error) {
	if r.CompletedAt == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, r.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid completed_at timestamp %q: %w", r.CompletedAt, err)
	}
	u := t.UTC()
	return &u, nil
}
