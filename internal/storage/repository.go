package storage

import (
	"context"
	"time"

	"github.com/ulvgard/procplan/internal/domain"
)

// BookingRepository defines the persistence contract for bookings.
//
// Implementations must make each call individually atomic: a reader never
// observes a booking without its GPU assignments, and a status transition is
// a compare-and-set on the current status. Serialization of the wider
// check-then-insert critical section is the reservation service's job, not
// the repository's.
type BookingRepository interface {
	// Insert persists a new booking, assigning the next monotonic id and
	// writing it back to b.ID.
	Insert(ctx context.Context, b *domain.Booking) error

	// Get retrieves a booking by id. Fails with a NotFound kind when the id
	// was never assigned.
	Get(ctx context.Context, id int64) (*domain.Booking, error)

	// ListActiveOverlapping returns the Active bookings whose slot overlaps
	// the given one. When gpuIDs is non-nil, only bookings referencing at
	// least one of those GPUs are returned. Ordered by id for determinism.
	ListActiveOverlapping(ctx context.Context, slot domain.TimeSlot, gpuIDs []string) ([]*domain.Booking, error)

	// UpdateStatus transitions a booking from one status to another as a
	// compare-and-set. completedAt is recorded only for transitions to
	// Completed. Fails with NotFound when the booking does not exist and
	// InvalidState when its current status is not `from`.
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, completedAt *time.Time) error

	// Count returns the total number of bookings in any status.
	Count(ctx context.Context) int64
}
