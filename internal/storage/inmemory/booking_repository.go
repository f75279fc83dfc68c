package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ulvgard/procplan/internal/domain"
)

// BookingRepository is an in-memory implementation of booking storage,
// a map with mutex protection. It is the default backend and the one the
// test suites run against; the mongodb package provides the durable
// alternative behind the same interface.
type BookingRepository struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64]*domain.Booking
}

// NewBookingRepository creates an empty in-memory booking repository.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		nextID: 1,
		data:   make(map[int64]*domain.Booking),
	}
}

// Insert persists a new booking under the next monotonic id.
func (r *BookingRepository) Insert(_ context.Context, b *domain.Booking) error {
	if b == nil || len(b.GPUs) == 0 {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b.ID = r.nextID
	r.nextID++

	stored := *b
	stored.GPUs = append([]domain.GPURef(nil), b.GPUs...)
	r.data[stored.ID] = &stored
	return nil
}

// Get retrieves a booking by id.
func (r *BookingRepository) Get(_ context.Context, id int64) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.data[id]
	if !ok {
		return nil, &domain.NotFoundError{BookingID: id}
	}
	out := *b
	out.GPUs = append([]domain.GPURef(nil), b.GPUs...)
	return &out, nil
}

// ListActiveOverlapping returns Active bookings overlapping the slot,
// optionally filtered to those referencing one of gpuIDs, ordered by id.
func (r *BookingRepository) ListActiveOverlapping(_ context.Context, slot domain.TimeSlot, gpuIDs []string) ([]*domain.Booking, error) {
	var filter map[string]struct{}
	if gpuIDs != nil {
		filter = make(map[string]struct{}, len(gpuIDs))
		for _, id := range gpuIDs {
			filter[id] = struct{}{}
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Booking
	for _, b := range r.data {
		if b.Status != domain.StatusActive || !b.Slot.Overlaps(slot) {
			continue
		}
		if filter != nil && !referencesAny(b, filter) {
			continue
		}
		cp := *b
		cp.GPUs = append([]domain.GPURef(nil), b.GPUs...)
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func referencesAny(b *domain.Booking, ids map[string]struct{}) bool {
	for _, ref := range b.GPUs {
		if _, ok := ids[ref.ID]; ok {
			return true
		}
	}
	return false
}

// UpdateStatus transitions a booking's status as a compare-and-set.
func (r *BookingRepository) UpdateStatus(_ context.Context, id int64, from, to domain.BookingStatus, completedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.data[id]
	if !ok {
		return &domain.NotFoundError{BookingID: id}
	}
	if b.Status != from {
		return &domain.InvalidStateError{BookingID: id, Status: b.Status, Op: "transition"}
	}

	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	if completedAt != nil {
		t := completedAt.UTC()
		b.CompletedAt = &t
	}
	return nil
}

// Count returns the total number of bookings in any status.
func (r *BookingRepository) Count(_ context.Context) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.data))
}

// Clear removes all bookings. Useful for testing.
func (r *BookingRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = make(map[int64]*domain.Booking)
	r.nextID = 1
}
