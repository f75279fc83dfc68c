// Package reservation holds the invariant-bearing core of the planner:
// booking creation with conflict detection, early completion, cancellation,
// and per-GPU availability queries.
package reservation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ulvgard/procplan/internal/domain"
	"github.com/ulvgard/procplan/internal/events"
	"github.com/ulvgard/procplan/internal/storage"
	"github.com/ulvgard/procplan/internal/timegrid"
	"github.com/ulvgard/procplan/internal/topology"
)

// Service coordinates the topology registry and the booking repository.
//
// One mutex serializes every mutation. The overlap check and the insert in
// CreateBooking form a critical section: without the mutex two concurrent
// requests could both observe a GPU as free and both insert, violating the
// no-double-booking invariant. A single serialization point is sufficient
// for the expected request volume; reads bypass the mutex entirely and rely
// on the repository's per-call consistency.
type Service struct {
	mu        sync.Mutex
	repo      storage.BookingRepository
	registry  *topology.Registry
	publisher events.Publisher
	logger    *slog.Logger

	// now is swappable for tests
	now func() time.Time
}

// NewService creates a reservation service. A nil publisher disables
// lifecycle events.
func NewService(repo storage.BookingRepository, registry *topology.Registry, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		registry:  registry,
		publisher: publisher,
		logger:    logger.With("component", "reservation"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Registry exposes the topology registry for read-side consumers.
func (s *Service) Registry() *topology.Registry {
	return s.registry
}

// CreateRequest describes a booking request. Exactly one of GPUIDs or
// GPUCount must be provided; NodeScope restricts count-based selection to a
// single node and is ignored for explicit requests.
type CreateRequest struct {
	Initials  string
	Slot      domain.TimeSlot
	Priority  string
	GPUIDs    []string
	GPUCount  int
	NodeScope string // node id, or "" for any node
}

// CreateBooking validates the request, selects or verifies the GPU set, and
// atomically inserts the new Active booking.
func (s *Service) CreateBooking(ctx context.Context, req CreateRequest) (*domain.Booking, error) {
	if err := timegrid.EnsureSlot(req.Slot); err != nil {
		return nil, err
	}

	initials := strings.TrimSpace(req.Initials)
	if initials == "" {
		return nil, fmt.Errorf("%w: initials must not be empty", domain.ErrInvalidInput)
	}

	priority, err := domain.ParsePriority(req.Priority)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if len(req.GPUIDs) > 0 && req.GPUCount > 0 {
		return nil, fmt.Errorf("%w: provide either gpu ids or a gpu count, not both", domain.ErrInvalidInput)
	}

	// One snapshot for the whole validation so a concurrent topology reload
	// cannot mix pre- and post-reload inventory.
	snap := s.registry.Snapshot()

	slot := domain.TimeSlot{Start: req.Slot.Start.UTC(), End: req.Slot.End.UTC()}

	s.mu.Lock()
	defer s.mu.Unlock()

	var refs []domain.GPURef
	if len(req.GPUIDs) > 0 {
		refs, err = s.verifyExplicit(ctx, snap, slot, req.GPUIDs)
	} else {
		refs, err = s.selectByCount(ctx, snap, slot, req.NodeScope, req.GPUCount)
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	booking := &domain.Booking{
		Initials:  initials,
		Slot:      slot,
		Priority:  priority,
		Status:    domain.StatusActive,
		GPUs:      refs,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		"booking_id", booking.ID,
		"initials", booking.Initials,
		"priority", booking.Priority,
		"gpus", booking.GPUIDs(),
		"start", slot.Start,
		"end", slot.End,
	)
	s.publish(ctx, events.NewEvent(events.BookingCreated, booking.ID, booking.GPUIDs(), booking.Initials))

	return booking, nil
}

// verifyExplicit resolves an explicit GPU set and checks it against every
// overlapping Active booking. Caller holds the mutex.
func (s *Service) verifyExplicit(ctx context.Context, snap *topology.Snapshot, slot domain.TimeSlot, gpuIDs []string) ([]domain.GPURef, error) {
	seen := make(map[string]struct{}, len(gpuIDs))
	for _, id := range gpuIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate gpu id %q in request", domain.ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	gpus, err := snap.Resolve(gpuIDs)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.repo.ListActiveOverlapping(ctx, slot, gpuIDs)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		conflict := &domain.ConflictError{}
		busy := make(map[string]struct{})
		for _, b := range overlapping {
			conflict.BookingIDs = append(conflict.BookingIDs, b.ID)
			for _, id := range gpuIDs {
				if b.References(id) {
					busy[id] = struct{}{}
				}
			}
		}
		// Report busy GPUs in request order.
		for _, id := range gpuIDs {
			if _, ok := busy[id]; ok {
				conflict.GPUIDs = append(conflict.GPUIDs, id)
			}
		}
		return nil, conflict
	}

	refs := make([]domain.GPURef, len(gpus))
	for i, gpu := range gpus {
		refs[i] = domain.RefFromGPU(gpu)
	}
	return refs, nil
}

// selectByCount picks `count` GPUs free for the entire slot, preferring the
// least-loaded over the requester's day window and breaking ties by
// identifier order. Caller holds the mutex.
func (s *Service) selectByCount(ctx context.Context, snap *topology.Snapshot, slot domain.TimeSlot, scope string, count int) ([]domain.GPURef, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: gpu count must be positive", domain.ErrInvalidInput)
	}

	candidates, err := snap.GPUs(scope)
	if err != nil {
		return nil, err
	}

	candidateIDs := make([]string, len(candidates))
	for i, gpu := range candidates {
		candidateIDs[i] = gpu.ID
	}

	// Any overlap at all excludes a candidate.
	overlapping, err := s.repo.ListActiveOverlapping(ctx, slot, candidateIDs)
	if err != nil {
		return nil, err
	}
	busy := make(map[string]struct{})
	for _, b := range overlapping {
		for _, ref := range b.GPUs {
			busy[ref.ID] = struct{}{}
		}
	}

	var free []domain.GPU
	for _, gpu := range candidates {
		if _, taken := busy[gpu.ID]; !taken {
			free = append(free, gpu)
		}
	}

	scopeName := scope
	if scopeName == "" {
		scopeName = "any"
	}
	if len(free) < count {
		return nil, &domain.InsufficientCapacityError{Requested: count, Free: len(free), Scope: scopeName}
	}

	load, err := s.dayWindowLoad(ctx, slot, free)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(free, func(i, j int) bool {
		if load[free[i].ID] != load[free[j].ID] {
			return load[free[i].ID] < load[free[j].ID]
		}
		return free[i].ID < free[j].ID
	})

	refs := make([]domain.GPURef, count)
	for i := range count {
		refs[i] = domain.RefFromGPU(free[i])
	}
	return refs, nil
}

// dayWindowLoad counts, per free GPU, the Active bookings overlapping the
// UTC day window that covers the requested slot.
func (s *Service) dayWindowLoad(ctx context.Context, slot domain.TimeSlot, free []domain.GPU) (map[string]int, error) {
	freeIDs := make([]string, len(free))
	for i, gpu := range free {
		freeIDs[i] = gpu.ID
	}

	window := timegrid.DayWindow(slot)
	bookings, err := s.repo.ListActiveOverlapping(ctx, window, freeIDs)
	if err != nil {
		return nil, err
	}

	load := make(map[string]int, len(free))
	for _, b := range bookings {
		for _, id := range freeIDs {
			if b.References(id) {
				load[id]++
			}
		}
	}
	return load, nil
}

// MarkDone transitions an Active booking to Completed, releasing its GPUs
// for any slot starting at or after completedAt. A nil completedAt means
// now; a value before the booking's start is clamped to the start.
func (s *Service) MarkDone(ctx context.Context, bookingID int64, completedAt *time.Time) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.StatusActive {
		return nil, &domain.InvalidStateError{BookingID: bookingID, Status: booking.Status, Op: "complete"}
	}

	done := s.now()
	if completedAt != nil {
		done = completedAt.UTC()
	}
	if done.Before(booking.Slot.Start) {
		done = booking.Slot.Start
	}

	if err := s.repo.UpdateStatus(ctx, bookingID, domain.StatusActive, domain.StatusCompleted, &done); err != nil {
		return nil, err
	}

	s.logger.Info("booking completed",
		"booking_id", bookingID,
		"completed_at", done,
		"original_end", booking.Slot.End,
	)
	s.publish(ctx, events.NewEvent(events.BookingCompleted, bookingID, booking.GPUIDs(), booking.Initials))

	return s.repo.Get(ctx, bookingID)
}

// Cancel transitions an Active booking to Cancelled. Cancellation is always
// explicit; nothing in the engine cancels a booking automatically.
func (s *Service) Cancel(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.StatusActive {
		return nil, &domain.InvalidStateError{BookingID: bookingID, Status: booking.Status, Op: "cancel"}
	}

	if err := s.repo.UpdateStatus(ctx, bookingID, domain.StatusActive, domain.StatusCancelled, nil); err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled", "booking_id", bookingID)
	s.publish(ctx, events.NewEvent(events.BookingCancelled, bookingID, booking.GPUIDs(), booking.Initials))

	return s.repo.Get(ctx, bookingID)
}

// GetBooking retrieves a booking by id.
func (s *Service) GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return s.repo.Get(ctx, bookingID)
}

// Occupant summarizes the Active booking holding an hour bucket.
type Occupant struct {
	BookingID int64           `json:"booking_id"`
	Initials  string          `json:"initials"`
	Priority  domain.Priority `json:"priority"`
}

// HourCell is one hour bucket of a GPU's availability timeline.
type HourCell struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Free    bool      `json:"free"`
	Booking *Occupant `json:"booking,omitempty"`
}

// AvailabilityForGPU returns the hour-by-hour timeline for one GPU across
// the window. Display buckets are floored to the grid, so the window bounds
// need not be aligned.
func (s *Service) AvailabilityForGPU(ctx context.Context, gpuID string, window domain.TimeSlot) ([]HourCell, error) {
	if _, err := s.registry.Resolve([]string{gpuID}); err != nil {
		return nil, err
	}

	// One repository read keeps the timeline consistent with a single store
	// state.
	bookings, err := s.repo.ListActiveOverlapping(ctx, window, []string{gpuID})
	if err != nil {
		return nil, err
	}

	var cells []HourCell
	for hour := range timegrid.Hours(window.Start, window.End) {
		cell := HourCell{Start: hour, End: hour.Add(time.Hour), Free: true}
		bucket := domain.TimeSlot{Start: cell.Start, End: cell.End}
		for _, b := range bookings {
			if b.Slot.Overlaps(bucket) {
				cell.Free = false
				cell.Booking = &Occupant{BookingID: b.ID, Initials: b.Initials, Priority: b.Priority}
				break
			}
		}
		cells = append(cells, cell)
	}
	return cells, nil
}

// DefaultAvailabilityWindow returns the window used when a caller omits
// bounds: today midnight UTC through tomorrow, rolling over to tomorrow
// once the evening is nearly over.
func (s *Service) DefaultAvailabilityWindow() domain.TimeSlot {
	now := s.now()
	dayStart := timegrid.FloorDay(now)
	if now.Hour() >= 20 {
		dayStart = dayStart.Add(24 * time.Hour)
	}
	return domain.TimeSlot{Start: dayStart, End: dayStart.Add(24 * time.Hour)}
}

func (s *Service) publish(ctx context.Context, event *events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event",
			"event_id", event.ID,
			"type", event.Type,
			"error", err,
		)
	}
}
