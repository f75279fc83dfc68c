// Package projector produces the day-by-GPU availability grid consumed by
// the web UI and the CLI. It is a pure read-side aggregation over the
// topology registry and the booking repository.
package projector

import (
	"context"
	"time"

	"github.com/ulvgard/procplan/internal/domain"
	"github.com/ulvgard/procplan/internal/storage"
	"github.com/ulvgard/procplan/internal/timegrid"
	"github.com/ulvgard/procplan/internal/topology"
)

// CellBooking summarizes one Active booking intersecting a day cell.
type CellBooking struct {
	BookingID int64           `json:"booking_id"`
	Initials  string          `json:"initials"`
	Priority  domain.Priority `json:"priority"`
}

// DayCell is one GPU/day intersection. An empty Bookings list means free.
type DayCell struct {
	Day      time.Time     `json:"day"`
	Bookings []CellBooking `json:"bookings"`
}

// GPURow is one GPU's cells across the window, in day order.
type GPURow struct {
	GPU   domain.GPU `json:"gpu"`
	Cells []DayCell  `json:"cells"`
}

// Grid is the day/GPU availability matrix.
type Grid struct {
	Scope string      `json:"scope"` // node id, or "all"
	Days  []time.Time `json:"days"`
	Rows  []GPURow    `json:"rows"`
}

// Projector aggregates registry and repository state into grids.
type Projector struct {
	registry *topology.Registry
	repo     storage.BookingRepository
}

// New creates a projector over the given registry and repository.
func New(registry *topology.Registry, repo storage.BookingRepository) *Projector {
	return &Projector{registry: registry, repo: repo}
}

// Grid returns, for every GPU under nodeScope ("" means all nodes) and
// every UTC day starting at firstDay, the Active bookings intersecting that
// day. The registry snapshot and the single repository read make the result
// a deterministic view of one point in time.
func (p *Projector) Grid(ctx context.Context, nodeScope string, firstDay time.Time, days int) (*Grid, error) {
	if days <= 0 {
		return nil, &domain.InvalidRangeError{Reason: "day count must be positive"}
	}

	snap := p.registry.Snapshot()
	gpus, err := snap.GPUs(nodeScope)
	if err != nil {
		return nil, err
	}

	start := timegrid.FloorDay(firstDay)
	end := start.Add(time.Duration(days) * 24 * time.Hour)
	window := domain.TimeSlot{Start: start, End: end}

	bookings, err := p.repo.ListActiveOverlapping(ctx, window, nil)
	if err != nil {
		return nil, err
	}

	grid := &Grid{Scope: nodeScope}
	if grid.Scope == "" {
		grid.Scope = "all"
	}
	for day := range timegrid.Days(start, end) {
		grid.Days = append(grid.Days, day)
	}

	grid.Rows = make([]GPURow, len(gpus))
	for i, gpu := range gpus {
		row := GPURow{GPU: gpu, Cells: make([]DayCell, len(grid.Days))}
		for j, day := range grid.Days {
			cell := DayCell{Day: day, Bookings: []CellBooking{}}
			daySlot := domain.TimeSlot{Start: day, End: day.Add(24 * time.Hour)}
			for _, b := range bookings {
				if b.References(gpu.ID) && b.Slot.Overlaps(daySlot) {
					cell.Bookings = append(cell.Bookings, CellBooking{
						BookingID: b.ID,
						Initials:  b.Initials,
						Priority:  b.Priority,
					})
				}
			}
			row.Cells[j] = cell
		}
		grid.Rows[i] = row
	}

	return grid, nil
}
