package projector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulvgard/procplan/internal/domain"
	"github.com/ulvgard/procplan/internal/reservation"
	"github.com/ulvgard/procplan/internal/storage/inmemory"
	"github.com/ulvgard/procplan/internal/topology"
)

var base = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Projector, *reservation.Service) {
	t.Helper()

	reg, err := topology.NewRegistry([]domain.Node{
		{
			ID:   "node-a",
			Name: "Node A",
			GPUs: []domain.GPU{
				{ID: "node-a-gpu0", Kind: "H100"},
				{ID: "node-a-gpu1", Kind: "H100"},
				{ID: "node-a-gpu2", Kind: "H100"},
				{ID: "node-a-gpu3", Kind: "H100"},
			},
		},
		{
			ID:   "node-b",
			GPUs: []domain.GPU{{ID: "node-b-gpu0", Kind: "A100"}},
		},
	})
	require.NoError(t, err)

	repo := inmemory.NewBookingRepository()
	svc := reservation.NewService(repo, reg, nil, nil)
	return New(reg, repo), svc
}

func TestGrid_ScenarioSingleBooking(t *testing.T) {
	proj, svc := setup(t)
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, reservation.CreateRequest{
		Initials: "AB",
		Slot:     domain.TimeSlot{Start: base, End: base.Add(8 * time.Hour)},
		Priority: "high",
		GPUIDs:   []string{"node-a-gpu0"},
	})
	require.NoError(t, err)

	grid, err := proj.Grid(ctx, "node-a", base, 1)
	require.NoError(t, err)

	assert.Equal(t, "node-a", grid.Scope)
	require.Len(t, grid.Days, 1)
	require.Len(t, grid.Rows, 4)

	occupied := grid.Rows[0]
	assert.Equal(t, "node-a-gpu0", occupied.GPU.ID)
	require.Len(t, occupied.Cells[0].Bookings, 1)
	assert.Equal(t, b.ID, occupied.Cells[0].Bookings[0].BookingID)
	assert.Equal(t, "AB", occupied.Cells[0].Bookings[0].Initials)
	assert.Equal(t, domain.PriorityHigh, occupied.Cells[0].Bookings[0].Priority)

	for _, row := range grid.Rows[1:] {
		assert.Empty(t, row.Cells[0].Bookings, "gpu1..3 are free")
	}
}

func TestGrid_MultiDaySpan(t *testing.T) {
	proj, svc := setup(t)
	ctx := context.Background()

	// 22:00 day 1 through 02:00 day 2 shows up in both day cells.
	_, err := svc.CreateBooking(ctx, reservation.CreateRequest{
		Initials: "AB",
		Slot:     domain.TimeSlot{Start: base.Add(22 * time.Hour), End: base.Add(26 * time.Hour)},
		GPUIDs:   []string{"node-a-gpu1"},
	})
	require.NoError(t, err)

	grid, err := proj.Grid(ctx, "node-a", base, 3)
	require.NoError(t, err)
	require.Len(t, grid.Days, 3)

	row := grid.Rows[1]
	assert.Len(t, row.Cells[0].Bookings, 1)
	assert.Len(t, row.Cells[1].Bookings, 1)
	assert.Empty(t, row.Cells[2].Bookings)
}

func TestGrid_AllScopeAndOrder(t *testing.T) {
	proj, _ := setup(t)

	grid, err := proj.Grid(context.Background(), "", base, 1)
	require.NoError(t, err)

	assert.Equal(t, "all", grid.Scope)
	require.Len(t, grid.Rows, 5)
	assert.Equal(t, "node-a-gpu0", grid.Rows[0].GPU.ID, "configuration order preserved")
	assert.Equal(t, "node-b-gpu0", grid.Rows[4].GPU.ID)
}

func TestGrid_ExcludesCompletedAndCancelled(t *testing.T) {
	proj, svc := setup(t)
	ctx := context.Background()

	done, err := svc.CreateBooking(ctx, reservation.CreateRequest{
		Initials: "AB",
		Slot:     domain.TimeSlot{Start: base, End: base.Add(4 * time.Hour)},
		GPUIDs:   []string{"node-a-gpu0"},
	})
	require.NoError(t, err)
	_, err = svc.MarkDone(ctx, done.ID, nil)
	require.NoError(t, err)

	gone, err := svc.CreateBooking(ctx, reservation.CreateRequest{
		Initials: "CD",
		Slot:     domain.TimeSlot{Start: base, End: base.Add(4 * time.Hour)},
		GPUIDs:   []string{"node-a-gpu1"},
	})
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, gone.ID)
	require.NoError(t, err)

	grid, err := proj.Grid(ctx, "node-a", base, 1)
	require.NoError(t, err)
	for _, row := range grid.Rows {
		assert.Empty(t, row.Cells[0].Bookings)
	}
}

func TestGrid_Validation(t *testing.T) {
	proj, _ := setup(t)
	ctx := context.Background()

	_, err := proj.Grid(ctx, "ghost", base, 1)
	assert.ErrorIs(t, err, domain.ErrUnknownResource)

	_, err = proj.Grid(ctx, "node-a", base, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestGrid_FloorsFirstDay(t *testing.T) {
	proj, svc := setup(t)
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, reservation.CreateRequest{
		Initials: "AB",
		Slot:     domain.TimeSlot{Start: base.Add(2 * time.Hour), End: base.Add(4 * time.Hour)},
		GPUIDs:   []string{"node-a-gpu0"},
	})
	require.NoError(t, err)

	// A mid-day firstDay still produces whole-day columns.
	grid, err := proj.Grid(ctx, "node-a", base.Add(13*time.Hour), 1)
	require.NoError(t, err)
	require.Len(t, grid.Days, 1)
	assert.Equal(t, base, grid.Days[0])
	assert.Len(t, grid.Rows[0].Cells[0].Bookings, 1)
}
