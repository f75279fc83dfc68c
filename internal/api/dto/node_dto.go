package dto

import (
	"time"

	"github.com/ulvgard/procplan/internal/domain"
	"github.com/ulvgard/procplan/internal/projector"
	"github.com/ulvgard/procplan/internal/reservation"
)

// GPUResponse is the API representation of a registry GPU.
type GPUResponse struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

// NodeResponse is the API representation of a node.
type NodeResponse struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	GPUCount int           `json:"gpu_count"`
	GPUs     []GPUResponse `json:"gpus"`
}

// NodeListResponse wraps the node list.
type NodeListResponse struct {
	Nodes []NodeResponse `json:"nodes"`
	Total int            `json:"total"`
}

// ToNodeResponse converts a domain node to its DTO.
func ToNodeResponse(node domain.Node) NodeResponse {
	gpus := make([]GPUResponse, len(node.GPUs))
	for i, gpu := range node.GPUs {
		gpus[i] = GPUResponse{ID: gpu.ID, Kind: gpu.Kind}
	}
	return NodeResponse{
		ID:       node.ID,
		Name:     node.Name,
		GPUCount: node.GPUCount(),
		GPUs:     gpus,
	}
}

// HourCellResponse is one hour bucket on a GPU timeline.
type HourCellResponse struct {
	Start   time.Time        `json:"start"`
	End     time.Time        `json:"end"`
	Status  string           `json:"status"` // "free" or "booked"
	Booking *BookingOccupant `json:"booking,omitempty"`
}

// BookingOccupant summarizes the booking occupying a cell.
type BookingOccupant struct {
	BookingID int64  `json:"booking_id"`
	Initials  string `json:"initials"`
	Priority  string `json:"priority"`
}

// AvailabilityResponse is the per-GPU hour timeline.
type AvailabilityResponse struct {
	GPUID string             `json:"gpu_id"`
	Start time.Time          `json:"start"`
	End   time.Time          `json:"end"`
	Hours []HourCellResponse `json:"hours"`
}

// ToAvailabilityResponse converts service hour cells to the API shape.
func ToAvailabilityResponse(gpuID string, window domain.TimeSlot, cells []reservation.HourCell) AvailabilityResponse {
	hours := make([]HourCellResponse, len(cells))
	for i, cell := range cells {
		hour := HourCellResponse{Start: cell.Start, End: cell.End, Status: "free"}
		if !cell.Free {
			hour.Status = "booked"
			hour.Booking = &BookingOccupant{
				BookingID: cell.Booking.BookingID,
				Initials:  cell.Booking.Initials,
				Priority:  string(cell.Booking.Priority),
			}
		}
		hours[i] = hour
	}
	return AvailabilityResponse{
		GPUID: gpuID,
		Start: window.Start,
		End:   window.End,
		Hours: hours,
	}
}

// NodeAvailabilityResponse carries the hour timelines of every GPU on a node.
type NodeAvailabilityResponse struct {
	NodeID string                 `json:"node_id"`
	Start  time.Time              `json:"start"`
	End    time.Time              `json:"end"`
	GPUs   []AvailabilityResponse `json:"gpus"`
}

// GridCellResponse is one GPU/day cell of the grid.
type GridCellResponse struct {
	Day      time.Time         `json:"day"`
	Bookings []BookingOccupant `json:"bookings"`
}

// GridRowResponse is one GPU's row across the grid window.
type GridRowResponse struct {
	GPU   GPUResponse        `json:"gpu"`
	Cells []GridCellResponse `json:"cells"`
}

// GridResponse is the day/GPU availability matrix.
type GridResponse struct {
	Scope string            `json:"scope"`
	Days  []time.Time       `json:"days"`
	Rows  []GridRowResponse `json:"rows"`
}

// ToGridResponse converts a projector grid to the API shape.
func ToGridResponse(grid *projector.Grid) GridResponse {
	rows := make([]GridRowResponse, len(grid.Rows))
	for i, row := range grid.Rows {
		cells := make([]GridCellResponse, len(row.Cells))
		for j, cell := range row.Cells {
			bookings := make([]BookingOccupant, len(cell.Bookings))
			for k, b := range cell.Bookings {
				bookings[k] = BookingOccupant{
					BookingID: b.BookingID,
					Initials:  b.Initials,
					Priority:  string(b.Priority),
				}
			}
			cells[j] = GridCellResponse{Day: cell.Day, Bookings: bookings}
		}
		rows[i] = GridRowResponse{
			GPU:   GPUResponse{ID: row.GPU.ID, Kind: row.GPU.Kind},
			Cells: cells,
		}
	}
	return GridResponse{Scope: grid.Scope, Days: grid.Days, Rows: rows}
}
