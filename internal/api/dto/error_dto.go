package dto

import (
	"errors"
	"net/http"
	"time"

	"github.com/ulvgard/procplan/internal/domain"
)

// ErrorResponse is the standardized error payload. Kind carries the machine
// readable error family; the optional slices carry the structured detail a
// client needs to render a precise message.
type ErrorResponse struct {
	Error     string    `json:"error" example:"booking conflict"`
	Message   string    `json:"message" example:"gpu(s) node-a-gpu0 already booked by booking(s) 7"`
	Timestamp time.Time `json:"timestamp" example:"2025-01-18T12:34:56Z"`

	ConflictingBookings []int64  `json:"conflicting_bookings,omitempty"`
	ConflictingGPUs     []string `json:"conflicting_gpus,omitempty"`
	UnknownIDs          []string `json:"unknown_ids,omitempty"`
}

// FromError maps a domain error to an HTTP status and response body. Every
// validation kind is surfaced verbatim; only genuinely unexpected errors
// collapse to a 500.
func FromError(err error) (int, ErrorResponse) {
	resp := ErrorResponse{
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
	}

	var (
		conflict *domain.ConflictError
		unknown  *domain.UnknownResourceError
	)
	if errors.As(err, &conflict) {
		resp.ConflictingBookings = conflict.BookingIDs
		resp.ConflictingGPUs = conflict.GPUIDs
	}
	if errors.As(err, &unknown) {
		resp.UnknownIDs = unknown.IDs
	}

	switch {
	case errors.Is(err, domain.ErrInvalidRange), errors.Is(err, domain.ErrInvalidInput):
		resp.Error = kindName(err, domain.ErrInvalidRange, domain.ErrInvalidInput)
		return http.StatusBadRequest, resp
	case errors.Is(err, domain.ErrUnknownResource), errors.Is(err, domain.ErrNotFound):
		resp.Error = kindName(err, domain.ErrUnknownResource, domain.ErrNotFound)
		return http.StatusNotFound, resp
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrInsufficientCapacity),
		errors.Is(err, domain.ErrInvalidState):
		resp.Error = kindName(err, domain.ErrConflict, domain.ErrInsufficientCapacity, domain.ErrInvalidState)
		return http.StatusConflict, resp
	}

	resp.Error = domain.ErrInternal.Error()
	resp.Message = "internal server error"
	return http.StatusInternalServerError, resp
}

func kindName(err error, kinds ...error) string {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return domain.ErrInternal.Error()
}

// BadRequest builds a 400 response for transport-level validation failures
// (malformed JSON, unparseable timestamps).
func BadRequest(message string) (int, ErrorResponse) {
	return http.StatusBadRequest, ErrorResponse{
		Error:     domain.ErrInvalidInput.Error(),
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
