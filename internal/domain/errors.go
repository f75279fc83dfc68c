package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds. Callers branch on these with errors.Is; the typed
// wrappers below carry the structured detail needed to render a precise
// message.
var (
	ErrInvalidRange         = errors.New("invalid time range")
	ErrUnknownResource      = errors.New("unknown resource")
	ErrConflict             = errors.New("booking conflict")
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	ErrNotFound             = errors.New("booking not found")
	ErrInvalidState         = errors.New("invalid booking state")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInternal             = errors.New("internal error")
)

// InvalidRangeError reports a malformed, misaligned, or non-positive slot.
type InvalidRangeError struct {
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid time range: %s", e.Reason)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// UnknownResourceError lists every GPU or node identifier missing from the
// current topology.
type UnknownResourceError struct {
	Kind string // "gpu" or "node"
	IDs  []string
}

func (e *UnknownResourceError) Error() string {
	return fmt.Sprintf("unknown %s id(s): %s", e.Kind, strings.Join(e.IDs, ", "))
}

func (e *UnknownResourceError) Unwrap() error { return ErrUnknownResource }

// ConflictError names the GPUs that are busy during the requested slot and
// the Active bookings holding them.
type ConflictError struct {
	GPUIDs     []string
	BookingIDs []int64
}

func (e *ConflictError) Error() string {
	ids := make([]string, len(e.BookingIDs))
	for i, id := range e.BookingIDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("gpu(s) %s already booked by booking(s) %s",
		strings.Join(e.GPUIDs, ", "), strings.Join(ids, ", "))
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// InsufficientCapacityError reports a count-based request that no
// combination of free GPUs can satisfy.
type InsufficientCapacityError struct {
	Requested int
	Free      int
	Scope     string // node id, or "any"
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("requested %d gpu(s) on %q but only %d free for the full slot",
		e.Requested, e.Scope, e.Free)
}

func (e *InsufficientCapacityError) Unwrap() error { return ErrInsufficientCapacity }

// NotFoundError reports a booking identifier that does not exist.
type NotFoundError struct {
	BookingID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("booking %d does not exist", e.BookingID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidStateError reports an operation applied to a booking whose status
// does not permit it, e.g. completing an already-completed booking.
type InvalidStateError struct {
	BookingID int64
	Status    BookingStatus
	Op        string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s booking %d in status %q", e.Op, e.BookingID, e.Status)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }
