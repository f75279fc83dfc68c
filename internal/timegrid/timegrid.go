// Package timegrid canonicalizes timestamps to the hour grid every booking
// operates on. All computation is done in UTC.
package timegrid

import (
	"fmt"
	"iter"
	"time"

	"github.com/ulvgard/procplan/internal/domain"
)

const day = 24 * time.Hour

// Floor truncates t down to the hour boundary at or below it. Floor is only
// used when enumerating display buckets; the request path must call
// EnsureAligned instead so a misaligned request is rejected, not rounded.
func Floor(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour)
}

// FloorDay truncates t down to midnight UTC.
func FloorDay(t time.Time) time.Time {
	return t.UTC().Truncate(day)
}

// EnsureAligned fails with an InvalidRange kind when t carries any sub-hour
// component.
func EnsureAligned(t time.Time) error {
	u := t.UTC()
	if u.Minute() != 0 || u.Second() != 0 || u.Nanosecond() != 0 {
		return &domain.InvalidRangeError{
			Reason: fmt.Sprintf("timestamp %s is not aligned to a whole hour", u.Format(time.RFC3339)),
		}
	}
	return nil
}

// EnsureSlot validates that the slot's bounds are hour-aligned and that the
// duration is positive.
func EnsureSlot(slot domain.TimeSlot) error {
	if err := EnsureAligned(slot.Start); err != nil {
		return err
	}
	if err := EnsureAligned(slot.End); err != nil {
		return err
	}
	if !slot.End.After(slot.Start) {
		return &domain.InvalidRangeError{Reason: "end must be after start"}
	}
	return nil
}

// DurationHours returns the slot length in whole hours. Fails with an
// InvalidRange kind when the slot is misaligned or non-positive.
func DurationHours(slot domain.TimeSlot) (int, error) {
	if err := EnsureSlot(slot); err != nil {
		return 0, err
	}
	return int(slot.End.Sub(slot.Start) / time.Hour), nil
}

// Hours yields the hour-boundary timestamps spanning [start, end). Both
// bounds are floored to the grid, so display callers may pass arbitrary
// instants. The sequence is finite and restartable.
func Hours(start, end time.Time) iter.Seq[time.Time] {
	from, to := Floor(start), Floor(end)
	return func(yield func(time.Time) bool) {
		for t := from; t.Before(to); t = t.Add(time.Hour) {
			if !yield(t) {
				return
			}
		}
	}
}

// Days yields the midnight-UTC timestamps of every day touched by
// [start, end). A window ending exactly at midnight does not include the
// following day.
func Days(start, end time.Time) iter.Seq[time.Time] {
	from := FloorDay(start)
	to := end.UTC()
	return func(yield func(time.Time) bool) {
		for t := from; t.Before(to); t = t.Add(day) {
			if !yield(t) {
				return
			}
		}
	}
}

// DayWindow returns the UTC day span covering the slot: midnight of the
// slot's first day through midnight after its last occupied hour. Used as
// the load-balancing window for count-based GPU selection.
func DayWindow(slot domain.TimeSlot) domain.TimeSlot {
	start := FloorDay(slot.Start)
	end := FloorDay(slot.End.Add(-time.Nanosecond)).Add(day)
	return domain.TimeSlot{Start: start, End: end}
}
