/*
errors.go - Centralized error types for the scheduling engine

PURPOSE:
  All engine-level errors in one place. Callers branch with errors.Is;
  the HTTP layer maps these onto status codes.

ERROR CATEGORIES:
  1. Input errors - invalid day/time, missing session
  2. Authorization errors - slot owned by another user
  3. Load errors - remote fetch failed (recoverable, cache fallback)

SEE ALSO:
  - engine.go: Where these are produced
  - api/handlers.go: Where they become HTTP status codes
*/
package schedule

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDay is returned when a caller passes a day outside the
	// canonical Monday..Sunday set (after pt-BR normalization). The
	// operation is aborted: no mutation, no remote call.
	ErrInvalidDay = errors.New("invalid day of week")

	// ErrInvalidTime is returned for a time slot that is not an HH:MM
	// value on the 15-minute grid.
	ErrInvalidTime = errors.New("invalid time slot")

	// ErrNoSession is returned when no authenticated identity is
	// available for a mutation.
	ErrNoSession = errors.New("no authenticated session")

	// ErrSlotOwned is returned when a mutation targets a slot booked by
	// a different user. The presentation layer disables the affordance;
	// this is the engine-level backstop.
	ErrSlotOwned = errors.New("slot owned by another user")

	// ErrLoadFailed marks a remote load failure. The engine degrades to
	// the cached snapshot; this error is surfaced via Err(), not thrown.
	ErrLoadFailed = errors.New("failed to load schedule")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// SlotOwnedError reports who currently holds a contested slot.
type SlotOwnedError struct {
	OwnerEmail string
	Week       int
	Day        DayOfWeek
	Time       string
}

func (e *SlotOwnedError) Error() string {
	return fmt.Sprintf("slot %s %s week %d is owned by %s",
		e.Day, e.Time, e.Week, e.OwnerEmail)
}

func (e *SlotOwnedError) Unwrap() error { return ErrSlotOwned }

// RowError reports why a remote row was skipped during load.
type RowError struct {
	Key    RowKey
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("malformed row %s: %s", e.Key, e.Reason)
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDay) ||
		errors.Is(err, ErrInvalidTime) ||
		errors.Is(err, ErrNoSession)
}
