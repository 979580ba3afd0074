/*
Package schedule provides the core lab scheduling engine.

PURPOSE:
  This package contains the in-memory scheduling data model and the
  reconciliation algorithm that keeps it consistent across three places:
  the remote environment_schedule table, the local cache snapshot, and
  the live in-memory state a UI reads from.

KEY CONCEPTS IN THIS FILE (types.go):
  - ScheduleSlot: One booking occupying one 15-minute cell
  - WeekSchedule/YearSchedule: Nested maps keyed by day/time and week/env
  - Row/RowKey: The remote table's wire representation of a booking
  - User: The booking owner; email is the durable identity key

DESIGN PRINCIPLES:
  1. Absence means free: a missing map key is an open slot
  2. Optimistic writes: local state mutates first, remote sync confirms
  3. dbSynced is derived, never a source of truth
  4. The remote row shape is kept separate from the in-memory slot shape

SEE ALSO:
  - engine.go: Reconciliation engine (load, update, clear, refresh)
  - project.go: Remote row partitioning and commission projection
  - grouping.go: Contiguous slot grouping for merged-cell rendering
  - store.go: Local cache persistence interface
*/
package schedule

import (
	"context"
	"fmt"
	"time"
)

// =============================================================================
// USERS AND SLOTS
// =============================================================================

// User identifies the owner of a booking. Email is the durable key;
// Name is display-only and derived from the email for remote rows.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ScheduleSlot is one booking occupying one 15-minute cell of one
// day/environment/week.
type ScheduleSlot struct {
	Activity string `json:"activity"`
	User     User   `json:"user"`

	// BookingTime is an RFC 3339 timestamp set at creation and immutable
	// thereafter. It doubles as the identity check when a remote upsert
	// confirmation races a further local edit.
	BookingTime string `json:"bookingTime"`

	// Details is an optional free-text annotation. Commission-authored
	// rows structure it as "<class> (<teacher>)".
	Details string `json:"details,omitempty"`

	// DBSynced is true once the remote upsert for this exact slot has
	// succeeded. Fresh local edits start false.
	DBSynced bool `json:"dbSynced"`
}

// =============================================================================
// SCHEDULE STRUCTURE
// =============================================================================

// DayOfWeek is a canonical English day identifier (Monday..Sunday).
// Use ParseDay to normalize caller input, including pt-BR day names.
type DayOfWeek string

const (
	Monday    DayOfWeek = "Monday"
	Tuesday   DayOfWeek = "Tuesday"
	Wednesday DayOfWeek = "Wednesday"
	Thursday  DayOfWeek = "Thursday"
	Friday    DayOfWeek = "Friday"
	Saturday  DayOfWeek = "Saturday"
	Sunday    DayOfWeek = "Sunday"
)

// WeekSchedule maps day-of-week to time ("HH:MM", 15-minute granularity)
// to the slot booked there. Absence of a key means the slot is free.
type WeekSchedule map[DayOfWeek]map[string]*ScheduleSlot

// YearSchedule maps ISO week number to environment id to WeekSchedule.
// This is the root in-memory and cached document.
type YearSchedule map[int]map[string]WeekSchedule

// =============================================================================
// REMOTE ROWS
// =============================================================================

// Row is one row of the remote environment_schedule table.
type Row struct {
	EnvironmentID string `json:"environment_id"`
	WeekNumber    int    `json:"week_number"`
	DayOfWeek     string `json:"day_of_week"`
	TimeSlot      string `json:"time_slot"`
	ActivityName  string `json:"activity_name"`
	UserEmail     string `json:"user_email"`
	BookingTime   string `json:"booking_time"`
	Details       string `json:"details,omitempty"`
}

// RowKey is the composite key the remote table upserts and deletes on.
type RowKey struct {
	EnvironmentID string
	WeekNumber    int
	DayOfWeek     string
	TimeSlot      string
	UserEmail     string
}

// Key returns the composite key of the row.
func (r Row) Key() RowKey {
	return RowKey{
		EnvironmentID: r.EnvironmentID,
		WeekNumber:    r.WeekNumber,
		DayOfWeek:     r.DayOfWeek,
		TimeSlot:      r.TimeSlot,
		UserEmail:     r.UserEmail,
	}
}

func (k RowKey) String() string {
	return fmt.Sprintf("%s/%d/%s/%s/%s",
		k.EnvironmentID, k.WeekNumber, k.DayOfWeek, k.TimeSlot, k.UserEmail)
}

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// RemoteGateway is the serialized-access wrapper around the remote table
// API. FetchAll blocks; Enqueue* submit work to the gateway's FIFO queue
// and return immediately. Submission order is execution order, so callers
// that need ordering must enqueue synchronously with their local mutation.
//
// done callbacks run on the gateway's queue goroutine, never on the
// caller's stack: the engine enqueues while holding its own lock and
// re-acquires it inside the callback.
type RemoteGateway interface {
	// FetchAll selects every row of the schedule table.
	FetchAll(ctx context.Context) ([]Row, error)

	// EnqueueUpsert queues an idempotent insert-or-update keyed on the
	// row's composite key. done receives the remote result exactly once.
	EnqueueUpsert(row Row, done func(error))

	// EnqueueDelete queues a delete by composite key. Deleting an absent
	// row is a no-op success. done receives the remote result exactly once.
	EnqueueDelete(key RowKey, done func(error))
}

// SessionProvider supplies the authenticated identity for the current
// operation. The engine reads it at the start of every mutation; it never
// caches identities across calls.
type SessionProvider interface {
	CurrentUser(ctx context.Context) (User, error)
}

// =============================================================================
// ENGINE CONFIGURATION
// =============================================================================

// Config carries the institutional constants the engine needs. Zero
// values fall back to the campus defaults.
type Config struct {
	// MaxWeeksToShow is the size of the rolling display window the
	// commission bookings project onto (current week included).
	MaxWeeksToShow int

	// SyncCooldown gates how often Initialize refetches from the remote
	// backend instead of serving the cached snapshot.
	SyncCooldown time.Duration

	// EmailDomain is the institutional suffix stripped when deriving
	// display names from remote row emails.
	EmailDomain string

	// CommissionEmail owns the recurring sentinel-week bookings.
	CommissionEmail string

	// CommissionName is the display name stamped onto projected
	// commission slots instead of a derived name.
	CommissionName string
}

const (
	DefaultMaxWeeksToShow  = 4
	DefaultSyncCooldown    = time.Minute
	DefaultEmailDomain     = "ifsudestemg.edu.br"
	DefaultCommissionEmail = "comissaohorario.sd@ifsudestemg.edu.br"
	DefaultCommissionName  = "Comissão de Horários"
)

func (c Config) withDefaults() Config {
	if c.MaxWeeksToShow <= 0 {
		c.MaxWeeksToShow = DefaultMaxWeeksToShow
	}
	if c.SyncCooldown <= 0 {
		c.SyncCooldown = DefaultSyncCooldown
	}
	if c.EmailDomain == "" {
		c.EmailDomain = DefaultEmailDomain
	}
	if c.CommissionEmail == "" {
		c.CommissionEmail = DefaultCommissionEmail
	}
	if c.CommissionName == "" {
		c.CommissionName = DefaultCommissionName
	}
	return c
}
