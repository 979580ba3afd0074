/*
project.go - Remote row validation, partitioning, and commission projection

PURPOSE:
  Turns the flat row set fetched from the remote table into a
  YearSchedule document:

  1. Validate each row; malformed rows are skipped and logged, never
     failing the whole load.
  2. Partition rows into commission rows (sentinel week 100) and regular
     per-user rows.
  3. Project each commission row onto every week of the display window,
     stamping the fixed commission display name.
  4. Place regular rows directly, deriving display names from emails.

  Commission slots are regenerated wholesale on every load; they are
  never merged field-by-field with stale cached data.

SEE ALSO:
  - engine.go: Calls BuildYearSchedule on every remote load
  - week.go: WindowWeeks and DisplayNameFromEmail
*/
package schedule

import (
	"fmt"

	"go.uber.org/zap"
)

// Validate checks the row shape: a recognizable day, a grid-aligned time
// slot, a non-empty activity and owner email, and a plausible week
// number (1..52 or the commission sentinel).
func (r Row) Validate() error {
	if _, err := ParseDay(r.DayOfWeek); err != nil {
		return &RowError{Key: r.Key(), Reason: "unrecognized day_of_week"}
	}
	if !ValidTimeSlot(r.TimeSlot) {
		return &RowError{Key: r.Key(), Reason: "time_slot off the 15-minute grid"}
	}
	if r.ActivityName == "" {
		return &RowError{Key: r.Key(), Reason: "empty activity_name"}
	}
	if r.UserEmail == "" {
		return &RowError{Key: r.Key(), Reason: "empty user_email"}
	}
	if r.EnvironmentID == "" {
		return &RowError{Key: r.Key(), Reason: "empty environment_id"}
	}
	if (r.WeekNumber < 1 || r.WeekNumber > MaxWeeksYear) && r.WeekNumber != CommissionWeek {
		return &RowError{Key: r.Key(), Reason: fmt.Sprintf("week_number %d out of range", r.WeekNumber)}
	}
	return nil
}

// PartitionRows splits rows into commission rows (sentinel week) and
// regular per-user rows. Malformed rows are dropped and logged.
func PartitionRows(rows []Row, log *zap.Logger) (commission, regular []Row) {
	for _, r := range rows {
		if err := r.Validate(); err != nil {
			log.Warn("skipping malformed schedule row", zap.Error(err))
			continue
		}
		if r.WeekNumber == CommissionWeek {
			commission = append(commission, r)
		} else {
			regular = append(regular, r)
		}
	}
	return commission, regular
}

// BuildYearSchedule assembles the in-memory document from remote rows.
// window is the ordered list of display weeks the commission rows are
// projected onto. Every placed slot is marked DBSynced: the remote table
// is the source these came from.
func BuildYearSchedule(rows []Row, window []int, cfg Config, log *zap.Logger) YearSchedule {
	cfg = cfg.withDefaults()
	ys := make(YearSchedule)

	commission, regular := PartitionRows(rows, log)

	for _, r := range commission {
		day, _ := ParseDay(r.DayOfWeek)
		for _, week := range window {
			ys.Put(week, r.EnvironmentID, day, r.TimeSlot, &ScheduleSlot{
				Activity:    r.ActivityName,
				User:        User{Email: r.UserEmail, Name: cfg.CommissionName},
				BookingTime: r.BookingTime,
				Details:     r.Details,
				DBSynced:    true,
			})
		}
	}

	for _, r := range regular {
		day, _ := ParseDay(r.DayOfWeek)
		ys.Put(r.WeekNumber, r.EnvironmentID, day, r.TimeSlot, &ScheduleSlot{
			Activity:    r.ActivityName,
			User:        User{Email: r.UserEmail, Name: DisplayNameFromEmail(r.UserEmail, cfg.EmailDomain)},
			BookingTime: r.BookingTime,
			Details:     r.Details,
			DBSynced:    true,
		})
	}

	return ys
}
