/*
stats.go - Occupancy reporting over a week snapshot

PURPOSE:
  Aggregates booked-slot counts into per-environment occupancy figures
  for one display week: booked 15-minute slots, booked hours, and the
  occupancy ratio against the bookable grid. Decimal arithmetic keeps
  fractional hours exact (a 7-slot booking is 1.75h, not 1.7499...).
*/
package schedule

import "github.com/shopspring/decimal"

var (
	minutesPerSlot = decimal.NewFromInt(MinutesPerSlot)
	minutesPerHour = decimal.NewFromInt(60)
)

// EnvironmentOccupancy summarizes one environment's usage in one week.
type EnvironmentOccupancy struct {
	EnvironmentID string          `json:"environment_id"`
	BookedSlots   int             `json:"booked_slots"`
	BookedHours   decimal.Decimal `json:"booked_hours"`

	// Occupancy is BookedSlots over the bookable slot count of the week,
	// rounded to four places. Zero when the denominator is unknown.
	Occupancy decimal.Decimal `json:"occupancy"`
}

// WeekOccupancy reports usage for each of envIDs in the given week.
// bookableSlots is the number of bookable cells per environment per week
// (the grouping denominator); pass 0 to skip the ratio.
func WeekOccupancy(ys YearSchedule, week int, envIDs []string, bookableSlots int) []EnvironmentOccupancy {
	out := make([]EnvironmentOccupancy, 0, len(envIDs))
	for _, envID := range envIDs {
		booked := ys.CountSlots(week, envID)
		occ := EnvironmentOccupancy{
			EnvironmentID: envID,
			BookedSlots:   booked,
			BookedHours: decimal.NewFromInt(int64(booked)).
				Mul(minutesPerSlot).Div(minutesPerHour),
			Occupancy: decimal.Zero,
		}
		if bookableSlots > 0 {
			occ.Occupancy = decimal.NewFromInt(int64(booked)).
				Div(decimal.NewFromInt(int64(bookableSlots))).Round(4)
		}
		out = append(out, occ)
	}
	return out
}
