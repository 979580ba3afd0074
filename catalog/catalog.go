/*
Package catalog holds the static campus booking catalog.

PURPOSE:
  The fixed set of bookable environments and the daily time-slot grid.
  Neither is user-editable at runtime; the schedule engine and the HTTP
  layer both read from here. The grid mirrors the campus timetable:
  15-minute cells grouped into morning, afternoon, and evening blocks
  with break windows in between (breaks render but are not bookable).
*/
package catalog

import (
	"sort"

	"github.com/campuslabs/schedule-engine/schedule"
)

// NumberDaysWorkWeek is Monday through Saturday.
const NumberDaysWorkWeek = 6

// Environment is one physical bookable space.
type Environment struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

var environments = []Environment{
	{ID: "LabInf1", Name: "Laboratório de Informática 1", ShortName: "Lab. Informática 1"},
	{ID: "LabInf2", Name: "Laboratório de Informática 2", ShortName: "Lab. Informática 2"},
	{ID: "LabSimFer", Name: "Laboratório de Simulação Ferroviária", ShortName: "Lab. Simulação Ferroviária"},
	{ID: "Auditorio", Name: "Auditório", ShortName: "Auditório"},
}

func init() {
	sort.Slice(environments, func(i, j int) bool {
		return environments[i].Name < environments[j].Name
	})
}

// Environments returns the catalog sorted by name.
func Environments() []Environment {
	return append([]Environment(nil), environments...)
}

// EnvironmentByID looks up one environment.
func EnvironmentByID(id string) (Environment, bool) {
	for _, e := range environments {
		if e.ID == id {
			return e, true
		}
	}
	return Environment{}, false
}

// EnvironmentIDs returns the ids in catalog order.
func EnvironmentIDs() []string {
	ids := make([]string, len(environments))
	for i, e := range environments {
		ids[i] = e.ID
	}
	return ids
}

// =============================================================================
// TIME GRID
// =============================================================================

// TimeSlot is one cell of the daily grid. Period classifies the block;
// "*-break" periods are rendered but not bookable.
type TimeSlot struct {
	Time   string `json:"time"`
	Period string `json:"period"`
}

var timeSlots = []TimeSlot{
	{Time: "07:45", Period: "morning"},
	{Time: "08:00", Period: "morning"},
	{Time: "08:15", Period: "morning"},
	{Time: "08:30", Period: "morning"},
	{Time: "08:45", Period: "morning"},
	{Time: "09:00", Period: "morning"},
	{Time: "09:15", Period: "morning"},
	{Time: "09:30", Period: "morning"},
	{Time: "09:45", Period: "morning"},
	{Time: "10:00", Period: "morning"},
	{Time: "10:15", Period: "morning"},
	{Time: "10:30", Period: "morning"},
	{Time: "10:45", Period: "morning"},
	{Time: "11:30", Period: "morning"},
	{Time: "11:45", Period: "morning-break"},
	{Time: "12:00", Period: "morning-break"},
	{Time: "12:15", Period: "morning-break"},
	{Time: "12:30", Period: "morning-break"},
	{Time: "12:45", Period: "morning-break"},
	{Time: "13:00", Period: "afternoon"},
	{Time: "13:45", Period: "afternoon"},
	{Time: "14:30", Period: "afternoon"},
	{Time: "15:15", Period: "afternoon"},
	{Time: "16:00", Period: "afternoon"},
	{Time: "16:45", Period: "afternoon"},
	{Time: "17:00", Period: "afternoon-break"},
	{Time: "17:15", Period: "afternoon-break"},
	{Time: "17:30", Period: "afternoon-break"},
	{Time: "17:45", Period: "afternoon-break"},
	{Time: "18:00", Period: "afternoon-break"},
	{Time: "18:15", Period: "afternoon-break"},
	{Time: "18:30", Period: "evening"},
	{Time: "19:15", Period: "evening"},
	{Time: "20:00", Period: "evening"},
	{Time: "20:45", Period: "evening"},
	{Time: "21:30", Period: "evening"},
	{Time: "22:15", Period: "evening"},
}

// TimeSlots returns the full daily grid in display order.
func TimeSlots() []TimeSlot {
	return append([]TimeSlot(nil), timeSlots...)
}

// Times returns the grid's times only, in display order.
func Times() []string {
	out := make([]string, len(timeSlots))
	for i, s := range timeSlots {
		out[i] = s.Time
	}
	return out
}

// BookableSlotsPerWeek is the occupancy denominator: non-break cells per
// day times the six-day work week.
func BookableSlotsPerWeek() int {
	n := 0
	for _, s := range timeSlots {
		if !isBreak(s.Period) {
			n++
		}
	}
	return n * NumberDaysWorkWeek
}

func isBreak(period string) bool {
	return len(period) > 6 && period[len(period)-6:] == "-break"
}

// WorkDays returns the bookable days in display order.
func WorkDays() []schedule.DayOfWeek {
	return []schedule.DayOfWeek{
		schedule.Monday, schedule.Tuesday, schedule.Wednesday,
		schedule.Thursday, schedule.Friday, schedule.Saturday,
	}
}
