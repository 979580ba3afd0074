/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for the HTTP surface. These decouple the internal
  domain model from the external contract; the nested YearSchedule maps
  serialize naturally, so the schedule document crosses as-is.

NAMING CONVENTION:
  - *Request:  request body types from clients
  - *Response: response wrappers returned to clients

VALIDATION:
  Done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/campuslabs/schedule-engine/catalog"
	"github.com/campuslabs/schedule-engine/schedule"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ScheduleResponse carries the live document plus the engine's load
// state. Error is the "failed to load schedule" surface; the schedule
// alongside it is the cache fallback.
type ScheduleResponse struct {
	Schedule schedule.YearSchedule `json:"schedule"`
	State    string                `json:"state"`
	Error    string                `json:"error,omitempty"`
}

// RefreshRequest asks for a reload. Force requests a remote refetch,
// still subject to the engine's cool-down.
type RefreshRequest struct {
	Force bool `json:"force"`
}

// SlotRequest addresses one cell; Activity/Details are used on booking
// and ignored on clear. Day accepts canonical English or pt-BR names.
type SlotRequest struct {
	Week          int    `json:"week"`
	EnvironmentID string `json:"environment_id"`
	Day           string `json:"day"`
	Time          string `json:"time"`
	Activity      string `json:"activity,omitempty"`
	Details       string `json:"details,omitempty"`
}

// GroupDTO is one contiguous run of equivalent slots, with the run's
// boundary times resolved for convenience.
type GroupDTO struct {
	Start     int                    `json:"start"`
	End       int                    `json:"end"`
	StartTime string                 `json:"start_time"`
	EndTime   string                 `json:"end_time"`
	Slot      *schedule.ScheduleSlot `json:"slot,omitempty"`
}

// GroupsResponse is the merged-cell projection of one environment/day.
type GroupsResponse struct {
	Week          int        `json:"week"`
	EnvironmentID string     `json:"environment_id"`
	Day           string     `json:"day"`
	Groups        []GroupDTO `json:"groups"`
}

// EnvironmentsResponse lists the static catalog.
type EnvironmentsResponse struct {
	Environments []catalog.Environment `json:"environments"`
}

// ActivitiesResponse lists the booking options for the current user.
type ActivitiesResponse struct {
	Activities []string `json:"activities"`
}

// AddActivityRequest records a custom activity for the current user.
type AddActivityRequest struct {
	Activity string `json:"activity"`
}

// OccupancyResponse is the per-environment usage report for one week.
type OccupancyResponse struct {
	Week         int                             `json:"week"`
	Environments []schedule.EnvironmentOccupancy `json:"environments"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
