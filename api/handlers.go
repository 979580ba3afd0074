/*
handlers.go - HTTP API handlers for the scheduling engine

PURPOSE:
  Exposes the reconciliation engine via REST. Handles HTTP parsing,
  JSON serialization, and status mapping; all scheduling semantics live
  in the schedule package.

ENDPOINTS:
  Schedule:
    GET    /api/schedule           Live document + load state
    POST   /api/schedule/refresh   Reload (force => remote, cooled down)
    PUT    /api/schedule/slots     Book/overwrite one slot
    DELETE /api/schedule/slots     Clear one slot
    GET    /api/schedule/groups    Merged-cell groups for one env/day

  Catalog:
    GET    /api/environments       Static environment catalog
    GET    /api/activities         Booking options for current user
    POST   /api/activities         Add a custom activity

  Reports:
    GET    /api/reports/occupancy  Per-environment usage for a week

ERROR HANDLING:
  400: invalid day/time/body    401: no session identity
  403: slot owned by another    500: internal

IDENTITY:
  Authentication is external. The identity middleware (server.go) trusts
  the X-User-Email / X-User-Name headers set by the fronting auth proxy
  and stores them on the request context; the engine reads them from
  there at the start of each operation.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/campuslabs/schedule-engine/catalog"
	"github.com/campuslabs/schedule-engine/schedule"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine     *schedule.Engine
	Activities *schedule.ActivityCatalog

	// Rebind, when set, receives the bearer credential of incoming
	// requests so the gateway can rotate its auth context in place.
	Rebind func(credential string)

	Log *zap.Logger

	// Now is the clock used for defaulting report weeks; tests pin it.
	Now func() time.Time
}

// NewHandler creates a handler around the engine.
func NewHandler(engine *schedule.Engine, activities *schedule.ActivityCatalog, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Engine: engine, Activities: activities, Log: log, Now: time.Now}
}

// =============================================================================
// SCHEDULE
// =============================================================================

// GetSchedule returns the live document and the engine's load state.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.scheduleResponse())
}

// RefreshSchedule reloads the document. force=true goes through the
// remote path (subject to cool-down); otherwise the cache path.
func (h *Handler) RefreshSchedule(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if req.Force {
		h.Engine.Initialize(r.Context(), true)
	} else {
		h.Engine.Refresh(r.Context())
	}
	writeJSON(w, http.StatusOK, h.scheduleResponse())
}

// UpdateSlot books or overwrites one slot for the current user.
func (h *Handler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	var req SlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Activity == "" {
		writeError(w, http.StatusBadRequest, "activity is required; use DELETE to clear")
		return
	}
	h.applySlot(w, r, req)
}

// ClearSlot frees one slot for the current user.
func (h *Handler) ClearSlot(w http.ResponseWriter, r *http.Request) {
	var req SlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Activity = ""
	req.Details = ""
	h.applySlot(w, r, req)
}

func (h *Handler) applySlot(w http.ResponseWriter, r *http.Request, req SlotRequest) {
	err := h.Engine.UpdateSlot(r.Context(), req.Week, req.EnvironmentID,
		schedule.DayOfWeek(req.Day), req.Time, req.Activity, req.Details)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, h.scheduleResponse())
	case errors.Is(err, schedule.ErrNoSession):
		writeError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, schedule.ErrSlotOwned):
		writeError(w, http.StatusForbidden, err.Error())
	case schedule.IsClientError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.Log.Error("slot mutation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// GetGroups returns the merged-cell projection for one environment/day.
func (h *Handler) GetGroups(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(r.URL.Query().Get("week"))
	if err != nil || week < 1 {
		writeError(w, http.StatusBadRequest, "week must be a positive integer")
		return
	}
	envID := r.URL.Query().Get("environment")
	if _, ok := catalog.EnvironmentByID(envID); !ok {
		writeError(w, http.StatusBadRequest, "unknown environment")
		return
	}
	day, err := schedule.ParseDay(r.URL.Query().Get("day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	times := catalog.Times()
	groups := h.Engine.GroupsForDay(week, envID, day, times)
	snapshot := h.Engine.Snapshot()

	dtos := make([]GroupDTO, 0, len(groups))
	for _, g := range groups {
		dto := GroupDTO{
			Start:     g.Start,
			End:       g.End,
			StartTime: times[g.Start],
			EndTime:   schedule.NextTimeSlot(times[g.End]),
		}
		if slot, ok := snapshot.Slot(week, envID, day, times[g.Start]); ok {
			dto.Slot = slot
		}
		dtos = append(dtos, dto)
	}

	writeJSON(w, http.StatusOK, GroupsResponse{
		Week:          week,
		EnvironmentID: envID,
		Day:           string(day),
		Groups:        dtos,
	})
}

// =============================================================================
// CATALOG
// =============================================================================

// ListEnvironments returns the static environment catalog.
func (h *Handler) ListEnvironments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, EnvironmentsResponse{Environments: catalog.Environments()})
}

// ListActivities returns the booking options for the current user.
func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	user, _ := schedule.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, ActivitiesResponse{
		Activities: h.Activities.Activities(r.Context(), user.Email),
	})
}

// AddActivity records a custom activity for the current user.
func (h *Handler) AddActivity(w http.ResponseWriter, r *http.Request) {
	user, ok := schedule.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req AddActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.Activities.Add(r.Context(), user.Email, req.Activity); err != nil {
		h.Log.Error("adding activity failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, ActivitiesResponse{
		Activities: h.Activities.Activities(r.Context(), user.Email),
	})
}

// =============================================================================
// REPORTS
// =============================================================================

// GetOccupancy reports per-environment usage for a week (default: the
// current ISO week).
func (h *Handler) GetOccupancy(w http.ResponseWriter, r *http.Request) {
	week := schedule.WeekNumber(h.Now())
	if raw := r.URL.Query().Get("week"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "week must be a positive integer")
			return
		}
		week = parsed
	}

	report := schedule.WeekOccupancy(h.Engine.Snapshot(), week,
		catalog.EnvironmentIDs(), catalog.BookableSlotsPerWeek())
	writeJSON(w, http.StatusOK, OccupancyResponse{Week: week, Environments: report})
}

// Healthz is the liveness probe.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) scheduleResponse() ScheduleResponse {
	resp := ScheduleResponse{
		Schedule: h.Engine.Snapshot(),
		State:    h.Engine.State().String(),
	}
	if err := h.Engine.Err(); err != nil {
		resp.Error = err.Error()
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
