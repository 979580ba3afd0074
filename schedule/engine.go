/*
engine.go - Schedule reconciliation engine

PURPOSE:
  The core of the system. One Engine instance owns the live YearSchedule
  for a session and reconciles three copies of it:

    remote table  --FetchAll-->  in-memory document  <--reads-- UI
                                     |       ^
                                     v       |
                               local cache snapshot

  Mutations apply optimistically: UpdateSlot writes the in-memory
  document and the cache synchronously, then enqueues a remote upsert or
  delete on the gateway's FIFO queue. On remote success the slot's
  dbSynced flag flips to true - after re-checking the slot's identity,
  since a further edit may have raced the confirmation. On remote
  failure the flag stays false; retry is user-triggered by re-editing.

STATE MACHINE:
  Idle -> Loading -> {Loaded, LoadFailed}
  Mutations are accepted in Loaded and LoadFailed and leave the state
  unchanged. A remote load failure degrades to the cached snapshot (or
  an empty document) and is surfaced via State()/Err(), never returned
  as a hard error from Initialize.

ORDERING:
  UpdateSlot holds the engine lock while mutating AND while enqueueing
  the remote operation, so two rapid edits of the same slot enqueue in
  call order and the backend converges to the second edit's value.

OWNERSHIP:
  A slot may only be mutated by the session whose email matches the
  slot's owner, or when the slot is free. The UI disables the affordance
  first; the engine refuses anyway.

SEE ALSO:
  - project.go: Remote load path (partition + projection)
  - store.go:   Cache contract and best-effort failure policy
  - gateway:    The serialized remote table client
*/
package schedule

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// STATE
// =============================================================================

// State is the engine's load state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateLoadFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateLoadFailed:
		return "load_failed"
	default:
		return "unknown"
	}
}

// =============================================================================
// ENGINE
// =============================================================================

// Options wires an Engine. Cache, Gateway, and Session are required.
type Options struct {
	Cache   CacheStore
	Gateway RemoteGateway
	Session SessionProvider
	Config  Config
	Logger  *zap.Logger

	// Now overrides the clock. Tests pin it for deterministic weeks and
	// booking times.
	Now func() time.Time
}

// Engine reconciles the remote schedule with the local cache and serves
// the live in-memory document.
type Engine struct {
	mu       sync.Mutex
	schedule YearSchedule
	state    State
	loadErr  error

	cache   CacheStore
	gateway RemoteGateway
	session SessionProvider
	cfg     Config
	log     *zap.Logger
	now     func() time.Time
}

// NewEngine creates an engine in the Idle state with an empty document.
func NewEngine(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		schedule: make(YearSchedule),
		state:    StateIdle,
		cache:    opts.Cache,
		gateway:  opts.Gateway,
		session:  opts.Session,
		cfg:      opts.Config.withDefaults(),
		log:      log,
		now:      now,
	}
}

// State returns the current load state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err returns the recoverable load error, if the last load failed.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadErr
}

// Snapshot returns a deep copy of the live document. Safe to hand to
// encoders and templates; never aliases engine state.
func (e *Engine) Snapshot() YearSchedule {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.schedule.Clone()
}

// =============================================================================
// LOAD PATH
// =============================================================================

// Initialize loads the schedule. When forceSync is set and the cool-down
// since the last successful remote pull has elapsed - or when no pull
// was ever recorded - it fetches the remote table, rebuilds the document
// (commission projection included), and overwrites the cache. Otherwise
// it serves the cached snapshot.
//
// Remote failure is recoverable: the engine falls back to the cache (or
// an empty document), enters StateLoadFailed, and returns nil. Inspect
// State()/Err() for the degradation.
func (e *Engine) Initialize(ctx context.Context, forceSync bool) error {
	e.mu.Lock()
	e.state = StateLoading
	e.mu.Unlock()

	if e.shouldFetchRemote(ctx, forceSync) {
		e.loadRemote(ctx)
	} else {
		e.loadCached(ctx)
	}
	return nil
}

func (e *Engine) shouldFetchRemote(ctx context.Context, forceSync bool) bool {
	lastSync, err := e.cache.LoadLastSync(ctx)
	if err != nil {
		e.log.Warn("reading last-sync stamp failed, treating as never synced", zap.Error(err))
		return true
	}
	if lastSync.IsZero() {
		return true
	}
	return forceSync && CooldownElapsed(lastSync, e.now(), e.cfg.SyncCooldown)
}

func (e *Engine) loadRemote(ctx context.Context) {
	rows, err := e.gateway.FetchAll(ctx)
	if err != nil {
		e.log.Error("remote schedule fetch failed, serving cache", zap.Error(err))
		e.fallback(ctx, err)
		return
	}
	if len(rows) == 0 {
		// An empty table is indistinguishable from a fresh backend;
		// keep whatever the cache has rather than wiping bookings.
		e.loadCached(ctx)
		return
	}

	now := e.now()
	window := WindowWeeks(WeekNumber(now), e.cfg.MaxWeeksToShow)
	ys := BuildYearSchedule(rows, window, e.cfg, e.log)

	e.mu.Lock()
	e.schedule = ys
	e.state = StateLoaded
	e.loadErr = nil
	e.persist(ctx)
	e.mu.Unlock()

	if err := e.cache.SaveLastSync(ctx, now); err != nil {
		e.log.Warn("saving last-sync stamp failed", zap.Error(err))
	}
	e.log.Info("schedule loaded from remote",
		zap.Int("rows", len(rows)), zap.Ints("window", window))
}

func (e *Engine) loadCached(ctx context.Context) {
	ys, err := e.cache.LoadSchedule(ctx)
	if err != nil {
		e.log.Warn("cache read failed, starting empty", zap.Error(err))
	}
	if ys == nil {
		ys = make(YearSchedule)
	}
	e.mu.Lock()
	e.schedule = ys
	e.state = StateLoaded
	e.loadErr = nil
	e.mu.Unlock()
}

func (e *Engine) fallback(ctx context.Context, cause error) {
	ys, err := e.cache.LoadSchedule(ctx)
	if err != nil {
		e.log.Warn("cache read failed during fallback, starting empty", zap.Error(err))
	}
	if ys == nil {
		ys = make(YearSchedule)
	}
	e.mu.Lock()
	e.schedule = ys
	e.state = StateLoadFailed
	e.loadErr = ErrLoadFailed
	e.mu.Unlock()
	_ = cause
}

// Refresh reloads the document from the local cache (the cheap path) and
// clears any load error. It never forces a remote refetch.
func (e *Engine) Refresh(ctx context.Context) {
	e.mu.Lock()
	e.state = StateLoading
	e.mu.Unlock()
	e.loadCached(ctx)
}

// =============================================================================
// MUTATIONS
// =============================================================================

// UpdateSlot books or clears one cell. A non-empty (post-trim) activity
// books the slot for the current session identity and enqueues a remote
// upsert; an empty activity clears the slot (cascading empty containers)
// and enqueues a remote delete. Clearing an already-free slot is a no-op
// with no gateway call.
//
// The local mutation and cache write happen synchronously before the
// remote call resolves; remote failure only affects dbSynced.
func (e *Engine) UpdateSlot(ctx context.Context, week int, envID string, day DayOfWeek, timeSlot, activity, details string) error {
	user, err := e.session.CurrentUser(ctx)
	if err != nil {
		return err
	}

	canonicalDay, err := ParseDay(string(day))
	if err != nil {
		e.log.Error("rejecting mutation with invalid day", zap.String("day", string(day)))
		return err
	}
	if !ValidTimeSlot(timeSlot) {
		e.log.Error("rejecting mutation with invalid time slot", zap.String("time", timeSlot))
		return ErrInvalidTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if cur, ok := e.schedule.Slot(week, envID, canonicalDay, timeSlot); ok && cur.User.Email != user.Email {
		return &SlotOwnedError{OwnerEmail: cur.User.Email, Week: week, Day: canonicalDay, Time: timeSlot}
	}

	activity = strings.TrimSpace(activity)
	if activity != "" {
		return e.bookLocked(ctx, user, week, envID, canonicalDay, timeSlot, activity, details)
	}
	return e.clearLocked(ctx, user, week, envID, canonicalDay, timeSlot)
}

// ClearSlot is sugar for UpdateSlot with an empty activity.
func (e *Engine) ClearSlot(ctx context.Context, week int, envID string, day DayOfWeek, timeSlot string) error {
	return e.UpdateSlot(ctx, week, envID, day, timeSlot, "", "")
}

func (e *Engine) bookLocked(ctx context.Context, user User, week int, envID string, day DayOfWeek, timeSlot, activity, details string) error {
	slot := &ScheduleSlot{
		Activity:    activity,
		User:        user,
		BookingTime: e.now().UTC().Format(time.RFC3339),
		Details:     details,
		DBSynced:    false,
	}
	e.schedule.Put(week, envID, day, timeSlot, slot)
	e.persist(ctx)

	row := Row{
		EnvironmentID: envID,
		WeekNumber:    week,
		DayOfWeek:     string(day),
		TimeSlot:      timeSlot,
		ActivityName:  activity,
		UserEmail:     user.Email,
		BookingTime:   slot.BookingTime,
		Details:       details,
	}
	// Enqueued under the lock: submission order is call order.
	e.gateway.EnqueueUpsert(row, func(err error) {
		if err != nil {
			e.log.Warn("slot upsert failed, left unsynced", zap.String("key", row.Key().String()), zap.Error(err))
			return
		}
		e.confirmUpsert(row)
	})
	return nil
}

func (e *Engine) clearLocked(ctx context.Context, user User, week int, envID string, day DayOfWeek, timeSlot string) error {
	if !e.schedule.Remove(week, envID, day, timeSlot) {
		return nil
	}
	e.persist(ctx)

	key := RowKey{
		EnvironmentID: envID,
		WeekNumber:    week,
		DayOfWeek:     string(day),
		TimeSlot:      timeSlot,
		UserEmail:     user.Email,
	}
	e.gateway.EnqueueDelete(key, func(err error) {
		if err != nil {
			e.log.Warn("slot delete failed on remote", zap.String("key", key.String()), zap.Error(err))
		}
	})
	return nil
}

// confirmUpsert flips dbSynced for the exact slot the upsert wrote. The
// slot is re-checked by identity (booking time, activity, owner), not
// blindly overwritten: an interleaved further edit must keep its own
// unconfirmed state.
func (e *Engine) confirmUpsert(row Row) {
	day, _ := ParseDay(row.DayOfWeek)

	e.mu.Lock()
	defer e.mu.Unlock()
	slot, ok := e.schedule.Slot(row.WeekNumber, row.EnvironmentID, day, row.TimeSlot)
	if ok && slot.BookingTime == row.BookingTime &&
		slot.Activity == row.ActivityName &&
		slot.User.Email == row.UserEmail {
		slot.DBSynced = true
		e.persist(context.Background())
	}
}

// persist writes the snapshot to the cache, best-effort. Callers must
// hold e.mu so the document cannot mutate mid-serialization.
func (e *Engine) persist(ctx context.Context) {
	if err := e.cache.SaveSchedule(ctx, e.schedule); err != nil {
		e.log.Warn("cache write failed, in-memory state remains authoritative", zap.Error(err))
	}
}

// =============================================================================
// VIEW HELPERS
// =============================================================================

// GroupsForDay resolves the slots for one environment/day across the
// given ordered times and folds them into contiguous groups.
func (e *Engine) GroupsForDay(week int, envID string, day DayOfWeek, times []string) []SlotGroup {
	e.mu.Lock()
	slots := make([]*ScheduleSlot, len(times))
	for i, t := range times {
		if s, ok := e.schedule.Slot(week, envID, day, t); ok {
			copied := *s
			slots[i] = &copied
		}
	}
	e.mu.Unlock()
	return GroupSlots(slots)
}
