/*
store.go - Local cache persistence interface

PURPOSE:
  Defines the contract between the engine and the per-installation cache
  holding the last-known schedule snapshot, the last-sync timestamp, and
  the small per-user activity caches.

FAILURE POLICY:
  Implementations return errors; the ENGINE treats every one of them as
  best-effort: a failed read is a cache miss, a failed write is logged
  and dropped. The in-memory schedule stays the source of truth for the
  rest of the session. Corrupt payloads are reported as a miss (nil,
  nil), never as an error.

IMPLEMENTATIONS:
  - schedule/store/memory.go: In-memory, for tests and dev
  - store/sqlite:             Production, single kv table, WAL
  - store/redis:              Alternative backend, same key scheme

SEE ALSO:
  - engine.go: The only caller; wraps every call in best-effort handling
*/
package schedule

import (
	"context"
	"time"
)

// ActivityCache is the per-user activity catalog snapshot: the drop-down
// options a user has accumulated, with its own staleness stamp
// (milliseconds since epoch).
type ActivityCache struct {
	Activities []string `json:"activities"`
	LastUpdate int64    `json:"lastUpdate,omitempty"`
}

// CacheStore persists the local schedule cache.
//
// Miss convention: LoadSchedule and LoadUserActivities return (nil, nil)
// on absence or corruption; LoadLastSync returns the zero time.
type CacheStore interface {
	// LoadSchedule returns the last persisted snapshot.
	LoadSchedule(ctx context.Context) (YearSchedule, error)

	// SaveSchedule overwrites the snapshot wholesale (single key write).
	SaveSchedule(ctx context.Context, ys YearSchedule) error

	// LoadLastSync returns when the remote was last successfully pulled.
	LoadLastSync(ctx context.Context) (time.Time, error)

	// SaveLastSync stamps a successful remote pull.
	SaveLastSync(ctx context.Context, t time.Time) error

	// LoadUserActivities returns the cached activity catalog for email.
	LoadUserActivities(ctx context.Context, email string) (*ActivityCache, error)

	// SaveUserActivities overwrites the activity catalog for email.
	SaveUserActivities(ctx context.Context, email string, ac ActivityCache) error
}
