/*
Package sqlite provides the SQLite-backed local cache store.

PURPOSE:
  Implements schedule.CacheStore on a single key-value table - the Go
  stand-in for the browser's string-keyed localStorage. Three key
  families live here:

    schedule            Full YearSchedule snapshot (JSON)
    last_sync           Last successful remote pull (unix millis)
    activities:<email>  Per-user activity catalog (JSON)

CORRUPTION POLICY:
  A payload that fails to decode is treated as absent, never as an
  error: the engine must be able to start from a damaged cache. There is
  no schema versioning; a shape change requires bumping the key names.

WAL MODE:
  Opened with WAL for better concurrency: readers don't block the single
  writer, and crash recovery is cleaner.

SEE ALSO:
  - schedule/store.go: Interface and the best-effort failure policy
  - schedule/store/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/campuslabs/schedule-engine/schedule"
)

const (
	keySchedule   = "schedule"
	keyLastSync   = "last_sync"
	keyActivities = "activities:" // + email
)

// Store implements schedule.CacheStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a store at the given database path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cache_entries (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// KV PRIMITIVES
// =============================================================================

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM cache_entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}

// =============================================================================
// CACHESTORE IMPLEMENTATION
// =============================================================================

func (s *Store) LoadSchedule(ctx context.Context) (schedule.YearSchedule, error) {
	raw, ok, err := s.get(ctx, keySchedule)
	if err != nil || !ok {
		return nil, err
	}
	var ys schedule.YearSchedule
	if err := json.Unmarshal([]byte(raw), &ys); err != nil {
		// Corrupt snapshot reads as a miss.
		return nil, nil
	}
	return ys, nil
}

func (s *Store) SaveSchedule(ctx context.Context, ys schedule.YearSchedule) error {
	raw, err := json.Marshal(ys)
	if err != nil {
		return err
	}
	return s.set(ctx, keySchedule, string(raw))
}

func (s *Store) LoadLastSync(ctx context.Context) (time.Time, error) {
	raw, ok, err := s.get(ctx, keyLastSync)
	if err != nil || !ok {
		return time.Time{}, err
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, nil
	}
	return time.UnixMilli(millis), nil
}

func (s *Store) SaveLastSync(ctx context.Context, t time.Time) error {
	return s.set(ctx, keyLastSync, strconv.FormatInt(t.UnixMilli(), 10))
}

func (s *Store) LoadUserActivities(ctx context.Context, email string) (*schedule.ActivityCache, error) {
	raw, ok, err := s.get(ctx, keyActivities+email)
	if err != nil || !ok {
		return nil, err
	}
	var ac schedule.ActivityCache
	if err := json.Unmarshal([]byte(raw), &ac); err != nil {
		return nil, nil
	}
	return &ac, nil
}

func (s *Store) SaveUserActivities(ctx context.Context, email string, ac schedule.ActivityCache) error {
	raw, err := json.Marshal(ac)
	if err != nil {
		return err
	}
	return s.set(ctx, keyActivities+email, string(raw))
}

var _ schedule.CacheStore = (*Store)(nil)
