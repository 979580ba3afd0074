/*
Package redis provides the Redis-backed local cache store.

PURPOSE:
  Drop-in alternative to the SQLite store for deployments that already
  run Redis: same schedule.CacheStore contract, same key scheme
  (schedule / last_sync / activities:<email>), values stored as JSON
  strings with no expiry - the engine's cool-down logic decides
  freshness, not the store.

CORRUPTION POLICY:
  Mirrors the SQLite store: undecodable payloads read as a miss.
*/
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/campuslabs/schedule-engine/schedule"
)

const (
	keySchedule   = "schedule"
	keyLastSync   = "last_sync"
	keyActivities = "activities:" // + email
)

// Options configures the store.
type Options struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces the keys (default "labschedule:").
	Prefix string
}

// Store implements schedule.CacheStore using Redis.
type Store struct {
	client *goredis.Client
	prefix string
}

// New connects and pings the Redis server.
func New(opts Options) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "labschedule:"
	}
	return &Store{client: client, prefix: prefix}, nil
}

// Close releases the client's connections.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return raw, true, nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
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
