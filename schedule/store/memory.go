// Package store provides CacheStore implementations.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/campuslabs/schedule-engine/schedule"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	schedule   schedule.YearSchedule
	lastSync   time.Time
	activities map[string]schedule.ActivityCache
}

func NewMemory() *Memory {
	return &Memory{activities: make(map[string]schedule.ActivityCache)}
}

// LoadSchedule returns a deep copy of the stored snapshot, or nil on miss.
func (m *Memory) LoadSchedule(_ context.Context) (schedule.YearSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.schedule == nil {
		return nil, nil
	}
	return m.schedule.Clone(), nil
}

// SaveSchedule stores a deep copy so later engine mutations don't alias it.
func (m *Memory) SaveSchedule(_ context.Context, ys schedule.YearSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedule = ys.Clone()
	return nil
}

func (m *Memory) LoadLastSync(_ context.Context) (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSync, nil
}

func (m *Memory) SaveLastSync(_ context.Context, t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSync = t
	return nil
}

func (m *Memory) LoadUserActivities(_ context.Context, email string) (*schedule.ActivityCache, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ac, ok := m.activities[email]
	if !ok {
		return nil, nil
	}
	copied := schedule.ActivityCache{
		Activities: append([]string(nil), ac.Activities...),
		LastUpdate: ac.LastUpdate,
	}
	return &copied, nil
}

func (m *Memory) SaveUserActivities(_ context.Context, email string, ac schedule.ActivityCache) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activities[email] = schedule.ActivityCache{
		Activities: append([]string(nil), ac.Activities...),
		LastUpdate: ac.LastUpdate,
	}
	return nil
}

var _ schedule.CacheStore = (*Memory)(nil)
