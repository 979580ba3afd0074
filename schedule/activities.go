/*
activities.go - Per-user activity catalog

PURPOSE:
  The drop-down options a user books slots with: a fixed default set
  plus whatever custom activities the user has added, cached per email
  with its own staleness stamp. The cache is best-effort like the rest
  of the store: a failed read serves defaults, a failed write is logged.
*/
package schedule

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultActivities are always offered, in this order.
var DefaultActivities = []string{"Aula", "Pesquisa", "Reunião", "Outra atividade"}

// ActivityCatalog serves and extends a user's activity options.
type ActivityCatalog struct {
	cache CacheStore
	ttl   time.Duration
	log   *zap.Logger
	now   func() time.Time
}

// NewActivityCatalog wires the catalog. ttl <= 0 disables staleness
// expiry of cached custom activities.
func NewActivityCatalog(cache CacheStore, ttl time.Duration, log *zap.Logger) *ActivityCatalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &ActivityCatalog{cache: cache, ttl: ttl, log: log, now: time.Now}
}

// Activities returns the defaults followed by the user's cached custom
// entries. Stale or unreadable caches degrade to defaults only.
func (c *ActivityCatalog) Activities(ctx context.Context, email string) []string {
	out := append([]string(nil), DefaultActivities...)
	if email == "" {
		return out
	}

	ac, err := c.cache.LoadUserActivities(ctx, email)
	if err != nil {
		c.log.Warn("activity cache read failed, serving defaults", zap.Error(err))
		return out
	}
	if ac == nil || c.stale(ac) {
		return out
	}

	seen := make(map[string]bool, len(out))
	for _, a := range out {
		seen[a] = true
	}
	for _, a := range ac.Activities {
		if !seen[a] {
			out = append(out, a)
			seen[a] = true
		}
	}
	return out
}

// Add records a custom activity for the user. Blank entries and
// duplicates of existing options are dropped silently.
func (c *ActivityCatalog) Add(ctx context.Context, email, activity string) error {
	activity = strings.TrimSpace(activity)
	if activity == "" || email == "" {
		return nil
	}

	current := c.Activities(ctx, email)
	for _, a := range current {
		if a == activity {
			return nil
		}
	}

	var custom []string
	if ac, err := c.cache.LoadUserActivities(ctx, email); err == nil && ac != nil && !c.stale(ac) {
		custom = ac.Activities
	}
	custom = append(custom, activity)

	err := c.cache.SaveUserActivities(ctx, email, ActivityCache{
		Activities: custom,
		LastUpdate: c.now().UnixMilli(),
	})
	if err != nil {
		c.log.Warn("activity cache write failed", zap.Error(err))
	}
	return nil
}

func (c *ActivityCatalog) stale(ac *ActivityCache) bool {
	if c.ttl <= 0 || ac.LastUpdate == 0 {
		return false
	}
	return c.now().Sub(time.UnixMilli(ac.LastUpdate)) > c.ttl
}
