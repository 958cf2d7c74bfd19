// Package cache memoizes analytics snapshots. It is an explicit instance
// handed to the analytics service rather than package-level state, so tests
// can inject a short-TTL or empty cache.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/AmazzarK/back-edu-math-AI/models"
	"github.com/AmazzarK/back-edu-math-AI/utils"
)

// TTLs grow with scope breadth: broad snapshots are expensive to recompute
// and may go stale for longer.
type Config struct {
	StudentTTL  time.Duration
	ClassTTL    time.Duration
	PlatformTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		StudentTTL:  10 * time.Minute,
		ClassTTL:    20 * time.Minute,
		PlatformTTL: 45 * time.Minute,
	}
}

type entry struct {
	snapshot  *models.AnalyticsSnapshot
	expiresAt time.Time
}

// SnapshotCache is a TTL map keyed by (scope, scope id, filters).
type SnapshotCache struct {
	config  Config
	entries map[string]entry
	mutex   sync.RWMutex
}

func NewSnapshotCache(config Config) *SnapshotCache {
	c := &SnapshotCache{
		config:  config,
		entries: make(map[string]entry),
	}

	// Sweep expired entries in the background
	go c.sweepExpiredEntries()

	return c
}

// Key builds the cache key for a scope. Filters must already be in a
// deterministic order.
func Key(scope, scopeID string, filters ...string) string {
	key := scope + ":" + scopeID
	for _, f := range filters {
		key += ":" + f
	}
	return key
}

func (c *SnapshotCache) Get(key string) (*models.AnalyticsSnapshot, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, exists := c.entries[key]
	if !exists || time.Now().After(e.expiresAt) {
		utils.LogCache("Miss: %s", key)
		return nil, false
	}

	utils.LogCache("Hit: %s", key)
	return e.snapshot, true
}

func (c *SnapshotCache) Set(key string, snapshot *models.AnalyticsSnapshot) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = entry{
		snapshot:  snapshot,
		expiresAt: time.Now().Add(c.ttlFor(snapshot.Scope)),
	}
	utils.LogCache("Stored: %s (scope %s)", key, snapshot.Scope)
}

// InvalidateStudent drops the student's own snapshots after an attempt
// mutation. Class and platform snapshots are left to age out via TTL; their
// freshness requirements loosen with scope size, so the staleness window is
// an accepted cost.
func (c *SnapshotCache) InvalidateStudent(studentID string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	prefix := models.ScopeStudent + ":" + studentID
	removed := 0
	for key := range c.entries {
		if key == prefix || len(key) > len(prefix) && key[:len(prefix)+1] == prefix+":" {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		utils.LogCache("Invalidated %d snapshot(s) for student %s", removed, studentID)
	}
}

// InvalidateAll clears everything; used when definitions change shape.
func (c *SnapshotCache) InvalidateAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]entry)
	utils.LogCache("Cleared all snapshots")
}

func (c *SnapshotCache) ttlFor(scope string) time.Duration {
	switch scope {
	case models.ScopeClass:
		return c.config.ClassTTL
	case models.ScopePlatform:
		return c.config.PlatformTTL
	default:
		return c.config.StudentTTL
	}
}

func (c *SnapshotCache) sweepExpiredEntries() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		swept := 0
		for key, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, key)
				swept++
			}
		}
		if swept > 0 {
			utils.LogCache("Swept %d expired snapshot(s)", swept)
		}
		c.mutex.Unlock()
	}
}

// LoadConfigFromEnv reads TTL overrides, values in minutes.
func LoadConfigFromEnv() Config {
	config := DefaultConfig()
	if v := utils.GetEnvInt("CACHE_STUDENT_TTL_MINUTES", 0); v > 0 {
		config.StudentTTL = time.Duration(v) * time.Minute
	}
	if v := utils.GetEnvInt("CACHE_CLASS_TTL_MINUTES", 0); v > 0 {
		config.ClassTTL = time.Duration(v) * time.Minute
	}
	if v := utils.GetEnvInt("CACHE_PLATFORM_TTL_MINUTES", 0); v > 0 {
		config.PlatformTTL = time.Duration(v) * time.Minute
	}
	return config
}

// String implements a debug representation used in startup logs.
func (c Config) String() string {
	return fmt.Sprintf("student=%s class=%s platform=%s", c.StudentTTL, c.ClassTTL, c.PlatformTTL)
}
