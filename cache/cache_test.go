package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AmazzarK/back-edu-math-AI/models"
)

func studentSnapshot(id string) *models.AnalyticsSnapshot {
	return &models.AnalyticsSnapshot{Scope: models.ScopeStudent, ScopeID: id}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "student:s1", Key(models.ScopeStudent, "s1"))
	assert.Equal(t, "class:7:published", Key(models.ScopeClass, "7", "published"))
}

func TestSetAndGet(t *testing.T) {
	c := NewSnapshotCache(DefaultConfig())

	key := Key(models.ScopeStudent, "s1")
	snapshot := studentSnapshot("s1")
	c.Set(key, snapshot)

	got, ok := c.Get(key)
	assert.True(t, ok)
	assert.Same(t, snapshot, got)

	_, ok = c.Get(Key(models.ScopeStudent, "s2"))
	assert.False(t, ok)
}

func TestEntriesExpire(t *testing.T) {
	c := NewSnapshotCache(Config{
		StudentTTL:  10 * time.Millisecond,
		ClassTTL:    10 * time.Millisecond,
		PlatformTTL: 10 * time.Millisecond,
	})

	key := Key(models.ScopeStudent, "s1")
	c.Set(key, studentSnapshot("s1"))

	_, ok := c.Get(key)
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	_, ok = c.Get(key)
	assert.False(t, ok, "entry must expire after its TTL")
}

func TestInvalidateStudentIsScoped(t *testing.T) {
	c := NewSnapshotCache(DefaultConfig())

	c.Set(Key(models.ScopeStudent, "s1"), studentSnapshot("s1"))
	c.Set(Key(models.ScopeStudent, "s1", "weekly"), studentSnapshot("s1"))
	c.Set(Key(models.ScopeStudent, "s10"), studentSnapshot("s10"))
	c.Set(Key(models.ScopeClass, "7"), &models.AnalyticsSnapshot{Scope: models.ScopeClass})

	c.InvalidateStudent("s1")

	_, ok := c.Get(Key(models.ScopeStudent, "s1"))
	assert.False(t, ok)
	_, ok = c.Get(Key(models.ScopeStudent, "s1", "weekly"))
	assert.False(t, ok, "filtered variants are dropped too")
	_, ok = c.Get(Key(models.ScopeStudent, "s10"))
	assert.True(t, ok, "prefix match must not catch s10")
	_, ok = c.Get(Key(models.ScopeClass, "7"))
	assert.True(t, ok, "class snapshots age out on their own")
}

func TestInvalidateAll(t *testing.T) {
	c := NewSnapshotCache(DefaultConfig())

	c.Set(Key(models.ScopeStudent, "s1"), studentSnapshot("s1"))
	c.Set(Key(models.ScopePlatform, "all"), &models.AnalyticsSnapshot{Scope: models.ScopePlatform})

	c.InvalidateAll()

	_, ok := c.Get(Key(models.ScopeStudent, "s1"))
	assert.False(t, ok)
	_, ok = c.Get(Key(models.ScopePlatform, "all"))
	assert.False(t, ok)
}
