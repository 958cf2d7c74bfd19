package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmazzarK/back-edu-math-AI/cache"
	"github.com/AmazzarK/back-edu-math-AI/models"
)

type fakeAttemptSource struct {
	attempts []models.Attempt
	err      error
	calls    int
}

func (f *fakeAttemptSource) ListAttemptsByStudent(studentID string) ([]models.Attempt, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Attempt
	for _, a := range f.attempts {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttemptSource) ListAttemptsByStudents(studentIDs []string) ([]models.Attempt, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	members := make(map[string]bool, len(studentIDs))
	for _, id := range studentIDs {
		members[id] = true
	}
	var out []models.Attempt
	for _, a := range f.attempts {
		if members[a.StudentID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttemptSource) ListAllAttempts() ([]models.Attempt, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.attempts, nil
}

func newTestService(store *fakeAttemptSource) *Service {
	return NewService(store, cache.NewSnapshotCache(cache.DefaultConfig()))
}

func TestStudentSnapshot(t *testing.T) {
	now := time.Now().UTC()
	store := &fakeAttemptSource{attempts: []models.Attempt{
		completedAttempt("s1", 92, now),
		{StudentID: "s1", Status: models.StatusInProgress},
		completedAttempt("other", 10, now), // someone else's
	}}
	svc := newTestService(store)

	snapshot, err := svc.StudentSnapshot("s1")
	require.NoError(t, err)

	assert.Equal(t, models.ScopeStudent, snapshot.Scope)
	assert.Equal(t, "s1", snapshot.ScopeID)
	assert.Equal(t, 2, snapshot.Summary.TotalAttempts)
	assert.Equal(t, 1, snapshot.Summary.Completed)
	assert.Equal(t, 1, snapshot.CurrentStreak)
	assert.NotEmpty(t, snapshot.Badges)
	assert.False(t, snapshot.GeneratedAt.IsZero())
}

func TestStudentSnapshotCached(t *testing.T) {
	store := &fakeAttemptSource{}
	svc := newTestService(store)

	first, err := svc.StudentSnapshot("s1")
	require.NoError(t, err)
	second, err := svc.StudentSnapshot("s1")
	require.NoError(t, err)

	assert.Equal(t, 1, store.calls, "second read must come from cache")
	assert.Same(t, first, second)
}

func TestStudentSnapshotStorageFailure(t *testing.T) {
	store := &fakeAttemptSource{err: errors.New("disk on fire")}
	svc := newTestService(store)

	_, err := svc.StudentSnapshot("s1")

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestClassSnapshot(t *testing.T) {
	now := time.Now().UTC()
	store := &fakeAttemptSource{attempts: []models.Attempt{
		completedAttempt("s1", 95, now),
		completedAttempt("s2", 40, now),
		completedAttempt("outsider", 100, now),
	}}
	svc := newTestService(store)

	snapshot, err := svc.ClassSnapshot(7, []string{"s1", "s2"})
	require.NoError(t, err)

	assert.Equal(t, models.ScopeClass, snapshot.Scope)
	assert.Equal(t, "7", snapshot.ScopeID)
	assert.Equal(t, 2, snapshot.Summary.TotalAttempts, "outsider attempts excluded")
	assert.Len(t, snapshot.TopPerformers, 2)
	assert.Equal(t, "s1", snapshot.TopPerformers[0].StudentID)
	require.Len(t, snapshot.Struggling, 2, "low average and too few attempts both fire")
	assert.Zero(t, snapshot.CurrentStreak, "streaks are student-scope only")
}

func TestPlatformSnapshot(t *testing.T) {
	now := time.Now().UTC()
	store := &fakeAttemptSource{attempts: []models.Attempt{
		completedAttempt("s1", 80, now),
		completedAttempt("s2", 90, now),
	}}
	svc := newTestService(store)

	snapshot, err := svc.PlatformSnapshot()
	require.NoError(t, err)

	assert.Equal(t, models.ScopePlatform, snapshot.Scope)
	assert.Empty(t, snapshot.ScopeID)
	assert.Equal(t, 2, snapshot.Summary.TotalAttempts)
	assert.Len(t, snapshot.TopPerformers, 2)
}
