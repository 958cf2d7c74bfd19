package analytics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/AmazzarK/back-edu-math-AI/cache"
	"github.com/AmazzarK/back-edu-math-AI/models"
	"github.com/AmazzarK/back-edu-math-AI/utils"
)

// AttemptSource is the scoped read access the service needs. *db.DB
// implements it; tests use an in-memory fake.
type AttemptSource interface {
	ListAttemptsByStudent(studentID string) ([]models.Attempt, error)
	ListAttemptsByStudents(studentIDs []string) ([]models.Attempt, error)
	ListAllAttempts() ([]models.Attempt, error)
}

// Service computes snapshots on demand, memoized through the injected cache.
type Service struct {
	store AttemptSource
	cache *cache.SnapshotCache
	now   func() time.Time
}

func NewService(store AttemptSource, snapshots *cache.SnapshotCache) *Service {
	return &Service{
		store: store,
		cache: snapshots,
		now:   time.Now,
	}
}

// StudentSnapshot computes the analytics for one student: summary, score
// distribution, streaks and badges.
func (s *Service) StudentSnapshot(studentID string) (*models.AnalyticsSnapshot, error) {
	key := cache.Key(models.ScopeStudent, studentID)
	if snapshot, ok := s.cache.Get(key); ok {
		return snapshot, nil
	}

	attempts, err := s.store.ListAttemptsByStudent(studentID)
	if err != nil {
		utils.LogError("Could not read attempts for student %s: %v", studentID, err)
		return nil, fmt.Errorf("%w: student attempts: %v", models.ErrDataUnavailable, err)
	}

	now := s.now()
	snapshot := &models.AnalyticsSnapshot{
		Scope:         models.ScopeStudent,
		ScopeID:       studentID,
		Summary:       Summarize(attempts),
		Histogram:     BuildHistogram(attempts),
		CurrentStreak: CurrentStreak(attempts, now),
		LongestStreak: LongestStreak(attempts),
		Badges:        Badges(attempts),
		GeneratedAt:   now,
	}

	s.cache.Set(key, snapshot)
	return snapshot, nil
}

// ClassSnapshot computes the analytics for one class. The enrolled-student
// set is owned by the enrollment store and supplied by the caller.
func (s *Service) ClassSnapshot(classID int64, enrolledStudentIDs []string) (*models.AnalyticsSnapshot, error) {
	key := cache.Key(models.ScopeClass, strconv.FormatInt(classID, 10))
	if snapshot, ok := s.cache.Get(key); ok {
		return snapshot, nil
	}

	attempts, err := s.store.ListAttemptsByStudents(enrolledStudentIDs)
	if err != nil {
		utils.LogError("Could not read attempts for class %d: %v", classID, err)
		return nil, fmt.Errorf("%w: class attempts: %v", models.ErrDataUnavailable, err)
	}

	now := s.now()
	snapshot := &models.AnalyticsSnapshot{
		Scope:         models.ScopeClass,
		ScopeID:       strconv.FormatInt(classID, 10),
		Summary:       Summarize(attempts),
		Histogram:     BuildHistogram(attempts),
		TopPerformers: TopPerformers(attempts, DefaultTopPerformersLimit),
		Struggling:    StrugglingStudents(attempts, now),
		GeneratedAt:   now,
	}

	s.cache.Set(key, snapshot)
	return snapshot, nil
}

// PlatformSnapshot computes the analytics over every attempt on record.
func (s *Service) PlatformSnapshot() (*models.AnalyticsSnapshot, error) {
	key := cache.Key(models.ScopePlatform, "all")
	if snapshot, ok := s.cache.Get(key); ok {
		return snapshot, nil
	}

	attempts, err := s.store.ListAllAttempts()
	if err != nil {
		utils.LogError("Could not read platform attempts: %v", err)
		return nil, fmt.Errorf("%w: platform attempts: %v", models.ErrDataUnavailable, err)
	}

	now := s.now()
	snapshot := &models.AnalyticsSnapshot{
		Scope:         models.ScopePlatform,
		Summary:       Summarize(attempts),
		Histogram:     BuildHistogram(attempts),
		TopPerformers: TopPerformers(attempts, DefaultTopPerformersLimit),
		Struggling:    StrugglingStudents(attempts, now),
		GeneratedAt:   now,
	}

	s.cache.Set(key, snapshot)
	return snapshot, nil
}
