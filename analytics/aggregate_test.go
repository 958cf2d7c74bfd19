package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AmazzarK/back-edu-math-AI/models"
)

func scorePtr(f float64) *float64 { return &f }

func completedAttempt(studentID string, score float64, completedAt time.Time) models.Attempt {
	return models.Attempt{
		StudentID:   studentID,
		Status:      models.StatusCompleted,
		Attempts:    1,
		Score:       scorePtr(score),
		CompletedAt: &completedAt,
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.TotalAttempts)
	assert.Equal(t, 0.0, s.CompletionRate)
	assert.Equal(t, 0.0, s.AverageScore)
}

func TestSummarize(t *testing.T) {
	now := time.Now()
	attempts := []models.Attempt{
		completedAttempt("s1", 80, now),
		completedAttempt("s1", 60, now),
		{StudentID: "s1", Status: models.StatusInProgress, TimeSpent: 30},
		{StudentID: "s1", Status: models.StatusSubmitted},
	}
	attempts[0].TimeSpent = 120
	attempts[1].TimeSpent = 90

	s := Summarize(attempts)

	assert.Equal(t, 4, s.TotalAttempts)
	assert.Equal(t, 2, s.Completed)
	assert.Equal(t, 1, s.InProgress)
	assert.Equal(t, 0.5, s.CompletionRate)
	assert.Equal(t, 70.0, s.AverageScore)
	assert.Equal(t, 240, s.TotalTimeSpent)
}

func TestBuildHistogramEdges(t *testing.T) {
	now := time.Now()
	attempts := []models.Attempt{
		completedAttempt("s1", 90, now),   // exactly on the top edge
		completedAttempt("s1", 89.99, now),
		completedAttempt("s1", 60, now),
		completedAttempt("s1", 59.99, now),
		completedAttempt("s1", 100, now),
		{StudentID: "s1", Status: models.StatusInProgress}, // never counted
	}

	h := BuildHistogram(attempts)

	assert.Equal(t, 2, h.Bucket90)
	assert.Equal(t, 1, h.Bucket80)
	assert.Equal(t, 0, h.Bucket70)
	assert.Equal(t, 1, h.Bucket60)
	assert.Equal(t, 1, h.Below60)
}

func TestCurrentStreakConsecutiveDays(t *testing.T) {
	today := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	attempts := []models.Attempt{
		completedAttempt("s1", 80, today),
		completedAttempt("s1", 70, today.AddDate(0, 0, -1)),
		completedAttempt("s1", 60, today.AddDate(0, 0, -2)),
	}

	assert.Equal(t, 3, CurrentStreak(attempts, today))
}

func TestCurrentStreakToleratesSingleGap(t *testing.T) {
	today := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	attempts := []models.Attempt{
		completedAttempt("s1", 80, today),
		completedAttempt("s1", 70, today.AddDate(0, 0, -2)), // yesterday missed
	}

	assert.Equal(t, 2, CurrentStreak(attempts, today))
}

func TestCurrentStreakBrokenByLargeGap(t *testing.T) {
	today := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	attempts := []models.Attempt{
		completedAttempt("s1", 80, today),
		completedAttempt("s1", 70, today.AddDate(0, 0, -5)),
	}

	assert.Equal(t, 1, CurrentStreak(attempts, today))
}

func TestCurrentStreakNoCompletionToday(t *testing.T) {
	today := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	attempts := []models.Attempt{
		completedAttempt("s1", 80, today.AddDate(0, 0, -3)),
	}

	assert.Equal(t, 0, CurrentStreak(attempts, today))
}

func TestCurrentStreakMultipleCompletionsOneDay(t *testing.T) {
	today := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	attempts := []models.Attempt{
		completedAttempt("s1", 80, today),
		completedAttempt("s1", 90, today.Add(-2*time.Hour)),
	}

	assert.Equal(t, 1, CurrentStreak(attempts, today))
}

func TestLongestStreak(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	attempts := []models.Attempt{
		completedAttempt("s1", 80, base),
		completedAttempt("s1", 80, base.AddDate(0, 0, 1)),
		completedAttempt("s1", 80, base.AddDate(0, 0, 2)),
		// gap
		completedAttempt("s1", 80, base.AddDate(0, 0, 10)),
		completedAttempt("s1", 80, base.AddDate(0, 0, 11)),
	}

	assert.Equal(t, 3, LongestStreak(attempts))
	assert.Equal(t, 0, LongestStreak(nil))
}

func TestTopPerformersOrderingAndLimit(t *testing.T) {
	now := time.Now()
	attempts := []models.Attempt{
		completedAttempt("alice", 90, now),
		completedAttempt("bob", 90, now),
		completedAttempt("bob", 90, now),
		completedAttempt("carol", 95, now),
		{StudentID: "dave", Status: models.StatusInProgress}, // unscored, not ranked
	}

	entries := TopPerformers(attempts, 2)

	assert.Len(t, entries, 2)
	assert.Equal(t, "carol", entries[0].StudentID)
	// bob ties alice on average but has more completions
	assert.Equal(t, "bob", entries[1].StudentID)
}

func TestTopPerformersTieBreaksOnID(t *testing.T) {
	now := time.Now()
	attempts := []models.Attempt{
		completedAttempt("zoe", 80, now),
		completedAttempt("amy", 80, now),
	}

	entries := TopPerformers(attempts, 0)

	assert.Len(t, entries, 2)
	assert.Equal(t, "amy", entries[0].StudentID)
	assert.Equal(t, "zoe", entries[1].StudentID)
}

func TestStrugglingStudentsTriggers(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	recent := now.AddDate(0, 0, -1)
	stale := now.AddDate(0, 0, -10)

	attempts := []models.Attempt{
		// low average despite plenty of recent attempts
		completedAttempt("lowavg", 40, recent),
		completedAttempt("lowavg", 50, recent),
		completedAttempt("lowavg", 45, recent),
		// high average but only one attempt
		completedAttempt("fresh", 95, recent),
		// enough attempts and good scores, but inactive
		completedAttempt("idle", 85, stale),
		completedAttempt("idle", 90, stale),
		completedAttempt("idle", 95, stale),
		// healthy: good average, 3+ attempts, recent completion
		completedAttempt("fine", 85, recent),
		completedAttempt("fine", 90, recent),
		completedAttempt("fine", 95, recent),
	}

	flagged := StrugglingStudents(attempts, now)

	reasons := make(map[string]string)
	for _, f := range flagged {
		reasons[f.StudentID] = f.Reason
	}

	assert.Equal(t, "low average score", reasons["lowavg"])
	assert.Equal(t, "too few attempts", reasons["fresh"])
	assert.Equal(t, "no recent activity", reasons["idle"])
	assert.NotContains(t, reasons, "fine")
}

func TestBadges(t *testing.T) {
	now := time.Now()

	var attempts []models.Attempt
	assert.Empty(t, Badges(attempts))

	attempts = append(attempts, completedAttempt("s1", 95, now))
	badges := Badges(attempts)
	names := badgeNames(badges)
	assert.Contains(t, names, "First Steps")
	assert.Contains(t, names, "High Achiever")
	assert.NotContains(t, names, "Dedicated Learner")

	for i := 0; i < 9; i++ {
		attempts = append(attempts, completedAttempt("s1", 50, now))
	}
	names = badgeNames(Badges(attempts))
	assert.Contains(t, names, "Dedicated Learner")
	assert.NotContains(t, names, "High Achiever", "average dropped below 90")
	assert.NotContains(t, names, "Math Champion")

	for i := 0; i < 40; i++ {
		attempts = append(attempts, completedAttempt("s1", 50, now))
	}
	names = badgeNames(Badges(attempts))
	assert.Contains(t, names, "Math Champion")
}

func badgeNames(badges []models.Badge) []string {
	names := make([]string, 0, len(badges))
	for _, b := range badges {
		names = append(names, b.Name)
	}
	return names
}
