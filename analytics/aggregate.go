// Package analytics rolls attempt records up into per-student, per-class and
// platform-wide snapshots. The math in this file is pure: it operates on an
// already-fetched slice of attempts and an explicit reference time, so every
// edge case is testable without a database.
package analytics

import (
	"sort"
	"time"

	"github.com/AmazzarK/back-edu-math-AI/models"
)

const (
	// A student is flagged as struggling when ANY of these fires.
	strugglingScoreThreshold = 60.0
	strugglingMinAttempts    = 3
	inactivityWindow         = 7 * 24 * time.Hour

	// DefaultTopPerformersLimit caps ranking output unless a caller asks for
	// more.
	DefaultTopPerformersLimit = 5
)

// Summarize computes the counters shared by every scope. An empty input
// yields zeros, never NaN.
func Summarize(attempts []models.Attempt) models.Summary {
	var s models.Summary
	s.TotalAttempts = len(attempts)

	var scoreSum float64
	var scored int

	for _, a := range attempts {
		s.TotalTimeSpent += a.TimeSpent
		switch a.Status {
		case models.StatusCompleted:
			s.Completed++
			if a.Score != nil {
				scoreSum += *a.Score
				scored++
			}
		case models.StatusInProgress:
			s.InProgress++
		}
	}

	if s.TotalAttempts > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.TotalAttempts)
	}
	if scored > 0 {
		s.AverageScore = scoreSum / float64(scored)
	}

	return s
}

// BuildHistogram buckets completed scores on fixed edges. Lower edges are
// inclusive: a score of exactly 90 counts in the 90-100 bucket.
func BuildHistogram(attempts []models.Attempt) models.ScoreHistogram {
	var h models.ScoreHistogram
	for _, a := range attempts {
		if a.Status != models.StatusCompleted || a.Score == nil {
			continue
		}
		switch score := *a.Score; {
		case score >= 90:
			h.Bucket90++
		case score >= 80:
			h.Bucket80++
		case score >= 70:
			h.Bucket70++
		case score >= 60:
			h.Bucket60++
		default:
			h.Below60++
		}
	}
	return h
}

// completionDays returns the distinct UTC calendar days with at least one
// completed attempt, ascending. Multiple completions on one day collapse to
// a single entry.
func completionDays(attempts []models.Attempt) []time.Time {
	seen := make(map[time.Time]bool)
	for _, a := range attempts {
		if a.Status != models.StatusCompleted || a.CompletedAt == nil {
			continue
		}
		day := a.CompletedAt.UTC().Truncate(24 * time.Hour)
		seen[day] = true
	}

	days := make([]time.Time, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// CurrentStreak counts consecutive completion days walking backward from
// today. A single missed day is tolerated once per step; a gap of more than
// one day ends the streak.
func CurrentStreak(attempts []models.Attempt, today time.Time) int {
	days := completionDays(attempts)
	if len(days) == 0 {
		return 0
	}

	current := today.UTC().Truncate(24 * time.Hour)
	streak := 0
	for i := len(days) - 1; i >= 0; i-- {
		day := days[i]
		switch {
		case day.Equal(current):
			streak++
			current = current.AddDate(0, 0, -1)
		case day.Equal(current.AddDate(0, 0, -1)):
			streak++
			current = day.AddDate(0, 0, -1)
		default:
			return streak
		}
	}
	return streak
}

// LongestStreak scans the full day sequence for the longest run of adjacent
// days.
func LongestStreak(attempts []models.Attempt) int {
	days := completionDays(attempts)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, 1)) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// studentRollup is the per-student grouping the rankings are computed from.
type studentRollup struct {
	studentID      string
	attemptCount   int
	completedCount int
	scoreSum       float64
	scoredCount    int
	lastCompletion *time.Time
}

func (r *studentRollup) averageScore() (float64, bool) {
	if r.scoredCount == 0 {
		return 0, false
	}
	return r.scoreSum / float64(r.scoredCount), true
}

func rollupByStudent(attempts []models.Attempt) []*studentRollup {
	byStudent := make(map[string]*studentRollup)
	order := make([]string, 0)

	for _, a := range attempts {
		r, ok := byStudent[a.StudentID]
		if !ok {
			r = &studentRollup{studentID: a.StudentID}
			byStudent[a.StudentID] = r
			order = append(order, a.StudentID)
		}
		r.attemptCount++
		if a.Status == models.StatusCompleted {
			r.completedCount++
			if a.Score != nil {
				r.scoreSum += *a.Score
				r.scoredCount++
			}
			if a.CompletedAt != nil &&
				(r.lastCompletion == nil || a.CompletedAt.After(*r.lastCompletion)) {
				t := *a.CompletedAt
				r.lastCompletion = &t
			}
		}
	}

	sort.Strings(order)
	rollups := make([]*studentRollup, len(order))
	for i, id := range order {
		rollups[i] = byStudent[id]
	}
	return rollups
}

// TopPerformers ranks students by average completed score, descending. Ties
// break on completed count descending, then student id ascending, so output
// is deterministic. Students with no scored completion are not ranked.
func TopPerformers(attempts []models.Attempt, limit int) []models.PerformerEntry {
	if limit <= 0 {
		limit = DefaultTopPerformersLimit
	}

	var entries []models.PerformerEntry
	for _, r := range rollupByStudent(attempts) {
		avg, ok := r.averageScore()
		if !ok {
			continue
		}
		entries = append(entries, models.PerformerEntry{
			StudentID:      r.studentID,
			AverageScore:   avg,
			CompletedCount: r.completedCount,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AverageScore != entries[j].AverageScore {
			return entries[i].AverageScore > entries[j].AverageScore
		}
		if entries[i].CompletedCount != entries[j].CompletedCount {
			return entries[i].CompletedCount > entries[j].CompletedCount
		}
		return entries[i].StudentID < entries[j].StudentID
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// StrugglingStudents flags students needing attention. The three triggers
// are independent: low average, too few attempts, or no completion inside
// the trailing window. Output is ordered by student id.
func StrugglingStudents(attempts []models.Attempt, now time.Time) []models.StrugglingStudent {
	cutoff := now.Add(-inactivityWindow)

	var flagged []models.StrugglingStudent
	for _, r := range rollupByStudent(attempts) {
		avg, hasAvg := r.averageScore()

		var reason string
		switch {
		case hasAvg && avg < strugglingScoreThreshold:
			reason = "low average score"
		case r.attemptCount < strugglingMinAttempts:
			reason = "too few attempts"
		case r.lastCompletion == nil || r.lastCompletion.Before(cutoff):
			reason = "no recent activity"
		default:
			continue
		}

		flagged = append(flagged, models.StrugglingStudent{
			StudentID:    r.studentID,
			AverageScore: avg,
			AttemptCount: r.attemptCount,
			Reason:       reason,
		})
	}
	return flagged
}

// Badges derives achievements from a single student's attempt set.
func Badges(attempts []models.Attempt) []models.Badge {
	summary := Summarize(attempts)

	var badges []models.Badge
	if summary.Completed >= 1 {
		badges = append(badges, models.Badge{
			Name:        "First Steps",
			Description: "Completed your first exercise",
		})
	}
	if summary.Completed >= 1 && summary.AverageScore >= 90 {
		badges = append(badges, models.Badge{
			Name:        "High Achiever",
			Description: "Maintain a 90+ average score",
		})
	}
	if summary.Completed >= 10 {
		badges = append(badges, models.Badge{
			Name:        "Dedicated Learner",
			Description: "Completed 10+ exercises",
		})
	}
	if summary.Completed >= 50 {
		badges = append(badges, models.Badge{
			Name:        "Math Champion",
			Description: "Completed 50+ exercises",
		})
	}
	return badges
}
