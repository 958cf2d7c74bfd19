package models

import "time"

// Analytics scopes, from narrowest to broadest.
const (
	ScopeStudent  = "student"
	ScopeClass    = "class"
	ScopePlatform = "platform"
)

// ScoreHistogram buckets completed scores with fixed edges. Lower edges are
// inclusive, so a score of exactly 90 lands in the top bucket.
type ScoreHistogram struct {
	Below60  int `json:"below-60"`
	Bucket60 int `json:"60-69"`
	Bucket70 int `json:"70-79"`
	Bucket80 int `json:"80-89"`
	Bucket90 int `json:"90-100"`
}

// Summary holds the counters every scope shares.
type Summary struct {
	TotalAttempts  int     `json:"total_attempts"`
	Completed      int     `json:"completed"`
	InProgress     int     `json:"in_progress"`
	CompletionRate float64 `json:"completion_rate"`
	AverageScore   float64 `json:"average_score"`
	TotalTimeSpent int     `json:"total_time_spent"` // seconds
}

// PerformerEntry is one row of a top-performers ranking.
type PerformerEntry struct {
	StudentID      string  `json:"student_id"`
	AverageScore   float64 `json:"average_score"`
	CompletedCount int     `json:"completed_count"`
}

// StrugglingStudent flags a student who may need attention, with the trigger
// that fired.
type StrugglingStudent struct {
	StudentID    string  `json:"student_id"`
	AverageScore float64 `json:"average_score"`
	AttemptCount int     `json:"attempt_count"`
	Reason       string  `json:"reason"`
}

// Badge is a derived achievement; not persisted, recomputed per snapshot.
type Badge struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AnalyticsSnapshot is the derived rollup for one scope. Streaks and badges
// are only populated at student scope; rankings only at class/platform scope.
type AnalyticsSnapshot struct {
	Scope         string              `json:"scope"`
	ScopeID       string              `json:"scope_id,omitempty"`
	Summary       Summary             `json:"summary"`
	Histogram     ScoreHistogram      `json:"score_distribution"`
	CurrentStreak int                 `json:"current_streak,omitempty"`
	LongestStreak int                 `json:"longest_streak,omitempty"`
	Badges        []Badge             `json:"badges,omitempty"`
	TopPerformers []PerformerEntry    `json:"top_performers,omitempty"`
	Struggling    []StrugglingStudent `json:"struggling_students,omitempty"`
	GeneratedAt   time.Time           `json:"generated_at"`
}
