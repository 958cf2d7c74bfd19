package models

import "time"

// Attempt statuses. "submitted" only persists for essay exercises waiting on
// manual grading; auto-graded types move straight to "completed".
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
	StatusCompleted  = "completed"
)

// SubmittedAnswer is one student answer, index-aligned with the exercise's
// questions. SelectedOption is used for multiple choice; Value carries the
// raw text for short answers and calculations.
type SubmittedAnswer struct {
	SelectedOption *int   `json:"selected_option,omitempty"`
	Value          string `json:"value,omitempty"`
}

// Attempt tracks one student's relationship to one exercise. There is at most
// one row per (student_id, exercise_id); retries reuse it and bump Attempts.
type Attempt struct {
	ID          int64             `json:"id"`
	StudentID   string            `json:"student_id"`
	ExerciseID  int64             `json:"exercise_id"`
	Status      string            `json:"status"`
	Attempts    int               `json:"attempts"`
	Answers     []SubmittedAnswer `json:"answers,omitempty"`
	Score       *float64          `json:"score,omitempty"`
	TimeSpent   int               `json:"time_spent"` // accumulated seconds
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	SubmittedAt *time.Time        `json:"submitted_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// StartRequest for starting (or retrying) an exercise
type StartRequest struct {
	ExerciseID int64 `json:"exercise_id"`
}

// SubmitRequest for submitting answers
type SubmitRequest struct {
	ExerciseID int64             `json:"exercise_id"`
	Answers    []SubmittedAnswer `json:"answers"`
	TimeSpent  int               `json:"time_spent"` // seconds spent this sitting
}

// ScoreDetail reports per-question correctness for one grading pass.
type ScoreDetail struct {
	QuestionIndex int  `json:"question_index"`
	Answered      bool `json:"answered"`
	Correct       bool `json:"correct"`
}

// AttemptView is what submit/start return to callers: the attempt plus the
// per-question grading detail when a scoring pass just ran.
type AttemptView struct {
	Attempt
	Detail []ScoreDetail `json:"detail,omitempty"`
}

// CompletionEvent is emitted for downstream notification whenever an attempt
// reaches its terminal state.
type CompletionEvent struct {
	StudentID   string    `json:"student_id"`
	ExerciseID  int64     `json:"exercise_id"`
	Score       float64   `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}
