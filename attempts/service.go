// Package attempts implements the lifecycle of a student's relationship to
// one exercise: start, retry, submit, complete.
package attempts

import (
	"errors"
	"fmt"
	"time"

	"github.com/AmazzarK/back-edu-math-AI/cache"
	"github.com/AmazzarK/back-edu-math-AI/models"
	"github.com/AmazzarK/back-edu-math-AI/notify"
	"github.com/AmazzarK/back-edu-math-AI/scoring"
	"github.com/AmazzarK/back-edu-math-AI/utils"
)

// Store is the persistence the state machine needs. *db.DB implements it.
type Store interface {
	GetExerciseByID(id int64) (*models.Exercise, error)
	GetAttempt(studentID string, exerciseID int64) (*models.Attempt, error)
	StartAttempt(studentID string, exerciseID int64) (*models.Attempt, error)
	UpdateAttemptSubmission(a *models.Attempt) (*models.Attempt, error)
}

type Service struct {
	store     Store
	snapshots *cache.SnapshotCache
	notifier  notify.Notifier
	now       func() time.Time
}

func NewService(store Store, snapshots *cache.SnapshotCache, notifier notify.Notifier) *Service {
	return &Service{
		store:     store,
		snapshots: snapshots,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Start begins (or re-enters) the attempt for the pair. Every call bumps the
// retry counter by exactly one and restamps started_at; a completed attempt
// re-enters in_progress with its previous score intact until the next
// submission overwrites it.
func (s *Service) Start(session *models.Session, studentID string, exerciseID int64) (*models.AttemptView, error) {
	if !session.CanActForStudent(studentID) {
		return nil, fmt.Errorf("%w: session user %s cannot start attempts for %s",
			models.ErrPermission, session.UserID, studentID)
	}

	exercise, err := s.store.GetExerciseByID(exerciseID)
	if err != nil {
		return nil, err
	}
	if !exercise.IsPublished {
		return nil, fmt.Errorf("%w: exercise %d is not published", models.ErrInvalidState, exerciseID)
	}

	attempt, err := s.store.StartAttempt(studentID, exerciseID)
	if err != nil {
		return nil, err
	}

	s.snapshots.InvalidateStudent(studentID)

	utils.LogInfo("Exercise %d started by student %s (attempt #%d)",
		exerciseID, studentID, attempt.Attempts)

	return &models.AttemptView{Attempt: *attempt}, nil
}

// Submit grades the answers and finishes the attempt cycle. Resubmission is
// allowed and always re-scored; the latest score is authoritative. Answers
// are stored verbatim as a full overwrite, never merged.
func (s *Service) Submit(session *models.Session, studentID string, req models.SubmitRequest) (*models.AttemptView, error) {
	if !session.CanActForStudent(studentID) {
		return nil, fmt.Errorf("%w: session user %s cannot submit for %s",
			models.ErrPermission, session.UserID, studentID)
	}

	exercise, err := s.store.GetExerciseByID(req.ExerciseID)
	if err != nil {
		return nil, err
	}

	attempt, err := s.store.GetAttempt(studentID, req.ExerciseID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: no attempt exists, start the exercise first",
				models.ErrInvalidState)
		}
		return nil, err
	}

	if attempt.Status == models.StatusNotStarted {
		return nil, fmt.Errorf("%w: attempt has not been started", models.ErrInvalidState)
	}

	score, detail := scoring.Score(exercise, req.Answers)
	now := s.now().UTC()

	attempt.Answers = req.Answers
	attempt.Score = &score
	attempt.SubmittedAt = &now
	if req.TimeSpent > 0 {
		attempt.TimeSpent += req.TimeSpent
	}

	if exercise.Type == models.TypeEssay {
		// Essay work waits on manual grading; the attempt parks in
		// "submitted" and no completion event fires yet.
		attempt.Status = models.StatusSubmitted
		attempt.CompletedAt = nil
	} else {
		attempt.Status = models.StatusCompleted
		attempt.CompletedAt = &now
	}

	updated, err := s.store.UpdateAttemptSubmission(attempt)
	if err != nil {
		return nil, err
	}

	s.snapshots.InvalidateStudent(studentID)

	utils.LogInfo("Answers submitted for exercise %d by student %s, score: %.1f",
		req.ExerciseID, studentID, score)

	if updated.Status == models.StatusCompleted {
		event := models.CompletionEvent{
			StudentID:   studentID,
			ExerciseID:  req.ExerciseID,
			Score:       score,
			CompletedAt: now,
		}
		if err := s.notifier.NotifyCompletion(event); err != nil {
			// Notification delivery is best-effort; the submission stands.
			utils.LogError("Failed to emit completion event for student %s, exercise %d: %v",
				studentID, req.ExerciseID, err)
		}
	}

	return &models.AttemptView{Attempt: *updated, Detail: detail}, nil
}
