package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AmazzarK/back-edu-math-AI/models"
	"github.com/AmazzarK/back-edu-math-AI/utils"
)

const attemptColumns = `id, student_id, exercise_id, status, attempts, answers, score,
	time_spent, started_at, submitted_at, completed_at, created_at, updated_at`

func (db *DB) GetAttempt(studentID string, exerciseID int64) (*models.Attempt, error) {
	utils.LogDB("Executing query: GetAttempt(%s, %d)", studentID, exerciseID)

	row := db.QueryRow(`
		SELECT `+attemptColumns+`
		FROM attempts WHERE student_id = ? AND exercise_id = ?
	`, studentID, exerciseID)

	a, err := scanAttempt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: attempt for student %s on exercise %d",
				models.ErrNotFound, studentID, exerciseID)
		}
		utils.LogError("GetAttempt(%s, %d) failed: %v", studentID, exerciseID, err)
		return nil, err
	}

	return a, nil
}

// StartAttempt creates or re-enters the single attempt row for the pair in
// one statement. Concurrent starts serialize on the UNIQUE(student_id,
// exercise_id) constraint, so exactly one row ever exists and every call
// bumps the retry counter exactly once.
func (db *DB) StartAttempt(studentID string, exerciseID int64) (*models.Attempt, error) {
	utils.LogDB("Starting attempt: student %s, exercise %d", studentID, exerciseID)
	start := time.Now()

	now := time.Now().UTC()
	_, err := db.Exec(`
		INSERT INTO attempts (student_id, exercise_id, status, attempts, started_at, created_at, updated_at)
		VALUES (?, ?, 'in_progress', 1, ?, ?, ?)
		ON CONFLICT(student_id, exercise_id) DO UPDATE SET
			status = 'in_progress',
			attempts = attempts + 1,
			started_at = excluded.started_at,
			updated_at = excluded.updated_at
	`, studentID, exerciseID, now, now, now)

	if err != nil {
		duration := time.Since(start)
		utils.LogError("StartAttempt failed: %v (%v)", err, duration)
		return nil, err
	}

	duration := time.Since(start)
	utils.LogDB("Attempt started for student %s, exercise %d in %v", studentID, exerciseID, duration)

	return db.GetAttempt(studentID, exerciseID)
}

// UpdateAttemptSubmission writes the result of one grading pass: answers are
// overwritten verbatim, the latest score becomes authoritative, and the
// caller-supplied seconds are added to the accumulated total.
func (db *DB) UpdateAttemptSubmission(a *models.Attempt) (*models.Attempt, error) {
	utils.LogDB("Recording submission: student %s, exercise %d, status %s",
		a.StudentID, a.ExerciseID, a.Status)
	start := time.Now()

	answersJSON, err := json.Marshal(a.Answers)
	if err != nil {
		return nil, fmt.Errorf("%w: answers not serializable: %v", models.ErrValidation, err)
	}

	result, err := db.Exec(`
		UPDATE attempts
		SET status = ?, answers = ?, score = ?, time_spent = ?, submitted_at = ?,
		    completed_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE student_id = ? AND exercise_id = ?
	`, a.Status, string(answersJSON), a.Score, a.TimeSpent, a.SubmittedAt, a.CompletedAt,
		a.StudentID, a.ExerciseID)

	if err != nil {
		duration := time.Since(start)
		utils.LogError("UpdateAttemptSubmission failed: %v (%v)", err, duration)
		return nil, err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return nil, fmt.Errorf("%w: attempt for student %s on exercise %d",
			models.ErrNotFound, a.StudentID, a.ExerciseID)
	}

	duration := time.Since(start)
	utils.LogDB("Submission recorded for student %s, exercise %d in %v", a.StudentID, a.ExerciseID, duration)

	return db.GetAttempt(a.StudentID, a.ExerciseID)
}

func (db *DB) ListAttemptsByStudent(studentID string) ([]models.Attempt, error) {
	utils.LogDB("Listing attempts for student %s", studentID)

	rows, err := db.Query(`
		SELECT `+attemptColumns+`
		FROM attempts WHERE student_id = ?
		ORDER BY updated_at DESC
	`, studentID)
	if err != nil {
		utils.LogError("ListAttemptsByStudent query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	return collectAttempts(rows)
}

// ListAttemptsByStudents fetches the attempt sets for a class scope. The
// filtering happens here rather than in the aggregation code so the core
// rollup math stays a pure function over an in-memory slice.
func (db *DB) ListAttemptsByStudents(studentIDs []string) ([]models.Attempt, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}

	utils.LogDB("Listing attempts for %d students", len(studentIDs))

	placeholders := strings.Repeat("?,", len(studentIDs)-1) + "?"
	args := make([]interface{}, len(studentIDs))
	for i, id := range studentIDs {
		args[i] = id
	}

	rows, err := db.Query(`
		SELECT `+attemptColumns+`
		FROM attempts WHERE student_id IN (`+placeholders+`)
		ORDER BY updated_at DESC
	`, args...)
	if err != nil {
		utils.LogError("ListAttemptsByStudents query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	return collectAttempts(rows)
}

func (db *DB) ListAllAttempts() ([]models.Attempt, error) {
	utils.LogDB("Listing all attempts")
	start := time.Now()

	rows, err := db.Query(`SELECT ` + attemptColumns + ` FROM attempts ORDER BY updated_at DESC`)
	if err != nil {
		utils.LogError("ListAllAttempts query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	attempts, err := collectAttempts(rows)
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	utils.LogDB("ListAllAttempts completed: %d attempts in %v", len(attempts), duration)
	return attempts, nil
}

func scanAttempt(row rowScanner) (*models.Attempt, error) {
	var a models.Attempt
	var answersJSON sql.NullString

	err := row.Scan(&a.ID, &a.StudentID, &a.ExerciseID, &a.Status, &a.Attempts, &answersJSON,
		&a.Score, &a.TimeSpent, &a.StartedAt, &a.SubmittedAt, &a.CompletedAt,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if answersJSON.Valid && answersJSON.String != "" {
		if err := json.Unmarshal([]byte(answersJSON.String), &a.Answers); err != nil {
			return nil, fmt.Errorf("attempt %d has corrupt answers: %w", a.ID, err)
		}
	}

	return &a, nil
}

func collectAttempts(rows *sql.Rows) ([]models.Attempt, error) {
	var attempts []models.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			utils.LogError("Failed to scan attempt row: %v", err)
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}
