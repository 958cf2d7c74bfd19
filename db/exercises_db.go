package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AmazzarK/back-edu-math-AI/models"
	"github.com/AmazzarK/back-edu-math-AI/utils"
)

func (db *DB) CreateExercise(req models.ExerciseRequest, createdBy string) (*models.Exercise, error) {
	utils.LogDB("Creating %s exercise %q by user %s", req.Type, req.Title, createdBy)
	start := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	questionsJSON, err := json.Marshal(req.Questions)
	if err != nil {
		return nil, fmt.Errorf("%w: questions not serializable: %v", models.ErrValidation, err)
	}
	solutionsJSON, err := json.Marshal(req.Solutions)
	if err != nil {
		return nil, fmt.Errorf("%w: solutions not serializable: %v", models.ErrValidation, err)
	}
	tagsJSON, _ := json.Marshal(req.Tags)

	result, err := db.Exec(`
		INSERT INTO exercises (title, description, subject, difficulty, type, questions, solutions,
		                       max_score, time_limit, is_published, tags, created_by, class_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, req.Title, req.Description, req.Subject, req.Difficulty, req.Type, string(questionsJSON),
		string(solutionsJSON), req.MaxScore, req.TimeLimit, req.IsPublished, string(tagsJSON),
		createdBy, req.ClassID)

	if err != nil {
		duration := time.Since(start)
		utils.LogError("CreateExercise failed: %v (%v)", err, duration)
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		utils.LogError("Failed to get exercise LastInsertId: %v", err)
		return nil, err
	}

	duration := time.Since(start)
	utils.LogDB("Exercise created with ID %d in %v", id, duration)

	return db.GetExerciseByID(id)
}

func (db *DB) GetExerciseByID(id int64) (*models.Exercise, error) {
	utils.LogDB("Executing query: GetExerciseByID(%d)", id)

	row := db.QueryRow(`
		SELECT id, title, description, subject, difficulty, type, questions, solutions,
		       max_score, time_limit, is_published, tags, created_by, class_id, created_at, updated_at
		FROM exercises WHERE id = ?
	`, id)

	ex, err := scanExercise(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: exercise %d", models.ErrNotFound, id)
		}
		utils.LogError("GetExerciseByID(%d) failed: %v", id, err)
		return nil, err
	}

	return ex, nil
}

// UpdateExercise replaces the mutable fields of a definition. Callers are
// expected to have checked ownership; versioning of definitions with live
// attempts is an authoring-side concern.
func (db *DB) UpdateExercise(id int64, req models.ExerciseRequest) (*models.Exercise, error) {
	utils.LogDB("Updating exercise %d", id)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	questionsJSON, _ := json.Marshal(req.Questions)
	solutionsJSON, _ := json.Marshal(req.Solutions)
	tagsJSON, _ := json.Marshal(req.Tags)

	result, err := db.Exec(`
		UPDATE exercises
		SET title = ?, description = ?, subject = ?, difficulty = ?, type = ?, questions = ?,
		    solutions = ?, max_score = ?, time_limit = ?, is_published = ?, tags = ?, class_id = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, req.Title, req.Description, req.Subject, req.Difficulty, req.Type, string(questionsJSON),
		string(solutionsJSON), req.MaxScore, req.TimeLimit, req.IsPublished, string(tagsJSON),
		req.ClassID, id)

	if err != nil {
		utils.LogError("UpdateExercise(%d) failed: %v", id, err)
		return nil, err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return nil, fmt.Errorf("%w: exercise %d", models.ErrNotFound, id)
	}

	return db.GetExerciseByID(id)
}

func (db *DB) DeleteExercise(id int64) error {
	utils.LogDB("Deleting exercise %d", id)

	result, err := db.Exec("DELETE FROM exercises WHERE id = ?", id)
	if err != nil {
		utils.LogError("DeleteExercise(%d) failed: %v", id, err)
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("%w: exercise %d", models.ErrNotFound, id)
	}
	return nil
}

func (db *DB) ListPublishedExercises() ([]models.Exercise, error) {
	utils.LogDB("Listing published exercises")
	start := time.Now()

	rows, err := db.Query(`
		SELECT id, title, description, subject, difficulty, type, questions, solutions,
		       max_score, time_limit, is_published, tags, created_by, class_id, created_at, updated_at
		FROM exercises WHERE is_published = 1
		ORDER BY created_at DESC
	`)
	if err != nil {
		utils.LogError("ListPublishedExercises query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	exercises, err := collectExercises(rows)
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	utils.LogDB("ListPublishedExercises completed: %d exercises in %v", len(exercises), duration)
	return exercises, nil
}

func (db *DB) ListExercisesByCreator(creatorID string) ([]models.Exercise, error) {
	utils.LogDB("Listing exercises created by %s", creatorID)

	rows, err := db.Query(`
		SELECT id, title, description, subject, difficulty, type, questions, solutions,
		       max_score, time_limit, is_published, tags, created_by, class_id, created_at, updated_at
		FROM exercises WHERE created_by = ?
		ORDER BY created_at DESC
	`, creatorID)
	if err != nil {
		utils.LogError("ListExercisesByCreator query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	return collectExercises(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExercise(row rowScanner) (*models.Exercise, error) {
	var ex models.Exercise
	var questionsJSON string
	var solutionsJSON, tagsJSON sql.NullString

	err := row.Scan(&ex.ID, &ex.Title, &ex.Description, &ex.Subject, &ex.Difficulty, &ex.Type,
		&questionsJSON, &solutionsJSON, &ex.MaxScore, &ex.TimeLimit, &ex.IsPublished, &tagsJSON,
		&ex.CreatedBy, &ex.ClassID, &ex.CreatedAt, &ex.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(questionsJSON), &ex.Questions); err != nil {
		return nil, fmt.Errorf("exercise %d has corrupt questions: %w", ex.ID, err)
	}
	if solutionsJSON.Valid && solutionsJSON.String != "" {
		if err := json.Unmarshal([]byte(solutionsJSON.String), &ex.Solutions); err != nil {
			return nil, fmt.Errorf("exercise %d has corrupt solutions: %w", ex.ID, err)
		}
	}
	if tagsJSON.Valid && tagsJSON.String != "" {
		json.Unmarshal([]byte(tagsJSON.String), &ex.Tags)
	}

	return &ex, nil
}

func collectExercises(rows *sql.Rows) ([]models.Exercise, error) {
	var exercises []models.Exercise
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			utils.LogError("Failed to scan exercise row: %v", err)
			return nil, err
		}
		exercises = append(exercises, *ex)
	}
	return exercises, rows.Err()
}
