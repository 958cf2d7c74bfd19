package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AmazzarK/back-edu-math-AI/models"
	"github.com/AmazzarK/back-edu-math-AI/utils"
)

func (db *DB) CreateClass(req models.ClassRequest, professorID string) (*models.Class, error) {
	utils.LogDB("Creating class %q for professor %s", req.Name, professorID)
	start := time.Now()

	if req.Name == "" {
		return nil, fmt.Errorf("%w: class name is required", models.ErrValidation)
	}

	result, err := db.Exec(`
		INSERT INTO classes (name, subject, professor_id)
		VALUES (?, ?, ?)
	`, req.Name, req.Subject, professorID)

	if err != nil {
		duration := time.Since(start)
		utils.LogError("CreateClass failed: %v (%v)", err, duration)
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		utils.LogError("Failed to get class LastInsertId: %v", err)
		return nil, err
	}

	duration := time.Since(start)
	utils.LogDB("Class created with ID %d in %v", id, duration)

	return db.GetClassByID(id)
}

func (db *DB) GetClassByID(id int64) (*models.Class, error) {
	utils.LogDB("Executing query: GetClassByID(%d)", id)

	var c models.Class
	err := db.QueryRow(`
		SELECT id, name, subject, professor_id, created_at, updated_at
		FROM classes WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Subject, &c.ProfessorID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: class %d", models.ErrNotFound, id)
		}
		utils.LogError("GetClassByID(%d) failed: %v", id, err)
		return nil, err
	}

	return &c, nil
}

func (db *DB) ListClassesByProfessor(professorID string) ([]models.Class, error) {
	utils.LogDB("Listing classes for professor %s", professorID)

	rows, err := db.Query(`
		SELECT id, name, subject, professor_id, created_at, updated_at
		FROM classes WHERE professor_id = ?
		ORDER BY created_at DESC
	`, professorID)
	if err != nil {
		utils.LogError("ListClassesByProfessor query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	var classes []models.Class
	for rows.Next() {
		var c models.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.Subject, &c.ProfessorID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			utils.LogError("Failed to scan class row: %v", err)
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func (db *DB) EnrollStudent(classID int64, studentID string) (*models.Enrollment, error) {
	utils.LogDB("Enrolling student %s in class %d", studentID, classID)

	result, err := db.Exec(`
		INSERT INTO enrollments (class_id, student_id)
		VALUES (?, ?)
		ON CONFLICT(class_id, student_id) DO NOTHING
	`, classID, studentID)

	if err != nil {
		utils.LogError("EnrollStudent failed: %v", err)
		return nil, err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		utils.LogDB("Student %s already enrolled in class %d", studentID, classID)
	}

	var e models.Enrollment
	err = db.QueryRow(`
		SELECT id, class_id, student_id, enrolled_at
		FROM enrollments WHERE class_id = ? AND student_id = ?
	`, classID, studentID).Scan(&e.ID, &e.ClassID, &e.StudentID, &e.EnrolledAt)
	if err != nil {
		utils.LogError("Failed to read back enrollment: %v", err)
		return nil, err
	}

	return &e, nil
}

// ListEnrolledStudentIDs resolves the membership set that scopes class
// analytics.
func (db *DB) ListEnrolledStudentIDs(classID int64) ([]string, error) {
	utils.LogDB("Listing enrolled students for class %d", classID)

	rows, err := db.Query(`
		SELECT student_id FROM enrollments WHERE class_id = ? ORDER BY student_id
	`, classID)
	if err != nil {
		utils.LogError("ListEnrolledStudentIDs query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			utils.LogError("Failed to scan enrollment row: %v", err)
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
