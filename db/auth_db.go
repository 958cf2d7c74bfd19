package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AmazzarK/back-edu-math-AI/models"
	"github.com/AmazzarK/back-edu-math-AI/utils"
	"github.com/google/uuid"
)

func (db *DB) CreateUser(req models.RegisterRequest, passwordHash string) (*models.User, error) {
	utils.LogDB("Creating user %s (role: %s)", req.Email, req.Role)
	start := time.Now()

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}

	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO users (id, full_name, email, password_hash, role)
		VALUES (?, ?, ?, ?, ?)
	`, id, req.FullName, req.Email, passwordHash, role)

	if err != nil {
		duration := time.Since(start)
		utils.LogError("CreateUser failed: %v (%v)", err, duration)
		return nil, err
	}

	duration := time.Since(start)
	utils.LogDB("User created with ID %s in %v", id, duration)

	return db.GetUserByID(id)
}

func (db *DB) GetUserByID(id string) (*models.User, error) {
	utils.LogDB("Executing query: GetUserByID(%s)", id)

	var u models.User
	err := db.QueryRow(`
		SELECT id, full_name, email, password_hash, role, created_at, updated_at
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, id)
		}
		utils.LogError("GetUserByID(%s) failed: %v", id, err)
		return nil, err
	}

	return &u, nil
}

func (db *DB) GetUserByEmail(email string) (*models.User, error) {
	utils.LogDB("Executing query: GetUserByEmail(%s)", email)

	var u models.User
	err := db.QueryRow(`
		SELECT id, full_name, email, password_hash, role, created_at, updated_at
		FROM users WHERE email = ?
	`, email).Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user with email %s", models.ErrNotFound, email)
		}
		utils.LogError("GetUserByEmail(%s) failed: %v", email, err)
		return nil, err
	}

	return &u, nil
}

func (db *DB) ListStudentIDs() ([]string, error) {
	utils.LogDB("Listing student IDs")

	rows, err := db.Query(`SELECT id FROM users WHERE role = 'student' ORDER BY id`)
	if err != nil {
		utils.LogError("ListStudentIDs query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			utils.LogError("Failed to scan student ID: %v", err)
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
