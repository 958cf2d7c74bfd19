package db

import (
	"database/sql"
	"fmt"

	"github.com/AmazzarK/back-edu-math-AI/utils"
	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
}

func InitDB(dbPath string) (*DB, error) {
	utils.LogStartup("Initializing database at: %s", dbPath)

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		utils.LogError("Failed to open database: %v", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		utils.LogError("Failed to ping database: %v", err)
		return nil, err
	}

	utils.LogStartup("Database connection established")

	if err := createTables(db); err != nil {
		utils.LogError("Failed to create tables: %v", err)
		return nil, err
	}

	utils.LogStartup("Database tables initialized successfully")
	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		// Users table
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			full_name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'student' CHECK (role IN ('student', 'professor', 'admin')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Classes table
		`CREATE TABLE IF NOT EXISTS classes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			subject TEXT NOT NULL,
			professor_id TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (professor_id) REFERENCES users(id)
		)`,

		// Enrollments table
		`CREATE TABLE IF NOT EXISTS enrollments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			class_id INTEGER NOT NULL,
			student_id TEXT NOT NULL,
			enrolled_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (class_id, student_id),
			FOREIGN KEY (class_id) REFERENCES classes(id) ON DELETE CASCADE,
			FOREIGN KEY (student_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Exercises table. Questions/solutions are stored as JSON but always
		// decoded into the typed models before anything touches them.
		`CREATE TABLE IF NOT EXISTS exercises (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT,
			subject TEXT NOT NULL,
			difficulty TEXT NOT NULL DEFAULT 'medium',
			type TEXT NOT NULL CHECK (type IN ('multiple_choice', 'short_answer', 'calculation', 'essay')),
			questions TEXT NOT NULL,
			solutions TEXT,
			max_score REAL NOT NULL CHECK (max_score > 0),
			time_limit INTEGER,
			is_published BOOLEAN NOT NULL DEFAULT 0,
			tags TEXT,
			created_by TEXT NOT NULL,
			class_id INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (created_by) REFERENCES users(id),
			FOREIGN KEY (class_id) REFERENCES classes(id)
		)`,

		// Attempts table. The UNIQUE constraint is the serialization point for
		// concurrent start/submit calls on the same (student, exercise) pair.
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			student_id TEXT NOT NULL,
			exercise_id INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'not_started' CHECK (status IN ('not_started', 'in_progress', 'submitted', 'completed')),
			attempts INTEGER NOT NULL DEFAULT 0,
			answers TEXT,
			score REAL,
			time_spent INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME,
			submitted_at DATETIME,
			completed_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (student_id, exercise_id),
			FOREIGN KEY (student_id) REFERENCES users(id),
			FOREIGN KEY (exercise_id) REFERENCES exercises(id)
		)`,
	}

	for i, query := range queries {
		utils.LogDB("Creating table %d/%d", i+1, len(queries))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	// Create indexes for performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_attempts_student_id ON attempts(student_id)",
		"CREATE INDEX IF NOT EXISTS idx_attempts_exercise_id ON attempts(exercise_id)",
		"CREATE INDEX IF NOT EXISTS idx_attempts_status ON attempts(status)",
		"CREATE INDEX IF NOT EXISTS idx_exercises_is_published ON exercises(is_published)",
		"CREATE INDEX IF NOT EXISTS idx_exercises_created_by ON exercises(created_by)",
		"CREATE INDEX IF NOT EXISTS idx_enrollments_class_id ON enrollments(class_id)",
	}

	for _, index := range indexes {
		if _, err := db.Exec(index); err != nil {
			utils.LogDB("Failed to create index (non-fatal): %v", err)
		}
	}

	return nil
}
