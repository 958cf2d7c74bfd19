package models

import "time"

// Class groups students under a professor.
type Class struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Subject     string    `json:"subject"`
	ProfessorID string    `json:"professor_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ClassRequest for creating/updating classes
type ClassRequest struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
}

// Enrollment links a student to a class.
type Enrollment struct {
	ID         int64     `json:"id"`
	ClassID    int64     `json:"class_id"`
	StudentID  string    `json:"student_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}
