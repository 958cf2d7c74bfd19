package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/AmazzarK/back-edu-math-AI/db"
	"github.com/AmazzarK/back-edu-math-AI/models"
	"github.com/AmazzarK/back-edu-math-AI/utils"
)

type ClassHandlers struct {
	db *db.DB
}

func NewClassHandlers(database *db.DB) *ClassHandlers {
	return &ClassHandlers{db: database}
}

func (ch *ClassHandlers) HandleClasses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ch.listMine(w, r)
	case http.MethodPost:
		ch.create(w, r)
	default:
		utils.LogHTTP("Method %s not allowed for /classes", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleClassByID routes /classes/{id}, /classes/{id}/enroll and
// /classes/{id}/students.
func (ch *ClassHandlers) HandleClassByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/classes/")
	parts := strings.Split(path, "/")

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		utils.LogHTTP("Invalid class ID: %s", parts[0])
		http.Error(w, "Invalid class ID", http.StatusBadRequest)
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		ch.getByID(w, r, id)
	case len(parts) == 2 && parts[1] == "enroll" && r.Method == http.MethodPost:
		ch.enroll(w, r, id)
	case len(parts) == 2 && parts[1] == "students" && r.Method == http.MethodGet:
		ch.listStudents(w, r, id)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (ch *ClassHandlers) create(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())

	var req models.ClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in class request: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	class, err := ch.db.CreateClass(req, session.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	utils.LogHTTP("Class %d created by %s", class.ID, session.UserID)
	writeJSON(w, http.StatusCreated, class)
}

func (ch *ClassHandlers) listMine(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())

	classes, err := ch.db.ListClassesByProfessor(session.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"classes": classes,
		"count":   len(classes),
	})
}

func (ch *ClassHandlers) getByID(w http.ResponseWriter, r *http.Request, id int64) {
	class, err := ch.db.GetClassByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, class)
}

func (ch *ClassHandlers) enroll(w http.ResponseWriter, r *http.Request, classID int64) {
	session := getSessionFromContext(r.Context())
	if session == nil || !session.CanManageClasses() {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	class, err := ch.db.GetClassByID(classID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if session.Role != models.RoleAdmin && class.ProfessorID != session.UserID {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	var req struct {
		StudentID string `json:"student_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StudentID == "" {
		http.Error(w, "student_id is required", http.StatusBadRequest)
		return
	}

	// The student must exist and actually be a student
	student, err := ch.db.GetUserByID(req.StudentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if student.Role != models.RoleStudent {
		http.Error(w, "User is not a student", http.StatusBadRequest)
		return
	}

	enrollment, err := ch.db.EnrollStudent(classID, req.StudentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	utils.LogHTTP("Student %s enrolled in class %d by %s", req.StudentID, classID, session.UserID)
	writeJSON(w, http.StatusCreated, enrollment)
}

func (ch *ClassHandlers) listStudents(w http.ResponseWriter, r *http.Request, classID int64) {
	session := getSessionFromContext(r.Context())
	if session == nil || !session.CanManageClasses() {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	if _, err := ch.db.GetClassByID(classID); err != nil {
		writeDomainError(w, err)
		return
	}

	ids, err := ch.db.ListEnrolledStudentIDs(classID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student_ids": ids,
		"count":       len(ids),
	})
}
