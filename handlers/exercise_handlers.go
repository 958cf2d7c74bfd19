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

type ExerciseHandlers struct {
	db *db.DB
}

func NewExerciseHandlers(database *db.DB) *ExerciseHandlers {
	return &ExerciseHandlers{db: database}
}

func (eh *ExerciseHandlers) HandleExercises(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		eh.listPublished(w, r)
	case http.MethodPost:
		eh.create(w, r)
	default:
		utils.LogHTTP("Method %s not allowed for /exercises", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (eh *ExerciseHandlers) HandleExerciseByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/exercises/")
	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		utils.LogHTTP("Invalid exercise ID: %s", path)
		http.Error(w, "Invalid exercise ID", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		eh.getByID(w, r, id)
	case http.MethodPut:
		eh.update(w, r, id)
	case http.MethodDelete:
		eh.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (eh *ExerciseHandlers) listPublished(w http.ResponseWriter, r *http.Request) {
	exercises, err := eh.db.ListPublishedExercises()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	session := getSessionFromContext(r.Context())

	// Students never see solutions
	if session != nil && !session.CanAuthorExercises() {
		for i := range exercises {
			exercises[i] = exercises[i].Sanitized()
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"exercises": exercises,
		"count":     len(exercises),
	})
}

func (eh *ExerciseHandlers) create(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == nil || !session.CanAuthorExercises() {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	var req models.ExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in exercise request: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	exercise, err := eh.db.CreateExercise(req, session.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	utils.LogHTTP("Exercise %d created by %s", exercise.ID, session.UserID)
	writeJSON(w, http.StatusCreated, exercise)
}

func (eh *ExerciseHandlers) getByID(w http.ResponseWriter, r *http.Request, id int64) {
	exercise, err := eh.db.GetExerciseByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	session := getSessionFromContext(r.Context())
	if session != nil && !session.CanAuthorExercises() {
		// Unpublished work stays invisible to students
		if !exercise.IsPublished {
			http.Error(w, "Exercise not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, exercise.Sanitized())
		return
	}

	writeJSON(w, http.StatusOK, exercise)
}

func (eh *ExerciseHandlers) update(w http.ResponseWriter, r *http.Request, id int64) {
	session := getSessionFromContext(r.Context())
	if session == nil || !session.CanAuthorExercises() {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	existing, err := eh.db.GetExerciseByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// Professors can only touch their own exercises; admins can touch any
	if session.Role != models.RoleAdmin && existing.CreatedBy != session.UserID {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	var req models.ExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in exercise update: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	exercise, err := eh.db.UpdateExercise(id, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	utils.LogHTTP("Exercise %d updated by %s", id, session.UserID)
	writeJSON(w, http.StatusOK, exercise)
}

func (eh *ExerciseHandlers) delete(w http.ResponseWriter, r *http.Request, id int64) {
	session := getSessionFromContext(r.Context())
	if session == nil || !session.CanAuthorExercises() {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	existing, err := eh.db.GetExerciseByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if session.Role != models.RoleAdmin && existing.CreatedBy != session.UserID {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	if err := eh.db.DeleteExercise(id); err != nil {
		writeDomainError(w, err)
		return
	}

	utils.LogHTTP("Exercise %d deleted by %s", id, session.UserID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Exercise deleted"})
}

func (eh *ExerciseHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := getSessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	exercises, err := eh.db.ListExercisesByCreator(session.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"exercises": exercises,
		"count":     len(exercises),
	})
}
