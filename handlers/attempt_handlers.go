package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/AmazzarK/back-edu-math-AI/attempts"
	"github.com/AmazzarK/back-edu-math-AI/db"
	"github.com/AmazzarK/back-edu-math-AI/models"
	"github.com/AmazzarK/back-edu-math-AI/utils"
)

type AttemptHandlers struct {
	db      *db.DB
	service *attempts.Service
}

func NewAttemptHandlers(database *db.DB, service *attempts.Service) *AttemptHandlers {
	return &AttemptHandlers{
		db:      database,
		service: service,
	}
}

// Start begins or retries the caller's attempt on an exercise.
func (ah *AttemptHandlers) Start(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := getSessionFromContext(r.Context())

	var req models.StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in start request: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.ExerciseID == 0 {
		http.Error(w, "exercise_id is required", http.StatusBadRequest)
		return
	}

	view, err := ah.service.Start(session, session.UserID, req.ExerciseID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Submit grades the caller's answers for an exercise they started.
func (ah *AttemptHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := getSessionFromContext(r.Context())

	var req models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in submit request: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.ExerciseID == 0 {
		http.Error(w, "exercise_id is required", http.StatusBadRequest)
		return
	}

	view, err := ah.service.Submit(session, session.UserID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// ListOwn returns every attempt belonging to the caller.
func (ah *AttemptHandlers) ListOwn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := getSessionFromContext(r.Context())

	list, err := ah.db.ListAttemptsByStudent(session.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"attempts": list,
		"count":    len(list),
	})
}
