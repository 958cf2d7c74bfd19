package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/AmazzarK/back-edu-math-AI/analytics"
	"github.com/AmazzarK/back-edu-math-AI/db"
	"github.com/AmazzarK/back-edu-math-AI/models"
	"github.com/AmazzarK/back-edu-math-AI/utils"
)

type AnalyticsHandlers struct {
	db      *db.DB
	service *analytics.Service
}

func NewAnalyticsHandlers(database *db.DB, service *analytics.Service) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		db:      database,
		service: service,
	}
}

// StudentAnalytics serves /analytics/students/{id}. Students may only read
// their own snapshot; professors and admins may read anyone's.
func (anh *AnalyticsHandlers) StudentAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	studentID := strings.TrimPrefix(r.URL.Path, "/analytics/students/")
	if studentID == "" {
		http.Error(w, "Student ID is required", http.StatusBadRequest)
		return
	}

	session := getSessionFromContext(r.Context())
	if !session.CanViewStudent(studentID) {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	snapshot, err := anh.service.StudentSnapshot(studentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// ClassAnalytics serves /analytics/classes/{id}. Restricted to the class's
// professor and admins.
func (anh *AnalyticsHandlers) ClassAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/analytics/classes/")
	classID, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		utils.LogHTTP("Invalid class ID: %s", path)
		http.Error(w, "Invalid class ID", http.StatusBadRequest)
		return
	}

	session := getSessionFromContext(r.Context())
	if session == nil || !session.CanManageClasses() {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	class, err := anh.db.GetClassByID(classID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if session.Role != models.RoleAdmin && class.ProfessorID != session.UserID {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	studentIDs, err := anh.db.ListEnrolledStudentIDs(classID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	snapshot, err := anh.service.ClassSnapshot(classID, studentIDs)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// PlatformAnalytics serves /analytics/platform. Admin only; the role gate is
// applied in the router.
func (anh *AnalyticsHandlers) PlatformAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot, err := anh.service.PlatformSnapshot()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}
