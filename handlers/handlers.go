package handlers

import (
	"net/http"

	"github.com/AmazzarK/back-edu-math-AI/analytics"
	"github.com/AmazzarK/back-edu-math-AI/attempts"
	"github.com/AmazzarK/back-edu-math-AI/auth"
	"github.com/AmazzarK/back-edu-math-AI/db"
	"github.com/AmazzarK/back-edu-math-AI/models"
	"github.com/AmazzarK/back-edu-math-AI/utils"
)

// API wrapper to hold all handlers
type API struct {
	authHandlers      *AuthHandlers
	exerciseHandlers  *ExerciseHandlers
	classHandlers     *ClassHandlers
	attemptHandlers   *AttemptHandlers
	analyticsHandlers *AnalyticsHandlers
}

func NewAPI(database *db.DB, sessionStore *auth.SessionStore, attemptService *attempts.Service, analyticsService *analytics.Service) *API {
	return &API{
		authHandlers:      NewAuthHandlers(database, sessionStore),
		exerciseHandlers:  NewExerciseHandlers(database),
		classHandlers:     NewClassHandlers(database),
		attemptHandlers:   NewAttemptHandlers(database, attemptService),
		analyticsHandlers: NewAnalyticsHandlers(database, analyticsService),
	}
}

func NewRouter(database *db.DB, sessionStore *auth.SessionStore, attemptService *attempts.Service, analyticsService *analytics.Service) http.Handler {
	api := NewAPI(database, sessionStore, attemptService, analyticsService)

	mux := http.NewServeMux()
	withAuth := authMiddleware(sessionStore)

	// Health check (no auth required)
	mux.HandleFunc("/health", healthCheck)

	// Auth endpoints (handle their own auth as needed)
	mux.HandleFunc("/auth/", api.authHandlers.HandleAuth)

	// Exercise routes with auth. Authoring is gated per-method inside the
	// handler since GET and POST share the path.
	mux.HandleFunc("/exercises", withAuth(api.exerciseHandlers.HandleExercises))
	mux.HandleFunc("/exercises/", withAuth(api.exerciseHandlers.HandleExerciseByID))
	mux.HandleFunc("/exercises/mine", withAuth(requireRole(models.RoleProfessor, models.RoleAdmin)(api.exerciseHandlers.ListMine)))

	// Class routes with auth
	mux.HandleFunc("/classes", withAuth(requireRole(models.RoleProfessor, models.RoleAdmin)(api.classHandlers.HandleClasses)))
	mux.HandleFunc("/classes/", withAuth(api.classHandlers.HandleClassByID))

	// Attempt routes with auth
	mux.HandleFunc("/attempts", withAuth(api.attemptHandlers.ListOwn))
	mux.HandleFunc("/attempts/start", withAuth(api.attemptHandlers.Start))
	mux.HandleFunc("/attempts/submit", withAuth(api.attemptHandlers.Submit))

	// Analytics routes with auth; scope permission checks live in the handler
	mux.HandleFunc("/analytics/students/", withAuth(api.analyticsHandlers.StudentAnalytics))
	mux.HandleFunc("/analytics/classes/", withAuth(api.analyticsHandlers.ClassAnalytics))
	mux.HandleFunc("/analytics/platform", withAuth(requireRole(models.RoleAdmin)(api.analyticsHandlers.PlatformAnalytics)))

	return corsMiddleware(loggingMiddleware(mux))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	utils.LogHTTP("Health check requested")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
