package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/AmazzarK/back-edu-math-AI/analytics"
	"github.com/AmazzarK/back-edu-math-AI/attempts"
	"github.com/AmazzarK/back-edu-math-AI/auth"
	"github.com/AmazzarK/back-edu-math-AI/cache"
	"github.com/AmazzarK/back-edu-math-AI/db"
	"github.com/AmazzarK/back-edu-math-AI/handlers"
	"github.com/AmazzarK/back-edu-math-AI/jobs"
	"github.com/AmazzarK/back-edu-math-AI/notify"
	"github.com/AmazzarK/back-edu-math-AI/utils"
)

func main() {
	utils.LogStartup("Math learning platform starting...")

	// Load .env file if present, real environment wins
	if err := godotenv.Load(); err != nil {
		utils.LogStartup("No .env file found, using environment variables")
	}

	port := utils.GetEnvOrDefault("PORT", "8043")
	dbPath := utils.GetEnvOrDefault("DB_PATH", "./edu-math.db")
	redisURL := utils.GetEnvOrDefault("REDIS_URL", "")

	utils.LogStartup("Config: port=%s db=%s", port, dbPath)

	// Initialize database
	database, err := db.InitDB(dbPath)
	if err != nil {
		utils.LogError("Failed to initialize database: %v", err)
		os.Exit(1)
	}

	// Session store
	sessionStore := auth.NewSessionStore()

	// Snapshot cache
	cacheConfig := cache.LoadConfigFromEnv()
	snapshots := cache.NewSnapshotCache(cacheConfig)
	utils.LogStartup("Snapshot cache TTLs: %s", cacheConfig)

	// Analytics service
	analyticsService := analytics.NewService(database, snapshots)

	// Email + job queue. Without Redis the queue is skipped and completion
	// events only get logged.
	emailConfig := auth.LoadEmailConfig()
	emailService := auth.NewEmailService(emailConfig)

	var notifier notify.Notifier = notify.LogNotifier{}
	var jobManager *jobs.JobManager
	if redisURL != "" {
		jobManager = jobs.NewJobManager(redisURL)
		jobManager.RegisterHandlers(database, emailService, analyticsService)
		notifier = jobManager

		go func() {
			if err := jobManager.Start(); err != nil {
				utils.LogError("Job queue stopped: %v", err)
			}
		}()
	} else {
		utils.LogStartup("REDIS_URL not set, job queue disabled")
	}

	// Attempt state machine
	attemptService := attempts.NewService(database, snapshots, notifier)

	// Routes
	router := handlers.NewRouter(database, sessionStore, attemptService, analyticsService)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		utils.LogShutdown("Received shutdown signal")

		if jobManager != nil {
			jobManager.Stop()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			utils.LogError("Server shutdown error: %v", err)
		}

		if err := database.Close(); err != nil {
			utils.LogError("Error closing database: %v", err)
		} else {
			utils.LogShutdown("Database connection closed")
		}
	}()

	utils.LogStartup("HTTP server listening on port %s", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		utils.LogError("Server failed: %v", err)
		os.Exit(1)
	}
	utils.LogShutdown("Server stopped")
}
