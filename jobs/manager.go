package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/AmazzarK/back-edu-math-AI/analytics"
	"github.com/AmazzarK/back-edu-math-AI/auth"
	"github.com/AmazzarK/back-edu-math-AI/models"
	"github.com/AmazzarK/back-edu-math-AI/utils"
	"github.com/hibiken/asynq"
)

const (
	TypeSendEmail        = "email:send"
	TypeCompletionNotice = "notification:completion"
	TypeWeeklyDigest     = "notification:weekly_digest"
)

// Directory is the storage lookup the job handlers need. *db.DB implements
// it.
type Directory interface {
	GetUserByID(id string) (*models.User, error)
	GetExerciseByID(id int64) (*models.Exercise, error)
	ListStudentIDs() ([]string, error)
}

type JobManager struct {
	client    *asynq.Client
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
}

type EmailPayload struct {
	To       string            `json:"to"`
	Subject  string            `json:"subject"`
	Body     string            `json:"body"`
	Type     string            `json:"type"`     // "completion", "digest", "notification", etc.
	Metadata map[string]string `json:"metadata"` // Extra data for logging/tracking
}

func NewJobManager(redisURL string) *JobManager {
	addr := strings.TrimPrefix(redisURL, "redis://")
	redisOpt := asynq.RedisClientOpt{
		Addr: addr,
	}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"critical": 6, // Completion notices, anything a student is waiting on
			"default":  3, // General notifications
			"low":      1, // Weekly digests
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			utils.LogError("Job failed: type=%s error=%v", task.Type(), err)
		}),
		Logger: &AsynqLogger{},
	})

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Logger: &AsynqLogger{},
	})

	mux := asynq.NewServeMux()

	return &JobManager{
		client:    client,
		server:    server,
		scheduler: scheduler,
		mux:       mux,
	}
}

func (jm *JobManager) RegisterHandlers(directory Directory, emailService *auth.EmailService, analyticsService *analytics.Service) {
	jm.mux.HandleFunc(TypeSendEmail, jm.handleSendEmail(emailService))
	jm.mux.HandleFunc(TypeCompletionNotice, jm.handleCompletionNotice(directory, emailService))
	jm.mux.HandleFunc(TypeWeeklyDigest, jm.handleWeeklyDigest(directory, emailService, analyticsService))
}

func (jm *JobManager) Start() error {
	utils.LogStartup("Starting job queue worker...")

	// Monday morning digest run
	if _, err := jm.scheduler.Register("0 8 * * 1",
		asynq.NewTask(TypeWeeklyDigest, nil),
		asynq.Queue("low"), asynq.MaxRetry(1)); err != nil {
		return fmt.Errorf("failed to register weekly digest schedule: %w", err)
	}
	if err := jm.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start job scheduler: %w", err)
	}

	return jm.server.Run(jm.mux)
}

func (jm *JobManager) Stop() {
	utils.LogShutdown("Stopping job queue...")
	jm.scheduler.Shutdown()
	jm.server.Stop()
	jm.server.Shutdown()
	jm.client.Close()
}

// NotifyCompletion queues the downstream notification for a finished attempt.
// It satisfies the notify.Notifier interface the attempt service depends on.
func (jm *JobManager) NotifyCompletion(event models.CompletionEvent) error {
	payloadBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal completion event: %w", err)
	}

	task := asynq.NewTask(TypeCompletionNotice, payloadBytes)
	info, err := jm.client.Enqueue(task,
		asynq.Queue("critical"),
		asynq.MaxRetry(5),
		asynq.Timeout(120*time.Second))
	if err != nil {
		return fmt.Errorf("failed to enqueue completion notice: %w", err)
	}

	utils.LogInfo("Queued completion notice: ID=%s student=%s exercise=%d",
		info.ID, event.StudentID, event.ExerciseID)
	return nil
}

// QueueEmail - Generic method to queue any email
func (jm *JobManager) QueueEmail(to, subject, body, emailType string, metadata map[string]string, priority string) error {
	if metadata == nil {
		metadata = make(map[string]string)
	}

	payload := EmailPayload{
		To:       to,
		Subject:  subject,
		Body:     body,
		Type:     emailType,
		Metadata: metadata,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	task := asynq.NewTask(TypeSendEmail, payloadBytes)

	// Set queue based on priority
	queue := "default"
	maxRetries := 3
	timeout := 60

	switch priority {
	case "critical":
		queue = "critical"
		maxRetries = 5
		timeout = 120
	case "low":
		queue = "low"
		maxRetries = 2
		timeout = 30
	}

	// Build options array to ensure timeout is always set
	var opts []asynq.Option
	opts = append(opts, asynq.Queue(queue))
	opts = append(opts, asynq.MaxRetry(maxRetries))

	timeoutDuration := time.Duration(timeout) * time.Second
	opts = append(opts, asynq.Timeout(timeoutDuration))

	info, err := jm.client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue email task: %w", err)
	}

	utils.LogInfo("Queued email job: ID=%s type=%s to=%s priority=%s timeout=%ds",
		info.ID, emailType, to, priority, timeout)
	return nil
}

func (jm *JobManager) handleSendEmail(emailService *auth.EmailService) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload EmailPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("failed to unmarshal email payload: %w", err)
		}

		utils.LogInfo("Processing email job: type=%s to=%s subject=%s", payload.Type, payload.To, payload.Subject)

		if err := emailService.SendEmail(payload.To, payload.Subject, payload.Body); err != nil {
			// Log metadata for debugging
			metadataStr := ""
			for k, v := range payload.Metadata {
				metadataStr += fmt.Sprintf("%s=%s ", k, v)
			}

			return fmt.Errorf("failed to send %s email to %s (metadata: %s): %w",
				payload.Type, payload.To, metadataStr, err)
		}

		utils.LogInfo("Successfully sent %s email to %s", payload.Type, payload.To)
		return nil
	}
}

func (jm *JobManager) handleCompletionNotice(directory Directory, emailService *auth.EmailService) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var event models.CompletionEvent
		if err := json.Unmarshal(task.Payload(), &event); err != nil {
			return fmt.Errorf("failed to unmarshal completion event: %w", err)
		}

		user, err := directory.GetUserByID(event.StudentID)
		if err != nil {
			return fmt.Errorf("failed to look up student %s: %w", event.StudentID, err)
		}
		exercise, err := directory.GetExerciseByID(event.ExerciseID)
		if err != nil {
			return fmt.Errorf("failed to look up exercise %d: %w", event.ExerciseID, err)
		}

		subject, body := emailService.BuildCompletionEmail(user, exercise.Title, event.Score)
		if err := emailService.SendEmail(user.Email, subject, body); err != nil {
			return fmt.Errorf("failed to send completion notice to %s: %w", user.Email, err)
		}

		utils.LogInfo("Sent completion notice to %s for exercise %d", user.Email, event.ExerciseID)
		return nil
	}
}

func (jm *JobManager) handleWeeklyDigest(directory Directory, emailService *auth.EmailService, analyticsService *analytics.Service) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		studentIDs, err := directory.ListStudentIDs()
		if err != nil {
			return fmt.Errorf("failed to list students for digest: %w", err)
		}

		utils.LogInfo("Running weekly digest for %d student(s)", len(studentIDs))

		failures := 0
		for _, studentID := range studentIDs {
			user, err := directory.GetUserByID(studentID)
			if err != nil {
				utils.LogError("Digest: could not load student %s: %v", studentID, err)
				failures++
				continue
			}

			snapshot, err := analyticsService.StudentSnapshot(studentID)
			if err != nil {
				utils.LogError("Digest: could not build snapshot for %s: %v", studentID, err)
				failures++
				continue
			}

			subject, body := emailService.BuildDigestEmail(user, snapshot)
			if err := jm.QueueEmail(user.Email, subject, body, "digest",
				map[string]string{"student_id": studentID}, "low"); err != nil {
				utils.LogError("Digest: could not queue email for %s: %v", studentID, err)
				failures++
			}
		}

		if failures > 0 {
			return fmt.Errorf("weekly digest finished with %d failure(s)", failures)
		}
		return nil
	}
}

// Custom logger that routes asynq output through the shared logging helpers.
type AsynqLogger struct{}

func (l *AsynqLogger) Debug(args ...interface{}) {
	utils.LogDebug(fmt.Sprint(args...))
}

func (l *AsynqLogger) Info(args ...interface{}) {
	utils.LogInfo(fmt.Sprint(args...))
}

func (l *AsynqLogger) Warn(args ...interface{}) {
	utils.LogError(fmt.Sprint(args...))
}

func (l *AsynqLogger) Error(args ...interface{}) {
	utils.LogError(fmt.Sprint(args...))
}

func (l *AsynqLogger) Fatal(args ...interface{}) {
	utils.LogError(fmt.Sprint(args...))
}
