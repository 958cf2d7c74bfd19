// Package notify is the boundary to downstream notification delivery. The
// attempt service only ever sees the Notifier interface; delivery itself
// (email, webhooks) lives behind it.
package notify

import (
	"github.com/AmazzarK/back-edu-math-AI/models"
	"github.com/AmazzarK/back-edu-math-AI/utils"
)

// Notifier consumes completion events emitted by the attempt state machine.
type Notifier interface {
	NotifyCompletion(event models.CompletionEvent) error
}

// LogNotifier just logs events; the default when no queue is configured and
// the injectable stand-in for tests.
type LogNotifier struct{}

func (LogNotifier) NotifyCompletion(event models.CompletionEvent) error {
	utils.LogInfo("Completion event: student %s finished exercise %d with score %.1f",
		event.StudentID, event.ExerciseID, event.Score)
	return nil
}
