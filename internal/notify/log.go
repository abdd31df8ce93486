package notify

import (
	"context"
	"log/slog"

	"github.com/terra-clan/course-demand/internal/models"
)

// LogNotifier writes every event to a structured logger
type LogNotifier struct {
	BaseNotifier
	logger *slog.Logger
}

// NewLogNotifier creates a notifier logging through logger (slog.Default if nil)
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{
		BaseNotifier: BaseNotifier{notifierType: "log"},
		logger:       logger,
	}
}

// Notify logs the event
func (n *LogNotifier) Notify(ctx context.Context, event models.Event) error {
	n.logger.InfoContext(ctx, "session event",
		"type", event.Type,
		"session_id", event.SessionID,
		"course_id", event.CourseID,
		"college", event.College,
		"request_count", event.RequestCount,
	)
	return nil
}

// HealthCheck always succeeds
func (n *LogNotifier) HealthCheck(ctx context.Context) error {
	return nil
}
