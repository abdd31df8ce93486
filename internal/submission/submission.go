package submission

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/terra-clan/course-demand/internal/models"
)

// Handler receives completed course-request forms. Validation beyond
// presence and any persistence are the handler's business.
type Handler interface {
	Submit(ctx context.Context, sessionID string, form models.CourseRequestForm) (string, error)
}

// LogHandler acknowledges submissions by logging them
type LogHandler struct {
	logger *slog.Logger
}

// NewLogHandler creates a logging handler (slog.Default if logger is nil)
func NewLogHandler(logger *slog.Logger) *LogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogHandler{logger: logger}
}

// Submit logs the form and returns a fresh submission ID
func (h *LogHandler) Submit(ctx context.Context, sessionID string, form models.CourseRequestForm) (string, error) {
	id := uuid.New().String()
	h.logger.InfoContext(ctx, "course request submitted",
		"submission_id", id,
		"session_id", sessionID,
		"college", form.College,
		"semester", form.Semester,
		"course", form.CourseName,
		"department", form.Department,
	)
	return id, nil
}
