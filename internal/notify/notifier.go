package notify

import (
	"context"

	"github.com/terra-clan/course-demand/internal/models"
)

// Notifier delivers workspace events to a collaborator (toast, pub/sub, websocket)
type Notifier interface {
	// Notify delivers one event
	Notify(ctx context.Context, event models.Event) error

	// Type returns the notifier type name
	Type() string

	// HealthCheck checks if the collaborator is reachable
	HealthCheck(ctx context.Context) error
}

// SessionCloser is implemented by notifiers holding per-session resources
// (stream subscriptions) that end with the session
type SessionCloser interface {
	CloseSession(sessionID string)
}

// BaseNotifier provides common functionality for notifiers
type BaseNotifier struct {
	notifierType string
}

// Type returns the notifier type
func (n *BaseNotifier) Type() string {
	return n.notifierType
}
