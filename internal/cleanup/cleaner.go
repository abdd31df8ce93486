package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/terra-clan/course-demand/internal/models"
)

// SessionStore is the part of the session manager the cleaner needs
type SessionStore interface {
	GetExpired(ctx context.Context) ([]*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// Cleaner handles periodic cleanup of expired session workspaces
type Cleaner struct {
	store    SessionStore
	interval time.Duration
}

// NewCleaner creates a new cleanup worker
func NewCleaner(store SessionStore, interval time.Duration) *Cleaner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Cleaner{
		store:    store,
		interval: interval,
	}
}

// Start begins the cleanup worker in a goroutine
func (c *Cleaner) Start(ctx context.Context) {
	go c.run(ctx)
}

// run is the main loop for the cleanup worker
func (c *Cleaner) run(ctx context.Context) {
	slog.Info("cleanup worker started", "interval", c.interval)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Run immediately on start
	c.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("cleanup worker stopped")
			return
		case <-ticker.C:
			c.Sweep(ctx)
		}
	}
}

// Sweep deletes every expired workspace and returns how many were removed
func (c *Cleaner) Sweep(ctx context.Context) int {
	expired, err := c.store.GetExpired(ctx)
	if err != nil {
		slog.Error("failed to get expired sessions", "error", err)
		return 0
	}

	if len(expired) == 0 {
		slog.Debug("no expired sessions found")
		return 0
	}

	slog.Info("found expired sessions", "count", len(expired))

	removed := 0
	for _, s := range expired {
		if err := c.store.Delete(ctx, s.ID); err != nil {
			slog.Error("failed to delete expired session", "error", err, "session_id", s.ID)
			continue
		}
		removed++

		slog.Info("expired session deleted",
			"session_id", s.ID,
			"authenticated", s.IsAuthenticated(),
			"requested", s.Requested,
			"expired_at", s.ExpiresAt,
		)
	}
	return removed
}
