package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/terra-clan/course-demand/internal/catalog"
	"github.com/terra-clan/course-demand/internal/controller"
	"github.com/terra-clan/course-demand/internal/models"
	"github.com/terra-clan/course-demand/internal/notify"
	"github.com/terra-clan/course-demand/internal/submission"
)

// Common errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// DefaultTTL is the idle lifetime of a workspace when none is configured
const DefaultTTL = 2 * time.Hour

// Manager defines the interface for session workspace management
type Manager interface {
	Create(ctx context.Context, opts CreateOptions) (*models.Session, error)
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters models.SessionFilters) ([]*models.Session, error)
	ExtendTTL(ctx context.Context, token string, duration time.Duration) (*models.Session, error)
	Dispatch(ctx context.Context, token string, in controller.Intent) (*controller.Outcome, *controller.View, error)
	View(ctx context.Context, token string) (*controller.View, error)
	Share(ctx context.Context, token, courseID string) (string, models.Progress, error)
	Suggest(ctx context.Context, token, query string) ([]string, error)
	GetExpired(ctx context.Context) ([]*models.Session, error)
	Ping(ctx context.Context) error
	Close() error
}

// CreateOptions holds optional parameters for session creation
type CreateOptions struct {
	TTL *time.Duration
}

// SeedSource provides the catalog new workspaces start from
type SeedSource interface {
	Courses() []models.Course
}

// Pinger is a backing dependency checked by Ping (e.g. the seed repository)
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures a MemoryManager
type Options struct {
	Seed        SeedSource
	Eligibility catalog.Eligibility
	Notifier    notify.Notifier
	Submitter   submission.Handler
	TTL         time.Duration
	HideDelay   time.Duration
	Pingers     []Pinger
	Now         func() time.Time
}

type entry struct {
	session    models.Session
	ttl        time.Duration
	controller *controller.Controller
}

// MemoryManager keeps session workspaces in process memory.
// Workspaces are never shared and never persisted.
type MemoryManager struct {
	mu      sync.RWMutex
	byID    map[string]*entry
	byToken map[string]*entry

	opts Options
	now  func() time.Time
}

// NewManager creates a new MemoryManager
func NewManager(opts Options) (*MemoryManager, error) {
	if opts.Seed == nil {
		return nil, fmt.Errorf("seed source is required")
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Eligibility == nil {
		opts.Eligibility = catalog.InactiveOnly()
	}
	if opts.Submitter == nil {
		opts.Submitter = submission.NewLogHandler(nil)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &MemoryManager{
		byID:    make(map[string]*entry),
		byToken: make(map[string]*entry),
		opts:    opts,
		now:     now,
	}, nil
}

// Ping checks if the manager is operational
func (m *MemoryManager) Ping(ctx context.Context) error {
	for _, p := range m.opts.Pingers {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("dependency ping failed: %w", err)
		}
	}
	return nil
}

// Create opens an anonymous workspace over a fresh copy of the seed catalog
func (m *MemoryManager) Create(ctx context.Context, opts CreateOptions) (*models.Session, error) {
	ttl := m.opts.TTL
	if opts.TTL != nil && *opts.TTL > 0 {
		ttl = *opts.TTL
	}

	token, err := models.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	id := uuid.New().String()
	now := m.now()

	e := &entry{
		session: models.Session{
			ID:         id,
			Token:      token,
			TTLSeconds: int(ttl / time.Second),
			CreatedAt:  now,
			LastSeenAt: now,
			ExpiresAt:  now.Add(ttl),
		},
		ttl: ttl,
		controller: controller.New(m.opts.Seed.Courses(), controller.Options{
			SessionID:   id,
			Eligibility: m.opts.Eligibility,
			Notifier:    m.opts.Notifier,
			Submitter:   m.opts.Submitter,
			HideDelay:   m.opts.HideDelay,
			Now:         m.now,
		}),
	}

	m.mu.Lock()
	m.byID[id] = e
	m.byToken[token] = e
	m.mu.Unlock()

	slog.Info("session created", "session_id", id, "ttl", ttl)

	s := e.snapshot()
	return &s, nil
}

// touch resolves a live workspace by token and slides its expiry
func (m *MemoryManager) touch(token string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.byToken[token]
	if !ok {
		return nil, ErrSessionNotFound
	}

	now := m.now()
	if now.After(e.session.ExpiresAt) {
		return nil, ErrSessionExpired
	}

	e.session.LastSeenAt = now
	if next := now.Add(e.ttl); next.After(e.session.ExpiresAt) {
		e.session.ExpiresAt = next
	}
	return e, nil
}

// snapshot copies the session with the live state of its workspace
func (e *entry) snapshot() models.Session {
	s := e.session
	s.Identity = e.controller.Identity()
	s.Requested = e.controller.RequestedCount()
	return s
}

// Get retrieves a session by token
func (m *MemoryManager) Get(ctx context.Context, token string) (*models.Session, error) {
	e, err := m.touch(token)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	s := e.snapshot()
	m.mu.RUnlock()
	return &s, nil
}

// Delete removes a workspace by session ID
func (m *MemoryManager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	e, ok := m.byID[id]
	if ok {
		delete(m.byID, id)
		delete(m.byToken, e.session.Token)
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	e.controller.Close()
	m.closeStreams(id)
	slog.Info("session deleted", "session_id", id)
	return nil
}

// List returns sessions matching filters, newest first
func (m *MemoryManager) List(ctx context.Context, filters models.SessionFilters) ([]*models.Session, error) {
	m.mu.RLock()
	result := make([]*models.Session, 0, len(m.byID))
	for _, e := range m.byID {
		s := e.snapshot()
		if filters.Authenticated != nil && s.IsAuthenticated() != *filters.Authenticated {
			continue
		}
		result = append(result, &s)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filters.Offset > 0 {
		if filters.Offset >= len(result) {
			return []*models.Session{}, nil
		}
		result = result[filters.Offset:]
	}
	if filters.Limit > 0 && filters.Limit < len(result) {
		result = result[:filters.Limit]
	}

	return result, nil
}

// ExtendTTL pushes the session expiration time further out
func (m *MemoryManager) ExtendTTL(ctx context.Context, token string, duration time.Duration) (*models.Session, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("extension must be positive, got %s", duration)
	}

	e, err := m.touch(token)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	e.session.ExpiresAt = e.session.ExpiresAt.Add(duration)
	s := e.snapshot()
	m.mu.Unlock()

	slog.Info("session TTL extended", "session_id", s.ID, "new_expires_at", s.ExpiresAt)
	return &s, nil
}

// Dispatch applies an intent to the workspace and returns the new view
func (m *MemoryManager) Dispatch(ctx context.Context, token string, in controller.Intent) (*controller.Outcome, *controller.View, error) {
	e, err := m.touch(token)
	if err != nil {
		return nil, nil, err
	}

	out, err := e.controller.Dispatch(ctx, in)
	if err != nil {
		return nil, nil, err
	}

	view := e.controller.View()
	return out, &view, nil
}

// View returns the derived view of the workspace
func (m *MemoryManager) View(ctx context.Context, token string) (*controller.View, error) {
	e, err := m.touch(token)
	if err != nil {
		return nil, err
	}

	view := e.controller.View()
	return &view, nil
}

// Share returns the share message and progress of a course
func (m *MemoryManager) Share(ctx context.Context, token, courseID string) (string, models.Progress, error) {
	e, err := m.touch(token)
	if err != nil {
		return "", models.Progress{}, err
	}

	msg, err := e.controller.Share(courseID)
	if err != nil {
		return "", models.Progress{}, err
	}

	for _, c := range e.controller.Courses() {
		if c.ID == courseID {
			return msg, catalog.ComputeProgress(c.RequestCount), nil
		}
	}
	return msg, models.Progress{}, nil
}

// Suggest returns college suggestions for query
func (m *MemoryManager) Suggest(ctx context.Context, token, query string) ([]string, error) {
	e, err := m.touch(token)
	if err != nil {
		return nil, err
	}
	return e.controller.Suggest(query), nil
}

// GetExpired returns all sessions whose idle TTL has elapsed
func (m *MemoryManager) GetExpired(ctx context.Context) ([]*models.Session, error) {
	now := m.now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	var expired []*models.Session
	for _, e := range m.byID {
		if now.After(e.session.ExpiresAt) {
			s := e.snapshot()
			expired = append(expired, &s)
		}
	}

	sort.Slice(expired, func(i, j int) bool {
		return expired[i].ExpiresAt.Before(expired[j].ExpiresAt)
	})
	return expired, nil
}

// closeStreams ends the event subscriptions of a session that went away
func (m *MemoryManager) closeStreams(id string) {
	if c, ok := m.opts.Notifier.(notify.SessionCloser); ok {
		c.CloseSession(id)
	}
}

// Count returns the number of open workspaces
func (m *MemoryManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

// Close drops every workspace
func (m *MemoryManager) Close() error {
	m.mu.Lock()
	entries := m.byID
	m.byID = make(map[string]*entry)
	m.byToken = make(map[string]*entry)
	m.mu.Unlock()

	for id, e := range entries {
		e.controller.Close()
		m.closeStreams(id)
	}

	slog.Info("session manager closed", "sessions", len(entries))
	return nil
}
