package notify

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/terra-clan/course-demand/internal/models"
)

// Registry fans events out to every registered notifier
type Registry struct {
	BaseNotifier
	mu        sync.RWMutex
	notifiers map[string]Notifier
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		BaseNotifier: BaseNotifier{notifierType: "registry"},
		notifiers:    make(map[string]Notifier),
	}
}

// Register adds a notifier under name, replacing any previous one
func (r *Registry) Register(name string, n Notifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifiers[name] = n
}

// Get retrieves a notifier by name
func (r *Registry) Get(name string) Notifier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.notifiers[name]
}

// List returns all registered names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.notifiers))
	for name := range r.notifiers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unregister removes a notifier
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.notifiers, name)
}

// Notify delivers event to every notifier. All notifiers are tried;
// failures are joined.
func (r *Registry) Notify(ctx context.Context, event models.Event) error {
	r.mu.RLock()
	targets := make(map[string]Notifier, len(r.notifiers))
	for name, n := range r.notifiers {
		targets[name] = n
	}
	r.mu.RUnlock()

	var errs []error
	for name, n := range targets {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// CloseSession forwards to every registered SessionCloser
func (r *Registry) CloseSession(sessionID string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.notifiers {
		if c, ok := n.(SessionCloser); ok {
			c.CloseSession(sessionID)
		}
	}
}

// HealthCheck fails if any notifier is unhealthy
func (r *Registry) HealthCheck(ctx context.Context) error {
	var errs []error
	for name, err := range r.HealthCheckAll(ctx) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// HealthCheckAll checks health of all registered notifiers
func (r *Registry) HealthCheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make(map[string]error)
	for name, n := range r.notifiers {
		results[name] = n.HealthCheck(ctx)
	}
	return results
}
