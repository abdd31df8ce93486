package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/terra-clan/course-demand/internal/models"
)

const subscriberBuffer = 32

// Hub delivers events in-process to subscribers of a session (websocket streams).
// Slow subscribers lose events instead of blocking the workspace.
type Hub struct {
	BaseNotifier
	mu     sync.RWMutex
	subs   map[string]map[int]chan models.Event
	nextID int
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		BaseNotifier: BaseNotifier{notifierType: "hub"},
		subs:         make(map[string]map[int]chan models.Event),
	}
}

// Subscribe returns a channel of events for sessionID and a function
// that unsubscribes and closes it. The function is safe to call repeatedly.
func (h *Hub) Subscribe(sessionID string) (<-chan models.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	ch := make(chan models.Event, subscriberBuffer)
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[int]chan models.Event)
	}
	h.subs[sessionID][id] = ch

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if set, ok := h.subs[sessionID]; ok {
			if _, ok := set[id]; ok {
				delete(set, id)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subs, sessionID)
			}
		}
	}
}

// CloseSession ends every subscription of sessionID. Subscribers see their
// channel closed; their unsubscribe functions become no-ops.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[sessionID] {
		close(ch)
	}
	delete(h.subs, sessionID)
}

// Subscribers returns the number of subscribers of a session
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[sessionID])
}

// Notify delivers event to the session's subscribers without blocking
func (h *Hub) Notify(ctx context.Context, event models.Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subs[event.SessionID] {
		select {
		case ch <- event:
		default:
			slog.Warn("dropping event for slow subscriber",
				"session_id", event.SessionID,
				"subscriber", id,
				"type", event.Type,
			)
		}
	}
	return nil
}

// HealthCheck always succeeds
func (h *Hub) HealthCheck(ctx context.Context) error {
	return nil
}
