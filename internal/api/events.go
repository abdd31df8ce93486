package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/terra-clan/course-demand/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamMessage is one frame of the session event stream
type StreamMessage struct {
	Type  string        `json:"type"`
	Data  string        `json:"data,omitempty"`
	Event *models.Event `json:"event,omitempty"`
}

// handleEventsWS streams the notifications of one session over a websocket
func (s *Server) handleEventsWS(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "stream_unavailable", "event streaming is not enabled")
		return
	}

	session := SessionFromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	events, unsubscribe := s.hub.Subscribe(session.ID)
	defer unsubscribe()

	slog.Info("event stream connected", "session_id", session.ID)

	if err := sendStreamMessage(conn, StreamMessage{
		Type: "connected",
		Data: session.ID,
	}); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// Read loop only detects the client going away
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Debug("websocket read error", "error", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case event, ok := <-events:
			if !ok {
				// session deleted or expired
				sendStreamMessage(conn, StreamMessage{Type: "closed", Data: session.ID})
				break loop
			}
			if err := sendStreamMessage(conn, StreamMessage{
				Type:  "event",
				Event: &event,
			}); err != nil {
				break loop
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				break loop
			}
		}
	}

	conn.Close()
	wg.Wait()
	slog.Info("event stream disconnected", "session_id", session.ID)
}

func sendStreamMessage(conn *websocket.Conn, msg StreamMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		slog.Debug("failed to write stream message", "error", err)
		return err
	}
	return nil
}
