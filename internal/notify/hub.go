package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ambassador_engine/internal/model"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

type Message struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub pushes events to the websocket connections open for a participant.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*client]struct{}),
	}
}

// Register tracks conn until it closes. It blocks reading the connection so
// close frames are handled; callers run it in the handler goroutine.
func (h *Hub) Register(participantID int64, conn *websocket.Conn) {
	c := &client{conn: conn}

	h.mu.Lock()
	if h.clients[participantID] == nil {
		h.clients[participantID] = make(map[*client]struct{})
	}
	h.clients[participantID][c] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients[participantID], c)
		if len(h.clients[participantID]) == 0 {
			delete(h.clients, participantID)
		}
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) Connected(participantID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[participantID])
}

func (h *Hub) Notify(_ context.Context, event model.Event) error {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients[event.ParticipantID]))
	for c := range h.clients[event.ParticipantID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return nil
	}

	out, err := json.Marshal(Message{Type: string(event.Type), Payload: event.Payload})
	if err != nil {
		return fmt.Errorf("error marshaling message: %w", err)
	}

	var firstErr error
	for _, c := range targets {
		if err := c.write(out); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("error sending message: %w", err)
		}
	}

	return firstErr
}
