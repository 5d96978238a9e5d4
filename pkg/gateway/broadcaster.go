package gateway

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// EventMessage is one event pushed to connected observers.
type EventMessage struct {
	Type      string `json:"type"`
	Event     string `json:"event"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"`
	Seq       int64  `json:"seq"`
}

// observerClient is one connected websocket observer.
type observerClient struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *observerClient) writeJSON(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// ObserverRegistry tracks connected observer clients.
type ObserverRegistry struct {
	mu      sync.RWMutex
	clients map[string]*observerClient
}

// NewObserverRegistry creates an empty registry.
func NewObserverRegistry() *ObserverRegistry {
	return &ObserverRegistry{clients: make(map[string]*observerClient)}
}

func (r *ObserverRegistry) add(c *observerClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.id] = c
}

func (r *ObserverRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, id)
}

func (r *ObserverRegistry) all() []*observerClient {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients := make([]*observerClient, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	return clients
}

// Count returns the number of connected observers.
func (r *ObserverRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// EventBroadcaster pushes planning events (workflow steps, fallback tiers)
// to all connected observers.
type EventBroadcaster struct {
	clients *ObserverRegistry
	logger  zerolog.Logger
	seq     uint64
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(clients *ObserverRegistry, logger zerolog.Logger) *EventBroadcaster {
	return &EventBroadcaster{clients: clients, logger: logger}
}

// Broadcast sends an event to all connected observers. Send failures are
// logged per client but never block the planning path.
func (b *EventBroadcaster) Broadcast(event string, data any) {
	msg := EventMessage{
		Type:      "event",
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
		Seq:       int64(atomic.AddUint64(&b.seq, 1)),
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error().Err(err).Str("event", event).Msg("Failed to marshal event")
		return
	}

	for _, client := range b.clients.all() {
		if err := client.writeJSON(jsonData); err != nil {
			b.logger.Warn().
				Err(err).
				Str("client_id", client.id).
				Str("event", event).
				Msg("Failed to broadcast to observer")
		}
	}
}
