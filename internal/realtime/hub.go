// Package realtime pushes board change notifications to connected browsers.
package realtime

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Client is one connected subscriber. The network connection itself is
// managed by the websocket handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Event kinds.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventMoved   = "moved"
	EventDeleted = "deleted"
)

// Entities.
const (
	EntityTask  = "task"
	EntityStaff = "staff"
)

// Event tells clients that an entity changed. Version increases with every
// event so clients can drop duplicates.
type Event struct {
	Type    string `json:"type"`
	Entity  string `json:"entity"`
	ID      int64  `json:"id"`
	Version int64  `json:"version"`
}

// Publisher is what handlers depend on.
type Publisher interface {
	Publish(eventType, entity string, id int64)
}

// Hub fans events out to every registered client.
type Hub struct {
	mu      sync.RWMutex
	clients map[Client]struct{}
	version atomic.Int64
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{clients: make(map[Client]struct{}), log: log}
}

func (h *Hub) Register(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) Unregister(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish stamps a version on the event and broadcasts it.
func (h *Hub) Publish(eventType, entity string, id int64) {
	ev := Event{Type: eventType, Entity: entity, ID: id, Version: h.version.Add(1)}
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("marshal realtime event", zap.Error(err))
		return
	}
	h.Broadcast(msg)
}

// Broadcast sends message to every client. Failed writes are left for the
// connection handler to clean up.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if !c.Send(message) {
			h.log.Debug("realtime send failed")
		}
	}
}
