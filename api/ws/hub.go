// Package ws fans live session events out to every connected viewer and
// feeds viewer gestures into the game service.
package ws

import (
	"encoding/json"
	"sync"

	"showtime/api/log"
	"showtime/api/service/game"
	"showtime/api/store"
)

// Envelope is the wire format in both directions.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type Hub struct {
	svc *game.Service

	mu      sync.RWMutex
	clients map[*Client]bool
}

func NewHub(svc *game.Service) *Hub {
	h := &Hub{
		svc:     svc,
		clients: map[*Client]bool{},
	}
	svc.SetBroadcaster(h)

	// Store mutations reach every viewer as collection events. The payload
	// is just the event; clients re-pull what they render.
	svc.Store().Subscribe(func(ev store.Event) {
		h.Broadcast("collection", ev)
	})
	return h
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	h.mu.Unlock()
	log.Infof("ws: %s (%s) connected, %d online", c.name, c.role, n)
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	was := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	if !was {
		return
	}

	// Flag the client before closing its channel so a concurrent dispatch
	// sees the teardown instead of sending on a closed channel.
	c.mu.Lock()
	c.closed = true
	close(c.send)
	c.mu.Unlock()

	// A dropped connection cancels any stroke the viewer had running.
	if m := c.stroke(); m != "" {
		_ = h.svc.EndFogStroke(c.role, m)
	}
	log.Infof("ws: %s disconnected, %d online", c.name, n)
}

func (h *Hub) Online() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast implements game.Broadcaster. Slow clients are dropped rather
// than blocking the fanout.
func (h *Hub) Broadcast(msgType string, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Errorf("ws: marshal %s broadcast: %v", msgType, err)
		return
	}
	frame, err := json.Marshal(Envelope{Type: msgType, Data: raw})
	if err != nil {
		log.Errorf("ws: marshal envelope: %v", err)
		return
	}

	h.mu.RLock()
	var stale []*Client
	for c := range h.clients {
		if !c.trySend(frame) {
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		log.Warnf("ws: dropping slow client %s", c.name)
		h.unregister(c)
	}
}

