// Package telemetry streams pipeline events to websocket subscribers so the
// dashboard can react to step completions without polling.
package telemetry

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Event is one pipeline occurrence pushed to subscribers
type Event struct {
	Type   string    `json:"type"`
	Symbol string    `json:"symbol"`
	Role   string    `json:"role,omitempty"`
	Status string    `json:"status,omitempty"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans pipeline events out to connected websocket clients
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	events  chan Event
	logger  zerolog.Logger
}

// NewHub creates an event hub; call Run in a goroutine to start delivery
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		events:  make(chan Event, 64),
		logger:  log.With().Str("component", "telemetry_hub").Logger(),
	}
}

// Run delivers events to clients until the events channel closes
func (h *Hub) Run() {
	for event := range h.events {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}

		h.mu.Lock()
		for client := range h.clients {
			if err := client.WriteMessage(websocket.TextMessage, payload); err != nil {
				client.Close()
				delete(h.clients, client)
			}
		}
		h.mu.Unlock()
	}
}

// Publish queues an event; drops it if the hub is saturated so the pipeline
// never blocks on slow subscribers.
func (h *Hub) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	select {
	case h.events <- event:
	default:
		h.logger.Warn().Str("type", event.Type).Msg("Event dropped, hub saturated")
	}
}

// Subscribe upgrades an HTTP request to a websocket and registers the client
func (h *Hub) Subscribe(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Websocket upgrade failed")
		return err
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// Reader loop: we only care about disconnects
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.mu.Lock()
				delete(h.clients, conn)
				h.mu.Unlock()
				conn.Close()
				return
			}
		}
	}()
	return nil
}
