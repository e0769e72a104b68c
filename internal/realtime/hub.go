// Package realtime fans donation events out to connected WebSocket
// clients. Delivery is at-most-once: a client that is not connected at
// broadcast time never sees that event and relies on the polling path
// to catch up. No buffering, replay, or acknowledgment is attempted.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Hub owns the set of connected clients. The set is mutated only by the
// Run goroutine, which consumes the register/unregister/broadcast
// channels, so no lock is needed around it.
type Hub struct {
	logger     zerolog.Logger
	upgrader   websocket.Upgrader
	register   chan *client
	unregister chan *client
	broadcast  chan Event
	clients    map[*client]struct{}
}

// NewHub creates a hub accepting connections from the given origins.
// An empty origin list accepts any origin.
func NewHub(logger zerolog.Logger, origins []string) *Hub {
	allow := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allow[o] = struct{}{}
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allow) == 0 {
					return true
				}
				_, ok := allow[r.Header.Get("Origin")]
				return ok
			},
		},
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Event, 16),
		clients:    make(map[*client]struct{}),
	}
}

// Run processes connection lifecycle and broadcast requests until ctx is
// cancelled, then closes every open connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Debug().Int("clients", len(h.clients)).Msg("realtime client connected")
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}
		case ev := <-h.broadcast:
			payload, err := json.Marshal(ev)
			if err != nil {
				h.logger.Error().Err(err).Msg("marshal event")
				continue
			}
			for c := range h.clients {
				select {
				case c.send <- payload:
				default:
					// Slow consumer: drop it rather than block the fan-out.
					h.drop(c)
				}
			}
		}
	}
}

// Broadcast queues an event for delivery to every connected client. It
// never blocks the caller; if the hub is saturated the event is lost,
// which the polling path tolerates.
func (h *Hub) Broadcast(ev Event) {
	select {
	case h.broadcast <- ev:
	default:
		h.logger.Warn().Str("type", ev.Type).Msg("broadcast queue full, event dropped")
	}
}

// ServeWS upgrades an HTTP request to a WebSocket connection and
// registers it with the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := newClient(h, conn)
	h.register <- c
	go c.writePump()
	go c.readPump()
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	h.logger.Debug().Int("clients", len(h.clients)).Msg("realtime client disconnected")
}
