// Package broadcast pushes race results to connected venue UI clients over
// websockets.
package broadcast

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/trackside/internal/models"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 16
)

// Hub fans race result events out to every connected client. Slow clients
// get dropped rather than backing up the engine's result path.
type Hub struct {
	upgrader   websocket.Upgrader
	logger     *logrus.Logger
	mu         sync.RWMutex
	clients    map[*client]struct{}
	broadcast  chan models.RaceResultEvent
	register   chan *client
	unregister chan *client
}

type client struct {
	conn *websocket.Conn
	send chan models.RaceResultEvent
}

// NewHub creates a broadcast hub
func NewHub(logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.New()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:     logger,
		clients:    make(map[*client]struct{}),
		broadcast:  make(chan models.RaceResultEvent, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run drives the hub until the context is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
		case c := <-h.unregister:
			h.drop(c)
		case event := <-h.broadcast:
			h.fanOut(event)
		}
	}
}

// Broadcast queues a race result for delivery; drops it if the hub is
// saturated
func (h *Hub) Broadcast(event models.RaceResultEvent) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("Broadcast buffer full, dropping race result")
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWS upgrades an HTTP request into a subscribed websocket client
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan models.RaceResultEvent, sendBufferSize)}
	h.register <- c

	go h.writeLoop(c)
	go h.readLoop(c)
}

func (h *Hub) fanOut(event models.RaceResultEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- event:
		default:
			// Client is not keeping up; sever it
			go func(c *client) { h.unregister <- c }(c)
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	for event := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(event); err != nil {
			h.unregister <- c
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// readLoop discards inbound frames; the stream is one-way, but reading is
// required to notice a hung-up peer
func (h *Hub) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.unregister <- c
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		_ = c.conn.Close()
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}
