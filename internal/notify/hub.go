package notify

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

// Hub fans events out to the WebSocket clients of the event's owner only.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[*client]struct{}
	upgrader websocket.Upgrader
	logger   logger.ZapLogger
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub accepts upgrades from allowedOrigins only. With none configured every
// origin is accepted, matching the CORS setup of the HTTP server.
func NewHub(log logger.ZapLogger, allowedOrigins ...string) *Hub {
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: log,
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[strings.TrimRight(o, "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// Not a browser.
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

func (h *Hub) Notify(_ context.Context, events ...Event) {
	for _, e := range events {
		msg, err := e.Marshal()
		if err != nil {
			h.logger.Error("Failed to marshal websocket event", zap.Error(err))
			continue
		}

		h.mu.RLock()
		for c := range h.clients[e.OwnerID] {
			select {
			case c.send <- msg:
			default:
				// Slow client, drop the message.
			}
		}
		h.mu.RUnlock()
	}
}

// Clients returns the number of connections open for ownerID.
func (h *Hub) Clients(ownerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[ownerID])
}

// Serve upgrades the request and streams ownerID's events until the client leaves.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, ownerID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(ownerID, c)

	go h.writePump(c)
	h.readPump(ownerID, c)
	return nil
}

func (h *Hub) register(ownerID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[ownerID] == nil {
		h.clients[ownerID] = make(map[*client]struct{})
	}
	h.clients[ownerID][c] = struct{}{}
}

func (h *Hub) unregister(ownerID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[ownerID][c]; !ok {
		return
	}
	delete(h.clients[ownerID], c)
	if len(h.clients[ownerID]) == 0 {
		delete(h.clients, ownerID)
	}
	close(c.send)
}

// readPump only handles control frames; clients do not send data.
func (h *Hub) readPump(ownerID string, c *client) {
	defer func() {
		h.unregister(ownerID, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
