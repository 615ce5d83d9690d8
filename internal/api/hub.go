package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/notify"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// EventSnapshot carries a full notification state.
const EventSnapshot = "snapshot"

// Event is the frame written to websocket clients.
type Event struct {
	Type    string       `json:"type"`
	Payload notify.State `json:"payload"`
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte

	// primed is set once a snapshot is queued; guarded by Hub.mu.
	primed bool
}

// Hub fans notification snapshots out to connected websocket clients.
// Clients that fall behind are disconnected rather than blocking the store.
type Hub struct {
	mu       sync.Mutex
	clients  map[uuid.UUID]*client
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewHub creates a Hub. checkOrigin may be nil to accept any origin.
func NewHub(logger zerolog.Logger, checkOrigin func(*http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		clients: make(map[uuid.UUID]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		log: logger,
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues st for every client. It never blocks.
func (h *Hub) Broadcast(st notify.State) {
	msg, err := encodeSnapshot(st)
	if err != nil {
		h.log.Error().Err(err).Msg("encode snapshot")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		select {
		case c.send <- msg:
			c.primed = true
		default:
			h.log.Warn().Str("client", id.String()).Msg("dropping slow websocket client")
			delete(h.clients, id)
			close(c.send)
		}
	}
}

// Serve upgrades the request and streams snapshots. The client is
// registered before snapshot is called, so a change racing with the connect
// is either part of the first frame or broadcast after it. When a broadcast
// reaches the client first, the initial snapshot is dropped as older.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, snapshot func() notify.State) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.log.Debug().Str("client", c.id.String()).Msg("websocket client connected")

	// snapshot takes the store lock, which must not be held under h.mu.
	if msg, err := encodeSnapshot(snapshot()); err == nil {
		h.mu.Lock()
		if _, ok := h.clients[c.id]; ok && !c.primed {
			c.send <- msg
			c.primed = true
		}
		h.mu.Unlock()
	} else {
		h.log.Error().Err(err).Msg("encode snapshot")
	}

	go h.writePump(c)
	h.readPump(c)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
		h.log.Debug().Str("client", c.id.String()).Msg("websocket client disconnected")
	}
}

// readPump discards client frames and handles pongs until the connection
// closes.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Debug().Err(err).Msg("websocket read")
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, open := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !open {
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

func encodeSnapshot(st notify.State) ([]byte, error) {
	return json.Marshal(Event{Type: EventSnapshot, Payload: st})
}
