package relay

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeWait = 5 * time.Second

type conn struct {
	id   string
	ws   *websocket.Conn
	send chan []byte
}

// Hub tracks open sockets and broadcasts frames to all of them.
type Hub struct {
	log      zerolog.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]*conn
}

// NewHub creates an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[string]*conn),
	}
}

// Len returns the number of registered sockets.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// ServeHTTP upgrades the request and keeps the socket registered until it
// closes or errors.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &conn{id: uuid.NewString(), ws: ws, send: make(chan []byte, 16)}
	h.register(c)

	go h.writeLoop(c)
	h.readLoop(c)
}

// Broadcast sends a message frame to every socket. Slow sockets whose
// queue is full miss the frame.
func (h *Hub) Broadcast(message string) error {
	data, err := Encode(message)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.conns {
		select {
		case c.send <- data:
		default:
			h.log.Warn().Str("conn", c.id).Msg("dropping frame for slow client")
		}
	}
	h.log.Debug().Int("clients", len(h.conns)).Msg("broadcast message")
	return nil
}

// Close disconnects every socket.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[string]*conn)
	h.mu.Unlock()

	for _, c := range conns {
		close(c.send)
	}
}

func (h *Hub) register(c *conn) {
	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
	h.log.Debug().Str("conn", c.id).Msg("client connected")
}

func (h *Hub) unregister(c *conn) {
	h.mu.Lock()
	_, ok := h.conns[c.id]
	if ok {
		delete(h.conns, c.id)
		close(c.send)
	}
	h.mu.Unlock()
	if ok {
		h.log.Debug().Str("conn", c.id).Msg("client disconnected")
	}
}

// readLoop discards inbound frames; it exists to notice the close.
func (h *Hub) readLoop(c *conn) {
	defer h.unregister(c)
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *conn) {
	defer func() { _ = c.ws.Close() }()
	for data := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug().Err(err).Str("conn", c.id).Msg("write failed")
			return
		}
	}
	_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
