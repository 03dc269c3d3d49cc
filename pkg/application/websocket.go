package application

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type HubOptions struct {
	Logger      *logrus.Logger
	CheckOrigin func(r *http.Request) bool
}

type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// Hub groups websocket connections into channels and pushes text messages
// to every connection of a channel.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *logrus.Logger

	mu       sync.RWMutex
	channels map[string]map[*wsConn]struct{}
}

func NewHub(opts *HubOptions) *Hub {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     opts.CheckOrigin,
		},
		logger:   logger,
		channels: make(map[string]map[*wsConn]struct{}),
	}
}

// Serve upgrades the request and blocks until the client goes away.
// onConnect runs once the connection has joined the channel.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, channel string, onConnect func()) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &wsConn{conn: conn}
	h.join(channel, c)
	defer func() {
		h.leave(channel, c)
		_ = conn.Close()
	}()

	if onConnect != nil {
		onConnect()
	}

	done := make(chan struct{})
	defer close(done)
	go h.ping(c, done)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).WithField("channel", channel).Debug("websocket closed unexpectedly")
			}
			return nil
		}
	}
}

func (h *Hub) ping(c *wsConn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) join(channel string, c *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.channels[channel]
	if !ok {
		set = make(map[*wsConn]struct{})
		h.channels[channel] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) leave(channel string, c *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.channels[channel]
	delete(set, c)
	if len(set) == 0 {
		delete(h.channels, channel)
	}
}

// Broadcast sends message to every connection of channel and returns how
// many writes succeeded.
func (h *Hub) Broadcast(channel string, message []byte) int {
	h.mu.RLock()
	conns := make([]*wsConn, 0, len(h.channels[channel]))
	for c := range h.channels[channel] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range conns {
		if err := c.write(websocket.TextMessage, message); err != nil {
			h.logger.WithError(err).WithField("channel", channel).Debug("websocket write failed")
			continue
		}
		sent++
	}
	return sent
}

func (h *Hub) Count(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}
