package infrastructure

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"qrMenu/internal/modules/realtime/domain"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 1 << 16
)

// ClientInfo identifies a websocket viewer. RestaurantID scopes global clients to one restaurant.
type ClientInfo struct {
	ViewerID     string
	SessionID    string
	RestaurantID string
	Slug         string
}

// Client is one websocket connection. Outgoing frames go through a bounded buffer drained by
// WritePump; ReadPump feeds incoming commands to the command processor.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	commands *CommandProcessor

	viewerID     string
	sessionID    string
	restaurantID string
	slug         string
	receiveAll   bool

	// guarded by hub.mu
	subscribed map[string]struct{}

	mu     sync.Mutex
	send   chan []byte
	closed bool
	once   sync.Once
}

// NewClient creates a client with a send buffer of buf frames (16 when buf <= 0).
func NewClient(hub *Hub, conn *websocket.Conn, info ClientInfo, buf int, fallback CommandHandler) *Client {
	if buf <= 0 {
		buf = 16
	}
	return &Client{
		hub:          hub,
		conn:         conn,
		commands:     NewCommandProcessor(hub, fallback),
		viewerID:     strings.TrimSpace(info.ViewerID),
		sessionID:    strings.TrimSpace(info.SessionID),
		restaurantID: strings.TrimSpace(info.RestaurantID),
		slug:         strings.TrimSpace(info.Slug),
		subscribed:   make(map[string]struct{}),
		send:         make(chan []byte, buf),
	}
}

// EnableReceiveAll marks the client as a global subscriber.
func (c *Client) EnableReceiveAll() { c.receiveAll = true }

// key identifies the viewer's connection; a reconnect with the same key replaces the old one.
func (c *Client) key() string {
	if c.slug == "" {
		return c.viewerID + ":" + c.sessionID
	}
	return c.viewerID + ":" + c.sessionID + ":" + c.slug
}

func (c *Client) fields() []zap.Field {
	out := make([]zap.Field, 0, 5)
	out = append(out,
		zap.String("viewer_id", c.viewerID),
		zap.String("session_id", c.sessionID),
		zap.String("restaurant_id", c.restaurantID),
	)
	if c.slug != "" {
		out = append(out, zap.String("slug", c.slug))
	}
	if c.receiveAll {
		out = append(out, zap.Bool("global", true))
	}
	return out
}

// enqueue reports false when the buffer is full. Frames for a closed client are dropped and
// count as delivered.
func (c *Client) enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// SendDomainMessage queues msg for this client only. A full buffer detaches the client.
func (c *Client) SendDomainMessage(msg *domain.Message) {
	if msg == nil {
		return
	}
	frame, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Error("encode message", append(c.fields(), zap.Error(err))...)
		return
	}
	if c.enqueue(frame) {
		return
	}
	c.hub.logger.Warn("viewer buffer full, detaching", c.fields()...)
	go c.hub.detachClient(c)
}

// WritePump drains the send buffer and pings the peer until the buffer is closed or a write
// fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		var err error
		select {
		case frame, ok := <-c.send:
			if !ok {
				bye := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
				_ = c.conn.WriteControl(websocket.CloseMessage, bye, time.Now().Add(writeWait))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err = c.conn.WriteMessage(websocket.TextMessage, frame)
		case <-ticker.C:
			err = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		}
		if err != nil {
			c.hub.logger.Warn("websocket write failed", append(c.fields(), zap.Error(err))...)
			return
		}
	}
}

// ReadPump decodes commands until the peer goes away, then detaches the client.
func (c *Client) ReadPump() {
	defer c.hub.detachClient(c)

	c.conn.SetReadLimit(readLimit)
	extend := func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) }
	_ = extend("")
	c.conn.SetPongHandler(extend)

	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.hub.logger.Warn("websocket read failed", append(c.fields(), zap.Error(err))...)
			}
			return
		}
		_ = extend("")
		c.processCommand(cmd)
	}
}

func (c *Client) processCommand(cmd Command) {
	c.commands.Process(c, cmd)
}
