package infrastructure

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"

	"qrMenu/internal/modules/realtime/domain"
)

type clientSet map[*Client]struct{}

// Hub fans menu updates and notifications out to connected viewers. Viewers either follow
// named topics (menu pages) or receive everything that passes their restaurant scope
// (notification streams).
type Hub struct {
	mu      sync.RWMutex
	byTopic map[string]clientSet
	byKey   map[string]*Client
	global  clientSet
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.L()
	}
	return &Hub{
		byTopic: make(map[string]clientSet),
		byKey:   make(map[string]*Client),
		global:  make(clientSet),
		logger:  logger.Named("hub"),
	}
}

// HubStats is a point-in-time view of the hub, reported by the health endpoint.
type HubStats struct {
	Clients int `json:"clients"`
	Topics  int `json:"topics"`
	Global  int `json:"global"`
}

func (h *Hub) Stats() HubStats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return HubStats{Clients: len(h.byKey), Topics: len(h.byTopic), Global: len(h.global)}
}

// AttachClient registers c and subscribes it to topics. A client already registered under the
// same viewer, session and slug is replaced.
func (h *Hub) AttachClient(c *Client, topics []string) {
	h.mu.Lock()
	h.registerLocked(c)
	var joined []string
	for _, topic := range topics {
		if topic = strings.TrimSpace(topic); topic != "" {
			h.joinLocked(c, topic)
			joined = append(joined, topic)
		}
	}
	h.mu.Unlock()
	h.logger.Info("viewer attached", append(c.fields(), zap.Strings("topics", joined))...)
}

// AttachClientToAll registers c as a global subscriber. It receives every broadcast that
// passes its restaurant scope.
func (h *Hub) AttachClientToAll(c *Client) {
	c.EnableReceiveAll()
	h.mu.Lock()
	h.registerLocked(c)
	h.global[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("viewer attached to every topic", c.fields()...)
}

// Close detaches every client. Used on server shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.byKey {
		h.dropLocked(c)
	}
}

// Broadcast delivers msg to the subscribers of its topic and to global clients. Metadata keys
// viewerId, sessionId and restaurantId narrow delivery. A client whose buffer is full is
// detached instead of blocking the others.
func (h *Hub) Broadcast(_ context.Context, msg *domain.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("broadcast marshal error", zap.String("topic", msg.Topic), zap.Error(err))
		return
	}

	target := audienceOf(msg)
	delivered := 0
	for _, c := range h.recipients(msg.Topic) {
		if !target.admits(c) {
			continue
		}
		if !c.enqueue(data) {
			h.logger.Warn("viewer too slow, detaching", c.fields()...)
			go h.detachClient(c)
			continue
		}
		delivered++
	}
	h.logger.Debug("broadcast", zap.String("topic", msg.Topic), zap.String("action", msg.Action), zap.Int("delivered", delivered))
}

func (h *Hub) recipients(topic string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	subs := h.byTopic[topic]
	out := make([]*Client, 0, len(subs)+len(h.global))
	for c := range subs {
		out = append(out, c)
	}
	for c := range h.global {
		if _, dup := subs[c]; !dup {
			out = append(out, c)
		}
	}
	return out
}

func (h *Hub) subscribe(c *Client, topic string) {
	h.mu.Lock()
	h.joinLocked(c, topic)
	h.mu.Unlock()
	h.logger.Debug("viewer subscribed", append(c.fields(), zap.String("topic", topic))...)
}

func (h *Hub) unsubscribe(c *Client, topic string) {
	h.mu.Lock()
	h.leaveLocked(c, topic)
	h.mu.Unlock()
	h.logger.Debug("viewer unsubscribed", append(c.fields(), zap.String("topic", topic))...)
}

func (h *Hub) detachClient(c *Client) {
	if c == nil {
		return
	}
	h.mu.Lock()
	h.dropLocked(c)
	h.mu.Unlock()
}

func (h *Hub) registerLocked(c *Client) {
	key := c.key()
	if previous, ok := h.byKey[key]; ok && previous != c {
		h.logger.Info("viewer reconnected, replacing previous connection", previous.fields()...)
		h.dropLocked(previous)
	}
	h.byKey[key] = c
}

func (h *Hub) joinLocked(c *Client, topic string) {
	subs, ok := h.byTopic[topic]
	if !ok {
		subs = make(clientSet)
		h.byTopic[topic] = subs
	}
	subs[c] = struct{}{}
	c.subscribed[topic] = struct{}{}
}

func (h *Hub) leaveLocked(c *Client, topic string) {
	if subs, ok := h.byTopic[topic]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.byTopic, topic)
		}
	}
	delete(c.subscribed, topic)
}

func (h *Hub) dropLocked(c *Client) {
	for topic := range c.subscribed {
		h.leaveLocked(c, topic)
	}
	if h.byKey[c.key()] == c {
		delete(h.byKey, c.key())
	}
	delete(h.global, c)
	c.close()
	h.logger.Info("viewer detached", c.fields()...)
}

// audience narrows a broadcast to one viewer, session or restaurant.
type audience struct {
	viewer     string
	session    string
	restaurant string
}

func audienceOf(msg *domain.Message) audience {
	if msg.Metadata == nil {
		return audience{}
	}
	return audience{
		viewer:     strings.TrimSpace(msg.Metadata["viewerId"]),
		session:    strings.TrimSpace(msg.Metadata["sessionId"]),
		restaurant: strings.TrimSpace(msg.Metadata["restaurantId"]),
	}
}

// admits applies the restaurant scope only to clients bound to a restaurant.
func (a audience) admits(c *Client) bool {
	switch {
	case a.viewer != "" && c.viewerID != a.viewer:
		return false
	case a.session != "" && c.sessionID != a.session:
		return false
	case a.restaurant != "" && c.restaurantID != "" && c.restaurantID != a.restaurant:
		return false
	}
	return true
}
