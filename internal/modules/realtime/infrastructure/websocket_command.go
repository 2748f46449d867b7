package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"qrMenu/internal/modules/realtime/domain"
)

// Command is a message sent by a viewer. Subscription commands name one topic, several, or both.
type Command struct {
	Action  string          `json:"action"`
	Topic   string          `json:"topic,omitempty"`
	Topics  []string        `json:"topics,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// topicList merges Topic and Topics, trimmed and without duplicates.
func (c Command) topicList() []string {
	seen := make(map[string]struct{}, len(c.Topics)+1)
	var out []string
	for _, raw := range append([]string{c.Topic}, c.Topics...) {
		topic := strings.TrimSpace(raw)
		if topic == "" {
			continue
		}
		if _, dup := seen[topic]; dup {
			continue
		}
		seen[topic] = struct{}{}
		out = append(out, topic)
	}
	return out
}

type CommandHandler func(ctx context.Context, client *Client, cmd Command)

var (
	errUnknownTopic    = errors.New("unknown topic")
	errForeignMenuFeed = errors.New("topic belongs to another restaurant")
)

// CommandProcessor answers subscribe, unsubscribe and ping itself and hands every other action
// to the fallback, which runs on its own goroutine with a deadline.
type CommandProcessor struct {
	hub      *Hub
	builtins map[string]CommandHandler
	fallback CommandHandler
	deadline time.Duration
	now      func() time.Time
}

func NewCommandProcessor(hub *Hub, fallback CommandHandler) *CommandProcessor {
	p := &CommandProcessor{
		hub:      hub,
		fallback: fallback,
		deadline: 10 * time.Second,
		now:      time.Now,
	}
	p.builtins = map[string]CommandHandler{
		"subscribe":   p.subscribe,
		"unsubscribe": p.unsubscribe,
		"ping":        p.ping,
	}
	return p
}

func (p *CommandProcessor) Process(client *Client, cmd Command) {
	if client == nil {
		return
	}
	action := strings.ToLower(strings.TrimSpace(cmd.Action))
	if action == "" {
		return
	}
	cmd.Action = action

	if handle, ok := p.builtins[action]; ok {
		handle(context.Background(), client, cmd)
		return
	}
	if p.fallback == nil {
		p.hub.logger.Debug("command ignored", append(client.fields(), zap.String("action", action))...)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.deadline)
		defer cancel()
		p.fallback(ctx, client, cmd)
	}()
}

// SubscribableTopic reports whether viewers may subscribe to topic at all.
func SubscribableTopic(topic string) bool {
	return domain.IsMenuTopic(topic) || topic == domain.TopicNotifications
}

// authorize rejects unknown topics and, for viewers bound to a restaurant, the menu feeds of
// other restaurants.
func authorize(client *Client, topic string) error {
	if !SubscribableTopic(topic) {
		return errUnknownTopic
	}
	if client.restaurantID != "" && domain.IsMenuTopic(topic) && topic != domain.MenuTopic(client.restaurantID) {
		return errForeignMenuFeed
	}
	return nil
}

func (p *CommandProcessor) subscribe(_ context.Context, client *Client, cmd Command) {
	topics := cmd.topicList()
	if len(topics) == 0 {
		p.hub.logger.Debug("subscribe without topic", client.fields()...)
		return
	}
	for _, topic := range topics {
		if err := authorize(client, topic); err != nil {
			client.SendDomainMessage(domain.BuildErrorMessage(cmd.Action, err.Error()+" "+topic, p.now()))
			continue
		}
		p.hub.subscribe(client, topic)
	}
}

func (p *CommandProcessor) unsubscribe(_ context.Context, client *Client, cmd Command) {
	for _, topic := range cmd.topicList() {
		p.hub.unsubscribe(client, topic)
	}
}

func (p *CommandProcessor) ping(_ context.Context, client *Client, _ Command) {
	client.SendDomainMessage(&domain.Message{
		Topic:     domain.TopicSystemPong,
		Entity:    domain.SystemEntity,
		Action:    domain.ActionPong,
		Timestamp: p.now().UTC(),
	})
}
