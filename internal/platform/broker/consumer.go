package broker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"qrMenu/internal/modules/realtime/domain"
	"qrMenu/internal/shared/normalization"
)

const readRetryDelay = time.Second

// KafkaSource consumes change feed topics. One reader is created per consumed topic.
type KafkaSource struct {
	brokers []string
	groupID string
	logger  *zap.Logger
}

func NewKafkaSource(brokers []string, groupID string, logger *zap.Logger) *KafkaSource {
	if logger == nil {
		logger = zap.L()
	}
	return &KafkaSource{brokers: brokers, groupID: groupID, logger: logger.Named("kafka")}
}

// Consume reads topic until ctx is cancelled. Read errors are logged and retried after a short
// pause; handler errors are logged and the message is committed anyway.
func (s *KafkaSource) Consume(ctx context.Context, topic string, handler func(*domain.Message) error) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: s.brokers,
		GroupID: s.groupID,
		Topic:   topic,
	})
	defer func() {
		if err := reader.Close(); err != nil {
			s.logger.Warn("kafka reader close error", zap.String("topic", topic), zap.Error(err))
		}
	}()

	for {
		m, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			s.logger.Warn("kafka read error", zap.String("topic", topic), zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(readRetryDelay):
			}
			continue
		}
		msg := decodeMessage(m)
		if !normalization.IsValidEntity(msg.Entity) {
			s.logger.Debug("kafka message for unrecognised entity", zap.String("topic", m.Topic), zap.String("entity", msg.Entity))
		}
		s.logger.Info("kafka message consumed",
			zap.String("topic", m.Topic),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.String("entity", msg.Entity),
			zap.String("action", msg.Action),
			zap.String("resource_id", msg.ResourceID),
			zap.Any("metadata", msg.Metadata),
		)
		if err := handler(msg); err != nil {
			s.logger.Warn("kafka handler error", zap.String("topic", m.Topic), zap.Error(err))
		}
	}
}

// changeEvent is the JSON envelope producers write to the change feed. Every field is optional.
type changeEvent struct {
	Topic      string            `json:"topic"`
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId"`
	Metadata   map[string]string `json:"metadata"`
	Data       any               `json:"data"`
}

// decodeMessage turns a change feed record into a domain message. The record's Kafka topic is
// the dispatch topic unless the envelope names another one. Entity and action default to the
// last two segments of the topic and the resource id to the record key, then to the payload id.
// A restaurantId found in the payload is copied into metadata so the hub can scope delivery.
func decodeMessage(m kafka.Message) *domain.Message {
	stamp := m.Time.UTC()
	if m.Time.IsZero() {
		stamp = time.Now().UTC()
	}
	entity, action := splitTopic(m.Topic)
	msg := &domain.Message{
		Topic:      m.Topic,
		Entity:     entity,
		Action:     action,
		ResourceID: strings.TrimSpace(string(m.Key)),
		Timestamp:  stamp,
	}

	var event changeEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		msg.Data = string(m.Value)
		return msg
	}

	if topic := strings.TrimSpace(event.Topic); topic != "" {
		msg.Topic = topic
	}
	if e := normalization.NormalizeEntity(event.Entity); e != "" {
		msg.Entity = e
	}
	if a := strings.TrimSpace(event.Action); a != "" {
		msg.Action = a
	}
	if msg.Topic == "" {
		msg.Topic = msg.Entity + "." + msg.Action
	}

	payload := normalization.MapFromPayload(event.Data)
	if id := strings.TrimSpace(event.ResourceID); id != "" {
		msg.ResourceID = id
	} else if msg.ResourceID == "" {
		msg.ResourceID = normalization.FirstString(payload, "_id", "id")
	}
	msg.Metadata = event.Metadata
	if rid := normalization.FirstString(payload, "restaurantId"); rid != "" && msg.Metadata["restaurantId"] == "" {
		if msg.Metadata == nil {
			msg.Metadata = make(map[string]string, 1)
		}
		msg.Metadata["restaurantId"] = rid
	}
	msg.Data = event.Data
	return msg
}

// splitTopic reads "[prefix.]entity.action" topics. A topic without an action is all entity.
func splitTopic(topic string) (entity, action string) {
	parts := strings.Split(strings.TrimSpace(topic), ".")
	n := len(parts)
	if n >= 2 {
		e, a := strings.TrimSpace(parts[n-2]), strings.TrimSpace(parts[n-1])
		if e != "" && a != "" {
			return normalization.NormalizeEntity(e), a
		}
	}
	return normalization.NormalizeEntity(parts[n-1]), "unknown"
}
