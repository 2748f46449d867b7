package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig holds the connection settings for the redis backend.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	Prefix      string
	DialTimeout time.Duration
}

// RedisBackend stores values under a key prefix and announces every write on a pub/sub
// channel so other processes sharing the same redis can follow along.
type RedisBackend struct {
	client  *redis.Client
	prefix  string
	channel string
	origin  string
}

type redisChange struct {
	Origin  string `json:"origin"`
	Key     string `json:"key"`
	Value   []byte `json:"value,omitempty"`
	Removed bool   `json:"removed,omitempty"`
}

// OpenRedis connects to redis and verifies the connection with a ping.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		addr = "localhost:6379"
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "qrmenu:"
	}
	return &RedisBackend{
		client:  client,
		prefix:  prefix,
		channel: prefix + "changes",
		origin:  uuid.NewString(),
	}
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	data, err := b.client.Get(ctx, b.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	announcement, err := json.Marshal(redisChange{Origin: b.origin, Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("encode change %s: %w", key, err)
	}
	_, err = b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, b.prefix+key, value, 0)
		pipe.Publish(ctx, b.channel, announcement)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	announcement, err := json.Marshal(redisChange{Origin: b.origin, Key: key, Removed: true})
	if err != nil {
		return fmt.Errorf("encode change %s: %w", key, err)
	}
	_, err = b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, b.prefix+key)
		pipe.Publish(ctx, b.channel, announcement)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

func (b *RedisBackend) Watch(ctx context.Context) (<-chan Change, error) {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("redis subscribe %s: %w", b.channel, err)
	}
	zap.L().Debug("storage watch started", zap.String("channel", b.channel), zap.String("origin", b.origin))

	messages := sub.Channel()
	out := make(chan Change, 64)
	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				change, deliver := b.decode(msg.Payload)
				if !deliver {
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (b *RedisBackend) decode(payload string) (Change, bool) {
	var event redisChange
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		zap.L().Warn("storage change decode failed", zap.String("channel", b.channel), zap.Error(err))
		return Change{}, false
	}
	if event.Origin == b.origin || validateKey(event.Key) != nil {
		return Change{}, false
	}
	if event.Removed {
		return Change{Key: event.Key, Removed: true}, true
	}
	return Change{Key: event.Key, Value: event.Value}, true
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}

var _ Backend = (*RedisBackend)(nil)
