package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrAlreadyStarted is returned by Start when the change feed is already running.
var ErrAlreadyStarted = errors.New("storage: bridge already started")

// Bridge exposes JSON values stored in a Backend. Reads and writes never fail from the
// caller's point of view: problems are logged and the caller carries on with its in-memory state.
type Bridge struct {
	backend Backend
	logger  *zap.Logger

	mu          sync.RWMutex
	subscribers map[string]map[uint64]func(Change)
	nextSub     uint64
	started     bool
}

func NewBridge(backend Backend, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.L()
	}
	return &Bridge{
		backend:     backend,
		logger:      logger.Named("storage"),
		subscribers: make(map[string]map[uint64]func(Change)),
	}
}

// Backend returns the underlying store.
func (b *Bridge) Backend() Backend { return b.backend }

// Read decodes the value stored under key, returning def when the key is missing or unreadable.
func Read[T any](b *Bridge, key string, def T) T {
	raw, ok, err := b.backend.Get(context.Background(), key)
	if err != nil {
		b.logger.Warn("error reading storage key", zap.String("key", key), zap.Error(err))
		return def
	}
	if !ok || len(raw) == 0 {
		return def
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		b.logger.Warn("error decoding storage key", zap.String("key", key), zap.Error(err))
		return def
	}
	return value
}

// Write stores value under key as JSON.
func (b *Bridge) Write(key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		b.logger.Warn("error encoding storage key", zap.String("key", key), zap.Error(err))
		return
	}
	if err := b.backend.Set(context.Background(), key, raw); err != nil {
		b.logger.Warn("error setting storage key", zap.String("key", key), zap.Error(err))
	}
}

func (b *Bridge) Remove(key string) {
	if err := b.backend.Delete(context.Background(), key); err != nil {
		b.logger.Warn("error removing storage key", zap.String("key", key), zap.Error(err))
	}
}

// Subscribe registers fn for changes to key made by other processes. Callbacks run on the
// bridge's dispatch goroutine once Start has been called.
func (b *Bridge) Subscribe(key string, fn func(Change)) (cancel func()) {
	b.mu.Lock()
	b.nextSub++
	id := b.nextSub
	subs, ok := b.subscribers[key]
	if !ok {
		subs = make(map[uint64]func(Change))
		b.subscribers[key] = subs
	}
	subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if subs, ok := b.subscribers[key]; ok {
				delete(subs, id)
				if len(subs) == 0 {
					delete(b.subscribers, key)
				}
			}
		})
	}
}

// Start begins dispatching external changes to subscribers until ctx is done.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return ErrAlreadyStarted
	}
	b.started = true
	b.mu.Unlock()

	changes, err := b.backend.Watch(ctx)
	if err != nil {
		b.mu.Lock()
		b.started = false
		b.mu.Unlock()
		return err
	}

	go func() {
		defer func() {
			b.mu.Lock()
			b.started = false
			b.mu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case change, ok := <-changes:
				if !ok {
					return
				}
				b.dispatch(change)
			}
		}
	}()
	return nil
}

func (b *Bridge) dispatch(change Change) {
	b.mu.RLock()
	subs := b.subscribers[change.Key]
	handlers := make([]func(Change), 0, len(subs))
	for _, fn := range subs {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}
	b.logger.Debug("external storage change", zap.String("key", change.Key), zap.Bool("removed", change.Removed))
	for _, fn := range handlers {
		fn(change)
	}
}

func (b *Bridge) Close() error {
	return b.backend.Close()
}
