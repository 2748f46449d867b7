package storage

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Value is a persisted, observable slot of type T bound to one key.
type Value[T any] struct {
	bridge *Bridge
	key    string
	def    T

	mu        sync.Mutex
	current   T
	listeners map[uint64]func(T)
	nextID    uint64
}

// NewValue binds key and loads its current content, falling back to def.
func NewValue[T any](bridge *Bridge, key string, def T) *Value[T] {
	return &Value[T]{
		bridge:    bridge,
		key:       key,
		def:       def,
		current:   Read(bridge, key, def),
		listeners: make(map[uint64]func(T)),
	}
}

func (v *Value[T]) Key() string { return v.key }

func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set replaces the value.
func (v *Value[T]) Set(next T) {
	v.Update(func(T) T { return next })
}

// Update computes the next value from the previous one, persists it, then updates memory.
func (v *Value[T]) Update(fn func(prev T) T) {
	v.mu.Lock()
	next := fn(v.current)
	v.bridge.Write(v.key, next)
	v.current = next
	listeners := v.snapshotListeners()
	v.mu.Unlock()

	notify(listeners, next)
}

// Remove deletes the key and resets the value to its default.
func (v *Value[T]) Remove() {
	v.mu.Lock()
	v.bridge.Remove(v.key)
	v.current = v.def
	listeners := v.snapshotListeners()
	v.mu.Unlock()

	notify(listeners, v.def)
}

// OnChange registers fn for every change of the in-memory value, local or followed.
func (v *Value[T]) OnChange(fn func(T)) (cancel func()) {
	v.mu.Lock()
	v.nextID++
	id := v.nextID
	v.listeners[id] = fn
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		delete(v.listeners, id)
		v.mu.Unlock()
	}
}

// Follow applies values written to the key by other processes. Removals and empty payloads
// are ignored, unparseable payloads are logged and dropped, and accept may veto a value.
// Followed values are not written back.
func (v *Value[T]) Follow(accept func(T) bool) (cancel func()) {
	return v.bridge.Subscribe(v.key, func(change Change) {
		if change.Removed || len(change.Value) == 0 {
			return
		}
		var next T
		if err := json.Unmarshal(change.Value, &next); err != nil {
			v.bridge.logger.Warn("error parsing storage change", zap.String("key", v.key), zap.Error(err))
			return
		}
		if accept != nil && !accept(next) {
			v.bridge.logger.Debug("storage change rejected", zap.String("key", v.key))
			return
		}
		v.mu.Lock()
		v.current = next
		listeners := v.snapshotListeners()
		v.mu.Unlock()

		notify(listeners, next)
	})
}

func (v *Value[T]) snapshotListeners() []func(T) {
	out := make([]func(T), 0, len(v.listeners))
	for _, fn := range v.listeners {
		out = append(out, fn)
	}
	return out
}

func notify[T any](listeners []func(T), value T) {
	for _, fn := range listeners {
		fn(value)
	}
}
