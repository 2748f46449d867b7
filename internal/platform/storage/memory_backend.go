package storage

import (
	"context"
	"sync"
	"sync/atomic"
)

// MemoryStore is an in-process key-value space shared by any number of sessions.
// Each session behaves like a separate execution context (a browser tab, a CLI run):
// it sees every value but is only notified about changes made by the other sessions.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string][]byte
	watchMu  sync.Mutex
	watchers map[*memoryWatcher]struct{}
	nextID   atomic.Int64
}

type memoryWatcher struct {
	origin int64
	ch     chan Change
	done   <-chan struct{}
}

// MemoryBackend is one session on a MemoryStore.
type MemoryBackend struct {
	store  *MemoryStore
	origin int64
	writes atomic.Int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:     make(map[string][]byte),
		watchers: make(map[*memoryWatcher]struct{}),
	}
}

// NewMemoryBackend returns a single session on a fresh store.
func NewMemoryBackend() *MemoryBackend {
	return NewMemoryStore().Open()
}

// Open starts a new session on the store.
func (s *MemoryStore) Open() *MemoryBackend {
	return &MemoryBackend{store: s, origin: s.nextID.Add(1)}
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	value, ok := b.store.data[key]
	return cloneBytes(value), ok, nil
}

func (b *MemoryBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	b.writes.Add(1)
	b.store.mu.Lock()
	b.store.data[key] = cloneBytes(value)
	b.store.mu.Unlock()
	b.store.publish(ctx, b.origin, Change{Key: key, Value: cloneBytes(value)})
	return nil
}

func (b *MemoryBackend) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	b.writes.Add(1)
	b.store.mu.Lock()
	delete(b.store.data, key)
	b.store.mu.Unlock()
	b.store.publish(ctx, b.origin, Change{Key: key, Removed: true})
	return nil
}

// Writes reports how many Set and Delete calls this session issued.
func (b *MemoryBackend) Writes() int {
	return int(b.writes.Load())
}

func (b *MemoryBackend) Watch(ctx context.Context) (<-chan Change, error) {
	w := &memoryWatcher{origin: b.origin, ch: make(chan Change, 64), done: ctx.Done()}
	b.store.watchMu.Lock()
	b.store.watchers[w] = struct{}{}
	b.store.watchMu.Unlock()

	// The channel is never closed: publishers may still hold a reference after removal.
	go func() {
		<-ctx.Done()
		b.store.watchMu.Lock()
		delete(b.store.watchers, w)
		b.store.watchMu.Unlock()
	}()
	return w.ch, nil
}

func (b *MemoryBackend) Close() error { return nil }

func (s *MemoryStore) publish(ctx context.Context, origin int64, change Change) {
	s.watchMu.Lock()
	targets := make([]*memoryWatcher, 0, len(s.watchers))
	for w := range s.watchers {
		if w.origin != origin {
			targets = append(targets, w)
		}
	}
	s.watchMu.Unlock()

	for _, w := range targets {
		select {
		case w.ch <- change:
		case <-w.done:
		case <-ctx.Done():
			return
		}
	}
}

var _ Backend = (*MemoryBackend)(nil)
