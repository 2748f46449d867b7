package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const fileSuffix = ".json"

// FileBackend keeps one JSON document per key inside a directory. Several processes may share
// the directory; Watch reports the writes the other processes make.
type FileBackend struct {
	dir string

	mu      sync.Mutex
	written map[string][]byte
	deleted map[string]struct{}
}

func NewFileBackend(dir string) (*FileBackend, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, fmt.Errorf("storage: missing directory")
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("resolve storage dir %s: %w", trimmed, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", abs, err)
	}
	return &FileBackend{
		dir:     abs,
		written: make(map[string][]byte),
		deleted: make(map[string]struct{}),
	}, nil
}

// Dir returns the absolute directory backing the store.
func (b *FileBackend) Dir() string { return b.dir }

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, key+fileSuffix)
}

func (b *FileBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(b.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

func (b *FileBackend) Set(_ context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(b.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp for %s: %w", key, err)
	}

	b.mu.Lock()
	b.written[key] = cloneBytes(value)
	delete(b.deleted, key)
	b.mu.Unlock()

	if err := os.Rename(tmpName, b.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

func (b *FileBackend) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	b.mu.Lock()
	b.deleted[key] = struct{}{}
	delete(b.written, key)
	b.mu.Unlock()

	if err := os.Remove(b.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (b *FileBackend) Watch(ctx context.Context) (<-chan Change, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(b.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch storage dir %s: %w", b.dir, err)
	}
	zap.L().Debug("storage watch started", zap.String("directory", b.dir))

	out := make(chan Change, 64)
	go func() {
		defer close(out)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				zap.L().Warn("storage watch error", zap.String("directory", b.dir), zap.Error(err))
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				change, deliver := b.translate(event)
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

// translate maps a filesystem event to a Change, dropping temp files and this process's own writes.
func (b *FileBackend) translate(event fsnotify.Event) (Change, bool) {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileSuffix) {
		return Change{}, false
	}
	key := strings.TrimSuffix(name, fileSuffix)
	if validateKey(key) != nil {
		return Change{}, false
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		data, err := os.ReadFile(event.Name)
		if err != nil {
			return Change{}, false
		}
		b.mu.Lock()
		own, ok := b.written[key]
		b.mu.Unlock()
		if ok && bytes.Equal(own, data) {
			return Change{}, false
		}
		return Change{Key: key, Value: data}, true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if _, err := os.Stat(event.Name); err == nil {
			return Change{}, false
		}
		b.mu.Lock()
		_, own := b.deleted[key]
		delete(b.deleted, key)
		b.mu.Unlock()
		if own {
			return Change{}, false
		}
		return Change{Key: key, Removed: true}, true
	}
	return Change{}, false
}

func (b *FileBackend) Close() error { return nil }

var _ Backend = (*FileBackend)(nil)
