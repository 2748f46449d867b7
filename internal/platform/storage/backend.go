package storage

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrInvalidKey is returned by backends for keys that cannot be mapped to a storage slot.
	ErrInvalidKey = errors.New("storage: invalid key")
)

// Change describes a write or delete observed on the shared backing store.
// Backends only report changes that originated from another process or session.
type Change struct {
	Key     string
	Value   []byte
	Removed bool
}

// Backend is the persistent key-value surface the bridge runs on. Values are raw JSON bytes.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Watch registers for foreign changes before returning. Delivery stops once ctx is done.
	Watch(ctx context.Context) (<-chan Change, error)
	Close() error
}

func validateKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" || trimmed != key {
		return ErrInvalidKey
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '-', r == '.':
		default:
			return ErrInvalidKey
		}
	}
	if strings.HasPrefix(key, ".") {
		return ErrInvalidKey
	}
	return nil
}

func cloneBytes(value []byte) []byte {
	if value == nil {
		return nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out
}
