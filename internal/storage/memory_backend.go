package storage

import (
	"context"
	"errors"
	"sync"
)

var errBackendClosed = errors.New("storage: backend closed")

// MemoryBackend keeps values in process. FailGets and FailSets simulate an
// unavailable tier.
type MemoryBackend struct {
	mu       sync.Mutex
	values   map[string][]byte
	closed   bool
	FailGets bool
	FailSets bool
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.FailGets {
		return nil, errBackendClosed
	}
	v, ok := b.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (b *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.FailSets {
		return errBackendClosed
	}
	b.values[key] = append([]byte(nil), value...)
	return nil
}

func (b *MemoryBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
