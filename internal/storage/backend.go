package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// Backend is one durable key-value tier. Get returns ErrNotFound for absent keys.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
