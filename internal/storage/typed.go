package storage

import (
	"context"
	"encoding/json"
)

// Load decodes the stored value for key, or returns fallback when the key is
// missing on every tier or its bytes do not decode.
func Load[T any](ctx context.Context, s *Store, key string, decode func([]byte) (T, error), fallback T) T {
	raw, ok := s.Get(ctx, key)
	if !ok {
		return fallback
	}
	value, err := decode(raw)
	if err != nil {
		s.logger.Warn("stored value rejected, using default", "key", key, "err", err)
		return fallback
	}
	return value
}

// Save JSON-encodes value and writes it to every tier.
func Save(ctx context.Context, s *Store, key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("encode failed", "key", key, "err", err)
		return false
	}
	return s.Set(ctx, key, raw)
}
