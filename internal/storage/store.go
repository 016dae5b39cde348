package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Change describes a value replaced under Key, by this process or another.
type Change struct {
	Key      string
	OldValue []byte
	NewValue []byte
}

type tier struct {
	name    string
	backend Backend
}

// Store reads the primary tier first and falls back to the secondary one.
// Writes go to both tiers. Neither reads nor writes return errors: a read
// that finds nothing usable reports missing, a write reports whether any tier
// accepted it.
//
// A tier that rejected the latest write of a key holds an older value, so
// reads of that key skip it until a later write to it succeeds.
type Store struct {
	tiers  []tier
	logger *slog.Logger

	mu      sync.Mutex
	last    map[string][]byte
	stale   map[string]map[int]bool
	subs    map[int]chan Change
	nextSub int
	bufSize int
	dropped atomic.Uint64
}

// NewStore accepts a nil tier, which is skipped.
func NewStore(primary, secondary Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store{
		logger:  logger.With("component", "store"),
		last:    make(map[string][]byte),
		stale:   make(map[string]map[int]bool),
		subs:    make(map[int]chan Change),
		bufSize: 16,
	}
	if primary != nil {
		s.tiers = append(s.tiers, tier{name: "primary", backend: primary})
	}
	if secondary != nil {
		s.tiers = append(s.tiers, tier{name: "secondary", backend: secondary})
	}
	return s
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	// The per-key set is replaced, never mutated, so it is safe to read unlocked.
	s.mu.Lock()
	stale := s.stale[key]
	s.mu.Unlock()

	for i, t := range s.tiers {
		if stale[i] {
			continue
		}
		value, err := t.backend.Get(ctx, key)
		if err == nil {
			return value, true
		}
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("read failed, trying next tier", "tier", t.name, "key", key, "err", err)
		}
	}
	// Every current tier failed; an older value beats reporting missing.
	for i, t := range s.tiers {
		if !stale[i] {
			continue
		}
		if value, err := t.backend.Get(ctx, key); err == nil {
			s.logger.Warn("serving value from a tier that missed the latest write", "tier", t.name, "key", key)
			return value, true
		}
	}
	return nil, false
}

func (s *Store) Set(ctx context.Context, key string, value []byte) bool {
	old, _ := s.Get(ctx, key)

	// Record the value before writing so the watcher does not echo it back.
	s.mu.Lock()
	prev, seen := s.last[key]
	s.last[key] = append([]byte(nil), value...)
	s.mu.Unlock()

	ok := false
	failed := make(map[int]bool)
	for i, t := range s.tiers {
		if err := t.backend.Set(ctx, key, value); err != nil {
			s.logger.Warn("write failed", "tier", t.name, "key", key, "err", err)
			failed[i] = true
			continue
		}
		ok = true
	}
	if !ok {
		s.logger.Error("write failed on every tier", "key", key)
		s.mu.Lock()
		if seen {
			s.last[key] = prev
		} else {
			delete(s.last, key)
		}
		s.mu.Unlock()
		return false
	}

	s.mu.Lock()
	if len(failed) == 0 {
		delete(s.stale, key)
	} else {
		s.stale[key] = failed
	}
	s.mu.Unlock()

	if !bytes.Equal(old, value) {
		s.publish(Change{Key: key, OldValue: old, NewValue: append([]byte(nil), value...)})
	}
	return true
}

// Subscribe returns a change feed. Delivery never blocks the writer; events
// that do not fit the buffer are dropped and counted.
func (s *Store) Subscribe() (<-chan Change, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Change, s.bufSize)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Store) Dropped() uint64 {
	return s.dropped.Load()
}

func (s *Store) Close() error {
	var errs []error
	for _, t := range s.tiers {
		if err := t.backend.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Store) publish(ch Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		select {
		case sub <- ch:
		default:
			s.dropped.Add(1)
		}
	}
}

// observe records a value written by someone else and publishes it if it
// differs from the last value this store saw.
func (s *Store) observe(key string, value []byte) {
	s.mu.Lock()
	old, seen := s.last[key]
	if seen && bytes.Equal(old, value) {
		s.mu.Unlock()
		return
	}
	s.last[key] = append([]byte(nil), value...)
	s.mu.Unlock()
	s.publish(Change{Key: key, OldValue: old, NewValue: append([]byte(nil), value...)})
}
