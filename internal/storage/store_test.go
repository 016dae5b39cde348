package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type decodedValue struct {
	N int `json:"n"`
}

func decodeValue(raw []byte) (decodedValue, error) {
	var v decodedValue
	err := json.Unmarshal(raw, &v)
	return v, err
}

func TestStoreGetFallsThroughToSecondary(t *testing.T) {
	primary := NewMemoryBackend()
	secondary := NewMemoryBackend()
	s := NewStore(primary, secondary, nil)
	ctx := context.Background()

	if err := secondary.Set(ctx, "appState", []byte("from-secondary")); err != nil {
		t.Fatalf("seed secondary: %v", err)
	}
	got, ok := s.Get(ctx, "appState")
	if !ok || string(got) != "from-secondary" {
		t.Fatalf("expected secondary value on primary miss, got %q ok=%v", got, ok)
	}

	primary.FailGets = true
	if err := secondary.Set(ctx, "appState", []byte("still-secondary")); err != nil {
		t.Fatalf("reseed secondary: %v", err)
	}
	got, ok = s.Get(ctx, "appState")
	if !ok || string(got) != "still-secondary" {
		t.Fatalf("expected secondary value on primary failure, got %q ok=%v", got, ok)
	}
}

func TestStoreGetMissingEverywhere(t *testing.T) {
	s := NewStore(NewMemoryBackend(), NewMemoryBackend(), nil)
	if _, ok := s.Get(t.Context(), "appState"); ok {
		t.Fatalf("expected missing key")
	}
}

func TestStoreSetWritesBothTiers(t *testing.T) {
	primary := NewMemoryBackend()
	secondary := NewMemoryBackend()
	s := NewStore(primary, secondary, nil)
	ctx := context.Background()

	if !s.Set(ctx, "uiPrefs", []byte("v")) {
		t.Fatalf("expected set to succeed")
	}
	for name, b := range map[string]*MemoryBackend{"primary": primary, "secondary": secondary} {
		got, err := b.Get(ctx, "uiPrefs")
		if err != nil || string(got) != "v" {
			t.Fatalf("%s tier missing value: %q err=%v", name, got, err)
		}
	}
}

func TestStoreSetSucceedsWhenOneTierFails(t *testing.T) {
	primary := NewMemoryBackend()
	primary.FailSets = true
	s := NewStore(primary, NewMemoryBackend(), nil)
	if !s.Set(t.Context(), "k", []byte("v")) {
		t.Fatalf("expected set to report success with one healthy tier")
	}

	broken := NewMemoryBackend()
	broken.FailSets = true
	other := NewMemoryBackend()
	other.FailSets = true
	if NewStore(broken, other, nil).Set(t.Context(), "k", []byte("v")) {
		t.Fatalf("expected set to fail when every tier fails")
	}
}

func TestStoreGetSkipsTierThatMissedLatestWrite(t *testing.T) {
	primary := NewMemoryBackend()
	secondary := NewMemoryBackend()
	s := NewStore(primary, secondary, nil)
	ctx := context.Background()

	if !s.Set(ctx, "appState", []byte("v1")) {
		t.Fatalf("seed set failed")
	}
	primary.FailSets = true
	if !s.Set(ctx, "appState", []byte("v2")) {
		t.Fatalf("expected set to succeed on the secondary tier")
	}
	got, ok := s.Get(ctx, "appState")
	if !ok || string(got) != "v2" {
		t.Fatalf("expected latest acknowledged value v2, got %q ok=%v", got, ok)
	}
	if other, _ := s.Get(ctx, "uiPrefs"); other != nil {
		t.Fatalf("unrelated key should stay missing, got %q", other)
	}

	// Once the primary accepts a write again it is read first again.
	primary.FailSets = false
	if !s.Set(ctx, "appState", []byte("v3")) {
		t.Fatalf("set after recovery failed")
	}
	if err := secondary.Set(ctx, "appState", []byte("secondary-only")); err != nil {
		t.Fatalf("overwrite secondary: %v", err)
	}
	got, ok = s.Get(ctx, "appState")
	if !ok || string(got) != "v3" {
		t.Fatalf("expected primary value v3 after recovery, got %q ok=%v", got, ok)
	}
}

func TestStoreGetFallsBackToStaleTierWhenCurrentOneFails(t *testing.T) {
	primary := NewMemoryBackend()
	secondary := NewMemoryBackend()
	s := NewStore(primary, secondary, nil)
	ctx := context.Background()

	s.Set(ctx, "appState", []byte("v1"))
	primary.FailSets = true
	s.Set(ctx, "appState", []byte("v2"))
	secondary.FailGets = true

	got, ok := s.Get(ctx, "appState")
	if !ok || string(got) != "v1" {
		t.Fatalf("expected older primary value when the current tier is unreadable, got %q ok=%v", got, ok)
	}
}

func TestStoreSubscribeEmitsOnlyRealChanges(t *testing.T) {
	s := NewStore(NewMemoryBackend(), nil, nil)
	changes, cancel := s.Subscribe()
	defer cancel()
	ctx := context.Background()

	s.Set(ctx, "k", []byte("one"))
	s.Set(ctx, "k", []byte("one"))
	s.Set(ctx, "k", []byte("two"))

	first := <-changes
	if first.Key != "k" || first.OldValue != nil || string(first.NewValue) != "one" {
		t.Fatalf("unexpected first change: %#v", first)
	}
	second := <-changes
	if string(second.OldValue) != "one" || string(second.NewValue) != "two" {
		t.Fatalf("unexpected second change: %#v", second)
	}
	select {
	case extra := <-changes:
		t.Fatalf("identical write must not emit, got %#v", extra)
	default:
	}
}

func TestStoreSubscribeDropsWhenSubscriberIsSlow(t *testing.T) {
	s := NewStore(NewMemoryBackend(), nil, nil)
	s.bufSize = 1
	_, cancel := s.Subscribe()
	defer cancel()

	s.Set(t.Context(), "k", []byte("1"))
	s.Set(t.Context(), "k", []byte("2"))
	s.Set(t.Context(), "k", []byte("3"))
	if got := s.Dropped(); got != 2 {
		t.Fatalf("expected 2 dropped changes, got %d", got)
	}
}

func TestStoreCancelClosesFeed(t *testing.T) {
	s := NewStore(NewMemoryBackend(), nil, nil)
	changes, cancel := s.Subscribe()
	cancel()
	cancel()
	if _, ok := <-changes; ok {
		t.Fatalf("expected closed channel after cancel")
	}
	s.Set(t.Context(), "k", []byte("after-cancel"))
}

func TestLoadFallsBackOnMissingOrMalformed(t *testing.T) {
	s := NewStore(NewMemoryBackend(), nil, nil)
	ctx := context.Background()
	fallback := decodedValue{N: 7}

	if got := Load(ctx, s, "k", decodeValue, fallback); got != fallback {
		t.Fatalf("expected fallback for missing key, got %#v", got)
	}
	s.Set(ctx, "k", []byte("garbage"))
	if got := Load(ctx, s, "k", decodeValue, fallback); got != fallback {
		t.Fatalf("expected fallback for malformed value, got %#v", got)
	}
	if !Save(ctx, s, "k", decodedValue{N: 3}) {
		t.Fatalf("save failed")
	}
	if got := Load(ctx, s, "k", decodeValue, fallback); got.N != 3 {
		t.Fatalf("expected saved value, got %#v", got)
	}
}

func TestWatchReportsWritesFromAnotherProcess(t *testing.T) {
	dir := t.TempDir()
	ours, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}
	s := NewStore(nil, ours, nil)
	changes, cancel := s.Subscribe()
	defer cancel()

	if err := s.Watch(t.Context()); err != nil {
		t.Fatalf("watch: %v", err)
	}

	theirs, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("second file backend: %v", err)
	}
	if err := theirs.Set(t.Context(), "appState", []byte(`{"n":5}`)); err != nil {
		t.Fatalf("external write: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case ch := <-changes:
			if ch.Key == "appState" && string(ch.NewValue) == `{"n":5}` {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for external change")
		}
	}
}

func TestWatchIgnoresOwnWrites(t *testing.T) {
	dir := t.TempDir()
	fb, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}
	s := NewStore(nil, fb, nil)
	if err := s.Watch(t.Context()); err != nil {
		t.Fatalf("watch: %v", err)
	}
	changes, cancel := s.Subscribe()
	defer cancel()

	s.Set(t.Context(), "uiPrefs", []byte("mine"))
	if ch := <-changes; string(ch.NewValue) != "mine" {
		t.Fatalf("unexpected change: %#v", ch)
	}
	select {
	case extra := <-changes:
		t.Fatalf("own write echoed back by watcher: %#v", extra)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchNeedsFileTier(t *testing.T) {
	s := NewStore(NewMemoryBackend(), nil, nil)
	if err := s.Watch(t.Context()); !errors.Is(err, ErrWatchUnsupported) {
		t.Fatalf("expected ErrWatchUnsupported, got %v", err)
	}
}
