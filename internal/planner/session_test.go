package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/lifeo/internal/model"
	"github.com/sandeepkv93/lifeo/internal/storage"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = t
}

func at(date string, hour int) time.Time {
	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		panic(err)
	}
	return t.Add(time.Duration(hour) * time.Hour)
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("m%d", n)
	}
}

func setupSession(t *testing.T, now time.Time) (*Session, *storage.Store, *storage.MemoryBackend, *fakeClock) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	store := storage.NewStore(backend, nil, nil)
	clock := &fakeClock{t: now}
	s := NewSession(store, Options{Now: clock.Now, Location: time.UTC, NewID: sequentialIDs()})
	return s, store, backend, clock
}

func storedState(t *testing.T, store *storage.Store) model.AppState {
	t.Helper()
	raw, ok := store.Get(context.Background(), model.KeyAppState)
	if !ok {
		t.Fatalf("no stored state")
	}
	state, err := model.DecodeAppState(raw)
	if err != nil {
		t.Fatalf("decode stored state: %v", err)
	}
	return state
}

func drafts(titles ...string) []Draft {
	out := make([]Draft, 0, len(titles))
	for _, title := range titles {
		out = append(out, Draft{Title: title, Category: model.CategoryHealth, DurationMinutes: 30})
	}
	return out
}

func TestLoadOnEmptyStoreStartsBlankDay(t *testing.T) {
	s, _, _, _ := setupSession(t, at("2026-03-09", 9))
	if err := s.Load(t.Context()); err != nil {
		t.Fatalf("load: %v", err)
	}
	snap := s.Snapshot()
	if snap.Today != "2026-03-09" || len(snap.Missions) != 0 || len(snap.History) != 0 {
		t.Fatalf("unexpected snapshot: %#v", snap)
	}
	if snap.Momentum.TrackingStartDate != "2026-03-09" {
		t.Fatalf("tracking start should default to today, got %q", snap.Momentum.TrackingStartDate)
	}
}

func TestLoadRollsOverAndPersistsMarker(t *testing.T) {
	s, store, _, _ := setupSession(t, at("2026-03-10", 8))
	storage.Save(t.Context(), store, model.KeyAppState, model.AppState{
		History: []model.DayRecord{{
			Date:           "2026-03-09",
			Tasks:          []model.Mission{{ID: "y1", Title: "Run", Category: model.CategoryHealth, DurationMinutes: 20}},
			CompletedCount: 0,
		}},
		Momentum:      model.Momentum{TrackingStartDate: "2026-03-01"},
		LastResetDate: "2026-03-09",
	})

	if err := s.Load(t.Context()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := storedState(t, store).LastResetDate; got != "2026-03-10" {
		t.Fatalf("expected marker persisted as today, got %q", got)
	}
	snap := s.Snapshot()
	if len(snap.Missions) != 0 {
		t.Fatalf("new day should start with no missions, got %#v", snap.Missions)
	}
	if len(snap.YesterdayIncomplete) != 1 || snap.YesterdayIncomplete[0].ID != "y1" {
		t.Fatalf("expected yesterday's open mission, got %#v", snap.YesterdayIncomplete)
	}
}

func TestGeneratePlanAndCompleteCreditsMomentumOnce(t *testing.T) {
	s, store, _, _ := setupSession(t, at("2026-03-09", 9))
	ctx := t.Context()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	plan, err := s.GeneratePlan(ctx, drafts("Write", "Walk", "Call mom"))
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}
	if len(plan) != 3 {
		t.Fatalf("expected three missions, got %d", len(plan))
	}

	if err := s.CompleteTask(ctx, plan[0].ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := s.CompleteTask(ctx, plan[0].ID); err != nil {
		t.Fatalf("complete again: %v", err)
	}
	if err := s.CompleteTask(ctx, plan[1].ID); err != nil {
		t.Fatalf("complete second: %v", err)
	}

	state := storedState(t, store)
	if len(state.History) != 1 {
		t.Fatalf("expected one record for today, got %d", len(state.History))
	}
	rec := state.History[0]
	if rec.Date != "2026-03-09" || rec.CompletedCount != 2 || len(rec.Tasks) != 3 {
		t.Fatalf("unexpected record: %#v", rec)
	}
	if rec.Tasks[0].CompletedAt == nil {
		t.Fatalf("completed mission should carry completedAt")
	}
	if state.Momentum.LifetimeTotal != 2 || state.Momentum.WeeklyScore != 2 {
		t.Fatalf("unexpected momentum: %#v", state.Momentum)
	}
	if s.Snapshot().CompletionRate != 67 {
		t.Fatalf("expected 67%% completion, got %d", s.Snapshot().CompletionRate)
	}
}

func TestReopenAndRecompleteCreditsAgain(t *testing.T) {
	s, store, _, _ := setupSession(t, at("2026-03-09", 9))
	ctx := t.Context()
	m, err := s.AddTask(ctx, Draft{Title: "Budget", Category: model.CategoryMoney})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if m.DurationMinutes != DefaultDurationMinutes {
		t.Fatalf("expected default duration, got %d", m.DurationMinutes)
	}
	if err := s.CompleteTask(ctx, m.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := s.ReopenTask(ctx, m.ID); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	state := storedState(t, store)
	if state.History[0].CompletedCount != 0 || state.Momentum.LifetimeTotal != 1 {
		t.Fatalf("reopen should keep momentum and clear completion: %#v", state)
	}
	if state.History[0].Tasks[0].CompletedAt != nil {
		t.Fatalf("reopened mission should drop completedAt")
	}
	if err := s.CompleteTask(ctx, m.ID); err != nil {
		t.Fatalf("recomplete: %v", err)
	}
	if got := storedState(t, store).Momentum.LifetimeTotal; got != 2 {
		t.Fatalf("expected second credit after reopen, got %d", got)
	}
}

func TestSkipLeavesMissionOpen(t *testing.T) {
	s, store, _, _ := setupSession(t, at("2026-03-09", 9))
	ctx := t.Context()
	m, err := s.AddTask(ctx, Draft{Title: "Inbox zero", Category: model.CategoryAdmin, DurationMinutes: 15})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.SkipTask(ctx, m.ID); err != nil {
		t.Fatalf("skip: %v", err)
	}
	state := storedState(t, store)
	if state.History[0].Tasks[0].Completed || state.Momentum.LifetimeTotal != 0 {
		t.Fatalf("skip should not complete or credit: %#v", state)
	}
}

func TestPlanIsCappedAtMaxMissions(t *testing.T) {
	s, _, _, _ := setupSession(t, at("2026-03-09", 9))
	ctx := t.Context()
	if _, err := s.GeneratePlan(ctx, drafts("a", "b", "c", "d")); !errors.Is(err, ErrPlanFull) {
		t.Fatalf("expected ErrPlanFull for oversized plan, got %v", err)
	}
	if _, err := s.GeneratePlan(ctx, drafts("a", "b", "c")); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := s.AddTask(ctx, Draft{Title: "d"}); !errors.Is(err, ErrPlanFull) {
		t.Fatalf("expected ErrPlanFull on fourth add, got %v", err)
	}
	if got := len(s.Snapshot().Missions); got != 3 {
		t.Fatalf("rejected add should not change plan, got %d missions", got)
	}
}

func TestInvalidDraftsAreRejected(t *testing.T) {
	s, _, _, _ := setupSession(t, at("2026-03-09", 9))
	ctx := t.Context()
	if _, err := s.AddTask(ctx, Draft{Title: "   "}); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if _, err := s.AddTask(ctx, Draft{Title: "x", Category: "Hobby"}); !errors.Is(err, model.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
	if _, err := s.AddTask(ctx, Draft{Title: "x", DurationMinutes: -5}); !errors.Is(err, model.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestUnknownMissionID(t *testing.T) {
	s, _, _, _ := setupSession(t, at("2026-03-09", 9))
	if err := s.CompleteTask(t.Context(), "nope"); !errors.Is(err, ErrMissionNotFound) {
		t.Fatalf("expected ErrMissionNotFound, got %v", err)
	}
	if _, err := s.CarryOver(t.Context(), "nope"); !errors.Is(err, ErrMissionNotFound) {
		t.Fatalf("expected ErrMissionNotFound for carry over, got %v", err)
	}
}

func TestCarryOverCopiesYesterdayMissionWithFreshID(t *testing.T) {
	s, store, _, clock := setupSession(t, at("2026-03-09", 20))
	ctx := t.Context()
	plan, err := s.GeneratePlan(ctx, drafts("Stretch", "Taxes"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := s.CompleteTask(ctx, plan[0].ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	clock.Set(at("2026-03-10", 8))
	if err := s.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	carried, err := s.CarryOver(ctx, plan[1].ID)
	if err != nil {
		t.Fatalf("carry over: %v", err)
	}
	if carried.ID == plan[1].ID || carried.Title != "Taxes" || carried.Completed {
		t.Fatalf("unexpected carried mission: %#v", carried)
	}
	if _, err := s.CarryOver(ctx, plan[0].ID); !errors.Is(err, ErrMissionNotFound) {
		t.Fatalf("completed missions cannot be carried, got %v", err)
	}

	state := storedState(t, store)
	if len(state.History) != 2 {
		t.Fatalf("expected records for both days, got %#v", state.History)
	}
	if state.History[0].Tasks[1].ID != plan[1].ID {
		t.Fatalf("yesterday's record must be untouched: %#v", state.History[0])
	}
}

func TestMidnightDuringSessionRollsOverBeforeNextEdit(t *testing.T) {
	s, store, _, clock := setupSession(t, at("2026-03-09", 23))
	ctx := t.Context()
	plan, err := s.GeneratePlan(ctx, drafts("Late task"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	clock.Set(at("2026-03-10", 0))
	if err := s.CompleteTask(ctx, plan[0].ID); !errors.Is(err, ErrMissionNotFound) {
		t.Fatalf("yesterday's mission is not in today's plan, got %v", err)
	}
	if _, err := s.AddTask(ctx, Draft{Title: "Fresh"}); err != nil {
		t.Fatalf("add after midnight: %v", err)
	}

	state := storedState(t, store)
	if state.LastResetDate != "2026-03-10" {
		t.Fatalf("expected marker moved to new day, got %q", state.LastResetDate)
	}
	if len(state.History) != 2 || state.History[0].Date != "2026-03-09" || state.History[1].Date != "2026-03-10" {
		t.Fatalf("unexpected history after midnight: %#v", state.History)
	}
	if len(state.History[0].Tasks) != 1 || state.History[0].Tasks[0].Title != "Late task" {
		t.Fatalf("previous day record changed: %#v", state.History[0])
	}
}

func TestPersistFailureKeepsInMemoryChange(t *testing.T) {
	s, _, backend, _ := setupSession(t, at("2026-03-09", 9))
	ctx := t.Context()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	backend.FailSets = true
	m, err := s.AddTask(ctx, Draft{Title: "Offline"})
	if !errors.Is(err, ErrNotPersisted) {
		t.Fatalf("expected ErrNotPersisted, got %v", err)
	}
	missions := s.Snapshot().Missions
	if len(missions) != 1 || missions[0].ID != m.ID {
		t.Fatalf("in-memory change should survive failed persist: %#v", missions)
	}
}

func TestEditAcceptedBySecondaryTierSurvivesReload(t *testing.T) {
	primary := storage.NewMemoryBackend()
	store := storage.NewStore(primary, storage.NewMemoryBackend(), nil)
	clock := &fakeClock{t: at("2026-03-09", 9)}
	s := NewSession(store, Options{Now: clock.Now, Location: time.UTC, NewID: sequentialIDs()})
	ctx := context.Background()

	if _, err := s.AddTask(ctx, Draft{Title: "first"}); err != nil {
		t.Fatalf("add first: %v", err)
	}
	primary.FailSets = true
	if _, err := s.AddTask(ctx, Draft{Title: "second"}); err != nil {
		t.Fatalf("add second should persist to the secondary tier: %v", err)
	}

	if err := s.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := s.Snapshot().Missions; len(got) != 2 || got[1].Title != "second" {
		t.Fatalf("acknowledged edit lost on reload: %+v", got)
	}

	other := NewSession(store, Options{Now: clock.Now, Location: time.UTC})
	if err := other.Load(ctx); err != nil {
		t.Fatalf("second session load: %v", err)
	}
	if got := len(other.Snapshot().Missions); got != 2 {
		t.Fatalf("expected another session to see both missions, got %d", got)
	}
}

func TestConcurrentEditsKeepOneRecordPerDay(t *testing.T) {
	s, store, _, _ := setupSession(t, at("2026-03-09", 9))
	ctx := t.Context()
	plan, err := s.GeneratePlan(ctx, drafts("a", "b", "c"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := plan[i%3].ID
			if i%2 == 0 {
				_ = s.CompleteTask(ctx, id)
			} else {
				_ = s.SkipTask(ctx, id)
			}
		}()
	}
	wg.Wait()

	state := storedState(t, store)
	if len(state.History) != 1 {
		t.Fatalf("expected a single record, got %d", len(state.History))
	}
	rec := state.History[0]
	completed := 0
	for _, m := range rec.Tasks {
		if m.Completed {
			completed++
		}
	}
	if rec.CompletedCount != completed {
		t.Fatalf("completedCount %d does not match tasks %d", rec.CompletedCount, completed)
	}
}

func TestPrefsFallBackToDefaultsAndRoundTrip(t *testing.T) {
	s, store, _, _ := setupSession(t, at("2026-03-09", 9))
	ctx := t.Context()

	if got := s.LoadPrefs(ctx); got != model.DefaultUIPrefs() {
		t.Fatalf("expected defaults, got %#v", got)
	}
	store.Set(ctx, model.KeyUIPrefs, []byte(`{"screen":"focus","darkMode":"yes"}`))
	got := s.LoadPrefs(ctx)
	if got.Screen != model.ScreenFocus || got.DarkMode {
		t.Fatalf("expected per-field fallback, got %#v", got)
	}

	want := model.UIPrefs{Screen: model.ScreenDashboard, DarkMode: true, FocusCursor: 2, ShowWeeklyBox: true}
	if err := s.SavePrefs(ctx, want); err != nil {
		t.Fatalf("save prefs: %v", err)
	}
	if got := s.LoadPrefs(ctx); got != want {
		t.Fatalf("prefs roundtrip mismatch: %#v", got)
	}
}
