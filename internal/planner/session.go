// Package planner is the interactive side of the day lifecycle: it holds the
// working copy of today's missions and routes every edit through
// reconciliation, momentum and persistence.
package planner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/lifeo/internal/daily"
	"github.com/sandeepkv93/lifeo/internal/model"
	"github.com/sandeepkv93/lifeo/internal/storage"
)

const (
	DefaultMaxMissions     = 3
	DefaultDurationMinutes = 25
)

var (
	ErrPlanFull        = errors.New("planner: plan is full")
	ErrMissionNotFound = errors.New("planner: mission not found")
	ErrNotPersisted    = errors.New("planner: change kept in memory but not persisted")
	ErrEmptyTitle      = errors.New("planner: mission title is required")
)

// Draft is a mission before it has an id.
type Draft struct {
	Title           string
	Category        model.Category
	DurationMinutes int
	Rationale       string
}

type Options struct {
	Now                    func() time.Time
	Location               *time.Location
	Logger                 *slog.Logger
	MaxMissions            int
	DefaultDurationMinutes int
	NewID                  func() string
}

// Session serializes every write it makes; other processes writing the same
// store are not coordinated with, and the last write wins.
type Session struct {
	store       *storage.Store
	logger      *slog.Logger
	now         func() time.Time
	loc         *time.Location
	maxMissions int
	duration    int
	newID       func() string

	mu     sync.Mutex
	loaded bool
	today  string
	state  model.AppState
	tasks  []model.Mission
}

func NewSession(store *storage.Store, opts Options) *Session {
	s := &Session{
		store:       store,
		logger:      opts.Logger,
		now:         opts.Now,
		loc:         opts.Location,
		maxMissions: opts.MaxMissions,
		duration:    opts.DefaultDurationMinutes,
		newID:       opts.NewID,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.logger = s.logger.With("component", "planner")
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.maxMissions <= 0 {
		s.maxMissions = DefaultMaxMissions
	}
	if s.duration <= 0 {
		s.duration = DefaultDurationMinutes
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

func (s *Session) currentDate() string {
	return daily.DateString(s.now().In(s.loc))
}

// Load reads the stored state, rolls it over to today and takes today's
// missions as the working set. It can be called again to pick up writes from
// other processes.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Session) loadLocked(ctx context.Context) error {
	today := s.currentDate()
	stored := storage.Load(ctx, s.store, model.KeyAppState, model.DecodeAppState, model.DefaultAppState(today))
	next := daily.DecideReset(stored, today)

	s.loaded = true
	s.today = today
	s.state = next
	s.tasks = daily.TodayTasks(next, today)

	if next.LastResetDate != stored.LastResetDate {
		s.logger.Info("day rolled over on load", "from", stored.LastResetDate, "to", today)
		if !storage.Save(ctx, s.store, model.KeyAppState, next) {
			return ErrNotPersisted
		}
	}
	return nil
}

// AddTask appends one mission to today's plan.
func (s *Session) AddTask(ctx context.Context, draft Draft) (model.Mission, error) {
	var added model.Mission
	err := s.mutate(ctx, func(tasks []model.Mission) ([]model.Mission, error) {
		if len(tasks) >= s.maxMissions {
			return nil, fmt.Errorf("%w: %d of %d", ErrPlanFull, len(tasks), s.maxMissions)
		}
		m, err := s.fromDraft(draft)
		if err != nil {
			return nil, err
		}
		added = m
		return append(tasks, m), nil
	})
	return added, err
}

// GeneratePlan replaces today's missions with a fresh plan.
func (s *Session) GeneratePlan(ctx context.Context, drafts []Draft) ([]model.Mission, error) {
	if len(drafts) > s.maxMissions {
		return nil, fmt.Errorf("%w: %d drafts, limit %d", ErrPlanFull, len(drafts), s.maxMissions)
	}
	plan := make([]model.Mission, 0, len(drafts))
	for i, d := range drafts {
		m, err := s.fromDraft(d)
		if err != nil {
			return nil, fmt.Errorf("draft %d: %w", i+1, err)
		}
		plan = append(plan, m)
	}
	err := s.mutate(ctx, func([]model.Mission) ([]model.Mission, error) {
		return plan, nil
	})
	return model.CloneMissions(plan), err
}

// CompleteTask marks a mission done. Completing it again changes nothing.
func (s *Session) CompleteTask(ctx context.Context, id string) error {
	return s.updateOne(ctx, id, func(m model.Mission) model.Mission {
		if m.Completed {
			return m
		}
		return m.MarkCompleted(s.now())
	})
}

// SkipTask leaves a mission open.
func (s *Session) SkipTask(ctx context.Context, id string) error {
	return s.updateOne(ctx, id, model.Mission.MarkOpen)
}

// ReopenTask undoes a completion. Momentum already credited stays.
func (s *Session) ReopenTask(ctx context.Context, id string) error {
	return s.updateOne(ctx, id, model.Mission.MarkOpen)
}

// CarryOver copies one of yesterday's unfinished missions into today under a
// new id.
func (s *Session) CarryOver(ctx context.Context, id string) (model.Mission, error) {
	var carried model.Mission
	err := s.mutate(ctx, func(tasks []model.Mission) ([]model.Mission, error) {
		var source *model.Mission
		for _, m := range daily.YesterdayIncomplete(s.state, s.today) {
			if m.ID == id {
				source = &m
				break
			}
		}
		if source == nil {
			return nil, fmt.Errorf("%w: %q in yesterday's open missions", ErrMissionNotFound, id)
		}
		if len(tasks) >= s.maxMissions {
			return nil, fmt.Errorf("%w: %d of %d", ErrPlanFull, len(tasks), s.maxMissions)
		}
		carried = source.MarkOpen()
		carried.ID = s.newID()
		return append(tasks, carried), nil
	})
	return carried, err
}

// Snapshot is the read model renderers draw from.
type Snapshot struct {
	Today               string
	Missions            []model.Mission
	Momentum            model.Momentum
	History             []model.DayRecord
	YesterdayIncomplete []model.Mission
	CompletionRate      int
	MaxMissions         int
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state.Clone()
	return Snapshot{
		Today:               s.today,
		Missions:            model.CloneMissions(s.tasks),
		Momentum:            state.Momentum,
		History:             state.History,
		YesterdayIncomplete: daily.YesterdayIncomplete(state, s.today),
		CompletionRate:      daily.CompletionRate(s.tasks),
		MaxMissions:         s.maxMissions,
	}
}

func (s *Session) LoadPrefs(ctx context.Context) model.UIPrefs {
	decode := func(raw []byte) (model.UIPrefs, error) { return model.DecodeUIPrefs(raw), nil }
	return storage.Load(ctx, s.store, model.KeyUIPrefs, decode, model.DefaultUIPrefs())
}

func (s *Session) SavePrefs(ctx context.Context, prefs model.UIPrefs) error {
	if !storage.Save(ctx, s.store, model.KeyUIPrefs, prefs) {
		return ErrNotPersisted
	}
	return nil
}

func (s *Session) updateOne(ctx context.Context, id string, change func(model.Mission) model.Mission) error {
	return s.mutate(ctx, func(tasks []model.Mission) ([]model.Mission, error) {
		for i := range tasks {
			if tasks[i].ID == id {
				tasks[i] = change(tasks[i])
				return tasks, nil
			}
		}
		return nil, fmt.Errorf("%w: %q", ErrMissionNotFound, id)
	})
}

// mutate applies one edit to the working copy, folds it into today's record,
// credits new completions and persists. A failed write keeps the edit.
func (s *Session) mutate(ctx context.Context, edit func([]model.Mission) ([]model.Mission, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		if err := s.loadLocked(ctx); err != nil {
			s.logger.Warn("load before edit not persisted", "err", err)
		}
	}
	s.rolloverLocked()

	before := s.tasks
	after, err := edit(model.CloneMissions(before))
	if err != nil {
		return err
	}
	if after == nil {
		after = []model.Mission{}
	}

	next := daily.Reconcile(s.state, s.today, after)
	next.Momentum = daily.ApplyCompletions(next.Momentum, daily.NewCompletions(before, after))
	s.state = next
	s.tasks = after

	if !storage.Save(ctx, s.store, model.KeyAppState, s.state) {
		s.logger.Error("edit not persisted", "date", s.today)
		return ErrNotPersisted
	}
	return nil
}

// rolloverLocked moves the session to a new date when midnight passed while
// it was open. The next write persists the new marker.
func (s *Session) rolloverLocked() {
	today := s.currentDate()
	if today == s.today {
		return
	}
	s.logger.Info("day rolled over mid-session", "from", s.today, "to", today)
	s.state = daily.DecideReset(s.state, today)
	s.today = today
	s.tasks = daily.TodayTasks(s.state, today)
}

func (s *Session) fromDraft(d Draft) (model.Mission, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return model.Mission{}, ErrEmptyTitle
	}
	category := d.Category
	if category == "" {
		category = model.CategoryFocus
	}
	duration := d.DurationMinutes
	if duration == 0 {
		duration = s.duration
	}
	m := model.Mission{
		ID:              s.newID(),
		Title:           title,
		Category:        category,
		DurationMinutes: duration,
		Rationale:       strings.TrimSpace(d.Rationale),
	}
	if err := m.Validate(); err != nil {
		return model.Mission{}, err
	}
	return m, nil
}
