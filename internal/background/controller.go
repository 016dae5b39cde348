// Package background keeps persisted day state current without the UI open:
// it rolls the day over at install, at process start, at every local
// midnight and on request, and mirrors today's completed count to a badge.
package background

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/sandeepkv93/lifeo/internal/daily"
	"github.com/sandeepkv93/lifeo/internal/model"
	"github.com/sandeepkv93/lifeo/internal/scheduler"
	"github.com/sandeepkv93/lifeo/internal/storage"
)

type Trigger string

const (
	TriggerInstall      Trigger = "install"
	TriggerProcessStart Trigger = "processStart"
	TriggerTimer        Trigger = "timer"
	TriggerSignal       Trigger = "signal"
)

const midnightAlarm = "midnight"

var ErrNotPersisted = errors.New("background: state not persisted")

type Options struct {
	Now      func() time.Time
	Location *time.Location
	Logger   *slog.Logger
	// NextWake picks the next timer instant; defaults to the next local midnight.
	NextWake func(now time.Time, loc *time.Location) time.Time
}

type Controller struct {
	store    *storage.Store
	badge    Badge
	logger   *slog.Logger
	now      func() time.Time
	loc      *time.Location
	nextWake func(time.Time, *time.Location) time.Time
	signals  chan struct{}

	mu        sync.Mutex
	lastBadge int
}

func NewController(store *storage.Store, badge Badge, opts Options) *Controller {
	c := &Controller{
		store:     store,
		badge:     badge,
		logger:    opts.Logger,
		now:       opts.Now,
		loc:       opts.Location,
		nextWake:  opts.NextWake,
		signals:   make(chan struct{}, 1),
		lastBadge: -1,
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.logger = c.logger.With("component", "background")
	if c.now == nil {
		c.now = time.Now
	}
	if c.loc == nil {
		c.loc = time.Local
	}
	if c.nextWake == nil {
		c.nextWake = daily.NextMidnight
	}
	return c
}

// Today is the current local calendar date.
func (c *Controller) Today() string {
	return daily.DateString(c.now().In(c.loc))
}

// Boot runs the install path when nothing is stored yet, and the
// process-start reset otherwise.
func (c *Controller) Boot(ctx context.Context) (Trigger, error) {
	if _, ok := c.store.Get(ctx, model.KeyAppState); ok {
		return TriggerProcessStart, c.RunReset(ctx, TriggerProcessStart)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	today := c.Today()
	state := model.DefaultAppState(today)
	c.logger.Info("initialising state", "trigger", TriggerInstall, "date", today)
	if !storage.Save(ctx, c.store, model.KeyAppState, state) {
		return TriggerInstall, ErrNotPersisted
	}
	c.applyBadgeLocked(daily.BadgeCount(state, today))
	return TriggerInstall, nil
}

// RunReset rolls the stored state over to today if needed and refreshes the
// badge. It is safe to call from any trigger at any time.
func (c *Controller) RunReset(ctx context.Context, trigger Trigger) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	today := c.Today()
	state := storage.Load(ctx, c.store, model.KeyAppState, model.DecodeAppState, model.DefaultAppState(today))
	if daily.ClockMovedBack(state, today) {
		c.logger.Warn("clock moved back, rolling over anyway", "from", state.LastResetDate, "to", today)
	}

	next := daily.DecideReset(state, today)
	var err error
	if next.LastResetDate != state.LastResetDate {
		c.logger.Info("day rolled over", "trigger", trigger, "from", state.LastResetDate, "to", today)
		if !storage.Save(ctx, c.store, model.KeyAppState, next) {
			err = ErrNotPersisted
		}
	} else {
		c.logger.Debug("reset check, same day", "trigger", trigger, "date", today)
	}
	c.applyBadgeLocked(daily.BadgeCount(next, today))
	return err
}

// Signal requests a reset from the running loop. Repeated signals before the
// loop picks one up collapse into one.
func (c *Controller) Signal() {
	select {
	case c.signals <- struct{}{}:
	default:
	}
}

// Run boots, then serves timer, signal and change-feed events until ctx is
// done.
func (c *Controller) Run(ctx context.Context) error {
	trigger, err := c.Boot(ctx)
	if err != nil {
		c.logger.Error("boot failed", "trigger", trigger, "err", err)
	}

	if err := c.store.Watch(ctx); err != nil {
		c.logger.Warn("cross-process change watch disabled", "err", err)
	}
	changes, cancel := c.store.Subscribe()
	defer cancel()

	engine := scheduler.NewEngine(4)
	engine.Start()
	defer engine.Stop()
	c.arm(engine)

	for {
		select {
		case <-ctx.Done():
			return nil
		case alarm, ok := <-engine.C():
			if !ok {
				return nil
			}
			if alarm.Name != midnightAlarm {
				continue
			}
			if err := c.RunReset(ctx, TriggerTimer); err != nil {
				c.logger.Error("timer reset failed", "err", err)
			}
			c.arm(engine)
		case <-c.signals:
			if err := c.RunReset(ctx, TriggerSignal); err != nil {
				c.logger.Error("signalled reset failed", "err", err)
			}
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			c.onChange(change)
		}
	}
}

func (c *Controller) arm(engine *scheduler.Engine) {
	fireAt := c.nextWake(c.now(), c.loc)
	if err := engine.Schedule(scheduler.Alarm{Name: midnightAlarm, FireAt: fireAt}); err != nil {
		c.logger.Error("arm midnight alarm failed", "err", err)
		return
	}
	c.logger.Debug("midnight alarm armed", "at", fireAt)
}

// onChange refreshes the badge from a new appState value without touching
// task data.
func (c *Controller) onChange(change storage.Change) {
	if change.Key != model.KeyAppState {
		return
	}
	state, err := model.DecodeAppState(change.NewValue)
	if err != nil {
		c.logger.Warn("ignoring malformed state change", "err", err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyBadgeLocked(daily.BadgeCount(state, c.Today()))
}

func (c *Controller) applyBadgeLocked(count int) {
	if count == c.lastBadge {
		return
	}
	var err error
	if count > 0 {
		err = c.badge.Show(count)
	} else {
		err = c.badge.Clear()
	}
	if err != nil {
		c.logger.Warn("badge update failed", "count", count, "err", err)
		return
	}
	c.lastBadge = count
}
