package root

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/sandeepkv93/lifeo/internal/background"
	"github.com/sandeepkv93/lifeo/internal/config"
	"github.com/sandeepkv93/lifeo/internal/logging"
	"github.com/sandeepkv93/lifeo/internal/planner"
	"github.com/sandeepkv93/lifeo/internal/storage"
)

type app struct {
	cfg       config.Config
	logger    *slog.Logger
	logCloser io.Closer
	store     *storage.Store
	session   *planner.Session
}

// openApp loads config and opens the tiered store. Logs go to the configured
// file, else to logOut.
func openApp(ctx context.Context, opts *globalOptions, logOut io.Writer) (*app, func(), error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, logCloser := logging.New(cfg.Log, logOut)

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		_ = logCloser.Close()
		return nil, nil, err
	}
	a := &app{
		cfg:       cfg,
		logger:    logger,
		logCloser: logCloser,
		store:     store,
		session: planner.NewSession(store, planner.Options{
			Location:               cfg.Location(),
			Logger:                 logger,
			MaxMissions:            cfg.Planner.MaxMissions,
			DefaultDurationMinutes: cfg.Planner.DefaultDurationMinutes,
		}),
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("close store", "err", err)
		}
		_ = logCloser.Close()
	}
	return a, cleanup, nil
}

// openStore builds the primary tier named by config over the file tier. A
// primary that fails to open is logged and skipped; the file tier alone
// still serves reads and writes.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*storage.Store, error) {
	var primary storage.Backend
	switch cfg.Store.Primary {
	case config.PrimaryMemory:
		primary = storage.NewMemoryBackend()
	case config.PrimaryPostgres:
		pg, err := storage.OpenPostgres(ctx, cfg.Store.PostgresDSN)
		if err != nil {
			logger.Warn("postgres tier unavailable", "err", err)
		} else {
			primary = pg
		}
	default:
		db, err := storage.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			logger.Warn("sqlite tier unavailable", "path", cfg.Store.SQLitePath, "err", err)
		} else {
			primary = db
		}
	}

	secondary, err := storage.NewFileBackend(cfg.Store.FallbackDir)
	if err != nil {
		logger.Warn("file tier unavailable", "dir", cfg.Store.FallbackDir, "err", err)
		if primary == nil {
			return nil, errors.New("no storage tier could be opened")
		}
		return storage.NewStore(primary, nil, logger), nil
	}
	return storage.NewStore(primary, secondary, logger), nil
}

func (a *app) controller() *background.Controller {
	return background.NewController(a.store, a.badge(), background.Options{
		Location: a.cfg.Location(),
		Logger:   a.logger,
	})
}

func (a *app) badge() background.Badge {
	badges := background.MultiBadge{background.LogBadge{Logger: a.logger}}
	if a.cfg.Badge.File != "" {
		badges = append(badges, background.FileBadge{Path: a.cfg.Badge.File})
	}
	if a.cfg.Badge.Notify {
		badges = append(badges, background.NewNotifyBadge())
	}
	return badges
}

// persisted reports an in-memory-only outcome as a failure: a one-shot
// command exits right after, so the change is lost.
func persisted(err error) error {
	if errors.Is(err, planner.ErrNotPersisted) || errors.Is(err, background.ErrNotPersisted) {
		return errors.New("storage unavailable, change was not saved")
	}
	return err
}
