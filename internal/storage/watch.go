package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

var ErrWatchUnsupported = errors.New("storage: change watching needs a file tier")

// Watch turns writes to the file tier made by other processes into Change
// events. It returns once the watcher is running; the watcher stops when ctx
// is done.
func (s *Store) Watch(ctx context.Context) error {
	fb := s.fileTier()
	if fb == nil {
		return ErrWatchUnsupported
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(fb.Dir()); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", fb.Dir(), err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				key, ok := fb.keyFor(event.Name)
				if !ok {
					continue
				}
				value, err := fb.Get(ctx, key)
				if err != nil {
					continue
				}
				s.observe(key, value)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("watcher error", "err", err)
			}
		}
	}()
	return nil
}

func (s *Store) fileTier() *FileBackend {
	for _, t := range s.tiers {
		if fb, ok := t.backend.(*FileBackend); ok {
			return fb
		}
	}
	return nil
}
