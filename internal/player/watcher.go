package player

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watch reloads the preset file whenever it changes on disk, until ctx is
// cancelled. Editors replace files rather than writing in place, so the
// parent directory is watched and events are filtered by name. A reload
// failure keeps the previous presets.
func (s *PresetStore) Watch(ctx context.Context, path string, log zerolog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create preset watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch preset directory: %w", err)
	}

	log = log.With().Str("component", "presets").Logger()

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
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := s.LoadFile(path); err != nil {
					log.Warn().Err(err).Msg("preset reload failed, keeping previous presets")
					continue
				}
				log.Info().Str("path", path).Msg("expression presets reloaded")

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("preset watcher error")
			}
		}
	}()

	return nil
}
