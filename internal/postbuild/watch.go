package postbuild

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the burst of events an editor emits for one save.
const DefaultDebounce = 200 * time.Millisecond

// Watch calls rebuild whenever a Markdown file under dir is created,
// written, removed or renamed, until ctx is cancelled. Events arriving
// within debounce of each other trigger a single rebuild. A failing
// rebuild is logged and watching continues.
func Watch(ctx context.Context, dir string, debounce time.Duration, rebuild func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirs(w, dir); err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	buildLogger.Info().Str("dir", dir).Msg("Watching for changes")

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
			return
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			buildLogger.Info().Msg("Watcher stopped")
			return nil

		case <-fire:
			timer, fire = nil, nil
			if err := rebuild(ctx); err != nil {
				buildLogger.Error().Err(err).Msg("Rebuild failed")
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 && isDir(ev.Name) {
				if err := addDirs(w, ev.Name); err != nil {
					buildLogger.Warn().Err(err).Str("path", ev.Name).Msg("Failed to watch new directory")
				}
				schedule()
				continue
			}
			if !strings.HasSuffix(ev.Name, ".md") || ev.Op == fsnotify.Chmod {
				continue
			}
			buildLogger.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("Change detected")
			schedule()

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			buildLogger.Error().Err(werr).Msg("Watcher error")
		}
	}
}

func addDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
