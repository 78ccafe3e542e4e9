package q2usage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/q2usage/pkg/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const defaultDebounce = 300 * time.Millisecond

// watcher re-runs a render whenever a definition file under its paths changes
type watcher struct {
	paths    []string
	debounce time.Duration
	run      func() error
}

// isDefinitionEvent reports whether ev touches a definition file
func isDefinitionEvent(ev fsnotify.Event) bool {
	if filepath.Ext(ev.Name) != ".hcl" {
		return false
	}
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

// watchDirs returns the directories to watch for paths: every directory
// under a directory argument, and the parent of a file argument.
func watchDirs(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string
	add := func(d string) {
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrPluginNotFound, "cannot watch %s", p)
		}
		if !info.IsDir() {
			add(filepath.Dir(p))
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrPluginNotFound, "cannot watch %s", p)
		}
	}
	return dirs, nil
}

// Run renders once, then again after each burst of changes until ctx is done.
// Render failures are logged and do not stop the loop.
func (w *watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to start file watcher")
	}
	defer func() { _ = fw.Close() }()

	dirs, err := watchDirs(w.paths)
	if err != nil {
		return err
	}
	for _, d := range dirs {
		if err := fw.Add(d); err != nil {
			return errors.Wrapf(err, errors.ErrPluginNotFound, "cannot watch %s", d)
		}
		log.Debug().Str("dir", d).Msg("Watching directory")
	}

	debounce := w.debounce
	if debounce == 0 {
		debounce = defaultDebounce
	}

	w.runOnce()
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 && addNewDirs(fw, ev.Name) {
				// a moved-in directory may already hold definitions
				fire = time.After(debounce)
				continue
			}
			if !isDefinitionEvent(ev) {
				continue
			}
			log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("Definition changed")
			fire = time.After(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("File watcher error")

		case <-fire:
			fire = nil
			w.runOnce()
		}
	}
}

// addNewDirs starts watching path and every directory below it when path is a
// directory. It reports whether anything was added.
func addNewDirs(fw *fsnotify.Watcher, path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	dirs, err := watchDirs([]string{path})
	if err != nil {
		log.Warn().Err(err).Str("dir", path).Msg("Cannot watch new directory")
		return false
	}
	added := false
	for _, d := range dirs {
		if err := fw.Add(d); err != nil {
			log.Warn().Err(err).Str("dir", d).Msg("Cannot watch new directory")
			continue
		}
		log.Debug().Str("dir", d).Msg("Watching directory")
		added = true
	}
	return added
}

func (w *watcher) runOnce() {
	if err := w.run(); err != nil {
		log.Error().Err(err).Msg("Render failed")
	}
}
