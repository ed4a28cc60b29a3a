package catalog

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"cadence/internal/logging"
)

// Watcher reports library directory changes so a running session can rescan.
// Events are coalesced: bursts of filesystem activity produce one signal.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	changed  chan struct{}
	debounce time.Duration
}

// NewWatcher watches root and its subdirectories. fsnotify is not recursive,
// so each directory is registered individually and new directories are added
// as create events arrive.
func NewWatcher(root string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher:  fsw,
		logger:   logger.With(logging.String("component", "watcher")),
		changed:  make(chan struct{}, 1),
		debounce: 2 * time.Second,
	}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Changed delivers one signal per coalesced burst of library changes.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Run processes filesystem events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) {
				// New directories need their own watch registration.
				_ = w.addTree(event.Name)
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
				!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if !IsAudioFile(event.Name) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", logging.Error(err))
		case <-fire:
			fire = nil
			select {
			case w.changed <- struct{}{}:
			default:
			}
		}
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Races with deletions are expected; skip quietly.
			return nil
		}
		if entry.IsDir() {
			if addErr := w.watcher.Add(path); addErr != nil {
				w.logger.Warn("watch add failed", logging.String("path", path), logging.Error(addErr))
			}
		}
		return nil
	})
}
