package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/anrtools/anr-companion/internal/anr/cards/localdata"
)

// debounceDelay coalesces the burst of write events a dump refresh
// produces into a single reload.
const debounceDelay = 500 * time.Millisecond

// Watcher reloads the snapshot whenever the card data dumps in a local
// directory change.
type Watcher struct {
	dir    *localdata.Dir
	loader *Loader
	logger *slog.Logger
}

// NewWatcher creates a watcher over a data directory.
func NewWatcher(dir *localdata.Dir, loader *Loader, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{dir: dir, loader: loader, logger: logger}
}

// Run loads the directory once, then watches it until the context is
// cancelled, reloading after each settled change.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.reload(); err != nil {
		w.logger.Warn("initial card data load failed", "error", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(w.dir.Path()); err != nil {
		return fmt.Errorf("failed to watch data directory: %w", err)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDataFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(debounceDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", "error", err)

		case <-pending:
			pending = nil
			if err := w.reload(); err != nil {
				w.logger.Error("card data reload failed", "error", err)
			}
		}
	}
}

func (w *Watcher) reload() error {
	bundle, err := w.dir.LoadBundle()
	if err != nil {
		return err
	}
	w.loader.ApplyBundle(bundle)
	return nil
}

func isDataFile(path string) bool {
	switch filepath.Base(path) {
	case localdata.CardsFile, localdata.PacksFile, localdata.CyclesFile, localdata.MWLFile:
		return true
	}
	return false
}
