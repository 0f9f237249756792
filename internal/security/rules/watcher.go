package rules

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Watcher polls the override rule file and reloads the store when the file
// changes. A reload that fails to parse keeps the previous snapshot: the
// store never serves a partially loaded or corrupt rule set.
type Watcher struct {
	store    *Store
	path     string
	interval time.Duration
	logger   *slog.Logger

	lastModTime time.Time
	lastSize    int64
	lastExists  bool
}

// NewWatcher creates a watcher for the override file at path.
func NewWatcher(store *Store, path string, interval time.Duration, logger *slog.Logger) *Watcher {
	return &Watcher{
		store:    store,
		path:     path,
		interval: interval,
		logger:   logger,
	}
}

// Start performs the initial load and begins polling in a background
// goroutine until ctx is cancelled. The initial load is fatal on error.
func (w *Watcher) Start(ctx context.Context) error {
	w.snapshot()
	if err := w.store.LoadFile(w.path); err != nil {
		return err
	}

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if w.changed() {
					w.reload()
				}
			}
		}
	}()
	return nil
}

func (w *Watcher) reload() {
	if err := w.store.LoadFile(w.path); err != nil {
		w.logger.Error("rule reload failed, keeping previous rules",
			"path", w.path,
			"error", err,
		)
		return
	}
	w.logger.Info("access rules reloaded", "path", w.path)
}

// changed compares the file's current mtime/size against the last snapshot.
func (w *Watcher) changed() bool {
	modTime, size, exists := stat(w.path)
	if exists != w.lastExists || modTime != w.lastModTime || size != w.lastSize {
		w.lastModTime, w.lastSize, w.lastExists = modTime, size, exists
		return true
	}
	return false
}

func (w *Watcher) snapshot() {
	w.lastModTime, w.lastSize, w.lastExists = stat(w.path)
}

func stat(path string) (time.Time, int64, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, 0, false
	}
	return info.ModTime(), info.Size(), true
}
