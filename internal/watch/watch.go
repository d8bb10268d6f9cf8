// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch feeds PDFs dropped into an inbox directory to a handler,
// one file at a time.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a file must stay quiet before it is handled.
const DefaultSettle = 2 * time.Second

// Handler processes one settled PDF.
type Handler func(ctx context.Context, path string)

// Watcher watches a single directory (not recursive).
type Watcher struct {
	dir    string
	settle time.Duration
	logger *slog.Logger
	handle Handler
	fw     *fsnotify.Watcher
}

// New starts watching dir. Events are not consumed until Run is called.
func New(dir string, settle time.Duration, logger *slog.Logger, handle Handler) (*Watcher, error) {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &Watcher{dir: dir, settle: settle, logger: logger, handle: handle, fw: fw}, nil
}

// Run dispatches settled PDFs to the handler until ctx is done. A PDF is
// settled once no create or write event has been seen for it for the
// settle duration; a burst of writes therefore yields one call.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fw.Close()
	w.logger.Info("watching inbox", "dir", w.dir, "settle", w.settle)

	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped", "dir", w.dir, "pending", len(pending))
			return nil

		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !isPDF(ev.Name) {
				continue
			}
			switch {
			case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
				pending[ev.Name] = time.Now()
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				delete(pending, ev.Name)
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "dir", w.dir, "error", err)

		case now := <-ticker.C:
			for _, path := range settled(pending, now, w.settle) {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Info("processing", "file", filepath.Base(path))
				w.handle(ctx, path)
			}
		}
	}
}

// settled removes and returns, in name order, the paths quiet for at
// least d.
func settled(pending map[string]time.Time, now time.Time, d time.Duration) []string {
	var ready []string
	for path, seen := range pending {
		if now.Sub(seen) >= d {
			ready = append(ready, path)
		}
	}
	for _, path := range ready {
		delete(pending, path)
	}
	sort.Strings(ready)
	return ready
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
