// Package watch reports session logs as the recorder finishes writing them.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/TimelordUK/wcstats/internal/logging"
)

// ErrNotDirectory is returned when the watched path is not a directory
var ErrNotDirectory = errors.New("not a directory")

// DefaultSettle is how long a log must stay unchanged before it is reported
const DefaultSettle = 250 * time.Millisecond

// Handler receives the path of a settled session log
type Handler func(path string)

// Watcher watches a log directory for new or rewritten session logs
type Watcher struct {
	dir     string
	fsw     *fsnotify.Watcher
	handler Handler
	settle  time.Duration
	logger  *slog.Logger

	// pending maps a log path to the time of its last write
	pending map[string]time.Time
}

// Option configures a Watcher
type Option func(*Watcher)

// WithSettle sets how long a log must be quiet before it is reported
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		w.settle = d
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// New creates a watcher on dir. Run starts delivering events.
func New(dir string, handler Handler, opts ...Option) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		dir:     dir,
		fsw:     fsw,
		handler: handler,
		settle:  DefaultSettle,
		pending: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.OrDiscard(w.logger)
	return w, nil
}

// Dir returns the watched directory
func (w *Watcher) Dir() string {
	return w.dir
}

// Run delivers settled logs to the handler until ctx is done, then closes
// the underlying watcher. Pending logs are flushed before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	tick := w.settle / 2
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.flush(time.Time{})
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.record(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "dir", w.dir, "error", err)

		case now := <-ticker.C:
			w.flush(now.Add(-w.settle))
		}
	}
}

func (w *Watcher) record(event fsnotify.Event) {
	if !isSessionLog(event.Name) {
		return
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.pending[event.Name] = time.Now()
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(w.pending, event.Name)
	}
}

// flush reports every pending log last written before cutoff. A zero cutoff
// reports them all.
func (w *Watcher) flush(cutoff time.Time) {
	var ready []string
	for path, at := range w.pending {
		if cutoff.IsZero() || at.Before(cutoff) {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)

	for _, path := range ready {
		delete(w.pending, path)
		w.logger.Debug("session log settled", "log", path)
		w.handler(path)
	}
}

func isSessionLog(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
