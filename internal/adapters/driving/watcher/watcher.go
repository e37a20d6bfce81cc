// Package watcher submits documents dropped into a directory for analysis.
package watcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driving"
	"github.com/SJF-ECNU/paperhelper/internal/logger"
)

const (
	// DefaultDebounce is how long a file must go without events before it
	// is submitted.
	DefaultDebounce = 500 * time.Millisecond

	// DefaultMaxBytes is the largest file submitted when no limit is set (25 MB).
	DefaultMaxBytes int64 = 25 * 1024 * 1024
)

// SubmitFunc is told about every submission attempt.
type SubmitFunc func(path string, record *domain.DocumentRecord, err error)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a changed file is submitted.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithMaxBytes skips files larger than n bytes without reading them.
func WithMaxBytes(n int64) Option {
	return func(w *Watcher) {
		if n > 0 {
			w.maxBytes = n
		}
	}
}

// OnSubmit registers a callback run after each submission attempt.
func OnSubmit(fn SubmitFunc) Option {
	return func(w *Watcher) {
		w.onSubmit = fn
	}
}

// Watcher watches one directory and ingests new or changed files.
// Subdirectories are not watched.
type Watcher struct {
	dir      string
	service  driving.AnalysisService
	debounce time.Duration
	maxBytes int64
	onSubmit SubmitFunc
	now      func() time.Time

	// last event time per path
	pendingMu sync.Mutex
	pending   map[string]time.Time

	// content hashes of submitted files, to skip rewrites with equal bytes
	hashes map[string]uint64
}

// New creates a watcher for dir.
func New(dir string, service driving.AnalysisService, opts ...Option) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}
	if service == nil {
		return nil, fmt.Errorf("%w: analysis service is nil", domain.ErrInvalidInput)
	}

	w := &Watcher{
		dir:      dir,
		service:  service,
		debounce: DefaultDebounce,
		maxBytes: DefaultMaxBytes,
		now:      time.Now,
		pending:  make(map[string]time.Time),
		hashes:   make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Debug("watching %s (debounce %s)", w.dir, w.debounce)

	// Half-period ticks keep the worst-case delay at 1.5 debounce periods.
	ticker := time.NewTicker(max(w.debounce/2, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if ignored(event.Name) {
		return
	}

	w.pendingMu.Lock()
	w.pending[event.Name] = w.now()
	w.pendingMu.Unlock()
}

// ignored skips hidden and editor temporary files.
func ignored(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~")
}

// flush submits the pending files that have had no events for a full
// debounce period. Files still being written stay pending.
func (w *Watcher) flush(ctx context.Context) {
	cutoff := w.now().Add(-w.debounce)

	w.pendingMu.Lock()
	var paths []string
	for p, last := range w.pending {
		if last.After(cutoff) {
			continue
		}
		paths = append(paths, p)
		delete(w.pending, p)
	}
	w.pendingMu.Unlock()

	for _, path := range paths {
		if ctx.Err() != nil {
			return
		}
		w.submit(ctx, path)
	}
}

func (w *Watcher) submit(ctx context.Context, path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return
	}
	if info.Size() > w.maxBytes {
		w.report(path, nil, fmt.Errorf("%w: %d bytes exceeds %d byte limit",
			domain.ErrDocumentTooLarge, info.Size(), w.maxBytes))
		return
	}

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		logger.Warn("read %s: %v", path, err)
		return
	}
	sum := h.Sum64()
	if prev, ok := w.hashes[path]; ok && prev == sum {
		return
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		logger.Warn("rewind %s: %v", path, err)
		return
	}
	w.hashes[path] = sum

	record, err := w.service.Ingest(ctx, filepath.Base(path), f)
	w.report(path, record, err)
}

func (w *Watcher) report(path string, record *domain.DocumentRecord, err error) {
	if err != nil {
		logger.Debug("skipped %s: %v", path, err)
	} else {
		logger.Info("submitted %s as %s", path, record.ID)
	}
	if w.onSubmit != nil {
		w.onSubmit(path, record, err)
	}
}
