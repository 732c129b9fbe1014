package watcher

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"cloudtrail-explorer/internal/explorer"
	"cloudtrail-explorer/internal/ingest"
)

// DefaultDelay coalesces the burst of writes an editor or copy produces.
const DefaultDelay = 200 * time.Millisecond

// Loader replaces the current document.
type Loader interface {
	Load(name string, text []byte, persist bool) (*explorer.Snapshot, error)
}

// Watcher re-ingests a single file whenever it changes on disk.
type Watcher struct {
	fsw    *fsnotify.Watcher
	path   string
	loader Loader
	delay  time.Duration
}

// New watches path. The parent directory is watched so the file may be
// replaced by rename without losing the watch.
func New(path string, loader Loader) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{fsw: fsw, path: abs, loader: loader, delay: DefaultDelay}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Start listens for changes. It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()

	timer := time.NewTimer(w.delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				timer.Reset(w.delay)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("[WATCH] watcher error: %v", err)
		case <-timer.C:
			w.reload()
		}
	}
}

// reload keeps the previous document when the new content fails to load.
func (w *Watcher) reload() {
	text, err := ingest.ReadFile(w.path)
	if err != nil {
		log.Printf("[WATCH] Failed to read %s: %v", w.path, err)
		return
	}
	snap, err := w.loader.Load(filepath.Base(w.path), text, true)
	if err != nil {
		log.Printf("[WATCH] Reload of %s rejected, keeping previous document: %v", w.path, err)
		return
	}
	log.Printf("[WATCH] Reloaded %s (%d events)", w.path, snap.Summary.Total)
}
