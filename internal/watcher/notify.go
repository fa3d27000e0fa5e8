package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	ckerrors "github.com/Aman-CERP/checkignore/internal/errors"
)

// Watcher watches a directory tree recursively plus an optional rule file.
type Watcher struct {
	fsw       *fsnotify.Watcher
	debouncer *Debouncer
	opts      Options
	rulesPath string // absolute, cleaned
	root      string
	events    chan []FileEvent
	errors    chan error
	stopCh    chan struct{}
	mu        sync.RWMutex
	stopped   bool
}

// New creates a Watcher. It fails with a DependencyError when the platform
// cannot provide file notifications.
func New(opts Options) (*Watcher, error) {
	opts = opts.WithDefaults()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ckerrors.DependencyError("file watching is not available", err).
			WithSuggestion("Check the inotify/kqueue limits of this system, or run without watch")
	}

	w := &Watcher{
		fsw:       fsw,
		debouncer: NewDebouncer(opts.DebounceWindow),
		opts:      opts,
		events:    make(chan []FileEvent, opts.EventBufferSize),
		errors:    make(chan error, 10),
		stopCh:    make(chan struct{}),
	}
	if opts.RulesPath != "" {
		if abs, err := filepath.Abs(opts.RulesPath); err == nil {
			w.rulesPath = abs
		} else {
			w.rulesPath = filepath.Clean(opts.RulesPath)
		}
	}
	return w, nil
}

// Start registers root and the rule file and then blocks, translating
// notifications into debounced batches until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context, root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve absolute path: %w", err)
	}
	w.mu.Lock()
	w.root = absRoot
	w.mu.Unlock()

	if err := w.addRecursive(absRoot); err != nil {
		return ckerrors.IOError(ckerrors.ErrCodeWalkFailed,
			fmt.Sprintf("failed to watch %s", absRoot), err).
			WithDetail("path", absRoot)
	}
	if w.rulesPath != "" {
		// Watch the directory: editors often replace the file instead of
		// writing it in place.
		if err := w.fsw.Add(filepath.Dir(w.rulesPath)); err != nil {
			slog.Warn("cannot watch rule file directory",
				slog.String("path", w.rulesPath),
				slog.String("error", err.Error()))
		}
	}

	go w.forward(ctx)

	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.emitError(err)
		}
	}
}

// handle converts one fsnotify event and queues it.
func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}

	if w.rulesPath != "" && filepath.Clean(event.Name) == w.rulesPath {
		w.debouncer.Add(FileEvent{
			Path:      w.opts.RulesPath,
			Operation: OpRulesChange,
			Timestamp: time.Now(),
		})
		return
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		// Sibling of the rule file in a directory outside the tree.
		return
	}
	rel = filepath.ToSlash(rel)

	isDir := false
	if info, err := os.Stat(event.Name); err == nil {
		isDir = info.IsDir()
	}

	var op Operation
	switch {
	case event.Op.Has(fsnotify.Create):
		op = OpCreate
		if isDir {
			// New directories are not covered by the recursive add.
			if err := w.addRecursive(event.Name); err != nil {
				w.emitError(err)
			}
		}
	case event.Op.Has(fsnotify.Write):
		op = OpModify
	case event.Op.Has(fsnotify.Remove):
		op = OpDelete
	case event.Op.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}

	w.debouncer.Add(FileEvent{
		Path:      rel,
		Operation: op,
		IsDir:     isDir,
		Timestamp: time.Now(),
	})
}

// addRecursive adds dir and every directory below it, except .git.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			slog.Warn("skipping unreadable directory", slog.String("path", path), slog.String("error", err.Error()))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" && path != dir {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// forward moves debounced batches to the public channel.
func (w *Watcher) forward(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case batch, ok := <-w.debouncer.Output():
			if !ok {
				return
			}
			w.emitEvents(batch)
		}
	}
}

func (w *Watcher) emitEvents(batch []FileEvent) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		return
	}
	select {
	case w.events <- batch:
	default:
		slog.Warn("event buffer full, dropping batch", slog.Int("batch_size", len(batch)))
	}
}

func (w *Watcher) emitError(err error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		return
	}
	select {
	case w.errors <- err:
	default:
	}
}

// Stop stops the watcher and closes the Events and Errors channels.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopCh)

	w.debouncer.Stop()
	err := w.fsw.Close()

	close(w.events)
	close(w.errors)
	return err
}

// Events returns the channel of debounced batches.
func (w *Watcher) Events() <-chan []FileEvent {
	return w.events
}

// Errors returns the channel of non-fatal watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}
