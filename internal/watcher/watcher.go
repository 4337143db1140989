package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Aman-CERP/contentgraph/internal/glob"
)

// Operation represents a file system operation type.
type Operation int

const (
	// OpCreate indicates a new file was created.
	OpCreate Operation = iota
	// OpModify indicates an existing file was modified.
	OpModify
	// OpDelete indicates a file was deleted.
	OpDelete
	// OpRename indicates a file was renamed away.
	OpRename
	// OpConfigChange indicates a configuration file changed, which
	// invalidates every source rather than single files.
	OpConfigChange
)

// String returns a human-readable representation of the operation.
func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpModify:
		return "MODIFY"
	case OpDelete:
		return "DELETE"
	case OpRename:
		return "RENAME"
	case OpConfigChange:
		return "CONFIG_CHANGE"
	default:
		return "UNKNOWN"
	}
}

// FileEvent represents a file system event.
type FileEvent struct {
	// Path is the absolute slash-separated path of the file.
	Path      string
	Operation Operation
	Timestamp time.Time
}

// ConfigFileNames are the file names reported as OpConfigChange.
var ConfigFileNames = []string{".contentgraph.yaml", ".contentgraph.yml", "package.json"}

// ignoredDirs are never watched.
var ignoredDirs = []string{".git", "node_modules", ".contentgraph"}

// Options configures the watcher behavior.
type Options struct {
	// DebounceWindow is the time to wait before emitting coalesced events.
	// Default: 200ms
	DebounceWindow time.Duration

	// EventBufferSize is the size of the event channel buffer.
	// Default: 100
	EventBufferSize int

	// Patterns restrict reported files to those matching at least one
	// pattern, relative to the watched root. Empty reports every file.
	Patterns []string

	Logger *slog.Logger
}

// DefaultOptions returns the default watcher options.
func DefaultOptions() Options {
	return Options{
		DebounceWindow:  200 * time.Millisecond,
		EventBufferSize: 100,
	}
}

// WithDefaults returns options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	defaults := DefaultOptions()
	if o.DebounceWindow == 0 {
		o.DebounceWindow = defaults.DebounceWindow
	}
	if o.EventBufferSize == 0 {
		o.EventBufferSize = defaults.EventBufferSize
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Watcher watches a directory tree with fsnotify and emits debounced
// batches of relevant file events.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	patterns  []string
	logger    *slog.Logger

	events chan []FileEvent
	errors chan error
	stopCh chan struct{}

	mu       sync.RWMutex
	rootPath string
	stopped  bool

	droppedBatches atomic.Uint64
}

// New creates a Watcher. Invalid patterns are rejected.
func New(opts Options) (*Watcher, error) {
	opts = opts.WithDefaults()

	patterns := make([]string, 0, len(opts.Patterns))
	for _, p := range opts.Patterns {
		if !glob.Validate(p) {
			return nil, fmt.Errorf("invalid watch pattern %q", p)
		}
		patterns = append(patterns, glob.Normalize(strings.TrimPrefix(filepath.ToSlash(p), "./")))
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		debouncer: NewDebouncer(opts.DebounceWindow, opts.Logger),
		patterns:  patterns,
		logger:    opts.Logger,
		events:    make(chan []FileEvent, opts.EventBufferSize),
		errors:    make(chan error, 10),
		stopCh:    make(chan struct{}),
	}, nil
}

// Start watches root recursively until Stop is called or ctx is done.
// It blocks.
func (w *Watcher) Start(ctx context.Context, root string) error {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve absolute path: %w", err)
	}
	w.mu.Lock()
	w.rootPath = absPath
	w.mu.Unlock()

	if err := w.addRecursive(absPath); err != nil {
		return fmt.Errorf("add directories to watcher: %w", err)
	}

	go w.forwardDebouncedEvents(ctx)

	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.emitError(err)
		}
	}
}

// handle converts, filters and debounces one fsnotify event.
func (w *Watcher) handle(event fsnotify.Event) {
	isDir := false
	if info, err := os.Stat(event.Name); err == nil {
		isDir = info.IsDir()
	}

	if isDir {
		// new directories are watched, their files arrive as separate events
		if event.Op&fsnotify.Create != 0 && !w.ignoredDir(event.Name) {
			_ = w.addRecursive(event.Name)
		}
		return
	}

	path := filepath.ToSlash(event.Name)
	if slices.Contains(ConfigFileNames, filepath.Base(event.Name)) {
		w.debouncer.Add(FileEvent{Path: path, Operation: OpConfigChange, Timestamp: time.Now()})
		return
	}
	if !w.Relevant(path) {
		return
	}

	var op Operation
	switch {
	case event.Op&fsnotify.Create != 0:
		op = OpCreate
	case event.Op&fsnotify.Write != 0:
		op = OpModify
	case event.Op&fsnotify.Remove != 0:
		op = OpDelete
	case event.Op&fsnotify.Rename != 0:
		op = OpRename
	default:
		return
	}
	w.debouncer.Add(FileEvent{Path: path, Operation: op, Timestamp: time.Now()})
}

// Relevant reports whether the file at path matches the watch patterns.
func (w *Watcher) Relevant(path string) bool {
	if len(w.patterns) == 0 {
		return true
	}
	w.mu.RLock()
	root := filepath.ToSlash(w.rootPath)
	w.mu.RUnlock()

	rel := strings.TrimPrefix(filepath.ToSlash(path), root+"/")
	for _, p := range w.patterns {
		if glob.Match(p, rel) {
			return true
		}
	}
	return false
}

func (w *Watcher) ignoredDir(path string) bool {
	return slices.Contains(ignoredDirs, filepath.Base(path))
}

// addRecursive adds root and every directory below it to the watcher.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignoredDir(path) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

// forwardDebouncedEvents forwards debounced batches to the output channel.
func (w *Watcher) forwardDebouncedEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case events, ok := <-w.debouncer.Output():
			if !ok {
				return
			}
			if len(events) > 0 {
				w.emitEvents(events)
			}
		}
	}
}

// emitEvents sends a batch to the output channel, dropping it when full.
func (w *Watcher) emitEvents(events []FileEvent) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return
	}

	select {
	case w.events <- events:
	default:
		count := w.droppedBatches.Add(1)
		w.logger.Warn("event buffer full, dropping batch",
			slog.Int("batch_size", len(events)),
			slog.Uint64("total_dropped_batches", count))
	}
}

// DroppedBatches returns the number of batches dropped due to buffer overflow.
func (w *Watcher) DroppedBatches() uint64 {
	return w.droppedBatches.Load()
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

// Stop stops the watcher and closes its channels. Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopCh)
	w.debouncer.Stop()
	_ = w.fsWatcher.Close()
	close(w.events)
	close(w.errors)
	return nil
}

// Events returns the channel of batched file events.
func (w *Watcher) Events() <-chan []FileEvent {
	return w.events
}

// Errors returns the channel of non-fatal watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}
