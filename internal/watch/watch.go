// Package watch flushes cached scans when files under the search path
// change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/timsgardner/compliment/internal/index"
	"github.com/timsgardner/compliment/internal/logger"
	"github.com/timsgardner/compliment/internal/pathindex"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 300 * time.Millisecond

// maxDirs bounds the directories watched per directory root; inotify
// descriptors are a shared, limited resource.
const maxDirs = 4096

// filter reports whether an event on name concerns a root.
type filter func(name string) bool

// Watcher watches every root of an index's search path.
type Watcher struct {
	ix       *index.Index
	onChange func()
	debounce time.Duration
	log      *logger.Logger
	fs       *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	roots   []string
	filters map[string][]filter
}

// New creates a watcher calling onChange once changes settle for
// debounce. log may be nil.
func New(ix *index.Index, onChange func(), debounce time.Duration, log *logger.Logger) (*Watcher, error) {
	if log == nil {
		log = logger.Nop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		ix:       ix,
		onChange: onChange,
		debounce: debounce,
		log:      log.With("component", "watch"),
		fs:       fw,
		filters:  make(map[string][]filter),
	}, nil
}

// Sync starts watching roots added to the search path since the last
// call. Roots that disappear from the path stay watched until Close.
func (w *Watcher) Sync() {
	roots := w.ix.SearchPath().Roots()
	layout := w.ix.Layout()

	w.mu.Lock()
	defer w.mu.Unlock()
	seen := make(map[string]struct{}, len(w.roots))
	for _, r := range w.roots {
		seen[r] = struct{}{}
	}
	for _, root := range roots {
		if _, ok := seen[root]; ok {
			continue
		}
		seen[root] = struct{}{}
		w.roots = append(w.roots, root)
		w.watchRoot(root, layout)
	}
}

// watchRoot must be called with w.mu held.
func (w *Watcher) watchRoot(root string, layout pathindex.Layout) {
	switch pathindex.KindOf(root, layout) {
	case pathindex.KindDirectory:
		w.watchTree(root)
	case pathindex.KindArchive:
		w.watchDir(filepath.Dir(root), func(name string) bool {
			return filepath.Clean(name) == filepath.Clean(root)
		})
	case pathindex.KindArchiveGlob:
		w.watchDir(filepath.Dir(filepath.FromSlash(root)), layout.IsArchive)
	default:
		w.log.Debug().Str("root", root).Msg("root cannot be watched")
	}
}

func (w *Watcher) watchTree(root string) {
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	n := 0
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if n >= maxDirs {
			w.log.Warn().Str("root", root).Int("limit", maxDirs).Msg("too many directories, watching a subset")
			return filepath.SkipAll
		}
		n++
		w.watchDir(path, nil)
		return nil
	})
}

// watchDir must be called with w.mu held. A nil filter accepts every event.
func (w *Watcher) watchDir(dir string, f filter) {
	filters, watched := w.filters[dir]
	if !watched {
		if err := w.fs.Add(dir); err != nil {
			w.log.Warn().Str("dir", dir).Err(err).Msg("cannot watch directory")
			return
		}
	}
	if f == nil {
		f = func(string) bool { return true }
	}
	w.filters[dir] = append(filters, f)
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, f := range w.filters[filepath.Dir(event.Name)] {
		if f(event.Name) {
			return true
		}
	}
	return false
}

// Run processes events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	w.Sync()
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				w.maybeWatchNewDir(event.Name)
			}
			w.log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("change")
			w.schedule()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// maybeWatchNewDir extends a watched tree with a directory created in it.
func (w *Watcher) maybeWatchNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || strings.HasPrefix(filepath.Base(path), ".") {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.watchTree(path)
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.log.Debug().Msg("search path changed, flushing caches")
	w.onChange()
}

// Close stops pending flushes and releases the underlying watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
	return w.fs.Close()
}
