package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timsgardner/compliment/internal/index"
	"github.com/timsgardner/compliment/internal/pathindex"
)

const wait = 2 * time.Second

func start(t *testing.T, roots ...string) (*index.Index, *atomic.Int64) {
	t.Helper()
	ix := index.New(index.NewSearchPath(roots, ""), pathindex.NewScanner(pathindex.DefaultLayout(), nil), nil)
	var flushes atomic.Int64
	w, err := New(ix, func() { flushes.Add(1) }, 20*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	// Run syncs before reading events; give it a moment to register.
	time.Sleep(50 * time.Millisecond)
	return ix, &flushes
}

func write(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestWatcher_DirectoryRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "my_app"), 0755))
	_, flushes := start(t, root)

	write(t, filepath.Join(root, "my_app", "core.clj"))
	assert.Eventually(t, func() bool { return flushes.Load() >= 1 }, wait, 10*time.Millisecond)
}

func TestWatcher_SymlinkedRoot(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	require.NoError(t, os.MkdirAll(filepath.Join(real, "my_app"), 0755))
	link := filepath.Join(dir, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skip("symlinks unsupported:", err)
	}
	_, flushes := start(t, link)

	write(t, filepath.Join(real, "my_app", "core.clj"))
	assert.Eventually(t, func() bool { return flushes.Load() >= 1 }, wait, 10*time.Millisecond)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	root := t.TempDir()
	_, flushes := start(t, root)

	for i := 0; i < 10; i++ {
		write(t, filepath.Join(root, "f.clj"))
	}
	assert.Eventually(t, func() bool { return flushes.Load() >= 1 }, wait, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Less(t, flushes.Load(), int64(10))
}

func TestWatcher_NewSubdirectory(t *testing.T) {
	root := t.TempDir()
	_, flushes := start(t, root)

	sub := filepath.Join(root, "pkg")
	require.NoError(t, os.Mkdir(sub, 0755))
	assert.Eventually(t, func() bool { return flushes.Load() >= 1 }, wait, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	before := flushes.Load()
	write(t, filepath.Join(sub, "a.clj"))
	assert.Eventually(t, func() bool { return flushes.Load() > before }, wait, 10*time.Millisecond)
}

func TestWatcher_ArchiveRootIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.jar")
	write(t, lib)
	_, flushes := start(t, lib)

	write(t, filepath.Join(dir, "notes.txt"))
	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, flushes.Load())

	write(t, lib)
	assert.Eventually(t, func() bool { return flushes.Load() >= 1 }, wait, 10*time.Millisecond)
}

func TestWatcher_GlobRoot(t *testing.T) {
	dir := t.TempDir()
	_, flushes := start(t, filepath.ToSlash(dir)+"/*")

	write(t, filepath.Join(dir, "readme.md"))
	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, flushes.Load())

	write(t, filepath.Join(dir, "dep.jar"))
	assert.Eventually(t, func() bool { return flushes.Load() >= 1 }, wait, 10*time.Millisecond)
}

func TestWatcher_SyncPicksUpAddedRoots(t *testing.T) {
	root := t.TempDir()
	ix := index.New(index.NewSearchPath(nil, ""), pathindex.NewScanner(pathindex.DefaultLayout(), nil), nil)
	w, err := New(ix, func() {}, 0, nil)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()
	assert.Equal(t, DefaultDebounce, w.debounce)

	w.Sync()
	assert.Empty(t, w.filters)

	ix.SearchPath().Add(root)
	w.Sync()
	assert.Contains(t, w.filters, root)

	w.Sync()
	assert.Len(t, w.filters[root], 1, "roots are only registered once")
}
