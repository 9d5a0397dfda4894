package index

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timsgardner/compliment/internal/logger"
	"github.com/timsgardner/compliment/internal/pathindex"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, nil, 0644))
}

func jar(t *testing.T, path string, entries ...string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for _, e := range entries {
		_, err := w.Create(e)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

// fixture builds a source tree and a jar:
//
//	src/my_app/core.clj
//	src/my_app/util.clj
//	src/config.edn
//	src/logo.png
//	lib.jar: clojure/core.clj clojure/lang/RT.class clojure/core$map.class
//	         java/util/List.class java/util/Map__init.class Top.class
//	         META-INF/leiningen/x.clj
func fixture(t *testing.T) (src, lib string) {
	dir := t.TempDir()
	src = filepath.Join(dir, "src")
	touch(t, filepath.Join(src, "my_app", "core.clj"))
	touch(t, filepath.Join(src, "my_app", "util.clj"))
	touch(t, filepath.Join(src, "config.edn"))
	touch(t, filepath.Join(src, "logo.png"))

	lib = filepath.Join(dir, "lib.jar")
	jar(t, lib,
		"clojure/core.clj",
		"clojure/lang/RT.class",
		"clojure/core$map.class",
		"java/util/List.class",
		"java/util/Map__init.class",
		"Top.class",
		"META-INF/leiningen/x.clj",
	)
	return src, lib
}

func newIndex(roots ...string) *Index {
	return New(NewSearchPath(roots, ""), pathindex.NewScanner(pathindex.DefaultLayout(), nil), nil)
}

func TestIndex_AllFiles(t *testing.T) {
	src, lib := fixture(t)
	ix := newIndex(src, lib)

	files := ix.AllFiles(true)
	assert.Equal(t, []string{
		"config.edn", "logo.png", "my_app/core.clj", "my_app/util.clj",
		"clojure/core.clj", "clojure/lang/RT.class", "clojure/core$map.class",
		"java/util/List.class", "java/util/Map__init.class", "Top.class",
		"META-INF/leiningen/x.clj",
	}, files)

	assert.Equal(t, []string{"config.edn", "logo.png", "my_app/core.clj", "my_app/util.clj"}, ix.AllFiles(false))
}

func TestIndex_Classes(t *testing.T) {
	src, lib := fixture(t)
	ix := newIndex(src, lib)

	assert.Equal(t, map[string][]string{
		"clojure": {"clojure.lang.RT"},
		"java":    {"java.util.List"},
		"":        {"Top"},
	}, ix.Classes(true))
}

func TestIndex_Modules(t *testing.T) {
	src, lib := fixture(t)
	ix := newIndex(src, lib)

	modules := ix.Modules(true)
	names := make([]string, 0, len(modules))
	for m := range modules {
		names = append(names, m)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"clojure.core", "my-app.core", "my-app.util"}, names)
}

func TestIndex_ViewsWithoutArchives(t *testing.T) {
	src, lib := fixture(t)
	ix := newIndex(src, lib)

	assert.Empty(t, ix.Classes(false))
	assert.Len(t, ix.Modules(false), 2)
	assert.Len(t, ix.Modules(true), 3)
}

func TestIndex_Resources(t *testing.T) {
	src, lib := fixture(t)
	ix := newIndex(src, lib)

	assert.Equal(t, []string{"config.edn", "logo.png"}, ix.Resources())
}

func TestIndex_CachesUntilPathChanges(t *testing.T) {
	src, lib := fixture(t)
	ix := newIndex(src)

	first := ix.AllFiles(true)
	touch(t, filepath.Join(src, "late.edn"))
	assert.Equal(t, first, ix.AllFiles(true), "cached listing is reused while the path is unchanged")

	require.True(t, ix.SearchPath().Add(lib))
	assert.Contains(t, ix.AllFiles(true), "late.edn")
	assert.Contains(t, ix.AllFiles(true), "clojure/core.clj")
}

func TestIndex_Flush(t *testing.T) {
	src, _ := fixture(t)
	ix := newIndex(src)

	ix.Resources()
	touch(t, filepath.Join(src, "late.edn"))
	assert.NotContains(t, ix.Resources(), "late.edn")

	ix.Flush()
	assert.Contains(t, ix.Resources(), "late.edn")
}

func TestIndex_FailingRootsDegrade(t *testing.T) {
	src, _ := fixture(t)
	ix := newIndex("", filepath.Join(src, "missing"), "jrt:/java.base", src)

	assert.Len(t, ix.AllFiles(true), 4)
}

func TestIndex_Stats(t *testing.T) {
	src, lib := fixture(t)
	st := newIndex(src, lib).Stats(true)

	assert.Equal(t, 11, st.Files)
	assert.Equal(t, 3, st.Groups)
	assert.Equal(t, 3, st.Classes)
	assert.Equal(t, 3, st.Modules)
	assert.Equal(t, 2, st.Resources)
	assert.Len(t, st.Roots, 2)
}

func TestIndex_StatsWithoutArchives(t *testing.T) {
	src, lib := fixture(t)
	ix := newIndex(src, lib)
	st := ix.Stats(false)

	assert.Equal(t, 4, st.Files)
	assert.Equal(t, 0, st.Classes)
	assert.Equal(t, 2, st.Modules)
	assert.Equal(t, 2, st.Resources)

	for _, slot := range ix.Cache().Info().Slots {
		assert.NotEqual(t, SlotAllFiles, slot.Name, "archives must not be scanned")
	}
}

func TestIndex_ViewsUseOneKey(t *testing.T) {
	src, lib := fixture(t)
	ix := newIndex(src)
	key := ix.key()

	// The path grows after the key was read; the view still matches it.
	require.True(t, ix.SearchPath().Add(lib))
	files := ix.allFiles(key, true)
	assert.Len(t, files, 4)

	v, ok := ix.Cache().Lookup(SlotAllFiles, key)
	require.True(t, ok)
	assert.Equal(t, files, v)
	_, ok = ix.Cache().Lookup(SlotAllFiles, ix.key())
	assert.False(t, ok)
}

func TestIndex_ScanLogsRoots(t *testing.T) {
	src, _ := fixture(t)
	buf := &bytes.Buffer{}
	ix := New(NewSearchPath([]string{src}, ""), pathindex.NewScanner(pathindex.DefaultLayout(), nil), logger.New("debug", buf))

	ix.AllFiles(true)
	assert.Contains(t, buf.String(), "scanned search path")
	assert.Contains(t, buf.String(), src)
}

func TestGroupClasses(t *testing.T) {
	layout := pathindex.DefaultLayout()
	grouped := GroupClasses([]string{
		"/java/lang/String.class",
		"java/lang/String.class",
		"java/io/File.class",
		"foo$bar.class",
		"notes.txt",
	}, layout)

	assert.Equal(t, map[string][]string{
		"java": {"java.io.File", "java.lang.String"},
	}, grouped)
}

func TestModuleNames(t *testing.T) {
	layout := pathindex.DefaultLayout()
	modules := ModuleNames([]string{
		"/clojure/string.clj",
		"data_readers.clj",
		"META-INF/x.clj",
		".clj",
		"README.md",
	}, layout)

	assert.Equal(t, map[string]struct{}{
		"clojure.string": {},
		"data-readers":   {},
	}, modules)
}

func TestResourceNames(t *testing.T) {
	layout := pathindex.DefaultLayout()
	assert.Equal(t,
		[]string{"a.edn", "public/index.html", "a.edn"},
		ResourceNames([]string{"/a.edn", "", "b.clj", "c.class", "d.jar", "public/index.html", "a.edn"}, layout),
	)
}
