// Package index builds the symbol universe from the search path: the raw
// list of every file under every root, and the grouped type view, module
// view and resource view derived from it. Every view is memoised in the
// scan cache under the current search path, so a changed path or an
// explicit flush triggers a rescan on next use.
package index

import (
	"context"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/timsgardner/compliment/internal/cache"
	"github.com/timsgardner/compliment/internal/logger"
	"github.com/timsgardner/compliment/internal/pathindex"
	"github.com/timsgardner/compliment/internal/timing"
	"github.com/timsgardner/compliment/internal/trace"
)

// Cache slot names. Views computed without archive contents use the
// slot name with NoArchivesSuffix appended.
const (
	SlotAllFiles     = "all-files"
	SlotClasses      = "classes"
	SlotModules      = "modules"
	SlotResources    = "resources"
	NoArchivesSuffix = "/no-archives"
)

func slotName(base string, scanArchives bool) string {
	if scanArchives {
		return base
	}
	return base + NoArchivesSuffix
}

// Index derives views of the search path.
type Index struct {
	path    *SearchPath
	scanner *pathindex.Scanner
	cache   *cache.Cache
	log     *logger.Logger
	workers int
}

// Option configures an Index.
type Option func(*Index)

// WithWorkers bounds the number of roots listed concurrently.
func WithWorkers(n int) Option {
	return func(ix *Index) {
		if n > 0 {
			ix.workers = n
		}
	}
}

// WithCache shares an existing scan cache.
func WithCache(c *cache.Cache) Option {
	return func(ix *Index) {
		if c != nil {
			ix.cache = c
		}
	}
}

// New creates an index over path. log may be nil.
func New(path *SearchPath, scanner *pathindex.Scanner, log *logger.Logger, opts ...Option) *Index {
	if log == nil {
		log = logger.Nop()
	}
	ix := &Index{
		path:    path,
		scanner: scanner,
		cache:   cache.New(),
		log:     log.With("component", "index"),
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// SearchPath returns the index's search path.
func (ix *Index) SearchPath() *SearchPath { return ix.path }

// Layout returns the file conventions the index scans with.
func (ix *Index) Layout() pathindex.Layout { return ix.scanner.Layout() }

// Cache returns the scan cache backing the index.
func (ix *Index) Cache() *cache.Cache { return ix.cache }

// Flush drops every cached view.
func (ix *Index) Flush() { ix.cache.Flush() }

func (ix *Index) key() cache.Key { return cache.Key(ix.path.Roots()) }

// AllFiles lists every entry under every root, in root order, duplicates
// preserved. Archive contents are included when scanArchives is set.
func (ix *Index) AllFiles(scanArchives bool) []string {
	return ix.allFiles(ix.key(), scanArchives)
}

// allFiles lists under a key the caller already read, so a derived view
// is always built from the listing it is stored against.
func (ix *Index) allFiles(key cache.Key, scanArchives bool) []string {
	return cache.GetOrCompute(ix.cache, slotName(SlotAllFiles, scanArchives), key, func() []string {
		return ix.scan(key, scanArchives)
	})
}

// scan lists roots concurrently and concatenates the results in order.
func (ix *Index) scan(roots []string, scanArchives bool) []string {
	timer := timing.NewTimer()
	parts := make([][]string, len(roots))

	trace.WithRegion(context.Background(), "scan", func() {
		g, _ := errgroup.WithContext(context.Background())
		g.SetLimit(ix.workers)
		for i, root := range roots {
			g.Go(func() error {
				parts[i] = ix.scanner.List(root, scanArchives)
				return nil
			})
		}
		_ = g.Wait()
	})

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	files := make([]string, 0, total)
	for _, p := range parts {
		files = append(files, p...)
	}

	ix.log.Debug().
		Strs("roots", roots).
		Int("files", len(files)).
		Bool("archives", scanArchives).
		Dur("elapsed", timer.Elapsed()).
		Msg("scanned search path")
	return files
}

// Classes returns the grouped type view: type names keyed by their first
// dotted segment, each group sorted and free of duplicates. Names without
// a dot are grouped under "".
func (ix *Index) Classes(scanArchives bool) map[string][]string {
	key := ix.key()
	return cache.GetOrCompute(ix.cache, slotName(SlotClasses, scanArchives), key, func() map[string][]string {
		return GroupClasses(ix.allFiles(key, scanArchives), ix.scanner.Layout())
	})
}

// Modules returns the module-name view as a set.
func (ix *Index) Modules(scanArchives bool) map[string]struct{} {
	key := ix.key()
	return cache.GetOrCompute(ix.cache, slotName(SlotModules, scanArchives), key, func() map[string]struct{} {
		return ModuleNames(ix.allFiles(key, scanArchives), ix.scanner.Layout())
	})
}

// Resources returns the resource view. Archives are not opened, so
// resources come from directory roots only.
func (ix *Index) Resources() []string {
	key := ix.key()
	return cache.GetOrCompute(ix.cache, SlotResources, key, func() []string {
		return ResourceNames(ix.allFiles(key, false), ix.scanner.Layout())
	})
}

// GroupClasses builds the grouped type view from raw entries.
func GroupClasses(files []string, layout pathindex.Layout) map[string][]string {
	sets := make(map[string]map[string]struct{})
	for _, f := range files {
		if !strings.HasSuffix(f, layout.ClassSuffix) || layout.IsGenerated(f) {
			continue
		}
		name := strings.TrimPrefix(f, "/")
		name = strings.TrimSuffix(name, layout.ClassSuffix)
		name = strings.ReplaceAll(name, "/", ".")

		group := ""
		if i := strings.IndexByte(name, '.'); i > 0 {
			group = name[:i]
		}
		if sets[group] == nil {
			sets[group] = make(map[string]struct{})
		}
		sets[group][name] = struct{}{}
	}

	grouped := make(map[string][]string, len(sets))
	for group, set := range sets {
		names := make([]string, 0, len(set))
		for n := range set {
			names = append(names, n)
		}
		sort.Strings(names)
		grouped[group] = names
	}
	return grouped
}

var leadingNonWord = regexp.MustCompile(`^[^\w]`)

// ModuleNames builds the module-name view from raw entries.
func ModuleNames(files []string, layout pathindex.Layout) map[string]struct{} {
	modules := make(map[string]struct{})
	for _, f := range files {
		if !strings.HasSuffix(f, layout.SourceSuffix) {
			continue
		}
		if layout.MetadataRoot != "" && strings.HasPrefix(f, layout.MetadataRoot) {
			continue
		}
		name := strings.TrimSuffix(f, layout.SourceSuffix)
		name = leadingNonWord.ReplaceAllString(name, "")
		if name == "" {
			continue
		}
		name = strings.ReplaceAll(name, "/", ".")
		name = strings.ReplaceAll(name, "_", "-")
		modules[name] = struct{}{}
	}
	return modules
}

// ResourceNames builds the resource view from raw entries.
func ResourceNames(files []string, layout pathindex.Layout) []string {
	resources := make([]string, 0, len(files))
	for _, f := range files {
		if f == "" ||
			strings.HasSuffix(f, layout.SourceSuffix) ||
			strings.HasSuffix(f, layout.ClassSuffix) ||
			layout.IsArchive(f) {
			continue
		}
		resources = append(resources, strings.TrimPrefix(f, "/"))
	}
	return resources
}

// Stats summarises the current views.
type Stats struct {
	Roots     []string `json:"roots" yaml:"roots" msgpack:"roots"`
	Files     int      `json:"files" yaml:"files" msgpack:"files"`
	Groups    int      `json:"groups" yaml:"groups" msgpack:"groups"`
	Classes   int      `json:"classes" yaml:"classes" msgpack:"classes"`
	Modules   int      `json:"modules" yaml:"modules" msgpack:"modules"`
	Resources int      `json:"resources" yaml:"resources" msgpack:"resources"`
}

// Stats computes (or reuses) every view and reports their sizes.
// Archives are opened only when scanArchives is set.
func (ix *Index) Stats(scanArchives bool) Stats {
	classes := ix.Classes(scanArchives)
	n := 0
	for _, names := range classes {
		n += len(names)
	}
	return Stats{
		Roots:     ix.path.Roots(),
		Files:     len(ix.AllFiles(scanArchives)),
		Groups:    len(classes),
		Classes:   n,
		Modules:   len(ix.Modules(scanArchives)),
		Resources: len(ix.Resources()),
	}
}
