package index

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// DefaultPathEnv is the environment variable consulted for extra roots.
const DefaultPathEnv = "COMPLIMENT_PATH"

// SearchPath is the volatile, ordered list of roots the index scans.
// Roots are read afresh on every call to Roots, so changes to the
// environment variable or runtime additions are picked up by the next
// request.
type SearchPath struct {
	static []string
	envVar string
	getenv func(string) string

	mu    sync.RWMutex
	added []string
}

// NewSearchPath creates a search path made of static roots followed by
// the roots listed in envVar (os.PathListSeparator separated). An empty
// envVar disables the environment lookup.
func NewSearchPath(static []string, envVar string) *SearchPath {
	return &SearchPath{
		static: slices.Clone(static),
		envVar: envVar,
		getenv: os.Getenv,
	}
}

// Add appends root unless it is already present. It reports whether the
// search path changed.
func (p *SearchPath) Add(root string) bool {
	if root == "" || slices.Contains(p.Roots(), root) {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.added = append(p.added, root)
	return true
}

// Roots returns a fresh copy of the current roots.
func (p *SearchPath) Roots() []string {
	roots := slices.Clone(p.static)
	if p.envVar != "" {
		if v := p.getenv(p.envVar); v != "" {
			for _, r := range filepath.SplitList(v) {
				if r = strings.TrimSpace(r); r != "" {
					roots = append(roots, r)
				}
			}
		}
	}
	p.mu.RLock()
	roots = append(roots, p.added...)
	p.mu.RUnlock()
	return roots
}
