// Package pathindex enumerates the leaf entries stored under one search
// path root. A root is either a plain directory tree, a single archive,
// or a directory glob ("dir/*") naming every archive in it.
package pathindex

import (
	"archive/zip"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrUnsupportedRoot is returned for roots that need a platform facility
// this process does not have, such as runtime module images.
var ErrUnsupportedRoot = errors.New("root kind cannot be enumerated on this platform")

// Kind classifies a root.
type Kind int

// Root kinds.
const (
	KindEmpty Kind = iota
	KindDirectory
	KindArchive
	KindArchiveGlob
	KindUnsupported
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindDirectory:
		return "directory"
	case KindArchive:
		return "archive"
	case KindArchiveGlob:
		return "archive-glob"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

const globSuffix = "/*"

var schemeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]+:/`)

// KindOf classifies root.
func KindOf(root string, layout Layout) Kind {
	switch {
	case root == "":
		return KindEmpty
	case strings.HasSuffix(root, globSuffix):
		return KindArchiveGlob
	case layout.IsArchive(root):
		return KindArchive
	case schemeRe.MatchString(root):
		return KindUnsupported
	default:
		return KindDirectory
	}
}

// Lister lists the leaf entries of one kind of root.
type Lister interface {
	List(root string) ([]string, error)
}

// DirLister walks a directory tree. Names are relative to the root and
// use "/" as separator. A symlinked root is resolved first. Symlinked
// directories below it are not descended into, so link cycles cannot make
// the walk diverge; symlinks to files are listed.
type DirLister struct{}

// List implements Lister.
func (DirLister) List(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "list", Path: root, Err: errors.New("not a directory")}
	}
	// WalkDir does not follow a symlinked root.
	root, err = filepath.EvalSymlinks(root)
	if err != nil {
		return nil, err
	}

	var names []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: skip it, keep the rest.
			if path != root && d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil || target.IsDir() {
				return nil
			}
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	return names, err
}

// ArchiveLister lists the non-directory entries of a zip-format archive.
// When Enabled is false it lists nothing.
type ArchiveLister struct {
	Enabled bool
}

// List implements Lister.
func (a ArchiveLister) List(root string) ([]string, error) {
	if !a.Enabled {
		return nil, nil
	}
	r, err := zip.OpenReader(root)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}
		names = append(names, f.Name)
	}
	return names, nil
}

// GlobLister lists every archive directly inside the directory named by
// a "dir/*" root. Archives that fail to open are skipped.
type GlobLister struct {
	Archive ArchiveLister
	Layout  Layout
	// OnError is told about archives that could not be read.
	OnError func(archive string, err error)
}

// List implements Lister.
func (g GlobLister) List(root string) ([]string, error) {
	dir := strings.TrimSuffix(root, globSuffix)
	if dir == "" {
		dir = "/"
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !g.Layout.IsArchive(e.Name()) {
			continue
		}
		archive := filepath.Join(dir, e.Name())
		listed, err := g.Archive.List(archive)
		if err != nil {
			if g.OnError != nil {
				g.OnError(archive, err)
			}
			continue
		}
		names = append(names, listed...)
	}
	return names, nil
}

// UnsupportedLister fails every root with ErrUnsupportedRoot.
type UnsupportedLister struct{}

// List implements Lister.
func (UnsupportedLister) List(string) ([]string, error) {
	return nil, ErrUnsupportedRoot
}
