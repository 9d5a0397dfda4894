package pathindex

import (
	"github.com/timsgardner/compliment/internal/derrors"
	"github.com/timsgardner/compliment/internal/logger"
)

// Scanner lists roots of any kind. Failures never escape: a root that
// cannot be listed contributes no entries and is logged at debug level.
type Scanner struct {
	layout Layout
	log    *logger.Logger
}

// NewScanner creates a scanner for layout. log may be nil.
func NewScanner(layout Layout, log *logger.Logger) *Scanner {
	if log == nil {
		log = logger.Nop()
	}
	return &Scanner{layout: layout, log: log.With("component", "pathindex")}
}

// Layout returns the scanner's layout.
func (s *Scanner) Layout() Layout {
	return s.layout
}

// ListerFor returns the lister serving root.
func (s *Scanner) ListerFor(root string, scanArchives bool) Lister {
	archive := ArchiveLister{Enabled: scanArchives}
	switch KindOf(root, s.layout) {
	case KindEmpty:
		return nil
	case KindArchiveGlob:
		return GlobLister{Archive: archive, Layout: s.layout, OnError: s.report}
	case KindArchive:
		return archive
	case KindUnsupported:
		return UnsupportedLister{}
	default:
		return DirLister{}
	}
}

// List returns the entries under root, or nothing if it cannot be listed.
func (s *Scanner) List(root string, scanArchives bool) []string {
	lister := s.ListerFor(root, scanArchives)
	if lister == nil {
		return nil
	}
	names, err := lister.List(root)
	if err != nil {
		s.report(root, err)
		return nil
	}
	return names
}

func (s *Scanner) report(root string, err error) {
	e := derrors.NewEnumerationError(root, "failed to list root", err)
	s.log.Debug().Str("root", e.Root).Str("code", e.Code()).Err(err).Msg("skipping root")
}
