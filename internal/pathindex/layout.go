package pathindex

import "strings"

// Layout names the file conventions of the symbol universe.
type Layout struct {
	// ClassSuffix marks compiled type files, e.g. ".class".
	ClassSuffix string `koanf:"class_suffix" json:"class_suffix" yaml:"class_suffix"`
	// SourceSuffix marks module source files, e.g. ".clj".
	SourceSuffix string `koanf:"source_suffix" json:"source_suffix" yaml:"source_suffix"`
	// ArchiveSuffixes mark zip-format archives, e.g. ".jar".
	ArchiveSuffixes []string `koanf:"archive_suffixes" json:"archive_suffixes" yaml:"archive_suffixes"`
	// MetadataRoot is a top-level directory whose sources are not modules.
	MetadataRoot string `koanf:"metadata_root" json:"metadata_root" yaml:"metadata_root"`
	// GeneratedMarkers flag compiler-generated type names.
	GeneratedMarkers []string `koanf:"generated_markers" json:"generated_markers" yaml:"generated_markers"`
}

// DefaultLayout returns the JVM-style layout.
func DefaultLayout() Layout {
	return Layout{
		ClassSuffix:      ".class",
		SourceSuffix:     ".clj",
		ArchiveSuffixes:  []string{".jar", ".zip"},
		MetadataRoot:     "META-INF",
		GeneratedMarkers: []string{"__", "$"},
	}
}

// IsArchive reports whether name carries an archive suffix.
func (l Layout) IsArchive(name string) bool {
	for _, s := range l.ArchiveSuffixes {
		if s != "" && strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// IsGenerated reports whether name contains a generated-name marker.
func (l Layout) IsGenerated(name string) bool {
	for _, m := range l.GeneratedMarkers {
		if m != "" && strings.Contains(name, m) {
			return true
		}
	}
	return false
}
