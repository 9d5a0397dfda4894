package status

import (
	"github.com/timsgardner/compliment/internal/cache"
	"github.com/timsgardner/compliment/internal/index"
)

// Data contains all the information to display in status
type Data struct {
	// Header
	Version    string
	ConfigPath string

	// Matching
	Policy       string
	ScanArchives bool
	Extra        []string
	MaxResults   int

	// Search path
	Roots []RootInfo

	// Scopes
	Scopes []string

	// Index and caches
	Stats        index.Stats
	Cache        *cache.Info
	ContextCache int

	Providers []string
}

// RootInfo describes one search path root.
type RootInfo struct {
	Path string `json:"path" yaml:"path"`
	Kind string `json:"kind" yaml:"kind"`
}
