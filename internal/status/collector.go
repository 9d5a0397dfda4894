// Package status collects and renders a snapshot of the completion engine.
package status

import (
	"github.com/timsgardner/compliment/internal/completion"
	"github.com/timsgardner/compliment/internal/pathindex"
	"github.com/timsgardner/compliment/pkg/version"
)

// Collect gathers status from e. Collecting computes every index view,
// so the cache section reflects a warm cache.
func Collect(e *completion.Engine, configPath string) *Data {
	opts := e.Options()
	data := &Data{
		Version:      version.Version,
		ConfigPath:   configPath,
		Policy:       opts.Policy.String(),
		ScanArchives: opts.ScanArchives,
		Extra:        opts.Extra.Names(),
		MaxResults:   opts.MaxResults,
		Roots:        make([]RootInfo, 0),
		Scopes:       e.Registry().Names(),
		ContextCache: e.Parser().Len(),
	}

	for _, p := range e.Providers() {
		data.Providers = append(data.Providers, p.Name())
	}

	if ix := e.Index(); ix != nil {
		data.Stats = ix.Stats(opts.ScanArchives)
		layout := ix.Layout()
		for _, root := range data.Stats.Roots {
			data.Roots = append(data.Roots, RootInfo{
				Path: root,
				Kind: pathindex.KindOf(root, layout).String(),
			})
		}
		data.Cache = ix.Cache().Info()
	}

	return data
}
