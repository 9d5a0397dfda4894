package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// Index views.
const (
	ViewFiles     = "files"
	ViewClasses   = "classes"
	ViewModules   = "modules"
	ViewResources = "resources"
	ViewStats     = "stats"
)

// IndexParams contains parameters for the Index command
type IndexParams struct {
	CommonParams
	View string
	// Format is text, json or yaml.
	Format string
	// NoArchives disables archive scanning regardless of configuration.
	NoArchives bool
}

// Index dumps one view of the search path
func Index(params IndexParams) error {
	c, err := initializeComponents(params.CommonParams)
	if err != nil {
		return err
	}
	scanArchives := c.config.ScanArchives && !params.NoArchives

	var data interface{}
	switch params.View {
	case ViewFiles, "":
		data = c.index.AllFiles(scanArchives)
	case ViewClasses:
		data = c.index.Classes(scanArchives)
	case ViewModules:
		modules := c.index.Modules(scanArchives)
		names := make([]string, 0, len(modules))
		for m := range modules {
			names = append(names, m)
		}
		sort.Strings(names)
		data = names
	case ViewResources:
		data = c.index.Resources()
	case ViewStats:
		data = c.index.Stats(scanArchives)
	default:
		return fmt.Errorf("unknown view %q (want files, classes, modules, resources or stats)", params.View)
	}

	return writeView(params.out(), params.Format, data)
}

func writeView(out io.Writer, format string, data interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		return writeText(out, data)
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func writeText(out io.Writer, data interface{}) error {
	switch v := data.(type) {
	case []string:
		for _, s := range v {
			if _, err := fmt.Fprintln(out, s); err != nil {
				return err
			}
		}
	case map[string][]string:
		groups := make([]string, 0, len(v))
		for g := range v {
			groups = append(groups, g)
		}
		sort.Strings(groups)
		for _, g := range groups {
			for _, name := range v[g] {
				if _, err := fmt.Fprintln(out, name); err != nil {
					return err
				}
			}
		}
	default:
		return writeView(out, "yaml", data)
	}
	return nil
}
