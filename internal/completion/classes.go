package completion

import (
	"context"
	"strings"

	"github.com/timsgardner/compliment/internal/codectx"
	"github.com/timsgardner/compliment/internal/index"
	"github.com/timsgardner/compliment/internal/matcher"
)

// ClassesProvider offers type names from the grouped type view. A dotted
// prefix is looked up in its top-level group; an undotted one sees the
// group names, ungrouped types and the request scope's imports.
type ClassesProvider struct {
	index *index.Index
}

// NewClassesProvider creates the provider. ix may be nil.
func NewClassesProvider(ix *index.Index) *ClassesProvider {
	return &ClassesProvider{index: ix}
}

// Name implements Provider.
func (p *ClassesProvider) Name() string { return "classes" }

// Separators implements Provider.
func (p *ClassesProvider) Separators() matcher.Class { return matcher.Dot }

// Applies implements Provider.
func (p *ClassesProvider) Applies(h *codectx.Hint) bool {
	return h == nil || h.Kind != codectx.KindStringLiteral
}

// Candidates implements Provider.
func (p *ClassesProvider) Candidates(_ context.Context, req Request) ([]Candidate, error) {
	var out []Candidate
	if req.Scope != nil {
		for _, full := range req.Scope.Imports() {
			short := full[strings.LastIndexByte(full, '.')+1:]
			out = append(out, Candidate{Text: short, Type: "class", Doc: full})
		}
	}
	if p.index == nil {
		return out, nil
	}

	grouped := p.index.Classes(req.Options.ScanArchives)
	prefix := strings.TrimPrefix(req.Prefix, ".")
	if i := strings.IndexByte(prefix, '.'); i > 0 {
		for _, name := range grouped[prefix[:i]] {
			out = append(out, Candidate{Text: name, Type: "class"})
		}
		return out, nil
	}

	for group := range grouped {
		if group != "" {
			out = append(out, Candidate{Text: group, Type: "package"})
		}
	}
	for _, name := range grouped[""] {
		out = append(out, Candidate{Text: name, Type: "class"})
	}
	return out, nil
}
