package completion

import (
	"context"
	"sort"

	"github.com/timsgardner/compliment/internal/codectx"
	"github.com/timsgardner/compliment/internal/index"
	"github.com/timsgardner/compliment/internal/matcher"
	"github.com/timsgardner/compliment/internal/scope"
)

// NamespacesProvider offers module names found on the search path,
// registered scopes and the aliases of the request scope.
type NamespacesProvider struct {
	index    *index.Index
	registry *scope.Registry
}

// NewNamespacesProvider creates the provider. ix may be nil.
func NewNamespacesProvider(ix *index.Index, reg *scope.Registry) *NamespacesProvider {
	return &NamespacesProvider{index: ix, registry: reg}
}

// Name implements Provider.
func (p *NamespacesProvider) Name() string { return "namespaces" }

// Separators implements Provider.
func (p *NamespacesProvider) Separators() matcher.Class { return matcher.Dot }

// Applies implements Provider.
func (p *NamespacesProvider) Applies(h *codectx.Hint) bool {
	return h == nil || (h.Kind != codectx.KindStringLiteral && h.Kind != codectx.KindMemberAccess)
}

// Candidates implements Provider.
func (p *NamespacesProvider) Candidates(_ context.Context, req Request) ([]Candidate, error) {
	names := make(map[string]string)
	if p.index != nil {
		for m := range p.index.Modules(req.Options.ScanArchives) {
			names[m] = ""
		}
	}
	for _, n := range p.registry.Names() {
		if s, ok := p.registry.Scope(n); ok {
			names[n] = s.Doc()
		}
	}

	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	out := make([]Candidate, 0, len(sorted))
	for _, n := range sorted {
		out = append(out, Candidate{Text: n, Type: "namespace", Doc: names[n]})
	}
	if req.Scope != nil {
		aliases := make([]string, 0, len(req.Scope.Aliases()))
		for a := range req.Scope.Aliases() {
			aliases = append(aliases, a)
		}
		sort.Strings(aliases)
		for _, a := range aliases {
			out = append(out, Candidate{Text: a, Type: "alias", Scope: req.Scope.Aliases()[a]})
		}
	}
	return out, nil
}
