package completion

import (
	"context"

	"github.com/timsgardner/compliment/internal/codectx"
	"github.com/timsgardner/compliment/internal/index"
	"github.com/timsgardner/compliment/internal/matcher"
)

// ResourcesProvider offers resource paths inside string literals. Paths
// are matched as literal prefixes.
type ResourcesProvider struct {
	index *index.Index
}

// NewResourcesProvider creates the provider. ix may be nil.
func NewResourcesProvider(ix *index.Index) *ResourcesProvider {
	return &ResourcesProvider{index: ix}
}

// Name implements Provider.
func (p *ResourcesProvider) Name() string { return "resources" }

// Separators implements Provider.
func (p *ResourcesProvider) Separators() matcher.Class { return matcher.None }

// Applies implements Provider.
func (p *ResourcesProvider) Applies(h *codectx.Hint) bool {
	return h != nil && h.Kind == codectx.KindStringLiteral
}

// Candidates implements Provider.
func (p *ResourcesProvider) Candidates(_ context.Context, _ Request) ([]Candidate, error) {
	if p.index == nil {
		return nil, nil
	}
	resources := p.index.Resources()
	out := make([]Candidate, 0, len(resources))
	for _, r := range resources {
		out = append(out, Candidate{Text: r, Type: "resource"})
	}
	return out, nil
}
