package completion

import (
	"context"

	"github.com/timsgardner/compliment/internal/codectx"
	"github.com/timsgardner/compliment/internal/matcher"
	"github.com/timsgardner/compliment/internal/scope"
)

// VarsProvider offers the symbols visible from the request scope,
// including "alias/name" qualified forms.
type VarsProvider struct {
	registry *scope.Registry
}

// NewVarsProvider creates a provider over reg.
func NewVarsProvider(reg *scope.Registry) *VarsProvider {
	return &VarsProvider{registry: reg}
}

// Name implements Provider.
func (p *VarsProvider) Name() string { return "vars" }

// Separators implements Provider.
func (p *VarsProvider) Separators() matcher.Class { return "-/" }

// Applies implements Provider.
func (p *VarsProvider) Applies(h *codectx.Hint) bool {
	return h == nil || h.Kind == codectx.KindArgument || h.Kind == codectx.KindCallHead
}

// Candidates implements Provider.
func (p *VarsProvider) Candidates(_ context.Context, req Request) ([]Candidate, error) {
	visible := p.registry.Visible(req.Scope, req.Prefix)
	out := make([]Candidate, 0, len(visible))
	for _, v := range visible {
		kind := v.Symbol.Kind
		if kind == "" {
			kind = "var"
		}
		out = append(out, Candidate{
			Text:     v.Text,
			Type:     kind,
			Scope:    v.Owner,
			Doc:      v.Symbol.Doc,
			Arglists: v.Symbol.Arglists,
		})
	}
	return out, nil
}
