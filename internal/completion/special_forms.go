package completion

import (
	"context"
	"sort"

	"github.com/timsgardner/compliment/internal/codectx"
	"github.com/timsgardner/compliment/internal/matcher"
)

type specialForm struct {
	arglists []string
	doc      string
}

var specialForms = map[string]specialForm{
	"def":           {[]string{"[symbol doc-string? init?]"}, "Creates and interns a global var."},
	"if":            {[]string{"[test then else?]"}, "Evaluates test, then one of the branches."},
	"do":            {[]string{"[exprs*]"}, "Evaluates the expressions in order and returns the last."},
	"let*":          {[]string{"[[bindings*] exprs*]"}, "Evaluates exprs in a lexical context of bindings."},
	"letfn*":        {[]string{"[[fnspecs*] exprs*]"}, "Binds local functions."},
	"quote":         {[]string{"[form]"}, "Yields the unevaluated form."},
	"var":           {[]string{"[symbol]"}, "Returns the var the symbol refers to."},
	"fn*":           {[]string{"[name? [params*] exprs*]"}, "Defines a function."},
	"loop*":         {[]string{"[[bindings*] exprs*]"}, "Like let, but establishes a recursion point."},
	"recur":         {[]string{"[exprs*]"}, "Rebinds the recursion point and jumps to it."},
	"throw":         {[]string{"[expr]"}, "Throws the value of expr."},
	"try":           {[]string{"[expr* catch-clause* finally-clause?]"}, "Evaluates exprs, catching exceptions."},
	"catch":         {[]string{"[class name expr*]"}, "Handles exceptions inside try."},
	"finally":       {[]string{"[expr*]"}, "Runs after try for side effects."},
	"monitor-enter": {[]string{"[x]"}, "Acquires the monitor of x."},
	"monitor-exit":  {[]string{"[x]"}, "Releases the monitor of x."},
	"new":           {[]string{"[Classname args*]"}, "Instantiates a type."},
	"set!":          {[]string{"[var-symbol expr]"}, "Assigns to a mutable binding."},
	".":             {[]string{"[instance-expr member-symbol]"}, "Host member access."},
	"case*":         {nil, "Constant-time dispatch."},
	"deftype*":      {nil, "Defines a type."},
	"reify*":        {nil, "Creates an anonymous type instance."},
}

// SpecialFormsProvider offers the language's special forms in call
// position.
type SpecialFormsProvider struct {
	names []string
}

// NewSpecialFormsProvider creates the provider.
func NewSpecialFormsProvider() *SpecialFormsProvider {
	names := make([]string, 0, len(specialForms))
	for n := range specialForms {
		names = append(names, n)
	}
	sort.Strings(names)
	return &SpecialFormsProvider{names: names}
}

// Name implements Provider.
func (p *SpecialFormsProvider) Name() string { return "special-forms" }

// Separators implements Provider.
func (p *SpecialFormsProvider) Separators() matcher.Class { return matcher.Hyphen }

// Applies implements Provider.
func (p *SpecialFormsProvider) Applies(h *codectx.Hint) bool {
	return h == nil || h.Kind == codectx.KindCallHead
}

// Candidates implements Provider.
func (p *SpecialFormsProvider) Candidates(_ context.Context, _ Request) ([]Candidate, error) {
	out := make([]Candidate, 0, len(p.names))
	for _, n := range p.names {
		f := specialForms[n]
		out = append(out, Candidate{Text: n, Type: "special-form", Doc: f.doc, Arglists: f.arglists})
	}
	return out, nil
}
