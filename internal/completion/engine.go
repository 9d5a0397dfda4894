package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/timsgardner/compliment/internal/codectx"
	"github.com/timsgardner/compliment/internal/derrors"
	"github.com/timsgardner/compliment/internal/index"
	"github.com/timsgardner/compliment/internal/logger"
	"github.com/timsgardner/compliment/internal/matcher"
	"github.com/timsgardner/compliment/internal/rank"
	"github.com/timsgardner/compliment/internal/scope"
	"github.com/timsgardner/compliment/internal/timing"
	"github.com/timsgardner/compliment/internal/trace"
)

// Query is a completion request.
type Query struct {
	Prefix string
	// Scope names the enclosing scope; unknown names are treated as absent.
	Scope string
	// Context is a snippet containing codectx.Marker, or codectx.Same.
	Context string
	// Options overrides the engine defaults when set.
	Options *Options
}

// Engine gathers candidates from every applicable provider, keeps those
// matching the prefix, removes duplicates and ranks the rest.
type Engine struct {
	providers []Provider
	index     *index.Index
	registry  *scope.Registry
	parser    *codectx.Parser
	opts      Options
	log       *logger.Logger
}

// NewEngine creates an engine with the standard providers. log may be nil.
func NewEngine(ix *index.Index, reg *scope.Registry, parser *codectx.Parser, opts Options, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	if reg == nil {
		reg = scope.NewRegistry()
	}
	if parser == nil {
		parser = codectx.NewParser(0, log)
	}
	return &Engine{
		providers: []Provider{
			NewVarsProvider(reg),
			NewSpecialFormsProvider(),
			NewNamespacesProvider(ix, reg),
			NewClassesProvider(ix),
			NewResourcesProvider(ix),
		},
		index:    ix,
		registry: reg,
		parser:   parser,
		opts:     opts,
		log:      log.With("component", "engine"),
	}
}

// Options returns the engine's default options.
func (e *Engine) Options() Options { return e.opts }

// Providers returns the registered providers in priority order.
func (e *Engine) Providers() []Provider { return e.providers }

// Registry returns the scope registry.
func (e *Engine) Registry() *scope.Registry { return e.registry }

// Parser returns the context parser.
func (e *Engine) Parser() *codectx.Parser { return e.parser }

// Index returns the index, which may be nil.
func (e *Engine) Index() *index.Index { return e.index }

// FlushCaches drops every cached scan result.
func (e *Engine) FlushCaches() {
	entry := e.log.Debug()
	if e.index != nil {
		info := e.index.Cache().Info()
		e.index.Flush()
		entry = entry.Int("slots", len(info.Slots)).Int64("hits", info.Hits).Int64("misses", info.Misses)
	}
	trace.Log(context.Background(), "engine", "caches flushed")
	entry.Msg("caches flushed")
}

type providerResult struct {
	pos        int
	candidates []Candidate
}

// Complete returns the ranked completions for q. It never fails: provider
// errors, unknown scopes and unparseable context all degrade to fewer
// candidates. When ctx expires, providers that have not answered
// contribute nothing.
func (e *Engine) Complete(ctx context.Context, q Query) []Candidate {
	defer trace.Region(ctx, "complete")()

	if q.Prefix == "" {
		return []Candidate{}
	}
	opts := e.opts
	if q.Options != nil {
		opts = *q.Options
	}

	timer := timing.NewTimer()
	log := e.log.With("request", uuid.NewString())

	var sc *scope.Scope
	if q.Scope != "" {
		var ok bool
		if sc, ok = e.registry.Scope(q.Scope); !ok {
			err := derrors.NewResolutionError(q.Scope, "unknown scope", nil)
			log.Debug().Str("code", err.Code()).Str("scope", q.Scope).Msg("completing without scope")
		}
	}
	hint := e.parser.Parse(q.Context)
	trace.Log(ctx, "context", hintKind(hint))
	req := Request{Prefix: q.Prefix, Scope: sc, Hint: hint, Options: opts}

	var active []Provider
	for _, p := range e.providers {
		if p.Applies(hint) {
			active = append(active, p)
		}
	}

	results := make(chan providerResult, len(active))
	for i, p := range active {
		go func() {
			results <- providerResult{pos: i, candidates: e.gather(ctx, log, p, req)}
		}()
	}

	gathered := make([][]Candidate, len(active))
	pending := len(active)
	for pending > 0 {
		select {
		case r := <-results:
			gathered[r.pos] = r.candidates
			pending--
		case <-ctx.Done():
			log.Debug().Int("pending", pending).Err(ctx.Err()).Msg("returning partial result")
			pending = 0
		}
	}
	timer.Mark("gather")

	seen := make(map[string]struct{})
	var out []Candidate
	for i, cands := range gathered {
		sep := active[i].Separators()
		origin := active[i].Name()
		for _, c := range cands {
			if _, dup := seen[c.Text]; dup {
				continue
			}
			if !matcher.Match(opts.Policy, q.Prefix, c.Text, sep) {
				continue
			}
			seen[c.Text] = struct{}{}
			out = append(out, strip(c, origin, opts.Extra))
		}
	}
	rank.By(out, func(c Candidate) string { return c.Text })
	if opts.MaxResults > 0 && len(out) > opts.MaxResults {
		out = out[:opts.MaxResults]
	}
	if out == nil {
		out = []Candidate{}
	}
	timer.Mark("rank")

	if log.Enabled() {
		timer.Annotate(log.Debug().
			Str("prefix", q.Prefix).
			Str("context", hintKind(hint)).
			Int("providers", len(active)).
			Int("candidates", len(out))).
			Msg("completed")
	}
	return out
}

func (e *Engine) gather(ctx context.Context, log *logger.Logger, p Provider, req Request) (cands []Candidate) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("provider", p.Name()).Str("panic", fmt.Sprint(r)).Msg("provider panicked")
			cands = nil
		}
	}()
	cands, err := p.Candidates(ctx, req)
	if err != nil {
		log.Debug().Str("provider", p.Name()).Err(err).Msg("provider failed")
		return nil
	}
	return cands
}

// strip works on a copy; the provider keeps ownership of its slice.
func strip(c Candidate, origin string, extra Extra) Candidate {
	if c.Origin == "" {
		c.Origin = origin
	}
	if !extra.Has(ExtraDoc) {
		c.Doc = ""
	}
	if !extra.Has(ExtraArity) {
		c.Arglists = nil
	}
	if !extra.Has(ExtraType) {
		c.Type = ""
	}
	return c
}

func hintKind(h *codectx.Hint) string {
	if h == nil {
		return "none"
	}
	return h.Kind.String()
}

// Documentation returns the docstring for symbol as seen from scopeName,
// or "" when the symbol cannot be resolved.
func (e *Engine) Documentation(symbol, scopeName string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return ""
	}
	sc, _ := e.registry.Scope(scopeName)

	if v, err := e.registry.Resolve(sc, symbol); err == nil {
		return formatDoc(v.Owner+"/"+v.Symbol.Name, v.Symbol.Arglists, v.Symbol.Doc)
	}
	if form, ok := specialForms[symbol]; ok {
		return formatDoc(symbol, form.arglists, form.doc)
	}
	if target, err := e.registry.Qualifier(sc, symbol); err == nil {
		return formatDoc(target.Name(), nil, target.Doc())
	}
	return ""
}

func formatDoc(name string, arglists []string, doc string) string {
	var b strings.Builder
	b.WriteString(name)
	if len(arglists) > 0 {
		b.WriteString("\n(")
		b.WriteString(strings.Join(arglists, " "))
		b.WriteString(")")
	}
	if doc != "" {
		b.WriteString("\n  ")
		b.WriteString(doc)
	}
	b.WriteString("\n")
	return b.String()
}
