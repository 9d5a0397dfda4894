// Package server exposes the completion engine to editors, either as MCP
// tools or over a msgpack stream on stdin/stdout.
package server

import (
	"context"
	"strings"
	"time"

	"github.com/timsgardner/compliment/internal/completion"
	"github.com/timsgardner/compliment/internal/derrors"
	"github.com/timsgardner/compliment/internal/logger"
	"github.com/timsgardner/compliment/internal/matcher"
	"github.com/timsgardner/compliment/internal/status"
)

// Params are the per-request fields shared by both transports. Zero
// values keep the engine's configured defaults.
type Params struct {
	Prefix    string
	Scope     string
	Context   string
	Fuzziness string
	Extra     []string
	Limit     int
}

// Backend implements the operations both transports expose.
type Backend struct {
	engine      *completion.Engine
	configPath  string
	timeout     time.Duration
	onRootAdded func()
	log         *logger.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithTimeout bounds each completion request.
func WithTimeout(d time.Duration) Option {
	return func(b *Backend) { b.timeout = d }
}

// WithConfigPath records the config file shown in status reports.
func WithConfigPath(path string) Option {
	return func(b *Backend) { b.configPath = path }
}

// OnRootAdded registers a callback run after a new root joins the
// search path, e.g. to start watching it.
func OnRootAdded(fn func()) Option {
	return func(b *Backend) { b.onRootAdded = fn }
}

// NewBackend wraps e. log may be nil.
func NewBackend(e *completion.Engine, log *logger.Logger, opts ...Option) *Backend {
	if log == nil {
		log = logger.Nop()
	}
	b := &Backend{engine: e, log: log.With("component", "server")}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Engine returns the wrapped engine.
func (b *Backend) Engine() *completion.Engine { return b.engine }

func (b *Backend) options(p Params) (completion.Options, error) {
	opts := b.engine.Options()
	if p.Fuzziness != "" {
		policy, err := matcher.ParsePolicy(p.Fuzziness)
		if err != nil {
			return opts, derrors.NewValidationError("fuzziness", err.Error(), err)
		}
		opts.Policy = policy
	}
	if len(p.Extra) > 0 {
		extra, err := completion.ParseExtras(p.Extra)
		if err != nil {
			return opts, derrors.NewValidationError("extra", err.Error(), err)
		}
		opts.Extra = extra
	}
	if p.Limit < 0 {
		return opts, derrors.NewValidationError("limit", "limit must not be negative", nil)
	}
	if p.Limit > 0 {
		opts.MaxResults = p.Limit
	}
	return opts, nil
}

// Complete runs a completion. Only malformed parameters produce an error.
func (b *Backend) Complete(ctx context.Context, p Params) ([]completion.Candidate, error) {
	opts, err := b.options(p)
	if err != nil {
		return nil, err
	}
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	return b.engine.Complete(ctx, completion.Query{
		Prefix:  p.Prefix,
		Scope:   p.Scope,
		Context: p.Context,
		Options: &opts,
	}), nil
}

// Documentation returns the doc text for symbol, or "".
func (b *Backend) Documentation(symbol, scopeName string) string {
	return b.engine.Documentation(symbol, scopeName)
}

// Flush drops every cached scan.
func (b *Backend) Flush() {
	b.engine.FlushCaches()
}

// AddRoot appends root to the search path. It reports whether the root
// was new.
func (b *Backend) AddRoot(root string) (bool, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return false, derrors.NewValidationError("root", "root is required", nil)
	}
	ix := b.engine.Index()
	if ix == nil {
		return false, derrors.NewNotFoundError("index", "no search path configured")
	}
	added := ix.SearchPath().Add(root)
	if added {
		b.log.Info().Str("root", root).Msg("search root added")
		if b.onRootAdded != nil {
			b.onRootAdded()
		}
	}
	return added, nil
}

// Status collects a status snapshot.
func (b *Backend) Status() *status.Data {
	return status.Collect(b.engine, b.configPath)
}
