// Package completion provides the completion engine and its pluggable
// candidate providers.
package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/timsgardner/compliment/internal/codectx"
	"github.com/timsgardner/compliment/internal/matcher"
	"github.com/timsgardner/compliment/internal/scope"
)

// Candidate is one completion. Text and Origin are always set; the other
// fields are only returned when the matching Extra flag is requested.
type Candidate struct {
	Text     string   `json:"candidate" yaml:"candidate" msgpack:"candidate"`
	Origin   string   `json:"origin" yaml:"origin" msgpack:"origin"`
	Type     string   `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
	Scope    string   `json:"ns,omitempty" yaml:"ns,omitempty" msgpack:"ns,omitempty"`
	Doc      string   `json:"doc,omitempty" yaml:"doc,omitempty" msgpack:"doc,omitempty"`
	Arglists []string `json:"arglists,omitempty" yaml:"arglists,omitempty" msgpack:"arglists,omitempty"`
}

// Extra is a set of optional metadata flags.
type Extra uint8

// Metadata flags.
const (
	ExtraDoc Extra = 1 << iota
	ExtraArity
	ExtraType
)

// Has reports whether flag is set.
func (e Extra) Has(flag Extra) bool { return e&flag != 0 }

// Names lists the set flags in the form ParseExtras accepts.
func (e Extra) Names() []string {
	names := []string{}
	if e.Has(ExtraDoc) {
		names = append(names, "doc")
	}
	if e.Has(ExtraArity) {
		names = append(names, "arity")
	}
	if e.Has(ExtraType) {
		names = append(names, "type")
	}
	return names
}

// ParseExtras converts flag names (doc, arity, type) into a set.
func ParseExtras(names []string) (Extra, error) {
	var e Extra
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "":
		case "doc", "docs":
			e |= ExtraDoc
		case "arity", "arglists":
			e |= ExtraArity
		case "type", "types":
			e |= ExtraType
		default:
			return e, fmt.Errorf("unknown metadata flag %q", n)
		}
	}
	return e, nil
}

// Options are the per-request knobs, passed explicitly to every provider.
type Options struct {
	Policy       matcher.Policy
	ScanArchives bool
	Extra        Extra
	// MaxResults caps the ranked result; 0 means no cap.
	MaxResults int
}

// DefaultOptions returns skip-fuzzy matching with archive scanning.
func DefaultOptions() Options {
	return Options{Policy: matcher.Skip, ScanArchives: true}
}

// Request is what a provider sees.
type Request struct {
	Prefix  string
	Scope   *scope.Scope
	Hint    *codectx.Hint
	Options Options
}

// Provider enumerates raw candidates of one category. The engine does the
// matching, using the provider's separator class.
type Provider interface {
	// Name identifies the provider; it becomes the candidate origin.
	Name() string
	// Separators are the segment boundaries of this provider's candidates.
	Separators() matcher.Class
	// Applies reports whether the provider is relevant at hint. hint is
	// nil when there is no context.
	Applies(hint *codectx.Hint) bool
	// Candidates returns the raw candidate set for req.
	Candidates(ctx context.Context, req Request) ([]Candidate, error)
}
