package scope

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/timsgardner/compliment/internal/derrors"
)

// File is the on-disk format of a registry file. JSON files are read
// with the same decoder.
type File struct {
	Scopes []Definition `yaml:"scopes" json:"scopes"`
}

// Registry is the set of known scopes. It is safe for concurrent use;
// scopes are replaced wholesale, never mutated.
type Registry struct {
	mu     sync.RWMutex
	scopes map[string]*Scope
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{scopes: make(map[string]*Scope)}
}

// Add registers def, replacing any scope with the same name.
func (r *Registry) Add(def Definition) (*Scope, error) {
	if def.Name == "" {
		return nil, derrors.NewValidationError("name", "scope name is empty", nil)
	}
	s := newScope(def)
	r.mu.Lock()
	r.scopes[def.Name] = s
	r.mu.Unlock()
	return s, nil
}

// Scope returns the scope called name.
func (r *Registry) Scope(name string) (*Scope, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scopes[name]
	return s, ok
}

// Names returns the registered scope names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.scopes))
	for n := range r.scopes {
		names = append(names, n)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of scopes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.scopes)
}

// Load reads a registry file from rd and registers its scopes.
func (r *Registry) Load(rd io.Reader) (int, error) {
	var f File
	if err := yaml.NewDecoder(rd).Decode(&f); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, err
	}
	for i, def := range f.Scopes {
		if _, err := r.Add(def); err != nil {
			return i, fmt.Errorf("scope #%d: %w", i, err)
		}
	}
	return len(f.Scopes), nil
}

// LoadFile reads the registry file at path.
func (r *Registry) LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, derrors.NewConfigurationError(path, "failed to open scopes file", err)
	}
	defer f.Close()

	n, err := r.Load(f)
	if err != nil {
		return n, derrors.NewConfigurationError(path, "failed to parse scopes file", err)
	}
	return n, nil
}

// Qualifier resolves an alias or full scope name as seen from s. s may
// be nil.
func (r *Registry) Qualifier(s *Scope, qualifier string) (*Scope, error) {
	if s != nil {
		if target, ok := s.Aliases()[qualifier]; ok {
			qualifier = target
		}
	}
	target, ok := r.Scope(qualifier)
	if !ok {
		return nil, derrors.NewResolutionError(qualifier, "unknown scope or alias", nil)
	}
	return target, nil
}

// Visible is a symbol reachable from a scope together with the text used
// to refer to it and the scope that defines it.
type Visible struct {
	Text   string
	Owner  string
	Symbol Symbol
}

// Visible returns the symbols reachable from s whose text could complete
// prefix: for an "alias/name" prefix, the public symbols of that scope
// qualified with the alias; otherwise the scope's own symbols and the
// public symbols of referred scopes. Candidates are narrowed to those
// sharing prefix's first rune. s may be nil, in which case only the
// qualified form resolves.
func (r *Registry) Visible(s *Scope, prefix string) []Visible {
	if qualifier, name, ok := SplitQualified(prefix); ok {
		target, err := r.Qualifier(s, qualifier)
		if err != nil {
			return nil
		}
		includePrivate := s != nil && target.Name() == s.Name()
		var out []Visible
		for _, sym := range target.WithPrefix(FirstRune(name), includePrivate) {
			out = append(out, Visible{Text: qualifier + "/" + sym.Name, Owner: target.Name(), Symbol: sym})
		}
		return out
	}

	if s == nil {
		return nil
	}
	first := FirstRune(prefix)
	var out []Visible
	for _, sym := range s.WithPrefix(first, true) {
		out = append(out, Visible{Text: sym.Name, Owner: s.Name(), Symbol: sym})
	}
	for _, name := range s.Refers() {
		referred, ok := r.Scope(name)
		if !ok {
			continue
		}
		for _, sym := range referred.WithPrefix(first, false) {
			out = append(out, Visible{Text: sym.Name, Owner: referred.Name(), Symbol: sym})
		}
	}
	return out
}

// Resolve finds the definition symbol refers to from s: a qualified
// "alias/name", an own symbol, or a public symbol of a referred scope.
func (r *Registry) Resolve(s *Scope, symbol string) (Visible, error) {
	if qualifier, name, ok := SplitQualified(symbol); ok {
		target, err := r.Qualifier(s, qualifier)
		if err != nil {
			return Visible{}, err
		}
		if sym, ok := target.Lookup(name); ok {
			return Visible{Text: symbol, Owner: target.Name(), Symbol: sym}, nil
		}
		return Visible{}, derrors.NewResolutionError(symbol, "symbol not found", nil)
	}

	if s != nil {
		if sym, ok := s.Lookup(symbol); ok {
			return Visible{Text: symbol, Owner: s.Name(), Symbol: sym}, nil
		}
		for _, name := range s.Refers() {
			referred, ok := r.Scope(name)
			if !ok {
				continue
			}
			if sym, ok := referred.Lookup(symbol); ok && !sym.Private {
				return Visible{Text: symbol, Owner: referred.Name(), Symbol: sym}, nil
			}
		}
	}
	return Visible{}, derrors.NewResolutionError(symbol, "symbol not found", nil)
}
