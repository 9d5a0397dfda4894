// Package scope holds the modules known to the completion engine and the
// symbols each one defines. Symbol tables are prefix tries so providers
// can narrow candidates to a first rune before matching.
package scope

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Symbol is a named definition in a scope.
type Symbol struct {
	Name     string   `yaml:"name" json:"name"`
	Kind     string   `yaml:"kind,omitempty" json:"kind,omitempty"`
	Arglists []string `yaml:"arglists,omitempty" json:"arglists,omitempty"`
	Doc      string   `yaml:"doc,omitempty" json:"doc,omitempty"`
	Private  bool     `yaml:"private,omitempty" json:"private,omitempty"`
}

// Definition describes a scope as stored in registry files.
type Definition struct {
	Name    string            `yaml:"name" json:"name"`
	Doc     string            `yaml:"doc,omitempty" json:"doc,omitempty"`
	Aliases map[string]string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Refers  []string          `yaml:"refers,omitempty" json:"refers,omitempty"`
	Imports []string          `yaml:"imports,omitempty" json:"imports,omitempty"`
	Symbols []Symbol          `yaml:"symbols,omitempty" json:"symbols,omitempty"`
}

// Scope is an immutable module with its symbol table.
type Scope struct {
	def     Definition
	symbols *patricia.Trie
}

func newScope(def Definition) *Scope {
	s := &Scope{def: def, symbols: patricia.NewTrie()}
	for _, sym := range def.Symbols {
		if sym.Name == "" {
			continue
		}
		s.symbols.Set(patricia.Prefix(sym.Name), sym)
	}
	return s
}

// Name returns the scope name.
func (s *Scope) Name() string { return s.def.Name }

// Doc returns the scope docstring.
func (s *Scope) Doc() string { return s.def.Doc }

// Aliases returns alias -> scope name.
func (s *Scope) Aliases() map[string]string { return s.def.Aliases }

// Refers returns the scopes whose public symbols are visible unqualified.
func (s *Scope) Refers() []string { return s.def.Refers }

// Imports returns the fully qualified type names imported by the scope.
func (s *Scope) Imports() []string { return s.def.Imports }

// Lookup returns the symbol called name.
func (s *Scope) Lookup(name string) (Symbol, bool) {
	item := s.symbols.Get(patricia.Prefix(name))
	if item == nil {
		return Symbol{}, false
	}
	return item.(Symbol), true
}

// WithPrefix returns the symbols whose name starts with prefix, sorted by
// name. Private symbols are dropped unless includePrivate is set.
func (s *Scope) WithPrefix(prefix string, includePrivate bool) []Symbol {
	var out []Symbol
	visit := func(_ patricia.Prefix, item patricia.Item) error {
		sym := item.(Symbol)
		if sym.Private && !includePrivate {
			return nil
		}
		out = append(out, sym)
		return nil
	}
	if prefix == "" {
		_ = s.symbols.Visit(visit)
	} else {
		_ = s.symbols.VisitSubtree(patricia.Prefix(prefix), visit)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of symbols in the scope.
func (s *Scope) Len() int {
	n := 0
	_ = s.symbols.Visit(func(patricia.Prefix, patricia.Item) error {
		n++
		return nil
	})
	return n
}

// FirstRune returns the leading rune of s as a string, or "" if s is empty.
func FirstRune(s string) string {
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}

// SplitQualified splits "alias/name" into its parts. Names without a
// slash, and the lone "/" symbol, return ok=false.
func SplitQualified(sym string) (qualifier, name string, ok bool) {
	i := strings.IndexByte(sym, '/')
	if i <= 0 || sym == "/" {
		return "", sym, false
	}
	return sym[:i], sym[i+1:], true
}
