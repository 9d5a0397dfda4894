// Package codectx turns a code snippet containing the completion marker
// into a hint describing where the cursor sits: at the head of a call,
// inside a string, inside a module declaration, and so on.
package codectx

import (
	"strings"
	"unicode"

	"github.com/timsgardner/compliment/internal/derrors"
)

// Marker stands for the prefix being completed inside a snippet.
const Marker = "__prefix__"

// Kind is the syntactic position of the marker.
type Kind int

// Marker positions.
const (
	// KindArgument is any non-head position in code.
	KindArgument Kind = iota
	// KindCallHead is the first element of a list.
	KindCallHead
	// KindMemberAccess is a call head starting with ".".
	KindMemberAccess
	// KindModuleRef is anywhere inside a module declaration form.
	KindModuleRef
	// KindStringLiteral is inside a string.
	KindStringLiteral
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindCallHead:
		return "call-head"
	case KindMemberAccess:
		return "member-access"
	case KindModuleRef:
		return "module-ref"
	case KindStringLiteral:
		return "string"
	default:
		return "argument"
	}
}

// Hint describes the marker's surroundings. Hints are immutable.
type Hint struct {
	Kind Kind
	// Head is the head symbol of the innermost list enclosing the marker,
	// or "" when the marker is itself the head or is not in a list.
	Head string
	// Forms lists the heads of every enclosing list, innermost first.
	Forms []string
}

// InForm reports whether any enclosing list has head.
func (h *Hint) InForm(head string) bool {
	if h == nil {
		return false
	}
	for _, f := range h.Forms {
		if f == head {
			return true
		}
	}
	return false
}

var moduleForms = map[string]bool{
	"ns": true, "in-ns": true, "require": true, "use": true, "import": true, "load": true,
	":require": true, ":use": true, ":import": true, ":load": true,
}

var closers = map[rune]rune{'(': ')', '[': ']', '{': '}'}

type frame struct {
	open  rune
	head  string
	count int
}

type marked struct {
	atom     string
	inString bool
	stack    []frame
}

// Parse reads snippet, which must be one or more balanced forms, and
// returns the hint for the marker. A snippet without the marker yields a
// nil hint and no error.
func Parse(snippet string) (*Hint, error) {
	rs := []rune(snippet)
	var stack []frame
	var found *marked

	atom := func(text string, inString bool) {
		if !inString && len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.count == 0 {
				top.head = text
			}
			top.count++
		}
		if found == nil && strings.Contains(text, Marker) {
			found = &marked{atom: text, inString: inString, stack: append([]frame(nil), stack...)}
		}
	}

	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r) || r == ',':
			i++
		case r == ';':
			for i < len(rs) && rs[i] != '\n' {
				i++
			}
		case r == '"':
			start := i + 1
			i++
			for i < len(rs) && rs[i] != '"' {
				if rs[i] == '\\' {
					i++
				}
				i++
			}
			if i >= len(rs) {
				return nil, derrors.NewContextError(start-1, "unterminated string", nil)
			}
			text := string(rs[start:i])
			i++
			if strings.Contains(text, Marker) {
				atom(text, true)
			}
			// The string still occupies a slot in its form.
			atom(text, false)
		case r == '(' || r == '[' || r == '{':
			if len(stack) > 0 {
				stack[len(stack)-1].count++
			}
			stack = append(stack, frame{open: r})
			i++
		case r == ')' || r == ']' || r == '}':
			if len(stack) == 0 || closers[stack[len(stack)-1].open] != r {
				return nil, derrors.NewContextError(i, "unbalanced delimiter", nil)
			}
			stack = stack[:len(stack)-1]
			i++
		case r == '\'' || r == '`' || r == '~' || r == '@' || r == '^' || r == '#':
			// Reader prefixes attach to the following form.
			i++
		case r == '\\':
			start := i
			i += 2
			for i < len(rs) && !isDelimiter(rs[i]) {
				i++
			}
			if i > len(rs) {
				i = len(rs)
			}
			atom(string(rs[start:i]), false)
		default:
			start := i
			for i < len(rs) && !isDelimiter(rs[i]) {
				i++
			}
			atom(string(rs[start:i]), false)
		}
	}

	if len(stack) > 0 {
		return nil, derrors.NewContextError(len(snippet), "unclosed form", nil)
	}
	if found == nil {
		return nil, nil
	}
	return found.hint(), nil
}

func isDelimiter(r rune) bool {
	switch r {
	case '(', ')', '[', ']', '{', '}', '"', ';', ',':
		return true
	}
	return unicode.IsSpace(r)
}

func (m *marked) hint() *Hint {
	h := &Hint{}
	for i := len(m.stack) - 1; i >= 0; i-- {
		if m.stack[i].open == '(' {
			h.Forms = append(h.Forms, m.stack[i].head)
		}
	}

	var inner *frame
	if n := len(m.stack); n > 0 {
		inner = &m.stack[n-1]
	}
	markerIsHead := !m.inString && inner != nil && inner.open == '(' && inner.count == 1 && inner.head == m.atom

	if len(h.Forms) > 0 {
		h.Head = h.Forms[0]
		if markerIsHead {
			h.Head = ""
			h.Forms = h.Forms[1:]
		}
	}

	switch {
	case m.inString:
		h.Kind = KindStringLiteral
	case h.inModuleForm():
		h.Kind = KindModuleRef
	case markerIsHead && strings.HasPrefix(m.atom, "."):
		h.Kind = KindMemberAccess
	case markerIsHead:
		h.Kind = KindCallHead
	default:
		h.Kind = KindArgument
	}
	return h
}

func (h *Hint) inModuleForm() bool {
	for _, f := range h.Forms {
		if moduleForms[f] {
			return true
		}
	}
	return false
}
