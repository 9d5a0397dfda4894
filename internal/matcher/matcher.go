// Package matcher decides whether a candidate identifier plausibly
// completes a typed prefix.
//
// Two policies are provided. SkipFuzzy lets an unmatched run of the
// candidate be skipped up to the next separator, and lets the prefix
// carry separators of its own. BoundaryRequired skips forward to the
// next boundary rune but keeps the prefix position unchanged, so
// abbreviations such as "remme" reach "remove-method".
//
// Matching is case sensitive and works on runes.
package matcher

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Class is a set of separator runes.
type Class string

// Common separator classes.
const (
	Hyphen Class = "-"
	Dot    Class = "."
	Slash  Class = "/"
	// None never matches, which turns SkipFuzzy into a literal prefix test.
	None Class = ""
)

// Contains reports whether r belongs to the class.
func (c Class) Contains(r rune) bool {
	return strings.ContainsRune(string(c), r)
}

// Policy selects a matching algorithm.
type Policy int

const (
	// Skip is the skip-fuzzy policy.
	Skip Policy = iota
	// Boundary is the boundary-required policy.
	Boundary
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case Skip:
		return "skip"
	case Boundary:
		return "boundary"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy converts a configuration name into a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "skip", "fuzzy":
		return Skip, nil
	case "boundary", "no-skip":
		return Boundary, nil
	default:
		return Skip, fmt.Errorf("unknown fuzziness %q (want skip or boundary)", name)
	}
}

// Match runs the selected policy with sep as the separator class.
func Match(p Policy, prefix, candidate string, sep Class) bool {
	if p == Boundary {
		return BoundaryRequired(prefix, candidate, sep.Contains)
	}
	return SkipFuzzy(prefix, candidate, sep)
}

// admits is the O(1) entry condition shared by both policies.
func admits(prefix, candidate string) bool {
	if strings.HasPrefix(candidate, prefix) {
		return true
	}
	p, _ := utf8.DecodeRuneInString(prefix)
	c, _ := utf8.DecodeRuneInString(candidate)
	return prefix != "" && candidate != "" && p == c
}

// SkipFuzzy reports whether candidate matches prefix under the
// skip-fuzzy policy.
func SkipFuzzy(prefix, candidate string, sep Class) bool {
	if !admits(prefix, candidate) {
		return false
	}
	if prefix == "" {
		return true
	}
	pre := []rune(prefix)[1:]
	sym := []rune(candidate)[1:]
	skipping := false

	for {
		switch {
		case len(pre) == 0:
			return true
		case len(sym) == 0:
			return false
		case skipping:
			if sep.Contains(sym[0]) {
				if sep.Contains(pre[0]) {
					pre = pre[1:]
				}
				sym = sym[1:]
				skipping = false
			} else {
				sym = sym[1:]
			}
		case pre[0] == sym[0]:
			pre = pre[1:]
			sym = sym[1:]
		default:
			sym = sym[1:]
			skipping = true
		}
	}
}

// BoundaryRequired reports whether candidate matches prefix under the
// boundary-required policy. isBoundary marks the runes that end a skip.
func BoundaryRequired(prefix, candidate string, isBoundary func(rune) bool) bool {
	if !admits(prefix, candidate) {
		return false
	}
	if prefix == "" {
		return true
	}
	pre := []rune(prefix)[1:]
	sym := []rune(candidate)[1:]
	skipping := false

	for {
		switch {
		case len(pre) == 0:
			return true
		case len(sym) == 0:
			return false
		case skipping:
			if isBoundary(sym[0]) {
				skipping = false
			}
			sym = sym[1:]
		case pre[0] == sym[0]:
			pre = pre[1:]
			sym = sym[1:]
		default:
			sym = sym[1:]
			skipping = true
		}
	}
}
