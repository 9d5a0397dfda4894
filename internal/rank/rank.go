// Package rank orders accepted completions: shorter first, then lexical.
package rank

import (
	"sort"
	"unicode/utf8"
)

// Less reports whether a sorts before b.
func Less(a, b string) bool {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

// Strings sorts names in place.
func Strings(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return Less(names[i], names[j])
	})
}

// By sorts items in place using the name returned by key.
func By[T any](items []T, key func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return Less(key(items[i]), key(items[j]))
	})
}
