package model

import (
	"strconv"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und, cases.NoLower)

// Uniquify returns base when exists(base) is false, otherwise the first
// candidate of the form base+N (N = 1, 2, ...) that is free. When maxLength
// is positive, base is truncated so every candidate honors it. The result
// is deterministic for a given occupancy, so re-running a generating
// convention lands on the same name.
func Uniquify(base string, maxLength int, exists func(string) bool) string {
	candidate := truncate(base, maxLength)
	if !exists(candidate) {
		return candidate
	}
	for i := 1; ; i++ {
		suffix := strconv.Itoa(i)
		candidate = truncate(base, maxLength-len(suffix)) + suffix
		if !exists(candidate) {
			return candidate
		}
	}
}

func truncate(s string, max int) string {
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}

// TypeName composes a generated entity-type name from its parts, e.g. the
// two endpoint names of a many-to-many relationship.
func TypeName(parts ...string) string {
	name := ""
	for _, p := range parts {
		name += titleCaser.String(inflect.Camelize(p))
	}
	return name
}

// PropertyName composes a generated property name from its parts, e.g. a
// principal type name and a principal key property name, in the snake_case
// shape generated columns use.
func PropertyName(parts ...string) string {
	name := ""
	for i, p := range parts {
		if i > 0 {
			name += "_"
		}
		name += inflect.Underscore(p)
	}
	return name
}
