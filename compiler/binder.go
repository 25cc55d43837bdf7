package compiler

import (
	"strconv"
	"strings"
)

// binderName sanitizes a SPARQL variable name into a valid Cypher
// identifier (§4.6 step 1: "sanitized to [A-Za-z_][A-Za-z0-9_]*"). SPARQL
// variable names are already drawn from a similar character class, so in
// practice this only needs to guard against a leading digit.
func binderName(sparqlVar string) string {
	var b strings.Builder
	for i, r := range sparqlVar {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := b.String()
	if name == "" {
		name = "_v"
	}
	return "v_" + name
}

// edgeBinderName returns the binder used for the relationship matched in a
// variable-predicate expansion's edge arm, distinct from any node binder
// namespace. Resource-target triple patterns match their relationship
// anonymously and use no edge binder.
func edgeBinderName(i int) string {
	return "_r" + strconv.Itoa(i)
}
