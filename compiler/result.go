// Package compiler implements C6 (the BGP compiler) and C7 (the algebra
// compiler extending it with OPTIONAL, UNION, FILTER and GROUP), per spec
// §4.6–§4.7. Compilation is tree-rebuilding and side-effect-free: each
// operator's CompilationResult is built bottom-up from its children and
// consumed immediately by the caller (spec §3.4 lifecycle).
package compiler

import "github.com/okulmus/rdf2cypher/algebra"

// Kind tags what algebra operator a CompilationResult was compiled from
// (§3.4).
type Kind string

const (
	KindBGP      Kind = "BGP"
	KindOptional Kind = "OPTIONAL"
	KindUnion    Kind = "UNION"
	KindFilter   Kind = "FILTER"
	KindGroup    Kind = "GROUP"
)

// CompilationResult is the record produced by compiling one algebra
// sub-tree: the Cypher text to execute, its parameter table, the mapping
// from SPARQL variable name to Cypher RETURN column, and which kind of
// operator produced it (§3.4).
type CompilationResult struct {
	Cypher     string
	Parameters map[string]any
	Variables  VariableMapping
	Kind       Kind
}

// Compile dispatches on the algebra operator's concrete type and returns
// its compilation, or an error wrapping ErrUnsupported (rdf2cypher.Unsupported)
// when the sub-tree cannot be pushed down — the caller (the executor
// bridge) is expected to fall back to the host evaluator in that case
// (§4.7.5).
//
// required names the variables the caller ultimately needs bound; only
// these are ever emitted in a RETURN clause (§4.6.5's attribute-projection
// requirement propagates through every recursive call).
func Compile(op algebra.Operator, required []string) (*CompilationResult, error) {
	switch o := op.(type) {
	case algebra.BGP:
		return compileBGP(o.Patterns, required)
	case algebra.Optional:
		return compileOptional(o, required)
	case algebra.Union:
		return compileUnion(o, required)
	case algebra.Filter:
		return compileFilter(o, required)
	case algebra.Group:
		return compileGroup(o, required)
	case algebra.Project:
		return Compile(o.Input, o.Vars)
	default:
		return nil, unsupported("unknown_operator")
	}
}
