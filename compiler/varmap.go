package compiler

// VarKind classifies what a mapped variable's Cypher expression yields,
// which in turn determines how the executor bridge decodes a returned
// column back into an RDF term (§4.1 Shape).
type VarKind int

const (
	// VarResource means the expression yields a node's uri property.
	VarResource VarKind = iota
	// VarLiteral means the expression yields a property value.
	VarLiteral
	// VarType means the expression yields a type-label string.
	VarType
	// VarPredicate means the expression yields a predicate IRI (from a
	// variable-predicate expansion, §4.6.3).
	VarPredicate
	// VarDynamic means the expression's decode shape varies per row: a
	// variable-predicate or ambiguous-object union binds the same
	// variable to a node's uri in one arm and to a literal property value
	// in another. A sibling "shape" column (ShapeExpr), populated with
	// the literal 'resource' or 'literal', tells the executor which
	// decode path a given row needs; DatatypeExpr/LanguageExpr name the
	// companion columns carrying a literal row's side-channel datatype
	// and language (empty/NULL on a 'resource' row).
	VarDynamic
)

type mappingEntry struct {
	Name         string
	Expr         string
	Kind         VarKind
	ShapeExpr    string
	DatatypeExpr string
	LanguageExpr string
}

// VariableMapping is an ordered, immutable mapping from SPARQL variable
// name to the Cypher expression that yields its value. Per the corpus's
// design notes ("VariableMapping ownership"), it is a value type that is
// cloned-with-additions rather than mutated in place, so a parent operator
// can extend a child's mapping without disturbing the child's own copy —
// this keeps speculative try-compile-then-fall-back sequences safe.
type VariableMapping struct {
	entries []mappingEntry
}

// With returns a new VariableMapping with (name, expr, kind) appended. If
// name is already mapped, the existing entry is replaced in place,
// preserving its original position.
func (m VariableMapping) With(name, expr string, kind VarKind) VariableMapping {
	out := make([]mappingEntry, len(m.entries))
	copy(out, m.entries)
	for i, e := range out {
		if e.Name == name {
			out[i] = mappingEntry{Name: name, Expr: expr, Kind: kind}
			return VariableMapping{entries: out}
		}
	}
	out = append(out, mappingEntry{Name: name, Expr: expr, Kind: kind})
	return VariableMapping{entries: out}
}

// Get returns the Cypher expression and kind mapped to name, if any.
func (m VariableMapping) Get(name string) (string, VarKind, bool) {
	for _, e := range m.entries {
		if e.Name == name {
			return e.Expr, e.Kind, true
		}
	}
	return "", 0, false
}

// WithDynamic returns a new VariableMapping with a VarDynamic entry for
// name, carrying its companion shape/datatype/language column names.
func (m VariableMapping) WithDynamic(name, valueCol, shapeCol, datatypeCol, languageCol string) VariableMapping {
	out := make([]mappingEntry, len(m.entries))
	copy(out, m.entries)
	entry := mappingEntry{
		Name: name, Expr: valueCol, Kind: VarDynamic,
		ShapeExpr: shapeCol, DatatypeExpr: datatypeCol, LanguageExpr: languageCol,
	}
	for i, e := range out {
		if e.Name == name {
			out[i] = entry
			return VariableMapping{entries: out}
		}
	}
	out = append(out, entry)
	return VariableMapping{entries: out}
}

// GetDynamic returns the companion shape/datatype/language column names for
// a VarDynamic entry, if name is mapped as one.
func (m VariableMapping) GetDynamic(name string) (shapeCol, datatypeCol, languageCol string, ok bool) {
	for _, e := range m.entries {
		if e.Name == name && e.Kind == VarDynamic {
			return e.ShapeExpr, e.DatatypeExpr, e.LanguageExpr, true
		}
	}
	return "", "", "", false
}

// WithLiteralSideChannels attaches companion datatype/language column names
// to an already-mapped VarLiteral entry, so a plain BGP's literal-valued
// property access can carry its `__dt`/`__lang` side channel alongside the
// primary value column (§3.3) instead of only round-tripping native-scalar
// datatypes. No-op if name is not mapped as VarLiteral.
func (m VariableMapping) WithLiteralSideChannels(name, datatypeCol, languageCol string) VariableMapping {
	out := make([]mappingEntry, len(m.entries))
	copy(out, m.entries)
	for i, e := range out {
		if e.Name == name && e.Kind == VarLiteral {
			out[i].DatatypeExpr = datatypeCol
			out[i].LanguageExpr = languageCol
		}
	}
	return VariableMapping{entries: out}
}

// GetLiteralSideChannels returns the companion datatype/language column
// names for a VarLiteral entry, if present.
func (m VariableMapping) GetLiteralSideChannels(name string) (datatypeCol, languageCol string, ok bool) {
	for _, e := range m.entries {
		if e.Name == name && e.Kind == VarLiteral && (e.DatatypeExpr != "" || e.LanguageExpr != "") {
			return e.DatatypeExpr, e.LanguageExpr, true
		}
	}
	return "", "", false
}

// Has reports whether name is mapped.
func (m VariableMapping) Has(name string) bool {
	_, _, ok := m.Get(name)
	return ok
}

// Vars returns every mapped variable name, in the order they were added.
func (m VariableMapping) Vars() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Name
	}
	return out
}

// Len returns the number of mapped variables.
func (m VariableMapping) Len() int {
	return len(m.entries)
}

// Restrict returns a new mapping containing only the named variables that
// are present in m, preserving m's relative order. Unknown names are
// silently dropped — callers that need completeness should check Has first.
func (m VariableMapping) Restrict(names []string) VariableMapping {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []mappingEntry
	for _, e := range m.entries {
		if want[e.Name] {
			out = append(out, e)
		}
	}
	return VariableMapping{entries: out}
}
