package rdf2cypher

import "fmt"

// Triple is a concrete RDF statement: subject, predicate, and object terms.
// The subject MUST be an *IRI or *BlankNode; the predicate MUST be an *IRI.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// NewTriple builds a Triple from its three terms.
func NewTriple(s, p, o Term) *Triple {
	return &Triple{Subject: s, Predicate: p, Object: o}
}

// String returns the NTriples representation of the triple.
func (t *Triple) String() string {
	return fmt.Sprintf("%s %s %s .", encodeTerm(t.Subject), encodeTerm(t.Predicate), encodeTerm(t.Object))
}

// Equal returns whether two triples carry the same subject, predicate and object.
func (t *Triple) Equal(other *Triple) bool {
	if other == nil {
		return false
	}
	return t.Subject.Equal(other.Subject) && t.Predicate.Equal(other.Predicate) && t.Object.Equal(other.Object)
}

func encodeTerm(term Term) string {
	switch t := term.(type) {
	case *IRI:
		return fmt.Sprintf("<%s>", t.Value)
	case *Literal:
		return t.String()
	case *BlankNode:
		return t.String()
	}
	return ""
}

// Variable names a placeholder slot in a Pattern. SPARQL convention prefixes
// these with '?' or '$' at the surface syntax level; the compiler only ever
// sees the bare name.
type Variable struct {
	Name string
}

// NewVariable returns a new named variable.
func NewVariable(name string) Variable {
	return Variable{Name: name}
}

// String returns the SPARQL surface-syntax form of the variable.
func (v Variable) String() string {
	return "?" + v.Name
}

// Slot is either a concrete Term or a Variable. Exactly one of the two
// fields is non-nil/non-empty for any well-formed Slot.
type Slot struct {
	Term     Term
	Variable *Variable
}

// TermSlot wraps a concrete term as a pattern slot.
func TermSlot(t Term) Slot {
	return Slot{Term: t}
}

// VarSlot wraps a variable as a pattern slot.
func VarSlot(name string) Slot {
	v := NewVariable(name)
	return Slot{Variable: &v}
}

// IsVariable reports whether the slot is a variable rather than a constant.
func (s Slot) IsVariable() bool {
	return s.Variable != nil
}

// Pattern is a Triple in which any slot may be a Variable instead of a
// concrete Term.
type Pattern struct {
	Subject   Slot
	Predicate Slot
	Object    Slot
}

// NewPattern builds a triple pattern from three slots.
func NewPattern(s, p, o Slot) Pattern {
	return Pattern{Subject: s, Predicate: p, Object: o}
}

// Matches reports whether a concrete triple satisfies this pattern, i.e.
// every constant slot is equal to the triple's corresponding term. Variable
// slots match anything.
func (p Pattern) Matches(t *Triple) bool {
	if !p.Subject.IsVariable() && !p.Subject.Term.Equal(t.Subject) {
		return false
	}
	if !p.Predicate.IsVariable() && !p.Predicate.Term.Equal(t.Predicate) {
		return false
	}
	if !p.Object.IsVariable() && !p.Object.Term.Equal(t.Object) {
		return false
	}
	return true
}

// Variables returns the distinct variable names referenced by the pattern,
// in subject/predicate/object order.
func (p Pattern) Variables() []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range []Slot{p.Subject, p.Predicate, p.Object} {
		if s.IsVariable() && !seen[s.Variable.Name] {
			seen[s.Variable.Name] = true
			out = append(out, s.Variable.Name)
		}
	}
	return out
}

// Binding is a single row of variable bindings produced by a query
// execution: a map from SPARQL variable name to the Term it is bound to.
// A variable absent from the map is unbound (SPARQL "optional" semantics).
type Binding map[string]Term
