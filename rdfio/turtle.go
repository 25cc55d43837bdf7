// Package rdfio bulk-loads RDF documents (Turtle, JSON-LD) into triples
// ready to be fed through a transaction (C11, SPEC_FULL.md §4.11). It
// generalizes the teacher's Parse-into-a-Graph path (deiu-rdf2go's
// graph.go) into Parse-into-a-slice, since the destination is now a
// property-graph-backed store rather than an in-memory triple set.
package rdfio

import (
	"io"

	rdf "github.com/deiu/gon3"

	rc "github.com/okulmus/rdf2cypher"
)

// ParseTurtle parses a Turtle document into triples, relative to base.
func ParseTurtle(r io.Reader, base string) ([]*rc.Triple, error) {
	parser, err := rdf.NewParser(base).Parse(r)
	if err != nil {
		return nil, err
	}

	var triples []*rc.Triple
	for st := range parser.IterTriples() {
		triples = append(triples, rc.NewTriple(
			gon3ToTerm(st.Subject),
			gon3ToTerm(st.Predicate),
			gon3ToTerm(st.Object),
		))
	}
	return triples, nil
}

func gon3ToTerm(term rdf.Term) rc.Term {
	switch t := term.(type) {
	case *rdf.BlankNode:
		return rc.NewBlankNode(t.RawValue())
	case *rdf.Literal:
		if len(t.LanguageTag) > 0 {
			return rc.NewLiteralWithLanguage(t.LexicalForm, t.LanguageTag)
		}
		if t.DatatypeIRI != nil && len(t.DatatypeIRI.String()) > 0 {
			return rc.NewLiteralWithDatatype(t.LexicalForm, rc.NewIRI(debrack(t.DatatypeIRI.String())))
		}
		return rc.NewLiteral(t.RawValue())
	case *rdf.IRI:
		return rc.NewIRI(t.RawValue())
	}
	return nil
}

func debrack(s string) string {
	if len(s) < 2 || s[0] != '<' || s[len(s)-1] != '>' {
		return s
	}
	return s[1 : len(s)-1]
}
