package rdfio

import (
	"bytes"
	"io"

	jsonld "github.com/linkeddata/gojsonld"

	rc "github.com/okulmus/rdf2cypher"
)

// ParseJSONLD parses a JSON-LD document into triples.
func ParseJSONLD(r io.Reader) ([]*rc.Triple, error) {
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}

	jsonData, err := jsonld.ReadJSON(buf.Bytes())
	if err != nil {
		return nil, err
	}

	options := &jsonld.Options{}
	options.Base = ""
	options.ProduceGeneralizedRdf = false

	dataSet, err := jsonld.ToRDF(jsonData, options)
	if err != nil {
		return nil, err
	}

	var triples []*rc.Triple
	for t := range dataSet.IterTriples() {
		triples = append(triples, rc.NewTriple(
			jldToTerm(t.Subject),
			jldToTerm(t.Predicate),
			jldToTerm(t.Object),
		))
	}
	return triples, nil
}

func jldToTerm(term jsonld.Term) rc.Term {
	switch t := term.(type) {
	case *jsonld.BlankNode:
		return rc.NewBlankNode(t.RawValue())
	case *jsonld.Literal:
		if len(t.Language) > 0 {
			return rc.NewLiteralWithLanguage(t.RawValue(), t.Language)
		}
		if t.Datatype != nil && len(t.Datatype.String()) > 0 {
			return rc.NewLiteralWithDatatype(t.Value, rc.NewIRI(t.Datatype.RawValue()))
		}
		return rc.NewLiteral(t.Value)
	case *jsonld.Resource:
		return rc.NewIRI(t.RawValue())
	}
	return nil
}
