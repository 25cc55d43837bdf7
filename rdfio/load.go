package rdfio

import (
	"context"

	rc "github.com/okulmus/rdf2cypher"
	"github.com/okulmus/rdf2cypher/store"
)

// Load opens one write-buffer transaction on s, buffers every triple through
// it, and commits, per §4.11: the 1,000-row chunking is the transaction's
// own batching, not something this loader needs to reimplement.
func Load(ctx context.Context, s *store.Store, triples []*rc.Triple) error {
	t, err := s.Begin()
	if err != nil {
		return err
	}
	defer s.EndTransaction(t)

	for _, triple := range triples {
		if err := rc.ValidatePredicate(triple.Predicate.RawValue()); err != nil {
			t.Abort()
			return err
		}

		subjectKey, err := rc.EncodeNodeKey(triple.Subject)
		if err != nil {
			t.Abort()
			return err
		}
		predIRI := triple.Predicate.RawValue()

		switch {
		case predIRI == rc.RDFType:
			t.AddType(subjectKey, triple.Object.RawValue())

		case isLiteral(triple.Object):
			lit := triple.Object.(*rc.Literal)
			encoded, err := rc.EncodeLiteral(lit)
			if err != nil {
				t.Abort()
				return err
			}
			t.AddProperty(subjectKey, predIRI, encoded.Value, encoded.Datatype, encoded.Language)

		default:
			objectKey, err := rc.EncodeNodeKey(triple.Object)
			if err != nil {
				t.Abort()
				return err
			}
			t.AddEdge(subjectKey, predIRI, objectKey)
		}
	}

	_, err = t.Commit(ctx)
	return err
}

func isLiteral(term rc.Term) bool {
	_, ok := term.(*rc.Literal)
	return ok
}
