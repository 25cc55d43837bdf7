// Package store implements C4, the Triple Store: add/delete/clear/size
// over a property-graph backend, plus Begin() for the C5 write-buffer
// transaction (§4.4). It has no find (pattern lookup) operation.
package store

import (
	"context"

	"github.com/pkg/errors"

	rc "github.com/okulmus/rdf2cypher"
	"github.com/okulmus/rdf2cypher/internal/driver"
	"github.com/okulmus/rdf2cypher/observability"
	"github.com/okulmus/rdf2cypher/txn"
)

// Store is a triple-addressable view over one property graph.
type Store struct {
	drv  driver.Driver
	sink observability.Sink

	open *txn.Transaction

	sizeCached bool
	sizeValue  int64
}

// New returns a Store backed by drv. sink may be nil, in which case spans
// are discarded.
func New(drv driver.Driver, sink observability.Sink) *Store {
	if sink == nil {
		sink = observability.NullSink{}
	}
	return &Store{drv: drv, sink: sink}
}

// Begin opens a write-buffer transaction. Only one may be open at a time;
// a second Begin while one is open fails with ErrNestedTransaction.
func (s *Store) Begin() (*txn.Transaction, error) {
	if s.open != nil {
		return nil, nestedTxnErr()
	}
	t := txn.New(s.drv, s.sink)
	s.open = t
	return t, nil
}

// EndTransaction clears the store's record of the currently-open
// transaction once the caller has committed or aborted it. Calling Commit
// or Abort on the Transaction itself does not by itself notify the Store;
// callers that obtained t from Begin MUST call EndTransaction afterward so
// a subsequent Begin is not rejected as nested.
func (s *Store) EndTransaction(t *txn.Transaction) {
	if s.open == t {
		s.open = nil
		s.invalidateSize()
	}
}

// Add implements add(t) (§4.4 direct-path algorithm). Outside of an open
// transaction this executes immediately; inside one, prefer buffering
// through the Transaction returned by Begin.
func (s *Store) Add(ctx context.Context, t *rc.Triple) error {
	ctx, span := s.sink.StartSpan(ctx, observability.SpanTripleStoreAdd)
	defer span.End()

	if err := rc.ValidatePredicate(t.Predicate.RawValue()); err != nil {
		return err
	}

	subjectKey, err := rc.EncodeNodeKey(t.Subject)
	if err != nil {
		return err
	}

	predIRI := t.Predicate.RawValue()
	var query string

	if predIRI == rc.RDFType {
		if _, ok := t.Object.(*rc.IRI); !ok {
			return invariantErr("rdf:type object must be an IRI")
		}
		typeIRI := t.Object.RawValue()
		if err := rc.ValidateTypeIRI(typeIRI); err != nil {
			return err
		}
		query = "MERGE (s:" + rc.QuoteIdentifier(rc.ResourceLabel) + " {uri: $s}) SET s:" + rc.QuoteIdentifier(typeIRI)
		err = s.exec(ctx, query, map[string]any{"s": subjectKey})
	} else if lit, ok := t.Object.(*rc.Literal); ok {
		encoded, encErr := rc.EncodeLiteral(lit)
		if encErr != nil {
			return encErr
		}
		query = "MERGE (s:" + rc.QuoteIdentifier(rc.ResourceLabel) + " {uri: $s}) SET s." +
			rc.QuoteIdentifier(predIRI) + " = $v, s." +
			rc.QuoteIdentifier(predIRI+rc.DatatypeSuffix) + " = $dt, s." +
			rc.QuoteIdentifier(predIRI+rc.LanguageSuffix) + " = $lang"
		err = s.exec(ctx, query, map[string]any{
			"s": subjectKey, "v": encoded.Value, "dt": emptyToNil(encoded.Datatype), "lang": emptyToNil(encoded.Language),
		})
	} else {
		objectKey, keyErr := rc.EncodeNodeKey(t.Object)
		if keyErr != nil {
			return keyErr
		}
		query = "MERGE (s:" + rc.QuoteIdentifier(rc.ResourceLabel) + " {uri: $s}) " +
			"MERGE (o:" + rc.QuoteIdentifier(rc.ResourceLabel) + " {uri: $o}) " +
			"MERGE (s)-[:" + rc.QuoteIdentifier(predIRI) + "]->(o)"
		err = s.exec(ctx, query, map[string]any{"s": subjectKey, "o": objectKey})
	}

	if err != nil {
		logFailure("add", predIRI, query, err)
		return err
	}
	s.invalidateSize()
	return nil
}

// Delete implements delete(t): the mirror of Add, using MATCH + REMOVE /
// DELETE. Deleting a property or edge that is not present succeeds as a
// no-op (set semantics).
func (s *Store) Delete(ctx context.Context, t *rc.Triple) error {
	ctx, span := s.sink.StartSpan(ctx, observability.SpanTripleStoreDelete)
	defer span.End()

	if err := rc.ValidatePredicate(t.Predicate.RawValue()); err != nil {
		return err
	}

	subjectKey, err := rc.EncodeNodeKey(t.Subject)
	if err != nil {
		return err
	}
	predIRI := t.Predicate.RawValue()
	var query string

	if predIRI == rc.RDFType {
		typeIRI := t.Object.RawValue()
		if err := rc.ValidateTypeIRI(typeIRI); err != nil {
			return err
		}
		query = "MATCH (s:" + rc.QuoteIdentifier(rc.ResourceLabel) + " {uri: $s}) REMOVE s:" + rc.QuoteIdentifier(typeIRI)
		err = s.exec(ctx, query, map[string]any{"s": subjectKey})
	} else if _, ok := t.Object.(*rc.Literal); ok {
		query = "MATCH (s:" + rc.QuoteIdentifier(rc.ResourceLabel) + " {uri: $s}) REMOVE s." +
			rc.QuoteIdentifier(predIRI) + ", s." + rc.QuoteIdentifier(predIRI+rc.DatatypeSuffix) + ", s." + rc.QuoteIdentifier(predIRI+rc.LanguageSuffix)
		err = s.exec(ctx, query, map[string]any{"s": subjectKey})
	} else {
		objectKey, keyErr := rc.EncodeNodeKey(t.Object)
		if keyErr != nil {
			return keyErr
		}
		query = "MATCH (s:" + rc.QuoteIdentifier(rc.ResourceLabel) + " {uri: $s})-[r:" + rc.QuoteIdentifier(predIRI) + "]->(o:" + rc.QuoteIdentifier(rc.ResourceLabel) + " {uri: $o}) DELETE r"
		err = s.exec(ctx, query, map[string]any{"s": subjectKey, "o": objectKey})
	}

	if err != nil {
		logFailure("delete", predIRI, query, err)
		return err
	}
	s.invalidateSize()
	return nil
}

// Clear deletes every Resource node and its relationships.
func (s *Store) Clear(ctx context.Context) error {
	ctx, span := s.sink.StartSpan(ctx, observability.SpanTripleStoreDelete, observability.String(observability.AttrOperatorKind, "clear"))
	defer span.End()
	err := s.exec(ctx, "MATCH (n:"+rc.QuoteIdentifier(rc.ResourceLabel)+") DETACH DELETE n", nil)
	if err == nil {
		s.sizeCached = true
		s.sizeValue = 0
	}
	return err
}

// Size implements size(): the number of RDF triples, computed as labels
// (excluding Resource) + properties (excluding uri/side-channels) +
// outgoing edges, summed across every Resource node. Cached until the next
// mutation; a query executed while a transaction is open always recomputes
// directly against the backend, ignoring the unflushed buffer (§9 Open
// Question resolution: size() under an open transaction is backend-only).
func (s *Store) Size(ctx context.Context) (int64, error) {
	if s.sizeCached && s.open == nil {
		return s.sizeValue, nil
	}

	query := `
MATCH (n:` + rc.QuoteIdentifier(rc.ResourceLabel) + `)
WITH n,
     size([l IN labels(n) WHERE l <> '` + rc.ResourceLabel + `']) AS typeCount,
     size([k IN keys(n) WHERE k <> 'uri' AND NOT k ENDS WITH '` + rc.DatatypeSuffix + `' AND NOT k ENDS WITH '` + rc.LanguageSuffix + `']) AS propCount
OPTIONAL MATCH (n)-[r]->()
WITH n, typeCount, propCount, count(r) AS edgeCount
RETURN sum(typeCount + propCount + edgeCount) AS total`

	rows, err := s.drv.Execute(ctx, query, nil)
	if err != nil {
		return 0, newBackendWrap(err)
	}
	defer rows.Close()

	var total int64
	if rows.Next() {
		row := rows.Row()
		if v, ok := row.Get("total"); ok && !v.IsNull() {
			total = toInt64(v.Scalar.Value)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, newBackendWrap(err)
	}

	if s.open == nil {
		s.sizeCached = true
		s.sizeValue = total
	}
	return total, nil
}

func (s *Store) invalidateSize() {
	s.sizeCached = false
}

func (s *Store) exec(ctx context.Context, query string, params map[string]any) error {
	rows, err := s.drv.Execute(ctx, query, params)
	if err != nil {
		return newBackendWrap(err)
	}
	defer rows.Close()
	for rows.Next() {
	}
	return rows.Err()
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nestedTxnErr() error {
	return errors.WithStack(rc.ErrNestedTransaction)
}

func invariantErr(reason string) error {
	return errors.Wrap(rc.ErrInvariantViolation, reason)
}

func newBackendWrap(err error) error {
	return errors.Wrap(rc.ErrBackend, err.Error())
}
