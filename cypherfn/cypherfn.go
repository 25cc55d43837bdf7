// Package cypherfn implements C9, the Direct-Cypher Escape Hatch: a
// predicate-function binding of the form `(?v1 ?v2 ... ?vn) :cypher "<raw
// cypher text>"` that runs user-supplied Cypher verbatim and binds its
// result columns positionally to caller-chosen SPARQL variables (§4.9).
package cypherfn

import (
	"context"

	"github.com/pkg/errors"

	rc "github.com/okulmus/rdf2cypher"
	"github.com/okulmus/rdf2cypher/internal/driver"
	"github.com/okulmus/rdf2cypher/observability"
)

// Func executes raw Cypher against drv and binds columns positionally.
type Func struct {
	drv  driver.Driver
	sink observability.Sink
}

// New returns a Func executing raw Cypher against drv. sink may be nil, in
// which case spans are discarded.
func New(drv driver.Driver, sink observability.Sink) *Func {
	if sink == nil {
		sink = observability.NullSink{}
	}
	return &Func{drv: drv, sink: sink}
}

// Call runs cypher verbatim with the given parameters and binds the first
// len(vars) columns of each returned row to vars, positionally — Cypher
// column aliases need not match vars's names. No fallback is attempted on
// error; the raw text is the caller's responsibility and is not escaped or
// validated in any way (§4.9 security note).
func (f *Func) Call(ctx context.Context, cypher string, parameters map[string]any, vars []string) ([]rc.Binding, error) {
	ctx, span := f.sink.StartSpan(ctx, observability.SpanDirectCypher,
		observability.String(observability.AttrCypher, observability.TruncateCypher(cypher)))
	defer span.End()

	rows, err := f.drv.Execute(ctx, cypher, parameters)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []rc.Binding
	for rows.Next() {
		if cerr := ctx.Err(); cerr != nil {
			return nil, errors.WithStack(rc.ErrCancelled)
		}

		binding, err := bindPositional(rows.Row(), vars)
		if err != nil {
			return nil, err
		}
		out = append(out, binding)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(observability.Int(observability.AttrRowCount, len(out)))
	return out, nil
}

// bindPositional binds the first len(vars) columns of row to vars by
// position. A column's Cypher alias is irrelevant; row.Columns() gives the
// RETURN clause's left-to-right order.
func bindPositional(row driver.Row, vars []string) (rc.Binding, error) {
	cols := row.Columns()
	if len(cols) < len(vars) {
		return nil, errors.Errorf("cypher row has %d columns, need at least %d to bind %v", len(cols), len(vars), vars)
	}

	binding := make(rc.Binding, len(vars))
	for i, name := range vars {
		v, ok := row.Get(cols[i])
		if !ok || v.IsNull() {
			continue
		}
		term, err := decodeAny(v)
		if err != nil {
			return nil, err
		}
		binding[name] = term
	}
	return binding, nil
}

// decodeAny reconstructs a Term from a driver.Value whose shape is not
// known ahead of time, the way every other decode path in the adapter is:
// a node's uri property, an edge's relationship type, or a scalar literal.
func decodeAny(v driver.Value) (rc.Term, error) {
	switch {
	case v.Node != nil:
		return rc.Decode(v, rc.ShapeNodeURI)
	case v.Edge != nil:
		return rc.Decode(v, rc.ShapeEdgeType)
	default:
		return rc.Decode(v, rc.ShapeScalar)
	}
}
