// Package executor implements C8, the Executor Bridge: it walks an algebra
// tree handed down by the host SPARQL engine, compiles each operator via
// the C6/C7 compiler, executes a successful compilation's Cypher against
// the C3 driver, and decodes the returned rows back into host-facing
// variable bindings. A sub-tree the compiler reports Unsupported for is
// delegated to a host-supplied evaluator instead (§4.7.5, §4.8).
package executor

import (
	"context"

	"github.com/pkg/errors"

	rc "github.com/okulmus/rdf2cypher"
	"github.com/okulmus/rdf2cypher/algebra"
	"github.com/okulmus/rdf2cypher/compiler"
	"github.com/okulmus/rdf2cypher/internal/driver"
	"github.com/okulmus/rdf2cypher/observability"
)

// BindingIterator is a lazy, backpressured iterator over variable-binding
// rows. Callers MUST call Close on every exit path (normal exhaustion,
// error, or early abandonment), per §4.8's streaming requirement.
type BindingIterator interface {
	// Next advances to the next binding row, returning false when
	// exhausted, cancelled, or on error (check Err after Next returns
	// false).
	Next() bool
	// Binding returns the current row. Valid only after a Next call
	// returned true. A variable the current row left unbound is simply
	// absent from the map (§4.8 "NULL columns produce unbound variables").
	Binding() rc.Binding
	// Err returns the first error encountered during iteration, if any.
	Err() error
	// Close frees the underlying driver result set. Safe to call more
	// than once.
	Close() error
}

// HostEvaluator is the fallback evaluator the embedding SPARQL engine
// supplies: it runs an algebra sub-tree the compiler could not push down,
// per §4.7.5's fallback contract.
type HostEvaluator interface {
	Evaluate(ctx context.Context, op algebra.Operator, required []string) (BindingIterator, error)
}

// Bridge is C8: it owns no state of its own beyond its collaborators and
// may be shared across concurrently-evaluating readers.
type Bridge struct {
	drv  driver.Driver
	sink observability.Sink
	host HostEvaluator
}

// New returns a Bridge executing compiled Cypher against drv, falling back
// to host for sub-trees the compiler reports Unsupported. host may be nil,
// in which case an Unsupported sub-tree surfaces as an error instead of
// being silently dropped. sink may be nil, in which case spans are
// discarded.
func New(drv driver.Driver, sink observability.Sink, host HostEvaluator) *Bridge {
	if sink == nil {
		sink = observability.NullSink{}
	}
	return &Bridge{drv: drv, sink: sink, host: host}
}

// Evaluate implements C8's post-order walk for one algebra sub-tree: it
// compiles op (which recurses into children per compiler.Compile), and on
// success executes the resulting Cypher; on Unsupported it delegates the
// whole sub-tree to host. required names the variables the caller ultimately
// needs bound.
func (b *Bridge) Evaluate(ctx context.Context, op algebra.Operator, required []string) (BindingIterator, error) {
	ctx, span := b.sink.StartSpan(ctx, observability.SpanCompile,
		observability.String(observability.AttrOperatorKind, operatorKindName(op)))
	defer span.End()

	result, err := compiler.Compile(op, required)
	if err != nil {
		if rc.Is(err, rc.ErrUnsupported) {
			span.SetAttributes(
				observability.Bool(observability.AttrFellBack, true),
				observability.String(observability.AttrReasonCode, err.Error()),
			)
			if b.host == nil {
				return nil, err
			}
			return b.host.Evaluate(ctx, op, required)
		}
		return nil, err
	}

	span.SetAttributes(observability.String(observability.AttrCypher, observability.TruncateCypher(result.Cypher)))

	if cerr := ctx.Err(); cerr != nil {
		return nil, errors.WithStack(rc.ErrCancelled)
	}

	rows, err := b.drv.Execute(ctx, result.Cypher, result.Parameters)
	if err != nil {
		return nil, err
	}

	return &cypherIterator{ctx: ctx, rows: rows, vars: result.Variables}, nil
}

func operatorKindName(op algebra.Operator) string {
	switch op.(type) {
	case algebra.BGP:
		return "BGP"
	case algebra.Optional:
		return "OPTIONAL"
	case algebra.Union:
		return "UNION"
	case algebra.Filter:
		return "FILTER"
	case algebra.Group:
		return "GROUP"
	case algebra.Project:
		return "PROJECT"
	default:
		return "UNKNOWN"
	}
}

// cypherIterator adapts a driver.Rows stream into a BindingIterator,
// decoding each row's columns back into RDF terms per the VariableMapping
// the compiler produced.
type cypherIterator struct {
	ctx  context.Context
	rows driver.Rows
	vars compiler.VariableMapping

	current rc.Binding
	err     error
	done    bool
}

func (it *cypherIterator) Next() bool {
	if it.done {
		return false
	}
	if cerr := it.ctx.Err(); cerr != nil {
		it.err = errors.WithStack(rc.ErrCancelled)
		it.done = true
		return false
	}
	if !it.rows.Next() {
		it.done = true
		if rowsErr := it.rows.Err(); rowsErr != nil {
			it.err = rowsErr
		}
		return false
	}

	binding, err := decodeRow(it.rows.Row(), it.vars)
	if err != nil {
		it.err = err
		it.done = true
		return false
	}
	it.current = binding
	return true
}

func (it *cypherIterator) Binding() rc.Binding {
	return it.current
}

func (it *cypherIterator) Err() error {
	return it.err
}

func (it *cypherIterator) Close() error {
	return it.rows.Close()
}

// decodeRow converts one Cypher result row into a variable-binding row,
// per §4.1's Shape-driven decode and §3.3's literal side-channel strategy.
// A variable whose VarKind is VarDynamic is disambiguated per-row by its
// sibling shape column (§4.6.2/§4.6.3); a NULL value (the shape an
// OPTIONAL-unmatched column takes) leaves the variable unbound rather than
// erroring (§4.7.1, §4.8).
func decodeRow(row driver.Row, vars compiler.VariableMapping) (rc.Binding, error) {
	binding := make(rc.Binding, vars.Len())

	for _, name := range vars.Vars() {
		col, kind, ok := vars.Get(name)
		if !ok {
			continue
		}

		switch kind {
		case compiler.VarResource:
			term, bound, err := decodeNodeColumn(row, col)
			if err != nil {
				return nil, err
			}
			if bound {
				binding[name] = term
			}

		case compiler.VarType, compiler.VarPredicate:
			term, bound, err := decodeIRIColumn(row, col)
			if err != nil {
				return nil, err
			}
			if bound {
				binding[name] = term
			}

		case compiler.VarLiteral:
			dtCol, langCol, hasSideChannel := vars.GetLiteralSideChannels(name)
			term, bound, err := decodeLiteralColumn(row, col, dtCol, langCol, hasSideChannel)
			if err != nil {
				return nil, err
			}
			if bound {
				binding[name] = term
			}

		case compiler.VarDynamic:
			term, bound, err := decodeDynamicColumn(row, col, vars, name)
			if err != nil {
				return nil, err
			}
			if bound {
				binding[name] = term
			}
		}
	}

	return binding, nil
}

func decodeNodeColumn(row driver.Row, col string) (rc.Term, bool, error) {
	v, ok := row.Get(col)
	if !ok || v.IsNull() {
		return nil, false, nil
	}
	term, err := rc.Decode(v, rc.ShapeNodeURI)
	if err != nil {
		return nil, false, err
	}
	return term, true, nil
}

func decodeIRIColumn(row driver.Row, col string) (rc.Term, bool, error) {
	v, ok := row.Get(col)
	if !ok || v.IsNull() {
		return nil, false, nil
	}
	term, err := rc.Decode(v, rc.ShapeEdgeType)
	if err != nil {
		return nil, false, err
	}
	return term, true, nil
}

func decodeLiteralColumn(row driver.Row, col, dtCol, langCol string, hasSideChannel bool) (rc.Term, bool, error) {
	v, ok := row.Get(col)
	if !ok || v.IsNull() {
		return nil, false, nil
	}

	if !hasSideChannel {
		term, err := rc.Decode(v, rc.ShapeScalar)
		if err != nil {
			return nil, false, err
		}
		return term, true, nil
	}

	datatype := stringColumn(row, dtCol)
	language := stringColumn(row, langCol)
	term, err := rc.DecodeLiteral(v.Scalar.Value, datatype, language)
	if err != nil {
		return nil, false, err
	}
	return term, true, nil
}

// decodeDynamicColumn resolves a VarDynamic column by consulting its
// sibling shape column: 'resource' decodes the value column as a node uri,
// 'literal' decodes it as a literal alongside its sibling datatype/language
// columns.
func decodeDynamicColumn(row driver.Row, col string, vars compiler.VariableMapping, name string) (rc.Term, bool, error) {
	v, ok := row.Get(col)
	if !ok || v.IsNull() {
		return nil, false, nil
	}

	shapeCol, dtCol, langCol, ok := vars.GetDynamic(name)
	if !ok {
		return nil, false, errors.New("dynamic variable missing its shape column mapping")
	}
	shape := stringColumn(row, shapeCol)

	switch shape {
	case "resource":
		term, err := rc.Decode(v, rc.ShapeNodeURI)
		if err != nil {
			return nil, false, err
		}
		return term, true, nil
	case "literal":
		datatype := stringColumn(row, dtCol)
		language := stringColumn(row, langCol)
		term, err := rc.DecodeLiteral(v.Scalar.Value, datatype, language)
		if err != nil {
			return nil, false, err
		}
		return term, true, nil
	default:
		return nil, false, errors.Errorf("unrecognized dynamic shape value %q", shape)
	}
}

func stringColumn(row driver.Row, col string) string {
	v, ok := row.Get(col)
	if !ok || v.IsNull() || v.Scalar == nil {
		return ""
	}
	s, _ := v.Scalar.Value.(string)
	return s
}
