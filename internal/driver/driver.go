// Package driver defines the minimal capability the adapter core requires
// from a backing property-graph database (§4.3): parameterized Cypher
// execution returning typed rows. A concrete driver is just one
// implementation of this port; internal/memdriver and internal/falkordriver
// both satisfy it.
package driver

import "context"

// Driver executes parameterized Cypher against a single backend graph.
// Implementations MUST be safe for concurrent reads; the core serializes
// writes itself (txn.Transaction) so a Driver need not provide its own
// write locking.
type Driver interface {
	// Execute runs query against the backend with the given named
	// parameters and returns a streaming result.
	Execute(ctx context.Context, query string, parameters map[string]any) (Rows, error)

	// Ping checks connectivity; a no-op for in-memory drivers.
	Ping(ctx context.Context) error

	// Close releases any underlying connection. Idempotent.
	Close() error
}

// Rows is a lazy iterator over the result of one Execute call. Callers MUST
// call Close on every exit path (normal exhaustion, error, or early
// abandonment via context cancellation).
type Rows interface {
	// Next advances to the next row, returning false when exhausted or on
	// error (check Err after Next returns false).
	Next() bool

	// Row returns the current row. Valid only after a Next call returned
	// true.
	Row() Row

	// Err returns the first error encountered during iteration, if any.
	Err() error

	// Close frees the underlying result set. Safe to call more than once.
	Close() error
}

// Row is one result row, addressable by the column name the Cypher RETURN
// clause assigned it.
type Row interface {
	// Get returns the value bound to the named column, and whether that
	// column was present on this row.
	Get(column string) (Value, bool)

	// Columns returns the column names present on this row, in RETURN
	// clause order.
	Columns() []string
}

// Value is the tagged union of values a Cypher row cell can hold: a node
// (with its labels and properties), an edge (with its relationship type and
// properties), or a scalar (number, string, bool, or nil).
type Value struct {
	Node   *NodeValue
	Edge   *EdgeValue
	Scalar *ScalarValue
}

// NodeValue mirrors a matched graph node's labels and properties.
type NodeValue struct {
	Labels     []string
	Properties map[string]any
}

// EdgeValue mirrors a matched graph relationship's type and properties.
type EdgeValue struct {
	Type       string
	Properties map[string]any
}

// ScalarValue wraps a bare scalar cell: int64, float64, string, bool, or a
// nil interface value for Cypher NULL.
type ScalarValue struct {
	Value any
}

// IsNull reports whether the value is a NULL scalar (the shape an
// OPTIONAL-unmatched column takes, §4.7.1).
func (v Value) IsNull() bool {
	return v.Node == nil && v.Edge == nil && (v.Scalar == nil || v.Scalar.Value == nil)
}

// NodeVal wraps a node as a Value.
func NodeVal(labels []string, properties map[string]any) Value {
	return Value{Node: &NodeValue{Labels: labels, Properties: properties}}
}

// EdgeVal wraps an edge as a Value.
func EdgeVal(typ string, properties map[string]any) Value {
	return Value{Edge: &EdgeValue{Type: typ, Properties: properties}}
}

// ScalarVal wraps a scalar as a Value.
func ScalarVal(v any) Value {
	return Value{Scalar: &ScalarValue{Value: v}}
}

// Null returns the NULL scalar value.
func Null() Value {
	return ScalarVal(nil)
}
