// Package memdriver is an in-process recording driver.Driver. It never
// talks to a network: every Execute call is recorded (query text plus
// parameters) and answered by a caller-supplied Responder function. It exists so compiler conformance properties (spec §8.2)
// and executor wiring can be exercised without a live backend, per the
// corpus's own "Driver abstraction" design note. It does not simulate
// graph semantics: a query returns only the rows its Responder supplies.
package memdriver

import (
	"context"
	"sync"

	"github.com/okulmus/rdf2cypher/internal/driver"
)

// Call records one Execute invocation.
type Call struct {
	Query      string
	Parameters map[string]any
}

// Driver is the in-memory test double: New with a canned Responder lets a
// test assert on the exact query/parameter shape the rest of the adapter
// generated, and answer with fixture rows, without a live backend.
type Driver struct {
	mu        sync.Mutex
	calls     []Call
	responder Responder
	closed    bool
}

// Responder answers an Execute call with a fixed set of rows, or an error.
type Responder func(query string, parameters map[string]any) ([]driver.Row, error)

// New returns a Driver that answers every Execute call via responder.
func New(responder Responder) *Driver {
	return &Driver{responder: responder}
}

// Calls returns every Execute call recorded so far, in order.
func (d *Driver) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Call, len(d.calls))
	copy(out, d.calls)
	return out
}

// Reset clears the recorded call log without touching the responder.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
}

// Execute implements driver.Driver.
func (d *Driver) Execute(ctx context.Context, query string, parameters map[string]any) (driver.Rows, error) {
	d.mu.Lock()
	d.calls = append(d.calls, Call{Query: query, Parameters: parameters})
	responder := d.responder
	d.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if responder == nil {
		return &rows{}, nil
	}
	rs, err := responder(query, parameters)
	if err != nil {
		return nil, err
	}
	return &rows{data: rs, idx: -1}, nil
}

// Ping implements driver.Driver.
func (d *Driver) Ping(ctx context.Context) error {
	return nil
}

// Close implements driver.Driver.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Closed reports whether Close has been called, for test assertions.
func (d *Driver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

type rows struct {
	data   []driver.Row
	idx    int
	closed bool
}

func (r *rows) Next() bool {
	if r.idx+1 >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *rows) Row() driver.Row {
	return r.data[r.idx]
}

func (r *rows) Err() error {
	return nil
}

func (r *rows) Close() error {
	r.closed = true
	return nil
}

// MapRow is a driver.Row backed by a plain map, for test fixtures.
type MapRow struct {
	Values  map[string]driver.Value
	Ordered []string
}

// NewMapRow builds a MapRow from column/value pairs, preserving order.
func NewMapRow(cols []string, values map[string]driver.Value) MapRow {
	return MapRow{Values: values, Ordered: cols}
}

func (r MapRow) Get(column string) (driver.Value, bool) {
	v, ok := r.Values[column]
	return v, ok
}

func (r MapRow) Columns() []string {
	return r.Ordered
}
