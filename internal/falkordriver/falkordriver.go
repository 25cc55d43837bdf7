// Package falkordriver implements the driver.Driver port against a real
// FalkorDB (or any RESP GRAPH.QUERY-compatible) backend over
// github.com/redis/go-redis/v9, grounded on the reference FalkorDB Go
// client's Query/execute split (other_examples' flancast90-falkordb-go and
// jemygraw-langgraphgo FalkorDB store): build the GRAPH.QUERY args,
// round-trip through the Redis client, then parse FalkorDB's typed
// result-set wire format into driver.Value rows.
package falkordriver

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/okulmus/rdf2cypher/internal/driver"
)

// resultValueType mirrors FalkorDB's wire-format type tags for a result-set
// cell (the second array element in FalkorDB's compact reply encoding).
type resultValueType int64

const (
	valueUnknown resultValueType = iota
	valueNull
	valueString
	valueInt64
	valueBoolean
	valueDouble
	valueArray
	valueEdge
	valueNode
	valuePath
	valueMap
	valuePoint
)

// Driver talks to one FalkorDB graph over a shared *redis.Client.
type Driver struct {
	client    *redis.Client
	graphName string
	readOnly  bool
}

// Option configures a Driver.
type Option func(*Driver)

// WithReadOnly makes every Execute call use GRAPH.RO_QUERY instead of
// GRAPH.QUERY, enabling backend-side query caching and replica reads for
// callers that know they never write (the C6/C7 compiled read path).
func WithReadOnly() Option {
	return func(d *Driver) { d.readOnly = true }
}

// New returns a Driver bound to graphName over client.
func New(client *redis.Client, graphName string, opts ...Option) *Driver {
	d := &Driver{client: client, graphName: graphName}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Execute implements driver.Driver.
func (d *Driver) Execute(ctx context.Context, query string, parameters map[string]any) (driver.Rows, error) {
	cmd := "GRAPH.QUERY"
	if d.readOnly {
		cmd = "GRAPH.RO_QUERY"
	}

	args := buildQueryArgs(cmd, d.graphName, query, parameters)
	reply, err := d.client.Do(ctx, args...).Result()
	if err != nil {
		return nil, fmt.Errorf("falkordriver: %s %s: %w", cmd, d.graphName, err)
	}

	return parseResultSet(reply)
}

// Ping implements driver.Driver.
func (d *Driver) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}

// Close implements driver.Driver.
func (d *Driver) Close() error {
	return d.client.Close()
}

// buildQueryArgs assembles the GRAPH.QUERY command line: command, graph
// name, Cypher text, and a `--compact` result-format flag plus a trailing
// params preamble the FalkorDB wire protocol expects as
// `CYPHER k1=>v1 k2=>v2 <query>` when parameters are present.
func buildQueryArgs(cmd, graphName, query string, parameters map[string]any) []any {
	args := []any{cmd, graphName}
	if len(parameters) > 0 {
		args = append(args, parameterizedQuery(query, parameters))
	} else {
		args = append(args, query)
	}
	args = append(args, "--compact")
	return args
}

func parameterizedQuery(query string, parameters map[string]any) string {
	preamble := "CYPHER "
	for k, v := range parameters {
		preamble += fmt.Sprintf("%s=>%s ", k, formatParam(v))
	}
	return preamble + query
}

// formatParam renders a Go value into its Cypher literal form for inline
// substitution into the `CYPHER key=>value ...` preamble. txn's bulk flush
// operations always send the UNWIND batch as a []map[string]any under the
// "rows" key, so map and slice values must render as Cypher map/list
// literals, not Go's default %v form.
func formatParam(v any) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case map[string]any:
		return formatMapParam(val)
	case []map[string]any:
		parts := make([]string, len(val))
		for i, m := range val {
			parts[i] = formatMapParam(m)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = formatParam(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatMapParam renders a Cypher map literal with keys in sorted order, so
// each rendered map literal is deterministic across runs. The top-level
// parameters in the preamble are emitted in map iteration order.
func formatMapParam(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + formatParam(m[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// parseResultSet parses FalkorDB's --compact reply: a 3-element array of
// [header, data, statistics].
func parseResultSet(reply any) (driver.Rows, error) {
	top, ok := reply.([]any)
	if !ok || len(top) < 2 {
		return &staticRows{}, nil
	}

	header, _ := top[0].([]any)
	data, _ := top[1].([]any)

	columns := make([]string, 0, len(header))
	for _, h := range header {
		columns = append(columns, headerColumnName(h))
	}

	rows := make([]driver.Row, 0, len(data))
	for _, rawRow := range data {
		cells, ok := rawRow.([]any)
		if !ok {
			continue
		}
		values := make(map[string]driver.Value, len(cells))
		for i, cell := range cells {
			if i >= len(columns) {
				break
			}
			v, err := parseValue(cell)
			if err != nil {
				return nil, err
			}
			values[columns[i]] = v
		}
		rows = append(rows, staticRow{columns: columns, values: values})
	}

	return &staticRows{rows: rows, idx: -1}, nil
}

// headerColumnName extracts the projected alias from a header entry, which
// FalkorDB encodes as a two-element [type, name] pair.
func headerColumnName(h any) string {
	pair, ok := h.([]any)
	if !ok || len(pair) < 2 {
		if s, ok := h.(string); ok {
			return s
		}
		return ""
	}
	name, _ := pair[1].(string)
	return name
}

func parseValue(raw any) (driver.Value, error) {
	pair, ok := raw.([]any)
	if !ok || len(pair) < 2 {
		return driver.Null(), nil
	}

	typ, _ := toInt64(pair[0])
	payload := pair[1]

	switch resultValueType(typ) {
	case valueNull, valueUnknown:
		return driver.Null(), nil
	case valueString:
		s, _ := payload.(string)
		return driver.ScalarVal(s), nil
	case valueInt64:
		i, _ := toInt64(payload)
		return driver.ScalarVal(i), nil
	case valueBoolean:
		s, _ := payload.(string)
		return driver.ScalarVal(s == "true"), nil
	case valueDouble:
		f, _ := toFloat64(payload)
		return driver.ScalarVal(f), nil
	case valueNode:
		return parseNode(payload)
	case valueEdge:
		return parseEdge(payload)
	default:
		return driver.Null(), nil
	}
}

// parseNode decodes FalkorDB's compact node encoding: [id, labels[], props[]].
func parseNode(payload any) (driver.Value, error) {
	fields, ok := payload.([]any)
	if !ok || len(fields) < 3 {
		return driver.Value{}, fmt.Errorf("falkordriver: malformed node payload")
	}

	rawLabels, _ := fields[1].([]any)
	labels := make([]string, 0, len(rawLabels))
	for _, l := range rawLabels {
		if s, ok := l.(string); ok {
			labels = append(labels, s)
		}
	}

	props, err := parseProperties(fields[2])
	if err != nil {
		return driver.Value{}, err
	}

	return driver.NodeVal(labels, props), nil
}

// parseEdge decodes FalkorDB's compact edge encoding:
// [id, relationTypeName, srcId, destId, props[]].
func parseEdge(payload any) (driver.Value, error) {
	fields, ok := payload.([]any)
	if !ok || len(fields) < 5 {
		return driver.Value{}, fmt.Errorf("falkordriver: malformed edge payload")
	}

	relType, _ := fields[1].(string)

	props, err := parseProperties(fields[4])
	if err != nil {
		return driver.Value{}, err
	}

	return driver.EdgeVal(relType, props), nil
}

func parseProperties(raw any) (map[string]any, error) {
	entries, ok := raw.([]any)
	if !ok {
		return map[string]any{}, nil
	}

	props := make(map[string]any, len(entries))
	for _, e := range entries {
		triple, ok := e.([]any)
		if !ok || len(triple) < 3 {
			continue
		}
		key, _ := triple[0].(string)
		val, err := parseValue([]any{triple[1], triple[2]})
		if err != nil {
			return nil, err
		}
		if val.Scalar != nil {
			props[key] = val.Scalar.Value
		}
	}
	return props, nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case string:
		var i int64
		_, err := fmt.Sscanf(n, "%d", &i)
		return i, err == nil
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		var f float64
		_, err := fmt.Sscanf(n, "%g", &f)
		return f, err == nil
	}
	return 0, false
}

type staticRows struct {
	rows []driver.Row
	idx  int
}

func (r *staticRows) Next() bool {
	if r.idx+1 >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *staticRows) Row() driver.Row {
	return r.rows[r.idx]
}

func (r *staticRows) Err() error {
	return nil
}

func (r *staticRows) Close() error {
	return nil
}

type staticRow struct {
	columns []string
	values  map[string]driver.Value
}

func (r staticRow) Get(column string) (driver.Value, bool) {
	v, ok := r.values[column]
	return v, ok
}

func (r staticRow) Columns() []string {
	return r.columns
}
