// Package txn implements C5, the write-buffer transaction: add/delete calls
// made during an open transaction are classified into typed batches and
// flushed as UNWIND-based bulk statements at commit (§4.5).
package txn

import (
	"context"
	"sort"

	rc "github.com/okulmus/rdf2cypher"
	"github.com/okulmus/rdf2cypher/internal/driver"
	"github.com/okulmus/rdf2cypher/observability"
)

// maxBatchRows is the largest number of rows flushed in a single UNWIND
// statement; larger batches are chunked (§4.5).
const maxBatchRows = 1000

// state is the C5 state machine: Idle → Write → Idle via commit or abort.
type state int

const (
	stateIdle state = iota
	stateWrite
)

type typeRow struct {
	Subject string
	Type    string
}

type propertyRow struct {
	Subject  string
	Value    any
	Datatype string
	Language string
}

type edgeRow struct {
	Subject string
	Object  string
}

// Transaction buffers add/delete calls in memory and flushes them as bulk
// Cypher statements on Commit. Not safe for concurrent use; the triple
// store allows only one open transaction at a time but takes no lock
// around it.
type Transaction struct {
	drv  driver.Driver
	sink observability.Sink

	state state

	addTypes      map[string][]typeRow
	addProperties map[string][]propertyRow
	addEdges      map[string][]edgeRow
	delTypes      map[string][]typeRow
	delProperties map[string][]propertyRow
	delEdges      map[string][]edgeRow

	insertOrder []string // predicate/type-batch keys in first-add order; Commit flushes them in sorted key order
}

// New returns a Transaction in the Write state, ready to buffer add/delete
// calls, executing flushed statements against drv.
func New(drv driver.Driver, sink observability.Sink) *Transaction {
	if sink == nil {
		sink = observability.NullSink{}
	}
	return &Transaction{
		drv:           drv,
		sink:          sink,
		state:         stateWrite,
		addTypes:      map[string][]typeRow{},
		addProperties: map[string][]propertyRow{},
		addEdges:      map[string][]edgeRow{},
		delTypes:      map[string][]typeRow{},
		delProperties: map[string][]propertyRow{},
		delEdges:      map[string][]edgeRow{},
	}
}

// AddType buffers an rdf:type triple for a later SET s:`<type>`. typeIRI is
// validated at flush time, not here, so buffering never fails.
func (t *Transaction) AddType(subjectKey, typeIRI string) {
	t.touch(typeIRI)
	t.addTypes[typeIRI] = append(t.addTypes[typeIRI], typeRow{Subject: subjectKey, Type: typeIRI})
}

// AddProperty buffers a literal-valued triple, sub-grouped by predicate.
func (t *Transaction) AddProperty(subjectKey, predicateIRI string, value any, datatype, language string) {
	t.touch(predicateIRI)
	t.addProperties[predicateIRI] = append(t.addProperties[predicateIRI], propertyRow{
		Subject: subjectKey, Value: value, Datatype: datatype, Language: language,
	})
}

// AddEdge buffers a resource-valued triple, sub-grouped by predicate.
func (t *Transaction) AddEdge(subjectKey, predicateIRI, objectKey string) {
	t.touch(predicateIRI)
	t.addEdges[predicateIRI] = append(t.addEdges[predicateIRI], edgeRow{Subject: subjectKey, Object: objectKey})
}

// DelType buffers an rdf:type removal.
func (t *Transaction) DelType(subjectKey, typeIRI string) {
	t.touch(typeIRI)
	t.delTypes[typeIRI] = append(t.delTypes[typeIRI], typeRow{Subject: subjectKey, Type: typeIRI})
}

// DelProperty buffers a literal-valued triple removal.
func (t *Transaction) DelProperty(subjectKey, predicateIRI string) {
	t.touch(predicateIRI)
	t.delProperties[predicateIRI] = append(t.delProperties[predicateIRI], propertyRow{Subject: subjectKey})
}

// DelEdge buffers a resource-valued triple removal.
func (t *Transaction) DelEdge(subjectKey, predicateIRI, objectKey string) {
	t.touch(predicateIRI)
	t.delEdges[predicateIRI] = append(t.delEdges[predicateIRI], edgeRow{Subject: subjectKey, Object: objectKey})
}

func (t *Transaction) touch(key string) {
	for _, k := range t.insertOrder {
		if k == key {
			return
		}
	}
	t.insertOrder = append(t.insertOrder, key)
}

// CommitReport records what Commit actually flushed, so a caller can tell
// a clean commit from a partially-flushed one: this implementation only
// guarantees atomicity at the single flushed UNWIND statement's level, not
// across the whole set of batches in one commit (§4.5 "Guarantees").
type CommitReport struct {
	BatchesFlushed     int
	FlushedBeforeError int
	RowsFlushed        int
}

// Commit flushes every buffered batch as one or more UNWIND statements
// (chunked at maxBatchRows) and transitions back to Idle. Adds are flushed
// before deletes, per the ordering recommendation in §4.5; when the same
// triple is both added and deleted within one transaction, the delete is
// applied last and wins.
func (t *Transaction) Commit(ctx context.Context) (CommitReport, error) {
	report := CommitReport{}

	flushEdges := func(predicateIRI string, rows []edgeRow) error {
		for _, chunk := range chunkEdges(rows, maxBatchRows) {
			if err := t.flushEdgeChunk(ctx, predicateIRI, chunk); err != nil {
				return err
			}
			report.BatchesFlushed++
			report.RowsFlushed += len(chunk)
		}
		return nil
	}
	flushProps := func(predicateIRI string, rows []propertyRow, del bool) error {
		for _, chunk := range chunkProperties(rows, maxBatchRows) {
			if err := t.flushPropertyChunk(ctx, predicateIRI, chunk, del); err != nil {
				return err
			}
			report.BatchesFlushed++
			report.RowsFlushed += len(chunk)
		}
		return nil
	}
	flushTypes := func(typeIRI string, rows []typeRow, del bool) error {
		for _, chunk := range chunkTypes(rows, maxBatchRows) {
			if err := t.flushTypeChunk(ctx, typeIRI, chunk, del); err != nil {
				return err
			}
			report.BatchesFlushed++
			report.RowsFlushed += len(chunk)
		}
		return nil
	}

	keys := sortedKeys(t.insertOrder)

	for _, key := range keys {
		if rows, ok := t.addTypes[key]; ok && len(rows) > 0 {
			if err := flushTypes(key, rows, false); err != nil {
				report.FlushedBeforeError = report.BatchesFlushed
				return report, err
			}
		}
	}
	for _, key := range keys {
		if rows, ok := t.addProperties[key]; ok && len(rows) > 0 {
			if err := flushProps(key, rows, false); err != nil {
				report.FlushedBeforeError = report.BatchesFlushed
				return report, err
			}
		}
	}
	for _, key := range keys {
		if rows, ok := t.addEdges[key]; ok && len(rows) > 0 {
			if err := flushEdges(key, rows); err != nil {
				report.FlushedBeforeError = report.BatchesFlushed
				return report, err
			}
		}
	}
	for _, key := range keys {
		if rows, ok := t.delTypes[key]; ok && len(rows) > 0 {
			if err := flushTypes(key, rows, true); err != nil {
				report.FlushedBeforeError = report.BatchesFlushed
				return report, err
			}
		}
	}
	for _, key := range keys {
		if rows, ok := t.delProperties[key]; ok && len(rows) > 0 {
			if err := flushProps(key, rows, true); err != nil {
				report.FlushedBeforeError = report.BatchesFlushed
				return report, err
			}
		}
	}
	for _, key := range keys {
		if rows, ok := t.delEdges[key]; ok && len(rows) > 0 {
			for _, chunk := range chunkEdges(rows, maxBatchRows) {
				if err := flushDelEdgeChunk(ctx, t, key, chunk); err != nil {
					report.FlushedBeforeError = report.BatchesFlushed
					return report, err
				}
				report.BatchesFlushed++
				report.RowsFlushed += len(chunk)
			}
		}
	}

	t.state = stateIdle
	return report, nil
}

// Abort discards every buffered row; no statement is flushed.
func (t *Transaction) Abort() {
	t.addTypes = map[string][]typeRow{}
	t.addProperties = map[string][]propertyRow{}
	t.addEdges = map[string][]edgeRow{}
	t.delTypes = map[string][]typeRow{}
	t.delProperties = map[string][]propertyRow{}
	t.delEdges = map[string][]edgeRow{}
	t.insertOrder = nil
	t.state = stateIdle
}

func (t *Transaction) flushEdgeChunk(ctx context.Context, predicateIRI string, rows []edgeRow) error {
	params := map[string]any{"rows": edgeRowsToParams(rows)}
	query := "UNWIND $rows AS row\n" +
		"MERGE (s:" + rc.QuoteIdentifier(rc.ResourceLabel) + " {uri: row.s})\n" +
		"MERGE (o:" + rc.QuoteIdentifier(rc.ResourceLabel) + " {uri: row.o})\n" +
		"MERGE (s)-[:" + rc.QuoteIdentifier(predicateIRI) + "]->(o)"
	return t.exec(ctx, query, params)
}

func flushDelEdgeChunk(ctx context.Context, t *Transaction, predicateIRI string, rows []edgeRow) error {
	params := map[string]any{"rows": edgeRowsToParams(rows)}
	query := "UNWIND $rows AS row\n" +
		"MATCH (s:" + rc.QuoteIdentifier(rc.ResourceLabel) + " {uri: row.s})-[r:" + rc.QuoteIdentifier(predicateIRI) + "]->(o:" + rc.QuoteIdentifier(rc.ResourceLabel) + " {uri: row.o})\n" +
		"DELETE r"
	return t.exec(ctx, query, params)
}

func (t *Transaction) flushPropertyChunk(ctx context.Context, predicateIRI string, rows []propertyRow, del bool) error {
	key := rc.QuoteIdentifier(predicateIRI)
	dtKey := rc.QuoteIdentifier(predicateIRI + rc.DatatypeSuffix)
	langKey := rc.QuoteIdentifier(predicateIRI + rc.LanguageSuffix)

	if del {
		params := map[string]any{"rows": propertyRowsToParams(rows, false)}
		query := "UNWIND $rows AS row\n" +
			"MATCH (s:" + rc.QuoteIdentifier(rc.ResourceLabel) + " {uri: row.s})\n" +
			"REMOVE s." + key + ", s." + dtKey + ", s." + langKey
		return t.exec(ctx, query, params)
	}

	params := map[string]any{"rows": propertyRowsToParams(rows, true)}
	query := "UNWIND $rows AS row\n" +
		"MERGE (s:" + rc.QuoteIdentifier(rc.ResourceLabel) + " {uri: row.s})\n" +
		"SET s." + key + " = row.v, s." + dtKey + " = row.dt, s." + langKey + " = row.lang"
	return t.exec(ctx, query, params)
}

func (t *Transaction) flushTypeChunk(ctx context.Context, typeIRI string, rows []typeRow, del bool) error {
	if err := rc.ValidateTypeIRI(typeIRI); err != nil {
		return err
	}
	params := map[string]any{"rows": typeRowsToParams(rows)}
	label := rc.QuoteIdentifier(typeIRI)
	verb := "SET s:" + label
	if del {
		verb = "REMOVE s:" + label
	}
	query := "UNWIND $rows AS row\n" +
		"MERGE (s:" + rc.QuoteIdentifier(rc.ResourceLabel) + " {uri: row.s})\n" +
		verb
	return t.exec(ctx, query, params)
}

func (t *Transaction) exec(ctx context.Context, query string, params map[string]any) error {
	ctx, span := t.sink.StartSpan(ctx, observability.SpanTripleStoreAdd, observability.String(observability.AttrCypher, observability.TruncateCypher(query)))
	defer span.End()
	rows, err := t.drv.Execute(ctx, query, params)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
	}
	return rows.Err()
}

func edgeRowsToParams(rows []edgeRow) []map[string]any {
	out := make([]map[string]any, len(rows))
	for i, r := range rows {
		out[i] = map[string]any{"s": r.Subject, "o": r.Object}
	}
	return out
}

func propertyRowsToParams(rows []propertyRow, withValue bool) []map[string]any {
	out := make([]map[string]any, len(rows))
	for i, r := range rows {
		if withValue {
			out[i] = map[string]any{"s": r.Subject, "v": r.Value, "dt": emptyToNil(r.Datatype), "lang": emptyToNil(r.Language)}
		} else {
			out[i] = map[string]any{"s": r.Subject}
		}
	}
	return out
}

func typeRowsToParams(rows []typeRow) []map[string]any {
	out := make([]map[string]any, len(rows))
	for i, r := range rows {
		out[i] = map[string]any{"s": r.Subject, "t": r.Type}
	}
	return out
}

func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func chunkEdges(rows []edgeRow, size int) [][]edgeRow {
	var out [][]edgeRow
	for len(rows) > 0 {
		n := size
		if n > len(rows) {
			n = len(rows)
		}
		out = append(out, rows[:n])
		rows = rows[n:]
	}
	return out
}

func chunkProperties(rows []propertyRow, size int) [][]propertyRow {
	var out [][]propertyRow
	for len(rows) > 0 {
		n := size
		if n > len(rows) {
			n = len(rows)
		}
		out = append(out, rows[:n])
		rows = rows[n:]
	}
	return out
}

func chunkTypes(rows []typeRow, size int) [][]typeRow {
	var out [][]typeRow
	for len(rows) > 0 {
		n := size
		if n > len(rows) {
			n = len(rows)
		}
		out = append(out, rows[:n])
		rows = rows[n:]
	}
	return out
}

func sortedKeys(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	sort.Strings(out)
	return out
}
