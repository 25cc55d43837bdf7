package txn

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okulmus/rdf2cypher/internal/driver"
	"github.com/okulmus/rdf2cypher/internal/memdriver"
)

func TestCommitFlushesAddsBeforeDeletes(t *testing.T) {
	var order []string
	d := memdriver.New(func(query string, params map[string]any) ([]driver.Row, error) {
		switch {
		case strings.Contains(query, "SET s:"):
			order = append(order, "addType")
		case strings.Contains(query, "REMOVE s:"):
			order = append(order, "delType")
		case strings.Contains(query, "SET s.") && strings.Contains(query, "row.v"):
			order = append(order, "addProperty")
		case strings.Contains(query, "REMOVE s.") && strings.Contains(query, "row.s"):
			order = append(order, "delProperty")
		case strings.Contains(query, "MERGE (s)-[:"):
			order = append(order, "addEdge")
		case strings.Contains(query, "DELETE r"):
			order = append(order, "delEdge")
		}
		return nil, nil
	})

	tx := New(d, nil)
	tx.AddType("s1", "http://example.org/Person")
	tx.AddProperty("s1", "http://example.org/name", "Alice", "", "")
	tx.AddEdge("s1", "http://example.org/knows", "s2")
	tx.DelType("s1", "http://example.org/Animal")
	tx.DelProperty("s1", "http://example.org/age")
	tx.DelEdge("s1", "http://example.org/hates", "s3")

	report, err := tx.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, report.BatchesFlushed)
	assert.Equal(t, 6, report.RowsFlushed)

	require.Len(t, order, 6)
	addIdx := map[string]int{}
	delIdx := map[string]int{}
	for i, kind := range order {
		if kind[:3] == "add" {
			addIdx[kind] = i
		} else {
			delIdx[kind] = i
		}
	}
	for _, addI := range addIdx {
		for _, delI := range delIdx {
			assert.Less(t, addI, delI, "all adds must flush before any delete")
		}
	}
}

func TestCommitChunksLargeBatches(t *testing.T) {
	var chunkSizes []int
	d := memdriver.New(func(query string, params map[string]any) ([]driver.Row, error) {
		rows, ok := params["rows"].([]map[string]any)
		if ok {
			chunkSizes = append(chunkSizes, len(rows))
		}
		return nil, nil
	})

	tx := New(d, nil)
	for i := 0; i < 2500; i++ {
		tx.AddEdge(fmt.Sprintf("s%d", i), "http://example.org/knows", fmt.Sprintf("o%d", i))
	}

	report, err := tx.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.BatchesFlushed)
	assert.Equal(t, 2500, report.RowsFlushed)
	assert.Equal(t, []int{1000, 1000, 500}, chunkSizes)
}

func TestCommitStopsOnFirstError(t *testing.T) {
	calls := 0
	failAfter := 1
	d := memdriver.New(func(query string, params map[string]any) ([]driver.Row, error) {
		calls++
		if calls > failAfter {
			return nil, assert.AnError
		}
		return nil, nil
	})

	tx := New(d, nil)
	tx.AddType("s1", "http://example.org/A")
	tx.AddType("s2", "http://example.org/B")

	report, err := tx.Commit(context.Background())
	require.Error(t, err)
	assert.Equal(t, report.FlushedBeforeError, report.BatchesFlushed)
}

func TestAbortDiscardsBufferedRows(t *testing.T) {
	d := memdriver.New(func(query string, params map[string]any) ([]driver.Row, error) {
		t.Fatal("Abort must not flush any statement")
		return nil, nil
	})

	tx := New(d, nil)
	tx.AddType("s1", "http://example.org/Person")
	tx.AddProperty("s1", "http://example.org/name", "Alice", "", "")
	tx.Abort()

	report, err := tx.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.BatchesFlushed)
	assert.Equal(t, 0, report.RowsFlushed)
}

func TestDelPropertyOmitsValueColumns(t *testing.T) {
	var seenRows []map[string]any
	d := memdriver.New(func(query string, params map[string]any) ([]driver.Row, error) {
		if rows, ok := params["rows"].([]map[string]any); ok {
			seenRows = rows
		}
		return nil, nil
	})

	tx := New(d, nil)
	tx.DelProperty("s1", "http://example.org/age")
	_, err := tx.Commit(context.Background())
	require.NoError(t, err)

	require.Len(t, seenRows, 1)
	_, hasValue := seenRows[0]["v"]
	assert.False(t, hasValue, "a delete row should carry only the subject key")
}

