package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rc "github.com/okulmus/rdf2cypher"
	"github.com/okulmus/rdf2cypher/algebra"
	"github.com/okulmus/rdf2cypher/internal/driver"
	"github.com/okulmus/rdf2cypher/internal/memdriver"
)

func TestEvaluateDefiniteEdgeBindsResources(t *testing.T) {
	patterns := []rc.Pattern{
		rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI("http://example.org/knows")), rc.VarSlot("o")),
		rc.NewPattern(rc.VarSlot("o"), rc.TermSlot(rc.NewIRI(rc.RDFType)), rc.TermSlot(rc.NewIRI("http://example.org/Person"))),
	}

	d := memdriver.New(func(query string, params map[string]any) ([]driver.Row, error) {
		return []driver.Row{
			memdriver.NewMapRow([]string{"v_s", "v_o"}, map[string]driver.Value{
				"v_s": driver.ScalarVal("http://example.org/alice"),
				"v_o": driver.ScalarVal("http://example.org/bob"),
			}),
		}, nil
	})

	b := New(d, nil, nil)
	it, err := b.Evaluate(context.Background(), algebra.BGP{Patterns: patterns}, []string{"s", "o"})
	require.NoError(t, err)
	defer it.Close()

	require.True(t, it.Next())
	binding := it.Binding()
	assert.Equal(t, "http://example.org/alice", binding["s"].RawValue())
	assert.Equal(t, "http://example.org/bob", binding["o"].RawValue())

	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
}

func TestEvaluateAmbiguousObjectDecodesPerRowShape(t *testing.T) {
	patterns := []rc.Pattern{
		rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI("http://example.org/age")), rc.VarSlot("a")),
	}

	rows := []driver.Row{
		memdriver.NewMapRow([]string{"v_s", "v_a", "v_a_dt", "v_a_lang", "v_a_shape"}, map[string]driver.Value{
			"v_s":       driver.ScalarVal("http://example.org/alice"),
			"v_a":       driver.ScalarVal("http://example.org/bob"),
			"v_a_dt":    driver.Null(),
			"v_a_lang":  driver.Null(),
			"v_a_shape": driver.ScalarVal("resource"),
		}),
		memdriver.NewMapRow([]string{"v_s", "v_a", "v_a_dt", "v_a_lang", "v_a_shape"}, map[string]driver.Value{
			"v_s":       driver.ScalarVal("http://example.org/alice"),
			"v_a":       driver.ScalarVal("foo"),
			"v_a_dt":    driver.ScalarVal("http://example.org/customType"),
			"v_a_lang":  driver.Null(),
			"v_a_shape": driver.ScalarVal("literal"),
		}),
	}
	d := memdriver.New(func(query string, params map[string]any) ([]driver.Row, error) {
		return rows, nil
	})

	b := New(d, nil, nil)
	it, err := b.Evaluate(context.Background(), algebra.BGP{Patterns: patterns}, []string{"s", "a"})
	require.NoError(t, err)
	defer it.Close()

	require.True(t, it.Next())
	first := it.Binding()
	iri, ok := first["a"].(*rc.IRI)
	require.True(t, ok, "resource-shaped row must decode to an IRI")
	assert.Equal(t, "http://example.org/bob", iri.Value)

	require.True(t, it.Next())
	second := it.Binding()
	lit, ok := second["a"].(*rc.Literal)
	require.True(t, ok, "literal-shaped row must decode to a Literal")
	assert.Equal(t, "foo", lit.Value)
	require.NotNil(t, lit.Datatype)
	assert.Equal(t, "http://example.org/customType", lit.Datatype.RawValue())

	assert.False(t, it.Next())
}

type stubHost struct {
	evaluated bool
	iter      BindingIterator
}

func (h *stubHost) Evaluate(ctx context.Context, op algebra.Operator, required []string) (BindingIterator, error) {
	h.evaluated = true
	return h.iter, nil
}

type stubIterator struct {
	rows []rc.Binding
	idx  int
}

func (s *stubIterator) Next() bool {
	if s.idx >= len(s.rows) {
		return false
	}
	s.idx++
	return true
}
func (s *stubIterator) Binding() rc.Binding { return s.rows[s.idx-1] }
func (s *stubIterator) Err() error          { return nil }
func (s *stubIterator) Close() error        { return nil }

func TestEvaluateFallsBackOnUnsupported(t *testing.T) {
	d := memdriver.New(func(query string, params map[string]any) ([]driver.Row, error) {
		t.Fatal("an Unsupported compilation must never reach the driver")
		return nil, nil
	})
	host := &stubHost{iter: &stubIterator{rows: []rc.Binding{{"s": rc.NewIRI("http://example.org/alice")}}}}

	b := New(d, nil, host)
	it, err := b.Evaluate(context.Background(), algebra.BGP{Patterns: nil}, []string{"s"})
	require.NoError(t, err)
	require.True(t, host.evaluated)

	require.True(t, it.Next())
	assert.Equal(t, "http://example.org/alice", it.Binding()["s"].RawValue())
}

func TestEvaluateWithoutHostSurfacesUnsupported(t *testing.T) {
	d := memdriver.New(nil)
	b := New(d, nil, nil)
	_, err := b.Evaluate(context.Background(), algebra.BGP{Patterns: nil}, []string{"s"})
	require.Error(t, err)
	assert.True(t, rc.Is(err, rc.ErrUnsupported))
}

func TestEvaluateRespectsCancellation(t *testing.T) {
	patterns := []rc.Pattern{
		rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI("http://example.org/knows")), rc.VarSlot("o")),
		rc.NewPattern(rc.VarSlot("o"), rc.TermSlot(rc.NewIRI(rc.RDFType)), rc.TermSlot(rc.NewIRI("http://example.org/Person"))),
	}
	d := memdriver.New(func(query string, params map[string]any) ([]driver.Row, error) {
		t.Fatal("a cancelled context must never reach the driver")
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := New(d, nil, nil)
	_, err := b.Evaluate(ctx, algebra.BGP{Patterns: patterns}, []string{"s", "o"})
	require.Error(t, err)
	assert.True(t, rc.Is(err, rc.ErrCancelled))
}
