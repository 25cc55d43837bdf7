package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okulmus/rdf2cypher/algebra"
	rc "github.com/okulmus/rdf2cypher"
)

func TestCompileFilterRendersWhereOverInputColumn(t *testing.T) {
	input := algebra.BGP{Patterns: []rc.Pattern{
		rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI(rc.RDFType)), rc.VarSlot("t")),
	}}
	expr := algebra.Compare{Op: algebra.OpEQ, Left: algebra.VarOperand{Name: "t"}, Right: algebra.StringOperand{Value: typeIRI}}

	result, err := compileFilter(algebra.Filter{Input: input, Expr: expr}, []string{"t"})
	require.NoError(t, err)
	assert.Equal(t, KindFilter, result.Kind)
	assert.Contains(t, result.Cypher, "WITH ")
	assert.Contains(t, result.Cypher, "WHERE (v_t = $p")
	assert.Contains(t, result.Cypher, "RETURN v_t AS v_t")
}

func TestCompileFilterRejectsUnionInput(t *testing.T) {
	input := algebra.BGP{Patterns: []rc.Pattern{
		rc.NewPattern(rc.VarSlot("s"), rc.VarSlot("p"), rc.VarSlot("o")),
	}}
	expr := algebra.Compare{Op: algebra.OpEQ, Left: algebra.VarOperand{Name: "p"}, Right: algebra.StringOperand{Value: "x"}}

	_, err := compileFilter(algebra.Filter{Input: input, Expr: expr}, []string{"p", "o"})
	require.Error(t, err)
	assert.True(t, rc.Is(err, rc.ErrUnsupported))
}

func TestCompileFilterComposesLogicalOperators(t *testing.T) {
	input := algebra.BGP{Patterns: []rc.Pattern{
		rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI(rc.RDFType)), rc.VarSlot("t")),
	}}
	expr := algebra.And{
		Left:  algebra.Compare{Op: algebra.OpEQ, Left: algebra.VarOperand{Name: "t"}, Right: algebra.StringOperand{Value: typeIRI}},
		Right: algebra.Not{Inner: algebra.Compare{Op: algebra.OpEQ, Left: algebra.VarOperand{Name: "t"}, Right: algebra.StringOperand{Value: "http://example.org/Other"}}},
	}

	result, err := compileFilter(algebra.Filter{Input: input, Expr: expr}, []string{"t"})
	require.NoError(t, err)
	assert.Contains(t, result.Cypher, "AND")
	assert.Contains(t, result.Cypher, "NOT")
}

func TestCompileFilterRejectsUnboundOperand(t *testing.T) {
	input := algebra.BGP{Patterns: []rc.Pattern{
		rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI(rc.RDFType)), rc.VarSlot("t")),
	}}
	expr := algebra.Compare{Op: algebra.OpGT, Left: algebra.VarOperand{Name: "nope"}, Right: algebra.NumberOperand{Value: 1}}

	_, err := compileFilter(algebra.Filter{Input: input, Expr: expr}, []string{"t"})
	require.Error(t, err)
	assert.True(t, rc.Is(err, rc.ErrUnsupported))
}
