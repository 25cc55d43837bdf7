package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okulmus/rdf2cypher/algebra"
	rc "github.com/okulmus/rdf2cypher"
)

func TestCompileGroupRendersGroupKeyAndAggregate(t *testing.T) {
	input := algebra.BGP{Patterns: []rc.Pattern{
		rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI(rc.RDFType)), rc.TermSlot(rc.NewIRI(typeIRI))),
		rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI(knows)), rc.VarSlot("o")),
		rc.NewPattern(rc.VarSlot("o"), rc.TermSlot(rc.NewIRI(rc.RDFType)), rc.TermSlot(rc.NewIRI(typeIRI))),
	}}
	group := algebra.Group{
		Input:     input,
		GroupVars: []string{"s"},
		Aggregates: []algebra.Aggregate{
			{Func: algebra.AggCount, Var: "o", As: "friendCount"},
		},
	}

	result, err := compileGroup(group, []string{"s", "friendCount"})
	require.NoError(t, err)
	assert.Equal(t, KindGroup, result.Kind)
	assert.Contains(t, result.Cypher, "count(v_o.uri) AS v_friendCount")

	_, kind, ok := result.Variables.Get("s")
	require.True(t, ok)
	assert.Equal(t, VarResource, kind)

	_, kind, ok = result.Variables.Get("friendCount")
	require.True(t, ok)
	assert.Equal(t, VarLiteral, kind)
}

func TestCompileGroupCountStar(t *testing.T) {
	input := algebra.BGP{Patterns: []rc.Pattern{
		rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI(knows)), rc.VarSlot("o")),
		rc.NewPattern(rc.VarSlot("o"), rc.TermSlot(rc.NewIRI(rc.RDFType)), rc.TermSlot(rc.NewIRI(typeIRI))),
	}}
	group := algebra.Group{
		Input:     input,
		GroupVars: []string{"s"},
		Aggregates: []algebra.Aggregate{
			{Func: algebra.AggCount, CountStar: true, As: "total"},
		},
	}

	result, err := compileGroup(group, []string{"s", "total"})
	require.NoError(t, err)
	assert.Contains(t, result.Cypher, "count(*) AS v_total")
}

func TestCompileGroupRejectsNonBGPInput(t *testing.T) {
	input := algebra.Union{
		Left:  algebra.BGP{Patterns: []rc.Pattern{rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI(knows)), rc.VarSlot("o"))}},
		Right: algebra.BGP{Patterns: []rc.Pattern{rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI(knows)), rc.VarSlot("o"))}},
	}
	group := algebra.Group{Input: input, GroupVars: []string{"s"}}

	_, err := compileGroup(group, []string{"s"})
	require.Error(t, err)
	assert.True(t, rc.Is(err, rc.ErrUnsupported))
}

func TestCompileGroupRejectsVariablePredicateInput(t *testing.T) {
	input := algebra.BGP{Patterns: []rc.Pattern{
		rc.NewPattern(rc.VarSlot("s"), rc.VarSlot("p"), rc.VarSlot("o")),
	}}
	group := algebra.Group{Input: input, GroupVars: []string{"s"}}

	_, err := compileGroup(group, []string{"s"})
	require.Error(t, err)
	assert.True(t, rc.Is(err, rc.ErrUnsupported))
}

func TestCompileGroupRestrictsMappingToGroupAndAggregateNames(t *testing.T) {
	input := algebra.BGP{Patterns: []rc.Pattern{
		rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI(rc.RDFType)), rc.TermSlot(rc.NewIRI(typeIRI))),
	}}
	group := algebra.Group{
		Input:     input,
		GroupVars: []string{"s"},
	}

	result, err := compileGroup(group, []string{"s"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s"}, result.Variables.Vars())
}
