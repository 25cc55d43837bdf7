package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rc "github.com/okulmus/rdf2cypher"
)

const knows = "http://example.org/knows"
const age = "http://example.org/age"
const typeIRI = "http://example.org/Person"

func TestCompileBGPDefiniteEdgeProjectsURIsOnly(t *testing.T) {
	patterns := []rc.Pattern{
		rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI(knows)), rc.VarSlot("o")),
		rc.NewPattern(rc.VarSlot("o"), rc.TermSlot(rc.NewIRI(rc.RDFType)), rc.TermSlot(rc.NewIRI(typeIRI))),
	}

	result, err := compileBGP(patterns, []string{"s", "o"})
	require.NoError(t, err)

	assert.Contains(t, result.Cypher, "MATCH (v_s:`Resource`)-[:`"+knows+"`]->(v_o:`Resource`:`"+typeIRI+"`)")
	assert.Contains(t, result.Cypher, "RETURN v_s.uri AS v_s, v_o.uri AS v_o")
	assert.NotContains(t, result.Cypher, "RETURN v_s,")
	assert.NotContains(t, result.Cypher, "RETURN v_s ")

	expr, kind, ok := result.Variables.Get("s")
	require.True(t, ok)
	assert.Equal(t, "v_s", expr)
	assert.Equal(t, VarResource, kind)

	expr, kind, ok = result.Variables.Get("o")
	require.True(t, ok)
	assert.Equal(t, "v_o", expr)
	assert.Equal(t, VarResource, kind)
}

func TestCompileBGPLiteralPropertyParameterizesConstant(t *testing.T) {
	patterns := []rc.Pattern{
		rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI(age)), rc.TermSlot(rc.NewLiteralWithDatatype("30", rc.NewIRI("http://www.w3.org/2001/XMLSchema#integer")))),
	}

	result, err := compileBGP(patterns, []string{"s"})
	require.NoError(t, err)

	assert.Contains(t, result.Cypher, "WHERE v_s.`"+age+"` = $p0")
	assert.Equal(t, int64(30), result.Parameters["p0"])
}

func TestCompileBGPMultipleLiteralConstraintsAreConjoined(t *testing.T) {
	const name = "http://example.org/name"
	patterns := []rc.Pattern{
		rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI(age)), rc.TermSlot(rc.NewLiteralWithDatatype("30", rc.NewIRI("http://www.w3.org/2001/XMLSchema#integer")))),
		rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI(name)), rc.TermSlot(rc.NewLiteral("Alice"))),
	}

	result, err := compileBGP(patterns, []string{"s"})
	require.NoError(t, err)

	assert.Contains(t, result.Cypher, " AND ")
	assert.Len(t, result.Parameters, 2)
}

func TestCompileBGPTypeWithVariableObjectUsesUnwindLabels(t *testing.T) {
	patterns := []rc.Pattern{
		rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI(rc.RDFType)), rc.VarSlot("t")),
	}

	result, err := compileBGP(patterns, []string{"t"})
	require.NoError(t, err)

	assert.Contains(t, result.Cypher, "UNWIND labels(v_s) AS _type_v_s")
	assert.Contains(t, result.Cypher, "<> '"+rc.ResourceLabel+"'")

	_, kind, ok := result.Variables.Get("t")
	require.True(t, ok)
	assert.Equal(t, VarType, kind)
}

func TestCompileBGPRejectsEmptyPatterns(t *testing.T) {
	_, err := compileBGP(nil, nil)
	require.Error(t, err)
	assert.True(t, rc.Is(err, rc.ErrUnsupported))
}

func TestCompileBGPRejectsBacktickPredicate(t *testing.T) {
	patterns := []rc.Pattern{
		rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI("http://example.org/bad`pred")), rc.VarSlot("o")),
	}
	_, err := compileBGP(patterns, []string{"o"})
	require.Error(t, err)
	assert.True(t, rc.Is(err, rc.ErrUnsupported))
}

func TestCompileBGPRejectsMultipleVariablePredicates(t *testing.T) {
	patterns := []rc.Pattern{
		rc.NewPattern(rc.VarSlot("s"), rc.VarSlot("p1"), rc.VarSlot("o1")),
		rc.NewPattern(rc.VarSlot("s"), rc.VarSlot("p2"), rc.VarSlot("o2")),
	}
	_, err := compileBGP(patterns, []string{"o1", "o2"})
	require.Error(t, err)
	assert.True(t, rc.Is(err, rc.ErrUnsupported))
}

func TestCompileBGPRejectsProjectionIncomplete(t *testing.T) {
	patterns := []rc.Pattern{
		rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI(knows)), rc.VarSlot("o")),
	}
	_, err := compileBGP(patterns, []string{"unbound"})
	require.Error(t, err)
	assert.True(t, rc.Is(err, rc.ErrUnsupported))
}

func TestCompileBGPJoinsOnRepeatedSubjectVariable(t *testing.T) {
	patterns := []rc.Pattern{
		rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI(knows)), rc.VarSlot("o")),
		rc.NewPattern(rc.VarSlot("s"), rc.TermSlot(rc.NewIRI(rc.RDFType)), rc.TermSlot(rc.NewIRI(typeIRI))),
		rc.NewPattern(rc.VarSlot("o"), rc.TermSlot(rc.NewIRI(rc.RDFType)), rc.TermSlot(rc.NewIRI(typeIRI))),
	}

	result, err := compileBGP(patterns, []string{"s", "o"})
	require.NoError(t, err)

	assert.Contains(t, result.Cypher, "MATCH (v_s:`Resource`:`"+typeIRI+"`)-[:`"+knows+"`]->(v_o:`Resource`:`"+typeIRI+"`)")
}
