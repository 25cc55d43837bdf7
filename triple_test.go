package rdf2cypher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTripleString(t *testing.T) {
	tr := NewTriple(NewIRI("http://example.org/alice"), NewIRI("http://example.org/knows"), NewIRI("http://example.org/bob"))
	assert.Equal(t, "<http://example.org/alice> <http://example.org/knows> <http://example.org/bob> .", tr.String())
}

func TestTripleEqual(t *testing.T) {
	a := NewTriple(NewIRI("s"), NewIRI("p"), NewLiteral("o"))
	b := NewTriple(NewIRI("s"), NewIRI("p"), NewLiteral("o"))
	c := NewTriple(NewIRI("s"), NewIRI("p"), NewLiteral("different"))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestPatternMatches(t *testing.T) {
	tr := NewTriple(NewIRI("http://example.org/alice"), NewIRI("http://example.org/knows"), NewIRI("http://example.org/bob"))

	p := NewPattern(VarSlot("s"), TermSlot(NewIRI("http://example.org/knows")), VarSlot("o"))
	assert.True(t, p.Matches(tr))

	wrongPred := NewPattern(VarSlot("s"), TermSlot(NewIRI("http://example.org/other")), VarSlot("o"))
	assert.False(t, wrongPred.Matches(tr))

	wrongSubject := NewPattern(TermSlot(NewIRI("http://example.org/carol")), VarSlot("p"), VarSlot("o"))
	assert.False(t, wrongSubject.Matches(tr))
}

func TestPatternVariablesDedupesAndOrders(t *testing.T) {
	p := NewPattern(VarSlot("s"), VarSlot("p"), VarSlot("s"))
	assert.Equal(t, []string{"s", "p"}, p.Variables())
}

func TestSlotIsVariable(t *testing.T) {
	v := VarSlot("x")
	c := TermSlot(NewIRI("http://example.org/x"))
	assert.True(t, v.IsVariable())
	assert.False(t, c.IsVariable())
}

func TestVariableString(t *testing.T) {
	assert.Equal(t, "?x", NewVariable("x").String())
}
