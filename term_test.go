package rdf2cypher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIRIStringAndRawValue(t *testing.T) {
	iri := NewIRI("http://example.org/alice")
	assert.Equal(t, "<http://example.org/alice>", iri.String())
	assert.Equal(t, "http://example.org/alice", iri.RawValue())
}

func TestIRIEqual(t *testing.T) {
	a := NewIRI("http://example.org/alice")
	b := NewIRI("http://example.org/alice")
	c := NewIRI("http://example.org/bob")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(NewLiteral("alice")))
}

func TestLiteralStringEscapesControlCharacters(t *testing.T) {
	lit := NewLiteral("line1\nline2\t\"quoted\"")
	assert.Equal(t, `"line1\nline2\t\"quoted\""`, lit.String())
}

func TestLiteralStringWithLanguage(t *testing.T) {
	lit := NewLiteralWithLanguage("bonjour", "fr")
	assert.Equal(t, `"bonjour"@fr`, lit.String())
}

func TestLiteralStringWithDatatype(t *testing.T) {
	lit := NewLiteralWithDatatype("42", NewIRI("http://www.w3.org/2001/XMLSchema#integer"))
	assert.Equal(t, `"42"^^<http://www.w3.org/2001/XMLSchema#integer>`, lit.String())
}

func TestNewLiteralWithLanguageAndDatatypePrefersLanguage(t *testing.T) {
	lit := NewLiteralWithLanguageAndDatatype("bonjour", "fr", NewIRI("http://www.w3.org/2001/XMLSchema#string"))
	l, ok := lit.(*Literal)
	assert.True(t, ok)
	assert.Equal(t, "fr", l.Language)
	assert.Nil(t, l.Datatype)
}

func TestLiteralEqual(t *testing.T) {
	a := NewLiteralWithDatatype("42", NewIRI("http://www.w3.org/2001/XMLSchema#integer"))
	b := NewLiteralWithDatatype("42", NewIRI("http://www.w3.org/2001/XMLSchema#integer"))
	c := NewLiteralWithDatatype("42", NewIRI("http://www.w3.org/2001/XMLSchema#decimal"))
	d := NewLiteral("42")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func TestBlankNodeStringAndEqual(t *testing.T) {
	a := NewBlankNode("b0")
	b := NewBlankNode("b0")
	c := NewBlankNode("b1")
	assert.Equal(t, "_:b0", a.String())
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestNewAnonNodeGeneratesDistinctLabels(t *testing.T) {
	a := NewAnonNode()
	b := NewAnonNode()
	assert.False(t, a.Equal(b))
	assert.Contains(t, a.RawValue(), "anon")
}
