package rdf2cypher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okulmus/rdf2cypher/internal/driver"
)

func TestEncodeNodeKeyIRI(t *testing.T) {
	key, err := EncodeNodeKey(NewIRI("http://example.org/alice"))
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/alice", key)
}

func TestEncodeNodeKeyBlankNode(t *testing.T) {
	key, err := EncodeNodeKey(NewBlankNode("b0"))
	require.NoError(t, err)
	assert.Equal(t, "_:b0", key)
}

func TestEncodeNodeKeyRejectsLiteral(t *testing.T) {
	_, err := EncodeNodeKey(NewLiteral("x"))
	require.Error(t, err)
	assert.True(t, Is(err, ErrCodecMismatch))
}

func TestEncodeLiteralNativeScalars(t *testing.T) {
	cases := []struct {
		name string
		lit  Term
		want any
	}{
		{"plain string", NewLiteral("hello"), "hello"},
		{"boolean", NewLiteralWithDatatype("true", NewIRI("http://www.w3.org/2001/XMLSchema#boolean")), true},
		{"integer", NewLiteralWithDatatype("42", NewIRI("http://www.w3.org/2001/XMLSchema#integer")), int64(42)},
		{"double", NewLiteralWithDatatype("3.5", NewIRI("http://www.w3.org/2001/XMLSchema#double")), 3.5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			encoded, err := EncodeLiteral(c.lit.(*Literal))
			require.NoError(t, err)
			assert.Equal(t, c.want, encoded.Value)
			assert.Empty(t, encoded.Datatype)
			assert.Empty(t, encoded.Language)
		})
	}
}

func TestEncodeLiteralLanguageTag(t *testing.T) {
	lit := NewLiteralWithLanguage("bonjour", "fr").(*Literal)
	encoded, err := EncodeLiteral(lit)
	require.NoError(t, err)
	assert.Equal(t, "bonjour", encoded.Value)
	assert.Equal(t, "fr", encoded.Language)
	assert.Empty(t, encoded.Datatype)
}

func TestEncodeLiteralCustomDatatypeUsesSideChannel(t *testing.T) {
	lit := NewLiteralWithDatatype("blob", NewIRI("http://example.org/customType")).(*Literal)
	encoded, err := EncodeLiteral(lit)
	require.NoError(t, err)
	assert.Equal(t, "blob", encoded.Value)
	assert.Equal(t, "http://example.org/customType", encoded.Datatype)
}

func TestEncodeLiteralRejectsInvalidLexicalForm(t *testing.T) {
	lit := NewLiteralWithDatatype("not-a-bool", NewIRI("http://www.w3.org/2001/XMLSchema#boolean")).(*Literal)
	_, err := EncodeLiteral(lit)
	require.Error(t, err)
	assert.True(t, Is(err, ErrCodecMismatch))
}

func TestDecodeLiteralRoundTripsSideChannels(t *testing.T) {
	lit, err := DecodeLiteral("blob", "http://example.org/customType", "")
	require.NoError(t, err)
	assert.Equal(t, "blob", lit.Value)
	require.NotNil(t, lit.Datatype)
	assert.Equal(t, "http://example.org/customType", lit.Datatype.RawValue())
}

func TestDecodeLiteralLanguageTakesPriority(t *testing.T) {
	lit, err := DecodeLiteral("bonjour", "", "fr")
	require.NoError(t, err)
	assert.Equal(t, "fr", lit.Language)
	assert.Nil(t, lit.Datatype)
}

func TestDecodeLiteralNativeScalarKinds(t *testing.T) {
	lit, err := DecodeLiteral(int64(42), "", "")
	require.NoError(t, err)
	assert.Equal(t, "42", lit.Value)
	require.NotNil(t, lit.Datatype)
	assert.Equal(t, "http://www.w3.org/2001/XMLSchema#integer", lit.Datatype.RawValue())
}

func TestDecodeShapeNodeURIFromScalar(t *testing.T) {
	term, err := Decode(driver.ScalarVal("http://example.org/alice"), ShapeNodeURI)
	require.NoError(t, err)
	iri, ok := term.(*IRI)
	require.True(t, ok)
	assert.Equal(t, "http://example.org/alice", iri.Value)
}

func TestDecodeShapeNodeURIFromNode(t *testing.T) {
	term, err := Decode(driver.NodeVal([]string{"Resource"}, map[string]any{"uri": "_:b0"}), ShapeNodeURI)
	require.NoError(t, err)
	bn, ok := term.(*BlankNode)
	require.True(t, ok)
	assert.Equal(t, "b0", bn.ID)
}

func TestDecodeShapeEdgeTypeFromEdge(t *testing.T) {
	term, err := Decode(driver.EdgeVal("http://example.org/knows", nil), ShapeEdgeType)
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/knows", term.RawValue())
}

func TestDecodeShapeScalarRejectsNonScalar(t *testing.T) {
	_, err := Decode(driver.NodeVal(nil, nil), ShapeScalar)
	require.Error(t, err)
	assert.True(t, Is(err, ErrCodecMismatch))
}
