package rdf2cypher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityMappingHelpers(t *testing.T) {
	const p = "http://example.org/knows"
	assert.Equal(t, p, LabelForType(p))
	assert.Equal(t, p, PropertyKeyForPredicate(p))
	assert.Equal(t, p, RelationshipTypeForPredicate(p))
}

func TestSideChannelPropertyKeys(t *testing.T) {
	const p = "http://example.org/age"
	assert.Equal(t, p+"__dt", DatatypePropertyKey(p))
	assert.Equal(t, p+"__lang", LanguagePropertyKey(p))
}

func TestIsReservedProperty(t *testing.T) {
	assert.True(t, IsReservedProperty("uri"))
	assert.True(t, IsReservedProperty("http://example.org/age__dt"))
	assert.True(t, IsReservedProperty("http://example.org/age__lang"))
	assert.False(t, IsReservedProperty("http://example.org/age"))
}

func TestValidatePredicateRejectsBacktick(t *testing.T) {
	err := ValidatePredicate("http://example.org/bad`pred")
	assert.Error(t, err)
	assert.True(t, Is(err, ErrInvariantViolation))
}

func TestValidatePredicateRejectsURICollision(t *testing.T) {
	err := ValidatePredicate("uri")
	assert.Error(t, err)
	assert.True(t, Is(err, ErrInvariantViolation))
}

func TestValidatePredicateAcceptsOrdinaryIRI(t *testing.T) {
	assert.NoError(t, ValidatePredicate("http://example.org/knows"))
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, "`http://example.org/knows`", QuoteIdentifier("http://example.org/knows"))
}
