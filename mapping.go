package rdf2cypher

import "strings"

// Constants and pure helpers defining the canonical RDF↔property-graph
// schema (§3.2). The mapping is deliberately dumb: a label or property key
// IS the predicate/type IRI, verbatim, quoted at Cypher-emission time. This
// keeps the mapping lossless without a side-table of short names.
const (
	// ResourceLabel is the base label every RDF subject/object node carries.
	ResourceLabel = "Resource"

	// URIProperty is the reserved node property holding the IRI (or a
	// `_:`-prefixed blank node label).
	URIProperty = "uri"

	// RDFType is the rdf:type IRI; triples with this predicate become
	// labels rather than properties or edges.
	RDFType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

	// datatypeSuffix and languageSuffix name the side-channel properties
	// used to preserve a literal's datatype/language when it is not stored
	// as a backend-native scalar (§3.3 strategy (a), chosen in
	// SPEC_FULL.md §3).
	datatypeSuffix = "__dt"
	languageSuffix = "__lang"

	// DatatypeSuffix and LanguageSuffix expose the side-channel suffixes
	// to callers (the compiler's variable-predicate expansion) that must
	// build a side-channel property key from a runtime-computed predicate
	// rather than a compile-time-known one.
	DatatypeSuffix = datatypeSuffix
	LanguageSuffix = languageSuffix
)

// LabelForType returns the graph label used for an rdf:type triple's
// object. The mapping is the identity function: the label IS the type IRI.
func LabelForType(typeIRI string) string {
	return typeIRI
}

// PropertyKeyForPredicate returns the property key used for a literal-valued
// predicate. The mapping is the identity function: the key IS the predicate
// IRI, quoted with backticks at emission time.
func PropertyKeyForPredicate(predicateIRI string) string {
	return predicateIRI
}

// RelationshipTypeForPredicate returns the edge relationship type used for a
// resource-valued predicate. Identity, like the two helpers above.
func RelationshipTypeForPredicate(predicateIRI string) string {
	return predicateIRI
}

// DatatypePropertyKey returns the side-channel property key that preserves
// a literal predicate's datatype IRI.
func DatatypePropertyKey(predicateIRI string) string {
	return predicateIRI + datatypeSuffix
}

// LanguagePropertyKey returns the side-channel property key that preserves
// a literal predicate's language tag.
func LanguagePropertyKey(predicateIRI string) string {
	return predicateIRI + languageSuffix
}

// IsReservedProperty reports whether a property key collides with the
// reserved `uri` key (§3.2 invariant 3) or with one of the side-channel
// suffixes this implementation uses internally.
func IsReservedProperty(key string) bool {
	if key == URIProperty {
		return true
	}
	return strings.HasSuffix(key, datatypeSuffix) || strings.HasSuffix(key, languageSuffix)
}

// ValidatePredicate enforces the invariants a predicate IRI must satisfy
// before it can be used as a Cypher label, relationship type, or property
// key: no backtick (it would break identifier quoting) and no collision
// with the reserved `uri` property (§3.2 invariant 3).
func ValidatePredicate(predicateIRI string) error {
	if strings.Contains(predicateIRI, "`") {
		return newInvariantViolation("predicate IRI contains a backtick: " + predicateIRI)
	}
	if predicateIRI == URIProperty {
		return newInvariantViolation("predicate IRI collides with the reserved uri property")
	}
	return nil
}

// QuoteIdentifier backtick-quotes a label, relationship type, or property
// key for embedding in generated Cypher text. Callers MUST have already
// validated the identifier contains no backtick (ValidatePredicate).
func QuoteIdentifier(name string) string {
	return "`" + name + "`"
}

// ValidateTypeIRI enforces the invariant an rdf:type object IRI must
// satisfy before it can be used as a Cypher label: no backtick (it would
// break identifier quoting, the same way a backtick in a predicate IRI
// would — §3.2 invariant 3).
func ValidateTypeIRI(typeIRI string) error {
	if strings.Contains(typeIRI, "`") {
		return newInvariantViolation("type IRI contains a backtick: " + typeIRI)
	}
	return nil
}
