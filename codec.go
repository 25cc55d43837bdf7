package rdf2cypher

import (
	"strings"

	"github.com/okulmus/rdf2cypher/internal/driver"
)

// XSD datatype IRIs this codec treats specially. The set mirrors the
// canonical constants in knakk/rdf's xsd subpackage (reference-only; not a
// dependency of this module, just the source of truth for the literal
// strings).
const (
	xsdString  = "http://www.w3.org/2001/XMLSchema#string"
	xsdBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
	xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDecimal = "http://www.w3.org/2001/XMLSchema#decimal"
	xsdDouble  = "http://www.w3.org/2001/XMLSchema#double"
	xsdFloat   = "http://www.w3.org/2001/XMLSchema#float"
)

// Shape tells Decode what kind of RDF term a backend cell is expected to
// reconstruct into (§4.1).
type Shape int

const (
	// ShapeNodeURI expects a Node value and reconstructs the IRI or blank
	// node identified by its `uri` property.
	ShapeNodeURI Shape = iota
	// ShapeEdgeType expects an Edge value, or a scalar string produced by
	// Cypher's type(), and reconstructs the predicate IRI.
	ShapeEdgeType
	// ShapeScalar expects a scalar value and reconstructs a Literal.
	ShapeScalar
)

// EncodeNodeKey returns the string used as a Resource node's `uri` property
// for this term: the IRI itself, or `_:<label>` for a blank node. Fails if
// term is a Literal — literals are never node keys.
func EncodeNodeKey(term Term) (string, error) {
	switch t := term.(type) {
	case *IRI:
		return t.Value, nil
	case *BlankNode:
		return "_:" + t.ID, nil
	default:
		return "", newCodecMismatch("literal cannot be encoded as a node key")
	}
}

// EncodedLiteral is the result of encoding a Literal for property-graph
// storage: the value to store under the predicate's primary property key,
// plus the side-channel datatype/language strings to store under the
// `__dt`/`__lang` companion keys. Both are empty for every literal stored
// as a native scalar (xsd:string, xsd:boolean, xsd:integer, and the
// floating-point datatypes); DecodeLiteral reads a stored float back as
// xsd:double, so xsd:decimal and xsd:float literals come back as
// xsd:double.
type EncodedLiteral struct {
	Value    any
	Datatype string
	Language string
}

// EncodeLiteral implements §3.3: literals whose datatype is xsd:string,
// xsd:boolean, xsd:integer (fitting int64), or one of the floating-point
// datatypes are stored as the backend's native scalar with no side
// channel. Every other datatype, and every language-tagged string, is
// stored as its lexical form plus the side-channel datatype/language pair.
func EncodeLiteral(lit *Literal) (EncodedLiteral, error) {
	if lit.Language != "" {
		return EncodedLiteral{Value: lit.Value, Language: lit.Language}, nil
	}

	datatypeIRI := ""
	if lit.Datatype != nil {
		iri, ok := lit.Datatype.(*IRI)
		if !ok {
			return EncodedLiteral{}, newCodecMismatch("literal datatype must be an IRI")
		}
		datatypeIRI = iri.Value
	}

	switch datatypeIRI {
	case "", xsdString:
		return EncodedLiteral{Value: lit.Value}, nil
	case xsdBoolean:
		v, err := parseBool(lit.Value)
		if err != nil {
			return EncodedLiteral{}, newCodecMismatch("invalid xsd:boolean lexical form: " + lit.Value)
		}
		return EncodedLiteral{Value: v}, nil
	case xsdInteger:
		v, err := parseInt64(lit.Value)
		if err != nil {
			return EncodedLiteral{}, newCodecMismatch("invalid xsd:integer lexical form: " + lit.Value)
		}
		return EncodedLiteral{Value: v}, nil
	case xsdDecimal, xsdDouble, xsdFloat:
		v, err := parseFloat64(lit.Value)
		if err != nil {
			return EncodedLiteral{}, newCodecMismatch("invalid numeric lexical form: " + lit.Value)
		}
		return EncodedLiteral{Value: v}, nil
	default:
		return EncodedLiteral{Value: lit.Value, Datatype: datatypeIRI}, nil
	}
}

// DecodeLiteral reconstructs a Literal from a stored scalar plus its
// optional side-channel datatype/language strings (empty when absent).
func DecodeLiteral(value any, datatypeIRI, language string) (*Literal, error) {
	if language != "" {
		s, ok := value.(string)
		if !ok {
			return nil, newCodecMismatch("language-tagged literal must store a string lexical form")
		}
		return &Literal{Value: s, Language: language}, nil
	}

	if datatypeIRI != "" {
		s, ok := value.(string)
		if !ok {
			return nil, newCodecMismatch("non-native-typed literal must store a string lexical form")
		}
		return &Literal{Value: s, Datatype: &IRI{Value: datatypeIRI}}, nil
	}

	switch v := value.(type) {
	case nil:
		return nil, newCodecMismatch("cannot decode a NULL scalar as a literal")
	case bool:
		return &Literal{Value: formatBool(v), Datatype: &IRI{Value: xsdBoolean}}, nil
	case int64:
		return &Literal{Value: formatInt64(v), Datatype: &IRI{Value: xsdInteger}}, nil
	case int:
		return &Literal{Value: formatInt64(int64(v)), Datatype: &IRI{Value: xsdInteger}}, nil
	case float64:
		return &Literal{Value: formatFloat64(v), Datatype: &IRI{Value: xsdDouble}}, nil
	case string:
		return &Literal{Value: v}, nil
	default:
		return nil, newCodecMismatch("unsupported scalar kind for literal decode")
	}
}

// Decode reconstructs a Term from a value returned by the driver, per
// expectedShape (§4.1).
func Decode(value driver.Value, expectedShape Shape) (Term, error) {
	switch expectedShape {
	case ShapeNodeURI:
		if value.Node != nil {
			raw, ok := value.Node.Properties[URIProperty]
			if !ok {
				return nil, newCodecMismatch("node is missing its uri property")
			}
			uri, ok := raw.(string)
			if !ok {
				return nil, newCodecMismatch("node uri property is not a string")
			}
			return decodeNodeKey(uri), nil
		}
		// The compiler never RETURNs a whole node (§4.6.5); a resource
		// binding normally arrives as the bare `n.uri` scalar already.
		if value.Scalar != nil {
			uri, ok := value.Scalar.Value.(string)
			if !ok {
				return nil, newCodecMismatch("expected a string uri scalar for ShapeNodeURI")
			}
			return decodeNodeKey(uri), nil
		}
		return nil, newCodecMismatch("expected a node or scalar uri value for ShapeNodeURI")

	case ShapeEdgeType:
		if value.Edge != nil {
			return &IRI{Value: value.Edge.Type}, nil
		}
		if value.Scalar != nil {
			s, ok := value.Scalar.Value.(string)
			if !ok {
				return nil, newCodecMismatch("expected a string predicate IRI for ShapeEdgeType")
			}
			return &IRI{Value: s}, nil
		}
		return nil, newCodecMismatch("expected an edge or scalar value for ShapeEdgeType")

	case ShapeScalar:
		if value.Scalar == nil {
			return nil, newCodecMismatch("expected a scalar value for ShapeScalar")
		}
		return DecodeLiteral(value.Scalar.Value, "", "")

	default:
		return nil, newCodecMismatch("unknown decode shape")
	}
}

// decodeNodeKey reverses EncodeNodeKey: a `_:`-prefixed string decodes to a
// blank node, everything else to an IRI.
func decodeNodeKey(key string) Term {
	if strings.HasPrefix(key, "_:") {
		return &BlankNode{ID: strings.TrimPrefix(key, "_:")}
	}
	return &IRI{Value: key}
}
