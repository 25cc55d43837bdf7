/*
	Copyright (c) 2012 Kier Davis

	Permission is hereby granted, free of charge, to any person obtaining a copy of this software and
	associated documentation files (the "Software"), to deal in the Software without restriction,
	including without limitation the rights to use, copy, modify, merge, publish, distribute,
	sublicense, and/or sell copies of the Software, and to permit persons to whom the Software is
	furnished to do so, subject to the following conditions:

	The above copyright notice and this permission notice shall be included in all copies or substantial
	portions of the Software.

	THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR IMPLIED, INCLUDING BUT
	NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
	NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES
	OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
	CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

// Package rdf2cypher stores RDF triples in a Cypher-speaking property graph
// and compiles SPARQL algebra fragments down to native Cypher.
package rdf2cypher

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// A Term is the value of a subject, predicate or object: an IRI reference, a
// blank node, or a literal.
type Term interface {
	// String returns the NTriples representation of this term.
	String() string

	// RawValue returns the raw value of this term.
	RawValue() string

	// Equal returns whether this term is equal to another.
	Equal(Term) bool
}

// IRI is an absolute-URI term. It is used for subjects, predicates, and
// resource-valued objects.
type IRI struct {
	Value string
}

// NewIRI returns a new IRI term.
func NewIRI(uri string) Term {
	return Term(&IRI{Value: uri})
}

// String returns the NTriples representation of this IRI.
func (term IRI) String() string {
	return fmt.Sprintf("<%s>", term.Value)
}

// RawValue returns the IRI string without angle brackets.
func (term IRI) RawValue() string {
	return term.Value
}

// Equal returns whether this IRI is equal to another.
func (term IRI) Equal(other Term) bool {
	spec, ok := other.(*IRI)
	return ok && term.Value == spec.Value
}

// Literal is a textual value, with an associated language tag or datatype.
// Per RDF semantics a Literal never carries both: a language tag implies
// datatype rdf:langString and is mutually exclusive with an explicit
// non-string Datatype.
type Literal struct {
	Value    string
	Language string
	Datatype Term
}

// NewLiteral returns a new untyped (xsd:string) literal.
func NewLiteral(value string) Term {
	return Term(&Literal{Value: value})
}

// NewLiteralWithLanguage returns a new language-tagged literal.
func NewLiteralWithLanguage(value string, language string) Term {
	return Term(&Literal{Value: value, Language: language})
}

// NewLiteralWithDatatype returns a new literal with an explicit datatype IRI.
func NewLiteralWithDatatype(value string, datatype Term) Term {
	return Term(&Literal{Value: value, Datatype: datatype})
}

// NewLiteralWithLanguageAndDatatype mirrors the teacher's constructor shape:
// a language tag takes priority over an explicit datatype, since a
// language-tagged literal is always rdf:langString.
func NewLiteralWithLanguageAndDatatype(value, language string, datatype Term) Term {
	if len(language) > 0 {
		return NewLiteralWithLanguage(value, language)
	}
	return NewLiteralWithDatatype(value, datatype)
}

// String returns the NTriples representation of this literal.
func (term Literal) String() string {
	str := term.Value
	str = strings.Replace(str, "\\", "\\\\", -1)
	str = strings.Replace(str, "\"", "\\\"", -1)
	str = strings.Replace(str, "\n", "\\n", -1)
	str = strings.Replace(str, "\r", "\\r", -1)
	str = strings.Replace(str, "\t", "\\t", -1)

	str = fmt.Sprintf("\"%s\"", str)

	str += atLang(term.Language)
	if term.Language == "" && term.Datatype != nil {
		str += "^^" + term.Datatype.String()
	}

	return str
}

// RawValue returns the literal's lexical form.
func (term Literal) RawValue() string {
	return term.Value
}

// Equal returns whether this literal is equivalent to another.
func (term Literal) Equal(other Term) bool {
	spec, ok := other.(*Literal)
	if !ok {
		return false
	}

	if term.Value != spec.Value {
		return false
	}

	if term.Language != spec.Language {
		return false
	}

	if (term.Datatype == nil) != (spec.Datatype == nil) {
		return false
	}

	if term.Datatype != nil && spec.Datatype != nil && !term.Datatype.Equal(spec.Datatype) {
		return false
	}

	return true
}

// BlankNode is a locally-unique, unqualified RDF node label.
type BlankNode struct {
	ID string
}

// NewBlankNode returns a new blank node with the given label.
func NewBlankNode(id string) Term {
	return Term(&BlankNode{ID: id})
}

// NewAnonNode returns a new blank node with a freshly generated label.
// The teacher generated anon ids with math/rand; this uses a UUID so ids
// stay unique across process restarts, which matters once blank node
// labels are persisted as the `_:<label>` node key (§3.2).
func NewAnonNode() Term {
	return Term(&BlankNode{ID: "anon" + uuid.NewString()})
}

// String returns the NTriples representation of the blank node.
func (term BlankNode) String() string {
	return "_:" + term.ID
}

// RawValue returns the blank node's label.
func (term BlankNode) RawValue() string {
	return term.ID
}

// Equal returns whether this blank node is equivalent to another.
func (term BlankNode) Equal(other Term) bool {
	spec, ok := other.(*BlankNode)
	return ok && term.ID == spec.ID
}

func atLang(lang string) string {
	if len(lang) == 0 {
		return ""
	}
	if strings.HasPrefix(lang, "@") {
		return lang
	}
	return "@" + lang
}
