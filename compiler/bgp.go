package compiler

import (
	"fmt"
	"sort"
	"strings"

	rc "github.com/okulmus/rdf2cypher"
)

// compileBGP implements C6 (§4.6): translate a Basic Graph Pattern into a
// single Cypher MATCH…RETURN, or report Unsupported.
//
// Cypher itself unifies repeated node-variable names across comma-separated
// MATCH items (and across chained relationship patterns) into the same
// bound node — this is exactly the "closed-chain" / linear-chain join the
// spec's §4.6.4 asks for, so this compiler does not need its own join-order
// search: it only needs to name each SPARQL variable's node with one
// consistent Cypher binder and declare that binder's label/property
// constraints on its first mention.
func compileBGP(patterns []rc.Pattern, required []string) (*CompilationResult, error) {
	b, varPredicateTriples, ambiguousTriples, err := classifyBGP(patterns)
	if err != nil {
		return nil, err
	}

	switch {
	case len(varPredicateTriples) == 1:
		return composeWithVariablePredicate(b, varPredicateTriples[0], required)
	case len(ambiguousTriples) == 1:
		return composeWithAmbiguousObject(b, ambiguousTriples[0], required)
	default:
		return b.build(required)
	}
}

// classifyBGP partitions a BGP's patterns into the unambiguous part (folded
// into the returned builder) and the at-most-one variable-predicate triple
// and at-most-one ambiguous-variable-object triple that require a union
// expansion, per §4.6.1–§4.6.3.
func classifyBGP(patterns []rc.Pattern) (*bgpBuilder, []rc.Pattern, []rc.Pattern, error) {
	if len(patterns) == 0 {
		return nil, nil, nil, unsupported(ReasonEmptyBGP)
	}

	b := newBGPBuilder()

	// Pass 1: every variable that ever appears as a Subject is "connected"
	// — a variable-object elsewhere that matches one of these names must
	// be a resource endpoint, never a literal (§4.6.2).
	subjectVars := map[string]bool{}
	for _, p := range patterns {
		if p.Subject.IsVariable() {
			subjectVars[p.Subject.Variable.Name] = true
		}
	}

	var varPredicateTriples []rc.Pattern
	var ambiguousTriples []rc.Pattern
	var typeVarTriples []rc.Pattern
	var definite []rc.Pattern

	for _, p := range patterns {
		if p.Predicate.IsVariable() {
			varPredicateTriples = append(varPredicateTriples, p)
			continue
		}

		predIRI := p.Predicate.Term.RawValue()
		if err := rc.ValidatePredicate(predIRI); err != nil {
			return nil, nil, nil, unsupported(ReasonBacktickPredicate)
		}

		if predIRI == rc.RDFType {
			if p.Object.IsVariable() {
				typeVarTriples = append(typeVarTriples, p)
			} else {
				definite = append(definite, p)
			}
			continue
		}

		if p.Object.IsVariable() && !subjectVars[p.Object.Variable.Name] {
			if _, isLit := objectMustBeLiteral(p); !isLit {
				ambiguousTriples = append(ambiguousTriples, p)
				continue
			}
		}
		definite = append(definite, p)
	}

	if len(varPredicateTriples) > 1 {
		return nil, nil, nil, unsupported(ReasonMultipleVarPredicates)
	}
	if len(ambiguousTriples) > 1 {
		return nil, nil, nil, unsupported(ReasonMultipleVarPredicates)
	}
	if len(varPredicateTriples) == 1 && len(ambiguousTriples) == 1 {
		return nil, nil, nil, unsupported(ReasonMultipleVarPredicates)
	}

	// Every subject variable is resolved as a resource node up front,
	// regardless of pattern order: a definite triple may mention one of
	// these names as its object before the pattern that establishes it as
	// a subject is processed, and addDefinite's literal-vs-edge
	// discrimination depends on that binder already existing.
	for _, name := range sortedStrings(subjectVars) {
		if _, err := b.resolveNode(rc.VarSlot(name)); err != nil {
			return nil, nil, nil, err
		}
	}

	// The common, unambiguous part of the BGP: type/literal/resource
	// triples with a concrete predicate and an unambiguous object, plus
	// rdf:type-with-variable-object triples (handled via UNWIND labels).
	if err := b.addDefinite(definite); err != nil {
		return nil, nil, nil, err
	}
	if err := b.addTypeVarTriples(typeVarTriples); err != nil {
		return nil, nil, nil, err
	}

	// The subject of a variable-predicate or ambiguous-object triple
	// still needs a node match in the common part even though its
	// predicate/object details are resolved per-union-arm below.
	for _, p := range varPredicateTriples {
		if _, err := b.resolveNode(p.Subject); err != nil {
			return nil, nil, nil, err
		}
	}
	for _, p := range ambiguousTriples {
		if _, err := b.resolveNode(p.Subject); err != nil {
			return nil, nil, nil, err
		}
	}

	return b, varPredicateTriples, ambiguousTriples, nil
}

// objectMustBeLiteral reports whether a pattern's object slot is knowably a
// literal without needing a union: true when the concrete object term is a
// *rc.Literal. Only meaningful for patterns whose object is NOT a variable
// (variable objects are handled by the subjectVars/ambiguity logic above);
// this helper exists purely so the classification loop reads linearly.
func objectMustBeLiteral(p rc.Pattern) (rc.Pattern, bool) {
	if p.Object.IsVariable() {
		return p, false
	}
	_, isLit := p.Object.Term.(*rc.Literal)
	return p, isLit
}

// bgpBuilder accumulates the graph-pattern items, constraints, and
// variable mapping for the "definite" (non-ambiguous, non-variable-
// predicate) part of a BGP.
type bgpBuilder struct {
	params *paramTable

	// nodeKey(term-or-var) -> binder name, so repeated mentions of the
	// same SPARQL variable or the same constant term share one Cypher
	// node binder.
	nodeBinder map[string]string
	nodeOrder  []string // first-seen order, for deterministic output
	nodeLabels map[string][]string
	nodeKeyRef map[string]string // binder -> inline "uri: $pN" parameter reference, for constants

	edges []edgeItem

	// literal property accesses: (binder, predicate IRI) -> sparql var
	// bound to that property, for projection. Predicates that are only
	// constrained to a constant are recorded in literalEq instead.
	literalVars map[nodeProp]string
	literalEq   map[nodeProp]string // predicate constrained to equal this param ref

	typeVarBinders map[string]string // subject binder -> sparql var bound to the UNWIND'd label

	literalVarSource map[string]nodeProp // sparql var -> the property access it came from, for side-channel projection

	varMap VariableMapping
}

type nodeProp struct {
	binder string
	pred   string
}

type edgeItem struct {
	subjBinder string
	pred       string
	objBinder  string
}

func newBGPBuilder() *bgpBuilder {
	return &bgpBuilder{
		params:           newParamTable(),
		nodeBinder:       map[string]string{},
		nodeLabels:       map[string][]string{},
		nodeKeyRef:       map[string]string{},
		literalVars:      map[nodeProp]string{},
		literalEq:        map[nodeProp]string{},
		typeVarBinders:   map[string]string{},
		literalVarSource: map[string]nodeProp{},
	}
}

// resolveNode returns the Cypher binder for a pattern slot that denotes a
// graph node (a subject, or a resource-valued object), assigning a fresh
// binder and, for constants, an inline `uri` parameter the first time it is
// seen.
func (b *bgpBuilder) resolveNode(slot rc.Slot) (string, error) {
	key, err := nodeSlotKey(slot)
	if err != nil {
		return "", err
	}

	if binder, ok := b.nodeBinder[key]; ok {
		return binder, nil
	}

	var binder string
	if slot.IsVariable() {
		binder = binderName(slot.Variable.Name)
		b.varMap = b.varMap.With(slot.Variable.Name, binder+"."+rc.URIProperty, VarResource)
	} else {
		binder = fmt.Sprintf("_c%d", len(b.nodeOrder))
		nodeKey, err := rc.EncodeNodeKey(slot.Term)
		if err != nil {
			return "", newInternalCodecErr(err)
		}
		b.nodeKeyRef[binder] = b.params.add(nodeKey)
	}

	b.nodeBinder[key] = binder
	b.nodeOrder = append(b.nodeOrder, binder)
	return binder, nil
}

func nodeSlotKey(slot rc.Slot) (string, error) {
	if slot.IsVariable() {
		return "var:" + slot.Variable.Name, nil
	}
	nodeKey, err := rc.EncodeNodeKey(slot.Term)
	if err != nil {
		return "", unsupported(ReasonSubjectOnlyPredicate)
	}
	return "const:" + nodeKey, nil
}

// addDefinite processes every triple whose shape is unambiguous: type
// triples with a constant type, literal-target triples, and resource-target
// (edge) triples.
func (b *bgpBuilder) addDefinite(patterns []rc.Pattern) error {
	for _, p := range patterns {
		predIRI := p.Predicate.Term.RawValue()

		subjBinder, err := b.resolveNode(p.Subject)
		if err != nil {
			return err
		}

		if predIRI == rc.RDFType {
			typeIRI := p.Object.Term.RawValue()
			if err := rc.ValidateTypeIRI(typeIRI); err != nil {
				return unsupported(ReasonBacktickTypeIRI)
			}
			b.nodeLabels[subjBinder] = append(b.nodeLabels[subjBinder], rc.LabelForType(typeIRI))
			continue
		}

		if lit, ok := p.Object.Term.(*rc.Literal); ok && !p.Object.IsVariable() {
			encoded, err := rc.EncodeLiteral(lit)
			if err != nil {
				return newInternalCodecErr(err)
			}
			ref := b.params.add(encoded.Value)
			b.literalEq[nodeProp{subjBinder, predIRI}] = ref
			continue
		}

		if p.Object.IsVariable() && !isResourceBound(b, p.Object.Variable.Name) {
			// Literal-valued variable object: projects the subject's
			// property, not an edge.
			varName := p.Object.Variable.Name
			np := nodeProp{subjBinder, predIRI}
			b.literalVars[np] = varName
			b.literalVarSource[varName] = np
			b.varMap = b.varMap.With(varName, subjBinder+"."+rc.QuoteIdentifier(predIRI), VarLiteral)
			continue
		}

		// Resource-target triple: an edge to either a constant node or a
		// variable that is also used as a subject elsewhere.
		objBinder, err := b.resolveNode(p.Object)
		if err != nil {
			return err
		}
		b.edges = append(b.edges, edgeItem{subjBinder: subjBinder, pred: predIRI, objBinder: objBinder})
	}
	return nil
}

// isResourceBound reports whether varName already has a node binder
// assigned (i.e. some other pattern already forced it to be a resource).
func isResourceBound(b *bgpBuilder, varName string) bool {
	_, ok := b.nodeBinder["var:"+varName]
	return ok
}

// addTypeVarTriples handles `?s rdf:type ?t`: expressed as
// `UNWIND labels(s) AS t WHERE t <> 'Resource'` (§4.7.4, generalized here to
// plain BGPs, not just GROUP BY ?type).
func (b *bgpBuilder) addTypeVarTriples(patterns []rc.Pattern) error {
	for _, p := range patterns {
		subjBinder, err := b.resolveNode(p.Subject)
		if err != nil {
			return err
		}
		typeVar := p.Object.Variable.Name
		b.typeVarBinders[subjBinder] = typeVar
		b.varMap = b.varMap.With(typeVar, typeVarColumn(subjBinder), VarType)
	}
	return nil
}

func typeVarColumn(subjBinder string) string {
	return "_type_" + subjBinder
}

// matchClauses renders every MATCH/UNWIND/WHERE clause this builder has
// accumulated, without a trailing RETURN — shared by build() and by the
// union-composing callers in union.go, which each append their own
// per-arm RETURN.
func (b *bgpBuilder) matchClauses() []string {
	matchItems := b.renderMatchItems()
	if len(matchItems) == 0 {
		for _, binder := range b.nodeOrder {
			matchItems = append(matchItems, b.renderNode(binder))
		}
	}

	var clauses []string
	clauses = append(clauses, "MATCH "+strings.Join(matchItems, ", "))

	for _, binder := range sortedKeys(b.typeVarBinders) {
		clauses = append(clauses, fmt.Sprintf(
			"UNWIND labels(%s) AS %s WITH * WHERE %s <> '%s'",
			binder, typeVarColumn(binder),
			typeVarColumn(binder), rc.ResourceLabel,
		))
	}

	var wheres []string
	for np, ref := range b.literalEq {
		wheres = append(wheres, fmt.Sprintf("%s.%s = %s", np.binder, rc.QuoteIdentifier(np.pred), ref))
	}
	sort.Strings(wheres)
	if len(wheres) > 0 {
		clauses = append(clauses, "WHERE "+strings.Join(wheres, " AND "))
	}

	return clauses
}

// build renders the accumulated graph pattern into Cypher text.
func (b *bgpBuilder) build(required []string) (*CompilationResult, error) {
	clauses := b.matchClauses()

	returnItems, varMap, err := b.renderReturn(required)
	if err != nil {
		return nil, err
	}
	clauses = append(clauses, "RETURN "+strings.Join(returnItems, ", "))

	return &CompilationResult{
		Cypher:     strings.Join(clauses, "\n"),
		Parameters: b.params.snapshot(),
		Variables:  varMap,
		Kind:       KindBGP,
	}, nil
}

// binderOf returns the Cypher node binder already assigned to a pattern
// slot (subject of a variable-predicate or ambiguous-object triple, always
// resolved ahead of time by compileBGP).
func (b *bgpBuilder) binderOf(slot rc.Slot) (string, error) {
	key, err := nodeSlotKey(slot)
	if err != nil {
		return "", err
	}
	binder, ok := b.nodeBinder[key]
	if !ok {
		return "", unsupported(ReasonSubjectOnlyPredicate)
	}
	return binder, nil
}

// requiredBaseColumns renders "expr AS col" for every name in required that
// the common (non-union) part of the BGP already maps, alongside the
// public VariableMapping entries those columns correspond to. Names not
// found here are expected to be produced by the union arm itself (the
// dynamic object, or the predicate variable).
func (b *bgpBuilder) requiredBaseColumns(required []string, skip map[string]bool) ([]string, VariableMapping) {
	var items []string
	var mapping VariableMapping
	for _, name := range required {
		if skip[name] {
			continue
		}
		expr, kind, ok := b.varMap.Get(name)
		if !ok {
			continue
		}
		col := binderName(name)
		items = append(items, fmt.Sprintf("%s AS %s", expr, col))
		mapping = mapping.With(name, col, kind)
	}
	return items, mapping
}

func (b *bgpBuilder) renderMatchItems() []string {
	declared := map[string]bool{}
	var items []string

	for _, e := range b.edges {
		left := b.renderNodeOnce(e.subjBinder, declared)
		right := b.renderNodeOnce(e.objBinder, declared)
		items = append(items, fmt.Sprintf("(%s)-[:%s]->(%s)", left, rc.QuoteIdentifier(e.pred), right))
	}

	// Nodes that only carry a literal/type constraint and never appear in
	// an edge still need their own MATCH item.
	for _, binder := range b.nodeOrder {
		if declared[binder] {
			continue
		}
		items = append(items, b.renderNode(binder))
		declared[binder] = true
	}

	return items
}

// renderNodeOnce renders a node's full pattern (label/property
// constraints) the first time binder is mentioned, and a bare reference on
// every subsequent mention — Cypher requires constraints stated once per
// binder within a query.
func (b *bgpBuilder) renderNodeOnce(binder string, declared map[string]bool) string {
	if declared[binder] {
		return binder
	}
	declared[binder] = true
	return b.renderNode(binder)
}

func (b *bgpBuilder) renderNode(binder string) string {
	labels := append([]string{rc.ResourceLabel}, b.nodeLabels[binder]...)
	var labelPart strings.Builder
	for _, l := range labels {
		labelPart.WriteString(":")
		labelPart.WriteString(rc.QuoteIdentifier(l))
	}

	if ref, ok := b.nodeKeyRef[binder]; ok {
		return fmt.Sprintf("(%s%s {%s: %s})", binder, labelPart.String(), rc.URIProperty, ref)
	}
	return fmt.Sprintf("(%s%s)", binder, labelPart.String())
}

// renderReturn builds the RETURN clause, projecting only the required
// variables and only ever scalar attribute accesses (§4.6.5, §8.2 "no
// whole-node return").
func (b *bgpBuilder) renderReturn(required []string) ([]string, VariableMapping, error) {
	var items []string
	var mapping VariableMapping

	for _, name := range required {
		expr, kind, ok := b.varMap.Get(name)
		if !ok {
			// A required variable this BGP never binds cannot be
			// projected, so the whole BGP is reported Unsupported.
			return nil, VariableMapping{}, unsupported(ReasonProjectionIncomplete)
		}
		col := binderName(name)
		items = append(items, fmt.Sprintf("%s AS %s", expr, col))
		mapping = mapping.With(name, col, kind)

		if kind == VarLiteral {
			if np, ok := b.literalVarSource[name]; ok {
				dtCol, langCol := col+"_dt", col+"_lang"
				items = append(items,
					fmt.Sprintf("%s.%s AS %s", np.binder, rc.QuoteIdentifier(np.pred+rc.DatatypeSuffix), dtCol),
					fmt.Sprintf("%s.%s AS %s", np.binder, rc.QuoteIdentifier(np.pred+rc.LanguageSuffix), langCol),
				)
				mapping = mapping.WithLiteralSideChannels(name, dtCol, langCol)
			}
		}
	}

	if len(items) == 0 {
		return nil, VariableMapping{}, unsupported(ReasonProjectionIncomplete)
	}

	return items, mapping, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedStrings(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newInternalCodecErr(err error) error {
	return unsupported("codec_error: " + err.Error())
}
