package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/okulmus/rdf2cypher/algebra"
	rc "github.com/okulmus/rdf2cypher"
)

// composeWithAmbiguousObject implements §4.6.2's two-way union: a triple
// pattern whose object is a variable that is never itself used as a
// subject could be bound to either a resource (an edge target) or a
// literal property value. Both interpretations are compiled against the
// same common MATCH clauses already accumulated in b and combined with
// UNION ALL; the object variable comes back VarDynamic, disambiguated
// per-row by a sibling shape column.
func composeWithAmbiguousObject(b *bgpBuilder, p rc.Pattern, required []string) (*CompilationResult, error) {
	predIRI := p.Predicate.Term.RawValue()
	subjBinder, err := b.binderOf(p.Subject)
	if err != nil {
		return nil, err
	}
	objVarName := p.Object.Variable.Name

	baseItems, baseMapping := b.requiredBaseColumns(required, map[string]bool{objVarName: true})
	for _, name := range required {
		if name != objVarName && !baseMapping.Has(name) {
			return nil, unsupported(ReasonProjectionIncomplete)
		}
	}

	objCol := binderName(objVarName)
	shapeCol := objCol + "_shape"
	dtCol := objCol + "_dt"
	langCol := objCol + "_lang"

	clauses := b.matchClauses()
	freshObj := fmt.Sprintf("_amb%d", len(b.nodeOrder))

	armA := append(copyStrings(clauses),
		fmt.Sprintf("MATCH (%s)-[:%s]->(%s:%s)", subjBinder, rc.QuoteIdentifier(predIRI), freshObj, rc.QuoteIdentifier(rc.ResourceLabel)))
	armAReturn := append(copyStrings(baseItems),
		fmt.Sprintf("%s.%s AS %s", freshObj, rc.URIProperty, objCol),
		"NULL AS "+dtCol,
		"NULL AS "+langCol,
		"'resource' AS "+shapeCol,
	)
	armACypher := strings.Join(append(armA, "RETURN "+strings.Join(armAReturn, ", ")), "\n")

	armB := append(copyStrings(clauses),
		fmt.Sprintf("WHERE %s.%s IS NOT NULL", subjBinder, rc.QuoteIdentifier(predIRI)))
	armBReturn := append(copyStrings(baseItems),
		fmt.Sprintf("%s.%s AS %s", subjBinder, rc.QuoteIdentifier(predIRI), objCol),
		fmt.Sprintf("%s.%s AS %s", subjBinder, rc.QuoteIdentifier(predIRI+rc.DatatypeSuffix), dtCol),
		fmt.Sprintf("%s.%s AS %s", subjBinder, rc.QuoteIdentifier(predIRI+rc.LanguageSuffix), langCol),
		"'literal' AS "+shapeCol,
	)
	armBCypher := strings.Join(append(armB, "RETURN "+strings.Join(armBReturn, ", ")), "\n")

	varMap := baseMapping.WithDynamic(objVarName, objCol, shapeCol, dtCol, langCol)

	return &CompilationResult{
		Cypher:     armACypher + "\nUNION ALL\n" + armBCypher,
		Parameters: b.params.snapshot(),
		Variables:  varMap,
		Kind:       KindUnion,
	}, nil
}

// composeWithVariablePredicate implements §4.6.3's three-way union for a
// triple whose predicate is itself a variable: the edge interpretation (any
// relationship), the literal-property interpretation (any non-reserved
// node property), and the type interpretation (any label but the base
// Resource label). Scoped to the common real case where the object is also
// a variable; a constant object on a variable-predicate triple is reported
// Unsupported.
func composeWithVariablePredicate(b *bgpBuilder, p rc.Pattern, required []string) (*CompilationResult, error) {
	if !p.Object.IsVariable() {
		return nil, unsupported(ReasonPropertyPath)
	}

	subjBinder, err := b.binderOf(p.Subject)
	if err != nil {
		return nil, err
	}
	predVarName := p.Predicate.Variable.Name
	objVarName := p.Object.Variable.Name

	skip := map[string]bool{predVarName: true, objVarName: true}
	baseItems, baseMapping := b.requiredBaseColumns(required, skip)
	for _, name := range required {
		if name != predVarName && name != objVarName && !baseMapping.Has(name) {
			return nil, unsupported(ReasonProjectionIncomplete)
		}
	}

	predCol := binderName(predVarName)
	objCol := binderName(objVarName)
	shapeCol := objCol + "_shape"
	dtCol := objCol + "_dt"
	langCol := objCol + "_lang"

	clauses := b.matchClauses()

	// Arm 1: edge interpretation.
	edgeVar := edgeBinderName(0)
	freshObj := "_vp_obj"
	arm1 := append(copyStrings(clauses),
		fmt.Sprintf("MATCH (%s)-[%s]->(%s:%s)", subjBinder, edgeVar, freshObj, rc.QuoteIdentifier(rc.ResourceLabel)))
	arm1Return := append(copyStrings(baseItems),
		fmt.Sprintf("type(%s) AS %s", edgeVar, predCol),
		fmt.Sprintf("%s.%s AS %s", freshObj, rc.URIProperty, objCol),
		"NULL AS "+dtCol,
		"NULL AS "+langCol,
		"'resource' AS "+shapeCol,
	)
	arm1Cypher := strings.Join(append(arm1, "RETURN "+strings.Join(arm1Return, ", ")), "\n")

	// Arm 2: literal-property interpretation, via UNWIND over the
	// subject's non-reserved property keys.
	keyVar := "_vp_key"
	arm2 := append(copyStrings(clauses),
		fmt.Sprintf(
			"WITH *, [k IN keys(%s) WHERE NOT k = '%s' AND NOT k ENDS WITH '%s' AND NOT k ENDS WITH '%s'] AS _vp_keys",
			subjBinder, rc.URIProperty, rc.DatatypeSuffix, rc.LanguageSuffix,
		),
		"UNWIND _vp_keys AS "+keyVar,
	)
	arm2Return := append(copyStrings(baseItems),
		keyVar+" AS "+predCol,
		fmt.Sprintf("%s[%s] AS %s", subjBinder, keyVar, objCol),
		fmt.Sprintf("%s[%s + '%s'] AS %s", subjBinder, keyVar, rc.DatatypeSuffix, dtCol),
		fmt.Sprintf("%s[%s + '%s'] AS %s", subjBinder, keyVar, rc.LanguageSuffix, langCol),
		"'literal' AS "+shapeCol,
	)
	arm2Cypher := strings.Join(append(arm2, "RETURN "+strings.Join(arm2Return, ", ")), "\n")

	// Arm 3: type interpretation, via UNWIND over the subject's labels.
	labelVar := "_vp_label"
	arm3 := append(copyStrings(clauses),
		fmt.Sprintf("UNWIND [l IN labels(%s) WHERE l <> '%s'] AS %s", subjBinder, rc.ResourceLabel, labelVar),
	)
	typeRef := b.params.add(rc.RDFType)
	arm3Return := append(copyStrings(baseItems),
		typeRef+" AS "+predCol,
		labelVar+" AS "+objCol,
		"NULL AS "+dtCol,
		"NULL AS "+langCol,
		"'resource' AS "+shapeCol,
	)
	arm3Cypher := strings.Join(append(arm3, "RETURN "+strings.Join(arm3Return, ", ")), "\n")

	varMap := baseMapping.
		With(predVarName, predCol, VarPredicate).
		WithDynamic(objVarName, objCol, shapeCol, dtCol, langCol)

	return &CompilationResult{
		Cypher:     arm1Cypher + "\nUNION ALL\n" + arm2Cypher + "\nUNION ALL\n" + arm3Cypher,
		Parameters: b.params.snapshot(),
		Variables:  varMap,
		Kind:       KindUnion,
	}, nil
}

// compileUnion implements the top-level SPARQL UNION operator (§4.7.2).
// Scoped to the common case where both branches can independently produce
// every required variable — the harder case of branches binding disjoint
// variable sets (needing NULL-padding for column parity) is reported
// Unsupported rather than guessed at.
func compileUnion(o algebra.Union, required []string) (*CompilationResult, error) {
	left, err := Compile(o.Left, required)
	if err != nil {
		return nil, err
	}
	right, err := Compile(o.Right, required)
	if err != nil {
		return nil, err
	}
	for _, name := range required {
		if !left.Variables.Has(name) || !right.Variables.Has(name) {
			return nil, unsupported(ReasonUnionColumnMismatch)
		}
	}

	rightCypher, rightParams := shiftParams(right.Cypher, right.Parameters, len(left.Parameters))

	merged := make(map[string]any, len(left.Parameters)+len(rightParams))
	for k, v := range left.Parameters {
		merged[k] = v
	}
	for k, v := range rightParams {
		merged[k] = v
	}

	return &CompilationResult{
		Cypher:     left.Cypher + "\nUNION ALL\n" + rightCypher,
		Parameters: merged,
		Variables:  left.Variables,
		Kind:       KindUnion,
	}, nil
}

var paramRefPattern = regexp.MustCompile(`\$p(\d+)`)

// shiftParams renumbers every $pN placeholder in cypher (and the matching
// keys in params) by offset, so two independently-compiled sub-trees whose
// parameter tables both started at $p0 can be combined into one query
// without their placeholders colliding.
func shiftParams(cypher string, params map[string]any, offset int) (string, map[string]any) {
	shifted := paramRefPattern.ReplaceAllStringFunc(cypher, func(m string) string {
		n := 0
		fmt.Sscanf(m, "$p%d", &n)
		return fmt.Sprintf("$p%d", n+offset)
	})
	out := make(map[string]any, len(params))
	for k, v := range params {
		n := 0
		fmt.Sscanf(k, "p%d", &n)
		out[fmt.Sprintf("p%d", n+offset)] = v
	}
	return shifted, out
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
