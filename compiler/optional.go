package compiler

import (
	"strings"

	"github.com/okulmus/rdf2cypher/algebra"
)

// compileOptional implements §4.7.1: OPTIONAL MATCH over the already-bound
// variables from the required branch. Scoped to the common shape where
// both the required and optional branches are themselves plain BGPs with
// no variable-predicate or ambiguous-object triple — a branch needing its
// own union expansion is reported Unsupported rather than attempting to
// turn every union arm into its own OPTIONAL MATCH block.
func compileOptional(o algebra.Optional, required []string) (*CompilationResult, error) {
	reqBGP, ok := o.Required.(algebra.BGP)
	if !ok {
		return nil, unsupported(ReasonOptionalNotBGP)
	}
	optBGP, ok := o.Opt.(algebra.BGP)
	if !ok {
		return nil, unsupported(ReasonOptionalNotBGP)
	}

	reqB, reqVarPred, reqAmbiguous, err := classifyBGP(reqBGP.Patterns)
	if err != nil {
		return nil, err
	}
	if len(reqVarPred) > 0 || len(reqAmbiguous) > 0 {
		return nil, unsupported(ReasonOptionalVariablePredicate)
	}

	optB, optVarPred, optAmbiguous, err := classifyBGP(optBGP.Patterns)
	if err != nil {
		return nil, err
	}
	if len(optVarPred) > 0 || len(optAmbiguous) > 0 {
		return nil, unsupported(ReasonOptionalVariablePredicate)
	}

	reqClauses := reqB.matchClauses()

	optClauses := optB.matchClauses()
	optClauses[0] = "OPTIONAL " + optClauses[0]
	optText := strings.Join(optClauses, "\n")
	shiftedOptText, shiftedOptParams := shiftParams(optText, optB.params.snapshot(), len(reqB.params.order))

	var returnItems []string
	var varMap VariableMapping
	for _, name := range required {
		if expr, kind, ok := reqB.varMap.Get(name); ok {
			col := binderName(name)
			returnItems = append(returnItems, expr+" AS "+col)
			varMap = varMap.With(name, col, kind)
			continue
		}
		if expr, kind, ok := optB.varMap.Get(name); ok {
			col := binderName(name)
			returnItems = append(returnItems, expr+" AS "+col)
			varMap = varMap.With(name, col, kind)
			continue
		}
		return nil, unsupported(ReasonProjectionIncomplete)
	}
	if len(returnItems) == 0 {
		return nil, unsupported(ReasonProjectionIncomplete)
	}

	clauses := append(reqClauses, shiftedOptText, "RETURN "+strings.Join(returnItems, ", "))

	params := reqB.params.snapshot()
	for k, v := range shiftedOptParams {
		params[k] = v
	}

	return &CompilationResult{
		Cypher:     strings.Join(clauses, "\n"),
		Parameters: params,
		Variables:  varMap,
		Kind:       KindOptional,
	}, nil
}
