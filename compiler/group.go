package compiler

import (
	"fmt"
	"strings"

	"github.com/okulmus/rdf2cypher/algebra"
)

// compileGroup implements §4.7.4: GROUP BY plus aggregate pushdown. Cypher
// has no explicit GROUP BY — listing non-aggregated expressions alongside
// aggregate function calls in one RETURN implicitly groups by the former —
// so this only needs to render the group-key and aggregate expressions
// side by side. HAVING is never pushed down (ReasonHavingNotPushedDown is
// reserved for a caller that models it; this algebra has no Having
// operator, so that path is unreachable today).
func compileGroup(o algebra.Group, required []string) (*CompilationResult, error) {
	bgp, ok := o.Input.(algebra.BGP)
	if !ok {
		return nil, unsupported(ReasonGroupInputNotBGP)
	}

	b, varPred, ambiguous, err := classifyBGP(bgp.Patterns)
	if err != nil {
		return nil, err
	}
	if len(varPred) > 0 || len(ambiguous) > 0 {
		return nil, unsupported(ReasonGroupVariablePredicate)
	}

	clauses := b.matchClauses()

	var returnItems []string
	var varMap VariableMapping

	for _, name := range o.GroupVars {
		expr, kind, ok := b.varMap.Get(name)
		if !ok {
			return nil, unsupported(ReasonProjectionIncomplete)
		}
		col := binderName(name)
		returnItems = append(returnItems, fmt.Sprintf("%s AS %s", expr, col))
		varMap = varMap.With(name, col, kind)
	}

	for _, agg := range o.Aggregates {
		aggExpr, err := renderAggregate(agg, b.varMap)
		if err != nil {
			return nil, err
		}
		col := binderName(agg.As)
		returnItems = append(returnItems, fmt.Sprintf("%s AS %s", aggExpr, col))
		varMap = varMap.With(agg.As, col, VarLiteral)
	}

	for _, name := range required {
		if !varMap.Has(name) {
			return nil, unsupported(ReasonProjectionIncomplete)
		}
	}
	if len(returnItems) == 0 {
		return nil, unsupported(ReasonProjectionIncomplete)
	}

	clauses = append(clauses, "RETURN "+strings.Join(returnItems, ", "))

	return &CompilationResult{
		Cypher:     strings.Join(clauses, "\n"),
		Parameters: b.params.snapshot(),
		Variables:  varMap.Restrict(append(append([]string{}, o.GroupVars...), aggregateNames(o.Aggregates)...)),
		Kind:       KindGroup,
	}, nil
}

func renderAggregate(agg algebra.Aggregate, varMap VariableMapping) (string, error) {
	fn, err := aggregateFuncName(agg.Func)
	if err != nil {
		return "", err
	}

	if agg.CountStar {
		return "count(*)", nil
	}

	expr, kind, ok := varMap.Get(agg.Var)
	if !ok || kind == VarDynamic {
		return "", unsupported(ReasonFilterExprUnsupported)
	}

	if agg.Distinct {
		return fmt.Sprintf("%s(DISTINCT %s)", fn, expr), nil
	}
	return fmt.Sprintf("%s(%s)", fn, expr), nil
}

func aggregateFuncName(fn algebra.AggregateFunc) (string, error) {
	switch fn {
	case algebra.AggCount:
		return "count", nil
	case algebra.AggSum:
		return "sum", nil
	case algebra.AggAvg:
		return "avg", nil
	case algebra.AggMin:
		return "min", nil
	case algebra.AggMax:
		return "max", nil
	default:
		return "", unsupported(ReasonFilterExprUnsupported)
	}
}

func aggregateNames(aggs []algebra.Aggregate) []string {
	out := make([]string, len(aggs))
	for i, a := range aggs {
		out[i] = a.As
	}
	return out
}
