package compiler

import (
	"fmt"
	"strings"

	"github.com/okulmus/rdf2cypher/algebra"
)

// compileFilter implements §4.7.3: FILTER compiles to a WHERE clause bolted
// onto its input via an intermediate WITH stage, so the filter expression
// can reference the input's projected columns by name. Cypher's own
// three-valued WHERE logic (a comparison against NULL excludes the row)
// already matches SPARQL's "FILTER on an unbound variable drops the row"
// semantics, so no extra NULL guard is needed here.
//
// Scoped to inputs that are not themselves a union (a variable-predicate
// or ambiguous-object BGP, or a top-level UNION): rewriting a WHERE clause
// across every UNION ALL arm is deferred.
func compileFilter(o algebra.Filter, required []string) (*CompilationResult, error) {
	filterVars := collectFilterVars(o.Expr)
	combinedRequired := unionStrings(required, filterVars)

	inner, err := Compile(o.Input, combinedRequired)
	if err != nil {
		return nil, err
	}
	if inner.Kind == KindUnion {
		return nil, unsupported(ReasonFilterOverUnion)
	}

	tempParams := newParamTable()
	whereExpr, err := renderExpr(o.Expr, inner.Variables, tempParams)
	if err != nil {
		return nil, err
	}
	shiftedWhere, shiftedParams := shiftParams(whereExpr, tempParams.snapshot(), len(inner.Parameters))

	lines := strings.Split(inner.Cypher, "\n")
	last := lines[len(lines)-1]
	if !strings.HasPrefix(last, "RETURN ") {
		return nil, unsupported(ReasonFilterExprUnsupported)
	}
	lines[len(lines)-1] = "WITH " + strings.TrimPrefix(last, "RETURN ")

	var finalReturn []string
	var varMap VariableMapping
	for _, name := range required {
		col, kind, ok := inner.Variables.Get(name)
		if !ok {
			return nil, unsupported(ReasonProjectionIncomplete)
		}
		finalReturn = append(finalReturn, fmt.Sprintf("%s AS %s", col, col))
		varMap = varMap.With(name, col, kind)
	}
	if len(finalReturn) == 0 {
		return nil, unsupported(ReasonProjectionIncomplete)
	}

	clauses := append(lines, "WHERE "+shiftedWhere, "RETURN "+strings.Join(finalReturn, ", "))

	params := make(map[string]any, len(inner.Parameters)+len(shiftedParams))
	for k, v := range inner.Parameters {
		params[k] = v
	}
	for k, v := range shiftedParams {
		params[k] = v
	}

	return &CompilationResult{
		Cypher:     strings.Join(clauses, "\n"),
		Parameters: params,
		Variables:  varMap,
		Kind:       KindFilter,
	}, nil
}

func collectFilterVars(expr algebra.Expr) []string {
	var out []string
	var walkOperand func(algebra.Operand)
	walkOperand = func(op algebra.Operand) {
		if v, ok := op.(algebra.VarOperand); ok {
			out = append(out, v.Name)
		}
	}
	var walk func(algebra.Expr)
	walk = func(e algebra.Expr) {
		switch ex := e.(type) {
		case algebra.Compare:
			walkOperand(ex.Left)
			walkOperand(ex.Right)
		case algebra.And:
			walk(ex.Left)
			walk(ex.Right)
		case algebra.Or:
			walk(ex.Left)
			walk(ex.Right)
		case algebra.Not:
			walk(ex.Inner)
		}
	}
	walk(expr)
	return out
}

func renderExpr(expr algebra.Expr, varMap VariableMapping, params *paramTable) (string, error) {
	switch e := expr.(type) {
	case algebra.Compare:
		l, err := renderOperand(e.Left, varMap, params)
		if err != nil {
			return "", err
		}
		r, err := renderOperand(e.Right, varMap, params)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", l, compareOpText(e.Op), r), nil
	case algebra.And:
		l, err := renderExpr(e.Left, varMap, params)
		if err != nil {
			return "", err
		}
		r, err := renderExpr(e.Right, varMap, params)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s AND %s)", l, r), nil
	case algebra.Or:
		l, err := renderExpr(e.Left, varMap, params)
		if err != nil {
			return "", err
		}
		r, err := renderExpr(e.Right, varMap, params)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s OR %s)", l, r), nil
	case algebra.Not:
		inner, err := renderExpr(e.Inner, varMap, params)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(NOT %s)", inner), nil
	default:
		return "", unsupported(ReasonFilterExprUnsupported)
	}
}

func renderOperand(op algebra.Operand, varMap VariableMapping, params *paramTable) (string, error) {
	switch o := op.(type) {
	case algebra.VarOperand:
		expr, kind, ok := varMap.Get(o.Name)
		if !ok || kind == VarDynamic {
			return "", unsupported(ReasonFilterExprUnsupported)
		}
		return expr, nil
	case algebra.NumberOperand:
		return params.add(o.Value), nil
	case algebra.StringOperand:
		return params.add(o.Value), nil
	case algebra.BoolOperand:
		return params.add(o.Value), nil
	default:
		return "", unsupported(ReasonFilterExprUnsupported)
	}
}

func compareOpText(op algebra.CompareOp) string {
	switch op {
	case algebra.OpLT:
		return "<"
	case algebra.OpLE:
		return "<="
	case algebra.OpGT:
		return ">"
	case algebra.OpGE:
		return ">="
	case algebra.OpEQ:
		return "="
	case algebra.OpNE:
		return "<>"
	default:
		return "="
	}
}

// unionStrings returns the distinct union of a and b, preserving a's order
// first and appending b's new names in their original order.
func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
