package compiler

import rc "github.com/okulmus/rdf2cypher"

// unsupported wraps rc.Unsupported with a reason code, per §4.6 "Errors /
// unsupported" and §4.7.5's requirement that fallbacks carry a reason code
// the observability shim can log.
func unsupported(reasonCode string) error {
	return rc.Unsupported(reasonCode)
}

// Reason codes returned by unsupported(). Named so the executor bridge and
// its tests can assert on why a sub-tree fell back without string-matching
// free text.
const (
	ReasonUnknownOperator          = "unknown_operator"
	ReasonPropertyPath             = "property_path_syntax"
	ReasonSubjectOnlyPredicate     = "subject_bound_only_as_predicate"
	ReasonBacktickPredicate        = "predicate_contains_backtick"
	ReasonBacktickTypeIRI          = "type_iri_contains_backtick"
	ReasonMultipleVarPredicates    = "multiple_variable_predicates_in_bgp"
	ReasonEmptyBGP                 = "empty_bgp"
	ReasonGroupInputNotBGP         = "group_input_not_bgp"
	ReasonHavingNotPushedDown      = "having_not_pushed_down"
	ReasonFilterExprUnsupported    = "filter_expression_unsupported"
	ReasonFilterOverUnion          = "filter_over_union_unsupported"
	ReasonUnionColumnMismatch      = "union_column_mismatch"
	ReasonProjectionIncomplete     = "projection_incomplete"
	ReasonOptionalOverGroupOrUnion = "optional_over_group_unsupported"
	ReasonOptionalNotBGP            = "optional_branch_not_bgp"
	ReasonOptionalVariablePredicate = "optional_branch_has_variable_predicate"
	ReasonGroupVariablePredicate    = "group_input_has_variable_predicate"
)
