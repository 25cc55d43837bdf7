// Package algebra models the closed set of SPARQL algebra operators this
// adapter intercepts (§6.1, §9 "Polymorphic operator tree"): BGP, OPTIONAL,
// UNION, FILTER, GROUP, and a terminal Project. It is a tagged variant
// rather than an inheritance hierarchy, matching the design note that the
// operator set is closed and the compiler is a recursive function over it.
package algebra

import rc "github.com/okulmus/rdf2cypher"

// Operator is the sealed interface every algebra node implements. The set
// of permitted implementations is exactly {BGP, Optional, Union, Filter,
// Group, Project}; compiler.Compile type-switches over it exhaustively.
type Operator interface {
	operatorNode()
}

// BGP is a Basic Graph Pattern: a conjunction of triple patterns sharing
// variables (§4.6).
type BGP struct {
	Patterns []rc.Pattern
}

func (BGP) operatorNode() {}

// Optional pairs a required sub-operator with an optional one; variables
// bound only by Opt are unbound (NULL) in rows where Opt did not match
// (§4.7.1).
type Optional struct {
	Required Operator
	Opt      Operator
}

func (Optional) operatorNode() {}

// Union is the disjunction of two sub-operators, compiled to Cypher's
// UNION ALL (§4.7.2).
type Union struct {
	Left  Operator
	Right Operator
}

func (Union) operatorNode() {}

// Filter applies a boolean Expr over Input's bindings (§4.7.3).
type Filter struct {
	Input Operator
	Expr  Expr
}

func (Filter) operatorNode() {}

// Group applies GROUP BY semantics with a set of aggregate projections
// over Input, which MUST be a BGP (else the compiler falls back) (§4.7.4).
type Group struct {
	Input      Operator
	GroupVars  []string
	Aggregates []Aggregate
}

func (Group) operatorNode() {}

// Project is the terminal stage naming the variables the host engine wants
// bound in the result (§6.1).
type Project struct {
	Input Operator
	Vars  []string
}

func (Project) operatorNode() {}

// AggregateFunc enumerates the aggregate functions §4.7.4 allows pushing
// down.
type AggregateFunc string

const (
	AggCount AggregateFunc = "COUNT"
	AggSum   AggregateFunc = "SUM"
	AggAvg   AggregateFunc = "AVG"
	AggMin   AggregateFunc = "MIN"
	AggMax   AggregateFunc = "MAX"
)

// Aggregate is one GROUP projection: Func(Var) AS As, or — when CountStar
// is set — COUNT(*) AS As.
type Aggregate struct {
	Func      AggregateFunc
	Var       string
	Distinct  bool
	CountStar bool
	As        string
}

// Expr is the FILTER expression AST (§4.7.3's translatable sub-grammar).
type Expr interface {
	exprNode()
}

// CompareOp enumerates the comparison operators §4.7.3 allows pushing down.
type CompareOp string

const (
	OpLT CompareOp = "<"
	OpLE CompareOp = "<="
	OpGT CompareOp = ">"
	OpGE CompareOp = ">="
	OpEQ CompareOp = "="
	OpNE CompareOp = "!="
)

// Compare is a binary comparison between two operands.
type Compare struct {
	Op    CompareOp
	Left  Operand
	Right Operand
}

func (Compare) exprNode() {}

// And is a logical conjunction (SPARQL &&).
type And struct {
	Left  Expr
	Right Expr
}

func (And) exprNode() {}

// Or is a logical disjunction (SPARQL ||).
type Or struct {
	Left  Expr
	Right Expr
}

func (Or) exprNode() {}

// Not is logical negation (SPARQL !).
type Not struct {
	Inner Expr
}

func (Not) exprNode() {}

// Operand is one side of a Compare: a bound variable or a literal constant.
type Operand interface {
	operandNode()
}

// VarOperand references a variable from the enclosing pattern.
type VarOperand struct {
	Name string
}

func (VarOperand) operandNode() {}

// NumberOperand is a numeric literal constant.
type NumberOperand struct {
	Value float64
}

func (NumberOperand) operandNode() {}

// StringOperand is a string literal constant.
type StringOperand struct {
	Value string
}

func (StringOperand) operandNode() {}

// BoolOperand is a boolean literal constant.
type BoolOperand struct {
	Value bool
}

func (BoolOperand) operandNode() {}
