package ast

// Enumeration of literal kinds.
const (
	LitInt = iota
	LitFloat
	LitString
	LitBool
)

// Literal represents a single literal value.
type Literal struct {
	ExprBase

	// Kind must be one of the enumerated literal kinds.
	Kind int

	// The literal's source text (sans quotes for strings).
	Value string
}

// -----------------------------------------------------------------------------

// Identifier represents a named value.
type Identifier struct {
	ExprBase

	Name string
}

// ArgRef represents a reference to an external script parameter: `$name`.
type ArgRef struct {
	ExprBase

	Name string
}

// -----------------------------------------------------------------------------

// Enumeration of binary operator kinds.
const (
	OpAdd = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpMatMul
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

// Enumeration of unary operator kinds.
const (
	OpNeg = iota
	OpNot
)

// BinaryOp represents a binary operator application.
type BinaryOp struct {
	ExprBase

	// Op must be one of the enumerated binary operator kinds.
	Op int

	Lhs, Rhs ASTExpr
}

// UnaryOp represents a unary operator application.
type UnaryOp struct {
	ExprBase

	// Op must be one of the enumerated unary operator kinds.
	Op int

	Operand ASTExpr
}

// -----------------------------------------------------------------------------

// Call represents a builtin function call: `name(arg, ...)`.  Arguments are
// evaluated left-to-right, matching source order.
type Call struct {
	ExprBase

	// The name of the builtin being called.
	Name string

	Args []ASTExpr
}

// Cast represents an explicit type cast: `as.<type>(expr)`.
type Cast struct {
	ExprBase

	// The source name of the target type (eg. `f64`).
	Target string

	Src ASTExpr
}

// Index represents a right-indexing expression: `m[r, c]` where either index
// may be omitted to select all rows or columns.
type Index struct {
	ExprBase

	// The expression being indexed.
	Operand ASTExpr

	// The row and column index expressions.  Either may be nil.
	Row, Col ASTExpr
}
