package ast

import "matcha/report"

// Block represents a braced list of statements lowered in its own scope.
type Block struct {
	StmtBase

	// The statements of the block.
	Stmts []ASTStmt
}

// -----------------------------------------------------------------------------

// Assignment represents an assignment statement.  A single-target assignment
// binds the target name to the value of the right-hand expression.  A
// multi-target assignment binds each target to the corresponding result of a
// single multi-result call, positionally.
type Assignment struct {
	StmtBase

	// The target names being assigned, in source order.
	Targets []*Identifier

	// The right-hand side expression.
	RHS ASTExpr
}

// ExprStmt represents an expression used as a statement.  Its results are
// discarded; any side effects remain as already-emitted operations.
type ExprStmt struct {
	StmtBase

	Expr ASTExpr
}

// -----------------------------------------------------------------------------

// IfStmt represents an if statement with an optional else block.
type IfStmt struct {
	StmtBase

	// The branch condition.
	Cond ASTExpr

	// The body of the then branch.
	Then *Block

	// The (optional) body of the else branch.
	Else *Block
}

// WhileLoop represents a while loop.
type WhileLoop struct {
	StmtBase

	// The condition of the loop, re-evaluated before every iteration
	// including the zeroth.
	Cond ASTExpr

	// The body of the loop.
	Body *Block
}

// ForLoop represents a range for loop: `for (i in start:end)` or
// `for (i in start:end:step)`.
type ForLoop struct {
	StmtBase

	// The name of the induction variable.  It is scoped to the loop body.
	IterName string

	// The span of the induction variable name.
	IterSpan *report.TextSpan

	// The loop bounds and (optional, may be nil) step.
	Start, End, Step ASTExpr

	// The body of the loop.
	Body *Block
}
