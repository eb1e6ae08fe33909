package ast

import "matcha/report"

// ASTNode is the abstract interface for all AST nodes.
type ASTNode interface {
	// Span returns the text span of the AST node.
	Span() *report.TextSpan
}

// ASTExpr is the interface for all AST expression nodes.  The lowerer performs
// an exhaustive case analysis over the concrete types implementing this
// interface: adding a new expression kind requires a case in the lowerer.
type ASTExpr interface {
	ASTNode

	// exprNode distinguishes expressions from other AST nodes.
	exprNode()
}

// ASTStmt is the interface for all AST statement nodes.
type ASTStmt interface {
	ASTNode

	// stmtNode distinguishes statements from other AST nodes.
	stmtNode()
}

// -----------------------------------------------------------------------------

// ASTBase is a utility base struct for all AST nodes.
type ASTBase struct {
	// The span over which the AST node occurs.
	span *report.TextSpan
}

// NewASTBaseOn creates a new AST base with the given span.
func NewASTBaseOn(span *report.TextSpan) ASTBase {
	return ASTBase{span: span}
}

// NewASTBaseOver creates a new AST base spanning over two spans.
func NewASTBaseOver(start, end *report.TextSpan) ASTBase {
	return ASTBase{span: report.NewSpanOver(start, end)}
}

func (ab ASTBase) Span() *report.TextSpan {
	return ab.span
}

// ExprBase is the base struct for all expression nodes.
type ExprBase struct {
	ASTBase
}

func (eb ExprBase) exprNode() {}

// StmtBase is the base struct for all statement nodes.
type StmtBase struct {
	ASTBase
}

func (sb StmtBase) stmtNode() {}

// -----------------------------------------------------------------------------

// Script represents a whole parsed Matcha script: a sequence of statements
// lowered in textual order inside one top-level scope.
type Script struct {
	ASTBase

	// The statements of the script.
	Stmts []ASTStmt
}
