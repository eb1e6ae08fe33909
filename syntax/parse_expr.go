package syntax

import (
	"matcha/ast"
)

// binOpInfo describes a binary operator token: its AST operator kind, its
// precedence, and its associativity.
type binOpInfo struct {
	op         int
	prec       int
	rightAssoc bool
}

// Table mapping binary operator token kinds to their operator info.  Higher
// precedence binds tighter.
var binOps = map[int]binOpInfo{
	TOK_LOR:  {ast.OpOr, 1, false},
	TOK_LAND: {ast.OpAnd, 2, false},

	TOK_EQ:   {ast.OpEq, 3, false},
	TOK_NEQ:  {ast.OpNeq, 3, false},
	TOK_LT:   {ast.OpLt, 3, false},
	TOK_LTEQ: {ast.OpLe, 3, false},
	TOK_GT:   {ast.OpGt, 3, false},
	TOK_GTEQ: {ast.OpGe, 3, false},

	TOK_PLUS:  {ast.OpAdd, 4, false},
	TOK_MINUS: {ast.OpSub, 4, false},

	TOK_STAR: {ast.OpMul, 5, false},
	TOK_DIV:  {ast.OpDiv, 5, false},
	TOK_MOD:  {ast.OpMod, 5, false},

	TOK_AT: {ast.OpMatMul, 6, false},

	TOK_POW: {ast.OpPow, 7, true},
}

// The precedence of the power operator: unary operators bind looser than
// power so that `-x ^ 2` negates the whole power.
const powPrec = 7

// parseExpr parses an expression.
//
// expr := unary_expr (BIN_OP unary_expr)* ;
func (p *Parser) parseExpr() ast.ASTExpr {
	return p.parseBinaryRHS(p.parseUnary(), 0)
}

// parseBinaryRHS parses the operator-and-operand tail of a binary expression
// by precedence climbing: it keeps extending lhs while the next operator
// binds at least as tightly as minPrec.
func (p *Parser) parseBinaryRHS(lhs ast.ASTExpr, minPrec int) ast.ASTExpr {
	for {
		info, ok := binOps[p.tok.Kind]
		if !ok || info.prec < minPrec {
			return lhs
		}

		p.next()

		nextMin := info.prec + 1
		if info.rightAssoc {
			nextMin = info.prec
		}

		rhs := p.parseBinaryRHS(p.parseUnary(), nextMin)

		lhs = &ast.BinaryOp{
			ExprBase: ast.ExprBase{ASTBase: ast.NewASTBaseOver(lhs.Span(), rhs.Span())},
			Op:       info.op,
			Lhs:      lhs,
			Rhs:      rhs,
		}
	}
}

// parseUnary parses a unary expression.
//
// unary_expr := ('-' | '!') unary_expr | atom_expr trailer* ;
func (p *Parser) parseUnary() ast.ASTExpr {
	var op int
	switch p.tok.Kind {
	case TOK_MINUS:
		op = ast.OpNeg
	case TOK_NOT:
		op = ast.OpNot
	default:
		return p.parseTrailers(p.parseAtom())
	}

	start := p.tok.Span
	p.next()

	operand := p.parseBinaryRHS(p.parseUnary(), powPrec)

	return &ast.UnaryOp{
		ExprBase: ast.ExprBase{ASTBase: ast.NewASTBaseOver(start, operand.Span())},
		Op:       op,
		Operand:  operand,
	}
}

// parseTrailers parses any postfix indexing trailers applied to an operand.
//
// trailer := '[' expr? ',' expr? ']' ;
func (p *Parser) parseTrailers(operand ast.ASTExpr) ast.ASTExpr {
	for p.got(TOK_LBRACKET) {
		p.next()

		var row, col ast.ASTExpr
		if !p.got(TOK_COMMA) {
			row = p.parseExpr()
		}

		p.assertAndNext(TOK_COMMA)

		if !p.got(TOK_RBRACKET) {
			col = p.parseExpr()
		}

		end := p.expect(TOK_RBRACKET).Span

		operand = &ast.Index{
			ExprBase: ast.ExprBase{ASTBase: ast.NewASTBaseOver(operand.Span(), end)},
			Operand:  operand,
			Row:      row,
			Col:      col,
		}
	}

	return operand
}

// -----------------------------------------------------------------------------

// parseAtom parses an atomic expression.
//
// atom_expr := literal | ARGREF | IDENT call_args? | cast_expr | '(' expr ')' ;
func (p *Parser) parseAtom() ast.ASTExpr {
	switch p.tok.Kind {
	case TOK_INTLIT:
		return p.parseLiteral(ast.LitInt)
	case TOK_FLOATLIT:
		return p.parseLiteral(ast.LitFloat)
	case TOK_STRINGLIT:
		return p.parseLiteral(ast.LitString)
	case TOK_TRUE, TOK_FALSE:
		return p.parseLiteral(ast.LitBool)
	case TOK_ARGREF:
		tok := p.tok
		p.next()

		return &ast.ArgRef{
			ExprBase: ast.ExprBase{ASTBase: ast.NewASTBaseOn(tok.Span)},
			Name:     tok.Value,
		}
	case TOK_IDENT:
		tok := p.tok
		p.next()
		return p.finishIdentOperand(tok)
	case TOK_AS:
		return p.parseCast()
	case TOK_LPAREN:
		p.next()
		expr := p.parseExpr()
		p.assertAndNext(TOK_RPAREN)
		return expr
	default:
		p.reject()
		return nil
	}
}

// parseLiteral parses the current token as a literal of the given kind.
func (p *Parser) parseLiteral(kind int) *ast.Literal {
	tok := p.tok
	p.next()

	return &ast.Literal{
		ExprBase: ast.ExprBase{ASTBase: ast.NewASTBaseOn(tok.Span)},
		Kind:     kind,
		Value:    tok.Value,
	}
}

// finishIdentOperand builds the operand beginning with an already-consumed
// identifier token: a call if the parser is on `(`, a plain identifier
// otherwise.
func (p *Parser) finishIdentOperand(tok *Token) ast.ASTExpr {
	if !p.got(TOK_LPAREN) {
		return identFromToken(tok)
	}

	p.next()

	var args []ast.ASTExpr
	if !p.got(TOK_RPAREN) {
		args = append(args, p.parseExpr())
		for p.got(TOK_COMMA) {
			p.next()
			args = append(args, p.parseExpr())
		}
	}

	end := p.expect(TOK_RPAREN).Span

	return &ast.Call{
		ExprBase: ast.ExprBase{ASTBase: ast.NewASTBaseOver(tok.Span, end)},
		Name:     tok.Value,
		Args:     args,
	}
}

// parseCast parses an explicit cast expression.
//
// cast_expr := 'as' '.' IDENT '(' expr ')' ;
func (p *Parser) parseCast() *ast.Cast {
	start := p.expect(TOK_AS).Span
	p.assertAndNext(TOK_DOT)

	target := p.expect(TOK_IDENT)

	p.assertAndNext(TOK_LPAREN)
	src := p.parseExpr()
	end := p.expect(TOK_RPAREN).Span

	return &ast.Cast{
		ExprBase: ast.ExprBase{ASTBase: ast.NewASTBaseOver(start, end)},
		Target:   target.Value,
		Src:      src,
	}
}
