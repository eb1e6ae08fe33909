package syntax

import (
	"matcha/ast"
)

// parseStmt parses a single statement.
//
// stmt := block | if_stmt | while_loop | for_loop | simple_stmt ';' ;
func (p *Parser) parseStmt() ast.ASTStmt {
	switch p.tok.Kind {
	case TOK_LBRACE:
		return p.parseBlock()
	case TOK_IF:
		return p.parseIfStmt()
	case TOK_WHILE:
		return p.parseWhileLoop()
	case TOK_FOR:
		return p.parseForLoop()
	default:
		stmt := p.parseSimpleStmt()
		p.assertAndNext(TOK_SEMI)
		return stmt
	}
}

// parseBlock parses a braced statement block.
//
// block := '{' stmt* '}' ;
func (p *Parser) parseBlock() *ast.Block {
	start := p.expect(TOK_LBRACE).Span

	var stmts []ast.ASTStmt
	for !p.got(TOK_RBRACE) {
		stmts = append(stmts, p.parseStmt())
	}

	end := p.expect(TOK_RBRACE).Span

	return &ast.Block{
		StmtBase: ast.StmtBase{ASTBase: ast.NewASTBaseOver(start, end)},
		Stmts:    stmts,
	}
}

// -----------------------------------------------------------------------------

// parseSimpleStmt parses an assignment or an expression statement.  The two
// productions cannot be distinguished until after the first identifier, so a
// statement beginning with an identifier is parsed speculatively: if the next
// token is `,` or `=` it is an assignment, otherwise the identifier becomes
// the leading operand of an expression.
//
// simple_stmt := assignment | expr_stmt ;
// assignment := IDENT (',' IDENT)* '=' expr ;
// expr_stmt := expr ;
func (p *Parser) parseSimpleStmt() ast.ASTStmt {
	if p.got(TOK_IDENT) {
		first := p.tok
		p.next()

		if p.got(TOK_COMMA) || p.got(TOK_ASSIGN) {
			return p.parseAssignment(first)
		}

		// Not an assignment: resume expression parsing with the identifier
		// as the leading operand.
		lead := p.parseTrailers(p.finishIdentOperand(first))
		expr := p.parseBinaryRHS(lead, 0)

		return &ast.ExprStmt{
			StmtBase: ast.StmtBase{ASTBase: ast.NewASTBaseOn(expr.Span())},
			Expr:     expr,
		}
	}

	expr := p.parseExpr()
	return &ast.ExprStmt{
		StmtBase: ast.StmtBase{ASTBase: ast.NewASTBaseOn(expr.Span())},
		Expr:     expr,
	}
}

// parseAssignment parses the remainder of an assignment statement whose first
// target token has already been consumed.
func (p *Parser) parseAssignment(first *Token) *ast.Assignment {
	targets := []*ast.Identifier{identFromToken(first)}

	for p.got(TOK_COMMA) {
		p.next()
		targets = append(targets, identFromToken(p.expect(TOK_IDENT)))
	}

	p.assertAndNext(TOK_ASSIGN)

	rhs := p.parseExpr()

	return &ast.Assignment{
		StmtBase: ast.StmtBase{ASTBase: ast.NewASTBaseOver(first.Span, rhs.Span())},
		Targets:  targets,
		RHS:      rhs,
	}
}

// identFromToken builds an identifier node from an identifier token.
func identFromToken(tok *Token) *ast.Identifier {
	return &ast.Identifier{
		ExprBase: ast.ExprBase{ASTBase: ast.NewASTBaseOn(tok.Span)},
		Name:     tok.Value,
	}
}

// -----------------------------------------------------------------------------

// parseIfStmt parses an if statement.
//
// if_stmt := 'if' '(' expr ')' block ('else' (block | if_stmt))? ;
func (p *Parser) parseIfStmt() *ast.IfStmt {
	start := p.expect(TOK_IF).Span

	p.assertAndNext(TOK_LPAREN)
	cond := p.parseExpr()
	p.assertAndNext(TOK_RPAREN)

	then := p.parseBlock()
	end := then.Span()

	var els *ast.Block
	if p.got(TOK_ELSE) {
		p.next()

		// An `else if` chain nests as an else block containing a single if
		// statement.
		if p.got(TOK_IF) {
			nested := p.parseIfStmt()
			els = &ast.Block{
				StmtBase: ast.StmtBase{ASTBase: ast.NewASTBaseOn(nested.Span())},
				Stmts:    []ast.ASTStmt{nested},
			}
		} else {
			els = p.parseBlock()
		}

		end = els.Span()
	}

	return &ast.IfStmt{
		StmtBase: ast.StmtBase{ASTBase: ast.NewASTBaseOver(start, end)},
		Cond:     cond,
		Then:     then,
		Else:     els,
	}
}

// parseWhileLoop parses a while loop.
//
// while_loop := 'while' '(' expr ')' block ;
func (p *Parser) parseWhileLoop() *ast.WhileLoop {
	start := p.expect(TOK_WHILE).Span

	p.assertAndNext(TOK_LPAREN)
	cond := p.parseExpr()
	p.assertAndNext(TOK_RPAREN)

	body := p.parseBlock()

	return &ast.WhileLoop{
		StmtBase: ast.StmtBase{ASTBase: ast.NewASTBaseOver(start, body.Span())},
		Cond:     cond,
		Body:     body,
	}
}

// parseForLoop parses a range for loop.
//
// for_loop := 'for' '(' IDENT 'in' expr ':' expr (':' expr)? ')' block ;
func (p *Parser) parseForLoop() *ast.ForLoop {
	start := p.expect(TOK_FOR).Span

	p.assertAndNext(TOK_LPAREN)
	iter := p.expect(TOK_IDENT)
	p.assertAndNext(TOK_IN)

	from := p.parseExpr()
	p.assertAndNext(TOK_COLON)
	to := p.parseExpr()

	var step ast.ASTExpr
	if p.got(TOK_COLON) {
		p.next()
		step = p.parseExpr()
	}

	p.assertAndNext(TOK_RPAREN)

	body := p.parseBlock()

	return &ast.ForLoop{
		StmtBase: ast.StmtBase{ASTBase: ast.NewASTBaseOver(start, body.Span())},
		IterName: iter.Value,
		IterSpan: iter.Span,
		Start:    from,
		End:      to,
		Step:     step,
		Body:     body,
	}
}
