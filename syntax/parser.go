package syntax

import (
	"bufio"
	"io"

	"matcha/ast"
	"matcha/report"
)

// Parser is the parser for a Matcha script: a recursive descent parser that
// moves over the token stream one token at a time and decides what to parse
// based on the token it is currently positioned on.  All parsing functions
// assume that they begin with the parser centered on the first token of their
// production and consume all tokens (including the last) of their production,
// leaving the parser on the next token.  Parsers are created once per script.
type Parser struct {
	// lexer is the Lexer this parser is using to lex the script.
	lexer *Lexer

	// tok is the current token the parser is positioned on.
	tok *Token
}

// NewParser creates a new parser reading from r.
func NewParser(r *bufio.Reader) *Parser {
	return &Parser{lexer: NewLexer(r)}
}

// Parse parses a whole script from r.
func Parse(r io.Reader) (*ast.Script, error) {
	return NewParser(bufio.NewReader(r)).Parse()
}

// Parse parses the script the parser was created over.  On failure it returns
// a *report.CompileError describing the first syntax error encountered.
func (p *Parser) Parse() (script *ast.Script, err error) {
	// Parsing raises syntax errors via panic so that the grammar functions
	// don't have to thread an error return through every production; the
	// errors become ordinary return values here at the public boundary.
	defer func() {
		if x := recover(); x != nil {
			if ce, ok := x.(*report.CompileError); ok {
				script = nil
				err = ce
				return
			}

			panic(x)
		}
	}()

	p.next()

	var stmts []ast.ASTStmt
	start := p.tok.Span
	for !p.got(TOK_EOF) {
		stmts = append(stmts, p.parseStmt())
	}

	return &ast.Script{
		ASTBase: ast.NewASTBaseOver(start, p.tok.Span),
		Stmts:   stmts,
	}, nil
}

// -----------------------------------------------------------------------------

// next moves the parser forward one token.
func (p *Parser) next() {
	tok, err := p.lexer.NextToken()
	if err != nil {
		panic(err)
	}

	p.tok = tok
}

// got returns whether the parser is on a token of a given kind.
func (p *Parser) got(kind int) bool {
	return p.tok.Kind == kind
}

// assert rejects the current token if it is not of the given kind.
func (p *Parser) assert(kind int) {
	if !p.got(kind) {
		p.reject()
	}
}

// assertAndNext performs an assert operation and moves the parser forward.
func (p *Parser) assertAndNext(kind int) {
	p.assert(kind)
	p.next()
}

// expect asserts the current token's kind and returns it, moving the parser
// forward past it.
func (p *Parser) expect(kind int) *Token {
	p.assert(kind)

	tok := p.tok
	p.next()
	return tok
}

// -----------------------------------------------------------------------------

// reject aborts parsing with an unexpected token error on the current token.
func (p *Parser) reject() {
	if p.got(TOK_EOF) {
		panic(report.Raise(report.ErrSyntax, p.tok.Span, "unexpected end of file"))
	}

	panic(report.Raise(report.ErrSyntax, p.tok.Span, "unexpected token: `%s`", p.tok.Value))
}

// rejectWithMsg aborts parsing with a specific message on the current token.
func (p *Parser) rejectWithMsg(msg string, args ...interface{}) {
	panic(report.Raise(report.ErrSyntax, p.tok.Span, msg, args...))
}
