package syntax

import "matcha/report"

// Token represents a single lexical token.
type Token struct {
	// The kind of the token.  This must be one of the enumerated token kinds.
	Kind int

	// The string value of the token.  This may not directly correspond to its
	// source text: eg. the value of a string token has the leading quotes
	// trimmed off and the value of a parameter reference drops the `$`.
	Value string

	// The text span over which the token exists.
	Span *report.TextSpan
}

// Enumeration of token kinds.
const (
	TOK_IF = iota
	TOK_ELSE
	TOK_WHILE
	TOK_FOR
	TOK_IN
	TOK_AS

	TOK_TRUE
	TOK_FALSE

	TOK_PLUS
	TOK_MINUS
	TOK_STAR
	TOK_DIV
	TOK_MOD
	TOK_POW
	TOK_AT

	TOK_EQ
	TOK_NEQ
	TOK_LT
	TOK_LTEQ
	TOK_GT
	TOK_GTEQ

	TOK_NOT
	TOK_LAND
	TOK_LOR

	TOK_ASSIGN

	TOK_LPAREN
	TOK_RPAREN
	TOK_LBRACE
	TOK_RBRACE
	TOK_LBRACKET
	TOK_RBRACKET
	TOK_COMMA
	TOK_DOT
	TOK_SEMI
	TOK_COLON

	TOK_IDENT
	TOK_ARGREF
	TOK_INTLIT
	TOK_FLOATLIT
	TOK_STRINGLIT

	TOK_EOF
)
