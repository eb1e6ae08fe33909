package syntax

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"matcha/report"
)

// Lexer is responsible for tokenizing a source file.
type Lexer struct {
	file    *bufio.Reader
	tokBuff *strings.Builder

	line, col           int
	startLine, startCol int
}

// NewLexer creates a new lexer for the given source file.
func NewLexer(file *bufio.Reader) *Lexer {
	return &Lexer{
		file:    file,
		tokBuff: &strings.Builder{},
		line:    0,
		col:     0,
	}
}

// NextToken retrieves the next token from the input file.  If the file has
// ended, this will be an EOF token.
func (l *Lexer) NextToken() (*Token, *report.CompileError) {
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			break
		}

		switch c {
		case '\n', '\t', ' ', '\r', '\v', '\f':
			l.skip()
		case '/':
			if tok, err := l.lexCommentOrDiv(); tok != nil || err != nil {
				return tok, err
			}
		case '#':
			for ; err == nil && c != '\n' && c != -1; c, err = l.skip() {
			}

			if err != nil {
				return nil, err
			}
		case '"':
			return l.lexStringLit()
		case '$':
			return l.lexArgRef()
		default:
			if isDecimalDigit(c) {
				return l.lexNumericLit()
			} else if isFirstIdentChar(c) {
				return l.lexIdentOrKeyword()
			} else {
				return l.lexPunctOrOper()
			}
		}
	}

	l.mark()
	return l.makeToken(TOK_EOF), nil
}

// -----------------------------------------------------------------------------

// symbolPatterns maps symbol strings (patterns) to their punctuation/operator
// token kind.
var symbolPatterns = map[string]int{
	"+": TOK_PLUS,
	"-": TOK_MINUS,
	"*": TOK_STAR,
	// Division operator is handled with comment logic.
	"%": TOK_MOD,
	"^": TOK_POW,
	"@": TOK_AT,

	"==": TOK_EQ,
	"!=": TOK_NEQ,
	"<":  TOK_LT,
	"<=": TOK_LTEQ,
	">":  TOK_GT,
	">=": TOK_GTEQ,

	"&&": TOK_LAND,
	"||": TOK_LOR,
	"!":  TOK_NOT,

	"=": TOK_ASSIGN,

	"(": TOK_LPAREN,
	")": TOK_RPAREN,
	"{": TOK_LBRACE,
	"}": TOK_RBRACE,
	"[": TOK_LBRACKET,
	"]": TOK_RBRACKET,
	",": TOK_COMMA,
	".": TOK_DOT,
	";": TOK_SEMI,
	":": TOK_COLON,
}

// lexPunctOrOper lexes a punctuation or operator symbol.
func (l *Lexer) lexPunctOrOper() (*Token, *report.CompileError) {
	l.mark()
	l.eat()

	// A single `&` or `|` is not a symbol on its own, so the unknown-rune
	// check waits until no longer symbol can be formed.
	kind, ok := symbolPatterns[l.tokBuff.String()]

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		if c == -1 {
			break
		}

		if _kind, extends := symbolPatterns[l.tokBuff.String()+string(c)]; extends {
			l.eat()
			kind = _kind
			ok = true
		} else {
			break
		}
	}

	if !ok {
		return nil, report.Raise(report.ErrSyntax, l.getSpan(), "unknown rune `%s`", l.tokBuff.String())
	}

	return l.makeToken(kind), nil
}

// -----------------------------------------------------------------------------

// keywordPatterns maps keyword strings (patterns) to their keyword token kind.
var keywordPatterns = map[string]int{
	"if":    TOK_IF,
	"else":  TOK_ELSE,
	"while": TOK_WHILE,
	"for":   TOK_FOR,
	"in":    TOK_IN,
	"as":    TOK_AS,

	"true":  TOK_TRUE,
	"false": TOK_FALSE,
}

// lexIdentOrKeyword lexes an identifier or a keyword.
func (l *Lexer) lexIdentOrKeyword() (*Token, *report.CompileError) {
	l.mark()
	l.eat()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if !isFirstIdentChar(c) && !isDecimalDigit(c) {
			break
		}

		l.eat()
	}

	var kind int
	if _kind, ok := keywordPatterns[l.tokBuff.String()]; ok {
		kind = _kind
	} else {
		kind = TOK_IDENT
	}

	return l.makeToken(kind), nil
}

// lexArgRef lexes a script parameter reference: `$` followed by an
// identifier.  The `$` is not part of the token value.
func (l *Lexer) lexArgRef() (*Token, *report.CompileError) {
	l.mark()
	l.skip()

	c, err := l.peek()
	if err != nil {
		return nil, err
	} else if !isFirstIdentChar(c) {
		return nil, report.Raise(report.ErrSyntax, l.getSpan(), "expected parameter name after `$`")
	}

	for {
		l.eat()

		c, err = l.peek()
		if err != nil {
			return nil, err
		} else if !isFirstIdentChar(c) && !isDecimalDigit(c) {
			break
		}
	}

	return l.makeToken(TOK_ARGREF), nil
}

// -----------------------------------------------------------------------------

// lexNumericLit lexes a decimal integer or floating-point literal.
func (l *Lexer) lexNumericLit() (*Token, *report.CompileError) {
	l.mark()
	l.eat()

	var isFloat, hasExp, expectNeg, mustHaveDigit bool

numLexLoop:
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			break
		}

		switch c {
		case '.':
			if mustHaveDigit || isFloat {
				break numLexLoop
			}

			l.eat()

			isFloat = true
			mustHaveDigit = true
			continue
		case 'e', 'E':
			if mustHaveDigit || hasExp {
				break numLexLoop
			}

			l.eat()

			isFloat = true
			hasExp = true
			expectNeg = true
			mustHaveDigit = true
			continue
		case '-':
			if mustHaveDigit || !expectNeg {
				break numLexLoop
			}

			l.eat()

			expectNeg = false
			continue
		default:
			if isDecimalDigit(c) {
				l.eat()
				expectNeg = false
			} else {
				break numLexLoop
			}
		}

		mustHaveDigit = false
	}

	if mustHaveDigit {
		return nil, report.Raise(report.ErrSyntax, l.getSpan(), "incomplete numeric literal")
	}

	if isFloat {
		return l.makeToken(TOK_FLOATLIT), nil
	}

	return l.makeToken(TOK_INTLIT), nil
}

// -----------------------------------------------------------------------------

// lexStringLit lexes a standard string literal.
func (l *Lexer) lexStringLit() (*Token, *report.CompileError) {
	l.mark()
	l.skip()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		switch c {
		case -1:
			return nil, report.Raise(report.ErrSyntax, l.getSpan(), "unclosed string literal")
		case '"':
			l.skip()
			return l.makeToken(TOK_STRINGLIT), nil
		case '\\':
			l.eat()
			if err = l.eatEscapeSequence(); err != nil {
				return nil, err
			}
		case '\n':
			return nil, report.Raise(report.ErrSyntax, l.getSpan(), "string cannot contain a newline")
		default:
			l.eat()
		}
	}
}

// eatEscapeSequence attempts to consume an escape sequence.  This assumes the
// leading `\` has already been consumed.
func (l *Lexer) eatEscapeSequence() *report.CompileError {
	c, err := l.eat()
	if err != nil {
		return err
	}

	switch c {
	case -1:
		return report.Raise(report.ErrSyntax, l.getSpan(), "expected escape sequence not end of file")
	case 'n', 'r', 't', '0', '\\', '"':
		return nil
	default:
		return report.Raise(report.ErrSyntax, l.getSpan(), "unknown escape sequence: `\\%c`", c)
	}
}

// -----------------------------------------------------------------------------

// lexCommentOrDiv lexes a comment or a division token.
func (l *Lexer) lexCommentOrDiv() (*Token, *report.CompileError) {
	l.mark()
	l.skip()

	c, err := l.peek()
	if err != nil {
		return nil, err
	}

	switch c {
	case '/':
		for ; err == nil && c != '\n' && c != -1; c, err = l.skip() {
		}

		return nil, err
	case '*':
		// consume the opening `*` so it cannot double as a terminator
		l.skip()

		// The closing `/` may follow any `*` in a run of stars, so every
		// star read counts as a candidate terminator.
		var prev rune
		for {
			c, err = l.skip()
			if err != nil {
				return nil, err
			}

			if c == -1 {
				return nil, report.Raise(report.ErrSyntax, l.getSpan(), "unclosed block comment")
			}

			if prev == '*' && c == '/' {
				return nil, nil
			}

			prev = c
		}
	default:
		tok := l.makeToken(TOK_DIV)
		tok.Value = "/"
		return tok, nil
	}
}

// -----------------------------------------------------------------------------

// mark sets the lexer's stored start line and column to its current position.
func (l *Lexer) mark() {
	l.startLine = l.line
	l.startCol = l.col
}

// makeToken produces a new token of the given kind from the lexer's state and
// resets the lexer to begin building the next token.
func (l *Lexer) makeToken(kind int) *Token {
	value := l.tokBuff.String()
	l.tokBuff.Reset()

	return &Token{
		Kind:  kind,
		Value: value,
		Span:  l.getSpan(),
	}
}

// getSpan calculates a text span based on the lexer's current state.
func (l *Lexer) getSpan() *report.TextSpan {
	return &report.TextSpan{
		StartLine: l.startLine,
		StartCol:  l.startCol,
		EndLine:   l.line,
		EndCol:    l.col,
	}
}

// -----------------------------------------------------------------------------

// eat moves the lexer forward one rune and writes the rune to the token
// buffer.  If the lexer encounters an EOF, -1 is returned as the rune value.
func (l *Lexer) eat() (rune, *report.CompileError) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, report.Raise(report.ErrSyntax, l.getSpan(), "failed to read source text: %s", err)
	}

	l.updatePos(c)
	l.tokBuff.WriteRune(c)

	return c, nil
}

// skip moves the lexer forward one rune but does not write the rune to the
// token buffer.  If the lexer encounters an EOF, -1 is returned as the rune
// value.
func (l *Lexer) skip() (rune, *report.CompileError) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, report.Raise(report.ErrSyntax, l.getSpan(), "failed to read source text: %s", err)
	}

	l.updatePos(c)

	return c, nil
}

// peek returns the next rune in the file without moving the lexer forward or
// writing the rune to the token buffer.  If the lexer encounters an EOF, -1
// is returned as the rune value.
func (l *Lexer) peek() (rune, *report.CompileError) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, report.Raise(report.ErrSyntax, l.getSpan(), "failed to read source text: %s", err)
	}

	if err = l.file.UnreadRune(); err != nil {
		return 0, report.Raise(report.ErrSyntax, l.getSpan(), "failed to read source text: %s", err)
	}

	return c, nil
}

// updatePos updates the lexer's position based on the input character.
func (l *Lexer) updatePos(c rune) {
	switch c {
	case '\n':
		l.line++
		l.col = 0
	case '\t':
		l.col += 4
	default:
		l.col++
	}
}

// -----------------------------------------------------------------------------

// isDecimalDigit returns whether c is a decimal digit.
func isDecimalDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// isFirstIdentChar returns whether c could be the first rune of an identifier.
func isFirstIdentChar(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}
