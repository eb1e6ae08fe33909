package report

import "fmt"

// ErrorKind enumerates the kinds of compile errors the compiler can produce.
// The kind is part of the error value so that callers (and tests) can match on
// it without parsing the message.
type ErrorKind int

// Enumeration of compile error kinds.
const (
	ErrSyntax ErrorKind = iota
	ErrUndefinedVariable
	ErrUndefinedParameter
	ErrScopeUnderflow
	ErrArityMismatch
	ErrTypeError
	ErrNoMatchingOverload
	ErrAmbiguousOverload
)

// Table of error kind labels used when rendering diagnostics.
var errorKindLabels = map[ErrorKind]string{
	ErrSyntax:             "syntax error",
	ErrUndefinedVariable:  "undefined variable",
	ErrUndefinedParameter: "undefined parameter",
	ErrScopeUnderflow:     "scope underflow",
	ErrArityMismatch:      "arity mismatch",
	ErrTypeError:          "type error",
	ErrNoMatchingOverload: "no matching overload",
	ErrAmbiguousOverload:  "ambiguous overload",
}

func (ek ErrorKind) String() string {
	return errorKindLabels[ek]
}

// -----------------------------------------------------------------------------

// CompileError is a structured compilation error: a kind, a human-readable
// message, and the best-known span of erroneous source text.  The span may be
// nil if no position is known (eg. errors produced during operation
// construction before the lowerer attaches a location).
type CompileError struct {
	// The kind of the error.
	Kind ErrorKind

	// The error message.
	Message string

	// The span over which the error occurs.
	Span *TextSpan
}

func (ce *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", ce.Kind, ce.Message)
}

// Raise creates a new compile error of the given kind over the given span.
func Raise(kind ErrorKind, span *TextSpan, msg string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(msg, args...), Span: span}
}

// WithSpan attaches a span to an error if it doesn't already carry one.  The
// receiver is returned to allow chaining at raise sites.
func (ce *CompileError) WithSpan(span *TextSpan) *CompileError {
	if ce.Span == nil {
		ce.Span = span
	}

	return ce
}
