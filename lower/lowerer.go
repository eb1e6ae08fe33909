package lower

import (
	"matcha/ast"
	"matcha/builtins"
	"matcha/ir"
	"matcha/report"
)

// Lowerer is the construct responsible for converting a parsed script into an
// IR module.  It performs a single depth-first pass over the AST, threading
// the current insertion region and the symbol table through the traversal.
type Lowerer struct {
	// The builder receiving newly created operations.
	b *ir.Builder

	// The scoped variable bindings of the compilation.
	symbols *SymbolTable

	// The external script parameter set: parameter name to textual default.
	params map[string]string

	// The builtin catalog used to resolve call expressions.
	registry *builtins.Registry
}

// Lower compiles a parsed script into an IR module.  Compilation is a pure
// function of its inputs: it performs no I/O, and lowering the same script
// and parameter set twice yields structurally identical IR.  On failure it
// returns a *report.CompileError describing the first error encountered in
// traversal order.  A nil registry selects the standard builtin catalog.
func Lower(name string, script *ast.Script, params map[string]string, registry *builtins.Registry) (mod *ir.Module, err error) {
	if registry == nil {
		registry = builtins.StandardRegistry()
	}

	l := &Lowerer{
		b:        ir.NewBuilder(name),
		symbols:  NewSymbolTable(),
		params:   params,
		registry: registry,
	}

	// Lowering raises compile errors via panic so that the visitor doesn't
	// have to thread an error return through every case; the errors become
	// ordinary return values here at the public boundary.
	defer func() {
		if x := recover(); x != nil {
			if ce, ok := x.(*report.CompileError); ok {
				mod = nil
				err = ce
				return
			}

			panic(x)
		}
	}()

	l.symbols.PushScope()
	for _, stmt := range script.Stmts {
		l.lowerStmt(stmt)
	}
	l.popScope()

	return l.b.Module(), nil
}

// -----------------------------------------------------------------------------

// raise aborts lowering with a compile error at the given span.
func (l *Lowerer) raise(kind report.ErrorKind, span *report.TextSpan, msg string, args ...interface{}) {
	panic(report.Raise(kind, span, msg, args...))
}

// check aborts lowering if a construction error occurred, attaching the span
// of the offending construct.
func (l *Lowerer) check(err *report.CompileError, span *report.TextSpan) {
	if err != nil {
		panic(err.WithSpan(span))
	}
}

// popScope pops the innermost scope.  An underflow here is a bug in the
// traversal, not an input error.
func (l *Lowerer) popScope() {
	if err := l.symbols.PopScope(); err != nil {
		panic(err)
	}
}

// mustBool verifies that a condition value is a boolean scalar.
func (l *Lowerer) mustBool(v *ir.Value, span *report.TextSpan) {
	if !ir.TypesEqual(v.Type(), ir.ScalarType{Kind: ir.KindBool}) {
		l.raise(report.ErrTypeError, span, "condition must be a boolean scalar, not `%s`", v.Type().Repr())
	}
}
