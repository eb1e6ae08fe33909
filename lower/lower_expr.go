package lower

import (
	"fmt"
	"strconv"

	"matcha/ast"
	"matcha/ir"
	"matcha/report"
)

// Table mapping AST binary operator kinds onto IR elementwise op kinds.
// OpMatMul is absent: it lowers to a dedicated operation.
var binOpKinds = map[int]int{
	ast.OpAdd: ir.BinAdd,
	ast.OpSub: ir.BinSub,
	ast.OpMul: ir.BinMul,
	ast.OpDiv: ir.BinDiv,
	ast.OpMod: ir.BinMod,
	ast.OpPow: ir.BinPow,
	ast.OpEq:  ir.BinEq,
	ast.OpNeq: ir.BinNeq,
	ast.OpLt:  ir.BinLt,
	ast.OpLe:  ir.BinLe,
	ast.OpGt:  ir.BinGt,
	ast.OpGe:  ir.BinGe,
	ast.OpAnd: ir.BinAnd,
	ast.OpOr:  ir.BinOr,
}

// lowerExpr lowers an expression to a single value.  Calls used in value
// position must produce exactly one result.
func (l *Lowerer) lowerExpr(expr ast.ASTExpr) *ir.Value {
	switch v := expr.(type) {
	case *ast.Literal:
		return l.lowerLiteral(v)
	case *ast.Identifier:
		value, ok := l.symbols.Lookup(v.Name)
		if !ok {
			l.raise(report.ErrUndefinedVariable, v.Span(), "variable `%s` is not defined", v.Name)
		}

		return value
	case *ast.ArgRef:
		return l.lowerArgRef(v)
	case *ast.BinaryOp:
		return l.lowerBinaryOp(v)
	case *ast.UnaryOp:
		return l.lowerUnaryOp(v)
	case *ast.Cast:
		return l.lowerCast(v)
	case *ast.Index:
		return l.lowerIndex(v)
	case *ast.Call:
		results := l.lowerCall(v)
		if len(results) != 1 {
			l.raise(report.ErrArityMismatch, v.Span(),
				"call of `%s` used as a value must produce exactly one result, not %d",
				v.Name, len(results))
		}

		return results[0]
	default:
		panic(fmt.Sprintf("unsupported expression node: %T", expr))
	}
}

// lowerExprMulti lowers an expression to its full result list.  Only calls
// can produce a count other than one.
func (l *Lowerer) lowerExprMulti(expr ast.ASTExpr) []*ir.Value {
	if call, ok := expr.(*ast.Call); ok {
		return l.lowerCall(call)
	}

	return []*ir.Value{l.lowerExpr(expr)}
}

// -----------------------------------------------------------------------------

// lowerLiteral materializes a literal as a constant.  Integer literals are
// si64, float literals f64.
func (l *Lowerer) lowerLiteral(lit *ast.Literal) *ir.Value {
	switch lit.Kind {
	case ast.LitInt:
		n, err := strconv.ParseInt(lit.Value, 10, 64)
		if err != nil {
			l.raise(report.ErrTypeError, lit.Span(), "integer literal `%s` out of range", lit.Value)
		}

		return l.b.Constant(ir.IntConst(ir.KindSI64, n))
	case ast.LitFloat:
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			l.raise(report.ErrTypeError, lit.Span(), "float literal `%s` out of range", lit.Value)
		}

		return l.b.Constant(ir.FloatConst(ir.KindF64, f))
	case ast.LitBool:
		return l.b.Constant(ir.BoolConst(lit.Value == "true"))
	case ast.LitString:
		return l.b.Constant(ir.StrConst(lit.Value))
	default:
		panic(fmt.Sprintf("unsupported literal kind: %d", lit.Kind))
	}
}

// lowerArgRef materializes a script parameter reference as a constant typed
// by the textual form of its supplied value: integers become si64, decimals
// f64, `true`/`false` bool, and anything else a string.
func (l *Lowerer) lowerArgRef(ref *ast.ArgRef) *ir.Value {
	text, ok := l.params[ref.Name]
	if !ok {
		l.raise(report.ErrUndefinedParameter, ref.Span(), "script parameter `$%s` was not supplied", ref.Name)
	}

	return l.b.Constant(constFromText(text))
}

// constFromText infers a constant from the textual form of a parameter value.
func constFromText(text string) ir.ConstValue {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return ir.IntConst(ir.KindSI64, n)
	}

	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return ir.FloatConst(ir.KindF64, f)
	}

	if text == "true" || text == "false" {
		return ir.BoolConst(text == "true")
	}

	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}

	return ir.StrConst(text)
}

// -----------------------------------------------------------------------------

// lowerBinaryOp lowers a binary operator application.  Operands are lowered
// left-to-right.
func (l *Lowerer) lowerBinaryOp(bop *ast.BinaryOp) *ir.Value {
	lhs := l.lowerExpr(bop.Lhs)
	rhs := l.lowerExpr(bop.Rhs)

	if bop.Op == ast.OpMatMul {
		result, err := l.b.MatMul(lhs, rhs)
		l.check(err, bop.Span())
		return result
	}

	kind, ok := binOpKinds[bop.Op]
	if !ok {
		panic(fmt.Sprintf("unsupported binary operator kind: %d", bop.Op))
	}

	result, err := l.b.ElemBinary(kind, lhs, rhs)
	l.check(err, bop.Span())
	return result
}

// lowerUnaryOp lowers a unary operator application.
func (l *Lowerer) lowerUnaryOp(uop *ast.UnaryOp) *ir.Value {
	operand := l.lowerExpr(uop.Operand)

	var kind int
	switch uop.Op {
	case ast.OpNeg:
		kind = ir.UnNeg
	case ast.OpNot:
		kind = ir.UnNot
	default:
		panic(fmt.Sprintf("unsupported unary operator kind: %d", uop.Op))
	}

	result, err := l.b.ElemUnary(kind, operand)
	l.check(err, uop.Span())
	return result
}

// lowerCast lowers an explicit `as.<type>` cast.
func (l *Lowerer) lowerCast(cast *ast.Cast) *ir.Value {
	src := l.lowerExpr(cast.Src)

	kind, ok := ir.ScalarKindNamed(cast.Target)
	if !ok {
		l.raise(report.ErrTypeError, cast.Span(), "unknown type name `%s`", cast.Target)
	}

	result, err := l.b.Cast(src, kind)
	l.check(err, cast.Span())
	return result
}

// lowerIndex lowers a right-indexing expression.  Omitted indices select the
// full dimension.
func (l *Lowerer) lowerIndex(idx *ast.Index) *ir.Value {
	operand := l.lowerExpr(idx.Operand)

	var row, col *ir.Value
	if idx.Row != nil {
		row = l.lowerExpr(idx.Row)
	}

	if idx.Col != nil {
		col = l.lowerExpr(idx.Col)
	}

	result, err := l.b.Index(operand, row, col)
	l.check(err, idx.Span())
	return result
}

// lowerCall lowers a builtin call, resolving the overload against the lowered
// argument types.
func (l *Lowerer) lowerCall(call *ast.Call) []*ir.Value {
	args := make([]*ir.Value, len(call.Args))
	for i, arg := range call.Args {
		args[i] = l.lowerExpr(arg)
	}

	results, err := l.registry.Resolve(l.b, call.Name, args)
	l.check(err, call.Span())
	return results
}
