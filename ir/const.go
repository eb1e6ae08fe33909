package ir

import (
	"fmt"
	"strconv"
)

// ConstValue is the literal payload of a constant operation.  The Kind field
// selects which payload field is meaningful.
type ConstValue struct {
	// The scalar kind of the constant.
	Kind ScalarKind

	// The payload fields.  Exactly one is meaningful based on Kind.
	I int64
	F float64
	B bool
	S string
}

// IntConst creates a constant payload of an integer kind.
func IntConst(kind ScalarKind, v int64) ConstValue {
	return ConstValue{Kind: kind, I: v}
}

// FloatConst creates a constant payload of a floating-point kind.
func FloatConst(kind ScalarKind, v float64) ConstValue {
	return ConstValue{Kind: kind, F: v}
}

// BoolConst creates a boolean constant payload.
func BoolConst(v bool) ConstValue {
	return ConstValue{Kind: KindBool, B: v}
}

// StrConst creates a string constant payload.
func StrConst(v string) ConstValue {
	return ConstValue{Kind: KindStr, S: v}
}

func (cv ConstValue) Repr() string {
	switch {
	case cv.Kind == KindBool:
		return strconv.FormatBool(cv.B)
	case cv.Kind == KindStr:
		return strconv.Quote(cv.S)
	case cv.Kind.IsFloat():
		return strconv.FormatFloat(cv.F, 'g', -1, 64)
	default:
		return fmt.Sprintf("%d", cv.I)
	}
}

// -----------------------------------------------------------------------------

// ConstantOp materializes a literal value of scalar type.
type ConstantOp struct {
	OpBase

	// The literal payload of the constant.
	Lit ConstValue
}

// NewConstantOp creates a new constant operation for the given payload.
// Constant construction never fails.
func NewConstantOp(lit ConstValue) *ConstantOp {
	op := &ConstantOp{Lit: lit}
	op.init(op, nil, ScalarType{Kind: lit.Kind})
	return op
}

func (op *ConstantOp) OpName() string {
	return "constant"
}

// Fold returns the compile-time value of the constant: its own embedded
// literal.  Folding is idempotent; no other operation kind folds.
func (op *ConstantOp) Fold() ConstValue {
	return op.Lit
}

// FoldToConstant returns the literal payload of v if it was produced by a
// constant operation.
func FoldToConstant(v *Value) (ConstValue, bool) {
	if cop, ok := v.DefOp().(*ConstantOp); ok {
		return cop.Fold(), true
	}

	return ConstValue{}, false
}
