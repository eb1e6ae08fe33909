package ir

import (
	"matcha/report"
)

// Operation represents a single typed IR operation: an ordered list of input
// values, zero or more result values, and operation-specific attributes.  An
// operation is owned by the region it is appended to and lives as long as the
// enclosing module.  Non-constant operations verify their operand types at
// construction time: a failed construction produces no operation at all.
type Operation interface {
	// OpName returns the mnemonic of the operation.
	OpName() string

	// Operands returns the ordered input values of the operation.
	Operands() []*Value

	// Results returns the result values of the operation.
	Results() []*Value
}

// -----------------------------------------------------------------------------

// OpBase is the base struct for all operations.
type OpBase struct {
	operands []*Value
	results  []*Value
}

// init wires up the operands and creates result values back-referencing op.
// It must be called exactly once from each concrete operation constructor.
func (ob *OpBase) init(op Operation, operands []*Value, resultTypes ...Type) {
	ob.operands = operands

	ob.results = make([]*Value, len(resultTypes))
	for i, typ := range resultTypes {
		ob.results[i] = &Value{typ: typ, def: op}
	}
}

func (ob *OpBase) Operands() []*Value {
	return ob.operands
}

func (ob *OpBase) Results() []*Value {
	return ob.results
}

// Result returns the sole result of the operation.
func (ob *OpBase) Result() *Value {
	return ob.results[0]
}

// -----------------------------------------------------------------------------

// elemInfo describes a scalar-or-matrix operand for elementwise verification.
type elemInfo struct {
	kind       ScalarKind
	isMatrix   bool
	rows, cols int64
}

// elemInfoOf extracts element information from a scalar or matrix type.  It
// fails for frames.
func elemInfoOf(t Type) (elemInfo, bool) {
	switch tv := t.(type) {
	case ScalarType:
		return elemInfo{kind: tv.Kind}, true
	case MatrixType:
		return elemInfo{kind: tv.Elem, isMatrix: true, rows: tv.Rows, cols: tv.Cols}, true
	}

	return elemInfo{}, false
}

// raiseType creates a type error with no span; the lowerer attaches the span
// of the offending construct before surfacing it.
func raiseType(msg string, args ...interface{}) *report.CompileError {
	return report.Raise(report.ErrTypeError, nil, msg, args...)
}

// -----------------------------------------------------------------------------

// Enumeration of elementwise binary operation kinds.
const (
	BinAdd = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinPow
	BinEq
	BinNeq
	BinLt
	BinLe
	BinGt
	BinGe
	BinAnd
	BinOr
)

// Table of elementwise binary op mnemonics.
var binOpNames = []string{
	"ew.add", "ew.sub", "ew.mul", "ew.div", "ew.mod", "ew.pow",
	"ew.eq", "ew.neq", "ew.lt", "ew.le", "ew.gt", "ew.ge",
	"ew.and", "ew.or",
}

// ElemBinaryOp is an elementwise binary operation: arithmetic, comparison, or
// logical.  Matrix operands of compatible shapes combine elementwise; a
// scalar operand broadcasts against a matrix operand.
type ElemBinaryOp struct {
	OpBase

	// Kind must be one of the enumerated elementwise binary op kinds.
	Kind int
}

// NewElemBinaryOp creates and verifies a new elementwise binary operation.
func NewElemBinaryOp(kind int, lhs, rhs *Value) (*ElemBinaryOp, *report.CompileError) {
	li, lok := elemInfoOf(lhs.Type())
	ri, rok := elemInfoOf(rhs.Type())
	if !lok || !rok {
		return nil, raiseType("operands of `%s` must be scalars or matrices, not `%s` and `%s`",
			binOpNames[kind], lhs.Type().Repr(), rhs.Type().Repr())
	}

	var elem ScalarKind
	switch {
	case kind == BinAnd || kind == BinOr:
		// Logical ops require both operands boolean-compatible.
		if li.kind != KindBool || ri.kind != KindBool {
			return nil, raiseType("operands of `%s` must be boolean, not `%s` and `%s`",
				binOpNames[kind], lhs.Type().Repr(), rhs.Type().Repr())
		}

		elem = KindBool
	case (kind == BinEq || kind == BinNeq) && li.kind == KindBool && ri.kind == KindBool:
		// Booleans compare for equality but not for order.
		elem = KindBool
	default:
		// Arithmetic and comparison ops require numeric operands with a
		// common promoted kind.
		promoted, ok := PromoteKinds(li.kind, ri.kind)
		if !ok {
			return nil, raiseType("operands of `%s` must be numeric, not `%s` and `%s`",
				binOpNames[kind], lhs.Type().Repr(), rhs.Type().Repr())
		}

		elem = promoted
	}

	if kind >= BinEq && kind <= BinGe {
		elem = KindBool
	}

	resultType, err := broadcastType(binOpNames[kind], elem, li, ri, lhs, rhs)
	if err != nil {
		return nil, err
	}

	op := &ElemBinaryOp{Kind: kind}
	op.init(op, []*Value{lhs, rhs}, resultType)
	return op, nil
}

func (op *ElemBinaryOp) OpName() string {
	return binOpNames[op.Kind]
}

// broadcastType computes the result type of an elementwise operation over two
// operands: matrix shapes must agree where statically known, and a scalar
// operand broadcasts to the matrix operand's shape.
func broadcastType(opName string, elem ScalarKind, li, ri elemInfo, lhs, rhs *Value) (Type, *report.CompileError) {
	switch {
	case li.isMatrix && ri.isMatrix:
		rows, rok := joinKnownDim(li.rows, ri.rows)
		cols, cok := joinKnownDim(li.cols, ri.cols)
		if !rok || !cok {
			return nil, raiseType("shape mismatch in `%s`: `%s` and `%s`",
				opName, lhs.Type().Repr(), rhs.Type().Repr())
		}

		return MatrixType{Elem: elem, Rows: rows, Cols: cols}, nil
	case li.isMatrix:
		return MatrixType{Elem: elem, Rows: li.rows, Cols: li.cols}, nil
	case ri.isMatrix:
		return MatrixType{Elem: elem, Rows: ri.rows, Cols: ri.cols}, nil
	default:
		return ScalarType{Kind: elem}, nil
	}
}

// joinKnownDim merges two dimensions: when both are statically known they
// must agree; an unknown dimension optimistically adopts the known one.
func joinKnownDim(a, b int64) (int64, bool) {
	switch {
	case a == ShapeUnknown:
		return b, true
	case b == ShapeUnknown:
		return a, true
	case a == b:
		return a, true
	}

	return 0, false
}

// -----------------------------------------------------------------------------

// Enumeration of elementwise unary operation kinds.
const (
	UnNeg = iota
	UnNot
)

var unOpNames = []string{"ew.neg", "ew.not"}

// ElemUnaryOp is an elementwise unary operation: numeric negation or logical
// not.
type ElemUnaryOp struct {
	OpBase

	// Kind must be one of the enumerated elementwise unary op kinds.
	Kind int
}

// NewElemUnaryOp creates and verifies a new elementwise unary operation.
func NewElemUnaryOp(kind int, operand *Value) (*ElemUnaryOp, *report.CompileError) {
	info, ok := elemInfoOf(operand.Type())
	if !ok {
		return nil, raiseType("operand of `%s` must be a scalar or matrix, not `%s`",
			unOpNames[kind], operand.Type().Repr())
	}

	if kind == UnNot {
		if info.kind != KindBool {
			return nil, raiseType("operand of `%s` must be boolean, not `%s`",
				unOpNames[kind], operand.Type().Repr())
		}
	} else if !info.kind.IsNumeric() {
		return nil, raiseType("operand of `%s` must be numeric, not `%s`",
			unOpNames[kind], operand.Type().Repr())
	}

	op := &ElemUnaryOp{Kind: kind}
	op.init(op, []*Value{operand}, operand.Type())
	return op, nil
}

func (op *ElemUnaryOp) OpName() string {
	return unOpNames[op.Kind]
}

// -----------------------------------------------------------------------------

// MatMulOp is a matrix multiplication.
type MatMulOp struct {
	OpBase
}

// NewMatMulOp creates and verifies a new matrix multiplication.  Both
// operands must be numeric matrices, and when both inner dimensions are
// statically known they must agree; unknown dimensions are accepted
// optimistically and checked downstream.
func NewMatMulOp(lhs, rhs *Value) (*MatMulOp, *report.CompileError) {
	lm, lok := lhs.Type().(MatrixType)
	rm, rok := rhs.Type().(MatrixType)
	if !lok || !rok {
		return nil, raiseType("operands of `matmul` must be matrices, not `%s` and `%s`",
			lhs.Type().Repr(), rhs.Type().Repr())
	}

	elem, ok := PromoteKinds(lm.Elem, rm.Elem)
	if !ok {
		return nil, raiseType("operands of `matmul` must be numeric, not `%s` and `%s`",
			lhs.Type().Repr(), rhs.Type().Repr())
	}

	if lm.Cols != ShapeUnknown && rm.Rows != ShapeUnknown && lm.Cols != rm.Rows {
		return nil, raiseType("inner dimensions of `matmul` do not agree: `%s` and `%s`",
			lhs.Type().Repr(), rhs.Type().Repr())
	}

	op := &MatMulOp{}
	op.init(op, []*Value{lhs, rhs}, MatrixType{Elem: elem, Rows: lm.Rows, Cols: rm.Cols})
	return op, nil
}

func (op *MatMulOp) OpName() string {
	return "matmul"
}

// -----------------------------------------------------------------------------

// CastOp is an explicit elementwise conversion to a named scalar kind.
// Narrowing conversions are allowed precisely because they are explicit.
type CastOp struct {
	OpBase

	// The target element kind of the cast.
	Target ScalarKind
}

// NewCastOp creates and verifies a new cast of a scalar or matrix operand to
// the given target element kind.
func NewCastOp(operand *Value, target ScalarKind) (*CastOp, *report.CompileError) {
	info, ok := elemInfoOf(operand.Type())
	if !ok {
		return nil, raiseType("cannot cast `%s` to `%s`", operand.Type().Repr(), target.Repr())
	}

	if !kindConvertible(info.kind, target) {
		return nil, raiseType("no conversion from `%s` to `%s`", operand.Type().Repr(), target.Repr())
	}

	var resultType Type = ScalarType{Kind: target}
	if info.isMatrix {
		resultType = MatrixType{Elem: target, Rows: info.rows, Cols: info.cols}
	}

	op := &CastOp{Target: target}
	op.init(op, []*Value{operand}, resultType)
	return op, nil
}

func (op *CastOp) OpName() string {
	return "cast"
}

// kindConvertible is the fixed conversion table for explicit casts: numeric
// and boolean kinds interconvert freely; strings convert only to themselves.
func kindConvertible(src, dst ScalarKind) bool {
	if src == dst {
		return true
	}

	srcOK := src.IsNumeric() || src == KindBool
	dstOK := dst.IsNumeric() || dst == KindBool
	return srcOK && dstOK
}

// -----------------------------------------------------------------------------

// IndexOp is a right-indexing operation selecting rows and/or columns of a
// matrix or frame.  An omitted index selects everything along that axis.
type IndexOp struct {
	OpBase

	// Whether a row and/or column index operand is present.  The present
	// operands appear in Operands() after the indexed value, row first.
	HasRow, HasCol bool
}

// NewIndexOp creates and verifies a new indexing operation.  The indexed
// operand must be a matrix or frame; index operands must be integer scalars,
// integer matrices, or boolean matrices (selection masks).
func NewIndexOp(operand, row, col *Value) (*IndexOp, *report.CompileError) {
	operands := []*Value{operand}
	op := &IndexOp{HasRow: row != nil, HasCol: col != nil}

	if row != nil {
		if err := checkIndexValue(row); err != nil {
			return nil, err
		}

		operands = append(operands, row)
	}

	if col != nil {
		if err := checkIndexValue(col); err != nil {
			return nil, err
		}

		operands = append(operands, col)
	}

	var resultType Type
	switch ot := operand.Type().(type) {
	case MatrixType:
		resultType = MatrixType{
			Elem: ot.Elem,
			Rows: indexedDim(ot.Rows, row),
			Cols: indexedDim(ot.Cols, col),
		}
	case FrameType:
		if col != nil {
			return nil, raiseType("frames support only row indexing, not `%s`", operand.Type().Repr())
		}

		resultType = ot
	default:
		return nil, raiseType("cannot index into `%s`", operand.Type().Repr())
	}

	op.init(op, operands, resultType)
	return op, nil
}

func (op *IndexOp) OpName() string {
	return "index"
}

// checkIndexValue verifies that a value is usable as an index: an integer
// scalar, an integer matrix of positions, or a boolean matrix mask.
func checkIndexValue(idx *Value) *report.CompileError {
	switch it := idx.Type().(type) {
	case ScalarType:
		if it.Kind.IsNumeric() && !it.Kind.IsFloat() {
			return nil
		}
	case MatrixType:
		if it.Elem == KindBool || (it.Elem.IsNumeric() && !it.Elem.IsFloat()) {
			return nil
		}
	}

	return raiseType("`%s` cannot be used as an index", idx.Type().Repr())
}

// indexedDim computes the statically-known extent of an axis after indexing:
// selecting with an integer scalar yields extent 1, any other index yields an
// unknown extent, and an omitted index preserves the operand's extent.
func indexedDim(dim int64, idx *Value) int64 {
	if idx == nil {
		return dim
	}

	if st, ok := idx.Type().(ScalarType); ok && !st.Kind.IsFloat() {
		return 1
	}

	return ShapeUnknown
}

// -----------------------------------------------------------------------------

// CallOp is the application of a resolved builtin.  Overload selection and
// type checking happen in the builtin resolver before this op is constructed,
// so construction itself cannot fail.
type CallOp struct {
	OpBase

	// The name of the resolved builtin.
	Callee string
}

// NewCallOp creates a new call of a resolved builtin with the given
// pre-computed result types.
func NewCallOp(callee string, args []*Value, resultTypes []Type) *CallOp {
	op := &CallOp{Callee: callee}
	op.init(op, args, resultTypes...)
	return op
}

func (op *CallOp) OpName() string {
	return "call"
}
