package ir

import "matcha/report"

// Module represents a fully compiled script: a single region of operations
// owned by the caller of the compiler.
type Module struct {
	// The name of the module, usually derived from the script file name.
	Name string

	// The top-level region of the module.
	Body *Region
}

// -----------------------------------------------------------------------------

// Builder builds up an IR module operation by operation.  It maintains an
// insertion-point stack of regions: newly constructed operations are appended
// to the innermost region.  Every builder method verifies before it appends,
// so a failed construction leaves no partial operation in any region.  A
// builder must not be shared between concurrent compilations.
type Builder struct {
	module *Module

	// The insertion-point stack.  The innermost region is last.
	regions []*Region
}

// NewBuilder creates a builder for a new module with the given name.
func NewBuilder(name string) *Builder {
	module := &Module{Name: name, Body: NewRegion()}
	return &Builder{module: module, regions: []*Region{module.Body}}
}

// Module returns the module being built.
func (b *Builder) Module() *Module {
	return b.module
}

// PushRegion makes r the insertion point for newly built operations.
func (b *Builder) PushRegion(r *Region) {
	b.regions = append(b.regions, r)
}

// PopRegion restores the previous insertion point.
func (b *Builder) PopRegion() {
	b.regions = b.regions[:len(b.regions)-1]
}

// insertion returns the current insertion region.
func (b *Builder) insertion() *Region {
	return b.regions[len(b.regions)-1]
}

// -----------------------------------------------------------------------------

// Constant materializes a constant and returns its value.
func (b *Builder) Constant(lit ConstValue) *Value {
	op := NewConstantOp(lit)
	b.insertion().Append(op)
	return op.Result()
}

// ElemBinary builds an elementwise binary operation.
func (b *Builder) ElemBinary(kind int, lhs, rhs *Value) (*Value, *report.CompileError) {
	op, err := NewElemBinaryOp(kind, lhs, rhs)
	if err != nil {
		return nil, err
	}

	b.insertion().Append(op)
	return op.Result(), nil
}

// ElemUnary builds an elementwise unary operation.
func (b *Builder) ElemUnary(kind int, operand *Value) (*Value, *report.CompileError) {
	op, err := NewElemUnaryOp(kind, operand)
	if err != nil {
		return nil, err
	}

	b.insertion().Append(op)
	return op.Result(), nil
}

// MatMul builds a matrix multiplication.
func (b *Builder) MatMul(lhs, rhs *Value) (*Value, *report.CompileError) {
	op, err := NewMatMulOp(lhs, rhs)
	if err != nil {
		return nil, err
	}

	b.insertion().Append(op)
	return op.Result(), nil
}

// Cast builds an explicit elementwise cast to the target kind.
func (b *Builder) Cast(operand *Value, target ScalarKind) (*Value, *report.CompileError) {
	op, err := NewCastOp(operand, target)
	if err != nil {
		return nil, err
	}

	b.insertion().Append(op)
	return op.Result(), nil
}

// Index builds a right-indexing operation.  Either index may be nil.
func (b *Builder) Index(operand, row, col *Value) (*Value, *report.CompileError) {
	op, err := NewIndexOp(operand, row, col)
	if err != nil {
		return nil, err
	}

	b.insertion().Append(op)
	return op.Result(), nil
}

// Call builds a call of a resolved builtin.  It returns all result values.
func (b *Builder) Call(callee string, args []*Value, resultTypes []Type) []*Value {
	op := NewCallOp(callee, args, resultTypes)
	b.insertion().Append(op)
	return op.Results()
}

// Yield terminates the current insertion region with the given values.
func (b *Builder) Yield(values []*Value) {
	b.insertion().Append(NewYieldOp(values))
}

// If builds a control-dependent merge over the two regions.
func (b *Builder) If(cond *Value, then, els *Region) ([]*Value, *report.CompileError) {
	op, err := NewIfOp(cond, then, els)
	if err != nil {
		return nil, err
	}

	b.insertion().Append(op)
	return op.Results(), nil
}

// While builds a condition-tested loop with the given carried values.
func (b *Builder) While(inits []*Value, cond, body *Region) ([]*Value, *report.CompileError) {
	op, err := NewWhileOp(inits, cond, body)
	if err != nil {
		return nil, err
	}

	b.insertion().Append(op)
	return op.Results(), nil
}

// For builds a counted loop with the given bounds and carried values.
func (b *Builder) For(start, end, step *Value, inits []*Value, body *Region) ([]*Value, *report.CompileError) {
	op, err := NewForOp(start, end, step, inits, body)
	if err != nil {
		return nil, err
	}

	b.insertion().Append(op)
	return op.Results(), nil
}
