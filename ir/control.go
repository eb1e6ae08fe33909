package ir

import "matcha/report"

// Region represents an ordered sequence of operations with an optional list
// of parameter values (eg. the loop-carried values of a loop body).  Regions
// are the bodies of structured control-flow operations and of the module
// itself.
type Region struct {
	// The parameter values of the region.
	Params []*Value

	// The operations of the region, in execution order.
	Ops []Operation
}

// NewRegion creates a new empty region.
func NewRegion() *Region {
	return &Region{}
}

// AddParam adds a new parameter of the given type to the region and returns
// its value.
func (r *Region) AddParam(typ Type) *Value {
	v := &Value{typ: typ}
	r.Params = append(r.Params, v)
	return v
}

// Append appends an operation to the end of the region.
func (r *Region) Append(op Operation) {
	r.Ops = append(r.Ops, op)
}

// terminator returns the trailing yield of the region, if any.
func (r *Region) terminator() (*YieldOp, bool) {
	if len(r.Ops) == 0 {
		return nil, false
	}

	y, ok := r.Ops[len(r.Ops)-1].(*YieldOp)
	return y, ok
}

// -----------------------------------------------------------------------------

// YieldOp terminates a control-flow region, forwarding the listed values to
// the enclosing operation's results (or, for loop bodies, to the next
// iteration's carried values).
type YieldOp struct {
	OpBase
}

// NewYieldOp creates a new yield of the given values.
func NewYieldOp(values []*Value) *YieldOp {
	op := &YieldOp{}
	op.init(op, values)
	return op
}

func (op *YieldOp) OpName() string {
	return "yield"
}

// -----------------------------------------------------------------------------

// IfOp is a control-dependent merge: it runs one of its two regions based on
// a boolean condition, and each of its results is the value yielded by
// whichever region ran.  This is the explicit merge construct that reconciles
// variables assigned differently in the two branches.
type IfOp struct {
	OpBase

	// The then and else regions.  Both are always present; an absent source
	// else-block becomes a region yielding the pre-branch values.
	Then, Else *Region
}

// NewIfOp creates and verifies a new if operation.  The condition must be a
// boolean scalar and the two regions must yield joinable value lists.
func NewIfOp(cond *Value, then, els *Region) (*IfOp, *report.CompileError) {
	if !TypesEqual(cond.Type(), ScalarType{Kind: KindBool}) {
		return nil, raiseType("branch condition must be a boolean scalar, not `%s`", cond.Type().Repr())
	}

	thenYield, ok := then.terminator()
	if !ok {
		return nil, raiseType("then branch does not yield")
	}

	elseYield, ok := els.terminator()
	if !ok {
		return nil, raiseType("else branch does not yield")
	}

	if len(thenYield.Operands()) != len(elseYield.Operands()) {
		return nil, report.Raise(report.ErrArityMismatch, nil,
			"branches merge %d and %d values", len(thenYield.Operands()), len(elseYield.Operands()))
	}

	resultTypes := make([]Type, len(thenYield.Operands()))
	for i, tv := range thenYield.Operands() {
		ev := elseYield.Operands()[i]

		joined, ok := JoinTypes(tv.Type(), ev.Type())
		if !ok {
			return nil, raiseType("branches yield incompatible types `%s` and `%s`",
				tv.Type().Repr(), ev.Type().Repr())
		}

		resultTypes[i] = joined
	}

	op := &IfOp{Then: then, Else: els}
	op.init(op, []*Value{cond}, resultTypes...)
	return op, nil
}

func (op *IfOp) OpName() string {
	return "if"
}

// -----------------------------------------------------------------------------

// WhileOp is a loop whose condition is re-evaluated before every iteration,
// including the zeroth.  Its operands are the initial loop-carried values;
// the condition and body regions receive the current carried values as
// parameters, and the body yields the carried values entering the next
// iteration.  The op's results are the carried values after the final
// iteration (or the initial values if the loop never ran).
type WhileOp struct {
	OpBase

	// The condition region: takes the carried values, yields one boolean
	// scalar.
	Cond *Region

	// The body region: takes the carried values, yields their next values.
	Body *Region
}

// NewWhileOp creates and verifies a new while operation.
func NewWhileOp(inits []*Value, cond, body *Region) (*WhileOp, *report.CompileError) {
	if err := checkCarried("loop condition", cond, inits); err != nil {
		return nil, err
	}

	if err := checkCarried("loop body", body, inits); err != nil {
		return nil, err
	}

	condYield, ok := cond.terminator()
	if !ok || len(condYield.Operands()) != 1 {
		return nil, raiseType("loop condition must yield a single value")
	}

	if !TypesEqual(condYield.Operands()[0].Type(), ScalarType{Kind: KindBool}) {
		return nil, raiseType("loop condition must be a boolean scalar, not `%s`",
			condYield.Operands()[0].Type().Repr())
	}

	if err := checkCarriedYield("loop body", body, inits); err != nil {
		return nil, err
	}

	resultTypes := make([]Type, len(inits))
	for i, init := range inits {
		resultTypes[i] = init.Type()
	}

	op := &WhileOp{Cond: cond, Body: body}
	op.init(op, inits, resultTypes...)
	return op, nil
}

func (op *WhileOp) OpName() string {
	return "while"
}

// -----------------------------------------------------------------------------

// ForOp is a counted loop over an integer range with an implicit induction
// variable.  Its operands are start, end, and step followed by the initial
// loop-carried values; the body region's first parameter is the induction
// variable and the rest are the carried values.
type ForOp struct {
	OpBase

	// The body region: takes the induction variable and carried values,
	// yields the carried values' next values.
	Body *Region
}

// NewForOp creates and verifies a new for operation.  The bounds and step
// must be si64 scalars.
func NewForOp(start, end, step *Value, inits []*Value, body *Region) (*ForOp, *report.CompileError) {
	for _, bound := range []*Value{start, end, step} {
		if !TypesEqual(bound.Type(), ScalarType{Kind: KindSI64}) {
			return nil, raiseType("loop bounds must be si64 scalars, not `%s`", bound.Type().Repr())
		}
	}

	if len(body.Params) != len(inits)+1 {
		return nil, report.Raise(report.ErrArityMismatch, nil,
			"loop body takes %d values but carries %d", len(body.Params), len(inits)+1)
	}

	if !TypesEqual(body.Params[0].Type(), ScalarType{Kind: KindSI64}) {
		return nil, raiseType("induction variable must be an si64 scalar")
	}

	for i, init := range inits {
		if !TypesEqual(body.Params[i+1].Type(), init.Type()) {
			return nil, raiseType("loop-carried value changes type from `%s` to `%s`",
				init.Type().Repr(), body.Params[i+1].Type().Repr())
		}
	}

	if err := checkCarriedYield("loop body", body, inits); err != nil {
		return nil, err
	}

	resultTypes := make([]Type, len(inits))
	for i, init := range inits {
		resultTypes[i] = init.Type()
	}

	op := &ForOp{Body: body}
	op.init(op, append([]*Value{start, end, step}, inits...), resultTypes...)
	return op, nil
}

func (op *ForOp) OpName() string {
	return "for"
}

// -----------------------------------------------------------------------------

// checkCarried verifies that a region's parameters positionally match the
// types of the loop's initial carried values.
func checkCarried(what string, r *Region, inits []*Value) *report.CompileError {
	if len(r.Params) != len(inits) {
		return report.Raise(report.ErrArityMismatch, nil,
			"%s takes %d values but carries %d", what, len(r.Params), len(inits))
	}

	for i, init := range inits {
		if !TypesEqual(r.Params[i].Type(), init.Type()) {
			return raiseType("loop-carried value changes type from `%s` to `%s`",
				init.Type().Repr(), r.Params[i].Type().Repr())
		}
	}

	return nil
}

// checkCarriedYield verifies that a loop body yields values positionally
// matching the types of the initial carried values.
func checkCarriedYield(what string, body *Region, inits []*Value) *report.CompileError {
	bodyYield, ok := body.terminator()
	if !ok {
		return raiseType("%s does not yield", what)
	}

	if len(bodyYield.Operands()) != len(inits) {
		return report.Raise(report.ErrArityMismatch, nil,
			"%s yields %d values but carries %d", what, len(bodyYield.Operands()), len(inits))
	}

	for i, init := range inits {
		if !TypesEqual(bodyYield.Operands()[i].Type(), init.Type()) {
			return raiseType("loop-carried value changes type from `%s` to `%s`",
				init.Type().Repr(), bodyYield.Operands()[i].Type().Repr())
		}
	}

	return nil
}
