package lower

import (
	"fmt"
	"sort"

	"matcha/ast"
	"matcha/ir"
	"matcha/report"
)

// lowerStmt lowers a single statement.  The case analysis is exhaustive over
// the statement kinds produced by the parser.
func (l *Lowerer) lowerStmt(stmt ast.ASTStmt) {
	switch v := stmt.(type) {
	case *ast.Block:
		l.lowerBlock(v)
	case *ast.Assignment:
		l.lowerAssignment(v)
	case *ast.ExprStmt:
		// The results, if any, are discarded; operations already emitted for
		// their side effects remain.
		l.lowerExprMulti(v.Expr)
	case *ast.IfStmt:
		l.lowerIf(v)
	case *ast.WhileLoop:
		l.lowerWhile(v)
	case *ast.ForLoop:
		l.lowerFor(v)
	default:
		panic(fmt.Sprintf("unsupported statement node: %T", stmt))
	}
}

// lowerBlock lowers a braced block in its own scope.
func (l *Lowerer) lowerBlock(block *ast.Block) {
	l.symbols.PushScope()

	for _, stmt := range block.Stmts {
		l.lowerStmt(stmt)
	}

	l.popScope()
}

// lowerAssignment lowers an assignment statement, binding each target to the
// corresponding result of the right-hand side.
func (l *Lowerer) lowerAssignment(assign *ast.Assignment) {
	values := l.lowerExprMulti(assign.RHS)

	if len(assign.Targets) != len(values) {
		l.raise(report.ErrArityMismatch, assign.Span(),
			"assignment has %d targets but the right-hand side produces %d values",
			len(assign.Targets), len(values))
	}

	for i, target := range assign.Targets {
		l.symbols.Assign(target.Name, values[i])
	}
}

// -----------------------------------------------------------------------------

// lowerIf lowers an if statement into a control-dependent merge.  Variables
// assigned differently in the two branches are reconciled by yielding their
// branch-local values and rebinding them to the merge's results, so code
// after the if sees a single well-defined value per variable regardless of
// which branch ran.
func (l *Lowerer) lowerIf(stmt *ast.IfStmt) {
	cond := l.lowerExpr(stmt.Cond)
	l.mustBool(cond, stmt.Cond.Span())

	pre := l.symbols.Snapshot()

	thenRegion := ir.NewRegion()
	thenChanged := l.lowerBranch(stmt.Then, thenRegion, pre)

	elseRegion := ir.NewRegion()
	elseChanged := make(map[string]*ir.Value)
	if stmt.Else != nil {
		elseChanged = l.lowerBranch(stmt.Else, elseRegion, pre)
	}

	// The merge set is the union of the names either branch rebound, in
	// sorted order so that lowering is deterministic.
	names := sortedNameUnion(thenChanged, elseChanged)

	thenVals := make([]*ir.Value, len(names))
	elseVals := make([]*ir.Value, len(names))
	for i, name := range names {
		// A variable assigned in only one branch retains its pre-if value on
		// the branch that did not assign it.
		preValue, _ := l.symbols.Lookup(name)

		thenVal, ok := thenChanged[name]
		if !ok {
			thenVal = preValue
		}

		elseVal, ok := elseChanged[name]
		if !ok {
			elseVal = preValue
		}

		thenVals[i], elseVals[i] = l.promoteMerge(thenVal, elseVal, thenRegion, elseRegion, stmt.Span())
	}

	l.b.PushRegion(thenRegion)
	l.b.Yield(thenVals)
	l.b.PopRegion()

	l.b.PushRegion(elseRegion)
	l.b.Yield(elseVals)
	l.b.PopRegion()

	results, err := l.b.If(cond, thenRegion, elseRegion)
	l.check(err, stmt.Span())

	for i, name := range names {
		l.symbols.Assign(name, results[i])
	}
}

// lowerBranch lowers a branch body into its own region and scope, returning
// the set of pre-existing names the branch rebound.  The symbol state is
// restored to the snapshot afterwards.
func (l *Lowerer) lowerBranch(body *ast.Block, region *ir.Region, pre []map[string]*ir.Value) map[string]*ir.Value {
	l.b.PushRegion(region)
	l.lowerBlock(body)
	l.b.PopRegion()

	changed := l.symbols.ChangedSince(pre)
	l.symbols.Restore(pre)
	return changed
}

// promoteMerge reconciles the types of a merged variable's two branch
// values: scalars (and matrices) of different but promotable element kinds
// get an explicit widening cast inside the branch that produced the narrower
// value.  Non-promotable mismatches are left for merge verification to
// reject.
func (l *Lowerer) promoteMerge(thenVal, elseVal *ir.Value, thenRegion, elseRegion *ir.Region, span *report.TextSpan) (*ir.Value, *ir.Value) {
	thenKind, thenOK := elemKindOf(thenVal.Type())
	elseKind, elseOK := elemKindOf(elseVal.Type())
	if !thenOK || !elseOK || thenKind == elseKind {
		return thenVal, elseVal
	}

	promoted, ok := ir.PromoteKinds(thenKind, elseKind)
	if !ok {
		return thenVal, elseVal
	}

	if thenKind != promoted {
		thenVal = l.castIn(thenRegion, thenVal, promoted, span)
	}

	if elseKind != promoted {
		elseVal = l.castIn(elseRegion, elseVal, promoted, span)
	}

	return thenVal, elseVal
}

// castIn appends a cast to the given region.
func (l *Lowerer) castIn(region *ir.Region, v *ir.Value, target ir.ScalarKind, span *report.TextSpan) *ir.Value {
	l.b.PushRegion(region)
	defer l.b.PopRegion()

	cast, err := l.b.Cast(v, target)
	l.check(err, span)
	return cast
}

// elemKindOf extracts the element kind of a scalar or matrix type.
func elemKindOf(t ir.Type) (ir.ScalarKind, bool) {
	switch tv := t.(type) {
	case ir.ScalarType:
		return tv.Kind, true
	case ir.MatrixType:
		return tv.Elem, true
	}

	return 0, false
}

// sortedNameUnion returns the sorted union of the key sets of two maps.
func sortedNameUnion(a, b map[string]*ir.Value) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var names []string

	for name := range a {
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for name := range b {
		if _, ok := seen[name]; !ok {
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names
}

// -----------------------------------------------------------------------------

// lowerWhile lowers a while loop.  Variables assigned in the body that were
// bound before the loop become explicit loop-carried values: the condition
// and body regions receive them as parameters, the body yields their
// next-iteration values, and the names are rebound to the loop's results
// afterwards.
func (l *Lowerer) lowerWhile(stmt *ast.WhileLoop) {
	names, inits := l.carriedBindings(stmt.Body)

	condRegion := ir.NewRegion()
	l.b.PushRegion(condRegion)
	l.symbols.PushScope()
	l.declareCarried(condRegion, names, inits)

	cond := l.lowerExpr(stmt.Cond)
	l.mustBool(cond, stmt.Cond.Span())
	l.b.Yield([]*ir.Value{cond})

	l.popScope()
	l.b.PopRegion()

	bodyRegion := ir.NewRegion()
	l.b.PushRegion(bodyRegion)
	l.symbols.PushScope()
	l.declareCarried(bodyRegion, names, inits)

	l.lowerBlock(stmt.Body)
	l.b.Yield(l.carriedNext(names))

	l.popScope()
	l.b.PopRegion()

	results, err := l.b.While(inits, condRegion, bodyRegion)
	l.check(err, stmt.Span())

	for i, name := range names {
		l.symbols.Assign(name, results[i])
	}
}

// lowerFor lowers a range for loop.  It follows the same loop-carried-value
// discipline as while, with an implicit si64 induction variable scoped to
// the loop body only.
func (l *Lowerer) lowerFor(stmt *ast.ForLoop) {
	start := l.lowerRangeBound(stmt.Start)
	end := l.lowerRangeBound(stmt.End)

	var step *ir.Value
	if stmt.Step != nil {
		step = l.lowerRangeBound(stmt.Step)
	} else {
		step = l.b.Constant(ir.IntConst(ir.KindSI64, 1))
	}

	// The induction variable is read-only inside the body: its value comes
	// from the loop itself, never from an assignment.
	assigned := make(map[string]struct{})
	collectAssignedNames(stmt.Body, assigned)
	if _, ok := assigned[stmt.IterName]; ok {
		l.raise(report.ErrTypeError, stmt.IterSpan,
			"loop variable `%s` cannot be reassigned in the loop body", stmt.IterName)
	}

	names, inits := l.carriedBindings(stmt.Body)

	bodyRegion := ir.NewRegion()
	l.b.PushRegion(bodyRegion)
	l.symbols.PushScope()

	// The induction variable is the body region's first parameter.
	iter := bodyRegion.AddParam(ir.ScalarType{Kind: ir.KindSI64})
	l.symbols.Declare(stmt.IterName, iter)
	l.declareCarried(bodyRegion, names, inits)

	l.lowerBlock(stmt.Body)
	l.b.Yield(l.carriedNext(names))

	l.popScope()
	l.b.PopRegion()

	results, err := l.b.For(start, end, step, inits, bodyRegion)
	l.check(err, stmt.Span())

	for i, name := range names {
		l.symbols.Assign(name, results[i])
	}
}

// lowerRangeBound lowers a loop bound expression, requiring an si64 scalar.
func (l *Lowerer) lowerRangeBound(expr ast.ASTExpr) *ir.Value {
	v := l.lowerExpr(expr)
	if !ir.TypesEqual(v.Type(), ir.ScalarType{Kind: ir.KindSI64}) {
		l.raise(report.ErrTypeError, expr.Span(), "loop bound must be an si64 scalar, not `%s`", v.Type().Repr())
	}

	return v
}

// carriedBindings computes the loop-carried variables of a loop body: the
// names the body assigns that are already bound outside the loop, in sorted
// order, along with their current (initial) values.
func (l *Lowerer) carriedBindings(body *ast.Block) ([]string, []*ir.Value) {
	assigned := make(map[string]struct{})
	collectAssignedNames(body, assigned)

	var names []string
	for name := range assigned {
		if _, ok := l.symbols.Lookup(name); ok {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	inits := make([]*ir.Value, len(names))
	for i, name := range names {
		inits[i], _ = l.symbols.Lookup(name)
	}

	return names, inits
}

// declareCarried adds one region parameter per carried name and binds the
// names to the parameters, shadowing the pre-loop bindings.
func (l *Lowerer) declareCarried(region *ir.Region, names []string, inits []*ir.Value) {
	for i, name := range names {
		param := region.AddParam(inits[i].Type())
		l.symbols.Declare(name, param)
	}
}

// carriedNext collects the current bindings of the carried names at the end
// of a loop body: the values entering the next iteration.
func (l *Lowerer) carriedNext(names []string) []*ir.Value {
	next := make([]*ir.Value, len(names))
	for i, name := range names {
		next[i], _ = l.symbols.Lookup(name)
	}

	return next
}

// collectAssignedNames walks a statement subtree collecting every assignment
// target name.  This syntactic prepass determines the loop-carried variable
// set before any part of the loop is lowered.
func collectAssignedNames(stmt ast.ASTStmt, into map[string]struct{}) {
	switch v := stmt.(type) {
	case *ast.Block:
		for _, inner := range v.Stmts {
			collectAssignedNames(inner, into)
		}
	case *ast.Assignment:
		for _, target := range v.Targets {
			into[target.Name] = struct{}{}
		}
	case *ast.IfStmt:
		collectAssignedNames(v.Then, into)
		if v.Else != nil {
			collectAssignedNames(v.Else, into)
		}
	case *ast.WhileLoop:
		collectAssignedNames(v.Body, into)
	case *ast.ForLoop:
		collectAssignedNames(v.Body, into)
	}
}
