package builtins

import (
	"matcha/ir"
	"matcha/report"
)

// Shorthand parameter constructors used by the catalog.

func scalarOf(kind ir.ScalarKind) Param {
	return Param{Class: ClassScalar, Elem: ElemExact, Kind: kind}
}

func numScalar() Param {
	return Param{Class: ClassScalar, Elem: ElemNumeric}
}

func anyScalar() Param {
	return Param{Class: ClassScalar}
}

func numMatrix() Param {
	return Param{Class: ClassMatrix, Elem: ElemNumeric}
}

func anyMatrix() Param {
	return Param{Class: ClassMatrix}
}

func matrixOf(kind ir.ScalarKind) Param {
	return Param{Class: ClassMatrix, Elem: ElemExact, Kind: kind}
}

func frame() Param {
	return Param{Class: ClassFrame}
}

func anyValue() Param {
	return Param{Class: ClassAny}
}

// fixed adapts a fixed result type list into a result type function.
func fixed(types ...ir.Type) func([]*ir.Value) ([]ir.Type, *report.CompileError) {
	return func([]*ir.Value) ([]ir.Type, *report.CompileError) {
		return types, nil
	}
}

// -----------------------------------------------------------------------------

// StandardRegistry returns a registry populated with the standard builtin
// catalog.  The catalog is representative rather than exhaustive: it covers
// generation, shape, reduction, elementwise math, and inspection builtins.
func StandardRegistry() *Registry {
	r := NewRegistry()

	// Generation.
	r.Register(&Signature{
		Name:        "seq",
		Params:      []Param{scalarOf(ir.KindSI64), scalarOf(ir.KindSI64), scalarOf(ir.KindSI64)},
		ResultTypes: seqResult,
	})
	r.Register(&Signature{
		Name:        "seq",
		Params:      []Param{scalarOf(ir.KindF64), scalarOf(ir.KindF64), scalarOf(ir.KindF64)},
		ResultTypes: fixed(ir.MatrixType{Elem: ir.KindF64, Rows: ir.ShapeUnknown, Cols: 1}),
	})
	r.Register(&Signature{
		Name:        "fill",
		Params:      []Param{anyScalar(), scalarOf(ir.KindSI64), scalarOf(ir.KindSI64)},
		ResultTypes: fillResult,
	})

	// Shape.
	r.Register(&Signature{
		Name:        "reshape",
		Params:      []Param{anyMatrix(), scalarOf(ir.KindSI64), scalarOf(ir.KindSI64)},
		ResultTypes: reshapeResult,
	})
	r.Register(&Signature{
		Name:        "t",
		Params:      []Param{anyMatrix()},
		ResultTypes: transposeResult,
	})
	r.Register(&Signature{
		Name:        "rbind",
		Params:      []Param{anyMatrix(), anyMatrix()},
		ResultTypes: bindResult(true),
	})
	r.Register(&Signature{
		Name:        "cbind",
		Params:      []Param{anyMatrix(), anyMatrix()},
		ResultTypes: bindResult(false),
	})

	// Reductions.
	r.Register(&Signature{
		Name:        "sum",
		Params:      []Param{numMatrix()},
		ResultTypes: elemScalarResult,
	})
	r.Register(&Signature{
		Name:        "mean",
		Params:      []Param{numMatrix()},
		ResultTypes: fixed(ir.ScalarType{Kind: ir.KindF64}),
	})

	for _, name := range []string{"min", "max"} {
		r.Register(&Signature{
			Name:        name,
			Params:      []Param{numMatrix()},
			ResultTypes: elemScalarResult,
		})
		r.Register(&Signature{
			Name:        name,
			Params:      []Param{scalarOf(ir.KindSI64), scalarOf(ir.KindSI64)},
			ResultTypes: fixed(ir.ScalarType{Kind: ir.KindSI64}),
		})
		r.Register(&Signature{
			Name:        name,
			Params:      []Param{scalarOf(ir.KindF64), scalarOf(ir.KindF64)},
			ResultTypes: fixed(ir.ScalarType{Kind: ir.KindF64}),
		})
	}

	// Elementwise math.
	r.Register(&Signature{
		Name:   "abs",
		Params: []Param{{Class: ClassAny, Elem: ElemNumeric}},
		ResultTypes: func(args []*ir.Value) ([]ir.Type, *report.CompileError) {
			return []ir.Type{args[0].Type()}, nil
		},
	})

	for _, name := range []string{"sqrt", "exp", "ln"} {
		r.Register(&Signature{
			Name:        name,
			Params:      []Param{{Class: ClassAny, Elem: ElemNumeric}},
			ResultTypes: floatShapedResult,
		})
	}

	// Decomposition: eigenvalues and eigenvectors.
	r.Register(&Signature{
		Name:   "eig",
		Params: []Param{matrixOf(ir.KindF64)},
		ResultTypes: func(args []*ir.Value) ([]ir.Type, *report.CompileError) {
			mt := args[0].Type().(ir.MatrixType)
			return []ir.Type{
				ir.MatrixType{Elem: ir.KindF64, Rows: mt.Rows, Cols: 1},
				ir.MatrixType{Elem: ir.KindF64, Rows: mt.Rows, Cols: mt.Cols},
			}, nil
		},
	})

	// Inspection.
	for _, name := range []string{"nrow", "ncol"} {
		r.Register(&Signature{
			Name:        name,
			Params:      []Param{anyMatrix()},
			ResultTypes: fixed(ir.ScalarType{Kind: ir.KindSI64}),
		})
		r.Register(&Signature{
			Name:        name,
			Params:      []Param{frame()},
			ResultTypes: fixed(ir.ScalarType{Kind: ir.KindSI64}),
		})
	}

	r.Register(&Signature{
		Name:        "print",
		Params:      []Param{anyValue()},
		ResultTypes: fixed(),
	})

	return r
}

// -----------------------------------------------------------------------------

// seqResult computes the result type of an integer seq call, folding the
// bounds to a static row count when all three are constants.
func seqResult(args []*ir.Value) ([]ir.Type, *report.CompileError) {
	rows := ir.ShapeUnknown

	start, sok := ir.FoldToConstant(args[0])
	end, eok := ir.FoldToConstant(args[1])
	step, pok := ir.FoldToConstant(args[2])
	if sok && eok && pok && step.I != 0 {
		n := (end.I-start.I)/step.I + 1
		if n < 0 {
			n = 0
		}

		rows = n
	}

	return []ir.Type{ir.MatrixType{Elem: ir.KindSI64, Rows: rows, Cols: 1}}, nil
}

// fillResult computes the result type of a fill call, folding constant
// dimension arguments to a static shape.
func fillResult(args []*ir.Value) ([]ir.Type, *report.CompileError) {
	elem := args[0].Type().(ir.ScalarType).Kind

	return []ir.Type{ir.MatrixType{
		Elem: elem,
		Rows: foldDim(args[1]),
		Cols: foldDim(args[2]),
	}}, nil
}

// reshapeResult computes the result type of a reshape call.
func reshapeResult(args []*ir.Value) ([]ir.Type, *report.CompileError) {
	mt := args[0].Type().(ir.MatrixType)

	return []ir.Type{ir.MatrixType{
		Elem: mt.Elem,
		Rows: foldDim(args[1]),
		Cols: foldDim(args[2]),
	}}, nil
}

// foldDim extracts a static dimension from a constant si64 argument.
func foldDim(v *ir.Value) int64 {
	if lit, ok := ir.FoldToConstant(v); ok && lit.I >= 0 {
		return lit.I
	}

	return ir.ShapeUnknown
}

// transposeResult swaps the dimensions of the matrix argument.
func transposeResult(args []*ir.Value) ([]ir.Type, *report.CompileError) {
	mt := args[0].Type().(ir.MatrixType)
	return []ir.Type{ir.MatrixType{Elem: mt.Elem, Rows: mt.Cols, Cols: mt.Rows}}, nil
}

// bindResult computes the result type of rbind (byRows) or cbind: the
// arguments must share an element kind, the concatenated dimension sums when
// both are known, and the other dimension must agree where known.
func bindResult(byRows bool) func([]*ir.Value) ([]ir.Type, *report.CompileError) {
	name := "cbind"
	if byRows {
		name = "rbind"
	}

	return func(args []*ir.Value) ([]ir.Type, *report.CompileError) {
		lm := args[0].Type().(ir.MatrixType)
		rm := args[1].Type().(ir.MatrixType)

		if lm.Elem != rm.Elem {
			return nil, report.Raise(report.ErrTypeError, nil,
				"arguments of `%s` must share an element kind: `%s` and `%s`",
				name, lm.Repr(), rm.Repr())
		}

		sum := func(a, b int64) int64 {
			if a == ir.ShapeUnknown || b == ir.ShapeUnknown {
				return ir.ShapeUnknown
			}

			return a + b
		}

		if byRows {
			cols, ok := matchDim(lm.Cols, rm.Cols)
			if !ok {
				return nil, report.Raise(report.ErrTypeError, nil,
					"arguments of `rbind` must have matching column counts: `%s` and `%s`",
					lm.Repr(), rm.Repr())
			}

			return []ir.Type{ir.MatrixType{Elem: lm.Elem, Rows: sum(lm.Rows, rm.Rows), Cols: cols}}, nil
		}

		rows, ok := matchDim(lm.Rows, rm.Rows)
		if !ok {
			return nil, report.Raise(report.ErrTypeError, nil,
				"arguments of `cbind` must have matching row counts: `%s` and `%s`",
				lm.Repr(), rm.Repr())
		}

		return []ir.Type{ir.MatrixType{Elem: lm.Elem, Rows: rows, Cols: sum(lm.Cols, rm.Cols)}}, nil
	}
}

// matchDim merges two dimensions that must agree where both are known.
func matchDim(a, b int64) (int64, bool) {
	switch {
	case a == ir.ShapeUnknown:
		return b, true
	case b == ir.ShapeUnknown:
		return a, true
	case a == b:
		return a, true
	}

	return 0, false
}

// elemScalarResult reduces a matrix argument to a scalar of its element kind.
func elemScalarResult(args []*ir.Value) ([]ir.Type, *report.CompileError) {
	mt := args[0].Type().(ir.MatrixType)
	return []ir.Type{ir.ScalarType{Kind: mt.Elem}}, nil
}

// floatShapedResult preserves the argument's shape but converts its element
// kind to f64, matching the floating-point result of sqrt/exp/ln.
func floatShapedResult(args []*ir.Value) ([]ir.Type, *report.CompileError) {
	switch at := args[0].Type().(type) {
	case ir.MatrixType:
		return []ir.Type{ir.MatrixType{Elem: ir.KindF64, Rows: at.Rows, Cols: at.Cols}}, nil
	default:
		return []ir.Type{ir.ScalarType{Kind: ir.KindF64}}, nil
	}
}
