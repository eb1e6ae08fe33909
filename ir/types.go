package ir

import (
	"fmt"
	"strings"
)

// Type represents a type that can be carried by an IR value.
type Type interface {
	// Repr returns the string representation of the IR type.
	Repr() string
}

// -----------------------------------------------------------------------------

// ScalarKind represents the element kind of a scalar or matrix type.  It must
// be one of the enumerated scalar kinds.
type ScalarKind int

// Enumeration of scalar kinds.
const (
	KindBool ScalarKind = iota
	KindSI8
	KindSI32
	KindSI64
	KindUI8
	KindUI32
	KindUI64
	KindF32
	KindF64
	KindStr
)

// Table of scalar kind names.
var scalarKindNames = map[ScalarKind]string{
	KindBool: "bool",
	KindSI8:  "si8",
	KindSI32: "si32",
	KindSI64: "si64",
	KindUI8:  "ui8",
	KindUI32: "ui32",
	KindUI64: "ui64",
	KindF32:  "f32",
	KindF64:  "f64",
	KindStr:  "str",
}

func (sk ScalarKind) Repr() string {
	return scalarKindNames[sk]
}

// ScalarKindNamed looks up a scalar kind by its source-level name.
func ScalarKindNamed(name string) (ScalarKind, bool) {
	for kind, kname := range scalarKindNames {
		if kname == name {
			return kind, true
		}
	}

	return 0, false
}

// IsNumeric returns whether the kind is an integer or floating-point kind.
func (sk ScalarKind) IsNumeric() bool {
	return sk != KindBool && sk != KindStr
}

// IsFloat returns whether the kind is a floating-point kind.
func (sk ScalarKind) IsFloat() bool {
	return sk == KindF32 || sk == KindF64
}

// IsSigned returns whether the kind is a signed integer kind.
func (sk ScalarKind) IsSigned() bool {
	return sk == KindSI8 || sk == KindSI32 || sk == KindSI64
}

// width returns the bit width of a numeric kind.
func (sk ScalarKind) width() int {
	switch sk {
	case KindSI8, KindUI8:
		return 8
	case KindSI32, KindUI32, KindF32:
		return 32
	default: // si64, ui64, f64
		return 64
	}
}

// PromoteKinds computes the common scalar kind two numeric kinds promote to:
// floating point dominates integer, wider dominates narrower, and a
// signed/unsigned mix promotes to the signed kind of the wider width.  It
// returns false if either kind is not numeric.
func PromoteKinds(a, b ScalarKind) (ScalarKind, bool) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return 0, false
	}

	if a == b {
		return a, true
	}

	if a.IsFloat() || b.IsFloat() {
		if a == KindF64 || b == KindF64 {
			return KindF64, true
		}

		if a.width() > 32 || b.width() > 32 {
			// A 64-bit integer does not fit in an f32.
			return KindF64, true
		}

		return KindF32, true
	}

	width := a.width()
	if b.width() > width {
		width = b.width()
	}

	if a.IsSigned() || b.IsSigned() {
		switch width {
		case 8:
			return KindSI8, true
		case 32:
			return KindSI32, true
		default:
			return KindSI64, true
		}
	}

	switch width {
	case 8:
		return KindUI8, true
	case 32:
		return KindUI32, true
	default:
		return KindUI64, true
	}
}

// -----------------------------------------------------------------------------

// ScalarType represents a single scalar value of some kind.
type ScalarType struct {
	Kind ScalarKind
}

func (st ScalarType) Repr() string {
	return st.Kind.Repr()
}

// -----------------------------------------------------------------------------

// ShapeUnknown marks a matrix dimension that is not statically known.
const ShapeUnknown int64 = -1

// MatrixType represents a matrix of some element kind with an optionally
// statically-known shape.  Unknown dimensions are propagated conservatively.
type MatrixType struct {
	// The element kind of the matrix.
	Elem ScalarKind

	// The number of rows and columns, or ShapeUnknown.
	Rows, Cols int64
}

func (mt MatrixType) Repr() string {
	return fmt.Sprintf("matrix[%sx%s, %s]", reprDim(mt.Rows), reprDim(mt.Cols), mt.Elem.Repr())
}

func reprDim(dim int64) string {
	if dim == ShapeUnknown {
		return "?"
	}

	return fmt.Sprintf("%d", dim)
}

// -----------------------------------------------------------------------------

// FrameType represents a frame: a collection of named columns, each with its
// own element kind.
type FrameType struct {
	// The column labels, in order.
	Labels []string

	// The element kinds of the columns, positionally matching Labels.
	Elems []ScalarKind
}

func (ft FrameType) Repr() string {
	sb := strings.Builder{}
	sb.WriteString("frame[")

	for i, label := range ft.Labels {
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(ft.Elems[i].Repr())

		if i < len(ft.Labels)-1 {
			sb.WriteString(", ")
		}
	}

	sb.WriteString("]")
	return sb.String()
}

// -----------------------------------------------------------------------------

// TypesEqual returns whether two IR types are structurally identical.
func TypesEqual(a, b Type) bool {
	switch av := a.(type) {
	case ScalarType:
		bv, ok := b.(ScalarType)
		return ok && av.Kind == bv.Kind
	case MatrixType:
		bv, ok := b.(MatrixType)
		return ok && av.Elem == bv.Elem && av.Rows == bv.Rows && av.Cols == bv.Cols
	case FrameType:
		bv, ok := b.(FrameType)
		if !ok || len(av.Labels) != len(bv.Labels) {
			return false
		}

		for i := range av.Labels {
			if av.Labels[i] != bv.Labels[i] || av.Elems[i] != bv.Elems[i] {
				return false
			}
		}

		return true
	}

	return false
}

// JoinTypes computes the type of a value merged from two control-flow paths:
// identical types join to themselves and matrices of the same element kind
// join dimension-wise, with disagreeing dimensions degrading to unknown.
// Scalars of different kinds never join implicitly; the lowerer inserts
// explicit promotion casts before the merge instead.
func JoinTypes(a, b Type) (Type, bool) {
	if TypesEqual(a, b) {
		return a, true
	}

	am, aok := a.(MatrixType)
	bm, bok := b.(MatrixType)
	if aok && bok && am.Elem == bm.Elem {
		return MatrixType{Elem: am.Elem, Rows: joinDim(am.Rows, bm.Rows), Cols: joinDim(am.Cols, bm.Cols)}, true
	}

	return nil, false
}

func joinDim(a, b int64) int64 {
	if a == b {
		return a
	}

	return ShapeUnknown
}
