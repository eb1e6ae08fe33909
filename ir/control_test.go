package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matcha/report"
)

// yieldingRegion builds a region terminated by a yield of the given values.
func yieldingRegion(values ...*Value) *Region {
	r := NewRegion()
	r.Append(NewYieldOp(values))
	return r
}

func TestIfOpVerification(t *testing.T) {
	cond := valueOf(ScalarType{Kind: KindBool})
	si64 := valueOf(ScalarType{Kind: KindSI64})

	t.Run("results take the joined yield types", func(t *testing.T) {
		a := valueOf(MatrixType{Elem: KindF64, Rows: 2, Cols: 3})
		b := valueOf(MatrixType{Elem: KindF64, Rows: 4, Cols: 3})

		op, err := NewIfOp(cond, yieldingRegion(a), yieldingRegion(b))
		require.Nil(t, err)
		require.Len(t, op.Results(), 1)
		assert.Equal(t, MatrixType{Elem: KindF64, Rows: ShapeUnknown, Cols: 3}, op.Results()[0].Type())
	})

	t.Run("non-bool condition rejected", func(t *testing.T) {
		_, err := NewIfOp(si64, yieldingRegion(), yieldingRegion())
		require.NotNil(t, err)
		assert.Equal(t, report.ErrTypeError, err.Kind)
	})

	t.Run("yield count mismatch rejected", func(t *testing.T) {
		_, err := NewIfOp(cond, yieldingRegion(si64), yieldingRegion())
		require.NotNil(t, err)
		assert.Equal(t, report.ErrArityMismatch, err.Kind)
	})

	t.Run("incompatible yield types rejected", func(t *testing.T) {
		f64 := valueOf(ScalarType{Kind: KindF64})

		_, err := NewIfOp(cond, yieldingRegion(si64), yieldingRegion(f64))
		require.NotNil(t, err)
		assert.Equal(t, report.ErrTypeError, err.Kind)
	})

	t.Run("missing terminator rejected", func(t *testing.T) {
		_, err := NewIfOp(cond, NewRegion(), yieldingRegion())
		require.NotNil(t, err)
	})
}

func TestWhileOpVerification(t *testing.T) {
	si64 := ScalarType{Kind: KindSI64}
	boolTy := ScalarType{Kind: KindBool}

	// newLoopRegions builds matching cond and body regions over one carried
	// si64 value.
	newLoopRegions := func() (*Region, *Region, []*Value) {
		init := valueOf(si64)

		cond := NewRegion()
		cond.AddParam(si64)
		cond.Append(NewYieldOp([]*Value{valueOf(boolTy)}))

		body := NewRegion()
		p := body.AddParam(si64)
		body.Append(NewYieldOp([]*Value{p}))

		return cond, body, []*Value{init}
	}

	t.Run("results take the carried types", func(t *testing.T) {
		cond, body, inits := newLoopRegions()

		op, err := NewWhileOp(inits, cond, body)
		require.Nil(t, err)
		require.Len(t, op.Results(), 1)
		assert.Equal(t, si64, op.Results()[0].Type())
	})

	t.Run("param count mismatch rejected", func(t *testing.T) {
		cond, body, inits := newLoopRegions()
		cond.AddParam(si64)

		_, err := NewWhileOp(inits, cond, body)
		require.NotNil(t, err)
		assert.Equal(t, report.ErrArityMismatch, err.Kind)
	})

	t.Run("non-bool condition yield rejected", func(t *testing.T) {
		cond := NewRegion()
		cond.AddParam(si64)
		cond.Append(NewYieldOp([]*Value{valueOf(si64)}))

		_, body, inits := newLoopRegions()

		_, err := NewWhileOp(inits, cond, body)
		require.NotNil(t, err)
		assert.Equal(t, report.ErrTypeError, err.Kind)
	})

	t.Run("carried type change rejected", func(t *testing.T) {
		cond, _, inits := newLoopRegions()

		body := NewRegion()
		body.AddParam(si64)
		body.Append(NewYieldOp([]*Value{valueOf(ScalarType{Kind: KindF64})}))

		_, err := NewWhileOp(inits, cond, body)
		require.NotNil(t, err)
		assert.Equal(t, report.ErrTypeError, err.Kind)
	})
}

func TestForOpVerification(t *testing.T) {
	si64 := ScalarType{Kind: KindSI64}

	bound := func() *Value { return valueOf(si64) }

	t.Run("body leads with the induction variable", func(t *testing.T) {
		init := valueOf(ScalarType{Kind: KindF64})

		body := NewRegion()
		body.AddParam(si64)
		p := body.AddParam(ScalarType{Kind: KindF64})
		body.Append(NewYieldOp([]*Value{p}))

		op, err := NewForOp(bound(), bound(), bound(), []*Value{init}, body)
		require.Nil(t, err)
		require.Len(t, op.Results(), 1)
		assert.Equal(t, ScalarType{Kind: KindF64}, op.Results()[0].Type())
		assert.Len(t, op.Operands(), 4)
	})

	t.Run("non-si64 bound rejected", func(t *testing.T) {
		body := NewRegion()
		body.AddParam(si64)
		body.Append(NewYieldOp(nil))

		_, err := NewForOp(bound(), valueOf(ScalarType{Kind: KindF64}), bound(), nil, body)
		require.NotNil(t, err)
		assert.Equal(t, report.ErrTypeError, err.Kind)
	})

	t.Run("missing induction param rejected", func(t *testing.T) {
		body := NewRegion()
		body.Append(NewYieldOp(nil))

		_, err := NewForOp(bound(), bound(), bound(), nil, body)
		require.NotNil(t, err)
		assert.Equal(t, report.ErrArityMismatch, err.Kind)
	})
}
