package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromoteKinds(t *testing.T) {
	tests := []struct {
		name string
		a, b ScalarKind
		want ScalarKind
		ok   bool
	}{
		{"identical", KindSI64, KindSI64, KindSI64, true},
		{"float dominates int", KindSI32, KindF32, KindF32, true},
		{"wider float dominates", KindF32, KindF64, KindF64, true},
		{"wide int forces f64", KindSI64, KindF32, KindF64, true},
		{"wide uint forces f64", KindUI64, KindF32, KindF64, true},
		{"wider int dominates", KindSI8, KindSI32, KindSI32, true},
		{"signed dominates unsigned", KindSI32, KindUI32, KindSI32, true},
		{"signed dominates at width", KindUI64, KindSI8, KindSI64, true},
		{"unsigned widens unsigned", KindUI8, KindUI32, KindUI32, true},
		{"bool is not numeric", KindBool, KindSI64, 0, false},
		{"str is not numeric", KindSI64, KindStr, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PromoteKinds(tt.a, tt.b)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)

				// Promotion is symmetric.
				sym, _ := PromoteKinds(tt.b, tt.a)
				assert.Equal(t, got, sym)
			}
		})
	}
}

func TestTypeRepr(t *testing.T) {
	assert.Equal(t, "si64", ScalarType{Kind: KindSI64}.Repr())
	assert.Equal(t, "matrix[3x4, f64]", MatrixType{Elem: KindF64, Rows: 3, Cols: 4}.Repr())
	assert.Equal(t, "matrix[?x1, si64]", MatrixType{Elem: KindSI64, Rows: ShapeUnknown, Cols: 1}.Repr())
	assert.Equal(t,
		"frame[a: si64, b: f64]",
		FrameType{Labels: []string{"a", "b"}, Elems: []ScalarKind{KindSI64, KindF64}}.Repr())
}

func TestTypesEqual(t *testing.T) {
	assert.True(t, TypesEqual(ScalarType{Kind: KindF64}, ScalarType{Kind: KindF64}))
	assert.False(t, TypesEqual(ScalarType{Kind: KindF64}, ScalarType{Kind: KindF32}))
	assert.False(t, TypesEqual(ScalarType{Kind: KindF64}, MatrixType{Elem: KindF64, Rows: 1, Cols: 1}))
	assert.True(t, TypesEqual(
		MatrixType{Elem: KindSI64, Rows: 2, Cols: 3},
		MatrixType{Elem: KindSI64, Rows: 2, Cols: 3}))
	assert.False(t, TypesEqual(
		MatrixType{Elem: KindSI64, Rows: 2, Cols: 3},
		MatrixType{Elem: KindSI64, Rows: 2, Cols: 4}))
}

func TestJoinTypes(t *testing.T) {
	t.Run("identical types join to themselves", func(t *testing.T) {
		joined, ok := JoinTypes(ScalarType{Kind: KindSI64}, ScalarType{Kind: KindSI64})
		require.True(t, ok)
		assert.Equal(t, ScalarType{Kind: KindSI64}, joined)
	})

	t.Run("disagreeing dims degrade to unknown", func(t *testing.T) {
		joined, ok := JoinTypes(
			MatrixType{Elem: KindF64, Rows: 2, Cols: 3},
			MatrixType{Elem: KindF64, Rows: 4, Cols: 3})
		require.True(t, ok)
		assert.Equal(t, MatrixType{Elem: KindF64, Rows: ShapeUnknown, Cols: 3}, joined)
	})

	t.Run("different scalar kinds do not join", func(t *testing.T) {
		_, ok := JoinTypes(ScalarType{Kind: KindSI64}, ScalarType{Kind: KindF64})
		assert.False(t, ok)
	})

	t.Run("different matrix elems do not join", func(t *testing.T) {
		_, ok := JoinTypes(
			MatrixType{Elem: KindSI64, Rows: 2, Cols: 2},
			MatrixType{Elem: KindF64, Rows: 2, Cols: 2})
		assert.False(t, ok)
	})
}
