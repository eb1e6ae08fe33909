package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matcha/ir"
	"matcha/report"
)

func scalarValue(kind ir.ScalarKind) *ir.Value {
	return ir.NewRegion().AddParam(ir.ScalarType{Kind: kind})
}

func TestSymbolTableScoping(t *testing.T) {
	st := NewSymbolTable()
	st.PushScope()

	outer := scalarValue(ir.KindSI64)
	st.Declare("x", outer)

	got, ok := st.Lookup("x")
	require.True(t, ok)
	assert.Same(t, outer, got)

	// An inner declaration shadows; popping the scope unshadows.
	st.PushScope()
	inner := scalarValue(ir.KindF64)
	st.Declare("x", inner)

	got, _ = st.Lookup("x")
	assert.Same(t, inner, got)

	require.Nil(t, st.PopScope())

	got, ok = st.Lookup("x")
	require.True(t, ok)
	assert.Same(t, outer, got)
}

func TestSymbolTableAssign(t *testing.T) {
	st := NewSymbolTable()
	st.PushScope()

	outer := scalarValue(ir.KindSI64)
	st.Declare("x", outer)
	st.PushScope()

	// Assignment rebinds in the owning scope, not the innermost.
	next := scalarValue(ir.KindSI64)
	st.Assign("x", next)

	require.Nil(t, st.PopScope())

	got, ok := st.Lookup("x")
	require.True(t, ok)
	assert.Same(t, next, got)

	// Assignment of an unbound name declares it in the innermost scope.
	st.PushScope()
	st.Assign("y", outer)

	_, ok = st.Lookup("y")
	assert.True(t, ok)

	require.Nil(t, st.PopScope())

	_, ok = st.Lookup("y")
	assert.False(t, ok)
}

func TestSymbolTableUnderflow(t *testing.T) {
	st := NewSymbolTable()

	err := st.PopScope()
	require.NotNil(t, err)
	assert.Equal(t, report.ErrScopeUnderflow, err.Kind)
}

func TestSymbolTableSnapshotDiff(t *testing.T) {
	st := NewSymbolTable()
	st.PushScope()

	a := scalarValue(ir.KindSI64)
	b := scalarValue(ir.KindSI64)
	st.Declare("a", a)
	st.Declare("b", b)

	snap := st.Snapshot()

	// Rebind one name, introduce a new one in a nested scope, leave one
	// untouched.
	a2 := scalarValue(ir.KindSI64)
	st.Assign("a", a2)

	st.PushScope()
	st.Declare("local", scalarValue(ir.KindF64))

	changed := st.ChangedSince(snap)
	require.Len(t, changed, 1)
	assert.Same(t, a2, changed["a"])

	require.Nil(t, st.PopScope())

	// Restore resets the rebinding.
	st.Restore(snap)

	got, _ := st.Lookup("a")
	assert.Same(t, a, got)

	assert.Empty(t, st.ChangedSince(snap))
}
