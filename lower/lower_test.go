package lower

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matcha/ir"
	"matcha/report"
	"matcha/syntax"
)

// compile parses and lowers a script with the given parameters.
func compile(t *testing.T, src string, params map[string]string) (*ir.Module, *report.CompileError) {
	t.Helper()

	script, err := syntax.Parse(strings.NewReader(src))
	require.NoError(t, err, "script must parse")

	mod, err := Lower("test", script, params, nil)
	if err != nil {
		return nil, err.(*report.CompileError)
	}

	return mod, nil
}

// mustCompile compiles a script that is expected to lower cleanly.
func mustCompile(t *testing.T, src string, params map[string]string) *ir.Module {
	t.Helper()

	mod, ce := compile(t, src, params)
	require.Nil(t, ce)
	return mod
}

// findIfOp returns the first if operation in the module body.
func findIfOp(t *testing.T, mod *ir.Module) *ir.IfOp {
	t.Helper()

	for _, op := range mod.Body.Ops {
		if ifOp, ok := op.(*ir.IfOp); ok {
			return ifOp
		}
	}

	t.Fatal("module contains no if op")
	return nil
}

// -----------------------------------------------------------------------------

func TestLowerIsDeterministic(t *testing.T) {
	src := `
		x = 1;
		acc = 0.0;
		if (x < 5) {
			acc = acc + 1.0;
			x = x * 2;
		} else {
			x = 0;
		}
		while (x < 100) {
			x = x + 1;
			acc = acc + 2.0;
		}
		print(acc);
	`

	first := mustCompile(t, src, nil)
	second := mustCompile(t, src, nil)

	assert.Equal(t, first.Repr(), second.Repr())
}

func TestLowerLiteralsAndParams(t *testing.T) {
	tests := []struct {
		name string
		src  string
		args map[string]string
		want ir.Type
	}{
		{"int literal", `print(42);`, nil, ir.ScalarType{Kind: ir.KindSI64}},
		{"float literal", `print(2.5);`, nil, ir.ScalarType{Kind: ir.KindF64}},
		{"bool literal", `print(true);`, nil, ir.ScalarType{Kind: ir.KindBool}},
		{"string literal", `print("hi");`, nil, ir.ScalarType{Kind: ir.KindStr}},
		{"int param", `print($n);`, map[string]string{"n": "10"}, ir.ScalarType{Kind: ir.KindSI64}},
		{"float param", `print($n);`, map[string]string{"n": "2.5"}, ir.ScalarType{Kind: ir.KindF64}},
		{"bool param", `print($n);`, map[string]string{"n": "true"}, ir.ScalarType{Kind: ir.KindBool}},
		{"string param", `print($n);`, map[string]string{"n": `"label"`}, ir.ScalarType{Kind: ir.KindStr}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := mustCompile(t, tt.src, tt.args)

			cop, ok := mod.Body.Ops[0].(*ir.ConstantOp)
			require.True(t, ok)
			assert.Equal(t, tt.want, cop.Result().Type())
		})
	}
}

func TestLowerUndefinedNames(t *testing.T) {
	t.Run("undefined variable", func(t *testing.T) {
		_, ce := compile(t, `print(x);`, nil)
		require.NotNil(t, ce)
		assert.Equal(t, report.ErrUndefinedVariable, ce.Kind)
		assert.NotNil(t, ce.Span)
	})

	t.Run("undefined parameter", func(t *testing.T) {
		_, ce := compile(t, `print($n);`, nil)
		require.NotNil(t, ce)
		assert.Equal(t, report.ErrUndefinedParameter, ce.Kind)
	})

	t.Run("block-scoped variable does not escape", func(t *testing.T) {
		_, ce := compile(t, `{ y = 1; } print(y);`, nil)
		require.NotNil(t, ce)
		assert.Equal(t, report.ErrUndefinedVariable, ce.Kind)
	})
}

func TestLowerBranchMerge(t *testing.T) {
	t.Run("rebound variable becomes a merge result", func(t *testing.T) {
		mod := mustCompile(t, `
			x = 1;
			if (x < 2) {
				x = x + 1;
			} else {
				x = 0;
			}
			print(x);
		`, nil)

		ifOp := findIfOp(t, mod)
		require.Len(t, ifOp.Results(), 1)
		assert.Equal(t, ir.ScalarType{Kind: ir.KindSI64}, ifOp.Results()[0].Type())

		// The print call sees the merge result, not either branch value.
		last := mod.Body.Ops[len(mod.Body.Ops)-1].(*ir.CallOp)
		assert.Same(t, ifOp.Results()[0], last.Operands()[0])
	})

	t.Run("one-sided assignment still merges", func(t *testing.T) {
		mod := mustCompile(t, `
			x = 1;
			if (x < 2) {
				x = x + 1;
			}
			print(x);
		`, nil)

		ifOp := findIfOp(t, mod)
		require.Len(t, ifOp.Results(), 1)

		// The absent else yields the pre-branch value.
		elseYield := ifOp.Else.Ops[len(ifOp.Else.Ops)-1].(*ir.YieldOp)
		require.Len(t, elseYield.Operands(), 1)
	})

	t.Run("mixed kinds promote with explicit casts", func(t *testing.T) {
		mod := mustCompile(t, `
			x = 1;
			if (x < 2) {
				x = 2.5;
			}
			print(x);
		`, nil)

		ifOp := findIfOp(t, mod)
		require.Len(t, ifOp.Results(), 1)
		assert.Equal(t, ir.ScalarType{Kind: ir.KindF64}, ifOp.Results()[0].Type())

		// The narrower branch received a widening cast.
		var sawCast bool
		for _, op := range ifOp.Else.Ops {
			if _, ok := op.(*ir.CastOp); ok {
				sawCast = true
			}
		}
		assert.True(t, sawCast)
	})

	t.Run("condition must be bool", func(t *testing.T) {
		_, ce := compile(t, `if (1) { x = 1; }`, nil)
		require.NotNil(t, ce)
		assert.Equal(t, report.ErrTypeError, ce.Kind)
	})
}

func TestLowerLoops(t *testing.T) {
	t.Run("while carries rebound variables", func(t *testing.T) {
		mod := mustCompile(t, `
			i = 0;
			while (i < 3) {
				i = i + 1;
			}
			print(i);
		`, nil)

		var whileOp *ir.WhileOp
		for _, op := range mod.Body.Ops {
			if w, ok := op.(*ir.WhileOp); ok {
				whileOp = w
			}
		}
		require.NotNil(t, whileOp)

		require.Len(t, whileOp.Operands(), 1)
		require.Len(t, whileOp.Results(), 1)
		assert.Len(t, whileOp.Cond.Params, 1)
		assert.Len(t, whileOp.Body.Params, 1)

		// The print call sees the loop result.
		last := mod.Body.Ops[len(mod.Body.Ops)-1].(*ir.CallOp)
		assert.Same(t, whileOp.Results()[0], last.Operands()[0])
	})

	t.Run("for leads its body with the induction variable", func(t *testing.T) {
		mod := mustCompile(t, `
			s = 0;
			for (i in 1:10:2) {
				s = s + i;
			}
			print(s);
		`, nil)

		var forOp *ir.ForOp
		for _, op := range mod.Body.Ops {
			if f, ok := op.(*ir.ForOp); ok {
				forOp = f
			}
		}
		require.NotNil(t, forOp)

		// start, end, step plus one carried value.
		assert.Len(t, forOp.Operands(), 4)
		// induction variable plus one carried value.
		assert.Len(t, forOp.Body.Params, 2)
	})

	t.Run("default step is one", func(t *testing.T) {
		mod := mustCompile(t, `
			s = 0;
			for (i in 1:10) {
				s = s + i;
			}
			print(s);
		`, nil)

		var forOp *ir.ForOp
		for _, op := range mod.Body.Ops {
			if f, ok := op.(*ir.ForOp); ok {
				forOp = f
			}
		}
		require.NotNil(t, forOp)

		step, ok := ir.FoldToConstant(forOp.Operands()[2])
		require.True(t, ok)
		assert.Equal(t, int64(1), step.I)
	})

	t.Run("induction variable does not escape", func(t *testing.T) {
		_, ce := compile(t, `
			s = 0;
			for (i in 1:10) {
				s = s + i;
			}
			print(i);
		`, nil)
		require.NotNil(t, ce)
		assert.Equal(t, report.ErrUndefinedVariable, ce.Kind)
	})

	t.Run("loop variable cannot be reassigned", func(t *testing.T) {
		_, ce := compile(t, `
			s = 0;
			for (i in 1:10) {
				i = i + 1;
				s = s + i;
			}
		`, nil)
		require.NotNil(t, ce)
		assert.Equal(t, report.ErrTypeError, ce.Kind)
		// The error points at the loop variable's name.
		require.NotNil(t, ce.Span)
		assert.Equal(t, 2, ce.Span.StartLine)
	})

	t.Run("non-integer bound rejected", func(t *testing.T) {
		_, ce := compile(t, `for (i in 1.5:3) { x = i; }`, nil)
		require.NotNil(t, ce)
		assert.Equal(t, report.ErrTypeError, ce.Kind)
	})
}

func TestLowerCalls(t *testing.T) {
	t.Run("multi-assign binds each result", func(t *testing.T) {
		mod := mustCompile(t, `
			m = fill(1.0, 2, 2);
			v, w = eig(m);
			print(v);
			print(w);
		`, nil)

		var callOp *ir.CallOp
		for _, op := range mod.Body.Ops {
			if c, ok := op.(*ir.CallOp); ok && c.Callee == "eig" {
				callOp = c
			}
		}
		require.NotNil(t, callOp)
		assert.Len(t, callOp.Results(), 2)
	})

	t.Run("target count mismatch", func(t *testing.T) {
		_, ce := compile(t, `
			m = fill(1.0, 2, 2);
			x, y = sum(m);
		`, nil)
		require.NotNil(t, ce)
		assert.Equal(t, report.ErrArityMismatch, ce.Kind)
	})

	t.Run("zero-result call has no value", func(t *testing.T) {
		_, ce := compile(t, `x = print(1);`, nil)
		require.NotNil(t, ce)
		assert.Equal(t, report.ErrArityMismatch, ce.Kind)
	})

	t.Run("unknown builtin carries the call span", func(t *testing.T) {
		_, ce := compile(t, `frob(1);`, nil)
		require.NotNil(t, ce)
		assert.Equal(t, report.ErrNoMatchingOverload, ce.Kind)
		assert.NotNil(t, ce.Span)
	})
}

func TestLowerCastsAndIndexing(t *testing.T) {
	t.Run("explicit cast", func(t *testing.T) {
		mod := mustCompile(t, `print(as.f64(3));`, nil)

		castOp, ok := mod.Body.Ops[1].(*ir.CastOp)
		require.True(t, ok)
		assert.Equal(t, ir.ScalarType{Kind: ir.KindF64}, castOp.Result().Type())
	})

	t.Run("unknown type name", func(t *testing.T) {
		_, ce := compile(t, `print(as.widget(3));`, nil)
		require.NotNil(t, ce)
		assert.Equal(t, report.ErrTypeError, ce.Kind)
	})

	t.Run("row indexing", func(t *testing.T) {
		mod := mustCompile(t, `
			m = fill(1.0, 3, 3);
			print(m[1, ]);
		`, nil)

		var idxOp *ir.IndexOp
		for _, op := range mod.Body.Ops {
			if i, ok := op.(*ir.IndexOp); ok {
				idxOp = i
			}
		}
		require.NotNil(t, idxOp)
		assert.True(t, idxOp.HasRow)
		assert.False(t, idxOp.HasCol)
		assert.Equal(t, ir.MatrixType{Elem: ir.KindF64, Rows: 1, Cols: 3}, idxOp.Result().Type())
	})
}

func TestLowerTypeErrors(t *testing.T) {
	t.Run("string arithmetic", func(t *testing.T) {
		_, ce := compile(t, `x = 1 + "a";`, nil)
		require.NotNil(t, ce)
		assert.Equal(t, report.ErrTypeError, ce.Kind)
		assert.NotNil(t, ce.Span)
	})

	t.Run("matmul on scalars", func(t *testing.T) {
		_, ce := compile(t, `x = 1 @ 2;`, nil)
		require.NotNil(t, ce)
		assert.Equal(t, report.ErrTypeError, ce.Kind)
	})

	t.Run("while condition must be bool", func(t *testing.T) {
		_, ce := compile(t, `while ("s") { x = 1; }`, nil)
		require.NotNil(t, ce)
		assert.Equal(t, report.ErrTypeError, ce.Kind)
	})
}
