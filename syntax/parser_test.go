package syntax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matcha/ast"
	"matcha/report"
)

// parseScript parses a source string that is expected to be well-formed.
func parseScript(t *testing.T, src string) *ast.Script {
	t.Helper()

	script, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	return script
}

// parseRHS parses a single assignment statement and returns its right-hand
// side.
func parseRHS(t *testing.T, src string) ast.ASTExpr {
	t.Helper()

	script := parseScript(t, src)
	require.Len(t, script.Stmts, 1)

	assign, ok := script.Stmts[0].(*ast.Assignment)
	require.True(t, ok)
	return assign.RHS
}

func TestParsePrecedence(t *testing.T) {
	t.Run("mul binds tighter than add", func(t *testing.T) {
		add, ok := parseRHS(t, `x = 1 + 2 * 3;`).(*ast.BinaryOp)
		require.True(t, ok)
		assert.Equal(t, ast.OpAdd, add.Op)

		mul, ok := add.Rhs.(*ast.BinaryOp)
		require.True(t, ok)
		assert.Equal(t, ast.OpMul, mul.Op)
	})

	t.Run("matmul binds tighter than mul", func(t *testing.T) {
		mul, ok := parseRHS(t, `x = a @ b * c;`).(*ast.BinaryOp)
		require.True(t, ok)
		assert.Equal(t, ast.OpMul, mul.Op)

		mm, ok := mul.Lhs.(*ast.BinaryOp)
		require.True(t, ok)
		assert.Equal(t, ast.OpMatMul, mm.Op)
	})

	t.Run("pow is right associative", func(t *testing.T) {
		outer, ok := parseRHS(t, `x = 2 ^ 3 ^ 2;`).(*ast.BinaryOp)
		require.True(t, ok)
		assert.Equal(t, ast.OpPow, outer.Op)

		inner, ok := outer.Rhs.(*ast.BinaryOp)
		require.True(t, ok)
		assert.Equal(t, ast.OpPow, inner.Op)
	})

	t.Run("negation applies to a whole power", func(t *testing.T) {
		neg, ok := parseRHS(t, `x = -a ^ 2;`).(*ast.UnaryOp)
		require.True(t, ok)
		assert.Equal(t, ast.OpNeg, neg.Op)

		pow, ok := neg.Operand.(*ast.BinaryOp)
		require.True(t, ok)
		assert.Equal(t, ast.OpPow, pow.Op)
	})

	t.Run("comparison binds looser than arithmetic", func(t *testing.T) {
		lt, ok := parseRHS(t, `x = a + 1 < b * 2;`).(*ast.BinaryOp)
		require.True(t, ok)
		assert.Equal(t, ast.OpLt, lt.Op)
	})

	t.Run("parens override precedence", func(t *testing.T) {
		mul, ok := parseRHS(t, `x = (1 + 2) * 3;`).(*ast.BinaryOp)
		require.True(t, ok)
		assert.Equal(t, ast.OpMul, mul.Op)

		add, ok := mul.Lhs.(*ast.BinaryOp)
		require.True(t, ok)
		assert.Equal(t, ast.OpAdd, add.Op)
	})
}

func TestParseStatements(t *testing.T) {
	t.Run("multi-assignment", func(t *testing.T) {
		script := parseScript(t, `v, w = eig(m);`)

		assign, ok := script.Stmts[0].(*ast.Assignment)
		require.True(t, ok)
		require.Len(t, assign.Targets, 2)
		assert.Equal(t, "v", assign.Targets[0].Name)
		assert.Equal(t, "w", assign.Targets[1].Name)

		call, ok := assign.RHS.(*ast.Call)
		require.True(t, ok)
		assert.Equal(t, "eig", call.Name)
	})

	t.Run("call statement", func(t *testing.T) {
		script := parseScript(t, `print(x, "label");`)

		exprStmt, ok := script.Stmts[0].(*ast.ExprStmt)
		require.True(t, ok)

		call, ok := exprStmt.Expr.(*ast.Call)
		require.True(t, ok)
		assert.Equal(t, "print", call.Name)
		assert.Len(t, call.Args, 2)
	})

	t.Run("if else-if chain nests", func(t *testing.T) {
		script := parseScript(t, `
			if (a) {
				x = 1;
			} else if (b) {
				x = 2;
			} else {
				x = 3;
			}
		`)

		outer, ok := script.Stmts[0].(*ast.IfStmt)
		require.True(t, ok)
		require.NotNil(t, outer.Else)
		require.Len(t, outer.Else.Stmts, 1)

		nested, ok := outer.Else.Stmts[0].(*ast.IfStmt)
		require.True(t, ok)
		assert.NotNil(t, nested.Else)
	})

	t.Run("for loop with step", func(t *testing.T) {
		script := parseScript(t, `for (i in 1:10:2) { s = s + i; }`)

		forLoop, ok := script.Stmts[0].(*ast.ForLoop)
		require.True(t, ok)
		assert.Equal(t, "i", forLoop.IterName)
		assert.NotNil(t, forLoop.Step)
	})

	t.Run("for loop without step", func(t *testing.T) {
		script := parseScript(t, `for (i in 1:10) { s = s + i; }`)

		forLoop, ok := script.Stmts[0].(*ast.ForLoop)
		require.True(t, ok)
		assert.Nil(t, forLoop.Step)
	})

	t.Run("while loop", func(t *testing.T) {
		script := parseScript(t, `while (i < 3) { i = i + 1; }`)

		whileLoop, ok := script.Stmts[0].(*ast.WhileLoop)
		require.True(t, ok)
		require.Len(t, whileLoop.Body.Stmts, 1)
	})

	t.Run("bare block", func(t *testing.T) {
		script := parseScript(t, `{ x = 1; y = 2; }`)

		block, ok := script.Stmts[0].(*ast.Block)
		require.True(t, ok)
		assert.Len(t, block.Stmts, 2)
	})
}

func TestParseOperands(t *testing.T) {
	t.Run("cast", func(t *testing.T) {
		cast, ok := parseRHS(t, `x = as.f64(n + 1);`).(*ast.Cast)
		require.True(t, ok)
		assert.Equal(t, "f64", cast.Target)

		_, ok = cast.Src.(*ast.BinaryOp)
		assert.True(t, ok)
	})

	t.Run("parameter reference", func(t *testing.T) {
		ref, ok := parseRHS(t, `x = $rows;`).(*ast.ArgRef)
		require.True(t, ok)
		assert.Equal(t, "rows", ref.Name)
	})

	t.Run("full indexing", func(t *testing.T) {
		idx, ok := parseRHS(t, `x = m[i, j];`).(*ast.Index)
		require.True(t, ok)
		assert.NotNil(t, idx.Row)
		assert.NotNil(t, idx.Col)
	})

	t.Run("row-only indexing", func(t *testing.T) {
		idx, ok := parseRHS(t, `x = m[i, ];`).(*ast.Index)
		require.True(t, ok)
		assert.NotNil(t, idx.Row)
		assert.Nil(t, idx.Col)
	})

	t.Run("column-only indexing", func(t *testing.T) {
		idx, ok := parseRHS(t, `x = m[, j];`).(*ast.Index)
		require.True(t, ok)
		assert.Nil(t, idx.Row)
		assert.NotNil(t, idx.Col)
	})

	t.Run("chained indexing", func(t *testing.T) {
		outer, ok := parseRHS(t, `x = m[1, ][, 2];`).(*ast.Index)
		require.True(t, ok)

		_, ok = outer.Operand.(*ast.Index)
		assert.True(t, ok)
	})

	t.Run("literals", func(t *testing.T) {
		lit, ok := parseRHS(t, `x = 2.5e-3;`).(*ast.Literal)
		require.True(t, ok)
		assert.Equal(t, ast.LitFloat, lit.Kind)
		assert.Equal(t, "2.5e-3", lit.Value)

		lit, ok = parseRHS(t, `x = "hi there";`).(*ast.Literal)
		require.True(t, ok)
		assert.Equal(t, ast.LitString, lit.Kind)
		assert.Equal(t, "hi there", lit.Value)

		lit, ok = parseRHS(t, `x = false;`).(*ast.Literal)
		require.True(t, ok)
		assert.Equal(t, ast.LitBool, lit.Kind)
		assert.Equal(t, "false", lit.Value)
	})
}

func TestParseComments(t *testing.T) {
	script := parseScript(t, `
		// leading comment
		x = 1; // trailing comment
		/* block
		   comment */
		y = x / 2;
	`)

	require.Len(t, script.Stmts, 2)

	div, ok := script.Stmts[1].(*ast.Assignment).RHS.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpDiv, div.Op)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing semicolon", `x = 1`},
		{"unclosed string", `x = "oops;`},
		{"unclosed block comment", `x = 1; /* oops`},
		{"unclosed paren", `x = (1 + 2;`},
		{"missing assignment rhs", `x = ;`},
		{"bare parameter sigil", `x = $;`},
		{"unknown rune", `x = 1 & 2;`},
		{"for without in", `for (i 1:10) { }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			require.Error(t, err)

			ce, ok := err.(*report.CompileError)
			require.True(t, ok)
			assert.Equal(t, report.ErrSyntax, ce.Kind)
			assert.NotNil(t, ce.Span)
		})
	}
}

func TestParseSpans(t *testing.T) {
	script := parseScript(t, `x = 10 + 2;`)

	assign := script.Stmts[0].(*ast.Assignment)
	span := assign.Span()

	assert.Equal(t, 0, span.StartLine)
	assert.Equal(t, 0, span.StartCol)
	assert.Equal(t, 10, span.EndCol)
}
