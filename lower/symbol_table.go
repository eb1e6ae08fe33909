package lower

import (
	"matcha/ir"
	"matcha/report"
)

// SymbolTable tracks the IR value currently bound to each source variable as
// the lowerer walks nested blocks.  It is an ordered stack of scopes searched
// innermost-to-outermost, so inner bindings shadow outer ones.  Each
// compilation owns its own table: it is never shared across compilations.
type SymbolTable struct {
	// The stack of scopes.  The innermost scope is last.
	scopes []map[string]*ir.Value
}

// NewSymbolTable creates a new symbol table with no open scopes.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{}
}

// PushScope begins a new nested scope.
func (st *SymbolTable) PushScope() {
	st.scopes = append(st.scopes, make(map[string]*ir.Value))
}

// PopScope discards the innermost scope and all bindings introduced inside
// it.  It fails if no scope is open.
func (st *SymbolTable) PopScope() *report.CompileError {
	if len(st.scopes) == 0 {
		return report.Raise(report.ErrScopeUnderflow, nil, "no scope to pop")
	}

	st.scopes = st.scopes[:len(st.scopes)-1]
	return nil
}

// Declare binds name to value in the innermost scope, shadowing any outer
// binding of the same name.  Re-declaring a name already bound in the
// innermost scope simply updates the binding.
func (st *SymbolTable) Declare(name string, value *ir.Value) {
	if len(st.scopes) == 0 {
		panic("declare with no open scope")
	}

	st.scopes[len(st.scopes)-1][name] = value
}

// Lookup resolves name against the nearest enclosing scope that defines it.
func (st *SymbolTable) Lookup(name string) (*ir.Value, bool) {
	// iterate through scopes backwards to facilitate shadowing
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if value, ok := st.scopes[i][name]; ok {
			return value, true
		}
	}

	return nil, false
}

// Assign rebinds name to value in the scope that currently owns it.  If no
// scope owns the name, the assignment behaves as a fresh declaration in the
// innermost scope: script variables are not pre-declared.
func (st *SymbolTable) Assign(name string, value *ir.Value) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if _, ok := st.scopes[i][name]; ok {
			st.scopes[i][name] = value
			return
		}
	}

	st.Declare(name, value)
}

// -----------------------------------------------------------------------------

// Snapshot captures the current bindings of every open scope.  The lowerer
// snapshots before lowering a branch so it can diff which names the branch
// rebound and then restore the pre-branch state.
func (st *SymbolTable) Snapshot() []map[string]*ir.Value {
	snap := make([]map[string]*ir.Value, len(st.scopes))
	for i, scope := range st.scopes {
		copied := make(map[string]*ir.Value, len(scope))
		for name, value := range scope {
			copied[name] = value
		}

		snap[i] = copied
	}

	return snap
}

// Restore resets all bindings to a previously captured snapshot.  The scope
// depth must match the depth at which the snapshot was taken.
func (st *SymbolTable) Restore(snap []map[string]*ir.Value) {
	st.scopes = st.scopes[:0]
	for _, scope := range snap {
		copied := make(map[string]*ir.Value, len(scope))
		for name, value := range scope {
			copied[name] = value
		}

		st.scopes = append(st.scopes, copied)
	}
}

// ChangedSince returns the names whose current binding differs from the
// given snapshot, mapped to their current values.  Only names that existed
// when the snapshot was taken can appear: bindings introduced afterwards live
// in scopes that have since been popped.
func (st *SymbolTable) ChangedSince(snap []map[string]*ir.Value) map[string]*ir.Value {
	changed := make(map[string]*ir.Value)
	for i, scope := range snap {
		if i >= len(st.scopes) {
			break
		}

		for name, preValue := range scope {
			if current, ok := st.scopes[i][name]; ok && current != preValue {
				changed[name] = current
			}
		}
	}

	return changed
}
