package ir

// Value represents a single statically-typed SSA result.  A value is produced
// either by exactly one operation or as a parameter of a region (eg. a
// loop-carried value inside a loop body).  Values are immutable once produced:
// a source variable may be rebound to a new value, but no value is ever
// mutated in place.
type Value struct {
	typ Type

	// The operation that produced this value, or nil for region parameters.
	def Operation
}

// Type returns the static type of the value.
func (v *Value) Type() Type {
	return v.typ
}

// DefOp returns the operation that defines this value.  It is nil if the
// value is a region parameter.
func (v *Value) DefOp() Operation {
	return v.def
}

// IsParam returns whether this value is a region parameter.
func (v *Value) IsParam() bool {
	return v.def == nil
}
