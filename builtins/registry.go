package builtins

import (
	"strings"

	"matcha/ir"
	"matcha/report"
)

// Signature describes one overload of a builtin: a parameter pattern used for
// overload selection and a function computing the overload's result types
// from the actual argument values.
type Signature struct {
	// The name of the builtin this signature overloads.
	Name string

	// The declared parameter patterns, one per argument.
	Params []Param

	// ResultTypes computes the result types of the call from the argument
	// values.  It may fail with a type error for constraints the parameter
	// patterns cannot express (eg. two arguments requiring equal element
	// kinds).
	ResultTypes func(args []*ir.Value) ([]ir.Type, *report.CompileError)
}

// -----------------------------------------------------------------------------

// ParamClass selects which classes of value a parameter accepts.
type ParamClass int

// Enumeration of parameter classes.
const (
	ClassScalar ParamClass = iota
	ClassMatrix
	ClassFrame
	ClassAny
)

// ElemSpec selects how a parameter constrains the element kind of its
// argument.
type ElemSpec int

// Enumeration of element specs.
const (
	ElemAny ElemSpec = iota
	ElemNumeric
	ElemExact
)

// Param is the declared pattern for a single builtin parameter.
type Param struct {
	// The class of value the parameter accepts.
	Class ParamClass

	// The element kind constraint of the parameter.
	Elem ElemSpec

	// The exact element kind; meaningful only when Elem is ElemExact.
	Kind ir.ScalarKind
}

// match scores how specifically the parameter matches an argument type.  A
// more specific match scores higher: an exact element kind beats a numeric
// class, which beats an unconstrained one, and an exact value class beats
// ClassAny.  It returns false if the type does not match at all.
func (p Param) match(t ir.Type) (int, bool) {
	switch tv := t.(type) {
	case ir.ScalarType:
		if p.Class != ClassScalar && p.Class != ClassAny {
			return 0, false
		}

		score := 0
		if p.Class == ClassScalar {
			score++
		}

		elemScore, ok := p.matchElem(tv.Kind)
		if !ok {
			return 0, false
		}

		return score + elemScore, true
	case ir.MatrixType:
		if p.Class != ClassMatrix && p.Class != ClassAny {
			return 0, false
		}

		score := 0
		if p.Class == ClassMatrix {
			score++
		}

		elemScore, ok := p.matchElem(tv.Elem)
		if !ok {
			return 0, false
		}

		return score + elemScore, true
	case ir.FrameType:
		// Frames carry no single element kind, so only unconstrained
		// parameters accept them.
		if (p.Class != ClassFrame && p.Class != ClassAny) || p.Elem != ElemAny {
			return 0, false
		}

		if p.Class == ClassFrame {
			return 1, true
		}

		return 0, true
	}

	return 0, false
}

// matchElem scores the element kind constraint against an argument's element
// kind.
func (p Param) matchElem(kind ir.ScalarKind) (int, bool) {
	switch p.Elem {
	case ElemNumeric:
		if kind.IsNumeric() {
			return 2, true
		}

		return 0, false
	case ElemExact:
		if kind == p.Kind {
			return 3, true
		}

		// A promotable argument matches less specifically than an exact one:
		// the declared promotion rule is widening numeric promotion only.
		if promoted, ok := ir.PromoteKinds(kind, p.Kind); ok && promoted == p.Kind {
			return 1, true
		}

		return 0, false
	default: // ElemAny
		return 0, true
	}
}

// -----------------------------------------------------------------------------

// Registry is a catalog of builtin signatures keyed by name.
type Registry struct {
	catalog map[string][]*Signature
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{catalog: make(map[string][]*Signature)}
}

// Register adds a signature to the catalog.
func (r *Registry) Register(sig *Signature) {
	r.catalog[sig.Name] = append(r.catalog[sig.Name], sig)
}

// Resolve selects the overload of name most specifically matching the given
// argument values, constructs the corresponding call operation through the
// builder, and returns its result values.  It fails with NoMatchingOverload
// if zero candidates match and with AmbiguousOverload if multiple equally
// specific candidates match.
func (r *Registry) Resolve(b *ir.Builder, name string, args []*ir.Value) ([]*ir.Value, *report.CompileError) {
	sigs := r.catalog[name]
	if len(sigs) == 0 {
		return nil, report.Raise(report.ErrNoMatchingOverload, nil, "unknown builtin `%s`", name)
	}

	// Score every candidate, keeping all candidates tied at the best score.
	bestScore := -1
	var best []*Signature

	for _, sig := range sigs {
		score, ok := scoreSignature(sig, args)
		if !ok {
			continue
		}

		if score > bestScore {
			bestScore = score
			best = best[:0]
		}

		if score == bestScore {
			best = append(best, sig)
		}
	}

	switch len(best) {
	case 0:
		return nil, report.Raise(report.ErrNoMatchingOverload, nil,
			"no overload of `%s` matches argument types (%s)", name, reprArgTypes(args))
	case 1:
		resultTypes, err := best[0].ResultTypes(args)
		if err != nil {
			return nil, err
		}

		return b.Call(name, args, resultTypes), nil
	default:
		return nil, report.Raise(report.ErrAmbiguousOverload, nil,
			"call of `%s` with argument types (%s) matches %d overloads equally well",
			name, reprArgTypes(args), len(best))
	}
}

// scoreSignature scores a whole signature against the argument list: the sum
// of its per-parameter scores, or failure if the arity differs or any
// parameter rejects its argument.
func scoreSignature(sig *Signature, args []*ir.Value) (int, bool) {
	if len(sig.Params) != len(args) {
		return 0, false
	}

	total := 0
	for i, param := range sig.Params {
		score, ok := param.match(args[i].Type())
		if !ok {
			return 0, false
		}

		total += score
	}

	return total, true
}

// reprArgTypes renders an argument type list for diagnostics.
func reprArgTypes(args []*ir.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.Type().Repr()
	}

	return strings.Join(parts, ", ")
}
