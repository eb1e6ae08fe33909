package ir

import (
	"fmt"
	"strings"
)

// printer renders a module as text.  Values are numbered in definition order
// during the walk, so two structurally identical modules always print
// identically.
type printer struct {
	sb     strings.Builder
	nums   map[*Value]int
	indent int
}

// Repr returns the textual representation of the module.
func (m *Module) Repr() string {
	p := &printer{nums: make(map[*Value]int)}

	p.writef("module %s {\n", m.Name)
	p.indent++
	p.printRegionOps(m.Body)
	p.indent--
	p.writef("}\n")

	return p.sb.String()
}

// -----------------------------------------------------------------------------

func (p *printer) writef(format string, args ...interface{}) {
	p.sb.WriteString(strings.Repeat("  ", p.indent))
	p.sb.WriteString(fmt.Sprintf(format, args...))
}

// define assigns the next value number to v and returns its name.
func (p *printer) define(v *Value) string {
	n, ok := p.nums[v]
	if !ok {
		n = len(p.nums)
		p.nums[v] = n
	}

	return fmt.Sprintf("%%%d", n)
}

// name returns the name of an already-defined value.
func (p *printer) name(v *Value) string {
	if n, ok := p.nums[v]; ok {
		return fmt.Sprintf("%%%d", n)
	}

	return "%?"
}

// names renders a comma-separated operand list.
func (p *printer) names(values []*Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = p.name(v)
	}

	return strings.Join(parts, ", ")
}

// defines renders a comma-separated result list, numbering each value.
func (p *printer) defines(values []*Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = p.define(v)
	}

	return strings.Join(parts, ", ")
}

// types renders a comma-separated type list for a result list.
func reprTypes(values []*Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.Type().Repr()
	}

	return strings.Join(parts, ", ")
}

// -----------------------------------------------------------------------------

func (p *printer) printRegionOps(r *Region) {
	for _, op := range r.Ops {
		p.printOp(op)
	}
}

// printRegionHeader prints the parameter line of a region, if it has params.
func (p *printer) printRegionHeader(r *Region) {
	if len(r.Params) == 0 {
		return
	}

	parts := make([]string, len(r.Params))
	for i, param := range r.Params {
		parts[i] = fmt.Sprintf("%s: %s", p.define(param), param.Type().Repr())
	}

	p.writef("^(%s):\n", strings.Join(parts, ", "))
}

func (p *printer) printOp(op Operation) {
	switch v := op.(type) {
	case *ConstantOp:
		p.writef("%s = constant %s : %s\n", p.define(v.Result()), v.Lit.Repr(), v.Result().Type().Repr())
	case *YieldOp:
		if len(v.Operands()) == 0 {
			p.writef("yield\n")
		} else {
			p.writef("yield %s\n", p.names(v.Operands()))
		}
	case *CallOp:
		if len(v.Results()) == 0 {
			p.writef("call %s(%s)\n", v.Callee, p.names(v.Operands()))
		} else {
			p.writef("%s = call %s(%s) : %s\n",
				p.defines(v.Results()), v.Callee, p.names(v.Operands()), reprTypes(v.Results()))
		}
	case *IndexOp:
		operands := v.Operands()
		row, col := "_", "_"

		next := 1
		if v.HasRow {
			row = p.name(operands[next])
			next++
		}
		if v.HasCol {
			col = p.name(operands[next])
		}

		p.writef("%s = index %s[%s, %s] : %s\n",
			p.define(v.Result()), p.name(operands[0]), row, col, v.Result().Type().Repr())
	case *IfOp:
		p.printIfOp(v)
	case *WhileOp:
		p.printWhileOp(v)
	case *ForOp:
		p.printForOp(v)
	default:
		// All remaining op kinds print uniformly as
		// `%n = <mnemonic> <operands> : <type>`.
		p.writef("%s = %s %s : %s\n",
			p.defines(op.Results()), op.OpName(), p.names(op.Operands()), reprTypes(op.Results()))
	}
}

func (p *printer) printIfOp(op *IfOp) {
	header := fmt.Sprintf("if %s", p.name(op.Operands()[0]))
	if len(op.Results()) > 0 {
		header = fmt.Sprintf("%s = %s : %s", p.defines(op.Results()), header, reprTypes(op.Results()))
	}

	p.writef("%s {\n", header)
	p.indent++
	p.printRegionOps(op.Then)
	p.indent--
	p.writef("} else {\n")
	p.indent++
	p.printRegionOps(op.Else)
	p.indent--
	p.writef("}\n")
}

func (p *printer) printWhileOp(op *WhileOp) {
	header := fmt.Sprintf("while (%s)", p.names(op.Operands()))
	if len(op.Results()) > 0 {
		header = fmt.Sprintf("%s = %s : %s", p.defines(op.Results()), header, reprTypes(op.Results()))
	}

	p.writef("%s {\n", header)
	p.printRegionHeader(op.Cond)
	p.indent++
	p.printRegionOps(op.Cond)
	p.indent--
	p.writef("} do {\n")
	p.printRegionHeader(op.Body)
	p.indent++
	p.printRegionOps(op.Body)
	p.indent--
	p.writef("}\n")
}

func (p *printer) printForOp(op *ForOp) {
	operands := op.Operands()
	header := fmt.Sprintf("for %s (%s)", p.names(operands[:3]), p.names(operands[3:]))
	if len(op.Results()) > 0 {
		header = fmt.Sprintf("%s = %s : %s", p.defines(op.Results()), header, reprTypes(op.Results()))
	}

	p.writef("%s {\n", header)
	p.printRegionHeader(op.Body)
	p.indent++
	p.printRegionOps(op.Body)
	p.indent--
	p.writef("}\n")
}
