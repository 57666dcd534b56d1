package solver

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/optkit/mip/expr"
)

// Kind is the kind of a decision variable.
type Kind uint8

const (
	Continuous Kind = iota
	Integer
	// Binary is an integer variable with bounds fixed to [0,1].
	Binary
)

func (k Kind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	default:
		return "kind?"
	}
}

// Sense is the optimization direction of the objective.
type Sense uint8

const (
	Minimize Sense = iota
	Maximize
)

func (s Sense) String() string {
	if s == Maximize {
		return "max"
	}
	return "min"
}

// Variable is one concrete decision variable, in dense registry order. The
// slice index inside Problem.Variables is the variable identity the rows,
// the objective and the solution values are keyed by.
type Variable struct {
	Name       string
	Indices    []int
	Kind       Kind
	LowerBound float64
	UpperBound float64
}

// Label returns the symbolic name of the variable, e.g. "x[1,2]".
func (v Variable) Label() string {
	if len(v.Indices) == 0 {
		return v.Name
	}
	var sbb strings.Builder
	sbb.WriteString(v.Name)
	sbb.WriteByte('[')
	for i, idx := range v.Indices {
		if i > 0 {
			sbb.WriteByte(',')
		}
		sbb.WriteString(strconv.Itoa(idx))
	}
	sbb.WriteByte(']')
	return sbb.String()
}

// Row is one constraint in canonical form: Terms <Op> RHS, with all variable
// terms on the left and a bare constant on the right. Rows are stored in
// insertion order.
type Row struct {
	Terms []expr.Term
	Op    expr.Op
	RHS   float64
}

// Objective is the optimization target: Terms + Constant, minimized or
// maximized per Sense.
type Objective struct {
	Terms    []expr.Term
	Constant float64
	Sense    Sense
}

// Problem is the solver-independent description of a model, produced by
// model.Freeze. It is a snapshot: the producing model keeps no reference to
// it, so a solving backend never observes later model mutation.
type Problem struct {
	Variables []Variable
	Rows      []Row
	Objective Objective
}

// NbVariables returns the number of decision variables.
func (p *Problem) NbVariables() int { return len(p.Variables) }

// NbConstraints returns the number of constraint rows.
func (p *Problem) NbConstraints() int { return len(p.Rows) }

// UnusedVariables returns the identities of variables that appear neither in
// a constraint row nor in the objective, in increasing order.
func (p *Problem) UnusedVariables() []int {
	used := bitset.New(uint(len(p.Variables)))
	for _, r := range p.Rows {
		for _, t := range r.Terms {
			used.Set(uint(t.VID))
		}
	}
	for _, t := range p.Objective.Terms {
		used.Set(uint(t.VID))
	}
	var res []int
	for i := range p.Variables {
		if !used.Test(uint(i)) {
			res = append(res, i)
		}
	}
	return res
}
