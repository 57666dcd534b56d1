package model

import (
	"strconv"
	"strings"

	"github.com/optkit/mip/solver"
)

// Kind of a decision variable; re-exported from the solver package so model
// callers need a single import.
type Kind = solver.Kind

const (
	Continuous = solver.Continuous
	Integer    = solver.Integer
	Binary     = solver.Binary
)

// Sense of the objective.
type Sense = solver.Sense

const (
	Minimize = solver.Minimize
	Maximize = solver.Maximize
)

// Variable is one concrete decision variable owned by the registry.
// Everything but the bounds is immutable after declaration; bounds may be
// narrowed with Model.SetBounds.
type Variable struct {
	id      int
	name    string
	indices []int
	kind    Kind
	lo, hi  float64
}

// ID returns the dense identity of the variable. Identities are assigned
// monotonically in declaration order; they are the solver-facing variable
// ordering.
func (v *Variable) ID() int { return v.id }

// Name returns the symbolic family name.
func (v *Variable) Name() string { return v.name }

// Indices returns a copy of the index tuple.
func (v *Variable) Indices() []int {
	res := make([]int, len(v.indices))
	copy(res, v.indices)
	return res
}

// Kind returns the variable kind.
func (v *Variable) Kind() Kind { return v.kind }

// Bounds returns the current lower and upper bound.
func (v *Variable) Bounds() (lo, hi float64) { return v.lo, v.hi }

// Label returns the display name, e.g. "x[2,1]".
func (v *Variable) Label() string { return label(v.name, v.indices) }

func label(name string, indices []int) string {
	if len(indices) == 0 {
		return name
	}
	var sbb strings.Builder
	sbb.WriteString(name)
	sbb.WriteByte('[')
	for i, idx := range indices {
		if i > 0 {
			sbb.WriteByte(',')
		}
		sbb.WriteString(strconv.Itoa(idx))
	}
	sbb.WriteByte(']')
	return sbb.String()
}

// keyOf is the registry map key for an index tuple.
func keyOf(indices []int) string {
	var sbb strings.Builder
	for i, idx := range indices {
		if i > 0 {
			sbb.WriteByte(',')
		}
		sbb.WriteString(strconv.Itoa(idx))
	}
	return sbb.String()
}
