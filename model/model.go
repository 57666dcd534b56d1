package model

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/optkit/mip/domain"
	"github.com/optkit/mip/expr"
	"github.com/optkit/mip/internal/utils"
	"github.com/optkit/mip/logger"
	"github.com/optkit/mip/solver"
)

// row is one committed constraint in canonical form: lhs <op> rhs with the
// lhs constant fixed to zero.
type row struct {
	lhs expr.LinearExpression
	op  expr.Op
	rhs float64
}

type rowKey struct {
	hash [16]byte
	op   expr.Op
	rhs  float64
}

// Model is the mutable aggregate: variable registry, ordered constraint
// sequence and objective. Create one with New, mutate it through the
// builder verbs, then hand a Freeze snapshot to a solving backend.
type Model struct {
	reg  registry
	rows []row

	objective      expr.LinearExpression
	objectiveSense Sense
	hasObjective   bool

	seenRows map[rowKey]struct{}

	log zerolog.Logger
}

// Option configures a Model at construction time.
type Option func(*option)

type option struct {
	capacity int
}

// WithCapacity preallocates internal storage for the given number of
// variables.
func WithCapacity(capacity int) Option {
	return func(o *option) { o.capacity = capacity }
}

// New returns an empty model.
func New(opts ...Option) *Model {
	opt := option{}
	for _, o := range opts {
		o(&opt)
	}
	return &Model{
		reg:      newRegistry(opt.capacity),
		seenRows: make(map[rowKey]struct{}),
		log:      logger.For("model"),
	}
}

// NbVariables returns the number of declared variables.
func (m *Model) NbVariables() int { return m.reg.nbVariables() }

// NbConstraints returns the number of committed constraints.
func (m *Model) NbConstraints() int { return len(m.rows) }

// VariableByID returns the variable with the given dense identity.
func (m *Model) VariableByID(id int) *Variable { return &m.reg.variables[id] }

// AddVariable declares one decision variable per accepted tuple of d, with
// the given kind and bounds. Binary forces the bounds to [0,1]. Declaring
// an already existing (name, index-tuple) key fails with
// ErrDuplicateVariable and declares nothing.
func (m *Model) AddVariable(name string, d domain.Domain, kind Kind, lo, hi float64) error {
	if name == "" {
		return fmt.Errorf("model: empty variable name")
	}
	if kind == Binary {
		lo, hi = 0, 1
	}
	if lo > hi {
		return fmt.Errorf("model: invalid bounds [%v,%v] for %q", lo, hi, name)
	}
	return m.reg.declare(name, d, kind, lo, hi)
}

// Var returns the expression 1*x for the variable (name, indices...). It
// panics with an *UnknownVariableError when the key was never declared; the
// quantified builders recover the panic and surface it as the error of the
// enclosing call, so templates can chain Var without error plumbing.
func (m *Model) Var(name string, indices ...int) expr.LinearExpression {
	id, err := m.reg.lookup(name, indices)
	if err != nil {
		panic(err.(*UnknownVariableError))
	}
	return expr.NewLinearExpression(id, 1)
}

// LookupVar is the error-returning form of Var.
func (m *Model) LookupVar(name string, indices ...int) (expr.LinearExpression, error) {
	id, err := m.reg.lookup(name, indices)
	if err != nil {
		return expr.LinearExpression{}, err
	}
	return expr.NewLinearExpression(id, 1), nil
}

// SetBounds narrows the bounds of every variable matching (name, d): the
// new lower bound is max(current, lo), the new upper min(current, hi). If a
// resolved tuple has no declared variable the call fails with
// ErrUnknownVariable and no bounds change.
func (m *Model) SetBounds(name string, d domain.Domain, lo, hi float64) error {
	tuples, err := d.Tuples()
	if err != nil {
		return err
	}
	ids := make([]int, len(tuples))
	for i, t := range tuples {
		if ids[i], err = m.reg.lookup(name, t.Values()); err != nil {
			return err
		}
	}
	for _, id := range ids {
		v := &m.reg.variables[id]
		v.lo = utils.Max(v.lo, lo)
		v.hi = utils.Min(v.hi, hi)
	}
	return nil
}

// Sum folds template over the accepted tuples of d, starting from the zero
// expression. A domain yielding no tuples gives the zero expression.
func (m *Model) Sum(d domain.Domain, template func(domain.Tuple) expr.LinearExpression) (res expr.LinearExpression, err error) {
	defer recoverTemplate(&err)
	err = d.ForEach(func(t domain.Tuple) error {
		res = res.Add(template(t))
		return nil
	})
	if err != nil {
		return expr.LinearExpression{}, err
	}
	return res, nil
}

// AddConstraint appends the single constraint c to the model.
func (m *Model) AddConstraint(c expr.Comparison) error {
	staged, err := m.stageRow(c)
	if err != nil {
		return err
	}
	m.commitRows(staged)
	return nil
}

// AddConstraints instantiates template once per accepted tuple of d and
// appends the resulting constraints in resolver order. The family is
// appended all or nothing: any structural error leaves the constraint
// sequence untouched. A domain yielding no tuples appends nothing.
func (m *Model) AddConstraints(d domain.Domain, template func(domain.Tuple) expr.Comparison) (err error) {
	defer recoverTemplate(&err)
	var staged []row
	err = d.ForEach(func(t domain.Tuple) error {
		rows, err := m.stageRow(template(t))
		if err != nil {
			return err
		}
		staged = append(staged, rows...)
		return nil
	})
	if err != nil {
		return err
	}
	m.commitRows(staged)
	return nil
}

// stageRow canonicalizes a comparison. A comparison reducing to a true
// constant relation is dropped; a false one fails with
// ErrInvalidConstraint.
func (m *Model) stageRow(c expr.Comparison) ([]row, error) {
	lhs, rhs := c.Canonical()
	if lhs.IsConstant() {
		// 0 <op> rhs, no variable terms left
		var sat bool
		switch c.Op {
		case expr.LessOrEqual:
			sat = 0 <= rhs
		case expr.GreaterOrEqual:
			sat = 0 >= rhs
		case expr.Equal:
			sat = rhs == 0
		}
		if !sat {
			return nil, &InvalidConstraintError{Constraint: c.String()}
		}
		m.log.Debug().Str("constraint", c.String()).Msg("dropping trivially satisfied constraint")
		return nil, nil
	}
	return []row{{lhs: lhs, op: c.Op, rhs: rhs}}, nil
}

func (m *Model) commitRows(staged []row) {
	for _, r := range staged {
		k := rowKey{hash: r.lhs.HashCode(), op: r.op, rhs: r.rhs}
		if _, seen := m.seenRows[k]; seen {
			m.log.Warn().Str("constraint", r.lhs.String()+" "+r.op.String()+" "+fmt.Sprint(r.rhs)).Msg("duplicate constraint")
		}
		m.seenRows[k] = struct{}{}
		m.rows = append(m.rows, r)
	}
}

// SetObjective stores the optimization target; the last call wins.
func (m *Model) SetObjective(e expr.LinearExpression, sense Sense) {
	m.objective = e
	m.objectiveSense = sense
	m.hasObjective = true
}

// Freeze returns an independent solver-facing snapshot: variables with kind
// and bounds in registry order, canonical constraint rows in insertion
// order, and the objective vector. The snapshot shares no mutable state
// with the model.
func (m *Model) Freeze() *solver.Problem {
	p := &solver.Problem{
		Variables: make([]solver.Variable, len(m.reg.variables)),
		Rows:      make([]solver.Row, len(m.rows)),
	}
	for i := range m.reg.variables {
		v := &m.reg.variables[i]
		p.Variables[i] = solver.Variable{
			Name:       v.name,
			Indices:    v.Indices(),
			Kind:       v.kind,
			LowerBound: v.lo,
			UpperBound: v.hi,
		}
	}
	for i, r := range m.rows {
		p.Rows[i] = solver.Row{Terms: r.lhs.Terms(), Op: r.op, RHS: r.rhs}
	}
	if m.hasObjective {
		p.Objective = solver.Objective{
			Terms:    m.objective.Terms(),
			Constant: m.objective.Constant(),
			Sense:    m.objectiveSense,
		}
	}

	ev := m.log.Debug().
		Int("nbVariables", p.NbVariables()).
		Int("nbConstraints", p.NbConstraints())
	if unused := p.UnusedVariables(); len(unused) > 0 {
		ev = ev.Int("nbUnusedVariables", len(unused))
	}
	ev.Msg("model frozen")
	return p
}

// Solve freezes the model and hands the snapshot to the adapter. A solution
// with a non-optimal status is not an error; only adapter faults and
// malformed results are.
func (m *Model) Solve(ctx context.Context, a solver.Adapter) (*solver.Solution, error) {
	p := m.Freeze()
	sol, err := a.Solve(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	if len(sol.Values) != p.NbVariables() {
		return nil, fmt.Errorf("solve: adapter returned %d values for %d variables", len(sol.Values), p.NbVariables())
	}
	m.log.Info().Stringer("status", sol.Status).Float64("objective", sol.Objective).Msg("solved")
	return sol, nil
}
