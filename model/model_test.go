package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/optkit/mip/domain"
	"github.com/optkit/mip/expr"
)

func TestDeclareAssignsDenseIdentities(t *testing.T) {
	assert := require.New(t)

	m := New()
	err := m.AddVariable("x", domain.Over(domain.Range("i", 1, 3), domain.Range("k", 1, 2)), Continuous, 0, 10)
	assert.NoError(err)
	assert.Equal(6, m.NbVariables())

	// ids follow lexicographic declaration order
	expected := [][]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}, {3, 1}, {3, 2}}
	for id, idx := range expected {
		v := m.VariableByID(id)
		assert.Equal(idx, v.Indices())
		assert.Equal(id, v.ID())
		assert.Equal("x", v.Name())

		e, err := m.LookupVar("x", idx...)
		assert.NoError(err)
		assert.Equal(1.0, e.Coefficient(id))
	}
}

func TestDuplicateVariable(t *testing.T) {
	assert := require.New(t)

	m := New()
	assert.NoError(m.AddVariable("x", domain.Over(domain.Values("i", 1), domain.Values("k", 1)), Continuous, 0, 1))

	// same name, new tuple: fine
	assert.NoError(m.AddVariable("x", domain.Over(domain.Values("i", 1), domain.Values("k", 2)), Continuous, 0, 1))
	assert.Equal(2, m.NbVariables())

	// same (name, tuple): rejected, nothing declared
	err := m.AddVariable("x", domain.Over(domain.Values("i", 1), domain.Values("k", 1, 2, 3)), Continuous, 0, 1)
	assert.Error(err)
	assert.True(errors.Is(err, ErrDuplicateVariable))
	assert.Equal(2, m.NbVariables())

	var dup *DuplicateVariableError
	assert.True(errors.As(err, &dup))
	assert.Equal("x", dup.Name)
	assert.Equal([]int{1, 1}, dup.Indices)
}

func TestUnknownVariable(t *testing.T) {
	assert := require.New(t)

	m := New()
	assert.NoError(m.AddVariable("x", domain.Over(domain.Range("i", 1, 2)), Continuous, 0, 1))

	_, err := m.LookupVar("y", 1)
	assert.True(errors.Is(err, ErrUnknownVariable))

	_, err = m.LookupVar("x", 3)
	assert.True(errors.Is(err, ErrUnknownVariable))

	assert.PanicsWithError("unknown variable x[3]", func() { m.Var("x", 3) })
}

func TestBinaryForcesUnitBounds(t *testing.T) {
	assert := require.New(t)

	m := New()
	assert.NoError(m.AddVariable("b", domain.Over(), Binary, -5, 5))
	lo, hi := m.VariableByID(0).Bounds()
	assert.Equal(0.0, lo)
	assert.Equal(1.0, hi)
	assert.Equal(Binary, m.VariableByID(0).Kind())
}

func TestInvalidDeclarations(t *testing.T) {
	assert := require.New(t)

	m := New()
	assert.Error(m.AddVariable("", domain.Over(), Continuous, 0, 1))
	assert.Error(m.AddVariable("x", domain.Over(), Continuous, 2, 1))
	assert.Zero(m.NbVariables())
}

func TestSetBoundsNarrows(t *testing.T) {
	assert := require.New(t)

	m := New()
	d := domain.Over(domain.Range("i", 1, 3))
	assert.NoError(m.AddVariable("x", d, Continuous, 0, 10))

	assert.NoError(m.SetBounds("x", d, 2, math.Inf(1)))
	lo, hi := m.VariableByID(0).Bounds()
	assert.Equal(2.0, lo)
	assert.Equal(10.0, hi) // narrowing never widens

	// unknown tuple: nothing mutated
	err := m.SetBounds("x", domain.Over(domain.Range("i", 1, 4)), 5, 10)
	assert.True(errors.Is(err, ErrUnknownVariable))
	lo, _ = m.VariableByID(0).Bounds()
	assert.Equal(2.0, lo)
}

func TestSumQuantifier(t *testing.T) {
	assert := require.New(t)

	m := New()
	d := domain.Over(domain.Range("i", 1, 4))
	assert.NoError(m.AddVariable("x", d, Continuous, 0, 1))

	sum, err := m.Sum(d, func(t domain.Tuple) expr.LinearExpression {
		return m.Var("x", t.At("i")).Scale(float64(t.At("i")))
	})
	assert.NoError(err)
	assert.Equal(4, sum.NbTerms())
	assert.Equal(3.0, sum.Coefficient(2))

	// empty-filtered domain folds to the zero expression
	empty, err := m.Sum(d.Filter(func(domain.Tuple) bool { return false }), func(t domain.Tuple) expr.LinearExpression {
		return m.Var("x", t.At("i"))
	})
	assert.NoError(err)
	assert.True(empty.IsZero())

	// unknown variable inside the template surfaces as an error
	_, err = m.Sum(d, func(t domain.Tuple) expr.LinearExpression {
		return m.Var("y", t.At("i"))
	})
	assert.True(errors.Is(err, ErrUnknownVariable))
}

func TestQuantifiedConstraints(t *testing.T) {
	assert := require.New(t)

	m := New()
	assert.NoError(m.AddVariable("x", domain.Over(domain.Range("i", 1, 3)), Binary, 0, 1))

	pairs := domain.Over(domain.Range("i", 1, 3), domain.Range("j", 1, 3)).
		Filter(func(t domain.Tuple) bool { return t.At("i") != t.At("j") })

	err := m.AddConstraints(pairs, func(t domain.Tuple) expr.Comparison {
		return m.Var("x", t.At("i")).Add(m.Var("x", t.At("j"))).Leq(expr.Constant(1))
	})
	assert.NoError(err)
	assert.Equal(6, m.NbConstraints()) // 3x3 minus the diagonal

	p := m.Freeze()
	for _, r := range p.Rows {
		assert.Len(r.Terms, 2)
		for _, term := range r.Terms {
			assert.Equal(1.0, term.Coeff)
		}
		assert.Equal(expr.LessOrEqual, r.Op)
		assert.Equal(1.0, r.RHS)
	}
}

func TestConstantConstraints(t *testing.T) {
	assert := require.New(t)

	m := New()

	// trivially satisfied: dropped, not an error
	assert.NoError(m.AddConstraint(expr.Constant(1).Leq(expr.Constant(2))))
	assert.Zero(m.NbConstraints())

	// trivially violated: fail fast, sequence unchanged
	err := m.AddConstraint(expr.Constant(2).Leq(expr.Constant(1)))
	assert.True(errors.Is(err, ErrInvalidConstraint))
	assert.Zero(m.NbConstraints())

	err = m.AddConstraint(expr.Constant(1).Eq(expr.Constant(0)))
	assert.True(errors.Is(err, ErrInvalidConstraint))
}

func TestConstraintFamilyIsAtomic(t *testing.T) {
	assert := require.New(t)

	m := New()
	d := domain.Over(domain.Range("i", 1, 3))
	assert.NoError(m.AddVariable("x", d, Continuous, 0, 1))
	assert.NoError(m.AddConstraint(m.Var("x", 1).Leq(expr.Constant(1))))

	before := m.NbConstraints()

	// third tuple reduces to 2 <= 1: whole family rejected
	err := m.AddConstraints(d, func(t domain.Tuple) expr.Comparison {
		if t.At("i") == 3 {
			return expr.Constant(2).Leq(expr.Constant(1))
		}
		return m.Var("x", t.At("i")).Leq(expr.Constant(1))
	})
	assert.True(errors.Is(err, ErrInvalidConstraint))
	assert.Equal(before, m.NbConstraints())

	// unknown variable in one tuple: same, nothing appended
	err = m.AddConstraints(d, func(t domain.Tuple) expr.Comparison {
		return m.Var("y", t.At("i")).Leq(expr.Constant(1))
	})
	assert.True(errors.Is(err, ErrUnknownVariable))
	assert.Equal(before, m.NbConstraints())
}

func TestUnboundIndexInConstraintFilter(t *testing.T) {
	assert := require.New(t)

	m := New()
	d := domain.Over(domain.Range("i", 1, 3))
	assert.NoError(m.AddVariable("x", d, Continuous, 0, 1))

	bad := d.Filter(func(t domain.Tuple) bool { return t.At("j") > 0 })
	err := m.AddConstraints(bad, func(t domain.Tuple) expr.Comparison {
		return m.Var("x", t.At("i")).Leq(expr.Constant(1))
	})
	assert.True(errors.Is(err, domain.ErrUnboundIndex))
	assert.Zero(m.NbConstraints())
}

func TestObjectiveLastWriteWins(t *testing.T) {
	assert := require.New(t)

	m := New()
	assert.NoError(m.AddVariable("x", domain.Over(domain.Range("i", 1, 2)), Continuous, 0, 1))

	m.SetObjective(m.Var("x", 1), Minimize)
	m.SetObjective(m.Var("x", 2).Scale(3).AddConstant(1), Maximize)

	p := m.Freeze()
	assert.Equal(Maximize, p.Objective.Sense)
	assert.Equal(1.0, p.Objective.Constant)
	assert.Len(p.Objective.Terms, 1)
	assert.Equal(1, p.Objective.Terms[0].VID)
	assert.Equal(3.0, p.Objective.Terms[0].Coeff)
}

func TestFreezeIsASnapshot(t *testing.T) {
	assert := require.New(t)

	m := New(WithCapacity(8))
	d := domain.Over(domain.Range("i", 1, 2))
	assert.NoError(m.AddVariable("x", d, Integer, 0, 5))
	assert.NoError(m.AddConstraint(m.Var("x", 1).Add(m.Var("x", 2)).Geq(expr.Constant(3))))

	p := m.Freeze()
	assert.Equal(2, p.NbVariables())
	assert.Equal(1, p.NbConstraints())

	// later mutation is invisible to the snapshot
	assert.NoError(m.AddVariable("y", domain.Over(), Continuous, 0, 1))
	assert.NoError(m.SetBounds("x", d, 1, 4))
	assert.Equal(2, p.NbVariables())
	assert.Equal(0.0, p.Variables[0].LowerBound)
	assert.Equal(5.0, p.Variables[0].UpperBound)
}
