package model

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/optkit/mip/domain"
	"github.com/optkit/mip/expr"
	"github.com/optkit/mip/solver"
	"github.com/optkit/mip/solver/solvertest"
)

func TestQueryRoundTrip(t *testing.T) {
	assert := require.New(t)

	m := New()
	d := domain.Over(domain.Range("i", 1, 3), domain.Range("k", 1, 2))
	assert.NoError(m.AddVariable("x", d, Continuous, 0, 10))

	// one distinct value per identity
	sol := &solver.Solution{
		Status: solver.StatusOptimal,
		Values: []float64{10, 11, 12, 13, 14, 15},
	}

	records, err := m.Query(sol, "x")
	assert.NoError(err)

	expected := []Record{
		{Indices: []int{1, 1}, Value: 10},
		{Indices: []int{1, 2}, Value: 11},
		{Indices: []int{2, 1}, Value: 12},
		{Indices: []int{2, 2}, Value: 13},
		{Indices: []int{3, 1}, Value: 14},
		{Indices: []int{3, 2}, Value: 15},
	}
	if diff := cmp.Diff(expected, records); diff != "" {
		t.Fatalf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryOverNarrowedDomain(t *testing.T) {
	assert := require.New(t)

	m := New()
	d := domain.Over(domain.Range("i", 1, 3), domain.Range("k", 1, 2))
	assert.NoError(m.AddVariable("x", d, Continuous, 0, 10))

	sol := &solver.Solution{Values: []float64{10, 11, 12, 13, 14, 15}}

	records, err := m.QueryOver(sol, "x", domain.Over(domain.Values("i", 2), domain.Range("k", 1, 2)))
	assert.NoError(err)
	assert.Len(records, 2)
	assert.Equal([]int{2, 1}, records[0].Indices)
	assert.Equal(12.0, records[0].Value)
	assert.Equal([]int{2, 2}, records[1].Indices)
	assert.Equal(13.0, records[1].Value)

	// narrowed domain resolving an undeclared tuple fails
	_, err = m.QueryOver(sol, "x", domain.Over(domain.Values("i", 4), domain.Range("k", 1, 2)))
	assert.True(errors.Is(err, ErrUnknownVariable))
}

func TestQueryUnknownFamily(t *testing.T) {
	assert := require.New(t)

	m := New()
	sol := &solver.Solution{}
	_, err := m.Query(sol, "x")
	assert.True(errors.Is(err, ErrUnknownVariable))
	_, err = m.QueryOver(sol, "x", domain.Over())
	assert.True(errors.Is(err, ErrUnknownVariable))
}

func TestQuerySpansMultipleDeclarations(t *testing.T) {
	assert := require.New(t)

	m := New()
	assert.NoError(m.AddVariable("x", domain.Over(domain.Values("i", 1)), Continuous, 0, 1))
	assert.NoError(m.AddVariable("y", domain.Over(), Continuous, 0, 1))
	assert.NoError(m.AddVariable("x", domain.Over(domain.Values("i", 2)), Continuous, 0, 1))

	sol := &solver.Solution{Values: []float64{7, 8, 9}}
	records, err := m.Query(sol, "x")
	assert.NoError(err)
	assert.Len(records, 2)
	assert.Equal(7.0, records[0].Value)
	assert.Equal(9.0, records[1].Value)
}

func TestSolveWithAdapter(t *testing.T) {
	assert := require.New(t)

	m := New()
	d := domain.Over(domain.Range("i", 1, 3))
	assert.NoError(m.AddVariable("x", d, Binary, 0, 1))
	assert.NoError(m.AddConstraints(d, func(t domain.Tuple) expr.Comparison {
		return m.Var("x", t.At("i")).Leq(expr.Constant(1))
	}))
	obj, err := m.Sum(d, func(t domain.Tuple) expr.LinearExpression {
		return m.Var("x", t.At("i"))
	})
	assert.NoError(err)
	m.SetObjective(obj, Maximize)

	sol, err := m.Solve(context.Background(), solvertest.Static{
		Status: solver.StatusOptimal,
		Assign: func(int) float64 { return 1 },
	})
	assert.NoError(err)
	assert.True(sol.Status.IsOptimal())
	assert.Equal(3.0, sol.Objective)

	records, err := m.Query(sol, "x")
	assert.NoError(err)
	for _, r := range records {
		assert.Equal(1.0, r.Value)
	}
}

func TestSolveFaults(t *testing.T) {
	assert := require.New(t)

	m := New()
	assert.NoError(m.AddVariable("x", domain.Over(domain.Range("i", 1, 2)), Continuous, 0, 1))

	_, err := m.Solve(context.Background(), solvertest.Failing{})
	assert.Error(err)

	// adapter returning a misaligned value vector is a fault, not a solution
	_, err = m.Solve(context.Background(), solvertest.Func(
		func(context.Context, *solver.Problem) (*solver.Solution, error) {
			return &solver.Solution{Status: solver.StatusOptimal, Values: []float64{1}}, nil
		}))
	assert.Error(err)

	// infeasible is a solution, not a fault
	sol, err := m.Solve(context.Background(), solvertest.Func(
		func(_ context.Context, p *solver.Problem) (*solver.Solution, error) {
			return &solver.Solution{Status: solver.StatusInfeasible, Values: make([]float64, p.NbVariables())}, nil
		}))
	assert.NoError(err)
	assert.Equal(solver.StatusInfeasible, sol.Status)
}
