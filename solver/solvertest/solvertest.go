// Package solvertest provides in-memory adapters so models can be exercised
// end to end without a numeric solving backend.
package solvertest

import (
	"context"
	"errors"

	"github.com/optkit/mip/solver"
)

// Func adapts an ordinary function to the solver.Adapter interface.
type Func func(ctx context.Context, p *solver.Problem) (*solver.Solution, error)

func (f Func) Solve(ctx context.Context, p *solver.Problem) (*solver.Solution, error) {
	return f(ctx, p)
}

// Static is an adapter that reports a fixed status and assigns each variable
// a value computed from its identity. It never inspects the constraints.
type Static struct {
	Status solver.Status

	// Assign computes the value of variable vid; identity function when nil.
	Assign func(vid int) float64
}

func (s Static) Solve(ctx context.Context, p *solver.Problem) (*solver.Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	assign := s.Assign
	if assign == nil {
		assign = func(vid int) float64 { return float64(vid) }
	}
	sol := &solver.Solution{
		Status: s.Status,
		Values: make([]float64, p.NbVariables()),
	}
	for i := range sol.Values {
		sol.Values[i] = assign(i)
	}
	for _, t := range p.Objective.Terms {
		sol.Objective += t.Coeff * sol.Values[t.VID]
	}
	sol.Objective += p.Objective.Constant
	return sol, nil
}

// Failing is an adapter that always returns the given error; use it to test
// fault propagation.
type Failing struct {
	Err error
}

func (f Failing) Solve(context.Context, *solver.Problem) (*solver.Solution, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return nil, errors.New("solvertest: failing adapter")
}
