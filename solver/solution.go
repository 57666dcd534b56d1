package solver

import "context"

// Status is the outcome reported by a solving backend.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusInfeasible
	StatusUnbounded
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return "unknown"
	}
}

// IsOptimal returns true if the backend proved optimality.
func (s Status) IsOptimal() bool { return s == StatusOptimal }

// Solution is the raw result of one solve call. Values is aligned to the
// problem's dense variable order; use model.Query to map values back onto
// the symbolic indexed names.
type Solution struct {
	Status    Status
	Objective float64
	Values    []float64
}

// Value returns the value assigned to the given variable identity.
func (s *Solution) Value(vid int) float64 { return s.Values[vid] }

// Adapter is the boundary with the external solving backend. Solve blocks
// until the backend returns; cancellation and timeouts are the adapter's
// contract, honored through ctx.
//
// An adapter returns an error only for faults of its own (I/O, licensing,
// malformed input). Infeasible or unbounded models are reported as a
// Solution with the corresponding status.
type Adapter interface {
	Solve(ctx context.Context, p *Problem) (*Solution, error)
}
