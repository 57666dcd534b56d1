package model

import (
	"errors"
	"fmt"

	"github.com/optkit/mip/debug"
)

// Sentinels for the structural error kinds; test with errors.Is. The
// concrete error values carry the offending key, retrieve them with
// errors.As.
var (
	ErrDuplicateVariable = errors.New("duplicate variable")
	ErrUnknownVariable   = errors.New("unknown variable")
	ErrInvalidConstraint = errors.New("invalid constraint")
)

// DuplicateVariableError reports a re-declaration of an existing
// (name, index-tuple) key.
type DuplicateVariableError struct {
	Name    string
	Indices []int
}

func (e *DuplicateVariableError) Error() string {
	return "duplicate variable " + label(e.Name, e.Indices)
}

func (e *DuplicateVariableError) Unwrap() error { return ErrDuplicateVariable }

// UnknownVariableError reports a reference to a (name, index-tuple) key that
// was never declared.
type UnknownVariableError struct {
	Name    string
	Indices []int
}

func (e *UnknownVariableError) Error() string {
	return "unknown variable " + label(e.Name, e.Indices)
}

func (e *UnknownVariableError) Unwrap() error { return ErrUnknownVariable }

// InvalidConstraintError reports a constraint template that reduced, after
// index substitution, to a false comparison between two constants; adding
// it would make the model infeasible by construction.
type InvalidConstraintError struct {
	Constraint string
}

func (e *InvalidConstraintError) Error() string {
	return "invalid constraint: " + e.Constraint + " is false for every assignment"
}

func (e *InvalidConstraintError) Unwrap() error { return ErrInvalidConstraint }

// recoverTemplate converts a typed panic raised by Model.Var inside a
// template into the returned error of the enclosing builder call. Other
// panics propagate.
func recoverTemplate(err *error) {
	if r := recover(); r != nil {
		if uv, ok := r.(*UnknownVariableError); ok {
			*err = uv
			if debug.Debug {
				*err = fmt.Errorf("%w\n%s", uv, debug.Stack())
			}
			return
		}
		panic(r)
	}
}
