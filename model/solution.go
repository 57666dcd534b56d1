package model

import (
	"fmt"

	"github.com/optkit/mip/domain"
	"github.com/optkit/mip/solver"
)

// Record is one (index-tuple, value) pair returned by a solution query.
type Record struct {
	Indices []int
	Value   float64
}

// Query maps the raw solver values back onto the variable family name: it
// re-resolves the family's declared index domains and returns one record
// per variable, in the exact order the variables were declared in. It fails
// with ErrUnknownVariable if name was never declared.
func (m *Model) Query(sol *solver.Solution, name string) ([]Record, error) {
	fam, ok := m.reg.families[name]
	if !ok {
		return nil, &UnknownVariableError{Name: name}
	}
	var res []Record
	for _, d := range fam.domains {
		part, err := m.queryOver(sol, name, d)
		if err != nil {
			return nil, err
		}
		res = append(res, part...)
	}
	return res, nil
}

// QueryOver is Query restricted to a caller-narrowed index domain. Every
// accepted tuple must resolve to a declared variable.
func (m *Model) QueryOver(sol *solver.Solution, name string, d domain.Domain) ([]Record, error) {
	if _, ok := m.reg.families[name]; !ok {
		return nil, &UnknownVariableError{Name: name}
	}
	return m.queryOver(sol, name, d)
}

func (m *Model) queryOver(sol *solver.Solution, name string, d domain.Domain) ([]Record, error) {
	var res []Record
	err := d.ForEach(func(t domain.Tuple) error {
		id, err := m.reg.lookup(name, t.Values())
		if err != nil {
			return err
		}
		if id >= len(sol.Values) {
			return fmt.Errorf("solution has %d values, variable %s has id %d", len(sol.Values), label(name, t.Values()), id)
		}
		res = append(res, Record{Indices: t.Values(), Value: sol.Values[id]})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
