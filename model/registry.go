package model

import (
	"github.com/optkit/mip/domain"
)

// family groups the variables declared under one symbolic name. A name may
// be declared several times over disjoint index domains; the domains are
// kept in declaration order so queries reproduce the declaration-time
// iteration order.
type family struct {
	name    string
	domains []domain.Domain
	byKey   map[string]int // index-tuple key -> variable id
}

// registry owns the variables of one model. Identities are dense: variable
// i lives at variables[i].
type registry struct {
	variables []Variable
	families  map[string]*family
}

func newRegistry(capacity int) registry {
	return registry{
		variables: make([]Variable, 0, capacity),
		families:  make(map[string]*family),
	}
}

func (r *registry) nbVariables() int { return len(r.variables) }

// lookup resolves a (name, index-tuple) key to its variable id.
func (r *registry) lookup(name string, indices []int) (int, error) {
	fam, ok := r.families[name]
	if !ok {
		return 0, &UnknownVariableError{Name: name, Indices: indices}
	}
	id, ok := fam.byKey[keyOf(indices)]
	if !ok {
		return 0, &UnknownVariableError{Name: name, Indices: indices}
	}
	return id, nil
}

// declare creates one variable per tuple, all or nothing: the tuples are
// staged and checked for collisions (against the registry and inside the
// batch) before anything is committed.
func (r *registry) declare(name string, d domain.Domain, kind Kind, lo, hi float64) error {
	tuples, err := d.Tuples()
	if err != nil {
		return err
	}

	fam := r.families[name]
	staged := make(map[string][]int, len(tuples))
	for _, t := range tuples {
		k := keyOf(t.Values())
		if _, exists := staged[k]; exists {
			return &DuplicateVariableError{Name: name, Indices: t.Values()}
		}
		if fam != nil {
			if _, exists := fam.byKey[k]; exists {
				return &DuplicateVariableError{Name: name, Indices: t.Values()}
			}
		}
		staged[k] = t.Values()
	}

	if fam == nil {
		fam = &family{name: name, byKey: make(map[string]int, len(tuples))}
		r.families[name] = fam
	}
	fam.domains = append(fam.domains, d)
	for _, t := range tuples {
		id := len(r.variables)
		r.variables = append(r.variables, Variable{
			id:      id,
			name:    name,
			indices: t.Values(),
			kind:    kind,
			lo:      lo,
			hi:      hi,
		})
		fam.byKey[keyOf(t.Values())] = id
	}
	return nil
}
