package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/optkit/mip/internal/utils"
)

// A Dimension is a named, finite, enumerable index range.
type Dimension struct {
	name   string
	values []int
}

// Range returns a dimension enumerating lo..hi inclusive. A reversed range
// (hi < lo) is empty.
func Range(name string, lo, hi int) Dimension {
	return Dimension{name: name, values: utils.IntRange(lo, hi)}
}

// Values returns a dimension enumerating the given values in order.
func Values(name string, values ...int) Dimension {
	return Dimension{name: name, values: slices.Clone(values)}
}

// Name returns the dimension name.
func (d Dimension) Name() string { return d.name }

// Size returns the number of values the dimension enumerates.
func (d Dimension) Size() int { return len(d.values) }

// A Predicate restricts a domain to the tuples for which it returns true.
// It is evaluated once per full cross-product tuple.
type Predicate func(Tuple) bool

// A Domain is the cross product of an ordered list of dimensions, restricted
// by zero or more filter predicates. The zero value is the degenerate domain
// with no dimensions; it yields exactly one empty tuple.
//
// Domain values are cheap to copy; Filter returns a derived domain and never
// mutates its receiver.
type Domain struct {
	dims    []Dimension
	filters []Predicate
}

// Over returns the domain spanning the cross product of the given dimensions.
// It panics if two dimensions share a name.
func Over(dims ...Dimension) Domain {
	for i := range dims {
		for j := i + 1; j < len(dims); j++ {
			if dims[i].name == dims[j].name {
				panic(fmt.Sprintf("domain: duplicate dimension %q", dims[i].name))
			}
		}
	}
	return Domain{dims: slices.Clone(dims)}
}

// Filter returns a copy of the domain restricted by p. Filters accumulate;
// a tuple is accepted only if every filter returns true.
func (d Domain) Filter(p Predicate) Domain {
	return Domain{
		dims:    d.dims,
		filters: append(slices.Clone(d.filters), p),
	}
}

// Names returns the dimension names in declaration order.
func (d Domain) Names() []string {
	names := make([]string, len(d.dims))
	for i := range d.dims {
		names[i] = d.dims[i].name
	}
	return names
}

// NbDimensions returns the number of dimensions.
func (d Domain) NbDimensions() int { return len(d.dims) }

// ForEach calls fn once per accepted tuple, in lexicographic order of the
// declared dimension order. Iteration stops at the first error, which is
// returned; an UnboundIndexError raised by a filter or by fn is recovered
// and returned as an error.
//
// A domain with an empty dimension, or whose filters reject every tuple,
// yields no tuples and ForEach returns nil.
func (d Domain) ForEach(fn func(Tuple) error) error {
	names := d.Names()
	current := make([]int, len(d.dims))

	var walk func(depth int) error
	walk = func(depth int) error {
		if depth == len(d.dims) {
			t := Tuple{names: names, values: slices.Clone(current)}
			ok, err := d.accept(t)
			if err != nil || !ok {
				return err
			}
			return callUnbound(func() error { return fn(t) })
		}
		for _, v := range d.dims[depth].values {
			current[depth] = v
			if err := walk(depth + 1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(0)
}

func (d Domain) accept(t Tuple) (ok bool, err error) {
	for _, p := range d.filters {
		err = callUnbound(func() error {
			ok = p(t)
			return nil
		})
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// Tuples collects the accepted tuples in iteration order.
func (d Domain) Tuples() ([]Tuple, error) {
	var res []Tuple
	err := d.ForEach(func(t Tuple) error {
		res = append(res, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Count returns the number of accepted tuples.
func (d Domain) Count() (int, error) {
	n := 0
	err := d.ForEach(func(Tuple) error {
		n++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// A Tuple is one accepted combination of index values, with the dimension
// names they are bound to.
type Tuple struct {
	names  []string
	values []int
}

// Len returns the number of bound dimensions.
func (t Tuple) Len() int { return len(t.values) }

// At returns the value bound to the named dimension. It panics with an
// *UnboundIndexError if the name is not bound in this tuple; domain and
// model iteration recover the panic and surface it as an error.
func (t Tuple) At(name string) int {
	for i := range t.names {
		if t.names[i] == name {
			return t.values[i]
		}
	}
	panic(&UnboundIndexError{Name: name, Bound: slices.Clone(t.names)})
}

// Value returns the i-th index value in dimension order.
func (t Tuple) Value(i int) int { return t.values[i] }

// Values returns a copy of the index values in dimension order.
func (t Tuple) Values() []int { return slices.Clone(t.values) }

func (t Tuple) String() string {
	var sbb strings.Builder
	sbb.WriteByte('(')
	for i, v := range t.values {
		if i > 0 {
			sbb.WriteByte(',')
		}
		sbb.WriteString(strconv.Itoa(v))
	}
	sbb.WriteByte(')')
	return sbb.String()
}
