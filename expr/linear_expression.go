// Package expr implements the symbolic linear-expression algebra: immutable
// values of the form constant + Σ coeff·variable, combined with pure
// operators. Variables are referenced by their dense registry identity; the
// model package is the only producer of those identities.
package expr

import (
	"slices"
	"sort"
	"strconv"
	"strings"
)

// A LinearExpression is a constant plus a weighted sum of variable
// references. The zero value is the zero expression.
//
// Expressions are immutable: every operator returns a new value and never
// aliases the receiver's term slice. Terms are kept sorted by variable id
// with duplicate ids merged; a coefficient that sums to exactly zero is
// pruned (near-zero values are never pruned).
type LinearExpression struct {
	constant float64
	terms    []Term
}

// NewLinearExpression returns the expression coeff*vid.
func NewLinearExpression(vid int, coeff float64) LinearExpression {
	if coeff == 0 {
		return LinearExpression{}
	}
	return LinearExpression{terms: []Term{{VID: vid, Coeff: coeff}}}
}

// Constant returns the expression holding the bare constant c.
func Constant(c float64) LinearExpression {
	return LinearExpression{constant: c}
}

// FromTerms builds an expression from a constant and arbitrary terms;
// duplicate variable ids are summed.
func FromTerms(constant float64, terms ...Term) LinearExpression {
	res := LinearExpression{constant: constant, terms: slices.Clone(terms)}
	res.normalize()
	return res
}

// normalize sorts terms by variable id, merges duplicates and drops exact
// zeros. Called only on freshly owned slices.
func (l *LinearExpression) normalize() {
	sort.SliceStable(l.terms, func(i, j int) bool { return l.terms[i].VID < l.terms[j].VID })
	out := l.terms[:0]
	for _, t := range l.terms {
		if n := len(out); n > 0 && out[n-1].VID == t.VID {
			out[n-1].Coeff += t.Coeff
			continue
		}
		out = append(out, t)
	}
	l.terms = out[:0]
	for _, t := range out {
		if t.Coeff != 0 {
			l.terms = append(l.terms, t)
		}
	}
}

// Add returns l + o.
func (l LinearExpression) Add(o LinearExpression) LinearExpression {
	res := LinearExpression{
		constant: l.constant + o.constant,
		terms:    make([]Term, 0, len(l.terms)+len(o.terms)),
	}
	// merge the two sorted term slices
	i, j := 0, 0
	for i < len(l.terms) && j < len(o.terms) {
		switch {
		case l.terms[i].VID < o.terms[j].VID:
			res.terms = append(res.terms, l.terms[i])
			i++
		case l.terms[i].VID > o.terms[j].VID:
			res.terms = append(res.terms, o.terms[j])
			j++
		default:
			if c := l.terms[i].Coeff + o.terms[j].Coeff; c != 0 {
				res.terms = append(res.terms, Term{VID: l.terms[i].VID, Coeff: c})
			}
			i++
			j++
		}
	}
	res.terms = append(res.terms, l.terms[i:]...)
	res.terms = append(res.terms, o.terms[j:]...)
	return res
}

// AddConstant returns l + c.
func (l LinearExpression) AddConstant(c float64) LinearExpression {
	return LinearExpression{constant: l.constant + c, terms: l.terms}
}

// Sub returns l - o.
func (l LinearExpression) Sub(o LinearExpression) LinearExpression {
	return l.Add(o.Neg())
}

// Scale returns f * l.
func (l LinearExpression) Scale(f float64) LinearExpression {
	if f == 0 {
		return LinearExpression{}
	}
	res := LinearExpression{
		constant: f * l.constant,
		terms:    make([]Term, len(l.terms)),
	}
	for i, t := range l.terms {
		res.terms[i] = Term{VID: t.VID, Coeff: f * t.Coeff}
	}
	return res
}

// Neg returns -l.
func (l LinearExpression) Neg() LinearExpression {
	return l.Scale(-1)
}

// Constant returns the constant part of the expression.
func (l LinearExpression) Constant() float64 { return l.constant }

// Terms returns a copy of the variable terms, sorted by variable id.
func (l LinearExpression) Terms() []Term { return slices.Clone(l.terms) }

// NbTerms returns the number of variable terms.
func (l LinearExpression) NbTerms() int { return len(l.terms) }

// Coefficient returns the coefficient of the given variable id (0 if the
// variable does not appear in the expression).
func (l LinearExpression) Coefficient(vid int) float64 {
	i, ok := sort.Find(len(l.terms), func(i int) int { return vid - l.terms[i].VID })
	if !ok {
		return 0
	}
	return l.terms[i].Coeff
}

// IsConstant returns true if the expression has no variable terms.
func (l LinearExpression) IsConstant() bool { return len(l.terms) == 0 }

// IsZero returns true if the expression is the zero expression.
func (l LinearExpression) IsZero() bool { return len(l.terms) == 0 && l.constant == 0 }

// Equal returns true if both expressions have the same constant and the
// same (id, coefficient) terms.
func (l LinearExpression) Equal(o LinearExpression) bool {
	return l.constant == o.constant && slices.Equal(l.terms, o.terms)
}

func (l LinearExpression) String() string {
	if l.IsZero() {
		return "0"
	}
	var sbb strings.Builder
	for i, t := range l.terms {
		if i > 0 {
			sbb.WriteString(" + ")
		}
		t.write(&sbb)
	}
	if l.constant != 0 {
		if len(l.terms) > 0 {
			sbb.WriteString(" + ")
		}
		sbb.WriteString(strconv.FormatFloat(l.constant, 'g', -1, 64))
	}
	return sbb.String()
}
