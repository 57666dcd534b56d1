package expr

// Op is the relational operator of a comparison.
type Op uint8

const (
	LessOrEqual Op = iota
	Equal
	GreaterOrEqual
)

func (op Op) String() string {
	switch op {
	case LessOrEqual:
		return "<="
	case Equal:
		return "="
	case GreaterOrEqual:
		return ">="
	default:
		return "op?"
	}
}

// A Comparison relates two linear expressions. On its own it is only a
// template; the model package turns it (possibly once per tuple of an index
// domain) into a constraint.
type Comparison struct {
	Lhs, Rhs LinearExpression
	Op       Op
}

// Leq returns the comparison l <= o.
func (l LinearExpression) Leq(o LinearExpression) Comparison {
	return Comparison{Lhs: l, Rhs: o, Op: LessOrEqual}
}

// Eq returns the comparison l = o.
func (l LinearExpression) Eq(o LinearExpression) Comparison {
	return Comparison{Lhs: l, Rhs: o, Op: Equal}
}

// Geq returns the comparison l >= o.
func (l LinearExpression) Geq(o LinearExpression) Comparison {
	return Comparison{Lhs: l, Rhs: o, Op: GreaterOrEqual}
}

// Canonical rewrites the comparison with all variable terms on the left and
// a bare constant on the right, preserving the operator: lhs <op> rhs
// becomes (lhs - rhs without its constant) <op> c.
func (c Comparison) Canonical() (lhs LinearExpression, rhs float64) {
	diff := c.Lhs.Sub(c.Rhs)
	rhs = -diff.Constant()
	return diff.AddConstant(rhs), rhs
}

func (c Comparison) String() string {
	return c.Lhs.String() + " " + c.Op.String() + " " + c.Rhs.String()
}
