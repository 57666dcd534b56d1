package expr

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
)

// Term represents a coeff * variable pair inside a linear expression. The
// variable is referenced by the dense identity assigned at declaration time
// by the model's registry.
type Term struct {
	VID   int
	Coeff float64
}

// NewTerm returns a coeff*variable term.
func NewTerm(vid int, coeff float64) Term {
	return Term{VID: vid, Coeff: coeff}
}

// HashCode returns a 24 byte collision resistant identifier of the term.
func (t Term) HashCode() [24]byte {
	var buf [24]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(t.VID))
	binary.BigEndian.PutUint64(buf[8:16], math.Float64bits(t.Coeff))
	return buf
}

func (t Term) write(sbb *strings.Builder) {
	if t.Coeff != 1 {
		sbb.WriteString(strconv.FormatFloat(t.Coeff, 'g', -1, 64))
		sbb.WriteByte('*')
	}
	sbb.WriteByte('v')
	sbb.WriteString(strconv.Itoa(t.VID))
}
