package expr

import (
	"encoding/binary"
	"math"

	"golang.org/x/crypto/blake2b"
)

// HashCode returns a collision-resistant identifier of the linear expression.
// It is constructed from the hash codes of the terms. Equal expressions have
// equal hash codes.
func (l LinearExpression) HashCode() [16]byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	var cst [8]byte
	binary.BigEndian.PutUint64(cst[:], math.Float64bits(l.constant))
	h.Write(cst[:])
	for i := range l.terms {
		termHash := l.terms[i].HashCode()
		h.Write(termHash[:])
	}
	crc := h.Sum(nil)
	return [16]byte(crc[:16])
}
