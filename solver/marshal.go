package solver

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/blang/semver/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/ronanh/intcomp"
	"golang.org/x/sync/errgroup"

	mip "github.com/optkit/mip"
	"github.com/optkit/mip/expr"
	"github.com/optkit/mip/logger"
)

// ToBytes serializes the problem to a byte slice: a fixed binary header,
// the term streams (variable ids compressed with intcomp) and a CBOR body.
func (p *Problem) ToBytes() ([]byte, error) {
	// sections are independent; build them in parallel
	var terms, body []byte
	var g errgroup.Group
	g.Go(func() error {
		var err error
		terms, err = p.termsToBytes()
		return err
	})
	body, err := p.bodyToBytes()
	if err != nil {
		return nil, err
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	h := header{
		termsLen: uint64(len(terms)),
		bodyLen:  uint64(len(body)),
	}
	buf := h.toBytes()
	buf = append(buf, terms...)
	buf = append(buf, body...)
	return buf, nil
}

// FromBytes deserializes the problem from a byte slice and returns the
// number of bytes read.
func (p *Problem) FromBytes(data []byte) (int, error) {
	if len(data) < headerLen {
		return 0, errors.New("invalid data length")
	}
	h := new(header)
	h.fromBytes(data)
	if uint64(len(data)) < headerLen+h.termsLen+h.bodyLen {
		return 0, errors.New("invalid data length")
	}

	if err := p.bodyFromBytes(data[headerLen+h.termsLen : headerLen+h.termsLen+h.bodyLen]); err != nil {
		return 0, err
	}
	if err := p.termsFromBytes(data[headerLen : headerLen+h.termsLen]); err != nil {
		return 0, err
	}
	return headerLen + int(h.termsLen) + int(h.bodyLen), nil
}

// WriteTo implements io.WriterTo.
func (p *Problem) WriteTo(w io.Writer) (int64, error) {
	buf, err := p.ToBytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// ReadFrom implements io.ReaderFrom.
func (p *Problem) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return int64(len(data)), err
	}
	n, err := p.FromBytes(data)
	return int64(n), err
}

const headerLen = 2 * 8

type header struct {
	// length in bytes of each section
	termsLen uint64
	bodyLen  uint64
}

func (h *header) toBytes() []byte {
	buf := make([]byte, 0, headerLen+h.termsLen+h.bodyLen)
	buf = binary.LittleEndian.AppendUint64(buf, h.termsLen)
	buf = binary.LittleEndian.AppendUint64(buf, h.bodyLen)
	return buf
}

func (h *header) fromBytes(buf []byte) {
	h.termsLen = binary.LittleEndian.Uint64(buf[:8])
	h.bodyLen = binary.LittleEndian.Uint64(buf[8:16])
}

// serializedBody carries everything but the term streams.
type serializedBody struct {
	Version     string
	Variables   []Variable
	RowOps      []uint8
	RowRHS      []float64
	ObjConstant float64
	ObjSense    uint8
}

func (p *Problem) bodyToBytes() ([]byte, error) {
	body := serializedBody{
		Version:     mip.Version.String(),
		Variables:   p.Variables,
		RowOps:      make([]uint8, len(p.Rows)),
		RowRHS:      make([]float64, len(p.Rows)),
		ObjConstant: p.Objective.Constant,
		ObjSense:    uint8(p.Objective.Sense),
	}
	for i, r := range p.Rows {
		body.RowOps[i] = uint8(r.Op)
		body.RowRHS[i] = r.RHS
	}

	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := enc.NewEncoder(buf).Encode(&body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Problem) bodyFromBytes(data []byte) error {
	dm, err := cbor.DecOptions{
		MaxArrayElements: 2147483647,
		MaxMapPairs:      2147483647,
	}.DecMode()
	if err != nil {
		return err
	}
	var body serializedBody
	if err := dm.NewDecoder(bytes.NewReader(data)).Decode(&body); err != nil {
		return err
	}
	if err := checkSerializationHeader(body.Version); err != nil {
		return err
	}
	if len(body.RowOps) != len(body.RowRHS) {
		return errors.New("inconsistent row sections")
	}

	p.Variables = body.Variables
	p.Rows = make([]Row, len(body.RowOps))
	for i := range p.Rows {
		p.Rows[i] = Row{Op: expr.Op(body.RowOps[i]), RHS: body.RowRHS[i]}
	}
	p.Objective = Objective{Constant: body.ObjConstant, Sense: Sense(body.ObjSense)}
	return nil
}

// termsToBytes flattens the rows' and the objective's terms into three
// streams: per-row term counts and variable ids (both intcomp-compressed)
// and raw coefficient bits.
func (p *Problem) termsToBytes() ([]byte, error) {
	counts := make([]uint32, 0, len(p.Rows)+1)
	var vids []uint32
	var coeffs []float64
	appendTerms := func(terms []expr.Term) {
		counts = append(counts, uint32(len(terms)))
		for _, t := range terms {
			vids = append(vids, uint32(t.VID))
			coeffs = append(coeffs, t.Coeff)
		}
	}
	for _, r := range p.Rows {
		appendTerms(r.Terms)
	}
	appendTerms(p.Objective.Terms)

	buf := new(bytes.Buffer)
	if err := compressAndWriteUints32(buf, counts); err != nil {
		return nil, err
	}
	if err := compressAndWriteUints32(buf, vids); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, uint64(len(coeffs))); err != nil {
		return nil, err
	}
	for _, c := range coeffs {
		if err := binary.Write(buf, binary.LittleEndian, math.Float64bits(c)); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// termsFromBytes rebuilds the term slices; it must run after bodyFromBytes
// so the row count is known.
func (p *Problem) termsFromBytes(data []byte) error {
	r := bytes.NewReader(data)
	counts, err := readAndDecompressUints32(r)
	if err != nil {
		return err
	}
	vids, err := readAndDecompressUints32(r)
	if err != nil {
		return err
	}
	var nbCoeffs uint64
	if err := binary.Read(r, binary.LittleEndian, &nbCoeffs); err != nil {
		return err
	}
	if nbCoeffs != uint64(len(vids)) {
		return errors.New("inconsistent term sections")
	}
	coeffs := make([]float64, nbCoeffs)
	for i := range coeffs {
		var bits uint64
		if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
			return err
		}
		coeffs[i] = math.Float64frombits(bits)
	}
	if len(counts) != len(p.Rows)+1 {
		return errors.New("inconsistent term sections")
	}

	offset := 0
	take := func(n uint32) ([]expr.Term, error) {
		if offset+int(n) > len(vids) {
			return nil, errors.New("inconsistent term sections")
		}
		if n == 0 {
			return nil, nil
		}
		terms := make([]expr.Term, n)
		for i := range terms {
			terms[i] = expr.Term{VID: int(vids[offset]), Coeff: coeffs[offset]}
			offset++
		}
		return terms, nil
	}
	for i := range p.Rows {
		if p.Rows[i].Terms, err = take(counts[i]); err != nil {
			return err
		}
	}
	if p.Objective.Terms, err = take(counts[len(counts)-1]); err != nil {
		return err
	}
	if offset != len(vids) {
		return errors.New("inconsistent term sections")
	}
	return nil
}

func compressAndWriteUints32(w io.Writer, input []uint32) error {
	compressed := intcomp.CompressUint32(input, nil)
	if err := binary.Write(w, binary.LittleEndian, uint64(len(compressed))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, compressed)
}

func readAndDecompressUints32(r io.Reader) ([]uint32, error) {
	var length uint64
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, err
	}
	buffer := make([]uint32, length)
	if err := binary.Read(r, binary.LittleEndian, buffer); err != nil {
		return nil, err
	}
	return intcomp.UncompressUint32(buffer, nil), nil
}

// checkSerializationHeader parses the version header of a serialized
// problem; a version mismatch is logged, not fatal.
func checkSerializationHeader(version string) error {
	objectVersion, err := semver.Parse(version)
	if err != nil {
		return fmt.Errorf("when parsing serialized version: %w", err)
	}
	if mip.Version.Compare(objectVersion) != 0 {
		log := logger.Logger()
		log.Warn().Str("binary", mip.Version.String()).Str("object", objectVersion.String()).Msg("version mismatch with serialized problem. there are no guarantees on compatibility")
	}
	return nil
}
