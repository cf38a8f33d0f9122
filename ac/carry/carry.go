// Package carry implements an arithmetic coder that corrects already emitted bits by carry propagation.
//
// The coder keeps an interval [base, base+length) inside the fixed-point space [0, 2^precision).
// Each symbol narrows the interval proportionally to its cumulative counts.
// When base wraps past 2^precision the wrapped unit is added to the bits already written,
// and whenever length falls below half the space the top bit of base is emitted and both are doubled.
//
// The decoder tracks the offset of the code value from base rather than base itself,
// so the encoder's carries are already part of the bits it reads.
package carry

import (
	"github.com/pkg/errors"

	"github.com/fumin/arithcod/ac"
	"github.com/fumin/arithcod/ac/bitstream"
)

// An Encoder carries the state required to encode a sequence of bytes.
type Encoder struct {
	out       bitstream.Writer
	model     ac.Model
	precision uint
	base      uint64
	length    uint64
	carries   int
}

// NewEncoder returns an Encoder working at the given precision.
// The model's total count must not exceed ac.MaxTotal(precision).
func NewEncoder(precision uint, model ac.Model) (*Encoder, error) {
	if err := ac.CheckTotal(model.Cumulative(ac.NumSymbols), precision); err != nil {
		return nil, err
	}
	e := &Encoder{
		model:     model,
		precision: precision,
		length:    1 << precision,
	}
	return e, nil
}

// Encode narrows the interval to the sub-interval of s and informs the model.
func (e *Encoder) Encode(s byte) error {
	total := e.model.Cumulative(ac.NumSymbols)
	left := ac.Scale(e.length, e.model.Cumulative(int(s)), total)
	right := ac.Scale(e.length, e.model.Cumulative(int(s)+1), total)
	if right <= left {
		return errors.Wrapf(ac.ErrIntervalCollapse, "symbol %d, length %d, total %d", s, e.length, total)
	}

	e.base += left
	if e.base >= 1<<e.precision {
		e.base -= 1 << e.precision
		if err := e.out.PropagateCarry(); err != nil {
			return err
		}
		e.carries++
	}
	e.length = right - left

	// Renormalize.
	half := uint64(1) << (e.precision - 1)
	mask := uint64(1)<<e.precision - 1
	for e.length < half {
		e.out.WriteBit(e.base >> (e.precision - 1))
		e.base = (e.base << 1) & mask
		e.length <<= 1
	}

	e.model.Observe(s)
	return nil
}

// Close emits the bits of base, which lies inside the final interval, and returns the encoded bits.
// The Encoder must not be used afterwards.
func (e *Encoder) Close() []byte {
	mask := uint64(1)<<e.precision - 1
	for i := uint(0); i < e.precision; i++ {
		e.out.WriteBit(e.base >> (e.precision - 1))
		e.base = (e.base << 1) & mask
	}
	return e.out.Bytes()
}

// Encode encodes src with a fresh Encoder.
func Encode(src []byte, precision uint, model ac.Model) ([]byte, error) {
	e, err := NewEncoder(precision, model)
	if err != nil {
		return nil, err
	}
	for i, b := range src {
		if err := e.Encode(b); err != nil {
			return nil, errors.Wrapf(err, "byte %d", i)
		}
	}
	return e.Close(), nil
}

// A Decoder carries the state required to decode bytes encoded by an Encoder.
type Decoder struct {
	in        *bitstream.Reader
	model     ac.Model
	precision uint
	offset    uint64 // code value minus base
	length    uint64
}

// NewDecoder returns a Decoder reading src.
// precision and model must match the ones given to the Encoder.
func NewDecoder(src []byte, precision uint, model ac.Model) (*Decoder, error) {
	if err := ac.CheckTotal(model.Cumulative(ac.NumSymbols), precision); err != nil {
		return nil, err
	}
	in := bitstream.NewReader(src)
	offset, err := in.ReadBits(precision)
	if err != nil {
		return nil, err
	}
	d := &Decoder{
		in:        in,
		model:     model,
		precision: precision,
		offset:    offset,
		length:    1 << precision,
	}
	return d, nil
}

// Decode returns the next symbol.
func (d *Decoder) Decode() (byte, error) {
	s, left, right, err := ac.Search(d.model, d.length, d.offset)
	if err != nil {
		return 0, err
	}
	d.offset -= left
	d.length = right - left

	// Renormalize.
	half := uint64(1) << (d.precision - 1)
	for d.length < half {
		bit, err := d.in.ReadBit()
		if err != nil {
			return 0, err
		}
		d.offset = d.offset<<1 | bit
		d.length <<= 1
	}

	d.model.Observe(byte(s))
	return byte(s), nil
}

// Decode decodes n bytes from src with a fresh Decoder.
// The stream carries no terminator, n must be the length of the encoded input.
func Decode(src []byte, n int, precision uint, model ac.Model) ([]byte, error) {
	if n < 0 {
		return nil, errors.Errorf("negative length %d", n)
	}
	if err := ac.CheckTotal(model.Cumulative(ac.NumSymbols), precision); err != nil {
		return nil, err
	}
	dst := make([]byte, 0, min(n, 1<<20))
	if n == 0 {
		return dst, nil
	}
	d, err := NewDecoder(src, precision, model)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		b, err := d.Decode()
		if err != nil {
			return nil, errors.Wrapf(err, "byte %d of %d", i, n)
		}
		dst = append(dst, b)
	}
	return dst, nil
}
