// Package witten implements the arithmetic coding algorithm described in
// Witten, Ian H.; Neal, Radford M.; Cleary, John G. (June 1987). "Arithmetic Coding for Data Compression". Communications of the ACM 30 (6): 520–540.
//
// Unlike package carry, bits are never revised once written.
// An interval straddling the midpoint is expanded around it and the decision is deferred
// as follow bits, which are emitted opposite to the next settled bit.
// Code values are one bit wider than the precision, so that a model admitted by
// ac.MaxTotal never exceeds a quarter of the code space.
package witten

import (
	"bytes"
	"io"

	"github.com/icza/bitio"
	"github.com/pkg/errors"

	"github.com/fumin/arithcod/ac"
)

type codeSpace struct {
	bits     uint
	top      uint64
	firstQtr uint64
	half     uint64
	thirdQtr uint64
}

func newCodeSpace(precision uint) codeSpace {
	cs := codeSpace{bits: precision + 1}
	cs.top = uint64(1)<<cs.bits - 1
	cs.firstQtr = cs.top/4 + 1
	cs.half = 2 * cs.firstQtr
	cs.thirdQtr = 3 * cs.firstQtr
	return cs
}

// narrow returns the bounds of the sub-interval of s inside [low, high].
func narrow(m ac.Model, low, high uint64, s int) (uint64, uint64, error) {
	total := m.Cumulative(ac.NumSymbols)
	arange := high - low + 1
	left := ac.Scale(arange, m.Cumulative(s), total)
	right := ac.Scale(arange, m.Cumulative(s+1), total)
	if right <= left {
		return 0, 0, errors.Wrapf(ac.ErrIntervalCollapse, "symbol %d, range %d, total %d", s, arange, total)
	}
	return low + left, low + right - 1, nil
}

// An Encoder carries the state required by an encoder.
type Encoder struct {
	buf   bytes.Buffer
	out   *bitio.Writer
	model ac.Model
	cs    codeSpace
	low   uint64
	high  uint64
	fbits uint64
}

// NewEncoder returns an Encoder working at the given precision.
func NewEncoder(precision uint, model ac.Model) (*Encoder, error) {
	if err := ac.CheckTotal(model.Cumulative(ac.NumSymbols), precision); err != nil {
		return nil, err
	}
	e := &Encoder{model: model, cs: newCodeSpace(precision)}
	e.out = bitio.NewWriter(&e.buf)
	e.high = e.cs.top
	return e, nil
}

func (e *Encoder) bitPlusFollow(bit bool) error {
	if err := e.out.WriteBool(bit); err != nil {
		return errors.Wrap(err, "")
	}
	for ; e.fbits > 0; e.fbits-- {
		if err := e.out.WriteBool(!bit); err != nil {
			return errors.Wrap(err, "")
		}
	}
	return nil
}

// Encode narrows the interval to the sub-interval of s and informs the model.
func (e *Encoder) Encode(s byte) error {
	low, high, err := narrow(e.model, e.low, e.high, int(s))
	if err != nil {
		return err
	}
	e.low, e.high = low, high

	cs := e.cs
	for {
		if e.high < cs.half {
			if err := e.bitPlusFollow(false); err != nil {
				return err
			}
		} else if e.low >= cs.half {
			if err := e.bitPlusFollow(true); err != nil {
				return err
			}
			e.low -= cs.half
			e.high -= cs.half
		} else if e.low >= cs.firstQtr && e.high < cs.thirdQtr {
			e.fbits++
			e.low -= cs.firstQtr
			e.high -= cs.firstQtr
		} else {
			break
		}

		e.low = 2 * e.low
		e.high = 2*e.high + 1
	}

	e.model.Observe(s)
	return nil
}

// Close emits two bits, plus pending follow bits, selecting a quarter inside the final interval.
// The Encoder must not be used afterwards.
func (e *Encoder) Close() ([]byte, error) {
	e.fbits++
	if err := e.bitPlusFollow(e.low >= e.cs.firstQtr); err != nil {
		return nil, err
	}
	if err := e.out.Close(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return e.buf.Bytes(), nil
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
	return e.Close()
}

// A Decoder carries the state required to decode bytes encoded by an Encoder.
type Decoder struct {
	in      *bitio.Reader
	model   ac.Model
	cs      codeSpace
	low     uint64
	high    uint64
	value   uint64
	garbage uint
}

// NewDecoder returns a Decoder reading src.
// precision and model must match the ones given to the Encoder.
func NewDecoder(src []byte, precision uint, model ac.Model) (*Decoder, error) {
	if err := ac.CheckTotal(model.Cumulative(ac.NumSymbols), precision); err != nil {
		return nil, err
	}
	d := &Decoder{
		in:    bitio.NewReader(bytes.NewReader(src)),
		model: model,
		cs:    newCodeSpace(precision),
	}
	d.high = d.cs.top
	for i := uint(0); i < d.cs.bits; i++ {
		bit, err := d.readBit()
		if err != nil {
			return nil, err
		}
		d.value = 2*d.value + bit
	}
	return d, nil
}

// readBit returns the next input bit.
// The final interval is wide enough that the bits past the end of the stream can be anything,
// as long as there are fewer of them than a code value.
func (d *Decoder) readBit() (uint64, error) {
	b, err := d.in.ReadBool()
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		d.garbage++
		if d.garbage > d.cs.bits {
			return 0, errors.Wrapf(ac.ErrTruncatedInput, "%d bits past end of stream", d.garbage)
		}
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "")
	}
	if b {
		return 1, nil
	}
	return 0, nil
}

// Decode returns the next symbol.
func (d *Decoder) Decode() (byte, error) {
	s, _, _, err := ac.Search(d.model, d.high-d.low+1, d.value-d.low)
	if err != nil {
		return 0, err
	}
	low, high, err := narrow(d.model, d.low, d.high, s)
	if err != nil {
		return 0, err
	}
	d.low, d.high = low, high

	cs := d.cs
	for {
		if d.high < cs.half {
			// do nothing
		} else if d.low >= cs.half {
			d.value -= cs.half
			d.low -= cs.half
			d.high -= cs.half
		} else if d.low >= cs.firstQtr && d.high < cs.thirdQtr {
			d.value -= cs.firstQtr
			d.low -= cs.firstQtr
			d.high -= cs.firstQtr
		} else {
			break
		}

		d.low = 2 * d.low
		d.high = 2*d.high + 1
		bit, err := d.readBit()
		if err != nil {
			return 0, err
		}
		d.value = 2*d.value + bit
	}

	d.model.Observe(byte(s))
	return byte(s), nil
}

// Decode decodes n bytes from src with a fresh Decoder.
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
