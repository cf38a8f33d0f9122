// Package bitstream provides bit addressable buffers for arithmetic coding.
// Bits are packed most significant bit first within each byte.
package bitstream

import (
	"github.com/pkg/errors"

	"github.com/fumin/arithcod/ac"
)

// A Writer is an append-only sequence of bits that can also increment its already written bits.
type Writer struct {
	buf []byte
	n   int // number of bits written
}

// WriteBit appends the lowest bit of bit.
func (w *Writer) WriteBit(bit uint64) {
	if w.n%8 == 0 {
		w.buf = append(w.buf, 0)
	}
	if bit&1 == 1 {
		w.buf[w.n/8] |= 1 << (7 - uint(w.n%8))
	}
	w.n++
}

// PropagateCarry adds one at the position of the last written bit,
// turning a trailing run of ones into zeros and the zero before the run into one.
// ErrCarryOverflow is returned if the run reaches the start of the stream.
func (w *Writer) PropagateCarry() error {
	for i := w.n - 1; i >= 0; i-- {
		mask := byte(1) << (7 - uint(i%8))
		if w.buf[i/8]&mask == 0 {
			w.buf[i/8] |= mask
			return nil
		}
		w.buf[i/8] &^= mask
	}
	return errors.Wrapf(ac.ErrCarryOverflow, "after %d bits", w.n)
}

// Len returns the number of bits written.
func (w *Writer) Len() int {
	return w.n
}

// Bytes returns the written bits, zero padded to a whole number of bytes.
// The slice aliases the Writer's storage.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// A Reader is a read-only bit view over a byte slice, with a cursor for sequential reads.
type Reader struct {
	buf []byte
	pos int
}

// NewReader returns a Reader over b positioned at bit zero.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Bit returns the bit at index i, which may lie ahead of the cursor.
func (r *Reader) Bit(i int) (uint64, error) {
	if i < 0 || i >= 8*len(r.buf) {
		return 0, errors.Wrapf(ac.ErrTruncatedInput, "bit %d of %d", i, 8*len(r.buf))
	}
	return uint64(r.buf[i/8]>>(7-uint(i%8))) & 1, nil
}

// ReadBit returns the bit under the cursor and advances the cursor.
func (r *Reader) ReadBit() (uint64, error) {
	bit, err := r.Bit(r.pos)
	if err != nil {
		return 0, err
	}
	r.pos++
	return bit, nil
}

// ReadBits reads n bits, the first one becoming the most significant.
func (r *Reader) ReadBits(n uint) (uint64, error) {
	var v uint64
	for i := uint(0); i < n; i++ {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		v = v<<1 | bit
	}
	return v, nil
}

// Pos returns the index of the next bit to be read.
func (r *Reader) Pos() int {
	return r.pos
}
