// Package ac defines the interfaces the arithmetic coding algorithm requires.
// See its subpackages for particular finite precision realizations of the algorithm.
package ac

import (
	"github.com/pkg/errors"
)

const (
	// NumSymbols is the size of the alphabet, one symbol per byte value.
	NumSymbols = 256

	// MaxPrecision is the widest interval, in bits, supported by the realizations.
	// It keeps length*cumulative within 64 bits for every realization, including
	// witten whose code values are one bit wider than the precision.
	MaxPrecision uint = 31
)

var (
	// ErrConfiguration is returned when the precision is too small for the symbol counts of a model.
	ErrConfiguration = errors.New("precision too small for symbol count")

	// ErrIntervalCollapse is returned when a symbol is assigned an empty sub-interval.
	ErrIntervalCollapse = errors.New("coding interval collapsed")

	// ErrCarryOverflow is returned when a carry runs past the first emitted bit.
	ErrCarryOverflow = errors.New("carry propagated past start of stream")

	// ErrTruncatedInput is returned when there are insufficient bits sent to Decode to reconstruct the original data.
	ErrTruncatedInput = errors.New("insufficient bits sent to decoder")

	// ErrCorruptInput is returned when the input can not have been produced by the encoder.
	ErrCorruptInput = errors.New("corrupt input")
)

// A Model is a probabilistic model on a sequence of bytes,
// expressed as a cumulative count table over the 256 byte values.
type Model interface {
	// Cumulative returns the sum of the counts of all symbols below s, for s in [0, NumSymbols].
	// Cumulative(NumSymbols) is the total count.
	Cumulative(s int) uint64

	// Observe informs the Model that symbol s was coded.
	// Encoder and decoder call Observe at the same points of the sequence.
	Observe(s byte)
}

// MaxTotal returns the largest total count a model may carry at the given precision.
// Renormalization keeps the interval length at or above 2^(precision-1),
// so a total of at most that much gives every symbol a non-empty sub-interval.
func MaxTotal(precision uint) uint64 {
	if precision == 0 {
		return 0
	}
	return 1 << (precision - 1)
}

// CheckPrecision reports whether precision is in the supported range.
func CheckPrecision(precision uint) error {
	if precision == 0 || precision > MaxPrecision {
		return errors.Wrapf(ErrConfiguration, "precision %d not in [1, %d]", precision, MaxPrecision)
	}
	return nil
}

// CheckTotal reports whether total fits the precision.
func CheckTotal(total uint64, precision uint) error {
	if err := CheckPrecision(precision); err != nil {
		return err
	}
	if total == 0 || total > MaxTotal(precision) {
		return errors.Wrapf(ErrConfiguration, "total count %d exceeds %d at precision %d", total, MaxTotal(precision), precision)
	}
	return nil
}

// Scale maps the cumulative count c onto an interval of the given length.
func Scale(length, c, total uint64) uint64 {
	return length * c / total
}

// Search returns the symbol whose scaled sub-interval of [0, length) contains offset,
// together with the scaled bounds [left, right) of that sub-interval.
// Scaled bounds are strictly increasing whenever total <= length,
// which the realizations guarantee, so a binary search suffices.
func Search(m Model, length, offset uint64) (s int, left, right uint64, err error) {
	total := m.Cumulative(NumSymbols)
	lo, hi := 0, NumSymbols
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if Scale(length, m.Cumulative(mid), total) <= offset {
			lo = mid
		} else {
			hi = mid
		}
	}

	left = Scale(length, m.Cumulative(lo), total)
	right = Scale(length, m.Cumulative(lo+1), total)
	if offset < left || offset >= right {
		return 0, 0, 0, errors.Wrapf(ErrCorruptInput, "offset %d outside interval of length %d", offset, length)
	}
	return lo, left, right, nil
}
