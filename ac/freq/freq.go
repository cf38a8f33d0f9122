// Package freq implements the byte frequency models used by the arithmetic coders.
//
// A Table holds per-symbol counts and the cumulative table derived from them.
// Static freezes a Table built from a whole buffer, while Adaptive updates the
// counts after every coded symbol and rebuilds the cumulative table on a fixed schedule.
// Every model is owned by a single encode or decode call.
package freq

import (
	"github.com/pkg/errors"

	"github.com/fumin/arithcod/ac"
)

// A Table is a set of symbol counts together with their prefix sums.
// Counts start at one so that every symbol stays decodable.
type Table struct {
	precision  uint
	counts     [ac.NumSymbols]uint64
	cumulative [ac.NumSymbols + 1]uint64
}

func newTable(precision uint) (*Table, error) {
	if err := ac.CheckPrecision(precision); err != nil {
		return nil, err
	}
	t := &Table{precision: precision}
	t.ResetCounts()
	t.RebuildCumulative()
	return t, nil
}

// Update increments the count of symbol s.
// The cumulative table is left untouched until the next RebuildCumulative.
func (t *Table) Update(s byte) {
	t.counts[s]++
}

// RebuildCumulative recomputes the cumulative table from the current counts.
func (t *Table) RebuildCumulative() {
	t.cumulative[0] = 0
	for i, c := range t.counts {
		t.cumulative[i+1] = t.cumulative[i] + c
	}
}

// ResetCounts sets every count back to one.
func (t *Table) ResetCounts() {
	for i := range t.counts {
		t.counts[i] = 1
	}
}

// Cumulative returns the sum of the counts below s in the last rebuilt table.
func (t *Table) Cumulative(s int) uint64 {
	return t.cumulative[s]
}

// Total returns the total count of the last rebuilt table.
func (t *Table) Total() uint64 {
	return t.cumulative[ac.NumSymbols]
}

// Counts returns a copy of the current counts.
func (t *Table) Counts() []uint64 {
	counts := make([]uint64, ac.NumSymbols)
	copy(counts, t.counts[:])
	return counts
}

// countsTotal returns the sum of the current counts, which may run ahead of Total.
func (t *Table) countsTotal() uint64 {
	var total uint64
	for _, c := range t.counts {
		total += c
	}
	return total
}

// halve divides every count by two, rounding up, until the counts fit the precision.
func (t *Table) halve() {
	limit := ac.MaxTotal(t.precision)
	for t.countsTotal() > limit {
		for i, c := range t.counts {
			t.counts[i] = (c + 1) / 2
		}
	}
}

// A Static model is a frozen Table.
type Static struct {
	*Table
}

// Build returns a Static model holding the histogram of src.
func Build(src []byte, precision uint) (*Static, error) {
	t, err := newTable(precision)
	if err != nil {
		return nil, err
	}
	for _, b := range src {
		t.Update(b)
	}
	t.RebuildCumulative()
	if err := ac.CheckTotal(t.Total(), precision); err != nil {
		return nil, errors.Wrapf(err, "histogram of %d bytes", len(src))
	}
	return &Static{Table: t}, nil
}

// FromCounts returns a Static model with the given counts, typically read back from a header.
// Every count must be at least one.
func FromCounts(counts []uint64, precision uint) (*Static, error) {
	if len(counts) != ac.NumSymbols {
		return nil, errors.Wrapf(ac.ErrCorruptInput, "%d counts, want %d", len(counts), ac.NumSymbols)
	}
	t, err := newTable(precision)
	if err != nil {
		return nil, err
	}
	for i, c := range counts {
		if c == 0 {
			return nil, errors.Wrapf(ac.ErrCorruptInput, "zero count for symbol %d", i)
		}
		if c > ac.MaxTotal(precision) {
			return nil, errors.Wrapf(ac.ErrConfiguration, "count %d for symbol %d", c, i)
		}
		t.counts[i] = c
	}
	t.RebuildCumulative()
	if err := ac.CheckTotal(t.Total(), precision); err != nil {
		return nil, err
	}
	return &Static{Table: t}, nil
}

// Observe does nothing, a Static model never changes.
func (m *Static) Observe(s byte) {}
