package freq

import (
	"github.com/pkg/errors"

	"github.com/fumin/arithcod/ac"
)

// An Adaptive model learns the symbol distribution from the sequence being coded.
//
// Every observed symbol increments its count. After every period symbols the
// cumulative table is rebuilt from the counts, and the counts are reset to one
// if reset is set. A rebuild that would exceed ac.MaxTotal halves the counts first.
// The decoder must be given the same precision, period and reset as the encoder.
type Adaptive struct {
	*Table
	period  int
	reset   bool
	pending int
}

// NewAdaptive returns an Adaptive model starting from the uniform distribution.
func NewAdaptive(precision uint, period int, reset bool) (*Adaptive, error) {
	if period < 1 {
		return nil, errors.Wrapf(ac.ErrConfiguration, "update period %d", period)
	}
	t, err := newTable(precision)
	if err != nil {
		return nil, err
	}
	if err := ac.CheckTotal(t.Total(), precision); err != nil {
		return nil, errors.Wrap(err, "uniform model")
	}
	return &Adaptive{Table: t, period: period, reset: reset}, nil
}

// Observe counts symbol s and rebuilds the cumulative table when the period elapses.
func (m *Adaptive) Observe(s byte) {
	m.Update(s)
	m.pending++
	if m.pending < m.period {
		return
	}
	m.pending = 0

	m.halve()
	m.RebuildCumulative()
	if m.reset {
		m.ResetCounts()
	}
}

// Period returns the number of symbols between rebuilds.
func (m *Adaptive) Period() int {
	return m.period
}

// ResetOnRebuild reports whether counts return to one after each rebuild.
func (m *Adaptive) ResetOnRebuild() bool {
	return m.reset
}
