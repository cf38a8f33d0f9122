package freq

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/fumin/arithcod/ac"
)

func width(m ac.Model, s byte) uint64 {
	return m.Cumulative(int(s)+1) - m.Cumulative(int(s))
}

func TestBuild(t *testing.T) {
	m, err := Build([]byte("abca"), 16)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if m.Total() != 260 {
		t.Errorf("total %d", m.Total())
	}
	want := map[byte]uint64{'a': 3, 'b': 2, 'c': 2, 'd': 1, 0: 1, 255: 1}
	for s, w := range want {
		if got := width(m, s); got != w {
			t.Errorf("width of %q = %d, want %d", s, got, w)
		}
	}
	for s := 0; s < ac.NumSymbols; s++ {
		if m.Cumulative(s) >= m.Cumulative(s+1) {
			t.Fatalf("cumulative not increasing at %d", s)
		}
	}

	// A static model ignores observations.
	m.Observe('z')
	if width(m, 'z') != 1 || m.Counts()['z'] != 1 {
		t.Errorf("static model changed")
	}
}

func TestBuildPrecision(t *testing.T) {
	// 256 ones only fit from precision 9 onwards.
	if _, err := Build(nil, 8); errors.Cause(err) != ac.ErrConfiguration {
		t.Errorf("precision 8: %v", err)
	}
	if _, err := Build(nil, 9); err != nil {
		t.Errorf("precision 9: %+v", err)
	}
	if _, err := Build([]byte{0}, 9); errors.Cause(err) != ac.ErrConfiguration {
		t.Errorf("precision 9 with one byte: %v", err)
	}
	if _, err := Build(make([]byte, 2048-256), 12); err != nil {
		t.Errorf("precision 12 at the limit: %+v", err)
	}
	if _, err := Build(make([]byte, 2048-255), 12); errors.Cause(err) != ac.ErrConfiguration {
		t.Errorf("precision 12 past the limit: %v", err)
	}
	if _, err := Build(nil, ac.MaxPrecision+1); errors.Cause(err) != ac.ErrConfiguration {
		t.Errorf("precision past the maximum: %v", err)
	}
}

func TestFromCounts(t *testing.T) {
	src := []byte("the quick brown fox jumps over the lazy dog")
	m, err := Build(src, 16)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	m2, err := FromCounts(m.Counts(), 16)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	for s := 0; s <= ac.NumSymbols; s++ {
		if m.Cumulative(s) != m2.Cumulative(s) {
			t.Fatalf("cumulative %d: %d != %d", s, m.Cumulative(s), m2.Cumulative(s))
		}
	}

	if _, err := FromCounts(m.Counts()[:255], 16); errors.Cause(err) != ac.ErrCorruptInput {
		t.Errorf("short counts: %v", err)
	}
	zero := m.Counts()
	zero[7] = 0
	if _, err := FromCounts(zero, 16); errors.Cause(err) != ac.ErrCorruptInput {
		t.Errorf("zero count: %v", err)
	}
	big := m.Counts()
	big[7] = 1 << 40
	if _, err := FromCounts(big, 16); errors.Cause(err) != ac.ErrConfiguration {
		t.Errorf("huge count: %v", err)
	}
}

func TestAdaptiveSchedule(t *testing.T) {
	if _, err := NewAdaptive(16, 0, false); errors.Cause(err) != ac.ErrConfiguration {
		t.Errorf("period 0: %v", err)
	}
	if _, err := NewAdaptive(8, 1, false); errors.Cause(err) != ac.ErrConfiguration {
		t.Errorf("precision 8: %v", err)
	}

	m, err := NewAdaptive(16, 3, false)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	m.Observe('x')
	m.Observe('x')
	if w := width(m, 'x'); w != 1 {
		t.Errorf("table rebuilt before the period elapsed, width %d", w)
	}
	m.Observe('x')
	if w := width(m, 'x'); w != 4 {
		t.Errorf("width after rebuild %d, want 4", w)
	}
	m.Observe('y')
	m.Observe('y')
	m.Observe('y')
	if w := width(m, 'x'); w != 4 {
		t.Errorf("accumulated width of x %d, want 4", w)
	}
	if w := width(m, 'y'); w != 4 {
		t.Errorf("accumulated width of y %d, want 4", w)
	}
	if m.Total() != 256+6 {
		t.Errorf("total %d", m.Total())
	}
}

func TestAdaptiveReset(t *testing.T) {
	m, err := NewAdaptive(16, 3, true)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	for i := 0; i < 3; i++ {
		m.Observe('x')
	}
	if w := width(m, 'x'); w != 4 {
		t.Errorf("width after rebuild %d, want 4", w)
	}
	if c := m.Counts()['x']; c != 1 {
		t.Errorf("count after reset %d, want 1", c)
	}
	for i := 0; i < 3; i++ {
		m.Observe('y')
	}
	if w := width(m, 'x'); w != 1 {
		t.Errorf("width of x after second rebuild %d, want 1", w)
	}
	if w := width(m, 'y'); w != 4 {
		t.Errorf("width of y after second rebuild %d, want 4", w)
	}
	if m.Total() != 256+3 {
		t.Errorf("total %d", m.Total())
	}
}

func TestAdaptiveHalving(t *testing.T) {
	const precision = 10
	m, err := NewAdaptive(precision, 1, false)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	for i := 0; i < 300; i++ {
		m.Observe('a')
		if m.Total() > ac.MaxTotal(precision) {
			t.Fatalf("observation %d: total %d exceeds %d", i, m.Total(), ac.MaxTotal(precision))
		}
	}
	// The counts were halved once, at the 257th observation.
	if w := width(m, 'a'); w != 172 {
		t.Errorf("width of a %d, want 172", w)
	}
	if m.Total() != 427 {
		t.Errorf("total %d, want 427", m.Total())
	}
	if w := width(m, 'b'); w != 1 {
		t.Errorf("width of b %d, want 1", w)
	}
}
