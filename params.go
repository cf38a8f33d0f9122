package arithcod

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/fumin/arithcod/ac"
	"github.com/fumin/arithcod/ac/carry"
	"github.com/fumin/arithcod/ac/freq"
	"github.com/fumin/arithcod/ac/witten"
)

// A Mode selects how the frequency model is obtained.
type Mode int

const (
	// Static codes with the histogram of the whole input, which is stored in the header.
	Static Mode = iota + 1
	// Adaptive learns the histogram while coding; only the schedule is stored.
	Adaptive
)

func (m Mode) String() string {
	switch m {
	case Static:
		return "static"
	case Adaptive:
		return "adaptive"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode returns the Mode named s.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "static":
		return Static, nil
	case "adaptive":
		return Adaptive, nil
	default:
		return 0, errors.Wrapf(ac.ErrConfiguration, "unknown mode %q", s)
	}
}

// A Coder selects the finite precision realization of arithmetic coding.
type Coder int

const (
	// Carry is the realization of package carry.
	Carry Coder = iota + 1
	// Witten is the realization of package witten.
	Witten
)

func (c Coder) String() string {
	switch c {
	case Carry:
		return "carry"
	case Witten:
		return "witten"
	default:
		return fmt.Sprintf("Coder(%d)", int(c))
	}
}

// ParseCoder returns the Coder named s.
func ParseCoder(s string) (Coder, error) {
	switch strings.ToLower(s) {
	case "carry":
		return Carry, nil
	case "witten":
		return Witten, nil
	default:
		return 0, errors.Wrapf(ac.ErrConfiguration, "unknown coder %q", s)
	}
}

// Params are the coding parameters. The decoder needs exactly the same Params as the encoder,
// which is why they are all persisted in the Header.
type Params struct {
	// Precision is the number of bits of the coding interval.
	Precision uint
	Mode      Mode
	// UpdatePeriod is the number of symbols between rebuilds of an Adaptive model.
	UpdatePeriod int
	// ResetOnRebuild resets the counts of an Adaptive model to one after every rebuild.
	ResetOnRebuild bool
	Coder          Coder
}

// DefaultParams adapt after every symbol at the widest precision.
var DefaultParams = Params{
	Precision:    ac.MaxPrecision,
	Mode:         Adaptive,
	UpdatePeriod: 1,
	Coder:        Carry,
}

// Validate reports whether p describes a usable configuration.
// Whether a static histogram fits the precision is only known once the input is seen.
func (p Params) Validate() error {
	if err := ac.CheckPrecision(p.Precision); err != nil {
		return err
	}
	if _, ok := engines[p.Coder]; !ok {
		return errors.Wrapf(ac.ErrConfiguration, "unknown coder %v", p.Coder)
	}
	switch p.Mode {
	case Static:
	case Adaptive:
		if p.UpdatePeriod < 1 {
			return errors.Wrapf(ac.ErrConfiguration, "update period %d", p.UpdatePeriod)
		}
	default:
		return errors.Wrapf(ac.ErrConfiguration, "unknown mode %v", p.Mode)
	}
	return nil
}

type engine struct {
	encode func(src []byte, precision uint, model ac.Model) ([]byte, error)
	decode func(src []byte, n int, precision uint, model ac.Model) ([]byte, error)
}

var engines = map[Coder]engine{
	Carry:  {encode: carry.Encode, decode: carry.Decode},
	Witten: {encode: witten.Encode, decode: witten.Decode},
}

func (p Params) adaptiveModel() (ac.Model, error) {
	return freq.NewAdaptive(p.Precision, p.UpdatePeriod, p.ResetOnRebuild)
}
