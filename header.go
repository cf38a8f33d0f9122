package arithcod

import (
	"fmt"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/fumin/arithcod/ac"
)

const headerVersion = 1

// Field numbers of the artifact message.
const (
	fieldVersion        protowire.Number = 1
	fieldLength         protowire.Number = 2
	fieldPrecision      protowire.Number = 3
	fieldMode           protowire.Number = 4
	fieldCoder          protowire.Number = 5
	fieldUpdatePeriod   protowire.Number = 6
	fieldResetOnRebuild protowire.Number = 7
	fieldCounts         protowire.Number = 8
	fieldPayload        protowire.Number = 9
)

// A Header holds what a decoder needs besides the encoded bits.
type Header struct {
	// Length is the number of bytes of the original input.
	Length uint64
	Params Params
	// Counts is the histogram of a Static input, nil for Adaptive.
	Counts []uint64
}

// Marshal returns the artifact holding h and payload, encoded as a protobuf message.
func (h Header) Marshal(payload []byte) []byte {
	b := make([]byte, 0, len(payload)+64)
	b = appendVarintField(b, fieldVersion, headerVersion)
	b = appendVarintField(b, fieldLength, h.Length)
	b = appendVarintField(b, fieldPrecision, uint64(h.Params.Precision))
	b = appendVarintField(b, fieldMode, uint64(h.Params.Mode))
	b = appendVarintField(b, fieldCoder, uint64(h.Params.Coder))
	if h.Params.Mode == Adaptive {
		b = appendVarintField(b, fieldUpdatePeriod, uint64(h.Params.UpdatePeriod))
		b = appendVarintField(b, fieldResetOnRebuild, protowire.EncodeBool(h.Params.ResetOnRebuild))
	}
	if len(h.Counts) > 0 {
		var packed []byte
		for _, c := range h.Counts {
			packed = protowire.AppendVarint(packed, c)
		}
		b = protowire.AppendTag(b, fieldCounts, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
	}
	b = protowire.AppendTag(b, fieldPayload, protowire.BytesType)
	b = protowire.AppendBytes(b, payload)
	return b
}

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// Unmarshal parses an artifact produced by Header.Marshal.
// Unknown fields are skipped. The returned payload aliases b.
func Unmarshal(b []byte) (Header, []byte, error) {
	var h Header
	var payload []byte
	var version uint64
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Header{}, nil, corrupt(protowire.ParseError(n), "tag")
		}
		b = b[n:]

		switch {
		case num == fieldCounts && typ == protowire.BytesType:
			packed, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return Header{}, nil, corrupt(protowire.ParseError(n), "counts")
			}
			b = b[n:]
			for len(packed) > 0 {
				v, m := protowire.ConsumeVarint(packed)
				if m < 0 {
					return Header{}, nil, corrupt(protowire.ParseError(m), "counts")
				}
				packed = packed[m:]
				h.Counts = append(h.Counts, v)
			}
		case num == fieldPayload && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return Header{}, nil, corrupt(protowire.ParseError(n), "payload")
			}
			b = b[n:]
			payload = v
		case typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return Header{}, nil, corrupt(protowire.ParseError(n), "field %d", num)
			}
			b = b[n:]
			switch num {
			case fieldVersion:
				version = v
			case fieldLength:
				h.Length = v
			case fieldPrecision:
				h.Params.Precision = uint(v)
			case fieldMode:
				h.Params.Mode = Mode(v)
			case fieldCoder:
				h.Params.Coder = Coder(v)
			case fieldUpdatePeriod:
				h.Params.UpdatePeriod = int(v)
			case fieldResetOnRebuild:
				h.Params.ResetOnRebuild = protowire.DecodeBool(v)
			case fieldCounts:
				h.Counts = append(h.Counts, v)
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return Header{}, nil, corrupt(protowire.ParseError(n), "field %d", num)
			}
			b = b[n:]
		}
	}

	if version != headerVersion {
		return Header{}, nil, errors.Wrapf(ac.ErrCorruptInput, "header version %d", version)
	}
	if err := h.check(); err != nil {
		return Header{}, nil, err
	}
	return h, payload, nil
}

// check reports whether the header is self consistent.
func (h Header) check() error {
	if err := h.Params.Validate(); err != nil {
		return err
	}
	switch h.Params.Mode {
	case Static:
		if len(h.Counts) != ac.NumSymbols {
			return errors.Wrapf(ac.ErrCorruptInput, "static header with %d counts", len(h.Counts))
		}
	case Adaptive:
		if len(h.Counts) != 0 {
			return errors.Wrapf(ac.ErrCorruptInput, "adaptive header with %d counts", len(h.Counts))
		}
	}
	if h.Length > uint64(maxLength) {
		return errors.Wrapf(ac.ErrCorruptInput, "length %d", h.Length)
	}
	return nil
}

const maxLength = int(^uint(0) >> 1)

func corrupt(err error, format string, args ...interface{}) error {
	return errors.Wrapf(ac.ErrCorruptInput, "%s: %v", fmt.Sprintf(format, args...), err)
}
