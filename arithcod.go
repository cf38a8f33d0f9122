// Package arithcod provides lossless compression of byte sequences with adaptive arithmetic coding.
//
// A byte sequence is coded against a frequency model over the 256 byte values,
// either the static histogram of the whole input or a model that adapts while coding.
// The interval arithmetic is done by one of the realizations under package ac.
// Everything a decoder needs besides the bits, the original length and the Params
// together with the histogram in static mode, travels in a Header.
//
// Below is an example of using this package to compress Lincoln's Gettysburg address:
//    go run compress/main.go gettysburg.txt > gettys.arc
//    cat gettys.arc | go run decompress/main.go > gettys.darc
//    diff gettysburg.txt gettys.darc
package arithcod

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/fumin/arithcod/ac"
	"github.com/fumin/arithcod/ac/freq"
)

// Encode compresses src, returning the Header needed to decode it and the encoded bits.
// Each call owns its model and coder state, so concurrent calls are safe.
func Encode(src []byte, p Params) (Header, []byte, error) {
	if err := p.Validate(); err != nil {
		return Header{}, nil, err
	}
	h := Header{Length: uint64(len(src)), Params: p}

	var model ac.Model
	switch p.Mode {
	case Static:
		m, err := freq.Build(src, p.Precision)
		if err != nil {
			return Header{}, nil, err
		}
		h.Counts = m.Counts()
		model = m
	case Adaptive:
		m, err := p.adaptiveModel()
		if err != nil {
			return Header{}, nil, err
		}
		model = m
	}

	payload, err := engines[p.Coder].encode(src, p.Precision, model)
	if err != nil {
		return Header{}, nil, errors.Wrapf(err, "%v coder", p.Coder)
	}
	return h, payload, nil
}

// Decode reverses Encode.
func Decode(h Header, payload []byte) ([]byte, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	p := h.Params

	var model ac.Model
	switch p.Mode {
	case Static:
		m, err := freq.FromCounts(h.Counts, p.Precision)
		if err != nil {
			return nil, err
		}
		model = m
	case Adaptive:
		m, err := p.adaptiveModel()
		if err != nil {
			return nil, err
		}
		model = m
	}

	dst, err := engines[p.Coder].decode(payload, int(h.Length), p.Precision, model)
	if err != nil {
		return nil, errors.Wrapf(err, "%v coder", p.Coder)
	}
	return dst, nil
}

// Marshal compresses src into a self describing artifact.
func Marshal(src []byte, p Params) ([]byte, error) {
	h, payload, err := Encode(src, p)
	if err != nil {
		return nil, err
	}
	return h.Marshal(payload), nil
}

// Restore decompresses an artifact produced by Marshal.
func Restore(artifact []byte) ([]byte, error) {
	h, payload, err := Unmarshal(artifact)
	if err != nil {
		return nil, err
	}
	return Decode(h, payload)
}

// Compress writes to w the artifact of the file named name.
func Compress(w io.Writer, name string, p Params) error {
	src, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrap(err, "")
	}
	artifact, err := Marshal(src, p)
	if err != nil {
		return errors.Wrap(err, name)
	}
	if _, err := w.Write(artifact); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// Decompress reads an artifact from r and writes the original bytes to w.
func Decompress(w io.Writer, r io.Reader) error {
	artifact, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "")
	}
	dst, err := Restore(artifact)
	if err != nil {
		return err
	}
	if _, err := w.Write(dst); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
