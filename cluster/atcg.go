package main

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// packNucleotides reads a nucleotide sequence and returns it packed four bases to a byte,
// first base in the lowest bits. Bytes other than a, t, c and g in either case are skipped,
// so that line breaks do not affect the complexity of the sequence.
func packNucleotides(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)
	var packed []byte
	var bt byte
	var shift uint
	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "")
		}

		var code byte
		switch c {
		case 'a', 'A':
			code = 0
		case 't', 'T':
			code = 1
		case 'c', 'C':
			code = 2
		case 'g', 'G':
			code = 3
		default:
			continue
		}
		bt |= code << shift
		// 2 bits for 4 different bases.
		shift += 2
		if shift == 8 {
			packed = append(packed, bt)
			bt, shift = 0, 0
		}
	}

	// Left over bases.
	if shift > 0 {
		packed = append(packed, bt)
	}
	return packed, nil
}
