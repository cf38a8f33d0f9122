// Command cluster prints the normalized compression distance between every pair of files in a directory.
//
// The complexity of a file is the size of its compressed form, and the distance of x and y is
//    (C(xy) - min(C(x), C(y))) / max(C(x), C(y))
// The resulting matrix can be fed to a hierarchical clustering routine.
package main

import (
	"bytes"
	"compress/gzip"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"github.com/fumin/arithcod"
)

var (
	intelligenceType = flag.String("i", "arith", "complexity measure, arith or gzip")
	dataDir          = flag.String("d", "mammals10", "data directory")
	atcg             = flag.Bool("atcg", false, "pack nucleotide sequences two bits per base before measuring")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	if err := run(*intelligenceType, *dataDir, *atcg); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(intelligence, dir string, atcg bool) error {
	names, err := listFiles(dir)
	if err != nil {
		return errors.Wrap(err, "")
	}
	data := make([][]byte, 0, len(names))
	for _, name := range names {
		b, err := readData(name, atcg)
		if err != nil {
			return errors.Wrap(err, name)
		}
		data = append(data, b)
	}

	c := newComplexity(intelligence)
	distMat, err := distanceMatrix(c, data)
	if err != nil {
		return errors.Wrap(err, "")
	}
	display(names, distMat)
	return nil
}

func readData(name string, atcg bool) ([]byte, error) {
	if !atcg {
		b, err := os.ReadFile(name)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		return b, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer f.Close()
	return packNucleotides(f)
}

func display(names []string, distMat []float64) {
	buf := bytes.NewBuffer(nil)
	for i, fpath := range names {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(filepath.Base(fpath)))
	}
	log.Printf("[%s]", buf.Bytes())

	buf.Reset()
	for i, f := range distMat {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
	}
	log.Printf("[%s]", buf.Bytes())
}

// A complexity measures the compressed size of a byte sequence.
type complexity func([]byte) (float64, error)

func newComplexity(intelligence string) complexity {
	switch intelligence {
	case "gzip":
		return complexityGzip
	default:
		return complexityArith
	}
}

func complexityArith(b []byte) (float64, error) {
	artifact, err := arithcod.Marshal(b, arithcod.DefaultParams)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	return float64(len(artifact)), nil
}

func complexityGzip(b []byte) (float64, error) {
	buf := bytes.NewBuffer(nil)
	zw, err := gzip.NewWriterLevel(buf, gzip.BestCompression)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	if _, err := zw.Write(b); err != nil {
		return -1, errors.Wrap(err, "")
	}
	if err := zw.Close(); err != nil {
		return -1, errors.Wrap(err, "")
	}
	return float64(buf.Len()), nil
}

func distance(c complexity, x, y []byte, kx, ky float64) (float64, error) {
	xy := make([]byte, 0, len(x)+len(y))
	xy = append(xy, x...)
	xy = append(xy, y...)
	kxy, err := c(xy)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}

	minxy, maxxy := kx, ky
	if ky < kx {
		minxy, maxxy = ky, kx
	}
	return (kxy - minxy) / maxxy, nil
}

// distanceMatrix returns the upper triangle of the distance matrix, row by row.
func distanceMatrix(c complexity, data [][]byte) ([]float64, error) {
	k := make([]float64, 0, len(data))
	for _, d := range data {
		kd, err := c(d)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		k = append(k, kd)
	}

	n := len(data)
	if n < 2 {
		return nil, nil
	}
	mat := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			dist, err := distance(c, data[i], data[j], k[i], k[j])
			if err != nil {
				return nil, errors.Wrap(err, "")
			}
			mat = append(mat, dist)
		}
	}
	return mat, nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, filepath.Join(dir, e.Name()))
	}
	return names, nil
}
