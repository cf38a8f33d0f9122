package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/fumin/arithcod"
)

var (
	precision = flag.Uint("precision", arithcod.DefaultParams.Precision, "bits of the coding interval")
	mode      = flag.String("mode", arithcod.DefaultParams.Mode.String(), "frequency model, static or adaptive")
	period    = flag.Int("period", arithcod.DefaultParams.UpdatePeriod, "symbols between rebuilds of an adaptive model")
	reset     = flag.Bool("reset", arithcod.DefaultParams.ResetOnRebuild, "reset adaptive counts after every rebuild")
	coder     = flag.String("coder", arithcod.DefaultParams.Coder.String(), "arithmetic coder, carry or witten")
	output    = flag.String("o", "", "output file, conventionally ending in .arc, stdout if empty")
	verbose   = flag.Bool("verbose", false, "verbosity")

	flagConfig = flag.String("c", "", `JSON configuration overriding the flags above, e.g. {"Mode": "static", "Precision": 24}`)
)

// Config is the JSON form of the coding parameters.
type Config struct {
	Precision      uint
	Mode           string
	UpdatePeriod   int
	ResetOnRebuild bool
	Coder          string
}

func parseConfig() (arithcod.Params, error) {
	config := Config{
		Precision:      *precision,
		Mode:           *mode,
		UpdatePeriod:   *period,
		ResetOnRebuild: *reset,
		Coder:          *coder,
	}
	if *flagConfig != "" {
		if err := json.Unmarshal([]byte(*flagConfig), &config); err != nil {
			return arithcod.Params{}, errors.Wrap(err, "")
		}
	}
	if *verbose {
		configB, err := json.Marshal(config)
		if err != nil {
			return arithcod.Params{}, errors.Wrap(err, "")
		}
		log.Printf("config: %s", configB)
	}

	m, err := arithcod.ParseMode(config.Mode)
	if err != nil {
		return arithcod.Params{}, err
	}
	c, err := arithcod.ParseCoder(config.Coder)
	if err != nil {
		return arithcod.Params{}, err
	}
	p := arithcod.Params{
		Precision:      config.Precision,
		Mode:           m,
		UpdatePeriod:   config.UpdatePeriod,
		ResetOnRebuild: config.ResetOnRebuild,
		Coder:          c,
	}
	if err := p.Validate(); err != nil {
		return arithcod.Params{}, err
	}
	return p, nil
}

func run(name string, p arithcod.Params) error {
	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return errors.Wrap(err, "")
		}
		defer f.Close()
		w = f
	}

	start := time.Now()
	cw := &countingWriter{w: w}
	if err := arithcod.Compress(cw, name, p); err != nil {
		return errors.Wrap(err, "")
	}

	if *verbose {
		info, err := os.Stat(name)
		if err != nil {
			return errors.Wrap(err, "")
		}
		ratio := 0.0
		if info.Size() > 0 {
			ratio = 100 * float64(cw.n) / float64(info.Size())
		}
		log.Printf("original %d bytes, compressed %d bytes, ratio %.2f%%, elapsed %v", info.Size(), cw.n, ratio, time.Since(start))
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] filename\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	name := flag.Arg(0)
	if name == "" {
		flag.Usage()
		os.Exit(1)
	}

	p, err := parseConfig()
	if err != nil {
		log.Fatalf("%+v", err)
	}
	if err := run(name, p); err != nil {
		log.Fatalf("%+v", err)
	}
}
