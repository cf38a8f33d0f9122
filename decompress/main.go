package main

import (
	"bufio"
	"flag"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/fumin/arithcod"
)

func run() error {
	w := bufio.NewWriter(os.Stdout)
	if err := arithcod.Decompress(w, os.Stdin); err != nil {
		return errors.Wrap(err, "")
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	if err := run(); err != nil {
		log.Fatalf("%+v", err)
	}
}
