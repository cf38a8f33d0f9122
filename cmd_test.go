package arithcod

import (
	"bytes"
	"io"
	"os"
	"testing"
)

func TestCompress(t *testing.T) {
	const name = "gettysburg.txt"

	for _, p := range []Params{
		DefaultParams,
		{Precision: 16, Mode: Static, Coder: Carry},
		{Precision: 24, Mode: Adaptive, UpdatePeriod: 32, ResetOnRebuild: true, Coder: Witten},
	} {
		// Compress
		f, err := os.CreateTemp("", "arithcod.TestCompress.Compress")
		if err != nil {
			t.Fatalf("%v", err)
		}
		defer f.Close()
		defer os.Remove(f.Name())
		if err := Compress(f, name, p); err != nil {
			t.Fatalf("%+v", err)
		}

		// Decompress
		if _, err := f.Seek(0, 0); err != nil {
			t.Fatalf("%v", err)
		}
		df, err := os.CreateTemp("", "arithcod.TestCompress.Decompress")
		if err != nil {
			t.Fatalf("%v", err)
		}
		defer df.Close()
		defer os.Remove(df.Name())
		if err := Decompress(df, f); err != nil {
			t.Fatalf("%+v", err)
		}

		// Check if the decompressed result is the same as the original file
		if _, err := df.Seek(0, 0); err != nil {
			t.Fatalf("%v", err)
		}
		decom, err := io.ReadAll(df)
		if err != nil {
			t.Fatalf("%v", err)
		}
		gettys, err := os.ReadFile(name)
		if err != nil {
			t.Fatalf("%v", err)
		}
		if !bytes.Equal(gettys, decom) {
			t.Errorf("%+v: %q != %q", p, gettys, decom)
		}

		info, err := f.Stat()
		if err != nil {
			t.Fatalf("%v", err)
		}
		t.Logf("%+v: %d bytes compressed to %d", p, len(gettys), info.Size())
		if info.Size() >= int64(len(gettys)) {
			t.Errorf("%+v: no compression, %d >= %d", p, info.Size(), len(gettys))
		}
	}
}

func TestCompressMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := Compress(&buf, "no-such-file.txt", DefaultParams); err == nil {
		t.Errorf("expected error")
	}
}
