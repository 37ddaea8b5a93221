package fasta

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.fasta")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Write(Record{SeqName: "seq1", Seq: []byte("ACGTACGT")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(string(data), ">seq1\n") {
		t.Fatalf("output did not start with FASTA header, got %q", data)
	}
	if !strings.Contains(string(data), "ACGTACGT") {
		t.Fatalf("output missing sequence, got %q", data)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, err := r.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.SeqName != "seq1" || string(rec.Seq) != "ACGTACGT" {
		t.Fatalf("round-tripped record = %+v", rec)
	}
	if _, err := r.Read(); err != io.EOF {
		t.Fatalf("expected io.EOF after the only record, got %v", err)
	}
}
