package seqsort

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nextstrain/nextclade-sort/fasta"
	"github.com/nextstrain/nextclade-sort/minimizer"
)

func TestNewSortWriterRejectsBothOutputFlags(t *testing.T) {
	if _, err := NewSortWriter("out/{name}.fasta", "outdir", ""); err == nil {
		t.Fatalf("expected an error when both --output and --output-dir are set")
	}
}

func TestNewSortWriterRejectsMissingNameToken(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewSortWriter(filepath.Join(dir, "out.fasta"), "", ""); err == nil {
		t.Fatalf("expected an error when --output is missing the {name} token")
	}
}

func TestNewSortWriterRejectsNeitherFlag(t *testing.T) {
	if _, err := NewSortWriter("", "", ""); err == nil {
		t.Fatalf("expected an error when neither --output nor --output-dir is set")
	}
}

func TestSortWriterFanOutAndResultsTSV(t *testing.T) {
	dir := t.TempDir()
	tsvPath := filepath.Join(dir, "results.tsv")
	sw, err := NewSortWriter(filepath.Join(dir, "{name}.fasta"), "", tsvPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := fasta.Record{Index: 0, SeqName: "s1", Seq: []byte("ACGTACGT")}
	if err := sw.WriteMatches(rec, []minimizer.DatasetResult{{Name: "refA", Score: 0.5, NHits: 10}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recNoMatch := fasta.Record{Index: 1, SeqName: "s2", Seq: []byte("TTTTGGGG")}
	if err := sw.WriteMatches(recNoMatch, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := sw.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fastaData, err := os.ReadFile(filepath.Join(dir, "refA.fasta"))
	if err != nil {
		t.Fatalf("unexpected error reading dataset fasta: %v", err)
	}
	if !strings.Contains(string(fastaData), ">s1") {
		t.Fatalf("refA.fasta missing record s1, got %q", fastaData)
	}

	tsvData, err := os.ReadFile(tsvPath)
	if err != nil {
		t.Fatalf("unexpected error reading results TSV: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(tsvData), "\n"), "\n")
	if lines[0] != "index\tseqName\tdataset\tscore\tnumHits" {
		t.Fatalf("header = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (header + 2 rows): %v", len(lines), lines)
	}
	if !strings.HasPrefix(lines[1], "0\ts1\trefA\t0.5\t10") {
		t.Fatalf("row 1 = %q", lines[1])
	}
	if lines[2] != "1\ts2\t\t\t" {
		t.Fatalf("row 2 (no match) = %q, want blank numeric fields", lines[2])
	}
}

func TestSortWriterExpandsDatasetNamePrefixes(t *testing.T) {
	dir := t.TempDir()
	sw, err := NewSortWriter(filepath.Join(dir, "{name}.fasta"), "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := fasta.Record{Index: 0, SeqName: "s1", Seq: []byte("ACGTACGT")}
	matches := []minimizer.DatasetResult{{Name: "a/b/c", Score: 0.9, NHits: 5}}
	if err := sw.WriteMatches(rec, matches); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sw.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, prefix := range []string{"a", "a/b", "a/b/c"} {
		data, err := os.ReadFile(filepath.Join(dir, prefix+".fasta"))
		if err != nil {
			t.Fatalf("unexpected error reading %s.fasta: %v", prefix, err)
		}
		if !strings.Contains(string(data), ">s1") {
			t.Fatalf("%s.fasta missing record s1, got %q", prefix, data)
		}
	}
}

func TestPrefixNamesExpandsEachPathComponent(t *testing.T) {
	got := prefixNames("a/b/c")
	want := []string{"a", "a/b", "a/b/c"}
	if len(got) != len(want) {
		t.Fatalf("prefixNames(\"a/b/c\") = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("prefixNames(\"a/b/c\")[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
