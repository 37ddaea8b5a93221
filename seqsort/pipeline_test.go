package seqsort

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/nextstrain/nextclade-sort/fasta"
	"github.com/nextstrain/nextclade-sort/minimizer"
)

func writeFasta(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func testIndex() *minimizer.Index {
	return &minimizer.Index{
		Version:    minimizer.MinimizerIndexAlgoVersion,
		Params:     minimizer.SearchParams{K: 3, WindowSize: 2, Cutoff: 0.01},
		References: []minimizer.ReferenceInfo{{Name: "refX", Length: 100, NKmersTotal: 100}},
		Table:      map[uint64]uint64{}, // empty table: every search yields zero candidates
	}
}

func TestPipelineRunOnlineCoversEveryRecordExactlyOnce(t *testing.T) {
	dir := t.TempDir()
	f1 := writeFasta(t, dir, "a.fasta", ">s1\nACGTACGT\n>s2\nTTTTGGGG\n")
	f2 := writeFasta(t, dir, "b.fasta", ">s3\nCCCCAAAA\n")

	idx := testIndex()
	params := idx.Params
	p := New(idx, params, 3)

	var mu sync.Mutex
	var got []SortedRecord
	err := p.RunOnline([]string{f1, f2}, func(sr SortedRecord) error {
		mu.Lock()
		got = append(got, sr)
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}

	sort.Slice(got, func(i, j int) bool { return got[i].Index < got[j].Index })
	wantNames := []string{"s1", "s2", "s3"}
	for i, want := range wantNames {
		if got[i].Index != uint64(i) {
			t.Fatalf("got[%d].Index = %d, want %d", i, got[i].Index, i)
		}
		if got[i].SeqName != want {
			t.Fatalf("got[%d].SeqName = %q, want %q", i, got[i].SeqName, want)
		}
	}
}

func TestPipelineRunGlobalPreservesInputOrderOnEmit(t *testing.T) {
	dir := t.TempDir()
	f1 := writeFasta(t, dir, "a.fasta", ">s1\nACGTACGT\n>s2\nTTTTGGGG\n>s3\nCCCCAAAA\n")

	idx := testIndex()
	params := idx.Params
	p := New(idx, params, 2)

	var emitOrder []string
	err := p.RunGlobal(
		[]string{f1},
		func(buffered []SortedRecord) map[uint64]string { return map[uint64]string{} },
		func(rec fasta.Record, assignedDataset string, result minimizer.SearchResult) error {
			emitOrder = append(emitOrder, rec.SeqName)
			return nil
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"s1", "s2", "s3"}
	if len(emitOrder) != len(want) {
		t.Fatalf("emitOrder = %v, want %v", emitOrder, want)
	}
	for i := range want {
		if emitOrder[i] != want[i] {
			t.Fatalf("emitOrder = %v, want %v", emitOrder, want)
		}
	}
}
