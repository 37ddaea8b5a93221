package minimizer

import (
	"encoding/binary"
	"sort"

	"github.com/cespare/xxhash"
	"github.com/shenwei356/natsort"
)

// DatasetResult is one dataset's score against a single query sequence.
type DatasetResult struct {
	Name   string
	Score  float64
	NHits  uint64
	Length uint64
}

// SearchResult is the outcome of running MinimizerSearch against one query.
// Datasets is sorted in descending score order, ties broken ascending by
// name (see DESIGN.md "Open Question decisions").
type SearchResult struct {
	Datasets         []DatasetResult
	TotalHits        uint64
	MaxNormalizedHit float64
}

// sanitizeQuery folds the query to uppercase and drops every byte outside
// the strict ACGT alphabet, per spec.md §4.2 step 1. Case and whitespace in
// the input therefore never affect the result.
func sanitizeQuery(seq []byte) []byte {
	out := make([]byte, 0, len(seq))
	for _, b := range seq {
		switch b {
		case 'A', 'C', 'G', 'T':
			out = append(out, b)
		case 'a', 'c', 'g', 't':
			out = append(out, b-('a'-'A'))
		}
	}
	return out
}

func baseBits(b byte) uint64 {
	switch b {
	case 'C':
		return 1
	case 'G':
		return 2
	case 'T':
		return 3
	default: // 'A'
		return 0
	}
}

func hashCanonicalKmer(code uint64, k int) uint64 {
	c := canonical(code, k)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], c)
	return xxhash.Sum64(buf[:])
}

// Minimizers slides a window of windowSize consecutive k-mers along the
// sanitized query and emits each new window minimum exactly once as the
// window advances — the classic monotone-deque minimizer enumeration named
// in spec.md §4.2 step 2. It returns zero minimizers if the sanitized
// sequence is shorter than windowSize+k-1.
func Minimizers(seq []byte, k, windowSize int) []uint64 {
	s := sanitizeQuery(seq)
	l := len(s)
	nKmers := l - k + 1
	if nKmers < windowSize || nKmers <= 0 {
		return nil
	}

	hashes := make([]uint64, nKmers)
	var code uint64
	mask := uint64(1)<<(uint(k)*2) - 1
	for i := 0; i < k; i++ {
		code = (code << 2) | baseBits(s[i])
	}
	hashes[0] = hashCanonicalKmer(code, k)
	for i := 1; i < nKmers; i++ {
		code = ((code << 2) | baseBits(s[i+k-1])) & mask
		hashes[i] = hashCanonicalKmer(code, k)
	}

	// Monotone deque of indices into hashes, increasing hash value front to
	// back, so the window minimum is always at the front.
	deque := make([]int, 0, windowSize)
	var minimizers []uint64
	var lastEmitted uint64
	haveEmitted := false

	for i := 0; i < nKmers; i++ {
		for len(deque) > 0 && deque[0] <= i-windowSize {
			deque = deque[1:]
		}
		for len(deque) > 0 && hashes[deque[len(deque)-1]] >= hashes[i] {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, i)

		if i >= windowSize-1 {
			m := hashes[deque[0]]
			if !haveEmitted || m != lastEmitted {
				minimizers = append(minimizers, m)
				lastEmitted = m
				haveEmitted = true
			}
		}
	}

	return minimizers
}

// Run scans one query sequence against idx and returns a scored, ranked
// list of candidate datasets, following spec.md §4.2.
func Run(seq []byte, idx *Index, params SearchParams) SearchResult {
	minimizers := Minimizers(seq, params.K, params.WindowSize)
	m := len(minimizers)

	hits := make([]uint64, len(idx.References))
	for _, h := range minimizers {
		mask, ok := idx.Table[h]
		if !ok {
			continue
		}
		for i := range idx.References {
			if mask&(uint64(1)<<uint(i)) != 0 {
				hits[i]++
			}
		}
	}

	var results []DatasetResult
	var totalHits uint64
	var maxNormalizedHit float64
	for i, ref := range idx.References {
		totalHits += hits[i]
		if hits[i] == 0 {
			continue
		}

		denom := m
		if int(ref.NKmersTotal) < denom {
			denom = int(ref.NKmersTotal)
		}
		if denom == 0 {
			continue
		}

		score := float64(hits[i]) / float64(denom)
		if score > maxNormalizedHit {
			maxNormalizedHit = score
		}
		if score >= params.Cutoff {
			results = append(results, DatasetResult{
				Name:   ref.Name,
				Score:  score,
				NHits:  hits[i],
				Length: ref.Length,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return natsort.Compare(results[i].Name, results[j].Name, false)
	})

	return SearchResult{
		Datasets:         results,
		TotalHits:        totalHits,
		MaxNormalizedHit: maxNormalizedHit,
	}
}
